package tui

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"fieldbar/internal/schema"
	"fieldbar/internal/sidebar"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// sidebarPane is one sidebar context (grid or sample modal): its own Group
// Store, Drag Controller and tween, plus the in-memory filter/active sets the
// surrounding app would normally own.
type sidebarPane struct {
	id     int
	title  string
	idx    *schema.Index
	logger *log.Logger

	store *sidebar.Store
	ctrl  *sidebar.Controller
	tw    *tween

	entries map[string]sidebar.Entry
	order   []string
	heights map[string]float64

	filtered      map[string]bool
	active        map[string]bool
	expandedPaths map[string]bool

	selected string
	scroll   int
	listTop  int
	rows     int
}

type paneOptions struct {
	id     int
	title  string
	idx    *schema.Index
	layout sidebar.Layout
	tween  *tween
	logger *log.Logger
}

func newSidebarPane(o paneOptions) *sidebarPane {
	logger := o.logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	logger = logger.With("context", o.title)

	var src sidebar.SchemaSource
	if o.idx != nil {
		src = o.idx
	}
	p := &sidebarPane{
		id:            o.id,
		title:         o.title,
		idx:           o.idx,
		logger:        logger,
		tw:            o.tween,
		entries:       map[string]sidebar.Entry{},
		heights:       map[string]float64{},
		filtered:      map[string]bool{},
		active:        map[string]bool{},
		expandedPaths: map[string]bool{},
	}
	p.store = sidebar.NewStore(sidebar.ForSchema(src), logger)
	p.ctrl = sidebar.NewController(p.store, o.layout, p, p.tw, logger)
	p.store.Subscribe(func(sidebar.Change) {
		p.refresh()
		p.ctrl.Relayout()
	})
	p.refresh()
	p.ctrl.Relayout()
	return p
}

// Height implements sidebar.Measurer.
func (p *sidebarPane) Height(key string) (float64, bool) {
	h, ok := p.heights[key]
	return h, ok
}

// refresh re-reads the store and remeasures every entry.
func (p *sidebarPane) refresh() {
	entries := p.store.Entries()
	clear(p.entries)
	clear(p.heights)
	p.order = p.order[:0]
	for _, e := range entries {
		k := sidebar.KeyOf(e)
		p.entries[k] = e
		p.order = append(p.order, k)
		p.heights[k] = float64(p.entryHeight(e))
	}
	if _, ok := p.entries[p.selected]; !ok || !p.selectable(p.selected) {
		p.selected = ""
		if keys := p.selectableKeys(); len(keys) > 0 {
			p.selected = keys[0]
		}
	}
}

// relayout remeasures and snaps everything to rest. Use it for changes the
// store does not see (path expansion, resize).
func (p *sidebarPane) relayout() {
	p.refresh()
	p.ctrl.Relayout()
}

func (p *sidebarPane) entryHeight(e sidebar.Entry) int {
	if e.Kind == sidebar.KindPath && p.expandedPaths[e.Path] {
		return 1 + len(p.filterTargets(e.Path))
	}
	return 1
}

func (p *sidebarPane) filterTargets(path string) []schema.FilterTarget {
	if p.idx == nil {
		return nil
	}
	return p.idx.FilterTargets(p.idx.ExpandPath(path))
}

func (p *sidebarPane) resize(listTop, rows int) {
	p.listTop = listTop
	p.rows = max(rows, 1)
	p.clampScroll()
}

func (p *sidebarPane) contentRows() int {
	n := 0
	for _, k := range p.order {
		row, ok := p.tw.Row(k)
		if !ok {
			continue
		}
		n = max(n, row+int(p.heights[k]))
	}
	return n
}

func (p *sidebarPane) clampScroll() {
	limit := max(p.contentRows()-p.rows, 0)
	p.scroll = min(max(p.scroll, 0), limit)
}

func (p *sidebarPane) scrollBy(n int) {
	p.scroll += n
	p.clampScroll()
}

func (p *sidebarPane) ensureVisible(key string) {
	row, ok := p.tw.Row(key)
	if !ok {
		return
	}
	h := int(p.heights[key])
	if row < p.scroll {
		p.scroll = row
	} else if row+h > p.scroll+p.rows {
		p.scroll = row + h - p.rows
	}
	p.clampScroll()
}

func (p *sidebarPane) selectable(key string) bool {
	e, ok := p.entries[key]
	return ok && e.Visible() && e.Kind != sidebar.KindEmpty
}

func (p *sidebarPane) selectableKeys() []string {
	var out []string
	for _, k := range p.order {
		if p.selectable(k) {
			out = append(out, k)
		}
	}
	return out
}

func (p *sidebarPane) moveSelection(dir int) {
	keys := p.selectableKeys()
	if len(keys) == 0 {
		return
	}
	i := slices.Index(keys, p.selected)
	i = min(max(i+dir, 0), len(keys)-1)
	p.selected = keys[i]
	p.ensureVisible(p.selected)
}

// selectedEntry returns the selected entry, if any.
func (p *sidebarPane) selectedEntry() (sidebar.Entry, bool) {
	e, ok := p.entries[p.selected]
	return e, ok
}

// groupOf returns the name of the group currently holding path.
func (p *sidebarPane) groupOf(path string) string {
	group := ""
	for _, k := range p.order {
		e := p.entries[k]
		switch {
		case e.Kind == sidebar.KindGroup:
			group = e.Name
		case e.Kind == sidebar.KindPath && e.Path == path:
			return group
		}
	}
	return ""
}

// paths lists every path in sidebar order.
func (p *sidebarPane) paths() []string {
	var out []string
	for _, k := range p.order {
		if e := p.entries[k]; e.Kind == sidebar.KindPath {
			out = append(out, e.Path)
		}
	}
	return out
}

func (p *sidebarPane) activeList() []string {
	out := make([]string, 0, len(p.active))
	for path, on := range p.active {
		if on {
			out = append(out, path)
		}
	}
	slices.Sort(out)
	return out
}

func (p *sidebarPane) toggleActive(path string) bool {
	p.active[path] = !p.active[path]
	return p.active[path]
}

func (p *sidebarPane) toggleFiltered(path string) bool {
	p.filtered[path] = !p.filtered[path]
	return p.filtered[path]
}

func (p *sidebarPane) togglePathExpanded(path string) {
	p.expandedPaths[path] = !p.expandedPaths[path]
	p.relayout()
}

// hitTest maps a screen row to the entry painted there. Dragged rows are on top.
func (p *sidebarPane) hitTest(screenY int) (string, bool) {
	row := screenY - p.listTop + p.scroll
	if screenY < p.listTop || screenY >= p.listTop+p.rows {
		return "", false
	}
	for _, dragged := range []bool{true, false} {
		for _, k := range p.order {
			pl, ok := p.tw.Placement(k)
			if !ok || pl.Hidden() || pl.Dragging() != dragged {
				continue
			}
			top, _ := p.tw.Row(k)
			if row >= top && row < top+int(p.heights[k]) {
				return k, true
			}
		}
	}
	return "", false
}

// view paints the visible window of the list, width columns wide. Entries sit
// at their tweened rows; the dragged section is painted last.
func (p *sidebarPane) view(width int) string {
	canvas := make([]string, max(p.contentRows(), p.scroll+p.rows))
	for _, dragged := range []bool{false, true} {
		for _, k := range p.order {
			pl, ok := p.tw.Placement(k)
			if !ok || pl.Hidden() || pl.Dragging() != dragged {
				continue
			}
			top, _ := p.tw.Row(k)
			for i, ln := range p.renderEntry(k, width, dragged) {
				if r := top + i; r >= 0 && r < len(canvas) {
					canvas[r] = ln
				}
			}
		}
	}
	window := canvas[p.scroll:min(p.scroll+p.rows, len(canvas))]
	return normalizePane(strings.Join(window, "\n"), width, p.rows)
}

func (p *sidebarPane) renderEntry(key string, width int, dragged bool) []string {
	e := p.entries[key]
	base := lipgloss.NewStyle()
	switch {
	case dragged:
		base = base.Background(colorDragBg).Foreground(colorDragFg)
	case key == p.selected:
		base = base.Background(colorSelectedBg).Foreground(colorSelectedFg)
	}

	switch e.Kind {
	case sidebar.KindGroup:
		twisty := glyphTwistyExpanded()
		if !p.store.Expanded(e.Name) {
			twisty = glyphTwistyCollapsed()
		}
		name := twisty + " " + strings.ToUpper(e.Name)
		pills := p.groupPills(e.Name)
		gap := max(width-lipgloss.Width(name)-lipgloss.Width(pills), 1)
		return []string{base.Bold(true).Render(fitLine(name+strings.Repeat(" ", gap)+pills, width))}

	case sidebar.KindPath:
		mark := glyphInactive()
		if p.active[e.Path] {
			mark = glyphActive()
		}
		line := fmt.Sprintf("  %s %s %s", glyphGrip(), mark, e.Path)
		if p.filtered[e.Path] {
			line += " " + glyphFiltered()
		}
		st := base
		if p.active[e.Path] && !dragged && key != p.selected {
			st = st.Foreground(colorActiveFg)
		}
		out := []string{st.Render(fitLine(line, width))}
		if p.expandedPaths[e.Path] {
			sub := base
			if !dragged && key != p.selected {
				sub = styleMuted()
			}
			for _, t := range p.filterTargets(e.Path) {
				label := t.Path
				if t.Named {
					label = strings.TrimPrefix(t.Path, p.idx.ExpandPath(e.Path)+".")
				}
				out = append(out, sub.Render(fitLine(fmt.Sprintf("      %s %s  %s", glyphSubfield(), label, t.FType), width)))
			}
		}
		return out

	case sidebar.KindEmpty:
		return []string{styleMuted().Render(fitLine("    no fields", width))}

	default:
		st := base
		if key != p.selected {
			st = st.Foreground(colorAccent)
		}
		return []string{st.Render(fitLine("+ add group", width))}
	}
}

// groupPills renders the active and filtered counts of a group header.
func (p *sidebarPane) groupPills(group string) string {
	var parts []string
	if n := p.store.ActiveCount(group, p.activeList()); n > 0 {
		parts = append(parts, fmt.Sprintf("%s%d", glyphActive(), n))
	}
	if n := p.store.FilteredCount(group, func(path string) bool { return p.filtered[path] }); n > 0 {
		parts = append(parts, fmt.Sprintf("%s%d", glyphFiltered(), n))
	}
	return strings.Join(parts, " ")
}
