package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"fieldbar/internal/schema"
	"fieldbar/internal/sidebar"
	"fieldbar/internal/store"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	paneGrid = iota
	paneModal
)

// Screen rows above the list: context tabs and a rule.
const listTop = 2

const flashDuration = 3 * time.Second

type mode int

const (
	modeNormal mode = iota
	modeRename
	modeAdd
	modeConfirmDelete
	modeSearch
)

type flashClearMsg struct{ seq int }

type appModel struct {
	idx    *schema.Index
	logger *log.Logger

	panes  [2]*sidebarPane
	active int
	// ticking holds whether a tween tick is in flight per pane.
	ticking [2]bool

	width  int
	height int

	keys     keyMap
	help     help.Model
	showInfo bool

	mode         mode
	input        textinput.Model
	modalErr     string
	renameTarget string
	deleteTarget string
	confirm      confirmFocus

	searchResults []string
	searchCursor  int

	flash    string
	flashErr bool
	flashSeq int
}

func newAppModel(idx *schema.Index, cfg store.TUIConfig, logger *log.Logger) appModel {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	layout := sidebar.Layout{Margin: float64(cfg.RowGap)}
	duration := time.Duration(cfg.AnimationMs) * time.Millisecond

	m := appModel{
		idx:    idx,
		logger: logger,
		keys:   defaultKeyMap(),
		help:   help.New(),
		input:  textinput.New(),
		width:  80,
		height: 24,
	}
	for i, title := range []string{"grid", "sample modal"} {
		m.panes[i] = newSidebarPane(paneOptions{
			id:     i,
			title:  title,
			idx:    idx,
			layout: layout,
			tween:  newTween(duration),
			logger: logger,
		})
	}
	m.resize()
	return m
}

func (m appModel) Init() tea.Cmd { return nil }

func (m appModel) pane() *sidebarPane { return m.panes[m.active] }

func (m appModel) sidebarWidth() int {
	w := m.width / 2
	return min(max(w, 24), 44)
}

func (m *appModel) resize() {
	rows := max(m.height-listTop-2, 1)
	for _, p := range m.panes {
		p.resize(listTop, rows)
		p.relayout()
	}
	m.help.Width = m.width
}

func (m appModel) View() string {
	switch m.mode {
	case modeRename, modeAdd, modeConfirmDelete, modeSearch:
		return placeModal(m.modalView(), m.width, m.height)
	}

	p := m.pane()
	sideW := m.sidebarWidth()
	rows := p.rows
	left := p.view(sideW)
	right := normalizePane(m.detailView(m.width-sideW-1), max(m.width-sideW-1, 0), rows)
	sep := normalizePane(strings.TrimRight(strings.Repeat("│\n", rows), "\n"), 1, rows)
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, styleMuted().Render(sep), right)

	return strings.Join([]string{
		m.tabsView(),
		styleMuted().Render(strings.Repeat(glyphHRule(), max(m.width, 1))),
		body,
		m.flashView(),
		m.help.View(m.keys),
	}, "\n")
}

func (m appModel) tabsView() string {
	on := lipgloss.NewStyle().Bold(true).Foreground(colorSelectedFg).Background(colorSelectedBg).Padding(0, 1)
	off := lipgloss.NewStyle().Foreground(colorChromeFg).Padding(0, 1)
	var tabs []string
	for i, p := range m.panes {
		label := strings.ToUpper(p.title)
		if i == m.active {
			tabs = append(tabs, on.Render(label))
		} else {
			tabs = append(tabs, off.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m appModel) flashView() string {
	if m.flash == "" {
		return ""
	}
	fg := colorFlashInfo
	if m.flashErr {
		fg = colorFlashErr
	}
	return lipgloss.NewStyle().Foreground(fg).Render(m.flash)
}

// detailView describes the selection; with info on, it renders the field's
// schema as markdown.
func (m appModel) detailView(width int) string {
	p := m.pane()
	e, ok := p.selectedEntry()
	if !ok {
		return ""
	}
	muted := styleMuted()
	switch e.Kind {
	case sidebar.KindGroup:
		paths, _ := p.store.Group(e.Name)
		lines := []string{
			lipgloss.NewStyle().Bold(true).Render(strings.ToUpper(e.Name)),
			muted.Render(fmt.Sprintf("%d fields", len(paths))),
			muted.Render(fmt.Sprintf("%d active, %d filtered",
				p.store.ActiveCount(e.Name, p.activeList()),
				p.store.FilteredCount(e.Name, func(path string) bool { return p.filtered[path] }))),
		}
		return strings.Join(lines, "\n")
	case sidebar.KindPath:
		if m.showInfo {
			if md := fieldInfoMarkdown(m.idx, e.Path); md != "" {
				return renderMarkdown(md, width)
			}
		}
		lines := []string{lipgloss.NewStyle().Bold(true).Render(e.Path)}
		if f, ok := m.fieldOf(e.Path); ok {
			lines = append(lines, muted.Render(f))
		}
		lines = append(lines, muted.Render("in "+p.groupOf(e.Path)), "", muted.Render("? for field info"))
		return strings.Join(lines, "\n")
	case sidebar.KindTail:
		return muted.Render("enter or click to add a group")
	}
	return ""
}

func (m appModel) fieldOf(path string) (string, bool) {
	if m.idx == nil {
		return "", false
	}
	f, ok := m.idx.Field(path)
	if !ok {
		return "", false
	}
	if f.EmbeddedDocType != "" {
		return f.FType + " " + f.EmbeddedDocType, true
	}
	return f.FType, true
}

func (m appModel) modalView() string {
	w := modalWidth(m.width)
	bodyW := modalBodyWidth(w)
	errLine := ""
	if m.modalErr != "" {
		errLine = "\n" + lipgloss.NewStyle().Foreground(colorFlashErr).Render(m.modalErr)
	}
	help := styleMuted().Render("enter: save   esc: cancel")

	switch m.mode {
	case modeRename:
		return renderModalBox(w, "Rename "+strings.ToUpper(m.renameTarget),
			renderInputLine(bodyW, m.input.View())+errLine+"\n\n"+help)
	case modeAdd:
		return renderModalBox(w, "Add group", renderInputLine(bodyW, m.input.View())+errLine+"\n\n"+help)
	case modeConfirmDelete:
		body := fmt.Sprintf("Delete %s? Its fields move to the neighbouring group.", strings.ToUpper(m.deleteTarget))
		return renderConfirmModal(w, "Delete group", body, "Delete", "Cancel", m.confirm)
	case modeSearch:
		lines := []string{renderInputLine(bodyW, m.input.View()), ""}
		for i, path := range m.searchResults {
			st := lipgloss.NewStyle()
			if i == m.searchCursor {
				st = st.Foreground(colorSelectedFg).Background(colorSelectedBg)
			}
			lines = append(lines, st.Render(fitLine(path, bodyW)))
		}
		if len(m.searchResults) == 0 {
			lines = append(lines, styleMuted().Render("no matching fields"))
		}
		lines = append(lines, "", styleMuted().Render("enter: jump   ↑/↓: choose   esc: cancel"))
		return renderModalBox(w, "Find field", strings.Join(lines, "\n"))
	}
	return ""
}
