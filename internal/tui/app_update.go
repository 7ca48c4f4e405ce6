package tui

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"fieldbar/internal/sidebar"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"
)

const maxSearchResults = 8

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case tweenTickMsg:
		if m.panes[msg.context].tw.Advance() {
			return m, tweenCmd(msg.context)
		}
		m.ticking[msg.context] = false
		m.panes[msg.context].clampScroll()
		return m, nil

	case flashClearMsg:
		if msg.seq == m.flashSeq {
			m.flash, m.flashErr = "", false
		}
		return m, nil

	case tea.MouseMsg:
		if m.mode != modeNormal {
			return m, nil
		}
		return m.updateMouse(msg)

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		switch m.mode {
		case modeRename, modeAdd:
			return m.updateNameInput(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		case modeSearch:
			return m.updateSearch(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

// animate schedules tween ticks for pane i if any of its entries is moving.
func (m *appModel) animate(i int) tea.Cmd {
	if m.ticking[i] || !m.panes[i].tw.Animating() {
		return nil
	}
	m.ticking[i] = true
	return tweenCmd(i)
}

func (m *appModel) setFlash(msg string, isErr bool) tea.Cmd {
	m.flashSeq++
	m.flash, m.flashErr = msg, isErr
	seq := m.flashSeq
	return tea.Tick(flashDuration, func(time.Time) tea.Msg { return flashClearMsg{seq: seq} })
}

func (m appModel) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	p := m.pane()
	if msg.Action == tea.MouseActionPress && msg.X >= m.sidebarWidth() {
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			p.scrollBy(-1)
			return m, nil
		case tea.MouseButtonWheelDown:
			p.scrollBy(1)
			return m, nil
		}
		k, ok := p.hitTest(msg.Y)
		if !ok {
			return m, nil
		}
		if p.selectable(k) {
			p.selected = k
		}
		if e := p.entries[k]; e.Kind == sidebar.KindTail && msg.Button == tea.MouseButtonLeft {
			return m.openAdd()
		}
		p.ctrl.PointerDown(k, msg.Button == tea.MouseButtonLeft, float64(msg.Y))
		return m, nil

	case tea.MouseActionMotion:
		if p.ctrl.State() == sidebar.DragIdle {
			return m, nil
		}
		p.ctrl.PointerMove(float64(msg.Y))
		cmd := m.animate(m.active)
		return m, cmd

	case tea.MouseActionRelease:
		k := p.ctrl.ActiveKey()
		switch p.ctrl.PointerUp(float64(msg.Y)) {
		case sidebar.OutcomeClick:
			return m.click(k)
		case sidebar.OutcomeCommitted:
			p.selected = k
			p.ensureVisible(k)
		}
	}
	return m, nil
}

// click is the shared pointer-click / enter action.
func (m appModel) click(k string) (tea.Model, tea.Cmd) {
	p := m.pane()
	e, ok := p.entries[k]
	if !ok {
		return m, nil
	}
	switch e.Kind {
	case sidebar.KindGroup:
		if _, err := p.store.ToggleExpanded(e.Name); err != nil {
			cmd := m.setFlash(err.Error(), true)
			return m, cmd
		}
	case sidebar.KindPath:
		p.togglePathExpanded(e.Path)
		p.ensureVisible(k)
	case sidebar.KindTail:
		return m.openAdd()
	}
	return m, nil
}

func (m appModel) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.pane()
	e, hasSel := p.selectedEntry()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Cancel):
		p.ctrl.Cancel()
		m.showInfo = false
		return m, nil

	case key.Matches(msg, m.keys.Context):
		p.ctrl.Cancel()
		m.active = (m.active + 1) % len(m.panes)
		return m, nil

	case key.Matches(msg, m.keys.Up):
		p.moveSelection(-1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		p.moveSelection(1)
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		p.scrollBy(-p.rows)
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		p.scrollBy(p.rows)
		return m, nil

	case key.Matches(msg, m.keys.MoveUp), key.Matches(msg, m.keys.MoveDown):
		if !hasSel {
			return m, nil
		}
		dir := 1
		if key.Matches(msg, m.keys.MoveUp) {
			dir = -1
		}
		if p.ctrl.Step(p.selected, dir) == sidebar.OutcomeCommitted {
			p.ensureVisible(p.selected)
		}
		return m, nil

	case key.Matches(msg, m.keys.Click):
		if !hasSel {
			return m, nil
		}
		return m.click(p.selected)

	case key.Matches(msg, m.keys.Rename):
		if !hasSel || e.Kind != sidebar.KindGroup {
			cmd := m.setFlash("select a group to rename", true)
			return m, cmd
		}
		m.renameTarget = e.Name
		return m.openInput(modeRename, e.Name, sidebar.MaxRenameLength, "group name")

	case key.Matches(msg, m.keys.Add):
		return m.openAdd()

	case key.Matches(msg, m.keys.Delete):
		if !hasSel || e.Kind != sidebar.KindGroup {
			cmd := m.setFlash("select a group to delete", true)
			return m, cmd
		}
		m.mode = modeConfirmDelete
		m.deleteTarget = e.Name
		m.confirm = confirmFocusCancel
		return m, nil

	case key.Matches(msg, m.keys.Reset):
		p.ctrl.Cancel()
		p.store.Reset()
		cmd := m.setFlash(p.title+" groups reset to defaults", false)
		return m, cmd

	case key.Matches(msg, m.keys.Active), key.Matches(msg, m.keys.Filter):
		if !hasSel || e.Kind != sidebar.KindPath {
			cmd := m.setFlash("select a field", true)
			return m, cmd
		}
		if key.Matches(msg, m.keys.Active) {
			p.toggleActive(e.Path)
		} else {
			p.toggleFiltered(e.Path)
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.searchResults, m.searchCursor = nil, 0
		mm, cmd := m.openInput(modeSearch, "", 0, "field path")
		next := mm.(appModel)
		next.runSearch()
		return next, cmd

	case key.Matches(msg, m.keys.Info):
		m.showInfo = !m.showInfo
		return m, nil

	case key.Matches(msg, m.keys.ShowAllKey):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	return m, nil
}

func (m appModel) openAdd() (tea.Model, tea.Cmd) {
	return m.openInput(modeAdd, "", sidebar.MaxAddLength, "new group")
}

func (m appModel) openInput(md mode, value string, limit int, placeholder string) (tea.Model, tea.Cmd) {
	m.pane().ctrl.Cancel()
	m.mode = md
	m.modalErr = ""
	m.input = newInput(value, limit, placeholder, modalBodyWidth(modalWidth(m.width))-4)
	cmd := m.input.Focus()
	return m, cmd
}

func (m appModel) closeModal() appModel {
	m.mode = modeNormal
	m.modalErr = ""
	m.input.Blur()
	return m
}

func (m appModel) updateNameInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.pane()
	switch msg.Type {
	case tea.KeyEsc:
		return m.closeModal(), nil
	case tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		var err error
		if m.mode == modeRename {
			err = p.store.RenameGroup(m.renameTarget, value)
		} else {
			err = p.store.AddGroup(value)
		}
		if err != nil {
			m.modalErr = nameErrorMessage(err)
			return m, nil
		}
		done := "added group " + strings.ToUpper(value)
		if m.mode == modeRename {
			done = fmt.Sprintf("renamed %s to %s", strings.ToUpper(m.renameTarget), strings.ToUpper(value))
		}
		m = m.closeModal()
		k := sidebar.KeyOf(sidebar.GroupEntry(value))
		if _, ok := p.entries[k]; ok {
			p.selected = k
			p.ensureVisible(k)
		}
		cmd := m.setFlash(done, false)
		return m, cmd
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.modalErr = ""
	return m, cmd
}

func nameErrorMessage(err error) string {
	var dup sidebar.DuplicateGroupError
	if errors.As(err, &dup) {
		return dup.Error()
	}
	var invalid sidebar.InvalidGroupNameError
	if errors.As(err, &invalid) {
		if invalid.Reason == "empty" {
			return "group name is empty"
		}
		return "group name is too long"
	}
	return err.Error()
}

func (m appModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "n":
		return m.closeModal(), nil
	case "tab", "shift+tab", "left", "right", "h", "l":
		if m.confirm == confirmFocusConfirm {
			m.confirm = confirmFocusCancel
		} else {
			m.confirm = confirmFocusConfirm
		}
		return m, nil
	case "y":
		m.confirm = confirmFocusConfirm
		fallthrough
	case "enter":
		target := m.deleteTarget
		confirmed := m.confirm == confirmFocusConfirm
		m = m.closeModal()
		if !confirmed {
			return m, nil
		}
		if err := m.pane().store.DeleteGroup(target); err != nil {
			cmd := m.setFlash(err.Error(), true)
			return m, cmd
		}
		cmd := m.setFlash("deleted group "+strings.ToUpper(target), false)
		return m, cmd
	}
	return m, nil
}

func (m appModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m.closeModal(), nil
	case tea.KeyUp:
		m.searchCursor = max(m.searchCursor-1, 0)
		return m, nil
	case tea.KeyDown:
		m.searchCursor = min(m.searchCursor+1, max(len(m.searchResults)-1, 0))
		return m, nil
	case tea.KeyEnter:
		if len(m.searchResults) == 0 {
			return m, nil
		}
		path := m.searchResults[m.searchCursor]
		m = m.closeModal()
		m.jumpTo(path)
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.runSearch()
	return m, cmd
}

func (m *appModel) runSearch() {
	paths := m.pane().paths()
	q := strings.TrimSpace(m.input.Value())
	if q == "" {
		m.searchResults = paths[:min(len(paths), maxSearchResults)]
	} else {
		m.searchResults = m.searchResults[:0]
		for _, match := range fuzzy.Find(q, paths) {
			m.searchResults = append(m.searchResults, match.Str)
			if len(m.searchResults) == maxSearchResults {
				break
			}
		}
	}
	m.searchCursor = min(m.searchCursor, max(len(m.searchResults)-1, 0))
}

// jumpTo selects path, expanding its group first when collapsed.
func (m *appModel) jumpTo(path string) {
	p := m.pane()
	if g := p.groupOf(path); g != "" && !p.store.Expanded(g) {
		_, _ = p.store.ToggleExpanded(g)
	}
	k := sidebar.KeyOf(sidebar.PathEntry(path, true))
	if slices.Contains(p.order, k) {
		p.selected = k
		p.ensureVisible(k)
	}
}
