package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

type confirmFocus int

const (
	confirmFocusConfirm confirmFocus = iota
	confirmFocusCancel
)

func modalWidth(screenW int) int {
	w := screenW - 8
	if w > 60 {
		w = 60
	}
	if w < 24 {
		w = 24
	}
	return w
}

// modalBodyWidth is the content width inside renderModalBox's padding.
func modalBodyWidth(w int) int {
	return max(w-4, 10)
}

func renderModalBox(w int, title, body string) string {
	bodyW := modalBodyWidth(w)
	header := lipgloss.NewStyle().
		Width(bodyW).
		Bold(true).
		Foreground(colorSurfaceFg).
		Background(colorControlBg).
		Padding(0, 1).
		Render(title)
	box := lipgloss.NewStyle().
		Width(w).
		Padding(1, 2).
		Foreground(colorSurfaceFg).
		Background(colorSurfaceBg)
	return box.Render(header + "\n\n" + body)
}

func renderInputLine(bodyW int, inputView string) string {
	if bodyW < 10 {
		bodyW = 10
	}
	// Keep the input on one visual line inside the modal.
	inputView = strings.NewReplacer("\n", " ", "\r", " ").Replace(inputView)

	line := lipgloss.PlaceHorizontal(
		bodyW,
		lipgloss.Left,
		" "+inputView+" ",
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceBackground(colorInputBg),
	)
	if xansi.StringWidth(line) > bodyW {
		// Terminate styling so the background does not bleed past the modal.
		line = xansi.Cut(line, 0, bodyW) + "\x1b[0m"
	}
	return line
}

func renderConfirmModal(w int, title, body, confirmLabel, cancelLabel string, focus confirmFocus) string {
	btn := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(colorSurfaceFg).
		Background(colorControlBg)
	btnActive := btn.
		Foreground(colorSelectedFg).
		Background(colorSelectedBg).
		Bold(true)

	confirm, cancel := btn.Render(confirmLabel), btn.Render(cancelLabel)
	if focus == confirmFocusConfirm {
		confirm = btnActive.Render(confirmLabel)
	} else {
		cancel = btnActive.Render(cancelLabel)
	}
	controls := lipgloss.JoinHorizontal(lipgloss.Top, confirm, " ", cancel)
	help := styleMuted().Width(modalBodyWidth(w)).Render("tab: focus   enter: select   esc: cancel")

	return renderModalBox(w, title, strings.Join([]string{body, "", controls, "", help}, "\n"))
}

// placeModal centers a modal box on an otherwise blank screen.
func placeModal(fg string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, fg,
		lipgloss.WithWhitespaceChars(" "))
}

func newInput(value string, limit int, placeholder string, width int) textinput.Model {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Width = max(width, 10)
	in.SetValue(value)
	in.CursorEnd()
	return in
}
