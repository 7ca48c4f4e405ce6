package tui

import (
	"fieldbar/internal/schema"
	"fieldbar/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

// Run shows both sidebar contexts for the schema until the user quits.
func Run(idx *schema.Index, cfg store.TUIConfig, logger *log.Logger) error {
	applyColorProfilePreference()
	applyThemePreference(cfg.Theme)
	applyGlyphPreference(cfg.Glyphs)

	m := newAppModel(idx, cfg, logger)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
