package tui

import (
	"os"
	"strings"
	"sync"
)

// Some terminal fonts render box and arrow glyphs poorly, so every sidebar
// affordance has an ASCII fallback.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

// applyGlyphPreference picks the glyph set: FIELDBAR_TUI_GLYPHS wins over the configured value.
func applyGlyphPreference(configured string) {
	v := strings.TrimSpace(os.Getenv("FIELDBAR_TUI_GLYPHS"))
	if v == "" {
		v = configured
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	gs := currentGlyphs
	glyphsMu.RUnlock()
	return gs
}

func pick(unicode, ascii string) string {
	if glyphs() == glyphSetASCII {
		return ascii
	}
	return unicode
}

func glyphTwistyCollapsed() string { return pick("▸", ">") }
func glyphTwistyExpanded() string  { return pick("▾", "v") }
func glyphGrip() string            { return pick("⋮", ":") }
func glyphActive() string          { return pick("●", "*") }
func glyphInactive() string        { return pick("○", "o") }
func glyphFiltered() string        { return pick("◆", "#") }
func glyphSubfield() string        { return pick("↳", "-") }
func glyphHRule() string           { return pick("─", "-") }
