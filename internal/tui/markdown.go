package tui

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"fieldbar/internal/model"
	"fieldbar/internal/schema"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

var (
	mdRendererMu sync.Mutex
	// Renderers are cached by style and wrap width. WithAutoStyle can block on
	// terminal background queries, so a fixed style is chosen up front.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

func renderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	width = max(width, 10)

	style := markdownStyle()
	key := style + ":" + strconv.Itoa(width)

	mdRendererMu.Lock()
	r := mdRenderers[key]
	if r == nil {
		cfg := markdownStyleConfig(style)
		zero := uint(0)
		cfg.Document.Margin = &zero
		rr, err := glamour.NewTermRenderer(
			glamour.WithStyles(cfg),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			mdRendererMu.Unlock()
			return md
		}
		mdRenderers[key] = rr
		r = rr
	}
	mdRendererMu.Unlock()

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}

func markdownStyle() string {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("FIELDBAR_TUI_MD_STYLE"))) {
	case "light":
		return "light"
	case "dark":
		return "dark"
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

func markdownStyleConfig(style string) ansi.StyleConfig {
	cfg := styles.DarkStyleConfig
	if style == "light" {
		cfg = styles.LightStyleConfig
	}
	pickColor := func(c lipgloss.AdaptiveColor) *string {
		v := c.Dark
		if style == "light" {
			v = c.Light
		}
		return &v
	}
	heading := pickColor(colorSurfaceFg)
	cfg.Heading.Color = heading
	cfg.H1.Color = heading
	cfg.H2.Color = heading
	cfg.H3.Color = heading
	cfg.Code.Color = pickColor(colorAccent)
	cfg.Text.Color = pickColor(colorSurfaceFg)
	return cfg
}

// fieldInfoMarkdown describes the field at path for the info panel.
func fieldInfoMarkdown(idx *schema.Index, path string) string {
	if idx == nil {
		return ""
	}
	f, ok := idx.Field(path)
	if !ok {
		return fmt.Sprintf("## %s\n\nNot in the dataset schema.", path)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## `%s`\n\n", path)
	typ := f.FType
	if f.FType == model.ListField && f.Subfield != "" {
		typ = fmt.Sprintf("%s(%s)", f.FType, f.Subfield)
	}
	fmt.Fprintf(&b, "- **type**: `%s`\n", typ)
	if f.EmbeddedDocType != "" {
		fmt.Fprintf(&b, "- **document**: `%s`\n", f.EmbeddedDocType)
	}
	if schema.IsLabel(f) {
		b.WriteString("- **label field**\n")
		if exp := idx.ExpandPath(path); exp != path {
			fmt.Fprintf(&b, "- **list path**: `%s`\n", exp)
		}
	}
	if d := strings.TrimSpace(f.Description); d != "" {
		b.WriteString("\n" + d + "\n")
	}
	if targets := idx.FilterTargets(idx.ExpandPath(path)); len(targets) > 0 {
		b.WriteString("\n### Filterable\n\n")
		for _, t := range targets {
			fmt.Fprintf(&b, "- `%s` %s\n", t.Path, t.FType)
		}
	}
	return b.String()
}
