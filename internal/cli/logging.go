package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fieldbar/internal/store"

	"github.com/charmbracelet/log"
)

// openLogger appends to path (the default log file when empty). The TUI owns
// the terminal, so nothing is logged to stderr.
func openLogger(path, level string) (*log.Logger, io.Closer, error) {
	lvl := log.InfoLevel
	if s := strings.TrimSpace(level); s != "" {
		parsed, err := log.ParseLevel(s)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid --log-level %q: %w", level, err)
		}
		lvl = parsed
	}

	if path == "" {
		p, err := store.DefaultLogPath()
		if err != nil {
			return nil, nil, err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	logger := log.NewWithOptions(f, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		Prefix:          "fieldbar",
	})
	return logger, f, nil
}
