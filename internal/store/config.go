package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	envConfigDir = "FIELDBAR_CONFIG_DIR"

	DefaultLogFileName     = "fieldbar.log"
	DefaultCatalogFileName = "catalog.db"
	DefaultAnimationMs     = 180
)

type GlobalConfig struct {
	// SchemaPath is a JSON schema document used when no catalog dataset is selected.
	SchemaPath string `json:"schemaPath,omitempty"`

	// CatalogPath is the SQLite schema catalog; Dataset picks the schema inside it.
	CatalogPath string `json:"catalogPath,omitempty"`
	Dataset     string `json:"dataset,omitempty"`

	LogFile  string `json:"logFile,omitempty"`
	LogLevel string `json:"logLevel,omitempty"`

	// TUI holds optional user preferences for the interactive sidebar.
	TUI *TUIConfig `json:"tui,omitempty"`
}

type TUIConfig struct {
	// Glyphs selects the glyph set ("unicode" or "ascii").
	Glyphs string `json:"glyphs,omitempty"`
	// Theme forces "light" or "dark"; empty means detect.
	Theme string `json:"theme,omitempty"`
	// AnimationMs is the tween duration for entries gliding to a new slot. 0 uses the default;
	// a negative value disables animation.
	AnimationMs int `json:"animationMs,omitempty"`
	// RowGap is the blank margin between rows.
	RowGap int `json:"rowGap,omitempty"`
}

// TUIOrDefault returns the TUI preferences with defaults filled in.
func (c *GlobalConfig) TUIOrDefault() TUIConfig {
	out := TUIConfig{Glyphs: "unicode", AnimationMs: DefaultAnimationMs}
	if c == nil || c.TUI == nil {
		return out
	}
	if g := strings.TrimSpace(c.TUI.Glyphs); g != "" {
		out.Glyphs = g
	}
	out.Theme = strings.TrimSpace(c.TUI.Theme)
	if c.TUI.AnimationMs != 0 {
		out.AnimationMs = c.TUI.AnimationMs
	}
	if out.AnimationMs < 0 {
		out.AnimationMs = 0
	}
	if c.TUI.RowGap > 0 {
		out.RowGap = c.TUI.RowGap
	}
	return out
}

func ConfigDir() (string, error) {
	// Override keeps tests away from ~/.fieldbar.
	if v := strings.TrimSpace(os.Getenv(envConfigDir)); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".fieldbar"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// DefaultLogPath is where the TUI logs when no log file is configured.
func DefaultLogPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultLogFileName), nil
}

func DefaultCatalogPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultCatalogFileName), nil
}

// LoadConfig reads the global config. A missing file is an empty config.
func LoadConfig() (*GlobalConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &GlobalConfig{}, nil
		}
		return nil, err
	}
	var cfg GlobalConfig
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

func SaveConfig(cfg *GlobalConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}
