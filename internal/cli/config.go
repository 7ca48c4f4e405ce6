package cli

import (
	"fmt"
	"strconv"
	"strings"

	"fieldbar/internal/store"

	"github.com/spf13/cobra"
)

var configKeys = []string{
	"schemaPath", "catalogPath", "dataset", "logFile", "logLevel",
	"tui.glyphs", "tui.theme", "tui.animationMs", "tui.rowGap",
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the global config",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the global config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := store.ConfigPath()
			if err != nil {
				return err
			}
			return writeOut(cmd, app, envelope{Data: app.cfg, Meta: map[string]any{"path": path}})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config key (" + strings.Join(configKeys, ", ") + "); an empty value clears it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return err
			}
			if err := setConfigKey(cfg, args[0], args[1]); err != nil {
				return err
			}
			if err := store.SaveConfig(cfg); err != nil {
				return err
			}
			app.logger.Info("config updated", "key", args[0])
			return writeOut(cmd, app, envelope{Data: cfg})
		},
	})
	return cmd
}

func setConfigKey(cfg *store.GlobalConfig, key, value string) error {
	value = strings.TrimSpace(value)
	tui := func() *store.TUIConfig {
		if cfg.TUI == nil {
			cfg.TUI = &store.TUIConfig{}
		}
		return cfg.TUI
	}
	atoi := func() (int, error) {
		if value == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("%s: expected an integer, got %q", key, value)
		}
		return n, nil
	}

	switch key {
	case "schemaPath":
		cfg.SchemaPath = value
	case "catalogPath":
		cfg.CatalogPath = value
	case "dataset":
		cfg.Dataset = value
	case "logFile":
		cfg.LogFile = value
	case "logLevel":
		cfg.LogLevel = value
	case "tui.glyphs":
		if value != "" && value != "unicode" && value != "ascii" {
			return fmt.Errorf("tui.glyphs: expected unicode or ascii, got %q", value)
		}
		tui().Glyphs = value
	case "tui.theme":
		if value != "" && value != "light" && value != "dark" {
			return fmt.Errorf("tui.theme: expected light or dark, got %q", value)
		}
		tui().Theme = value
	case "tui.animationMs":
		n, err := atoi()
		if err != nil {
			return err
		}
		tui().AnimationMs = n
	case "tui.rowGap":
		n, err := atoi()
		if err != nil {
			return err
		}
		if n < 0 {
			return fmt.Errorf("tui.rowGap: must not be negative")
		}
		tui().RowGap = n
	default:
		return fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(configKeys, ", "))
	}
	return nil
}
