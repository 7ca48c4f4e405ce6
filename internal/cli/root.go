package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"fieldbar/internal/format"
	"fieldbar/internal/schema"
	"fieldbar/internal/store"
	"fieldbar/internal/tui"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

type App struct {
	SchemaPath  string
	CatalogPath string
	Dataset     string
	LogFile     string
	LogLevel    string
	PrettyJSON  bool
	Format      string

	cfg    *store.GlobalConfig
	logger *log.Logger
	logOut io.Closer
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "fieldbar",
		Short:        "Field sidebar for dataset schemas (TUI + CLI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Browse a schema file in the sidebar TUI
  fieldbar --schema quickstart.json

  # Import once, then open from the catalog
  fieldbar schema import quickstart.json --dataset quickstart
  fieldbar --dataset quickstart

  # Print the default grouping
  fieldbar groups --schema quickstart.json --format edn
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), app)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.init()
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		app.close()
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.SchemaPath, "schema", envOr("FIELDBAR_SCHEMA", ""), "Path to a dataset schema JSON file")
	cmd.PersistentFlags().StringVar(&app.CatalogPath, "catalog", envOr("FIELDBAR_CATALOG", ""), "Path to the SQLite schema catalog (default: <configDir>/catalog.db)")
	cmd.PersistentFlags().StringVar(&app.Dataset, "dataset", envOr("FIELDBAR_DATASET", ""), "Dataset name in the catalog")
	cmd.PersistentFlags().StringVar(&app.LogFile, "log-file", envOr("FIELDBAR_LOG_FILE", ""), "Log file (default: <configDir>/fieldbar.log)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("FIELDBAR_LOG_LEVEL", ""), "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("FIELDBAR_FORMAT", format.JSON), "Output format (json|edn|text)")

	cmd.AddCommand(newGroupsCmd(app))
	cmd.AddCommand(newSchemaCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

// init fills unset options from the global config and opens the log file.
// Flags and env vars were already applied by cobra.
func (app *App) init() error {
	cfg, err := store.LoadConfig()
	if err != nil {
		return err
	}
	app.cfg = cfg

	if app.SchemaPath == "" {
		app.SchemaPath = cfg.SchemaPath
	}
	if app.CatalogPath == "" {
		app.CatalogPath = cfg.CatalogPath
	}
	if app.CatalogPath == "" {
		p, err := store.DefaultCatalogPath()
		if err != nil {
			return err
		}
		app.CatalogPath = p
	}
	if app.Dataset == "" {
		app.Dataset = cfg.Dataset
	}
	if app.LogFile == "" {
		app.LogFile = cfg.LogFile
	}
	if app.LogLevel == "" {
		app.LogLevel = cfg.LogLevel
	}

	logger, out, err := openLogger(app.LogFile, app.LogLevel)
	if err != nil {
		return err
	}
	app.logger, app.logOut = logger, out
	return nil
}

func (app *App) close() {
	if app.logOut != nil {
		_ = app.logOut.Close()
		app.logOut = nil
	}
}

func runTUI(ctx context.Context, app *App) error {
	defer app.close()
	idx, err := loadIndex(ctx, app)
	if err != nil {
		return err
	}
	app.logger.Info("starting tui", "dataset", idx.Schema().Name)
	return tui.Run(idx, app.cfg.TUIOrDefault(), app.logger)
}

// loadIndex resolves the schema: --schema first, then --dataset from the catalog.
func loadIndex(ctx context.Context, app *App) (*schema.Index, error) {
	if app.SchemaPath != "" {
		idx, err := schema.LoadFile(app.SchemaPath)
		if err != nil {
			return nil, fmt.Errorf("load schema %s: %w", app.SchemaPath, err)
		}
		return idx, nil
	}
	if app.Dataset == "" {
		return nil, errNoSchema
	}
	cat, err := store.OpenCatalog(ctx, app.CatalogPath)
	if err != nil {
		return nil, err
	}
	defer cat.Close()

	s, err := cat.LoadSchema(ctx, app.Dataset)
	if err != nil {
		return nil, catalogError(err, app.Dataset)
	}
	return schema.New(s), nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// envelope is the shape of every structured command output.
type envelope struct {
	Data  any      `json:"data"`
	Meta  any      `json:"meta,omitempty"`
	Hints []string `json:"_hints,omitempty"`
}

func (e envelope) Text() string {
	var b strings.Builder
	if t, ok := e.Data.(format.Texter); ok {
		b.WriteString(t.Text())
	} else {
		fmt.Fprintf(&b, "%v\n", e.Data)
	}
	for _, h := range e.Hints {
		fmt.Fprintf(&b, "hint: %s\n", h)
	}
	return b.String()
}

func writeOut(cmd *cobra.Command, app *App, v envelope) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}
