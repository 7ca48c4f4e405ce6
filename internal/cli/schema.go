package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"fieldbar/internal/model"
	"fieldbar/internal/schema"
	"fieldbar/internal/store"

	"github.com/spf13/cobra"
)

func newSchemaCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Manage dataset schemas in the catalog",
	}
	cmd.AddCommand(newSchemaImportCmd(app))
	cmd.AddCommand(newSchemaShowCmd(app))
	cmd.AddCommand(newSchemaListCmd(app))
	cmd.AddCommand(newSchemaDeleteCmd(app))
	return cmd
}

type importOut struct {
	Dataset string `json:"dataset"`
	Fields  int    `json:"fields"`
	Catalog string `json:"catalog"`
}

func (o importOut) Text() string {
	return fmt.Sprintf("imported %s (%d fields) into %s\n", o.Dataset, o.Fields, o.Catalog)
}

func newSchemaImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Import a schema JSON file into the catalog (replaces an existing dataset)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := schema.LoadFile(args[0])
			if err != nil {
				return fmt.Errorf("load schema %s: %w", args[0], err)
			}
			s := idx.Schema()
			dataset := importName(app.Dataset, s.Name, args[0])

			cat, err := store.OpenCatalog(cmd.Context(), app.CatalogPath)
			if err != nil {
				return err
			}
			defer cat.Close()
			if err := cat.ImportSchema(cmd.Context(), dataset, s); err != nil {
				return err
			}
			app.logger.Info("imported schema", "dataset", dataset, "file", args[0])

			out := importOut{Dataset: dataset, Fields: countFields(s), Catalog: cat.Path()}
			return writeOut(cmd, app, envelope{
				Data:  out,
				Hints: []string{"fieldbar --dataset " + shellQuote(dataset)},
			})
		},
	}
}

// importName picks the dataset name: --dataset, then the schema's own name,
// then the file name without extension.
func importName(flag, schemaName, path string) string {
	for _, s := range []string{flag, schemaName} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func countFields(s model.Schema) int {
	var walk func([]model.Field) int
	walk = func(fields []model.Field) int {
		n := len(fields)
		for _, f := range fields {
			n += walk(f.Fields)
		}
		return n
	}
	return walk(s.SampleFields) + walk(s.FrameFields)
}

func shellQuote(s string) string {
	if strings.ContainsAny(s, " \t'\"") {
		return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
	}
	return s
}

type schemaOut struct {
	Dataset     string   `json:"dataset,omitempty"`
	Labels      []string `json:"labels"`
	FrameLabels []string `json:"frameLabels"`
	Primitives  []string `json:"primitives"`
}

func (o schemaOut) Text() string {
	var b strings.Builder
	section := func(title string, paths []string) {
		fmt.Fprintf(&b, "%s:\n", title)
		if len(paths) == 0 {
			b.WriteString("  (none)\n")
		}
		for _, p := range paths {
			fmt.Fprintf(&b, "  %s\n", p)
		}
	}
	section("labels", o.Labels)
	section("frame labels", o.FrameLabels)
	section("primitives", o.Primitives)
	return b.String()
}

func newSchemaShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the label and primitive paths of the loaded schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := loadIndex(cmd.Context(), app)
			if err != nil {
				return err
			}
			out := schemaOut{
				Dataset:     idx.Schema().Name,
				Labels:      nonNil(idx.LabelFields(model.SpaceSample)),
				FrameLabels: nonNil(idx.LabelFields(model.SpaceFrame)),
				Primitives: nonNil(idx.FieldPaths(schema.Query{
					Space:  model.SpaceSample,
					FTypes: schema.PrimitiveTypes,
				})),
			}
			return writeOut(cmd, app, envelope{Data: out})
		},
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

type datasetsOut []store.DatasetInfo

func (d datasetsOut) Text() string {
	if len(d) == 0 {
		return "no datasets\n"
	}
	var b strings.Builder
	for _, ds := range d {
		fmt.Fprintf(&b, "%s\t%d fields\t%s\n", ds.Name, ds.Fields, ds.ImportedAt.Format("2006-01-02 15:04"))
	}
	return b.String()
}

func newSchemaListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List datasets in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := store.OpenCatalog(cmd.Context(), app.CatalogPath)
			if err != nil {
				return err
			}
			defer cat.Close()
			list, err := cat.Datasets(cmd.Context())
			if err != nil {
				return err
			}
			if list == nil {
				list = []store.DatasetInfo{}
			}
			return writeOut(cmd, app, envelope{Data: datasetsOut(list), Meta: map[string]any{"count": len(list)}})
		},
	}
}

func newSchemaDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <dataset>",
		Short: "Remove a dataset from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := store.OpenCatalog(cmd.Context(), app.CatalogPath)
			if err != nil {
				return err
			}
			defer cat.Close()
			if _, err := cat.LoadSchema(cmd.Context(), args[0]); err != nil {
				return catalogError(err, args[0])
			}
			if err := cat.DeleteDataset(cmd.Context(), args[0]); err != nil {
				return err
			}
			app.logger.Info("deleted dataset", "dataset", args[0])
			return writeOut(cmd, app, envelope{Data: map[string]any{"deleted": args[0]}})
		},
	}
}
