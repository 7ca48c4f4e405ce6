package cli

import (
	"fmt"
	"strings"

	"fieldbar/internal/sidebar"

	"github.com/spf13/cobra"
)

type groupOut struct {
	Name  string   `json:"name"`
	Paths []string `json:"paths"`
}

type groupsOut struct {
	Dataset string     `json:"dataset,omitempty"`
	Groups  []groupOut `json:"groups"`
}

func (g groupsOut) Text() string {
	var b strings.Builder
	for _, grp := range g.Groups {
		fmt.Fprintf(&b, "%s (%d)\n", strings.ToUpper(grp.Name), len(grp.Paths))
		for _, p := range grp.Paths {
			fmt.Fprintf(&b, "  %s\n", p)
		}
	}
	return b.String()
}

func newGroupsCmd(app *App) *cobra.Command {
	var flat bool
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Print the default sidebar grouping for the schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := loadIndex(cmd.Context(), app)
			if err != nil {
				return err
			}
			st := sidebar.NewStore(sidebar.ForSchema(idx), app.logger)

			if flat {
				keys := sidebar.Keys(st.Entries())
				return writeOut(cmd, app, envelope{Data: keys, Meta: map[string]any{"count": len(keys)}})
			}

			out := groupsOut{Dataset: idx.Schema().Name, Groups: []groupOut{}}
			for _, g := range st.Groups() {
				out.Groups = append(out.Groups, groupOut{Name: g.Name, Paths: append([]string{}, g.Paths...)})
			}
			return writeOut(cmd, app, envelope{Data: out})
		},
	}
	cmd.Flags().BoolVar(&flat, "entries", false, "Print the flattened entry keys instead of groups")
	return cmd
}
