package cmd

import (
	"github.com/spf13/cobra"

	"github.com/aanbieders/aanbieders-cli/internal/api"
	"github.com/aanbieders/aanbieders-cli/internal/outfmt"
)

func newRoutesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the API operations and their endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := newFormatter(cmd)
			if outfmt.FormatFromContext(cmd.Context()) == outfmt.Raw && outfmt.GetQuery(cmd.Context()) == "" {
				for _, r := range api.Routes {
					f.Line("%-16s %-5s %s", r.Name, r.Method, r.Path)
				}
				return nil
			}
			items := make([]any, len(api.Routes))
			for i, r := range api.Routes {
				m := api.NewMap()
				m.Set("name", r.Name)
				m.Set("method", r.Method)
				m.Set("path", r.Path)
				items[i] = m
			}
			return f.Output(items)
		},
	}
}
