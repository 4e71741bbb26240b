package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ffaudio/internal/filtergraph"
)

func newEndpointsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "endpoints",
		Short: "List the HTTP endpoints and their parameters",
		RunE: func(cmd *cobra.Command, args []string) error {
			eps := filtergraph.Endpoints()
			if asJSON {
				return writeJSON(cmd, eps)
			}

			rows := make([][]string, 0, len(eps))
			for _, ep := range eps {
				rows = append(rows, []string{
					ep.Method,
					ep.Path,
					string(ep.Operation),
					strings.Join(ep.Fields, ", "),
					formatParams(ep.Params),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(),
				renderTable([]string{"Method", "Path", "Operation", "Files", "Params"}, rows, nil))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func formatParams(defs []filtergraph.ParamDef) string {
	parts := make([]string, 0, len(defs))
	for _, d := range defs {
		parts = append(parts, d.Name+"="+d.Default)
	}
	return strings.Join(parts, " ")
}
