package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"ffaudio/internal/engine"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check that the engine binaries can be run",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := ctx.engine()
			if err != nil {
				return err
			}
			statuses := eng.Check(cmd.Context())

			if asJSON {
				if err := writeJSON(cmd, statuses); err != nil {
					return err
				}
			} else {
				printStatuses(cmd, statuses)
			}

			if !engine.Healthy(statuses) {
				return fmt.Errorf("engine not available")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func printStatuses(cmd *cobra.Command, statuses []engine.Status) {
	out := cmd.OutOrStdout()
	color := shouldColorize(out)

	rows := make([][]string, 0, len(statuses))
	for _, st := range statuses {
		state := colorize(color, "ok", text.FgGreen)
		detail := st.Version
		if !st.Available {
			state = colorize(color, "missing", text.FgRed)
			detail = st.Detail
		}
		rows = append(rows, []string{st.Name, st.Command, state, detail})
	}
	fmt.Fprintln(out, renderTable([]string{"Binary", "Command", "Status", "Detail"}, rows, nil))
}
