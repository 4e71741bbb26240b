package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"ffaudio/internal/adapters/audit/sqlite"
	"ffaudio/internal/config"
)

func newAuditCommand(ctx *commandContext) *cobra.Command {
	var (
		limit  int
		path   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show recent jobs from the sqlite audit sink",
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				if cfg.Audit.Sink != config.SinkSQLite {
					return fmt.Errorf("audit sink is %q; only sqlite can be read back (or pass --db)", cfg.Audit.Sink)
				}
				path = cfg.Audit.SQLitePath
			}

			rec, err := sqlite.Open(path)
			if err != nil {
				return err
			}
			defer rec.Close()

			entries, err := rec.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, entries)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No jobs recorded")
				return nil
			}

			const stampLayout = "2006-01-02 15:04:05"
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					e.Timestamp.Local().Format(stampLayout),
					e.Operation,
					e.Format,
					string(e.Status),
					strconv.FormatInt(e.InputBytes, 10),
					strconv.FormatInt(e.OutputBytes, 10),
					e.Duration.Round(time.Millisecond).String(),
					e.ErrorCode,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Time", "Operation", "Format", "Status", "In", "Out", "Took", "Error"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of jobs to show")
	cmd.Flags().StringVar(&path, "db", "", "sqlite database path (defaults to AUDIT_SQLITE_PATH)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}
