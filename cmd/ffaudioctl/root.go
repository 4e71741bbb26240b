package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	ctx := newCommandContext()

	rootCmd := &cobra.Command{
		Use:           "ffaudioctl",
		Short:         "Operator tool for the FFmpeg audio API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newEndpointsCommand())
	rootCmd.AddCommand(newGraphCommand())
	rootCmd.AddCommand(newProbeCommand(ctx))
	rootCmd.AddCommand(newAuditCommand(ctx))

	return rootCmd
}
