package cmd

import (
	"github.com/spf13/cobra"
)

func newTuiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:           "tui [urls...]",
		Short:         "Open the interactive download form",
		Long:          "Open the interactive form. URLs given on the command line are prefilled and started right away.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDownload(cmd, args, true)
		},
	}
}
