package cmd

import (
	"github.com/spf13/cobra"

	"github.com/yarlson/gflow/internal/flow"
)

func newSupportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "support",
		Short: "Manage support branches",
		Long: "Support branches maintain old release lines. They come off the stable\n" +
			"branch (or a tag given as base) and are never merged back.",
	}

	cmd.AddCommand(newListCmd(flow.KindSupport))
	cmd.AddCommand(newStartCmd(flow.KindSupport))

	return cmd
}
