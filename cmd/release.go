package cmd

import (
	"github.com/spf13/cobra"

	"github.com/yarlson/gflow/internal/flow"
)

func newReleaseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "release",
		Short: "Manage release branches",
		Long: "Release branches come off develop; finishing one merges it into the stable\n" +
			"branch and develop and tags the stable head with the version.",
	}

	cmd.AddCommand(newListCmd(flow.KindRelease))
	cmd.AddCommand(newStartCmd(flow.KindRelease))
	cmd.AddCommand(newReleaseFinishCmd(flow.KindRelease))
	cmd.AddCommand(newPublishCmd(flow.KindRelease))
	cmd.AddCommand(newTrackCmd(flow.KindRelease))

	return cmd
}
