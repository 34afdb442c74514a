package cmd

import (
	"github.com/spf13/cobra"

	"github.com/yarlson/gflow/internal/flow"
)

func newHotfixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hotfix",
		Short: "Manage hotfix branches",
		Long: "Hotfix branches come off the stable branch; finishing one merges it into\n" +
			"the stable branch and develop and tags the stable head.",
	}

	cmd.AddCommand(newListCmd(flow.KindHotfix))
	cmd.AddCommand(newStartCmd(flow.KindHotfix))
	cmd.AddCommand(newReleaseFinishCmd(flow.KindHotfix))
	cmd.AddCommand(newPublishCmd(flow.KindHotfix))

	return cmd
}
