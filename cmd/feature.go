package cmd

import (
	"github.com/spf13/cobra"

	"github.com/yarlson/gflow/internal/flow"
)

func newFeatureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feature",
		Short: "Manage feature branches",
		Long:  "Feature branches come off develop and are merged back into develop when finished.",
	}

	cmd.AddCommand(newListCmd(flow.KindFeature))
	cmd.AddCommand(newStartCmd(flow.KindFeature))
	cmd.AddCommand(newFeatureFinishCmd())
	cmd.AddCommand(newPublishCmd(flow.KindFeature))
	cmd.AddCommand(newTrackCmd(flow.KindFeature))
	cmd.AddCommand(newDiffCmd(flow.KindFeature))
	cmd.AddCommand(newRebaseCmd(flow.KindFeature))

	return cmd
}

func newFeatureFinishCmd() *cobra.Command {
	var opts flow.FinishOptions
	cmd := &cobra.Command{
		Use:   "finish [<name>]",
		Short: "Finish a feature branch",
		Long: `Merge the feature branch into develop and delete it. If the merge stops
on conflicts, resolve them, commit, and run finish again to complete the
cleanup.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := newFlow(cmd)
			if err != nil {
				return err
			}
			return f.FeatureFinish(cmd.Context(), flow.KindFeature, nameArg(args), opts)
		},
	}
	cmd.Flags().BoolVarP(&opts.Fetch, "fetch", "F", false, "fetch from the remote before checking preconditions")
	cmd.Flags().BoolVarP(&opts.Rebase, "rebase", "r", false, "rebase onto develop before merging")
	cmd.Flags().BoolVarP(&opts.Squash, "squash", "s", false, "squash the feature into a single commit (implies --rebase)")
	return cmd
}
