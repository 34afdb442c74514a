package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yarlson/gflow/internal/flow"
)

// Shared sub-command constructors. Each workflow command wires the subset
// of these that makes sense for it.

func newListCmd(kind flow.Kind) *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %s branches", kind),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := newFlow(cmd)
			if err != nil {
				return err
			}
			return f.List(cmd.Context(), kind, verbose)
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show how each branch relates to its base")
	return cmd
}

func newStartCmd(kind flow.Kind) *cobra.Command {
	var fetch bool
	cmd := &cobra.Command{
		Use:   "start <name> [<base>]",
		Short: fmt.Sprintf("Start a new %s branch", kind),
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := newFlow(cmd)
			if err != nil {
				return err
			}
			base := ""
			if len(args) == 2 {
				base = args[1]
			}
			return f.Start(cmd.Context(), kind, args[0], base, flow.StartOptions{Fetch: fetch})
		},
	}
	cmd.Flags().BoolVarP(&fetch, "fetch", "F", false, "fetch from the remote before checking preconditions")
	return cmd
}

func newPublishCmd(kind flow.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   "publish [<name>]",
		Short: fmt.Sprintf("Publish a %s branch to the remote", kind),
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := newFlow(cmd)
			if err != nil {
				return err
			}
			return f.Publish(cmd.Context(), kind, nameArg(args))
		},
	}
}

func newTrackCmd(kind flow.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   "track <name>",
		Short: fmt.Sprintf("Track a %s branch published on the remote", kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := newFlow(cmd)
			if err != nil {
				return err
			}
			return f.Track(cmd.Context(), kind, args[0])
		},
	}
}

func newDiffCmd(kind flow.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   "diff [<name>]",
		Short: fmt.Sprintf("Show changes a %s branch carries since it forked", kind),
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := newFlow(cmd)
			if err != nil {
				return err
			}
			return f.Diff(cmd.Context(), kind, nameArg(args))
		},
	}
}

func newRebaseCmd(kind flow.Kind) *cobra.Command {
	var interactive bool
	cmd := &cobra.Command{
		Use:   "rebase [<name>]",
		Short: fmt.Sprintf("Rebase a %s branch onto its base", kind),
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := newFlow(cmd)
			if err != nil {
				return err
			}
			return f.Rebase(cmd.Context(), kind, nameArg(args), interactive)
		},
	}
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "rebase interactively")
	return cmd
}

// newReleaseFinishCmd builds the multi-target finish used by release and
// hotfix branches.
func newReleaseFinishCmd(kind flow.Kind) *cobra.Command {
	var opts flow.ReleaseFinishOptions
	cmd := &cobra.Command{
		Use:   "finish [<name>]",
		Short: fmt.Sprintf("Finish a %s branch", kind),
		Long: fmt.Sprintf(`Merge the %s branch into the stable branch, tag the result, merge it
into develop, and delete the branch. Steps that already completed are
skipped, so the command can be re-run after a partial failure.`, kind),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := newFlow(cmd)
			if err != nil {
				return err
			}
			return f.ReleaseFinish(cmd.Context(), kind, nameArg(args), opts)
		},
	}
	cmd.Flags().BoolVarP(&opts.Fetch, "fetch", "F", false, "fetch from the remote before checking preconditions")
	cmd.Flags().BoolVarP(&opts.Sign, "sign", "s", false, "sign the version tag")
	cmd.Flags().StringVarP(&opts.SigningKey, "signingkey", "u", "", "GPG key to sign the tag with (implies --sign)")
	cmd.Flags().StringVarP(&opts.Message, "message", "m", "", "tag annotation message")
	return cmd
}

func nameArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
