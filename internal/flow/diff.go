package flow

import (
	"context"
	"fmt"
)

// Diff prints the changes a workflow branch carries relative to its fork
// point off the integration branch. With an empty name the checked-out
// branch is used.
func (f *Flow) Diff(ctx context.Context, kind Kind, short string) error {
	short, err := f.resolveOrCurrent(ctx, kind, short)
	if err != nil {
		return err
	}
	full := kind.Prefix(f.Cfg) + short

	base, err := f.Git.MergeBase(ctx, kind.Base(f.Cfg), full)
	if err != nil {
		return err
	}

	out, err := f.Git.Diff(ctx, base, full)
	if err != nil {
		return err
	}
	if out != "" {
		fmt.Fprintln(f.Out, out)
	}
	return nil
}

// Rebase rebases a workflow branch onto its integration branch. Conflicts
// are left in place for manual resolution.
func (f *Flow) Rebase(ctx context.Context, kind Kind, short string, interactive bool) error {
	short, err := f.resolveOrCurrent(ctx, kind, short)
	if err != nil {
		return err
	}
	full := kind.Prefix(f.Cfg) + short
	base := kind.Base(f.Cfg)

	fmt.Fprintf(f.Out, "Will try to rebase %q onto %q...\n", full, base)

	if err := f.requireCleanTree(ctx); err != nil {
		return err
	}
	if err := f.requireLocalBranch(ctx, full); err != nil {
		return err
	}

	if err := f.Git.Checkout(ctx, full); err != nil {
		return err
	}
	return f.Git.Rebase(ctx, base, interactive)
}
