package flow

import (
	"context"
	"fmt"
)

// Publish pushes a workflow branch to the remote and sets it as upstream so
// other developers can track it.
func (f *Flow) Publish(ctx context.Context, kind Kind, short string) error {
	short, err := f.resolveOrCurrent(ctx, kind, short)
	if err != nil {
		return err
	}
	full := kind.Prefix(f.Cfg) + short

	if err := f.requireCleanTree(ctx); err != nil {
		return err
	}
	if err := f.requireLocalBranch(ctx, full); err != nil {
		return err
	}

	if err := f.Git.Fetch(ctx, f.remote()); err != nil {
		return err
	}
	remoteRef := f.remoteRef(full)
	exists, err := f.Git.RemoteBranchExists(ctx, remoteRef)
	if err != nil {
		return err
	}
	if exists {
		return &BranchExistsError{Name: remoteRef}
	}

	if err := f.Git.PushSetUpstream(ctx, f.remote(), full); err != nil {
		return err
	}
	if err := f.Git.Checkout(ctx, full); err != nil {
		return err
	}

	fmt.Fprintf(f.Out, "\nSummary of actions:\n")
	fmt.Fprintf(f.Out, "- A new remote branch %q was created\n", remoteRef)
	fmt.Fprintf(f.Out, "- The local branch %q was configured to track it\n", full)
	fmt.Fprintf(f.Out, "- You are now on branch %q\n", full)
	return nil
}

// Track creates a local branch tracking an already-published workflow
// branch and checks it out.
func (f *Flow) Track(ctx context.Context, kind Kind, short string) error {
	if short == "" {
		return fmt.Errorf("%s name required", kind)
	}
	full := kind.Prefix(f.Cfg) + short

	if err := f.requireCleanTree(ctx); err != nil {
		return err
	}
	exists, err := f.Git.BranchExists(ctx, full)
	if err != nil {
		return err
	}
	if exists {
		return &BranchExistsError{Name: full}
	}

	if err := f.Git.Fetch(ctx, f.remote()); err != nil {
		return err
	}
	remoteRef := f.remoteRef(full)
	remoteExists, err := f.Git.RemoteBranchExists(ctx, remoteRef)
	if err != nil {
		return err
	}
	if !remoteExists {
		return &BranchMissingError{Name: remoteRef}
	}

	if err := f.Git.CreateTrackingBranch(ctx, full, remoteRef); err != nil {
		return err
	}

	fmt.Fprintf(f.Out, "\nSummary of actions:\n")
	fmt.Fprintf(f.Out, "- A new local branch %q was created, tracking %q\n", full, remoteRef)
	fmt.Fprintf(f.Out, "- You are now on branch %q\n", full)
	return nil
}
