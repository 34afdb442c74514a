package flow

import (
	"context"
	"errors"
	"fmt"

	"github.com/yarlson/gflow/internal/git"
	"github.com/yarlson/gflow/internal/state"
)

// FinishOptions controls FeatureFinish.
type FinishOptions struct {
	// Fetch pulls the remote before the sync checks.
	Fetch bool
	// Rebase rebases the topic branch onto the target before merging.
	Rebase bool
	// Squash collapses the topic branch into one commit. Implies Rebase.
	Squash bool
}

// Normalize applies flag implication rules.
func (o *FinishOptions) Normalize() {
	if o.Squash {
		o.Rebase = true
	}
}

// FeatureFinish merges a topic branch into its integration branch and
// deletes it. A merge that stops on conflicts persists a resume marker; a
// later invocation detects whether the user resolved and committed (finish
// skips straight to cleanup), aborted the merge (the whole sequence
// restarts), or still has conflicts in the tree (finish refuses to act).
// Finishing a branch that no longer exists fails rather than repeating the
// merge.
func (f *Flow) FeatureFinish(ctx context.Context, kind Kind, short string, opts FinishOptions) error {
	opts.Normalize()

	short, err := f.resolveOrCurrent(ctx, kind, short)
	if err != nil {
		return err
	}
	full := kind.Prefix(f.Cfg) + short
	target := kind.Base(f.Cfg)

	gitDir, err := f.Git.GitDir(ctx)
	if err != nil {
		return err
	}

	marker, err := state.LoadPausedMerge(gitDir)
	if err != nil {
		return err
	}
	if marker != nil && marker.Topic == full {
		restart, err := f.resumeFinish(ctx, kind, full, *marker, opts)
		if err != nil || !restart {
			return err
		}
		// Merge was aborted by the user; run the normal sequence again.
	}

	if err := f.requireLocalBranch(ctx, full); err != nil {
		return err
	}
	if err := f.requireLocalBranch(ctx, target); err != nil {
		return err
	}
	if err := f.requireCleanTree(ctx); err != nil {
		return err
	}

	if opts.Fetch {
		if err := f.Git.Fetch(ctx, f.remote()); err != nil {
			return err
		}
	}
	if err := f.requireSyncedWithRemote(ctx, full); err != nil {
		return err
	}
	if err := f.requireSyncedWithRemote(ctx, target); err != nil {
		return err
	}

	if opts.Rebase {
		if err := f.Git.Checkout(ctx, full); err != nil {
			return err
		}
		if err := f.Git.Rebase(ctx, target, false); err != nil {
			if errors.Is(err, git.ErrRebaseConflict) {
				return fmt.Errorf("finish aborted: rebasing %q onto %q produced conflicts; "+
					"resolve them manually (git rebase --continue), then run finish again: %w", full, target, err)
			}
			return err
		}
	}

	if err := f.Git.Checkout(ctx, target); err != nil {
		return err
	}

	if err := f.mergeTopic(ctx, kind, short, full, target, opts.Squash); err != nil {
		return err
	}

	return f.finishCleanup(ctx, kind, full, target, opts.Squash)
}

// resumeFinish handles a finish re-invoked while a resume marker exists.
// It returns restart=true when the user aborted the conflicted merge and
// the normal sequence should run from the top.
func (f *Flow) resumeFinish(ctx context.Context, kind Kind, full string, pm state.PausedMerge, opts FinishOptions) (restart bool, err error) {
	if cleanErr := f.requireCleanTree(ctx); cleanErr != nil {
		if errors.Is(cleanErr, ErrDirtyUnstaged) || errors.Is(cleanErr, ErrDirtyStaged) {
			return false, fmt.Errorf("there are still unresolved merge conflicts in %q; "+
				"resolve them and commit, then run finish again", pm.Target)
		}
		return false, cleanErr
	}

	gitDir, err := f.Git.GitDir(ctx)
	if err != nil {
		return false, err
	}

	merged, err := f.Git.IsAncestor(ctx, full, pm.Target)
	if err != nil {
		return false, err
	}
	if err := state.ClearPausedMerge(gitDir); err != nil {
		return false, err
	}
	if !merged {
		// The user aborted the merge; start over.
		return true, nil
	}
	return false, f.finishCleanup(ctx, kind, full, pm.Target, opts.Squash)
}

// mergeTopic merges full into target, which must be checked out. A single
// divergent commit fast-forwards; anything else gets a merge commit. On
// conflict the resume marker is written and the user is told how to
// continue.
func (f *Flow) mergeTopic(ctx context.Context, kind Kind, short, full, target string, squash bool) error {
	var err error
	if squash {
		err = f.Git.MergeSquash(ctx, full)
		if err == nil {
			err = f.Git.Commit(ctx, fmt.Sprintf("Squashed %s branch %q", kind, full))
		}
	} else {
		ff := false
		descendant, aErr := f.Git.IsAncestor(ctx, target, full)
		if aErr != nil {
			return aErr
		}
		if descendant {
			count, cErr := f.Git.CommitCount(ctx, target, full)
			if cErr != nil {
				return cErr
			}
			ff = count == 1
		}
		err = f.Git.Merge(ctx, full, !ff)
	}

	if err == nil {
		return nil
	}
	if !errors.Is(err, git.ErrMergeConflict) {
		return err
	}

	gitDir, gErr := f.Git.GitDir(ctx)
	if gErr != nil {
		return gErr
	}
	if sErr := state.SavePausedMerge(gitDir, state.PausedMerge{Topic: full, Target: target}); sErr != nil {
		return sErr
	}

	fmt.Fprintf(f.Err, "\nThere were merge conflicts. To resolve the merge conflict manually, use:\n")
	fmt.Fprintf(f.Err, "    git mergetool\n")
	fmt.Fprintf(f.Err, "    git commit\n\n")
	fmt.Fprintf(f.Err, "You can then complete the finish by running it again:\n")
	fmt.Fprintf(f.Err, "    gflow %s finish %s\n\n", kind, short)
	return fmt.Errorf("merging %q into %q stopped on conflicts: %w", full, target, err)
}

// finishCleanup deletes the finished topic branch (remotely too when it was
// published) and leaves the user on the target branch.
func (f *Flow) finishCleanup(ctx context.Context, kind Kind, full, target string, force bool) error {
	remoteRef := f.remoteRef(full)
	hadRemote, err := f.Git.RemoteBranchExists(ctx, remoteRef)
	if err != nil {
		return err
	}
	if hadRemote {
		if err := f.Git.DeleteRemoteBranch(ctx, f.remote(), full); err != nil {
			return err
		}
	}

	if err := f.Git.Checkout(ctx, target); err != nil {
		return err
	}
	if err := f.Git.DeleteBranch(ctx, full, force); err != nil {
		return err
	}

	fmt.Fprintf(f.Out, "\nSummary of actions:\n")
	fmt.Fprintf(f.Out, "- The %s branch %q was merged into %q\n", kind, full, target)
	fmt.Fprintf(f.Out, "- The %s branch %q has been locally deleted\n", kind, full)
	if hadRemote {
		fmt.Fprintf(f.Out, "- It has also been remotely deleted from %q\n", f.remote())
	}
	fmt.Fprintf(f.Out, "- You are now on branch %q\n", target)
	return nil
}
