package flow

import (
	"context"
	"errors"
	"fmt"

	"github.com/yarlson/gflow/internal/git"
)

// ReleaseFinishOptions controls ReleaseFinish.
type ReleaseFinishOptions struct {
	// Fetch pulls the remote before the sync checks.
	Fetch bool
	// Sign creates a GPG-signed tag.
	Sign bool
	// SigningKey selects the signing key. Implies Sign.
	SigningKey string
	// Message is the tag annotation message. Defaults to the tag name.
	Message string
}

// Normalize applies flag implication rules.
func (o *ReleaseFinishOptions) Normalize() {
	if o.SigningKey != "" {
		o.Sign = true
	}
}

// ReleaseFinish closes a release or hotfix branch: merge into the stable
// branch, tag the stable head, merge into develop, delete the branch. Each
// mutating step is individually idempotence-checked, so a re-run after a
// partial failure skips the steps that already completed instead of
// repeating them. Merge conflicts here are fatal with no resume marker; the
// ancestor and tag-exists skips are what make re-runs safe.
func (f *Flow) ReleaseFinish(ctx context.Context, kind Kind, short string, opts ReleaseFinishOptions) error {
	opts.Normalize()

	short, err := f.resolveOrCurrent(ctx, kind, short)
	if err != nil {
		return err
	}
	full := kind.Prefix(f.Cfg) + short
	tag := f.Cfg.Prefix.VersionTag + short
	stable := f.Cfg.Branch.Stable
	develop := f.Cfg.Branch.Develop

	if err := f.requireLocalBranch(ctx, full); err != nil {
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
	for _, b := range []string{full, stable, develop} {
		if err := f.requireSyncedWithRemote(ctx, b); err != nil {
			return err
		}
	}

	mergedStable, err := f.mergeIntoUnlessDone(ctx, kind, full, stable)
	if err != nil {
		return err
	}

	taggedNow, err := f.tagUnlessDone(ctx, tag, stable, opts)
	if err != nil {
		return err
	}

	mergedDevelop, err := f.mergeIntoUnlessDone(ctx, kind, full, develop)
	if err != nil {
		return err
	}

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
	if err := f.Git.Checkout(ctx, develop); err != nil {
		return err
	}
	if err := f.Git.DeleteBranch(ctx, full, false); err != nil {
		return err
	}

	fmt.Fprintf(f.Out, "\nSummary of actions:\n")
	f.summarizeStep(mergedStable, fmt.Sprintf("The %s branch %q was merged into %q", kind, full, stable),
		fmt.Sprintf("%q was already merged into %q", full, stable))
	f.summarizeStep(taggedNow, fmt.Sprintf("The %s was tagged %q", kind, tag),
		fmt.Sprintf("tag %q already existed", tag))
	f.summarizeStep(mergedDevelop, fmt.Sprintf("The %s branch %q was merged into %q", kind, full, develop),
		fmt.Sprintf("%q was already merged into %q", full, develop))
	fmt.Fprintf(f.Out, "- The %s branch %q has been locally deleted\n", kind, full)
	if hadRemote {
		fmt.Fprintf(f.Out, "- It has also been remotely deleted from %q\n", f.remote())
	}
	fmt.Fprintf(f.Out, "- You are now on branch %q\n", develop)
	return nil
}

// mergeIntoUnlessDone merges branch into target with a merge commit unless
// branch is already an ancestor of target. Returns whether the merge was
// performed. Conflicts abort the whole finish; re-running after resolving
// and committing skips this step via the ancestor check.
func (f *Flow) mergeIntoUnlessDone(ctx context.Context, kind Kind, branch, target string) (bool, error) {
	done, err := f.Git.IsAncestor(ctx, branch, target)
	if err != nil {
		return false, err
	}
	if done {
		return false, nil
	}

	if err := f.Git.Checkout(ctx, target); err != nil {
		return false, err
	}
	if err := f.Git.Merge(ctx, branch, true); err != nil {
		if errors.Is(err, git.ErrMergeConflict) {
			return false, fmt.Errorf("merging %q into %q stopped on conflicts; resolve them manually and commit, "+
				"then run 'gflow %s finish' again to continue with the remaining steps: %w", branch, target, kind, err)
		}
		return false, err
	}
	return true, nil
}

// tagUnlessDone creates the version tag at the stable head unless it
// already exists. Returns whether the tag was created.
func (f *Flow) tagUnlessDone(ctx context.Context, tag, stable string, opts ReleaseFinishOptions) (bool, error) {
	exists, err := f.Git.TagExists(ctx, tag)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	if err := f.Git.Checkout(ctx, stable); err != nil {
		return false, err
	}
	if err := f.Git.CreateTag(ctx, tag, opts.Message, opts.Sign, opts.SigningKey); err != nil {
		return false, err
	}
	return true, nil
}

func (f *Flow) summarizeStep(performed bool, did, skipped string) {
	if performed {
		fmt.Fprintf(f.Out, "- %s\n", did)
	} else {
		fmt.Fprintf(f.Out, "- %s (skipped)\n", skipped)
	}
}
