package flow

import (
	"context"
	"fmt"
	"strings"
)

// StartOptions controls Start.
type StartOptions struct {
	// Fetch pulls the remote before the sync check.
	Fetch bool
}

// Start creates a new workflow branch off base and checks it out. With an
// empty base the workflow's default integration branch is used. Release and
// hotfix starts additionally require a clean tree, an absent version tag,
// and no other branch of the same kind in flight.
func (f *Flow) Start(ctx context.Context, kind Kind, name, base string, opts StartOptions) error {
	if name == "" {
		return fmt.Errorf("%s name required", kind)
	}

	full := kind.Prefix(f.Cfg) + name
	if base == "" {
		base = kind.Base(f.Cfg)
	}

	if kind == KindRelease || kind == KindHotfix {
		if err := f.requireCleanTree(ctx); err != nil {
			return err
		}
		if err := f.requireTagAbsent(ctx, f.Cfg.Prefix.VersionTag+name); err != nil {
			return err
		}
		if err := f.requireNoneInFlight(ctx, kind); err != nil {
			return err
		}
	}

	if err := f.requireBranchAbsent(ctx, full); err != nil {
		return err
	}

	if opts.Fetch {
		if err := f.Git.Fetch(ctx, f.remote()); err != nil {
			return err
		}
	}
	if err := f.requireSyncedWithRemote(ctx, base); err != nil {
		return err
	}

	if err := f.Git.CreateBranch(ctx, full, base); err != nil {
		return err
	}
	if err := f.Git.Checkout(ctx, full); err != nil {
		return err
	}

	fmt.Fprintf(f.Out, "\nSummary of actions:\n")
	fmt.Fprintf(f.Out, "- A new branch %q was created, based on %q\n", full, base)
	fmt.Fprintf(f.Out, "- You are now on branch %q\n", full)
	if kind == KindFeature {
		fmt.Fprintf(f.Out, "\nNow, start committing on your feature. When done, use:\n\n")
		fmt.Fprintf(f.Out, "     gflow feature finish %s\n\n", name)
	}
	return nil
}

// requireNoneInFlight rejects starting a release or hotfix while another
// branch of the same kind exists. Only one may be in flight at a time.
func (f *Flow) requireNoneInFlight(ctx context.Context, kind Kind) error {
	branches, err := f.Git.LocalBranches(ctx)
	if err != nil {
		return err
	}
	prefix := kind.Prefix(f.Cfg)
	for _, b := range branches {
		if strings.HasPrefix(b, prefix) {
			return fmt.Errorf("there is an existing %s branch %q; finish that one first", kind, b)
		}
	}
	return nil
}
