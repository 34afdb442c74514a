package flow

import (
	"context"
	"errors"
	"fmt"

	"github.com/yarlson/gflow/internal/git"
)

// Guard failures. Each guard runs before any mutation, so a failing guard
// means no side effects were performed.
var (
	// ErrDirtyUnstaged indicates unstaged changes in the working tree.
	ErrDirtyUnstaged = errors.New("working tree contains unstaged changes")

	// ErrDirtyStaged indicates staged but uncommitted changes in the index.
	ErrDirtyStaged = errors.New("index contains uncommitted changes")
)

// BranchExistsError reports a branch that must be absent but exists.
type BranchExistsError struct {
	Name string
}

func (e *BranchExistsError) Error() string {
	return fmt.Sprintf("branch %q already exists", e.Name)
}

// BranchMissingError reports a branch that must exist but does not.
type BranchMissingError struct {
	Name string
}

func (e *BranchMissingError) Error() string {
	return fmt.Sprintf("branch %q does not exist", e.Name)
}

// TagExistsError reports a tag that must be absent but exists.
type TagExistsError struct {
	Name string
}

func (e *TagExistsError) Error() string {
	return fmt.Sprintf("tag %q already exists", e.Name)
}

// SyncError reports local and remote branches that are out of sync in a way
// requiring user action before the workflow may proceed.
type SyncError struct {
	Local    string
	Remote   string
	Relation git.Relation
}

func (e *SyncError) Error() string {
	if e.Relation == git.RelationBehind {
		return fmt.Sprintf("branches %q and %q are out of sync; %q may be fast-forwarded", e.Local, e.Remote, e.Local)
	}
	return fmt.Sprintf("branches %q and %q have diverged; merge them first", e.Local, e.Remote)
}

// requireCleanTree fails with ErrDirtyUnstaged or ErrDirtyStaged when the
// working tree is not clean. Unstaged changes are checked first.
func (f *Flow) requireCleanTree(ctx context.Context) error {
	unstaged, err := f.Git.HasUnstagedChanges(ctx)
	if err != nil {
		return err
	}
	if unstaged {
		return ErrDirtyUnstaged
	}

	staged, err := f.Git.HasStagedChanges(ctx)
	if err != nil {
		return err
	}
	if staged {
		return ErrDirtyStaged
	}
	return nil
}

// requireBranch fails unless name exists among local or remote-tracking
// branches.
func (f *Flow) requireBranch(ctx context.Context, name string) error {
	exists, err := f.branchKnown(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return &BranchMissingError{Name: name}
	}
	return nil
}

// requireBranchAbsent fails when name exists among local or remote-tracking
// branches.
func (f *Flow) requireBranchAbsent(ctx context.Context, name string) error {
	exists, err := f.branchKnown(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return &BranchExistsError{Name: name}
	}
	return nil
}

// requireLocalBranch fails unless name exists as a local branch.
func (f *Flow) requireLocalBranch(ctx context.Context, name string) error {
	exists, err := f.Git.BranchExists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return &BranchMissingError{Name: name}
	}
	return nil
}

// branchKnown tests membership in the union of local and remote-tracking
// branches.
func (f *Flow) branchKnown(ctx context.Context, name string) (bool, error) {
	local, err := f.Git.BranchExists(ctx, name)
	if err != nil {
		return false, err
	}
	if local {
		return true, nil
	}
	return f.Git.RemoteBranchExists(ctx, f.remoteRef(name))
}

// requireTagAbsent fails when the tag exists.
func (f *Flow) requireTagAbsent(ctx context.Context, name string) error {
	exists, err := f.Git.TagExists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return &TagExistsError{Name: name}
	}
	return nil
}

// requireSynced compares a local branch to its remote counterpart. Equal
// passes; a fast-forwardable local is fatal (the user should pull first);
// a local that is merely ahead only warns, since being ahead is safe;
// divergence is fatal.
func (f *Flow) requireSynced(ctx context.Context, local, remote string) error {
	rel, err := f.Git.Compare(ctx, local, remote)
	if err != nil {
		return err
	}
	switch rel {
	case git.RelationEqual:
		return nil
	case git.RelationAhead:
		fmt.Fprintf(f.Err, "Warning: branch %q is ahead of %q; changes will need pushing later\n", local, remote)
		return nil
	default:
		return &SyncError{Local: local, Remote: remote, Relation: rel}
	}
}

// requireSyncedWithRemote runs requireSynced only when the remote
// counterpart of branch actually exists.
func (f *Flow) requireSyncedWithRemote(ctx context.Context, branch string) error {
	remote := f.remoteRef(branch)
	exists, err := f.Git.RemoteBranchExists(ctx, remote)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	return f.requireSynced(ctx, branch, remote)
}
