// Package git provides the git operations gflow sequences into workflows.
package git

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for common git failures.
var (
	// ErrNotAGitRepo indicates the directory is not a git repository.
	ErrNotAGitRepo = errors.New("not a git repository")

	// ErrMergeConflict indicates a merge stopped on conflicts that need
	// manual resolution.
	ErrMergeConflict = errors.New("merge conflict")

	// ErrRebaseConflict indicates a rebase stopped on conflicts.
	ErrRebaseConflict = errors.New("rebase conflict")
)

// GitError represents a git command error with additional context.
type GitError struct {
	// Command is the git command that failed.
	Command string
	// Output is the stderr/stdout output from the command.
	Output string
	// Err is the underlying error (typically a sentinel error).
	Err error
}

// Error returns a formatted error message.
func (e *GitError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("git command %q failed: %s", e.Command, e.Output)
	}
	return fmt.Sprintf("git command %q failed", e.Command)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *GitError) Unwrap() error {
	return e.Err
}

// Relation describes how a local branch relates to its remote counterpart.
type Relation int

const (
	// RelationEqual means both branches point at the same commit.
	RelationEqual Relation = iota
	// RelationBehind means the local branch can fast-forward to the remote.
	RelationBehind
	// RelationAhead means the remote branch can fast-forward to the local.
	RelationAhead
	// RelationDiverged means the branches need a real merge.
	RelationDiverged
)

// String returns a human-readable name for the relation.
func (r Relation) String() string {
	switch r {
	case RelationEqual:
		return "equal"
	case RelationBehind:
		return "behind"
	case RelationAhead:
		return "ahead"
	case RelationDiverged:
		return "diverged"
	default:
		return "unknown"
	}
}

// Manager defines the interface for git operations. Branch and tag listings
// are read through at point of use; nothing is cached between calls.
type Manager interface {
	// GitDir returns the absolute path of the repository's .git directory.
	GitDir(ctx context.Context) (string, error)

	// CurrentBranch returns the name of the checked-out branch.
	CurrentBranch(ctx context.Context) (string, error)

	// LocalBranches returns the short names of all local branches.
	LocalBranches(ctx context.Context) ([]string, error)

	// RemoteBranches returns remote-tracking branch names (e.g. "origin/develop").
	RemoteBranches(ctx context.Context) ([]string, error)

	// Tags returns all tag names.
	Tags(ctx context.Context) ([]string, error)

	// BranchExists reports whether a local branch exists.
	BranchExists(ctx context.Context, name string) (bool, error)

	// RemoteBranchExists reports whether a remote-tracking branch exists
	// (name given as "origin/develop").
	RemoteBranchExists(ctx context.Context, name string) (bool, error)

	// TagExists reports whether a tag exists.
	TagExists(ctx context.Context, name string) (bool, error)

	// HasUnstagedChanges reports whether the working tree has unstaged changes.
	HasUnstagedChanges(ctx context.Context) (bool, error)

	// HasStagedChanges reports whether the index has uncommitted changes.
	HasStagedChanges(ctx context.Context) (bool, error)

	// CreateBranch creates a branch pointing at base without checking it out.
	CreateBranch(ctx context.Context, name, base string) error

	// CreateTrackingBranch creates a local branch tracking the given
	// remote-tracking ref and checks it out.
	CreateTrackingBranch(ctx context.Context, name, remoteRef string) error

	// Checkout switches the working tree to the given branch.
	Checkout(ctx context.Context, name string) error

	// Merge merges branch into the current branch. With noFF a merge commit
	// is always created. Returns ErrMergeConflict when the merge stops on
	// conflicts.
	Merge(ctx context.Context, branch string, noFF bool) error

	// MergeSquash squash-merges branch into the current branch, leaving the
	// result staged but uncommitted. Returns ErrMergeConflict on conflicts.
	MergeSquash(ctx context.Context, branch string) error

	// Commit commits staged changes with the given message.
	Commit(ctx context.Context, message string) error

	// Rebase rebases the current branch onto upstream. Returns
	// ErrRebaseConflict when the rebase stops on conflicts.
	Rebase(ctx context.Context, upstream string, interactive bool) error

	// CreateTag creates an annotated tag at HEAD, optionally GPG-signed.
	CreateTag(ctx context.Context, name, message string, sign bool, signingKey string) error

	// DeleteBranch deletes a local branch (-D when force).
	DeleteBranch(ctx context.Context, name string, force bool) error

	// Fetch fetches from the given remote.
	Fetch(ctx context.Context, remote string) error

	// Push pushes a refspec to the remote.
	Push(ctx context.Context, remote, refspec string) error

	// PushSetUpstream pushes a branch and sets its upstream.
	PushSetUpstream(ctx context.Context, remote, branch string) error

	// DeleteRemoteBranch deletes a branch on the remote.
	DeleteRemoteBranch(ctx context.Context, remote, branch string) error

	// Diff returns the diff between two revisions.
	Diff(ctx context.Context, from, to string) (string, error)

	// MergeBase returns the best common ancestor of two revisions.
	MergeBase(ctx context.Context, a, b string) (string, error)

	// IsAncestor reports whether ancestor is reachable from descendant.
	IsAncestor(ctx context.Context, ancestor, descendant string) (bool, error)

	// CommitCount returns the number of commits on head that are not on base.
	CommitCount(ctx context.Context, base, head string) (int, error)

	// RevParse resolves a revision to a commit hash.
	RevParse(ctx context.Context, rev string) (string, error)

	// Compare classifies how local relates to remote: equal, behind
	// (fast-forwardable), ahead, or diverged.
	Compare(ctx context.Context, local, remote string) (Relation, error)
}
