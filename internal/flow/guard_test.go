package flow

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yarlson/gflow/internal/git"
)

func TestRequireCleanTree(t *testing.T) {
	dir := setupTestRepo(t)
	f, _, _ := newTestFlow(t, dir)
	ctx := context.Background()

	require.NoError(t, f.requireCleanTree(ctx))

	// Unstaged change.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("changed"), 0644))
	err := f.requireCleanTree(ctx)
	assert.True(t, errors.Is(err, ErrDirtyUnstaged), "got %v", err)

	// Staged change: unstaged reported first when both, staged when alone.
	gitRun(t, dir, "add", "README.md")
	err = f.requireCleanTree(ctx)
	assert.True(t, errors.Is(err, ErrDirtyStaged), "got %v", err)
}

func TestRequireBranchAbsent_LocalAndRemote(t *testing.T) {
	dir := setupTestRepo(t)
	setupRemote(t, dir)
	f, _, _ := newTestFlow(t, dir)
	ctx := context.Background()

	require.NoError(t, f.requireBranchAbsent(ctx, "feature/new"))

	var exists *BranchExistsError
	err := f.requireBranchAbsent(ctx, "develop")
	require.True(t, errors.As(err, &exists))

	// A branch only present on the remote still counts as existing.
	gitRun(t, dir, "branch", "feature/pushed")
	gitRun(t, dir, "push", "origin", "feature/pushed")
	gitRun(t, dir, "branch", "-D", "feature/pushed")

	err = f.requireBranchAbsent(ctx, "feature/pushed")
	require.True(t, errors.As(err, &exists))
}

func TestRequireBranch(t *testing.T) {
	dir := setupTestRepo(t)
	f, _, _ := newTestFlow(t, dir)
	ctx := context.Background()

	require.NoError(t, f.requireBranch(ctx, "develop"))

	var missing *BranchMissingError
	err := f.requireBranch(ctx, "feature/nope")
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "feature/nope", missing.Name)
}

func TestRequireTagAbsent(t *testing.T) {
	dir := setupTestRepo(t)
	f, _, _ := newTestFlow(t, dir)
	ctx := context.Background()

	require.NoError(t, f.requireTagAbsent(ctx, "1.0"))

	gitRun(t, dir, "tag", "1.0")
	var exists *TagExistsError
	err := f.requireTagAbsent(ctx, "1.0")
	require.True(t, errors.As(err, &exists))
}

func TestRequireSynced(t *testing.T) {
	dir := setupTestRepo(t)
	setupRemote(t, dir)
	f, _, errBuf := newTestFlow(t, dir)
	ctx := context.Background()

	// Equal: fine.
	require.NoError(t, f.requireSynced(ctx, "develop", "origin/develop"))

	// Local ahead: warning only.
	gitRun(t, dir, "checkout", "develop")
	commitFile(t, dir, "a.txt", "a", "ahead commit")
	require.NoError(t, f.requireSynced(ctx, "develop", "origin/develop"))
	assert.Contains(t, errBuf.String(), "ahead")

	// Local behind: fatal, fast-forward hint.
	gitRun(t, dir, "push", "origin", "develop")
	gitRun(t, dir, "reset", "--hard", "HEAD~1")
	err := f.requireSynced(ctx, "develop", "origin/develop")
	var sync *SyncError
	require.True(t, errors.As(err, &sync))
	assert.Equal(t, git.RelationBehind, sync.Relation)
	assert.Contains(t, err.Error(), "fast-forwarded")

	// Diverged: fatal.
	commitFile(t, dir, "b.txt", "b", "diverging commit")
	err = f.requireSynced(ctx, "develop", "origin/develop")
	require.True(t, errors.As(err, &sync))
	assert.Equal(t, git.RelationDiverged, sync.Relation)
}

func TestRequireSyncedWithRemote_NoRemoteBranch(t *testing.T) {
	dir := setupTestRepo(t)
	f, _, _ := newTestFlow(t, dir)

	// No remote configured at all: the check is skipped.
	require.NoError(t, f.requireSyncedWithRemote(context.Background(), "develop"))
}
