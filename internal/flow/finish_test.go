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
	"github.com/yarlson/gflow/internal/state"
)

// loadMarker reads the resume marker of the repository at dir.
func loadMarker(t *testing.T, dir string) *state.PausedMerge {
	t.Helper()
	pm, err := state.LoadPausedMerge(filepath.Join(dir, ".git"))
	require.NoError(t, err)
	return pm
}

// setupConflict prepares feature/login and develop with conflicting commits
// to the same file.
func setupConflict(t *testing.T, dir string) {
	t.Helper()
	gitRun(t, dir, "checkout", "-b", "feature/login", "develop")
	commitFile(t, dir, "file.txt", "feature version", "feature change")
	gitRun(t, dir, "checkout", "develop")
	commitFile(t, dir, "file.txt", "develop version", "develop change")
}

func TestFeatureFinish_FastForward(t *testing.T) {
	dir := setupTestRepo(t)
	gitRun(t, dir, "checkout", "-b", "feature/login", "develop")
	commitFile(t, dir, "login.txt", "login", "add login")
	featureHead := gitRun(t, dir, "rev-parse", "feature/login")
	f, out, _ := newTestFlow(t, dir)

	err := f.FeatureFinish(context.Background(), KindFeature, "login", FinishOptions{})
	require.NoError(t, err)

	// One divergent commit: fast-forward, no merge commit.
	assert.Equal(t, featureHead, gitRun(t, dir, "rev-parse", "develop"))
	assert.Equal(t, "0", gitRun(t, dir, "rev-list", "--count", "--merges", "develop"))

	// Branch deleted, HEAD on develop.
	assert.Equal(t, "develop", gitRun(t, dir, "symbolic-ref", "--short", "HEAD"))
	assert.NotContains(t, gitRun(t, dir, "branch", "--list", "feature/login"), "feature/login")

	assert.Contains(t, out.String(), `"feature/login" was merged into "develop"`)
}

func TestFeatureFinish_MergeCommitOnDivergence(t *testing.T) {
	dir := setupTestRepo(t)
	gitRun(t, dir, "checkout", "-b", "feature/login", "develop")
	commitFile(t, dir, "a.txt", "a", "first")
	commitFile(t, dir, "b.txt", "b", "second")
	f, _, _ := newTestFlow(t, dir)

	err := f.FeatureFinish(context.Background(), KindFeature, "login", FinishOptions{})
	require.NoError(t, err)

	// Two commits on the topic branch: always a merge commit.
	assert.Equal(t, "1", gitRun(t, dir, "rev-list", "--count", "--merges", "develop"))
	assert.Equal(t, "develop", gitRun(t, dir, "symbolic-ref", "--short", "HEAD"))
}

func TestFeatureFinish_AlreadyFinished(t *testing.T) {
	dir := setupTestRepo(t)
	gitRun(t, dir, "checkout", "-b", "feature/login", "develop")
	commitFile(t, dir, "login.txt", "login", "add login")
	f, _, _ := newTestFlow(t, dir)
	ctx := context.Background()

	require.NoError(t, f.FeatureFinish(ctx, KindFeature, "login", FinishOptions{}))

	// Re-running must fail, never merge twice.
	err := f.FeatureFinish(ctx, KindFeature, "login", FinishOptions{})
	require.Error(t, err)
	var notFound *NoBranchError
	assert.True(t, errors.As(err, &notFound), "got %v", err)
}

func TestFeatureFinish_ConflictWritesMarker(t *testing.T) {
	dir := setupTestRepo(t)
	setupConflict(t, dir)
	f, _, errBuf := newTestFlow(t, dir)

	err := f.FeatureFinish(context.Background(), KindFeature, "login", FinishOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, git.ErrMergeConflict), "got %v", err)

	pm := loadMarker(t, dir)
	require.NotNil(t, pm)
	assert.Equal(t, state.PausedMerge{Topic: "feature/login", Target: "develop"}, *pm)

	assert.Contains(t, errBuf.String(), "git mergetool")
	assert.Contains(t, errBuf.String(), "gflow feature finish login")

	// Branch survives the conflict.
	assert.Contains(t, gitRun(t, dir, "branch", "--list", "feature/login"), "feature/login")
}

func TestFeatureFinish_ResumeWhileConflictsUnresolved(t *testing.T) {
	dir := setupTestRepo(t)
	setupConflict(t, dir)
	f, _, _ := newTestFlow(t, dir)
	ctx := context.Background()

	require.Error(t, f.FeatureFinish(ctx, KindFeature, "login", FinishOptions{}))

	// Tree still dirty with conflict markers: refuse without side effects.
	err := f.FeatureFinish(ctx, KindFeature, "login", FinishOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unresolved merge conflicts")

	// Marker and branch untouched.
	assert.NotNil(t, loadMarker(t, dir))
	assert.Contains(t, gitRun(t, dir, "branch", "--list", "feature/login"), "feature/login")
}

func TestFeatureFinish_ResumeAfterResolve(t *testing.T) {
	dir := setupTestRepo(t)
	setupConflict(t, dir)
	f, out, _ := newTestFlow(t, dir)
	ctx := context.Background()

	require.Error(t, f.FeatureFinish(ctx, KindFeature, "login", FinishOptions{}))

	// Resolve the conflict and conclude the merge by committing.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "file.txt"), []byte("resolved"), 0644))
	gitRun(t, dir, "add", "file.txt")
	gitRun(t, dir, "commit", "--no-edit")

	require.NoError(t, f.FeatureFinish(ctx, KindFeature, "login", FinishOptions{}))

	// Marker consumed, branch deleted, no second merge.
	assert.Nil(t, loadMarker(t, dir))
	assert.NotContains(t, gitRun(t, dir, "branch", "--list", "feature/login"), "feature/login")
	assert.Equal(t, "1", gitRun(t, dir, "rev-list", "--count", "--merges", "develop"))
	assert.Contains(t, out.String(), "Summary of actions")
}

func TestFeatureFinish_ResumeAfterAbortRestartsMerge(t *testing.T) {
	dir := setupTestRepo(t)
	setupConflict(t, dir)
	f, _, _ := newTestFlow(t, dir)
	ctx := context.Background()

	require.Error(t, f.FeatureFinish(ctx, KindFeature, "login", FinishOptions{}))

	// Abort the merge, then remove the conflicting develop commit so the
	// restarted finish can merge cleanly.
	gitRun(t, dir, "merge", "--abort")
	gitRun(t, dir, "reset", "--hard", "HEAD~1")

	require.NoError(t, f.FeatureFinish(ctx, KindFeature, "login", FinishOptions{}))

	assert.Nil(t, loadMarker(t, dir))
	assert.NotContains(t, gitRun(t, dir, "branch", "--list", "feature/login"), "feature/login")
	assert.Equal(t, "feature version", readFile(t, dir, "file.txt"))
}

func TestFeatureFinish_RebaseConflictLeavesNoMarker(t *testing.T) {
	dir := setupTestRepo(t)
	setupConflict(t, dir)
	f, _, _ := newTestFlow(t, dir)

	err := f.FeatureFinish(context.Background(), KindFeature, "login", FinishOptions{Rebase: true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, git.ErrRebaseConflict), "got %v", err)
	assert.Contains(t, err.Error(), "finish aborted")

	// Rebase conflicts are not resumable; no marker.
	assert.Nil(t, loadMarker(t, dir))

	gitRun(t, dir, "rebase", "--abort")
}

func TestFeatureFinish_Squash(t *testing.T) {
	dir := setupTestRepo(t)
	gitRun(t, dir, "checkout", "-b", "feature/login", "develop")
	commitFile(t, dir, "a.txt", "a", "first")
	commitFile(t, dir, "b.txt", "b", "second")
	developHead := gitRun(t, dir, "rev-parse", "develop")
	f, _, _ := newTestFlow(t, dir)

	err := f.FeatureFinish(context.Background(), KindFeature, "login", FinishOptions{Squash: true})
	require.NoError(t, err)

	// Both commits collapse into a single non-merge commit on develop.
	assert.Equal(t, "1", gitRun(t, dir, "rev-list", "--count", developHead+"..develop"))
	assert.Equal(t, "0", gitRun(t, dir, "rev-list", "--count", "--merges", "develop"))
	assert.NotContains(t, gitRun(t, dir, "branch", "--list", "feature/login"), "feature/login")
}

func TestFeatureFinish_DeletesRemoteBranch(t *testing.T) {
	dir := setupTestRepo(t)
	setupRemote(t, dir)
	gitRun(t, dir, "checkout", "-b", "feature/login", "develop")
	commitFile(t, dir, "login.txt", "login", "add login")
	gitRun(t, dir, "push", "-u", "origin", "feature/login")
	f, out, _ := newTestFlow(t, dir)

	err := f.FeatureFinish(context.Background(), KindFeature, "login", FinishOptions{})
	require.NoError(t, err)

	assert.Equal(t, "", gitRun(t, dir, "branch", "-r", "--list", "origin/feature/login"))
	assert.Contains(t, out.String(), "remotely deleted")
}

func readFile(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(data)
}
