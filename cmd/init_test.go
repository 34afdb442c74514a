package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yarlson/gflow/internal/config"
)

func TestInitCmd(t *testing.T) {
	dir := setupTestRepo(t)

	out, err := execute(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "gflow.yaml")

	_, err = os.Stat(filepath.Join(dir, config.ConfigFileName))
	assert.NoError(t, err)
}

func TestInitCmd_CreatesDevelop(t *testing.T) {
	dir := setupTestRepo(t)
	gitRun(t, dir, "branch", "-D", "develop")

	out, err := execute(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, `Created branch "develop"`)

	gitRun(t, dir, "rev-parse", "--verify", "develop")
}

func TestInitCmd_RefusesOverwriteWithoutForce(t *testing.T) {
	setupTestRepo(t)

	_, err := execute(t, "init")
	require.NoError(t, err)

	_, err = execute(t, "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute(t, "init", "--force")
	require.NoError(t, err)
}

func TestInitCmd_InitializesRepository(t *testing.T) {
	dir := t.TempDir()
	origDir, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	require.NoError(t, os.Chdir(dir))

	_, err = execute(t, "init")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, ".git"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, config.ConfigFileName))
	assert.NoError(t, err)
}
