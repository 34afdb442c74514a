package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "master", cfg.Branch.Stable)
	assert.Equal(t, "develop", cfg.Branch.Develop)
	assert.Equal(t, "origin", cfg.Remote.Name)
	assert.Equal(t, "feature/", cfg.Prefix.Feature)
	assert.Equal(t, "release/", cfg.Prefix.Release)
	assert.Equal(t, "hotfix/", cfg.Prefix.Hotfix)
	assert.Equal(t, "support/", cfg.Prefix.Support)
	assert.Equal(t, "", cfg.Prefix.VersionTag)
}

func TestLoadConfig_FromFile(t *testing.T) {
	dir := t.TempDir()
	content := `branch:
  stable: main
  develop: dev
remote:
  name: upstream
prefix:
  feature: feat/
  version_tag: v
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gflow.yaml"), []byte(content), 0644))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "main", cfg.Branch.Stable)
	assert.Equal(t, "dev", cfg.Branch.Develop)
	assert.Equal(t, "upstream", cfg.Remote.Name)
	assert.Equal(t, "feat/", cfg.Prefix.Feature)
	assert.Equal(t, "v", cfg.Prefix.VersionTag)
	// Unset keys keep their defaults.
	assert.Equal(t, "release/", cfg.Prefix.Release)
}

func TestLoadConfigWithFile_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("branch:\n  stable: main\n"), 0644))

	cfg, err := LoadConfigWithFile(t.TempDir(), path)
	require.NoError(t, err)
	assert.Equal(t, "main", cfg.Branch.Stable)
}

func TestLoadConfigFromPath_Missing(t *testing.T) {
	cfg, err := LoadConfigFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "master", cfg.Branch.Stable)
}

func TestConfig_Write(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)

	require.NoError(t, Default().Write(path, false))

	// Written file round-trips through the loader.
	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	// Refuses to overwrite without force.
	err = Default().Write(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, Default().Write(path, true))
}
