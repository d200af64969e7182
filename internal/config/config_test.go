package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hassandahiru/irc/internal/config"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)
}

func TestLoad_OverridesOnlyFieldsPresentInFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "compiler.toml")
	contents := `
[optimizer]
max_iterations = 3

[dump]
format = "dot"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	require.Equal(t, 3, cfg.Optimizer.MaxIterations)
	require.Equal(t, "dot", cfg.Dump.Format)
	require.Equal(t, "info", cfg.Log.Level, "unspecified section should keep its default")
	require.Equal(t, config.Default().Optimizer.Passes, cfg.Optimizer.Passes)
}

func TestLoad_MalformedFileReturnsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "compiler.toml")
	require.NoError(t, os.WriteFile(path, []byte("not valid toml [["), 0o644))

	_, err := config.Load(path)
	require.Error(t, err)
}
