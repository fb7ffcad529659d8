package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 1_000_000, cfg.FollowExpansionCap)
	assert.True(t, cfg.EmitASTGraph)
	assert.True(t, cfg.ColorDiagnostics)
	assert.True(t, cfg.SortSemanticErrors)
}

func TestLoadEmptyPathReturnsDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMissingFileErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "nonexistent.toml"))
	assert.Error(t, err)
}

func TestLoadOverridesOnlyGivenFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "compiler.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
follow_expansion_cap = 500
color_diagnostics = false
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.FollowExpansionCap)
	assert.False(t, cfg.ColorDiagnostics)
	assert.True(t, cfg.EmitASTGraph)       // untouched field keeps its default
	assert.True(t, cfg.SortSemanticErrors) // untouched field keeps its default
}

func TestLoadInvalidTOMLErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("not = [valid"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}
