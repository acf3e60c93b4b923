package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	xdg.Reload()

	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.True(t, cfg.Patch.Strict)
	assert.Equal(t, "bin/rails", cfg.Framework.Bin)
	assert.Equal(t, "rails", cfg.Framework.New)
	assert.Equal(t, "tmp/hatch.toml", cfg.State.File)
	assert.Empty(t, cfg.Template.Source)
}

func TestLoad_FileInWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hatch.yml"), []byte(`
template:
  source: https://github.com/acme/kickstart/tree/rails-7
patch:
  strict: false
framework:
  version: "7.1.3"
`), 0644))

	v := New()
	cfg, err := Load(v, "")
	require.NoError(t, err)

	assert.Equal(t, "https://github.com/acme/kickstart/tree/rails-7", cfg.Template.Source)
	assert.False(t, cfg.Patch.Strict)
	assert.Equal(t, "7.1.3", cfg.Framework.Version)
	assert.Equal(t, "bin/rails", cfg.Framework.Bin, "unset keys keep defaults")
	assert.Contains(t, Used(v), "hatch.yml")
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HATCH_PATCH_STRICT", "false")
	t.Setenv("HATCH_FRAMEWORK_BIN", "bin/rails-wrapper")

	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.False(t, cfg.Patch.Strict)
	assert.Equal(t, "bin/rails-wrapper", cfg.Framework.Bin)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hatch.yml")
	require.NoError(t, os.WriteFile(path, []byte("patch: [strict"), 0644))

	_, err := Load(New(), path)
	assert.Error(t, err)
}
