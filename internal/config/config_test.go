package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goplus/lbfgs/internal/env"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{env.OutDir, env.Target, env.Compiler, env.Source, env.Static} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "lbfgs.yaml"))
	require.NoError(t, err)

	assert.True(t, cfg.Static)
	assert.Equal(t, "build/lbfgs", cfg.OutDir)
	assert.Equal(t, "gfortran-13", cfg.Compiler)
	assert.Equal(t, "third_party/lbfgsb", cfg.Source)
	assert.Equal(t, "cgo", cfg.Format)
	assert.Equal(t, "optim", cfg.Package)
	assert.Equal(t, map[string]string{"FFLAGS": "-O2"}, cfg.MakeEnv)
	assert.Empty(t, cfg.Target)
}

func TestLoadKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("fc: gfortran\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "fortran", cfg.Source)
	assert.Equal(t, "ldflags", cfg.Format)
	assert.Equal(t, "gfortran", cfg.Compiler)
}

func TestLoadEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadUnknownField(t *testing.T) {
	path := filepath.Join("testdata", "unknown.yaml")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outdir")
	assert.Contains(t, err.Error(), path)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestApplyEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(env.OutDir, "/tmp/out")
	t.Setenv(env.Target, "x86_64-apple-darwin")
	t.Setenv(env.Compiler, "/usr/local/bin/gfortran")
	t.Setenv(env.Static, "")

	cfg := Default()
	cfg.Compiler = "gfortran-13"
	cfg.ApplyEnv()

	assert.True(t, cfg.Static)
	assert.Equal(t, "/tmp/out", cfg.OutDir)
	assert.Equal(t, "x86_64-apple-darwin", cfg.Target)
	assert.Equal(t, "/usr/local/bin/gfortran", cfg.Compiler)
	assert.Equal(t, "fortran", cfg.Source)
}

func TestResolve(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	dir := t.TempDir()
	cfg, err := Resolve("", dir)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("fc: gfortran-12\nstatic: false\n"), 0o644))
	t.Setenv(env.Static, "1")
	cfg, err = Resolve("", dir)
	require.NoError(t, err)
	assert.Equal(t, "gfortran-12", cfg.Compiler)
	assert.True(t, cfg.Static, "environment overrides the file")
}

func TestFindExplicit(t *testing.T) {
	got, err := Find("custom.yaml", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "custom.yaml", got)
}
