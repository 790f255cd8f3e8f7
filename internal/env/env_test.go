package env

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFeature(t *testing.T) {
	t.Setenv(Static, "")
	if !Feature(Static) {
		t.Error("Feature should be set by presence, even when empty")
	}
	os.Unsetenv(Static)
	if Feature(Static) {
		t.Error("Feature set after unsetenv")
	}
}

func TestLookup(t *testing.T) {
	t.Setenv(OutDir, "")
	if _, ok := Lookup(OutDir); ok {
		t.Error("Lookup reported an empty value as set")
	}
	t.Setenv(OutDir, "/tmp/out")
	if v, ok := Lookup(OutDir); !ok || v != "/tmp/out" {
		t.Errorf("Lookup = %q, %v", v, ok)
	}
}

func TestRequire(t *testing.T) {
	if v, err := Require("gfortran", "Fortran compiler", "fc", Compiler); err != nil || v != "gfortran" {
		t.Errorf("Require = %q, %v", v, err)
	}

	_, err := Require("", "output directory", "out", OutDir)
	if !errors.Is(err, ErrMissing) {
		t.Fatalf("Require error = %v, want ErrMissing", err)
	}
	for _, want := range []string{"output directory", "--out", "OUT_DIR"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestConfigDir(t *testing.T) {
	dir, err := ConfigDir()
	if err != nil {
		t.Skipf("no user config dir: %v", err)
	}
	if filepath.Base(dir) != "lbfgs-build" {
		t.Errorf("ConfigDir() = %q", dir)
	}
}
