package gnumake

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goplus/lbfgs/internal/xexec"
	"github.com/goplus/lbfgs/pkgs/buildsys"
)

var _ buildsys.BuildSystem = (*Make)(nil)

func TestArgs(t *testing.T) {
	m := New("make")
	m.Var("OUTPUT", "/tmp/out")
	m.Var("OSNAME", "Linux")
	m.Var("OUTPUT", "/tmp/other")

	got := strings.Join(m.Args("static"), " ")
	if want := "static OUTPUT=/tmp/other OSNAME=Linux"; got != want {
		t.Errorf("Args = %q, want %q", got, want)
	}
	if got := strings.Join(New("make").Args(), " "); got != "" {
		t.Errorf("Args on empty = %q, want empty", got)
	}
}

func requireMake(t *testing.T) {
	t.Helper()
	for _, bin := range []string{"make", "sh"} {
		if _, err := exec.LookPath(bin); err != nil {
			t.Skipf("%s not found in PATH", bin)
		}
	}
}

func TestBuildE2E(t *testing.T) {
	requireMake(t)

	out := filepath.Join(t.TempDir(), "out")
	absSource, err := filepath.Abs(filepath.Join("testdata", "project"))
	if err != nil {
		t.Fatal(err)
	}

	t.Setenv("CUSTOM", "")

	var stdout bytes.Buffer
	m := New("make")
	m.Source(absSource)
	m.Env("CUSTOM", "VAL")
	m.Var("OUTPUT", filepath.ToSlash(out))
	m.Var("OSNAME", "Macos")
	m.SetStdout(&stdout)

	if err := m.Build(context.Background(), "static"); err != nil {
		t.Fatalf("Build: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(out, "liblbfgs.a"))
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if got, want := strings.TrimSpace(string(data)), "static Macos VAL"; got != want {
		t.Errorf("artifact = %q, want %q", got, want)
	}
	if os.Getenv("CUSTOM") != "" {
		t.Error("Env leaked into the current process")
	}
	if !strings.Contains(stdout.String(), "mkdir -p") {
		t.Errorf("make output not captured: %q", stdout.String())
	}
}

func TestBuildFailure(t *testing.T) {
	requireMake(t)

	absSource, err := filepath.Abs(filepath.Join("testdata", "project"))
	if err != nil {
		t.Fatal(err)
	}
	m := New("make")
	m.Source(absSource)
	m.SetStdout(&bytes.Buffer{})
	m.SetStderr(&bytes.Buffer{})

	err = m.Build(context.Background(), "fail")
	var cerr *xexec.CommandError
	if !errors.As(err, &cerr) {
		t.Fatalf("Build error = %v, want *xexec.CommandError", err)
	}
	if !cerr.Exited() || cerr.ExitCode() == 0 {
		t.Errorf("CommandError = %+v, want non-zero exit", cerr)
	}
	if !strings.HasPrefix(err.Error(), "`make fail` failed: ") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestBuildMissingTool(t *testing.T) {
	m := New("lbfgs-no-such-make")
	m.Source(t.TempDir())
	err := m.Build(context.Background(), "dylib")
	var cerr *xexec.CommandError
	if !errors.As(err, &cerr) || cerr.Exited() {
		t.Fatalf("Build error = %v, want launch failure", err)
	}
}
