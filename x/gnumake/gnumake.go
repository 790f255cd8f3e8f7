// Package gnumake drives a source tree's own Makefile with GNU make.
package gnumake

import (
	"context"
	"io"
	"os"
	"os/exec"

	"github.com/goplus/lbfgs/internal/xexec"
)

type variable struct {
	key, value string
}

// Make runs make targets inside a source directory.
type Make struct {
	tool      string
	sourceDir string
	vars      []variable
	env       map[string]string
	stdout    io.Writer
	stderr    io.Writer
}

// New returns a Make that runs tool (e.g. "make" or "mingw32-make") in the
// current directory until Source is called.
func New(tool string) *Make {
	return &Make{
		tool:   tool,
		env:    make(map[string]string),
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// Source sets the directory make runs in.
func (m *Make) Source(dir string) { m.sourceDir = dir }

// Env sets key=value in the environment of every command spawned later.
// The current process environment is left untouched.
func (m *Make) Env(key, value string) { m.env[key] = value }

// Var passes KEY=VALUE on the make command line, after the targets.
// Variables are passed in the order they are set; setting a key again
// replaces its value in place.
func (m *Make) Var(key, value string) {
	for i := range m.vars {
		if m.vars[i].key == key {
			m.vars[i].value = value
			return
		}
	}
	m.vars = append(m.vars, variable{key, value})
}

// SetStdout redirects make's standard output.
func (m *Make) SetStdout(w io.Writer) { m.stdout = w }

// SetStderr redirects make's standard error.
func (m *Make) SetStderr(w io.Writer) { m.stderr = w }

// Args returns the command line arguments Build would pass for targets.
func (m *Make) Args(targets ...string) []string {
	args := make([]string, 0, len(targets)+len(m.vars))
	args = append(args, targets...)
	for _, v := range m.vars {
		args = append(args, v.key+"="+v.value)
	}
	return args
}

// Build runs "<tool> <targets...> <KEY=VALUE...>" in the source directory and
// waits for it. A non-zero exit or a failure to start make is returned as an
// *xexec.CommandError.
func (m *Make) Build(ctx context.Context, targets ...string) error {
	cmd := exec.CommandContext(ctx, m.tool, m.Args(targets...)...)
	cmd.Dir = m.sourceDir
	cmd.Stdout = m.stdout
	cmd.Stderr = m.stderr
	if len(m.env) > 0 {
		cmd.Env = xexec.MergeEnv(os.Environ(), m.env)
	}
	return xexec.Run(ctx, cmd)
}
