// Package xexec runs build subprocesses and reports their failures with the
// command line that failed.
package xexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"github.com/goplus/lbfgs/internal/ctxlog"
)

// CommandError describes a subprocess that could not be started or that
// exited unsuccessfully.
type CommandError struct {
	Cmd    string // command line as run
	Dir    string // working directory, empty for the current one
	Stderr string // trimmed stderr, only captured by Output
	Err    error
}

func (e *CommandError) Error() string {
	var msg string
	if e.Exited() {
		msg = fmt.Sprintf("`%s` failed: %v", e.Cmd, e.Err)
	} else {
		msg = fmt.Sprintf("failed to execute `%s`: %v", e.Cmd, e.Err)
	}
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *CommandError) Unwrap() error { return e.Err }

// Exited reports whether the process ran and exited with a non-zero status,
// as opposed to never starting.
func (e *CommandError) Exited() bool {
	var exitErr *exec.ExitError
	return errors.As(e.Err, &exitErr)
}

// ExitCode returns the exit status of the process, or -1 if it did not exit
// normally.
func (e *CommandError) ExitCode() int {
	var exitErr *exec.ExitError
	if errors.As(e.Err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// String renders cmd the way it is reported in logs and errors.
func String(cmd *exec.Cmd) string {
	return strings.Join(cmd.Args, " ")
}

// Run logs and runs cmd, waiting for it to finish.
func Run(ctx context.Context, cmd *exec.Cmd) error {
	line := String(cmd)
	ctxlog.FromContext(ctx).Info("running", "cmd", line, "dir", cmd.Dir)
	if err := cmd.Run(); err != nil {
		return &CommandError{Cmd: line, Dir: cmd.Dir, Err: err}
	}
	return nil
}

// Output logs and runs cmd, returning its standard output. Stderr is captured
// into the returned error when cmd.Stderr is unset.
func Output(ctx context.Context, cmd *exec.Cmd) ([]byte, error) {
	line := String(cmd)
	ctxlog.FromContext(ctx).Debug("running", "cmd", line, "dir", cmd.Dir)

	var stderr bytes.Buffer
	if cmd.Stderr == nil {
		cmd.Stderr = &stderr
	}
	out, err := cmd.Output()
	if err != nil {
		return nil, &CommandError{
			Cmd:    line,
			Dir:    cmd.Dir,
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}
	return out, nil
}

// MergeEnv returns base with every key in overrides replaced or appended.
// Keys are applied in sorted order so the result is stable.
func MergeEnv(base []string, overrides map[string]string) []string {
	out := make([]string, len(base))
	copy(out, base)
	idx := make(map[string]int, len(out))
	for i, kv := range out {
		if k, _, ok := strings.Cut(kv, "="); ok {
			idx[k] = i
		}
	}
	for _, k := range sortedKeys(overrides) {
		v := overrides[k]
		if i, ok := idx[k]; ok {
			out[i] = k + "=" + v
		} else {
			out = append(out, k+"="+v)
		}
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
