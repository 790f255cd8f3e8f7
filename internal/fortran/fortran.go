// Package fortran queries a GNU Fortran compiler for the location of its
// runtime support archives.
package fortran

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/goplus/lbfgs/internal/ctxlog"
	"github.com/goplus/lbfgs/internal/xexec"
)

var (
	// ErrNotFound is returned when the compiler does not know the archive.
	ErrNotFound = errors.New("archive not found by compiler")
	// ErrInvalidOutput is returned when the compiler's answer is not a
	// single UTF-8 path.
	ErrInvalidOutput = errors.New("invalid compiler output")
)

// Compiler is a Fortran compiler executable, such as "gfortran" or a full path.
type Compiler struct {
	Path string
}

// New returns a Compiler for the executable at path.
func New(path string) *Compiler {
	return &Compiler{Path: path}
}

// FileName runs "<fc> -print-file-name=<archive>" and returns the path the
// compiler resolves archive to.
func (c *Compiler) FileName(ctx context.Context, archive string) (string, error) {
	cmd := exec.CommandContext(ctx, c.Path, "-print-file-name="+archive)
	out, err := xexec.Output(ctx, cmd)
	if err != nil {
		return "", fmt.Errorf("failed to find %s: %w", archive, err)
	}
	if !utf8.Valid(out) {
		return "", fmt.Errorf("invalid path to %s: %w: not UTF-8", archive, ErrInvalidOutput)
	}
	path := strings.TrimSpace(string(out))
	if strings.ContainsAny(path, "\r\n") {
		return "", fmt.Errorf("invalid path to %s: %w: %q", archive, ErrInvalidOutput, path)
	}
	// gcc echoes the bare name back when it cannot resolve it.
	if path == "" || path == archive {
		return "", fmt.Errorf("path to %s: %w", archive, ErrNotFound)
	}
	return path, nil
}

// LibDir returns the directory containing archive.
func (c *Compiler) LibDir(ctx context.Context, archive string) (string, error) {
	path, err := c.FileName(ctx, archive)
	if err != nil {
		return "", err
	}
	dir := filepath.Dir(path)
	ctxlog.FromContext(ctx).Debug("probed compiler", "fc", c.Path, "archive", archive, "dir", dir)
	return dir, nil
}
