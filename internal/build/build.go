// Package build compiles the vendored Fortran L-BFGS library with its own
// Makefile and works out the linker directives a program needs to use it.
package build

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goplus/lbfgs/internal/ctxlog"
	"github.com/goplus/lbfgs/internal/env"
	"github.com/goplus/lbfgs/internal/fortran"
	"github.com/goplus/lbfgs/internal/linkage"
	"github.com/goplus/lbfgs/internal/lockedfile"
	"github.com/goplus/lbfgs/internal/target"
	"github.com/goplus/lbfgs/pkgs/buildsys"
	"github.com/goplus/lbfgs/x/gnumake"
)

// Library names passed to the linker.
const (
	LibLBFGS    = "lbfgs"
	LibGcc      = "gcc"
	LibGfortran = "gfortran"
)

const lockFile = ".lbfgs.lock"

// Prober resolves the directory holding one of the Fortran compiler's
// runtime archives.
type Prober interface {
	LibDir(ctx context.Context, archive string) (string, error)
}

// Options configures an Orchestrator.
type Options struct {
	Kind      linkage.Kind
	Target    target.Triple
	OutputDir string
	SourceDir string
	Compiler  string            // Fortran compiler, only needed by some targets
	MakeEnv   map[string]string // extra environment for the build tool

	// Stdout and Stderr receive the build tool's output. Nil means the
	// process's own streams.
	Stdout io.Writer
	Stderr io.Writer

	// NewBuildSystem and NewProber replace the GNU make driver and the
	// gfortran prober.
	NewBuildSystem buildsys.Factory
	NewProber      func(compiler string) Prober

	// Now stamps the manifest. Defaults to time.Now.
	Now func() time.Time
}

// Result is the outcome of a successful build.
type Result struct {
	Kind       linkage.Kind
	Target     target.Triple
	OS         target.OSName
	Tool       string
	OutputDir  string
	Directives []linkage.Directive
	BuildTime  time.Time
}

// Orchestrator runs the build and emits its directives.
type Orchestrator struct {
	opts Options
}

// New returns an Orchestrator for opts, filling in defaults.
func New(opts Options) *Orchestrator {
	if opts.Kind == "" {
		opts.Kind = linkage.Dynamic
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.NewBuildSystem == nil {
		stdout, stderr := opts.Stdout, opts.Stderr
		opts.NewBuildSystem = func(tool string) buildsys.BuildSystem {
			m := gnumake.New(tool)
			m.SetStdout(stdout)
			m.SetStderr(stderr)
			return m
		}
	}
	if opts.NewProber == nil {
		opts.NewProber = func(compiler string) Prober { return fortran.New(compiler) }
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Orchestrator{opts: opts}
}

// Run builds the library and returns the directives to link it. Every step
// must succeed; on any failure no directives are returned and no manifest is
// written.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	log := ctxlog.FromContext(ctx)

	osName, err := o.opts.Target.OSName()
	if err != nil {
		return nil, err
	}
	tool := target.BuildTool(osName)

	outDir, err := env.Require(o.opts.OutputDir, "output directory", "out", env.OutDir)
	if err != nil {
		return nil, err
	}
	// make runs in the source tree; a relative path would land there.
	if outDir, err = filepath.Abs(outDir); err != nil {
		return nil, err
	}
	// The Makefile is run by MSYS tools on Windows, which want forward slashes.
	outDir = strings.ReplaceAll(outDir, `\`, "/")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, err
	}

	unlock, err := lockedfile.MutexAt(filepath.Join(outDir, lockFile)).Lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	log.Info("building lbfgs",
		"kind", o.opts.Kind, "target", o.opts.Target.String(), "os", osName, "tool", tool, "out", outDir)

	bs := o.opts.NewBuildSystem(tool)
	bs.Source(o.opts.SourceDir)
	for k, v := range o.opts.MakeEnv {
		bs.Env(k, v)
	}
	bs.Var("OUTPUT", outDir)
	bs.Var("OSNAME", string(osName))
	if err := bs.Build(ctx, string(o.opts.Kind)); err != nil {
		return nil, err
	}

	var prober Prober
	probe := func(archive string) (string, error) {
		if prober == nil {
			fc, err := env.Require(o.opts.Compiler, "Fortran compiler", "fc", env.Compiler)
			if err != nil {
				return "", err
			}
			prober = o.opts.NewProber(fc)
		}
		return prober.LibDir(ctx, archive)
	}
	ds, err := Directives(o.opts.Kind, o.opts.Target, outDir, probe)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Kind:       o.opts.Kind,
		Target:     o.opts.Target,
		OS:         osName,
		Tool:       tool,
		OutputDir:  outDir,
		Directives: ds,
		BuildTime:  o.opts.Now(),
	}
	if err := saveManifest(res); err != nil {
		return nil, fmt.Errorf("save manifest: %w", err)
	}
	log.Debug("build finished", "search", linkage.SearchPaths(ds), "directives", len(ds))
	return res, nil
}

// Directives returns the linker directives for a library of the given kind
// built into outDir for t. probe is called for each runtime archive the
// target's policy needs located.
func Directives(kind linkage.Kind, t target.Triple, outDir string, probe func(archive string) (string, error)) ([]linkage.Directive, error) {
	policy := target.PolicyFor(t)

	ds := []linkage.Directive{linkage.Search(outDir)}
	for _, archive := range policy.DylibProbes {
		dir, err := probe(archive)
		if err != nil {
			return nil, err
		}
		ds = append(ds, linkage.Search(dir))
	}

	ds = append(ds,
		linkage.Link(kind, LibLBFGS),
		linkage.Link(linkage.Dynamic, LibGcc),
	)

	runtimeKind := linkage.Dynamic
	if policy.StaticRuntime {
		runtimeKind = linkage.Static
	}
	for _, archive := range policy.StaticProbes {
		dir, err := probe(archive)
		if err != nil {
			return nil, err
		}
		ds = append(ds, linkage.Search(dir))
	}

	ds = append(ds, linkage.Link(runtimeKind, LibGfortran))
	for _, lib := range policy.ExtraLibs {
		ds = append(ds, linkage.Link(runtimeKind, lib))
	}
	return ds, nil
}
