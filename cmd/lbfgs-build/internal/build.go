package internal

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/goplus/lbfgs/internal/build"
	"github.com/goplus/lbfgs/internal/linkage"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the library and print its link directives",
	Long: `Build runs the vendored Makefile with the selected link kind, locates the
Fortran runtime when the target needs it, and prints the link directives.
Nothing is printed if any step fails.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	t, err := resolveTarget(cfg)
	if err != nil {
		return err
	}
	format, err := linkage.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	// Keep stdout for directives when they are printed there.
	toolOut := cmd.OutOrStdout()
	if cfg.EmitFile == "" {
		toolOut = cmd.ErrOrStderr()
	}
	toolErr := cmd.ErrOrStderr()
	if quiet {
		toolOut, toolErr = io.Discard, io.Discard
	}

	res, err := build.New(build.Options{
		Kind:      linkage.SelectKind(cfg.Static),
		Target:    t,
		OutputDir: cfg.OutDir,
		SourceDir: cfg.Source,
		Compiler:  cfg.Compiler,
		MakeEnv:   cfg.MakeEnv,
		Stdout:    toolOut,
		Stderr:    toolErr,
	}).Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to build lbfgs for %s: %w", t, err)
	}
	return emit(cmd, format, cfg.EmitFile, cfg.Package, res)
}
