package internal

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goplus/lbfgs/internal/build"
	"github.com/goplus/lbfgs/internal/env"
	"github.com/goplus/lbfgs/internal/linkage"
)

var flagsCmd = &cobra.Command{
	Use:   "flags",
	Short: "Print the link directives of the last build",
	Long: `Flags prints the link directives recorded by the last successful build in
the output directory, in any format, without running the build again.`,
	Args: cobra.NoArgs,
	RunE: runFlags,
}

func init() {
	rootCmd.AddCommand(flagsCmd)
}

func runFlags(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	format, err := linkage.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	out, err := env.Require(cfg.OutDir, "output directory", "out", env.OutDir)
	if err != nil {
		return err
	}
	res, err := build.LoadResult(out)
	if err != nil {
		return fmt.Errorf("no build recorded in %s, run 'lbfgs-build build' first: %w", out, err)
	}
	return emit(cmd, format, cfg.EmitFile, cfg.Package, res)
}
