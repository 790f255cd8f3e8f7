package internal

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goplus/lbfgs/internal/env"
	"github.com/goplus/lbfgs/internal/fortran"
)

var probeCmd = &cobra.Command{
	Use:   "probe [archive]",
	Short: "Print the directory the Fortran compiler keeps an archive in",
	Long: `Probe asks the Fortran compiler where a runtime archive such as
libgfortran.a or libgcc.a lives and prints its directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	fc, err := env.Require(cfg.Compiler, "Fortran compiler", "fc", env.Compiler)
	if err != nil {
		return err
	}
	dir, err := fortran.New(fc).LibDir(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), dir)
	return nil
}
