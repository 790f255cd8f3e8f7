package internal

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goplus/lbfgs/internal/linkage"
	"github.com/goplus/lbfgs/internal/target"
)

var targetCmd = &cobra.Command{
	Use:   "target",
	Short: "Show how a target is built and linked",
	Args:  cobra.NoArgs,
	RunE:  runTarget,
}

func init() {
	rootCmd.AddCommand(targetCmd)
}

func runTarget(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	t, err := resolveTarget(cfg)
	if err != nil {
		return err
	}
	osName, err := t.OSName()
	if err != nil {
		return err
	}
	policy := target.PolicyFor(t)
	runtimeKind := linkage.Dynamic
	if policy.StaticRuntime {
		runtimeKind = linkage.Static
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 1, ' ', 0)
	fmt.Fprintf(w, "target:\t%s\n", t)
	fmt.Fprintf(w, "os:\t%s\n", osName)
	fmt.Fprintf(w, "tool:\t%s\n", target.BuildTool(osName))
	fmt.Fprintf(w, "kind:\t%s\n", linkage.SelectKind(cfg.Static))
	fmt.Fprintf(w, "runtime:\t%s\n", runtimeKind)
	fmt.Fprintf(w, "probes:\t%s\n", join(append(policy.DylibProbes, policy.StaticProbes...)))
	compiler := "not needed"
	if policy.NeedsCompiler() {
		compiler = "required (--fc or FC)"
	}
	fmt.Fprintf(w, "compiler:\t%s\n", compiler)
	fmt.Fprintf(w, "extra libs:\t%s\n", join(policy.ExtraLibs))
	return w.Flush()
}

func join(s []string) string {
	if len(s) == 0 {
		return "-"
	}
	return strings.Join(s, " ")
}
