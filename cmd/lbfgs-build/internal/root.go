package internal

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/goplus/lbfgs/internal/config"
	"github.com/goplus/lbfgs/internal/ctxlog"
	"github.com/goplus/lbfgs/internal/target"
)

var (
	configPath string
	verbose    bool
	quiet      bool
	settings   config.Config
)

var rootCmd = &cobra.Command{
	Use:   "lbfgs-build",
	Short: "lbfgs-build builds the vendored Fortran L-BFGS library",
	Long: `lbfgs-build runs the Makefile of the vendored Fortran L-BFGS library and
reports the search paths and libraries a program must link against, including
the Fortran runtime of the active toolchain.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogger,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "Config file (default ./"+config.FileName+")")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Discard the build tool's output")

	flags.BoolVar(&settings.Static, "static", false, "Build and link the library statically (env LBFGS_STATIC)")
	flags.StringVarP(&settings.OutDir, "out", "o", "", "Output directory for the built library (env OUT_DIR)")
	flags.StringVar(&settings.Target, "target", "", "Target triple (env TARGET, default: host)")
	flags.StringVar(&settings.Compiler, "fc", "", "Fortran compiler used to locate the runtime (env FC)")
	flags.StringVar(&settings.Source, "source", "", "Vendored Fortran source tree (env LBFGS_SOURCE, default fortran)")
	flags.StringVarP(&settings.Format, "format", "f", "", "Directive format: cgo, ldflags, cargo or json (default ldflags)")
	flags.StringVar(&settings.Package, "package", "", "Package name of generated cgo files (default lbfgs)")
	flags.StringVar(&settings.EmitFile, "emit-file", "", "Write directives to this file, or into this directory for cgo")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		log.Fatal(err)
	}
}

func setupLogger(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := ctxlog.New(cmd.ErrOrStderr(), verbose)
	cmd.SetContext(ctxlog.WithLogger(ctx, logger))
	return nil
}

// resolveConfig layers the command line over the config file and the
// environment.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Resolve(configPath, ".")
	if err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("static") {
		cfg.Static = settings.Static
	}
	for name, pair := range map[string][2]*string{
		"out":       {&cfg.OutDir, &settings.OutDir},
		"target":    {&cfg.Target, &settings.Target},
		"fc":        {&cfg.Compiler, &settings.Compiler},
		"source":    {&cfg.Source, &settings.Source},
		"format":    {&cfg.Format, &settings.Format},
		"package":   {&cfg.Package, &settings.Package},
		"emit-file": {&cfg.EmitFile, &settings.EmitFile},
	} {
		if flags.Changed(name) {
			*pair[0] = *pair[1]
		}
	}
	return cfg, nil
}

// resolveTarget parses the configured triple, defaulting to the host.
func resolveTarget(cfg config.Config) (target.Triple, error) {
	if cfg.Target == "" {
		return target.Host()
	}
	return target.Parse(cfg.Target)
}
