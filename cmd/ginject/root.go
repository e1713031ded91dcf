package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/junioryono/ginject/internal/config"
)

type rootFlags struct {
	configFile string
	cfg        config.Config
}

func newRootCmd() *cobra.Command {
	var f rootFlags

	cmd := &cobra.Command{
		Use:           "ginject",
		Short:         "Generate a dependency injector from an interface and its modules",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := f.resolve(cmd)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg.Verbose)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			res, err := run(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), res)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.configFile, "config", "c", "", "configuration file (default "+config.DefaultFile+" when present)")
	flags.StringVar(&f.cfg.Dir, "dir", "", "directory to load packages from")
	flags.StringVar(&f.cfg.Package, "package", "", "package pattern to load")
	flags.StringVarP(&f.cfg.Injector, "injector", "i", "", "injector interface name")
	flags.StringSliceVarP(&f.cfg.Modules, "module", "m", nil, "configuration module names (default all)")
	flags.StringVarP(&f.cfg.Output, "output", "o", "", "generated file")
	flags.StringVar(&f.cfg.Impl, "impl", "", "name of the generated struct")
	flags.StringVar(&f.cfg.OutputPackage, "output-package", "", `generated package as "path" or "path name"`)
	flags.StringVar(&f.cfg.Graph, "graph", "", "write the binding graph to this DOT file")
	flags.StringSliceVar(&f.cfg.Tags, "tags", nil, "build tags")
	flags.BoolVarP(&f.cfg.Verbose, "verbose", "v", false, "log every resolution")

	cmd.AddCommand(newInitCmd())
	return cmd
}

// resolve merges the configuration file with the flags set on the command
// line and validates the result.
func (f *rootFlags) resolve(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()

	path := f.configFile
	if path == "" {
		if _, err := os.Stat(config.DefaultFile); err == nil {
			path = config.DefaultFile
		}
	}
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	override := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}
	override("dir", func() { cfg.Dir = f.cfg.Dir })
	override("package", func() { cfg.Package = f.cfg.Package })
	override("injector", func() { cfg.Injector = f.cfg.Injector })
	override("module", func() { cfg.Modules = f.cfg.Modules })
	override("output", func() { cfg.Output = f.cfg.Output })
	override("impl", func() { cfg.Impl = f.cfg.Impl })
	override("output-package", func() { cfg.OutputPackage = f.cfg.OutputPackage })
	override("graph", func() { cfg.Graph = f.cfg.Graph })
	override("tags", func() { cfg.Tags = f.cfg.Tags })
	override("verbose", func() { cfg.Verbose = f.cfg.Verbose })

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newInitCmd() *cobra.Command {
	var (
		force bool
		dir   string
	)

	cmd := &cobra.Command{
		Use:   "init [injector]",
		Short: "Write a starter " + config.DefaultFile,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(dir, config.DefaultFile)
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", path)
			}

			cfg := config.Default()
			cfg.Injector = "AppInjector"
			if len(args) == 1 {
				cfg.Injector = args[0]
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	cmd.Flags().StringVar(&dir, "dir", ".", "directory to write the file to")
	return cmd
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	return cfg.Build()
}

func printSuccess(w io.Writer, res *result) {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	fmt.Fprintf(w, "%s %s (%d bindings, %d singletons) -> %s\n",
		green("generated"), res.unit.ImplName, res.unit.Bindings,
		res.unit.Singletons+res.unit.EagerSingletons, res.output)
	if res.graph != "" {
		fmt.Fprintf(w, "%s %s\n", green("graph"), res.graph)
	}
}

func printError(w io.Writer, err error) {
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	fmt.Fprintf(w, "%s %v\n", red("error:"), err)
}
