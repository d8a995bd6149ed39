// Package main provides the shadowgap batch pipeline. Each subcommand runs
// one stage against the files in the data directory.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"shadowgap.org/internal/app"
	"shadowgap.org/internal/appconf"
	"shadowgap.org/internal/logging"
	"shadowgap.org/internal/pipeline"
)

// flags are the persistent command-line settings. Empty values leave the
// config file (or its defaults) in charge.
type flags struct {
	configPath string
	env        string
	dataDir    string
	tablesPath string
	logLevel   string
	logFormat  string
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "shadowgap",
		Short: "Project conflict-related sexual violence underreporting",
		Long: `shadowgap estimates the true incidence of conflict-related sexual
violence per country from verified incident reports and a conflict
intensity index.

Stages:
  roots  project true incidence and write the projection dataset
  geo    compose the impunity map and narrative datasets
  all    run roots then geo`,
		SilenceUsage: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.configPath, "config", "c", "", "Config file path (YAML)")
	pf.StringVar(&f.env, "env", "", "Environment (development|test|production)")
	pf.StringVar(&f.dataDir, "data-dir", "", "Directory holding inputs and outputs")
	pf.StringVar(&f.tablesPath, "tables", "", "Country tables YAML replacing the embedded copy")
	pf.StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&f.logFormat, "log-format", "", "Log format (json, text)")

	cmd.AddCommand(
		stageCmd("roots", "Build the projection dataset", &f, func(ctx context.Context, r *pipeline.Runner) error {
			_, err := r.Roots(ctx)
			return err
		}),
		stageCmd("geo", "Build the map and narrative datasets from the projection", &f, func(ctx context.Context, r *pipeline.Runner) error {
			_, err := r.Geo(ctx)
			return err
		}),
		stageCmd("all", "Run every stage in order", &f, func(ctx context.Context, r *pipeline.Runner) error {
			return r.All(ctx)
		}),
	)

	return cmd
}

func stageCmd(name, short string, f *flags, run func(context.Context, *pipeline.Runner) error) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := newApplication(*f)
			if err != nil {
				return err
			}
			application.Logger = application.Logger.With(slog.String("run_id", uuid.NewString()))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx = logging.WithLogger(ctx, application.Logger)

			application.Logger.Info("starting stage",
				slog.String("stage", name),
				slog.String("env", application.Config.Environment().String()),
				slog.String("data_dir", application.Config.DataDir))

			if err := run(ctx, pipeline.NewRunner(application)); err != nil {
				logging.LogError(application.Logger, "stage failed", err, slog.String("stage", name))
				return err
			}
			return nil
		},
	}
}

func newApplication(f flags) (*app.Application, error) {
	cfg, err := loadConfig(f)
	if err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.NewLogger(os.Stderr, level, cfg.ResolvedLogFormat())

	return app.New(cfg, logger)
}

// loadConfig reads the config file and applies flag overrides. A data
// directory given on the command line relocates every file that lived in
// the configured one.
func loadConfig(f flags) (appconf.Config, error) {
	cfg, err := appconf.LoadConfigFromFile(f.configPath)
	if err != nil {
		return appconf.Config{}, err
	}
	if f.dataDir != "" {
		cfg = cfg.WithDataDir(f.dataDir)
	}

	if f.env != "" {
		cfg.Env = f.env
	}
	if f.tablesPath != "" {
		cfg.TablesPath = filepath.Clean(f.tablesPath)
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	if f.logFormat != "" {
		cfg.LogFormat = f.logFormat
	}

	return cfg, cfg.Validate()
}
