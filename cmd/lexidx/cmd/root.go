// Package cmd provides the CLI commands for lexidx.
package cmd

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lexidx/lexidx/internal/config"
	"github.com/lexidx/lexidx/internal/errors"
	"github.com/lexidx/lexidx/internal/logging"
	"github.com/lexidx/lexidx/internal/profiling"
	"github.com/lexidx/lexidx/pkg/version"
)

// skipSetup marks commands that run without loading config or logging.
const skipSetup = "lexidx/skip-setup"

// app holds state shared by subcommands for one invocation.
type app struct {
	configPath string
	debug      bool
	profile    profiling.Options

	cfg      *config.Config
	logger   *slog.Logger
	cleanup  func()
	profiler *profiling.Session
}

// NewRootCmd creates the root command for the lexidx CLI.
func NewRootCmd() *cobra.Command {
	a := &app{
		cfg:    config.NewConfig(),
		logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}

	cmd := &cobra.Command{
		Use:   "lexidx",
		Short: "Term-frequency indexer for XML document corpora",
		Long: `lexidx walks a directory of XML documents, counts the terms in each one
and saves the per-document term frequencies to an index file.

The index can be inspected with 'lexidx search' and served over HTTP
with 'lexidx serve'.`,
		Version:           version.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return a.close()
		},
	}

	cmd.SetVersionTemplate("lexidx version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default: .lexidx.yaml in the project root)")
	cmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (also mirrored to stderr)")
	cmd.PersistentFlags().StringVar(&a.profile.CPUPath, "profile-cpu", "", "Write CPU profile to file")
	cmd.PersistentFlags().StringVar(&a.profile.HeapPath, "profile-mem", "", "Write heap profile to file on exit")
	cmd.PersistentFlags().StringVar(&a.profile.TracePath, "profile-trace", "", "Write execution trace to file")

	cmd.AddCommand(newIndexCmd(a))
	cmd.AddCommand(newSearchCmd(a))
	cmd.AddCommand(newServeCmd(a))
	cmd.AddCommand(newConfigCmd(a))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// setup loads configuration and starts file logging.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if cmd.Annotations[skipSetup] == "true" {
		return nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return errors.IOError(".", err)
	}
	root, err := config.FindProjectRoot(wd)
	if err != nil {
		root = wd
	}

	cfg, err := config.Load(root, a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logCfg := logging.Config{
		Level:     cfg.Logging.Level,
		FilePath:  cfg.Logging.File,
		MaxSizeMB: cfg.Logging.MaxSizeMB,
		MaxFiles:  cfg.Logging.MaxFiles,
	}
	if logCfg.FilePath == "" {
		logCfg.FilePath = logging.DefaultLogPath()
	}
	if a.debug {
		logCfg.Level = "debug"
		logCfg.WriteToStderr = true
	}

	logger, cleanup, err := logging.Setup(logCfg)
	if err != nil {
		return err
	}
	a.logger = logger
	a.cleanup = cleanup
	slog.SetDefault(logger)

	logger.Debug("command_started",
		slog.String("command", cmd.CommandPath()),
		slog.String("project_root", root),
		slog.String("version", version.Version))

	if a.profile.Enabled() {
		session, err := profiling.Start(a.profile)
		if err != nil {
			return err
		}
		a.profiler = session
	}
	return nil
}

// close stops profiling and flushes the log file.
func (a *app) close() error {
	var err error
	if a.profiler != nil {
		err = a.profiler.Stop()
		a.profiler = nil
	}
	if a.cleanup != nil {
		a.cleanup()
		a.cleanup = nil
	}
	return err
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
