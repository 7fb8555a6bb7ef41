package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/L0g0rhythm/URL-Refiner/internal/config"
	"github.com/L0g0rhythm/URL-Refiner/internal/logger"
	"github.com/L0g0rhythm/URL-Refiner/internal/orchestrator"
	"github.com/L0g0rhythm/URL-Refiner/internal/server"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newRootCommand() *cobra.Command {
	flags := &AppFlags{}

	cmd := &cobra.Command{
		Use:   "urlrefiner",
		Short: "Normalize, rewrite and deduplicate lists of URLs",
		Long: `urlrefiner reads URLs one per line from a file or stdin, drops invalid
entries, rewrites query parameter values and keeps the first URL of every
structural duplicate (same host, path and parameter names).`,
		Example: `  cat urls.txt | urlrefiner
  urlrefiner -i urls.txt -o -e session,token
  urlrefiner -i urls.txt -m append -v '"><script>' --ignore-path`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRefine(cmd, flags)
		},
	}

	flags.bindGlobal(cmd.PersistentFlags())
	flags.bindRefine(cmd.Flags())

	cmd.AddCommand(newServeCommand(flags), newVersionCommand())
	return cmd
}

func newServeCommand(flags *AppFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web form and the JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, flags)
		},
	}
	flags.bindServe(cmd.Flags())
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "urlrefiner %s\n", version)
			return err
		},
	}
}

// loadConfig reads the configuration file, applies the flags and validates
// the result.
func loadConfig(flags *AppFlags, fs *pflag.FlagSet) (*config.GlobalConfig, error) {
	cfg, err := config.LoadGlobalConfig(flags.ConfigFile, zerolog.Nop())
	if err != nil {
		return nil, err
	}
	flags.applyTo(cfg, fs)

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runRefine(cmd *cobra.Command, flags *AppFlags) error {
	cfg, err := loadConfig(flags, cmd.Flags())
	if err != nil {
		return err
	}

	runID := orchestrator.NewRunID(time.Now())
	appLogger, err := logger.NewLoggerBuilder().
		WithConfig(cfg.LogConfig).
		WithRunID(runID).
		WithConsoleOutput(cmd.ErrOrStderr()).
		Build()
	if err != nil {
		return err
	}
	defer appLogger.Close()
	zLogger := *appLogger.GetZerolog()

	refineOrchestrator := orchestrator.NewRefineOrchestrator(cfg, zLogger).
		WithRunID(runID).
		WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
	if in := cmd.InOrStdin(); in != io.Reader(os.Stdin) {
		refineOrchestrator.WithStdin(in, func() bool { return false })
	}

	if _, err := refineOrchestrator.Run(cmd.Context()); err != nil {
		zLogger.Error().Err(err).Msg("Refinement failed")
		return &reportedError{err: err}
	}
	return nil
}

func runServe(cmd *cobra.Command, flags *AppFlags) error {
	cfg, err := loadConfig(flags, cmd.Flags())
	if err != nil {
		return err
	}

	appLogger, err := logger.NewLoggerBuilder().
		WithConfig(cfg.LogConfig).
		WithConsoleOutput(cmd.ErrOrStderr()).
		Build()
	if err != nil {
		return err
	}
	defer appLogger.Close()
	zLogger := *appLogger.GetZerolog()

	opts := config.DefaultConfigManagerOptions()
	opts.Logger = zLogger
	opts.HotReloadEnabled = cfg.ServerConfig.HotReload
	configManager, err := config.NewConfigManager(config.GetConfigPath(flags.ConfigFile), cfg, opts)
	if err != nil {
		return err
	}
	defer configManager.Close()
	configManager.StartHotReload(cmd.Context())

	if configManager.IsHotReloadEnabled() {
		zLogger.Info().Str("path", configManager.GetConfigPath()).Msg("Refiner defaults reload when the config file changes")
	}

	if err := server.NewServer(cfg.ServerConfig, configManager, zLogger).Start(cmd.Context()); err != nil {
		zLogger.Error().Err(err).Msg("HTTP server stopped with an error")
		return &reportedError{err: err}
	}
	return nil
}
