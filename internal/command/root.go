// Package command contains the CLI command constructors.
package command

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sakif/coursehub/internal/config"
)

// RootCommand instantiates the root command, with all sub-commands bound.
//
// Settings come from config.Default, then the environment, then the flags
// below, in that order.
func RootCommand() *cobra.Command {
	defaults := config.Default()
	var flags config.Config

	cmd := &cobra.Command{
		Use:          "coursehub [command] [flags]",
		Short:        "The coursehub REST API and its admin tools",
		Version:      version(),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to read environment: %w", err)
			}
			cfg = overlayFlags(cmd, cfg, flags)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			logger := cfg.NewLogger()
			logger.DebugContext(cmd.Context(), "configuration loaded", slog.Any("config", cfg))
			slog.SetDefault(logger)
			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.IntVarP(&flags.Port, "port", "p", defaults.Port, "HTTP listen port (env "+config.EnvPort+")")
	pf.StringVar(&flags.DBPath, "db", defaults.DBPath, "SQLite database file (env "+config.EnvDBPath+")")
	pf.StringVar(&flags.LogLevel, "log-level", defaults.LogLevel, "debug, info, warn or error (env "+config.EnvLogLevel+")")
	pf.IntVar(&flags.BcryptCost, "bcrypt-cost", defaults.BcryptCost, "bcrypt work factor for new passwords (env "+config.EnvBcryptCost+")")
	pf.DurationVar(&flags.ShutdownTimeout, "shutdown-timeout", defaults.ShutdownTimeout,
		"grace period for in-flight requests (env "+config.EnvShutdownTimeout+")")

	cmd.AddCommand(
		serveCommand(),
		userCommand(),
		seedCommand(),
	)

	return cmd
}

// overlayFlags copies the flags the user actually passed onto cfg. A flag
// left at its default must not undo an environment variable.
func overlayFlags(cmd *cobra.Command, cfg, flags config.Config) config.Config {
	set := cmd.Flags().Changed
	if set("port") {
		cfg.Port = flags.Port
	}
	if set("db") {
		cfg.DBPath = flags.DBPath
	}
	if set("log-level") {
		cfg.LogLevel = flags.LogLevel
	}
	if set("bcrypt-cost") {
		cfg.BcryptCost = flags.BcryptCost
	}
	if set("shutdown-timeout") {
		cfg.ShutdownTimeout = flags.ShutdownTimeout
	}
	return cfg
}
