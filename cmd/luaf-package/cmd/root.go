package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/eigeen/LuaFramework/internal/config"
	"github.com/eigeen/LuaFramework/internal/domain/release"
	"github.com/eigeen/LuaFramework/internal/logger"
	"github.com/eigeen/LuaFramework/internal/service/packager"
	"github.com/eigeen/LuaFramework/internal/version"
)

var (
	// configPath to the configuration YAML file, empty for built-in defaults.
	configPath string
	// logLevel is the minimum level of printed messages.
	logLevel string

	// rootCmd builds the plugin and produces the release or dev archive.
	rootCmd = &cobra.Command{
		Use:   "luaf-package [dev]",
		Short: "Build and package LuaFramework",
		Long: "Build the native components, stage the distribution tree and pack it into " +
			"lua-framework_v{version}.zip. Pass \"dev\" to append the short commit id.",
		ValidArgs:         []string{release.ModeDev.String()},
		Args:              cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		PersistentPreRunE: applyLogLevel,
		RunE: func(_ *cobra.Command, args []string) error {
			var modeArg string
			if len(args) > 0 {
				modeArg = args[0]
			}

			mode, err := release.ParseMode(modeArg)
			if err != nil {
				return err
			}

			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			_, err = packager.Run(ctx, &packager.Options{
				ConfigPath: configPath,
				Mode:       mode,
			})

			return err
		},
	}

	// initConfigCmd writes the built-in configuration for editing.
	initConfigCmd = &cobra.Command{
		Use:   "init-config [path]",
		Short: "Write the default configuration to a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Save(args[0], config.Default()); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Configuration saved to", args[0])

			return nil
		},
	}
)

// Execute runs the luaf-package CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// applyLogLevel sets the global log level from the --log-level flag.
func applyLogLevel(_ *cobra.Command, _ []string) error {
	return logger.ApplyLevel(logLevel)
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")

	rootCmd.AddCommand(initConfigCmd)
}
