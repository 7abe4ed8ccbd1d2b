package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/eigeen/LuaFramework/internal/logger"
	"github.com/eigeen/LuaFramework/internal/service/deploy"
	"github.com/eigeen/LuaFramework/internal/version"
)

var (
	// configPath to the configuration YAML file, empty for built-in defaults.
	configPath string
	// logLevel is the minimum level of printed messages.
	logLevel string
	// skipBuild deploys the binaries of the previous build.
	skipBuild bool

	// rootCmd builds the plugin and overwrites the files of a game installation.
	rootCmd = &cobra.Command{
		Use:               "luaf-deploy [target-dir]",
		Short:             "Build LuaFramework and deploy it into the game directory",
		Args:              cobra.MaximumNArgs(1),
		PersistentPreRunE: applyLogLevel,
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &deploy.Options{
				ConfigPath: configPath,
				SkipBuild:  skipBuild,
			}

			if len(args) > 0 {
				options.Target = args[0]
			}

			return deploy.Run(ctx, options)
		},
	}
)

// Execute runs the luaf-deploy CLI and exits with non-zero status on error.
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
	rootCmd.Flags().BoolVar(&skipBuild, "skip-build", false, "deploy the output of the previous build")
}
