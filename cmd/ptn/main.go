package main

import (
	"fmt"
	"os"

	"github.com/pysugar/push-to-notion/internal/config"
	"github.com/pysugar/push-to-notion/internal/logging"
	"github.com/pysugar/push-to-notion/internal/version"
	"github.com/spf13/cobra"
)

var envFile string

func main() {
	rootCmd := &cobra.Command{
		Use:           "ptn",
		Short:         "Push messages from Telegram and Slack to a Notion page",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(telegramCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads configuration and installs the default logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	logging.Init(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	return cfg, nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ptn %s (commit %s, built %s)\n", version.Version, version.Commit, version.BuildTime)
		},
	}
}
