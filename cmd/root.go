// Package cmd implements the archbot CLI using cobra.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/crystaldolphin/archbot/internal/config"
	"github.com/crystaldolphin/archbot/internal/logging"
)

const version = "0.1.0"
const logo = "🏛"

var configPath string

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "archbot",
	Short: logo + " archbot, an LLM-enabled tooling console",
	Long:  logo + " archbot: chat with a system-architecture assistant and call HTTP tools from the terminal",
}

// Execute runs the root command and exits on error.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.archbot/config.yaml)")

	rootCmd.AddCommand(onboardCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(statusCmd)
}

func resolvedConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.ConfigPath()
}

// loadConfig loads the config and installs the process logger at the
// configured level, or at minLevel when that is stricter.
func loadConfig(minLevel slog.Level) (*config.Config, error) {
	cfg, err := config.Load(resolvedConfigPath())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("log.level: %w", err)
	}
	logging.Setup(max(level, minLevel), os.Stderr)
	return cfg, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
