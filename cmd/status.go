package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/crystaldolphin/archbot/internal/dependency"
)

const probeTimeout = 30 * time.Second

var statusProbe bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show archbot configuration and tool status",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusProbe, "probe", false, "Send a test prompt to the model")
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfgPath := resolvedConfigPath()

	fmt.Printf("%s archbot Status\n\n", logo)

	_, statErr := os.Stat(cfgPath)
	cfgMark := "✗"
	if statErr == nil {
		cfgMark = "✓"
	}
	fmt.Printf("Config:    %s %s\n", cfgPath, cfgMark)

	cfg, err := loadConfig(slog.LevelWarn)
	if err != nil {
		fmt.Printf("  (could not load config: %v)\n", err)
		return nil
	}

	keyMark := "(not set)"
	if cfg.LLM.APIKey != "" {
		keyMark = "✓"
	}
	fmt.Printf("Endpoint:  %s\n", cfg.LLM.Endpoint)
	fmt.Printf("Model:     %s\n", cfg.LLM.Model)
	fmt.Printf("API key:   %s\n", keyMark)
	if err := cfg.Validate(); err != nil {
		fmt.Printf("  (config invalid: %v)\n", err)
	}

	ctx := commandContext(cmd)
	container, err := dependency.New(ctx, cfg, dependency.IO{In: os.Stdin, Out: os.Stdout})
	if err != nil {
		return err
	}

	fmt.Println("\nTools:")
	names := container.Registry().Names()
	if len(names) == 0 {
		fmt.Println("  (none)")
	}
	for _, name := range names {
		fmt.Printf("  %-20s ✓\n", name)
	}

	if !statusProbe {
		return nil
	}
	pctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	probeMark := "✗"
	if container.Model().HealthCheck(pctx) {
		probeMark = "✓"
	}
	fmt.Printf("\nModel probe: %s\n", probeMark)
	return nil
}
