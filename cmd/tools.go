package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/crystaldolphin/archbot/internal/dependency"
	"github.com/crystaldolphin/archbot/internal/tools"
)

var toolsFormat string

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List registered tools with their capabilities and parameter schemas",
	RunE:  runTools,
}

var toolsSchemaCmd = &cobra.Command{
	Use:   "schema <name>",
	Short: "Print the JSON schema of one tool's parameters",
	Args:  cobra.ExactArgs(1),
	RunE:  runToolsSchema,
}

func init() {
	toolsCmd.PersistentFlags().StringVarP(&toolsFormat, "format", "f", "json", "Output format: json or yaml")
	toolsCmd.AddCommand(toolsSchemaCmd)
}

func buildRegistry(ctx context.Context) (*tools.Registry, error) {
	cfg, err := loadConfig(slog.LevelWarn)
	if err != nil {
		return nil, err
	}
	container, err := dependency.New(ctx, cfg, dependency.IO{In: os.Stdin, Out: os.Stdout})
	if err != nil {
		return nil, err
	}
	return container.Registry(), nil
}

func runTools(cmd *cobra.Command, _ []string) error {
	reg, err := buildRegistry(commandContext(cmd))
	if err != nil {
		return err
	}
	return writeFormatted(cmd.OutOrStdout(), toolsFormat, reg.List())
}

func runToolsSchema(cmd *cobra.Command, args []string) error {
	reg, err := buildRegistry(commandContext(cmd))
	if err != nil {
		return err
	}
	tool, err := reg.Lookup(args[0])
	if err != nil {
		return err
	}
	return writeFormatted(cmd.OutOrStdout(), toolsFormat, tool.Schema().Describe())
}

func writeFormatted(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
}
