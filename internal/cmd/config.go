package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/coffee-platform/coffee-go/internal/config"
	"github.com/coffee-platform/coffee-go/internal/output"
)

var (
	configInit   bool
	configFormat string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or create coffee configuration",
	Long: `Display the effective configuration after merging defaults with
coffee.yaml, environment overrides and command line flags.

Examples:
    coffee config                     # Show current config
    coffee config --format yaml       # Output as YAML
    coffee config --init              # Write .coffee/config.yaml with defaults`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&configInit, "init", false, "write a default .coffee/config.yaml in the current directory")
	configCmd.Flags().StringVar(&configFormat, "format", "terminal", "output format: terminal, yaml, json")

	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	if configInit {
		return initConfig(cwd)
	}

	switch configFormat {
	case "json":
		return printJSON(cmd, cfg.Coffee)
	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil
	default:
		return displayConfigTerminal()
	}
}

func initConfig(cwd string) error {
	path := filepath.Join(cwd, ".coffee", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return NewExitError(1, fmt.Sprintf("config already exists: %s", path))
	}
	if err := config.DefaultConfig().Save(path); err != nil {
		return err
	}
	printer.Print("%s Created %s\n", printer.Checkmark(true), path)
	return nil
}

func displayConfigTerminal() error {
	source := configSource()

	c := cfg.Coffee
	printer.Header("coffee Configuration")
	printer.Println()
	printer.Stats("COLUMNS", []output.Stat{
		{Label: "Config file", Value: source},
		{Label: "Formula", Value: c.Columns.Formula},
		{Label: "Is calculation", Value: c.Columns.IsCalculation},
		{Label: "Name", Value: c.Columns.Name},
		{Label: "References", Value: c.Columns.References},
	})
	printer.Stats("PROCESSING", []output.Stat{
		{Label: "Reverse", Value: c.Sort.Reverse},
		{Label: "Cycle policy", Value: c.Sort.CyclePolicy},
		{Label: "Concurrent", Value: c.Workers.Concurrent},
		{Label: "Concurrent request limit", Value: c.Workers.ConcurrentRequestLimit},
		{Label: "Log level", Value: c.Log.Level},
		{Label: "Log format", Value: c.Log.Format},
	})
	return nil
}
