// Package cmd provides the CLI commands for coffee.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/coffee-platform/coffee-go/internal/config"
	"github.com/coffee-platform/coffee-go/internal/logging"
	"github.com/coffee-platform/coffee-go/internal/output"
)

var (
	// Version is set at build time via ldflags.
	Version = "dev"
	// Commit is set at build time via ldflags.
	Commit = "none"
	// Date is set at build time via ldflags.
	Date = "unknown"
)

var (
	cfgFile   string
	noColor   bool
	logLevel  string
	logFormat string

	formulaColumn string
	nameColumn    string
	calcColumn    string
)

// Loaded by loadEnvironment before every command runs.
var (
	cfg     *config.Config
	logger  *slog.Logger
	printer *output.Printer
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "coffee",
	Short: "Bulk upload toolkit for calculated items",
	Long: `coffee prepares bulk upload batches of items whose formulas reference
other items by name, e.g. "[FEED_RATE] * [RUN_HOURS]".

It orders batch rows so every calculation is processed after the items its
formula references, reports dependency graphs and circular references, and
runs per-row operations over a batch, writing a timestamped result file.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadEnvironment,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .coffee/config.yaml or coffee.yaml)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: pretty, text, json")
	rootCmd.PersistentFlags().StringVar(&formulaColumn, "formula-column", "", "column holding the formulas")
	rootCmd.PersistentFlags().StringVar(&nameColumn, "name-column", "", "column holding the item names")
	rootCmd.PersistentFlags().StringVar(&calcColumn, "calc-column", "", "column flagging calculated items")

	rootCmd.AddCommand(versionCmd)
}

// loadEnvironment resolves the configuration and builds the logger and
// printer shared by the commands.
func loadEnvironment(cmd *cobra.Command, args []string) error {
	var err error
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		var cwd string
		if cwd, err = os.Getwd(); err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		cfg, err = config.LoadFromDir(cwd)
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return fmt.Errorf("invalid environment: %w", err)
	}
	if logLevel != "" {
		cfg.Coffee.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Coffee.Log.Format = logFormat
	}
	if formulaColumn != "" {
		cfg.Coffee.Columns.Formula = formulaColumn
	}
	if nameColumn != "" {
		cfg.Coffee.Columns.Name = nameColumn
	}
	if calcColumn != "" {
		cfg.Coffee.Columns.IsCalculation = calcColumn
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	lc := cfg.Logging()
	lc.Output = cmd.ErrOrStderr()
	logger = logging.New(lc)

	printer = output.NewWithWriter(cmd.OutOrStdout())
	printer.SetColor(!noColor)
	return nil
}
