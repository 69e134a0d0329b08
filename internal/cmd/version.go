package cmd

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/coffee-platform/coffee-go/internal/config"
	"github.com/coffee-platform/coffee-go/internal/output"
)

var versionJSON bool

type versionInfo struct {
	Version    string `json:"version"`
	Commit     string `json:"commit"`
	Date       string `json:"date"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
	ConfigFile string `json:"config_file"`
	Formula    string `json:"formula_column"`
	Policy     string `json:"cycle_policy"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long: `Print the coffee version and build details together with the
configuration file and ordering settings the current directory resolves to.`,
	Args: cobra.NoArgs,
	RunE: runVersion,
}

func init() {
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "output as JSON")
}

func runVersion(cmd *cobra.Command, args []string) error {
	info := versionInfo{
		Version:    Version,
		Commit:     Commit,
		Date:       Date,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
		ConfigFile: configSource(),
		Formula:    cfg.Coffee.Columns.Formula,
		Policy:     cfg.Coffee.Sort.CyclePolicy,
	}
	// go install builds carry the module version instead of ldflags.
	if bi, ok := debug.ReadBuildInfo(); ok && info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}

	if versionJSON {
		return printJSON(cmd, info)
	}

	printer.Print("coffee version %s\n", info.Version)
	printer.Stats("BUILD", []output.Stat{
		{Label: "Commit", Value: info.Commit},
		{Label: "Built", Value: info.Date},
		{Label: "Go", Value: info.GoVersion},
		{Label: "OS/Arch", Value: info.Platform},
	})
	printer.Stats("ORDERING", []output.Stat{
		{Label: "Config file", Value: info.ConfigFile},
		{Label: "Formula column", Value: info.Formula},
		{Label: "Cycle policy", Value: info.Policy},
	})
	return nil
}

// configSource names the configuration file in effect, or "(defaults)".
func configSource() string {
	if cfgFile != "" {
		return cfgFile
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "(defaults)"
	}
	path, err := config.FindConfig(cwd)
	switch {
	case errors.Is(err, config.ErrNotFound):
		return "(defaults)"
	case err != nil:
		return fmt.Sprintf("(unreadable: %v)", err)
	default:
		return path
	}
}
