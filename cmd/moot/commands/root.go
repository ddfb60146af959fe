package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version string
	commit  string
	date    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "moot",
	Short: "Moot - Multi-agent investment analysis pipeline",
	Long: `Moot runs an investment query through a fixed council of LLM agents:
a company overview, a parallel panel of analysts, a bull/bear debate,
a research manager and trader, and a final risk-debate decision.

Sessions can optionally be persisted to Redis for later inspection
with 'moot sessions', 'moot watch' and 'moot export'.`,
	Version: version,
	// If no subcommand is specified, show help rather than silently succeeding
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	// Silence Cobra's default error and usage printing
	// We print formatted colored errors directly in the printer package
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}
