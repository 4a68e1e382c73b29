package cli

import (
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

// workDir is the workspace root holding .relay/. Empty means the current
// directory. It is set by --dir and overridden in tests.
var workDir string

var rootCmd = &cobra.Command{
	Use:   "relay",
	Short: "Validate and coordinate handoffs between AI agents",
	Long: `Relay keeps multi-agent projects on track. Every handoff one agent
passes to the next is validated against the rules for its role, checked for
drift from the project's original brief, and recorded in an append-only log.
Accepted handoffs advance the project state.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("relay version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVarP(&workDir, "dir", "C", "", "workspace directory (default is the current directory)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
