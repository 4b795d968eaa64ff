package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "grimwall",
	Short: "Grimwall - sector/portal spatial toolkit",
	Long: `Grimwall is the spatial and visibility core of a sector-based
first-person engine. It loads sector maps, rebuilds the portal graph,
bakes the static visibility table, traces rays through the portal graph,
and opens a top-down debug viewer.`,
	SilenceUsage:      true,
	DisableAutoGenTag: true,
}

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "grimwall.yaml", "engine tuning file")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
