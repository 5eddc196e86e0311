// cmd holds the micromouse command line: the web viewer and the maze file tools.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "micromouse",
	Short: "Micromouse maze editor and trajectory viewer",
	Long: `Micromouse edits square micromouse mazes in the browser, sends them to a
simulator and plays back the trajectory the simulated robot drove.
The maze subcommands convert, pad and render maze files offline.`,
	SilenceUsage:      true,
	DisableAutoGenTag: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
