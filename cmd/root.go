// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "devops-phase-stats",
	Short: "A CLI tool to report GitHub issues per DevOps phase label.",
	Long: `devops-phase-stats counts the issues of a GitHub repository per DevOps
phase label. It can produce a weekly checklist of completed issues per phase,
provision a fixed label set, and render a histogram of issues per label.

The repository is taken from GITHUB_REPOSITORY (owner/repo) and the optional
credential from GITHUB_TOKEN. Both may also come from a .env file.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML config file")
}
