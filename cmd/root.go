// Package cmd contains the repotronium CLI commands.
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "repotronium",
	Short: "GitHub repository analysis with AI-generated insight reports",
	Long: `Repotronium clones a GitHub repository, maps its internal dependency
structure, scores file complexity, and optionally asks an LLM for
architecture, strategic, and business insight reports. Run it as a
one-shot CLI or as an HTTP API server.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".repotronium.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
