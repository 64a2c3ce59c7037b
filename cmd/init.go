package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cybrdelic/repotronium/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize repotronium configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure repotronium and generates a .repotronium.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
