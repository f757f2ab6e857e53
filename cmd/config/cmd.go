package config

import (
	"github.com/spf13/cobra"
)

var (
	outputFile = ".chatboat.yaml"
)

// Command creates the config command.
func Command() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the chatboat configuration file",
	}
	configCmd.AddCommand(
		initCommand(),
	)
	return configCmd
}
