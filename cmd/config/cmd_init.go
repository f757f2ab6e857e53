package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/nakamasato/chatboat/config"
	"github.com/spf13/cobra"
)

func initCommand() *cobra.Command {
	cmdInit := &cobra.Command{
		Use:   "init",
		Short: "Create a default .chatboat.yaml configuration file",
		RunE:  runInit,
	}
	cmdInit.Flags().StringVarP(&outputFile, "output", "o", outputFile, "Where to write the configuration file")
	return cmdInit
}

func runInit(cmd *cobra.Command, args []string) error {
	file, err := os.OpenFile(outputFile, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		cmd.Printf("%s already exists\n", outputFile)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := config.CreateDefaultConfigFile(file); err != nil {
		return fmt.Errorf("failed to create default configuration file: %w", err)
	}

	cmd.Printf("Default configuration file created at %s\n", outputFile)
	return nil
}
