package cmd

import (
	"errors"
	"io/fs"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/nakamasato/chatboat/cmd/ask"
	cmdconfig "github.com/nakamasato/chatboat/cmd/config"
	"github.com/nakamasato/chatboat/cmd/serve"
	"github.com/nakamasato/chatboat/config"
	"github.com/spf13/cobra"
)

var configFile string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:               "chatboat",
	Short:             "Chatboat answers questions with sources and videos",
	Long:              `Chatboat is a small web chat that sends your questions to a hosted language model and shows the sources, videos and answer it returns.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configFile, "config", ".chatboat.yaml", "Path to the configuration file")

	RootCmd.AddCommand(
		serve.Command(),
		ask.Command(),
		cmdconfig.Command(),
	)
}

// loadConfig reads .env and the optional config file before any command runs.
func loadConfig(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("[config] failed to load .env: %v", err)
	}

	f, err := os.Open(configFile)
	if errors.Is(err, fs.ErrNotExist) {
		return config.InitConfig(nil)
	}
	if err != nil {
		return err
	}
	defer f.Close()
	return config.InitConfig(f)
}
