package main

import (
	"os"

	"github.com/nakamasato/chatboat/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
