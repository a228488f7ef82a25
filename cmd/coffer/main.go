package main

import (
	"os"

	"github.com/coffer-dev/coffer/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
