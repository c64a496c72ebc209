package main

import (
	"os"

	"github.com/luwen/surgelens/cmd/surgelens/commands"
)

// main is the entry point for the surgelens CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
