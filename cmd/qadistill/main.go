// Package main is the entry point for the qadistill CLI.
package main

import (
	"os"

	"github.com/qadistill/qadistill/cmd/qadistill/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
