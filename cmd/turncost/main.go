// Package main provides the entry point for the turncost CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/Sumatoshi-tech/turncost/cmd/turncost/commands"
)

func main() {
	err := commands.NewRootCommand().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(commands.ExitCode(err))
	}
}
