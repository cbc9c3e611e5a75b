// Package main provides the entry point for the omnishop CLI.
package main

import (
	"os"

	"github.com/omnishop/omnishop/cmd/omnishop/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
