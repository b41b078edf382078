// Package main is the entry point for the tutor CLI tool.
package main

import (
	"os"

	"github.com/wubrg/tutor/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
