// Package main provides the mganno CLI application.
// mganno manages the lifecycle of the metagenome annotation database
// and runs the annotation streaming daemon.
package main

import (
	"os"
)

var (
	// Version is set by build flags
	Version = "dev"
)

func main() {
	if err := getRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
