// Package main is the entry point for the coursectl CLI.
package main

import (
	"os"

	"course-analyzer/internal/cli"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0" ./cmd/coursectl
var version = "dev"

func main() {
	os.Exit(cli.Execute(version))
}
