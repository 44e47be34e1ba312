// Package main is the entry point for the vmcatalog CLI.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"vmcatalog/cmd/cli/cmd"
)

func main() {
	// Optional .env for VMCATALOG_* overrides; absence is fine.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
