// Package main is the entry point for the latticed server binary.
//
// Lattice can be embedded as a library or run as a standalone CRUD server
// with YAML configuration. This CLI provides the standalone approach.
//
// Usage:
//
//	latticed serve -c config.yaml    # Start the server
//	latticed validate -c config.yaml # Validate configuration
//	latticed version                 # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "latticed",
	Short: "A minimal CRUD server with pluggable stores",
	Long: `latticed serves keyed entity collections over HTTP.

Each configured store becomes a resource path:

  POST   /{store}        create an entity
  GET    /{store}        list entities
  GET    /{store}/{key}  read an entity
  PUT    /{store}/{key}  replace an entity
  DELETE /{store}/{key}  delete an entity

Stores are backed by process memory or by a DynamoDB table.

Example config:
  port: 8080
  stores:
    - name: journal
      backend: memory
      assign_keys: true`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("latticed %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
