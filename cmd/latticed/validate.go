package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jacentio/lattice/config"
)

// validateCmd validates a config file without starting the server.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a latticed configuration file without starting the server.

This command parses the YAML, expands environment variables, and validates
all fields. It's useful for CI/CD pipelines or pre-deployment checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  latticed validate -c config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	memory := 0
	dynamo := 0
	for _, sc := range cfg.Stores {
		switch sc.Backend {
		case config.BackendMemory:
			memory++
		case config.BackendDynamoDB:
			dynamo++
		}
	}

	fmt.Printf("Config is valid!\n")
	fmt.Printf("  Port:   %d\n", cfg.Port)
	fmt.Printf("  Stores: %d memory + %d dynamodb = %d total\n",
		memory, dynamo, memory+dynamo)

	return nil
}
