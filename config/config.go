// Package config provides YAML configuration parsing for the latticed
// server binary.
//
// This package enables running lattice as a standalone binary with a
// configuration file, as an alternative to the programmatic approach.
//
// Example configuration:
//
//	port: 8080
//
//	stores:
//	  - name: journal
//	    backend: memory
//	    assign_keys: true
//	  - name: users
//	    backend: dynamodb
//	    table: lattice-users
//
// Environment variables in table names are expanded with ${VAR} or
// ${VAR:-default} syntax.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for latticed.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Port is the HTTP server port. Defaults to 8080.
	Port int `yaml:"port"`

	// Region is the AWS region for dynamodb-backed stores.
	// Empty means the default AWS credential chain decides.
	Region string `yaml:"region"`

	// Stores defines the logical stores served by this process.
	Stores []StoreConfig `yaml:"stores"`
}

// StoreConfig defines one logical store.
type StoreConfig struct {
	// Name is the logical store name, used in request paths and as the
	// registry key. Required, unique.
	Name string `yaml:"name"`

	// Backend selects the storage implementation: "memory" (default) or
	// "dynamodb".
	Backend string `yaml:"backend"`

	// Table is the DynamoDB table name. Required for the dynamodb backend.
	// Supports environment variable substitution.
	Table string `yaml:"table"`

	// AssignKeys makes the store generate UUID keys on insert when the
	// incoming entity has no key.
	AssignKeys bool `yaml:"assign_keys"`
}

// Backend names accepted by StoreConfig.
const (
	BackendMemory   = "memory"
	BackendDynamoDB = "dynamodb"
)

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with
// environment values. Unset variables without a default are an error.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Defaults are applied for Port (8080) and Backend ("memory"); environment
// variables are expanded in table names.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.Port == 0 {
		cfg.Port = 8080
	}

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}

	if len(c.Stores) == 0 {
		return errors.New("at least one store must be defined")
	}

	seen := make(map[string]struct{}, len(c.Stores))
	for i := range c.Stores {
		sc := &c.Stores[i]

		if sc.Name == "" {
			return fmt.Errorf("stores[%d]: name is required", i)
		}
		if _, dup := seen[sc.Name]; dup {
			return fmt.Errorf("stores[%d]: duplicate store name %q", i, sc.Name)
		}
		seen[sc.Name] = struct{}{}

		if sc.Backend == "" {
			sc.Backend = BackendMemory
		}

		switch sc.Backend {
		case BackendMemory:
			if sc.Table != "" {
				return fmt.Errorf("stores[%d] (%s): table is only valid for the dynamodb backend", i, sc.Name)
			}
		case BackendDynamoDB:
			if sc.Table == "" {
				return fmt.Errorf("stores[%d] (%s): table is required for the dynamodb backend", i, sc.Name)
			}
			expanded, err := expandEnvVars(sc.Table)
			if err != nil {
				return fmt.Errorf("stores[%d] (%s): table: %w", i, sc.Name, err)
			}
			sc.Table = expanded
		default:
			return fmt.Errorf("stores[%d] (%s): backend must be %q or %q, got %q",
				i, sc.Name, BackendMemory, BackendDynamoDB, sc.Backend)
		}
	}

	return nil
}
