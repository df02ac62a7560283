package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/spf13/cobra"

	"github.com/jacentio/lattice/config"
	"github.com/jacentio/lattice/dynamostore"
	"github.com/jacentio/lattice/handler"
	"github.com/jacentio/lattice/internal/server"
	"github.com/jacentio/lattice/registry"
	"github.com/jacentio/lattice/store"
)

// newLogger creates a JSON logger for CLI use.
func newLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// serveCmd starts the latticed server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the CRUD server",
	Long: `Start the latticed server.

The server will:
  - Load configuration from the specified YAML file
  - Construct one store per configured entry
  - Serve the CRUD API on the configured port

The server runs until interrupted (Ctrl+C) or receives SIGTERM.

Example:
  latticed serve -c config.yaml`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = serveCmd.MarkFlagRequired("config")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger.Info("config loaded",
		"stores", len(cfg.Stores),
		"port", cfg.Port,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg, err := buildRegistry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to build registry: %w", err)
	}

	// Construct every store up front so misconfiguration fails at startup,
	// not on first request.
	for _, sc := range cfg.Stores {
		if _, err := reg.Resolve(sc.Name); err != nil {
			return err
		}
		logger.Info("store ready", "name", sc.Name)
	}

	srv := server.NewServer(handler.New(reg), cfg.Port, logger)
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	<-ctx.Done()
	logger.Info("shutdown complete")
	return nil
}

// buildRegistry registers one store factory per configured entry.
func buildRegistry(ctx context.Context, cfg *config.Config) (*registry.Registry, error) {
	reg := registry.New()

	// One DynamoDB client shared by all dynamodb-backed stores, created
	// lazily through its own registry entry.
	err := reg.Register("dynamodb.client", func(r *registry.Registry) (any, error) {
		var opts []func(*awsconfig.LoadOptions) error
		if cfg.Region != "" {
			opts = append(opts, awsconfig.WithRegion(cfg.Region))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("load AWS config: %w", err)
		}
		return dynamodb.NewFromConfig(awsCfg), nil
	})
	if err != nil {
		return nil, err
	}

	for _, sc := range cfg.Stores {
		sc := sc
		storeCfg := store.DefaultConfig()
		storeCfg.AssignKeys = sc.AssignKeys

		var factory registry.Factory
		switch sc.Backend {
		case config.BackendMemory:
			factory = func(r *registry.Registry) (any, error) {
				return store.NewMemoryStore(storeCfg), nil
			}
		case config.BackendDynamoDB:
			factory = func(r *registry.Registry) (any, error) {
				client, err := registry.As[*dynamodb.Client](r, "dynamodb.client")
				if err != nil {
					return nil, err
				}
				return dynamostore.New(client, sc.Table, storeCfg), nil
			}
		default:
			return nil, fmt.Errorf("unknown backend %q for store %q", sc.Backend, sc.Name)
		}

		if err := reg.Register(sc.Name, factory); err != nil {
			return nil, err
		}
	}

	return reg, nil
}
