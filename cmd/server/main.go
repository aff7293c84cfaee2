// File: cmd/server/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log" // Standard log for messages before zap is active
	"os"
	"os/signal"
	"syscall"
	"time"

	"realty_bureau_backend/internal/config"
	"realty_bureau_backend/internal/platform/database"
)

const usage = `usage: server [command]

commands:
  (none)      serve the HTTP API
  migrate     apply database migrations and exit
  sync-plots  re-index every plot into Elasticsearch and exit
`

func main() {
	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	var err error
	switch cmd {
	case "", "serve":
		err = startServer()
	case "migrate":
		err = runMigrate()
	case "sync-plots":
		err = runPlotSync(os.Args[2:])
	case "-h", "--help", "help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

func startServer() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if cfg.DBAutoMigrate {
		if err := runMigrations(cfg); err != nil {
			return err
		}
	}

	server, cleanup, err := initializeServer(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}
	defer cleanup()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-quit:
		log.Printf("INFO: Received signal '%s'. Shutting down server...", sig)
	}

	timeout := cfg.ServerTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), timeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Server forced to shutdown due to error: %v", err)
	} else {
		log.Println("INFO: Server shutdown complete.")
	}
	return nil
}

func runMigrate() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	return runMigrations(cfg)
}

func runMigrations(cfg *config.Config) error {
	ctx := context.Background()
	db, cleanup, err := initializeDatabase(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer cleanup()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}
	log.Println("INFO: Database migrations applied.")
	return nil
}

func runPlotSync(args []string) error {
	fs := flag.NewFlagSet("sync-plots", flag.ExitOnError)
	batchSize := fs.Int("batch-size", 500, "number of plots indexed per bulk request")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.ElasticsearchURL == "" {
		return errors.New("sync-plots needs ELASTICSEARCH_URL")
	}

	ctx := context.Background()
	deps, cleanup, err := initializePlotSync(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize plot sync: %w", err)
	}
	defer cleanup()

	if ensurer, ok := deps.Indexer.(interface{ EnsureIndex(context.Context) error }); ok {
		if err := ensurer.EnsureIndex(ctx); err != nil {
			return fmt.Errorf("failed to prepare plots index: %w", err)
		}
	}

	synced, err := deps.Service.SyncSearchIndex(ctx, *batchSize)
	log.Printf("INFO: Indexed %d plots.", synced)
	return err
}
