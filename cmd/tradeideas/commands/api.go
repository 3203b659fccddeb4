package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hyunwoo/tradeideas/internal/api"
	"github.com/hyunwoo/tradeideas/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the REST API server",
	Long: `Starts the HTTP API server.

Endpoints:
  GET /health              - Health check
  GET /api/scan/crosses    - Moving average cross scan
  GET /api/candidates      - Index inclusion candidates
  GET /api/performance     - Rebased performance study
  GET /api/indexes         - Supported index identifiers

Example:
  go run ./cmd/tradeideas api
  go run ./cmd/tradeideas api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "listen port (default from config)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	d, err := build(true)
	if err != nil {
		return err
	}
	defer d.close()

	if apiPort != "" {
		d.cfg.Port = apiPort
	}

	scanHandler := handlers.NewScanHandler(
		d.crosses, d.candidates, d.performance, d.constituents, d.cfg, d.log)
	router := api.NewRouter(scanHandler, d.log)
	server := api.New(d.cfg, d.log, router)

	go func() {
		if err := server.Start(); err != nil {
			d.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", d.cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET /health")
	fmt.Println("  GET /api/scan/crosses")
	fmt.Println("  GET /api/candidates")
	fmt.Println("  GET /api/performance")
	fmt.Println("  GET /api/indexes")
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	d.log.Info("Server stopped")
	return nil
}
