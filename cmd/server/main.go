/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the pharmacy register server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load settings from environment (.env honored)
  2. Parse command-line flags (override env)
  3. Open SQLite store
  4. Re-seed the invoice sequencer from invoice history
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: HTTP_PORT env or 8080)
  -db      SQLite database path (default: DB_PATH env or pharmacy.db)
           Use ":memory:" for an in-memory database

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: Environment settings
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/medicart/pos-engine/api"
	"github.com/medicart/pos-engine/checkout"
	"github.com/medicart/pos-engine/config"
	"github.com/medicart/pos-engine/engine"
	"github.com/medicart/pos-engine/store/sqlite"
)

func main() {
	cfg := config.Load()

	// Flags override environment settings.
	port := flag.String("port", cfg.HTTPPort, "HTTP server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	flag.Parse()

	// Initialize store
	st, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer st.Close()

	// Invoice numbering continues where the history left off.
	seq := engine.NewInvoiceSequencer(cfg.InvoicePrefix, cfg.InvoiceStart)
	last, err := st.LastInvoiceNumber(context.Background())
	if err != nil {
		log.Fatalf("Failed to read invoice history: %v", err)
	}
	seq.SeedAfter(last)

	svc := checkout.NewService(st, st, seq, checkout.Settings{
		DiscountMaxPercent: cfg.DiscountMaxPercent,
		TaxEnabled:         cfg.TaxEnabled,
		CGSTRate:           cfg.CGSTRate,
		SGSTRate:           cfg.SGSTRate,
		RoundOffEnabled:    cfg.RoundOffEnabled,
	})

	handler := api.NewHandler(svc, st, st)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Register server starting on http://localhost:%s", *port)
		log.Printf("Next invoice: %s", seq.Peek())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
