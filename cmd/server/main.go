/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the cash register server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env, environment, flags)
  2. Initialize SQLite store
  3. Load the register state and session accounts
  4. Configure HTTP router
  5. Start server with graceful shutdown

CONFIGURATION:
  CAIXA_ADDR          Listen address (default: :8080), flag -addr
  CAIXA_DB            SQLite database path (default: caixa.db), flag -db
                      Use ":memory:" for an in-memory database
  CAIXA_TOKEN_SECRET  Session token signing secret

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/caixa.db"

  # Run with in-memory database
  ./server -db=":memory:"

SEE ALSO:
  - config/config.go: Configuration loading
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/academia/caixa/api"
	"github.com/academia/caixa/config"
	"github.com/academia/caixa/export"
	"github.com/academia/caixa/ledger"
	"github.com/academia/caixa/session"
	"github.com/academia/caixa/store/sqlite"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize store
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	// Load the register state
	reg, err := ledger.NewRegister(ctx, store, ledger.SystemClock{})
	if err != nil {
		log.Fatalf("Failed to load register: %v", err)
	}

	// Load accounts, seeding the default administrator on first run
	sessions, err := session.NewManager(ctx, store, []byte(cfg.TokenSecret))
	if err != nil {
		log.Fatalf("Failed to load accounts: %v", err)
	}

	exports := export.NewService(reg, nil)

	// Create router
	handler := api.NewHandler(reg, sessions, exports)
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Caixa server listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
