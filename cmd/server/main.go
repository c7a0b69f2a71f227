/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the convention engine server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Read configuration from the environment
  2. Initialize SQLite store
  3. Register stored custom calendars
  4. Start the calendar reloader
  5. Configure HTTP router
  6. Start server with graceful shutdown

ENVIRONMENT:
  PORT             HTTP server port (default: 8080)
  DB_PATH          SQLite database path (default: calendars.db)
                   Use ":memory:" for in-memory database
  ALLOWED_ORIGINS  CORS origins, comma separated
                   (default: http://localhost:5173,http://localhost:8080)
  RELOAD_INTERVAL  Calendar reload interval (default: 5m, 0 disables)

  Run with -h to print the variables.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the reloader
  4. Close database connection
  5. Exit

EXAMPLES:
  # Run with file database
  DB_PATH=./data/calendars.db ./server

  # Run with in-memory database on a different port
  DB_PATH=":memory:" PORT=3000 ./server

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - api/reloader.go: Calendar reloader
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

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/warp/convention-engine/api"
	"github.com/warp/convention-engine/store/sqlite"
)

func main() {
	var cfg Config

	fs := flag.NewFlagSet("server", flag.ExitOnError)
	fs.Usage = cleanenv.FUsage(fs.Output(), &cfg, nil, fs.Usage)
	fs.Parse(os.Args[1:])

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("Error parsing configuration from environment variables: %v", err)
	}

	// Initialize store
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Initialize handler
	handler := api.NewHandler(store)

	// Register stored calendars before serving
	n, err := handler.LoadCalendars(context.Background())
	if err != nil {
		log.Printf("Warning: Failed to load calendars: %v", err)
	} else {
		log.Printf("Loaded %d custom calendars", n)
	}

	reloader := api.NewCalendarReloader(store, cfg.ReloadInterval)
	reloader.Start()
	defer reloader.Stop()

	// Create router
	router := api.NewRouter(handler, cfg.AllowedOrigins)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%s", cfg.Port)
		log.Printf("API available at http://localhost:%s/api", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
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
