/*
main.go - Application entry point

PURPOSE:

	Initializes and starts the Shift Engine server. Handles configuration,
	dependency injection, the cron scheduler, and graceful shutdown.

STARTUP SEQUENCE:
 1. Load .env (if present) and parse command-line flags
 2. Initialize SQLite store
 3. Create API handler with dependencies
 4. Start the cron auto-scheduler
 5. Start server with graceful shutdown

CONFIGURATION:

	Flags override environment variables. Environment variables can come
	from the process or a .env file.

	-port / PORT                  HTTP server port (default: 8080)
	-db / DB_PATH                 SQLite database path (default: shifts.db)
	                              Use ":memory:" for in-memory database
	-cron / CRON_SPEC             Auto-scheduler cron spec (default: "0 2 * * *")
	-scheduler / SCHEDULER_ENABLED  Enable the cron loop (default: true)

GRACEFUL SHUTDOWN:

	On SIGINT/SIGTERM:
	1. Stop accepting new connections
	2. Wait for active requests to complete (30s timeout)
	3. Stop the cron scheduler
	4. Close database connection
	5. Exit

EXAMPLES:

	# Run with file database
	./server -db="./data/shifts.db"

	# Run with in-memory database, scheduler off
	./server -db=":memory:" -scheduler=false

SEE ALSO:
  - api/server.go: Router configuration
  - api/scheduler.go: Cron scheduler
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
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/warp/shift-engine/api"
	"github.com/warp/shift-engine/store/sqlite"
)

func main() {
	// .env is optional; real environments set variables directly.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	// Flags, with environment fallbacks
	port := flag.Int("port", envInt("PORT", 8080), "HTTP server port")
	dbPath := flag.String("db", envStr("DB_PATH", "shifts.db"), "SQLite database path")
	cronSpec := flag.String("cron", envStr("CRON_SPEC", "0 2 * * *"), "Auto-scheduler cron spec")
	schedulerOn := flag.Bool("scheduler", envBool("SCHEDULER_ENABLED", true), "Enable the auto-scheduler cron loop")
	flag.Parse()

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Initialize handler and router
	handler := api.NewHandler(store)
	router := api.NewRouter(handler)

	// Start the auto-scheduler
	scheduler := api.NewCronScheduler(handler.Service)
	scheduler.Spec = *cronSpec
	scheduler.Enabled = *schedulerOn
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on http://localhost:%d", *port)
		log.Printf("📊 API available at http://localhost:%d/api", *port)
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

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
