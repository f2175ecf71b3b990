/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the rent billing engine server: SQLite store,
  HTTP API, and the daily advance scheduler.

STARTUP SEQUENCE:
  1. Load .env (optional), parse command-line flags
  2. Initialize SQLite store
  3. Create API handler and router
  4. Start the advance scheduler
  5. Start server with graceful shutdown

CONFIGURATION:
  Flags override environment variables:
    -port / PORT            HTTP server port (default: 8080)
    -db / DB_PATH           SQLite database path (default: lettings.db,
                            ":memory:" for in-memory)
    -scheduler / SCHEDULER  "off" disables the daily scheduler (manual
                            triggers via /api/admin/generate still work)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the scheduler (waits for an in-flight run)
  2. Stop accepting new connections, drain requests (30s timeout)
  3. Close database connection

SEE ALSO:
  - api/server.go: Router configuration
  - api/scheduler.go: Daily generation trigger
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
	"github.com/warp/lettings-engine/api"
	"github.com/warp/lettings-engine/store/sqlite"
)

func main() {
	// .env is optional; flags and real env still apply without one.
	_ = godotenv.Load()

	port := flag.Int("port", envInt("PORT", 8080), "HTTP server port")
	dbPath := flag.String("db", envStr("DB_PATH", "lettings.db"), "SQLite database path")
	schedulerMode := flag.String("scheduler", envStr("SCHEDULER", "on"), "daily scheduler: on|off")
	flag.Parse()

	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	handler := api.NewHandler(store)
	router := api.NewRouter(handler)

	scheduler := api.NewAdvanceScheduler(store, handler)
	scheduler.Enabled = *schedulerMode != "off"
	scheduler.Start()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	scheduler.Stop()

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
