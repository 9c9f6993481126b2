/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the work time tracking server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Load YAML configuration
  3. Initialize SQLite store
  4. Wire tracker and API handler
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  YAML config path (default: config.yaml; missing file is fine)
  -port    Override the configured HTTP port
  -db      Override the configured SQLite database path
           Use ":memory:" for an in-memory database

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with defaults
  ./server

  # Run with a config file and an overridden port
  ./server -config=/etc/worktime.yaml -port=3000

  # Run with in-memory database
  ./server -db=":memory:"

SEE ALSO:
  - config/config.go: YAML configuration
  - api/server.go: Router configuration
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

	"github.com/warp/worktime-engine/api"
	"github.com/warp/worktime-engine/config"
	"github.com/warp/worktime-engine/engine"
	"github.com/warp/worktime-engine/store/sqlite"
	"github.com/warp/worktime-engine/worktime"
)

func main() {
	// Flags
	configPath := flag.String("config", "config.yaml", "YAML config path")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *dbPath != "" {
		cfg.DatabasePath = *dbPath
	}

	// Initialize store
	store, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Wire the tracker
	tracker := worktime.NewTracker(store, cfg.Location())
	tracker.Defaults = defaultWorkConfig(cfg)

	// Create router
	router := api.NewRouter(api.NewHandler(tracker, cfg.User))

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d", cfg.Port)
		log.Printf("Tracking user %q in zone %s", cfg.User, cfg.Timezone)
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

// defaultWorkConfig maps the YAML work defaults onto the engine config,
// falling back field by field on parse failure.
func defaultWorkConfig(cfg *config.Config) engine.WorkConfig {
	wc := engine.DefaultConfig()
	wc.TargetWorkSeconds = cfg.Work.TargetWorkSeconds
	wc.ShortBreakLogic = cfg.Work.ShortBreakLogicEnabled()
	wc.ExtendedPause = cfg.Work.ExtendedPause
	wc.TimeOffsetSeconds = cfg.Work.TimeOffsetSeconds
	if start, err := engine.ParseClockTime(cfg.Work.WorkStart); err == nil {
		wc.WorkStart = start
	}
	if end, err := engine.ParseClockTime(cfg.Work.WorkEnd); err == nil {
		wc.WorkEnd = end
	}
	return wc
}
