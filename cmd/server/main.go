package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/recruitflow/recruitflow-backend/internal/api/middleware"
	"github.com/recruitflow/recruitflow-backend/internal/api/rest"
	"github.com/recruitflow/recruitflow-backend/internal/api/websocket"
	"github.com/recruitflow/recruitflow-backend/internal/config"
	"github.com/recruitflow/recruitflow-backend/internal/perf"
	"github.com/recruitflow/recruitflow-backend/internal/pkg/querycache"
	"github.com/recruitflow/recruitflow-backend/internal/pkg/tracing"
	"github.com/recruitflow/recruitflow-backend/internal/repository"
	"github.com/recruitflow/recruitflow-backend/internal/service"
	dbmigrations "github.com/recruitflow/recruitflow-backend/migrations"
)

func main() {
	log.Println("🚀 RecruitFlow Backend starting...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}
	log.Printf("📋 Configuration loaded: port=%d, driver=%s", cfg.Port, cfg.DatabaseDriver)

	// Tracing (no-op when no endpoint is configured)
	traceCleanup, err := tracing.Init("recruitflow-backend", cfg.OTLPEndpoint, cfg.TraceSamplingRate)
	if err != nil {
		log.Printf("⚠️  Tracing init failed: %v", err)
	} else {
		defer traceCleanup()
	}

	collector := perf.NewCollector()

	// Database
	log.Println("💾 Initializing database...")
	store, err := openStore(cfg, collector)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}
	defer store.Close()

	if err := runMigrations(store); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}
	log.Println("✅ Database migrations completed")

	// Query cache with background sweeper
	cache := querycache.New(time.Duration(cfg.CacheTTLSec) * time.Second)
	if cfg.CacheCleanupSec > 0 {
		cache.StartCleanup(ctx, time.Duration(cfg.CacheCleanupSec)*time.Second)
	}

	// WebSocket hub
	log.Println("🔌 Initializing WebSocket hub...")
	wsHub := websocket.NewHub(ctx)
	go wsHub.Run()

	// Services
	defaultTTL := time.Duration(cfg.CacheTTLSec) * time.Second
	dashboardTTL := time.Duration(cfg.DashboardCacheTTLSec) * time.Second
	listings := service.NewListingService(store, cache, collector, defaultTTL)
	batches := service.NewBatchService(store, cache, collector, defaultTTL)
	dashboard := service.NewDashboardService(store, cache, collector, dashboardTTL)
	searches := service.NewSearchService(store, cache, collector, defaultTTL)
	mutations := service.NewMutationService(store, cache, wsHub)

	// HTTP router
	router := mux.NewRouter()

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","service":"recruitflow-backend"}`))
	}).Methods("GET")

	healthz := rest.NewHealthzHandler(store)
	router.HandleFunc("/healthz/live", healthz.Live).Methods("GET")
	router.HandleFunc("/healthz/ready", healthz.Ready).Methods("GET")

	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	apiRouter := router.PathPrefix("/api/v1").Subrouter()
	handler := rest.NewHandler(listings, batches, dashboard, searches, mutations, collector, cache, store)
	rest.SetupRoutes(apiRouter, handler)

	wsHandler := websocket.NewHandler(ctx, wsHub)
	router.HandleFunc("/ws", wsHandler.ServeWS).Methods("GET")

	// Middleware (outermost first)
	router.Use(middleware.RequestID)
	router.Use(middleware.Recovery)
	router.Use(middleware.StructuredLog)
	router.Use(middleware.Tracing)
	router.Use(middleware.SecureHeaders)
	router.Use(middleware.MaxBodySize(middleware.DefaultMaxBodyBytes))
	if cfg.ReadRateLimitPerMin > 0 || cfg.WriteRateLimitPerMin > 0 {
		router.Use(middleware.RateLimit(cfg.ReadRateLimitPerMin, cfg.WriteRateLimitPerMin))
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	handlerWithCORS := c.Handler(router)

	timeout := 15 * time.Second
	if cfg.RequestTimeoutSec > 0 {
		timeout = time.Duration(cfg.RequestTimeoutSec) * time.Second
	}
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handlerWithCORS,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🌐 Server listening on port %d", cfg.Port)
		log.Printf("📡 API available at http://localhost:%d/api/v1", cfg.Port)
		log.Printf("🔌 WebSocket at ws://localhost:%d/ws", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	wsHub.Stop()

	shutdownTimeout := 10 * time.Second
	if cfg.ShutdownTimeoutSec > 0 {
		shutdownTimeout = time.Duration(cfg.ShutdownTimeoutSec) * time.Second
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️  Server forced to shutdown: %v", err)
	}
	log.Println("✅ Server exited gracefully")
}

// openStore picks the repository implementation from configuration.
func openStore(cfg *config.Config, collector *perf.Collector) (repository.Store, error) {
	switch cfg.DatabaseDriver {
	case "postgres":
		return repository.NewPostgresRepository(cfg.DatabaseURL, collector)
	case "sqlite", "":
		return repository.NewSQLiteRepository(cfg.DatabasePath, collector)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.DatabaseDriver)
	}
}

// runMigrations applies every embedded migration in name order.
func runMigrations(store repository.Store) error {
	entries, err := dbmigrations.FS.ReadDir(".")
	if err != nil {
		return fmt.Errorf("read embedded migrations: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		sqlBytes, err := dbmigrations.FS.ReadFile(entry.Name())
		if err != nil {
			return fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}
		if err := store.RunMigrations(string(sqlBytes)); err != nil {
			return fmt.Errorf("run migration %s: %w", entry.Name(), err)
		}
	}
	return nil
}
