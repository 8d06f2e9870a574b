package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexholyk/sentiment-monitor/internal/adapters/cache"
	"github.com/alexholyk/sentiment-monitor/internal/adapters/events"
	"github.com/alexholyk/sentiment-monitor/internal/adapters/eventlog"
	"github.com/alexholyk/sentiment-monitor/internal/adapters/reference"
	"github.com/alexholyk/sentiment-monitor/internal/api/handlers"
	"github.com/alexholyk/sentiment-monitor/internal/api/routes"
	"github.com/alexholyk/sentiment-monitor/internal/domain/providers"
	"github.com/alexholyk/sentiment-monitor/internal/infrastructure/clients/redis"
	"github.com/alexholyk/sentiment-monitor/internal/infrastructure/observability"
	"github.com/alexholyk/sentiment-monitor/internal/monitoring"
	"github.com/alexholyk/sentiment-monitor/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName+"-dashboard", cfg.Env)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName+"-dashboard",
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Printf("Warning: Failed to set up OpenTelemetry: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down OpenTelemetry: %v", err)
				}
			}()
			log.Println("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// The training baseline is required; there is no drift to report without it
	sample, err := reference.LoadSample(cfg.Reference.Path)
	if err != nil {
		log.Fatalf("Failed to load reference dataset from %s: %v", cfg.Reference.Path, err)
	}
	log.Printf("Reference dataset loaded: %d rows", sample.Size())

	// Initialize Redis client (optional)
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewClient(&cfg.Redis)
		if err != nil {
			log.Printf("Warning: Failed to initialize Redis client: %v", err)
			// Continue without Redis - every report scan re-reads the log
			redisClient = nil
		} else {
			defer redisClient.Close()
			log.Println("Redis client initialized successfully")
		}
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Initialize event bus for real-time refresh hints
	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		log.Println("Event bus initialized successfully")
	} else {
		log.Println("Event bus disabled (Redis not available)")
	}

	// The dashboard only reads the shared log; the prediction service owns writes
	eventLog := eventlog.NewFileEventLog(cfg.EventLog.Path)

	monitor := monitoring.NewMonitor(
		eventLog,
		sample,
		monitoring.NewDriftAnalyzer(cfg.Monitoring.HistogramBins),
		cfg.Monitoring.AlertThreshold,
		cacheProvider,
		cfg.Monitoring.SnapshotTTL,
	)

	// Initialize handlers
	dashboardHandler := handlers.NewDashboardHandler(monitor, metrics)
	sseHandler := handlers.NewSSEHandler(eventBus)

	// Set up router
	router := routes.NewRouter(nil, dashboardHandler, sseHandler, metrics)
	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := cfg.Server.ServerAddr()
	server := &http.Server{
		Addr:        serverAddr,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// SSE connections stay open; no write timeout
		IdleTimeout: 60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Dashboard starting on %s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Dashboard shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	// Close event bus
	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Printf("Error closing event bus: %v", err)
		}
	}

	log.Println("Dashboard stopped")
}
