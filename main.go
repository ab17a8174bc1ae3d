package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"video-catalog/internal/catalog"
	"video-catalog/internal/config"
	"video-catalog/internal/ingest"
	"video-catalog/internal/logging"
	"video-catalog/internal/mediainfo"
	"video-catalog/internal/metrics"
	"video-catalog/internal/middleware"
	"video-catalog/internal/server"
	"video-catalog/internal/storage"
	"video-catalog/internal/thumbs"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	startTime := time.Now()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Configuration error: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		logging.Fatal("Storage setup error: %v", err)
	}

	if err := thumbs.InitVips(); err != nil {
		logging.Warn("libvips unavailable, thumbnail encoding falls back to imaging: %v", err)
	}

	// Catalog store
	dbStart := time.Now()
	store, err := catalog.New(context.Background(), cfg.DatabasePath, cfg.StatsCacheTTL)
	if err != nil {
		logging.Fatal("Failed to open catalog: %v", err)
	}
	defer store.Close()
	logging.Info("Catalog opened in %v", time.Since(dbStart).Round(time.Millisecond))

	// Managed storage and ingestion pipeline
	fileStore := storage.NewFileStore(cfg.VideosDir, cfg.ThumbnailDir, cfg.DocumentsDir)
	storage.SetObserver(metrics.NewStorageObserver())
	generator := thumbs.NewGenerator(fileStore, cfg.ThumbnailsEnabled)
	ingestor := ingest.New(fileStore, mediainfo.NewExtractor(), generator)

	// Metrics
	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		metrics.InitializeMetrics()
		collector = metrics.NewCollector(store, cfg.DatabasePath, 30*time.Second)
		collector.Start()
		go serveMetrics(cfg.MetricsPort)
	}

	// HTTP surface
	h := server.New(store, ingestor, generator, fileStore)
	router := h.Router()

	logged := middleware.Logger(middleware.DefaultLoggingConfig())(router)
	metered := middleware.Metrics(middleware.DefaultMetricsConfig())(logged)
	handler := middleware.Compression(middleware.DefaultCompressionConfig())(metered)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go handleShutdown(srv, store, collector)

	logging.Info("Listening on :%s (started in %v)", cfg.Port, time.Since(startTime).Round(time.Millisecond))
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		logging.Fatal("Server error: %v", err)
	}
}

// serveMetrics exposes the Prometheus endpoint on its own port so scraping
// stays off the API listener.
func serveMetrics(port string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	logging.Info("Metrics listening on :%s", port)
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		logging.Error("Metrics server error: %v", err)
	}
}

func handleShutdown(srv *http.Server, store *catalog.Store, collector *metrics.Collector) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	logging.Info("Received %s, shutting down", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	}

	if collector != nil {
		collector.Stop()
	}
	thumbs.ShutdownVips()
	if err := store.Close(); err != nil {
		logging.Warn("Catalog close error: %v", err)
	}

	logging.Info("Shutdown complete")
}
