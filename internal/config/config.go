package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"video-catalog/internal/logging"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// Config holds all application configuration. It is constructed once at
// process start and passed into the catalog store and the ingestor.
type Config struct {
	StorageDir     string
	Port           string
	MetricsPort    string
	MetricsEnabled bool
	StatsCacheTTL  time.Duration

	// Derived paths under StorageDir
	VideosDir    string
	ThumbnailDir string
	DocumentsDir string
	DatabasePath string

	// Feature flags based on directory availability
	ThumbnailsEnabled bool
	DocumentsEnabled  bool
}

// Load reads configuration from environment variables and resolves the
// managed storage layout. It does not create any directories; call
// EnsureDirectories afterwards.
func Load() (*Config, error) {
	logSystemInfo()

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	storageDir := getEnv("STORAGE_DIR", "/storage")
	port := getEnv("PORT", "8080")
	metricsPort := getEnv("METRICS_PORT", "9090")
	metricsEnabled := getEnvBool("METRICS_ENABLED", true)
	statsTTLStr := getEnv("STATS_CACHE_TTL", "30s")

	logging.Info("  STORAGE_DIR:     %s", storageDir)
	logging.Info("  PORT:            %s", port)
	logging.Info("  METRICS_PORT:    %s", metricsPort)
	logging.Info("  METRICS_ENABLED: %v", metricsEnabled)
	logging.Info("  STATS_CACHE_TTL: %s", statsTTLStr)
	logging.Info("  LOG_LEVEL:       %s", logging.GetLevel())

	statsTTL, err := time.ParseDuration(statsTTLStr)
	if err != nil {
		logging.Warn("  Invalid STATS_CACHE_TTL, using default: 30s")
		statsTTL = 30 * time.Second
	}

	storageDir, err = filepath.Abs(storageDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage directory path: %w", err)
	}

	return &Config{
		StorageDir:     storageDir,
		Port:           port,
		MetricsPort:    metricsPort,
		MetricsEnabled: metricsEnabled,
		StatsCacheTTL:  statsTTL,
		VideosDir:      filepath.Join(storageDir, "videos"),
		ThumbnailDir:   filepath.Join(storageDir, "thumbnails"),
		DocumentsDir:   filepath.Join(storageDir, "documents"),
		DatabasePath:   filepath.Join(storageDir, "catalog.db"),
	}, nil
}

// EnsureDirectories creates the managed storage layout. The storage root and
// videos directory are required; thumbnails and documents degrade to
// disabled features when their directories cannot be made writable.
func (c *Config) EnsureDirectories() error {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("DIRECTORY SETUP")
	logging.Info("------------------------------------------------------------")

	for _, dir := range []string{c.StorageDir, c.VideosDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if err := testWriteAccess(c.StorageDir); err != nil {
		return fmt.Errorf("storage directory is not writable: %w", err)
	}
	logging.Info("  [OK] Storage directory is writable: %s", c.StorageDir)

	c.ThumbnailsEnabled = setupOptionalDir(c.ThumbnailDir, "thumbnails")
	c.DocumentsEnabled = setupOptionalDir(c.DocumentsDir, "documents")

	logging.Info("")
	logging.Info("  Feature availability:")
	logging.Info("    Catalog:    ENABLED (required)")
	logging.Info("    Thumbnails: %s", enabledString(c.ThumbnailsEnabled))
	logging.Info("    Documents:  %s", enabledString(c.DocumentsEnabled))
	logging.Info("    Metrics:    %s", enabledString(c.MetricsEnabled))

	return nil
}

func setupOptionalDir(path, name string) bool {
	logging.Debug("  Setting up %s directory: %s", name, path)

	if err := os.MkdirAll(path, 0o755); err != nil {
		logging.Warn("    Failed to create %s directory: %v", name, err)
		logging.Warn("    %s will be disabled", name)
		return false
	}

	if err := testWriteAccess(path); err != nil {
		logging.Warn("    %s directory is not writable: %v", name, err)
		logging.Warn("    %s will be disabled", name)
		return false
	}

	logging.Debug("    [OK] %s directory ready", name)
	return true
}

func enabledString(enabled bool) string {
	if enabled {
		return "ENABLED"
	}
	return "DISABLED"
}

func testWriteAccess(dir string) error {
	testFile := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return err
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("failed to remove write test file %s: %v", testFile, err)
		// Write access was confirmed regardless
	}
	return nil
}

func logSystemInfo() {
	logging.Info("------------------------------------------------------------")
	logging.Info("SYSTEM INFORMATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Version:         %s (%s)", Version, Commit)
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())
	logging.Info("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		logging.Info("  (Container CPU limit detected)")
	}
	logging.Info("")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
