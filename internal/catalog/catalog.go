package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"video-catalog/internal/logging"
	"video-catalog/internal/metrics"
)

// Default timeout for database operations
const defaultTimeout = 5 * time.Second

// Store manages all catalog database operations.
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex

	statsMu    sync.Mutex
	statsCache *Statistics
	statsAt    time.Time
	statsTTL   time.Duration
}

// New creates a new Store instance.
// IMPORTANT: dbPath should be the full path to the database FILE (e.g., "/data/catalog.db"),
// and the parent directory must already exist and be writable.
// Use config.Load() and EnsureDirectories() before calling this.
func New(ctx context.Context, dbPath string, statsTTL time.Duration) (*Store, error) {
	logging.Info("Catalog database path: %s", dbPath)

	// Diagnose potential permission issues
	if err := diagnoseDatabasePermissions(dbPath); err != nil {
		logging.Warn("Database permission diagnostics: %v", err)
	}

	// Use WAL mode and other optimizations
	// busy_timeout helps prevent "database is locked" errors
	// foreign_keys must be on for the ON DELETE CASCADE constraints to fire
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=10000&_temp_store=MEMORY&_busy_timeout=5000&_foreign_keys=on", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Allow multiple readers - increased for better concurrency under load
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{
		db:       db,
		dbPath:   dbPath,
		statsTTL: statsTTL,
	}

	if err := s.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after initialization failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}

	logging.Info("Catalog database initialized successfully at %s", dbPath)
	return s, nil
}

func (s *Store) initialize(ctx context.Context) error {
	schema := `
	-- Activities group related videos
	CREATE TABLE IF NOT EXISTS activities (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		description TEXT,
		class TEXT,
		section TEXT,
		class_id INTEGER,
		section_id INTEGER,
		created_date TEXT NOT NULL,
		FOREIGN KEY (class_id) REFERENCES classes (id),
		FOREIGN KEY (section_id) REFERENCES sections (id)
	);

	-- Main videos table
	CREATE TABLE IF NOT EXISTS videos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		activity_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		file_path TEXT,
		youtube_url TEXT,
		file_name TEXT,
		file_size INTEGER,
		duration REAL,
		format TEXT,
		resolution TEXT,
		version_number INTEGER DEFAULT 1,
		event_date TEXT,
		upload_date TEXT NOT NULL,
		description TEXT,
		tags TEXT,
		thumbnail_path TEXT,
		document_path TEXT,
		has_local_copy INTEGER DEFAULT 0,
		has_youtube_link INTEGER DEFAULT 0,
		has_document INTEGER DEFAULT 0,
		version_status TEXT DEFAULT 'ACTIVE',
		version_notes TEXT,
		FOREIGN KEY (activity_id) REFERENCES activities (id) ON DELETE CASCADE
	);

	-- Tags table
	CREATE TABLE IF NOT EXISTS tags (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		color TEXT,
		created_date TEXT NOT NULL
	);

	-- Video-Tag relationship table
	CREATE TABLE IF NOT EXISTS video_tags (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		video_id INTEGER NOT NULL,
		tag_id INTEGER NOT NULL,
		FOREIGN KEY (video_id) REFERENCES videos (id) ON DELETE CASCADE,
		FOREIGN KEY (tag_id) REFERENCES tags (id) ON DELETE CASCADE,
		UNIQUE(video_id, tag_id)
	);

	-- Collections are ad-hoc groupings that cut across activities
	CREATE TABLE IF NOT EXISTS collections (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		description TEXT,
		color TEXT,
		created_date TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS collection_videos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		collection_id INTEGER NOT NULL,
		video_id INTEGER NOT NULL,
		added_date TEXT NOT NULL,
		FOREIGN KEY (collection_id) REFERENCES collections (id) ON DELETE CASCADE,
		FOREIGN KEY (video_id) REFERENCES videos (id) ON DELETE CASCADE,
		UNIQUE(collection_id, video_id)
	);

	-- Predefined class and section reference lists
	CREATE TABLE IF NOT EXISTS classes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		description TEXT,
		color TEXT,
		created_date TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sections (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		description TEXT,
		color TEXT,
		created_date TEXT NOT NULL
	);

	-- Additional external links attached to an activity
	CREATE TABLE IF NOT EXISTS links (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		activity_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		url TEXT NOT NULL,
		description TEXT,
		created_date TEXT NOT NULL,
		FOREIGN KEY (activity_id) REFERENCES activities (id) ON DELETE CASCADE
	);

	-- Videos table indexes
	CREATE INDEX IF NOT EXISTS idx_videos_activity_id ON videos(activity_id);
	CREATE INDEX IF NOT EXISTS idx_videos_title ON videos(title);
	CREATE INDEX IF NOT EXISTS idx_videos_upload_date ON videos(upload_date);
	CREATE INDEX IF NOT EXISTS idx_videos_format ON videos(format);
	CREATE INDEX IF NOT EXISTS idx_videos_file_size ON videos(file_size);
	CREATE INDEX IF NOT EXISTS idx_videos_duration ON videos(duration);
	CREATE INDEX IF NOT EXISTS idx_videos_version_number ON videos(version_number);
	CREATE INDEX IF NOT EXISTS idx_videos_has_local_copy ON videos(has_local_copy);
	CREATE INDEX IF NOT EXISTS idx_videos_has_youtube_link ON videos(has_youtube_link);
	CREATE INDEX IF NOT EXISTS idx_videos_has_document ON videos(has_document);

	-- Activities table indexes
	CREATE INDEX IF NOT EXISTS idx_activities_class ON activities(class);
	CREATE INDEX IF NOT EXISTS idx_activities_section ON activities(section);
	CREATE INDEX IF NOT EXISTS idx_activities_class_section ON activities(class, section);

	-- Junction and lookup indexes
	CREATE INDEX IF NOT EXISTS idx_video_tags_video_id ON video_tags(video_id);
	CREATE INDEX IF NOT EXISTS idx_video_tags_tag_id ON video_tags(tag_id);
	CREATE INDEX IF NOT EXISTS idx_video_tags_composite ON video_tags(video_id, tag_id);
	CREATE INDEX IF NOT EXISTS idx_tags_name ON tags(name);
	CREATE INDEX IF NOT EXISTS idx_collections_name ON collections(name);
	CREATE INDEX IF NOT EXISTS idx_collection_videos_collection_id ON collection_videos(collection_id);
	CREATE INDEX IF NOT EXISTS idx_collection_videos_video_id ON collection_videos(video_id);
	`

	_, err := s.db.ExecContext(ctx, schema)
	if err != nil {
		return err
	}

	// Run migrations
	return s.runMigrations(ctx)
}

// runMigrations applies database schema migrations for catalogs created by
// older releases. New databases get every column from the schema directly.
func (s *Store) runMigrations(ctx context.Context) error {
	type columnMigration struct {
		table      string
		column     string
		definition string
	}

	migrations := []columnMigration{
		{"videos", "document_path", "TEXT"},
		{"videos", "has_document", "INTEGER DEFAULT 0"},
		{"videos", "version_status", "TEXT DEFAULT 'ACTIVE'"},
		{"videos", "version_notes", "TEXT"},
		{"activities", "class", "TEXT"},
		{"activities", "section", "TEXT"},
		{"activities", "class_id", "INTEGER"},
		{"activities", "section_id", "INTEGER"},
	}

	for _, m := range migrations {
		var columnExists bool
		err := s.db.QueryRowContext(ctx, fmt.Sprintf(`
			SELECT COUNT(*) > 0
			FROM pragma_table_info('%s')
			WHERE name='%s'
		`, m.table, m.column)).Scan(&columnExists)
		if err != nil {
			return fmt.Errorf("failed to check for %s.%s column: %w", m.table, m.column, err)
		}

		if !columnExists {
			logging.Info("Migrating database: adding %s column to %s table", m.column, m.table)

			_, err = s.db.ExecContext(ctx, fmt.Sprintf(
				"ALTER TABLE %s ADD COLUMN %s %s", m.table, m.column, m.definition,
			))
			if err != nil {
				return fmt.Errorf("failed to add %s.%s column: %w", m.table, m.column, err)
			}
		}
	}

	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// UpdateDBMetrics updates database connection metrics.
func (s *Store) UpdateDBMetrics() {
	stats := s.db.Stats()
	metrics.DBConnectionsOpen.Set(float64(stats.OpenConnections))
}

// recordQuery records database query metrics
func recordQuery(operation string, start time.Time, err error) {
	duration := time.Since(start).Seconds()
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.DBQueryTotal.WithLabelValues(operation, status).Inc()
	metrics.DBQueryDuration.WithLabelValues(operation).Observe(duration)
}

// observeQuery starts a query timer. Call the returned func with the
// operation's final error when the query completes.
func observeQuery(operation string) func(error) {
	start := time.Now()
	return func(err error) {
		recordQuery(operation, start, err)
	}
}

// nowString is the timestamp format stored in created_date, upload_date and
// added_date columns. Lexicographic order matches chronological order, which
// the date range filters rely on.
func nowString() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

// diagnoseDatabasePermissions checks database directory and file permissions
func diagnoseDatabasePermissions(dbPath string) error {
	dir := filepath.Dir(dbPath)

	dirInfo, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot stat database directory: %w", err)
	}

	logging.Debug("Database directory: %s (mode: %v)", dir, dirInfo.Mode())

	// Check if directory is writable by testing
	testFile := filepath.Join(dir, ".perm-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		return fmt.Errorf("database directory not writable: %w", err)
	}
	_ = os.Remove(testFile) // Explicitly ignore cleanup error
	logging.Debug("Database directory is writable")

	if dbInfo, err := os.Stat(dbPath); err == nil {
		logging.Debug("Database file exists: %s (mode: %v, size: %d bytes)", dbPath, dbInfo.Mode(), dbInfo.Size())
		if dbInfo.Mode().Perm()&0o200 == 0 {
			logging.Warn("Database file is read-only! Mode: %v", dbInfo.Mode())
		}
	}

	walPath := dbPath + "-wal"
	if walInfo, err := os.Stat(walPath); err == nil {
		logging.Debug("WAL file exists: %s (mode: %v, size: %d bytes)", walPath, walInfo.Mode(), walInfo.Size())
	}

	return nil
}
