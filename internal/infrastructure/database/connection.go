package database

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tvmanager/internal/shared/config"
	appLogger "tvmanager/internal/shared/logger"
)

// MemoryPath opens a private in-memory database, used by tests.
const MemoryPath = ":memory:"

var (
	db   *gorm.DB
	dbMu sync.RWMutex
)

// Open opens the SQLite database at path, creating its directory if needed.
func Open(path string) (*gorm.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := path
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
		dsn = path + "?_busy_timeout=5000&_journal_mode=WAL"
	}

	gormLogger := logger.New(
		&filteredLogger{log: appLogger.WithComponent("database")},
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// SQLite allows a single writer; an in-memory database exists per connection.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return database, nil
}

// Init opens the configured database and keeps it as the process-wide connection
func Init(cfg *config.StorageConfig) error {
	database, err := Open(cfg.Path)
	if err != nil {
		return err
	}

	dbMu.Lock()
	db = database
	dbMu.Unlock()

	appLogger.WithComponent("database").Debug("database connection established", "path", cfg.Path)
	return nil
}

// Get returns the database connection
func Get() *gorm.DB {
	dbMu.RLock()
	defer dbMu.RUnlock()
	return db
}

// Close closes the database connection
func Close() error {
	dbMu.Lock()
	currentDB := db
	db = nil
	dbMu.Unlock()

	if currentDB == nil {
		return nil
	}

	sqlDB, err := currentDB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	return nil
}

// filteredLogger routes gorm output to slog by severity
type filteredLogger struct {
	log *slog.Logger
}

func (l *filteredLogger) Printf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)

	switch {
	case strings.Contains(msg, "[error]") || strings.Contains(msg, "ERROR"):
		l.log.Error("database error", "details", msg)
	case strings.Contains(msg, "slow sql") || strings.Contains(msg, "SLOW SQL"):
		l.log.Warn("slow query", "details", msg)
	default:
		l.log.Debug("database query", "details", msg)
	}
}
