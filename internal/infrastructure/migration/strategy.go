package migration

import (
	"database/sql"
	"embed"
	"fmt"
	"io"
	stdlog "log"
	"sync"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"tvmanager/internal/shared/logger"
)

//go:embed scripts/*.sql
var embedMigrations embed.FS

const scriptsDir = "scripts"

// gooseMu guards goose's package-level base FS and dialect.
var gooseMu sync.Mutex

// Strategy defines the interface for different migration strategies
type Strategy interface {
	// Migrate executes the migration strategy
	Migrate(db *gorm.DB, models ...interface{}) error
	// GetName returns the strategy name
	GetName() string
}

// GooseStrategy runs the SQL scripts embedded in the binary
type GooseStrategy struct {
	logger logger.Interface
}

func NewGooseStrategy(log logger.Interface) *GooseStrategy {
	return &GooseStrategy{
		logger: log.Named("migration.goose"),
	}
}

func (s *GooseStrategy) Migrate(db *gorm.DB, _ ...interface{}) error {
	return s.withGoose(db, func(sqlDB *sql.DB) error {
		currentVersion, err := goose.GetDBVersion(sqlDB)
		if err != nil {
			s.logger.Errorw("failed to get current version", "error", err)
			return fmt.Errorf("failed to get current version: %w", err)
		}

		if err := goose.Up(sqlDB, scriptsDir); err != nil {
			s.logger.Errorw("migration failed", "error", err)
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		finalVersion, err := goose.GetDBVersion(sqlDB)
		if err != nil {
			return fmt.Errorf("failed to get final version: %w", err)
		}

		if finalVersion != currentVersion {
			s.logger.Infow("migration completed successfully",
				"from_version", currentVersion,
				"to_version", finalVersion)
		}
		return nil
	})
}

func (s *GooseStrategy) GetName() string {
	return "goose"
}

func (s *GooseStrategy) MigrateDown(db *gorm.DB, steps int) error {
	s.logger.Infow("starting down migration", "steps", steps)

	return s.withGoose(db, func(sqlDB *sql.DB) error {
		for i := 0; i < steps; i++ {
			if err := goose.Down(sqlDB, scriptsDir); err != nil {
				s.logger.Errorw("down migration failed", "error", err)
				return fmt.Errorf("failed to run down migration: %w", err)
			}
		}
		return nil
	})
}

func (s *GooseStrategy) GetVersion(db *gorm.DB) (int64, error) {
	var version int64
	err := s.withGoose(db, func(sqlDB *sql.DB) error {
		v, err := goose.GetDBVersion(sqlDB)
		if err != nil {
			return fmt.Errorf("failed to get version: %w", err)
		}
		version = v
		return nil
	})
	return version, err
}

// Status writes the state of every migration to w
func (s *GooseStrategy) Status(db *gorm.DB, w io.Writer) error {
	return s.withGoose(db, func(sqlDB *sql.DB) error {
		goose.SetLogger(stdlog.New(w, "", 0))
		if err := goose.Status(sqlDB, scriptsDir); err != nil {
			return fmt.Errorf("failed to get status: %w", err)
		}
		return nil
	})
}

func (s *GooseStrategy) withGoose(db *gorm.DB, fn func(sqlDB *sql.DB) error) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return fn(sqlDB)
}
