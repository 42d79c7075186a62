package db

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Options configures Open.
type Options struct {
	// Path of the SQLite file. Parent directories are created.
	Path string

	// MaxOpenConns bounds the connection pool. Zero means one connection,
	// which serializes every storage operation.
	MaxOpenConns int

	// LogQueries turns on gorm's SQL logging.
	LogQueries bool
}

// Store owns the database handle. It is safe for concurrent use: callers
// share the bounded pool and each operation checks a connection out for
// its duration only.
type Store struct {
	db *gorm.DB
}

// Open sets up the database connection and creates the schema if absent.
func Open(opts Options) (*Store, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if opts.Path != MemoryPath {
		// Ensure the directory exists
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	logMode := logger.Silent // Quiet by default
	if opts.LogQueries {
		logMode = logger.Info
	}

	gdb, err := gorm.Open(sqlite.Open(dsn(opts.Path)), &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get connection pool: %w", err)
	}
	conns := opts.MaxOpenConns
	if conns <= 0 {
		conns = 1
	}
	sqlDB.SetMaxOpenConns(conns)
	sqlDB.SetMaxIdleConns(conns)
	sqlDB.SetConnMaxLifetime(0)

	s := &Store{db: gdb}
	if err := s.migrate(context.Background()); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return s, nil
}

// dsn appends the pragmas every connection needs. The glebarez driver
// applies _pragma parameters on each new connection.
func dsn(path string) string {
	pragmas := []string{
		"_pragma=foreign_keys(1)",
		"_pragma=busy_timeout(5000)",
	}
	if path != MemoryPath {
		pragmas = append(pragmas, "_pragma=journal_mode(WAL)")
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + strings.Join(pragmas, "&")
}

// migrate creates the tables and indexes. Every statement is idempotent.
func (s *Store) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if err := s.db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return err
		}
	}

	// Databases written before the index existed may hold several open
	// sessions; the clock-in transaction still guards those.
	if err := s.db.WithContext(ctx).Exec(activeSessionIndex).Error; err != nil {
		slog.Warn("single active session index not created", "error", err)
	}
	return nil
}

// Ping checks the database answers.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
