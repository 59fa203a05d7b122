package db

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options configures the connection pool.
type Options struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// LogOutput receives slow query and error traces. Defaults to stdout.
	LogOutput io.Writer
}

// newLogger logs warnings and errors only. Lookups that find nothing are an
// expected outcome (first idempotent submit, empty guest cart) and stay silent.
func newLogger(out io.Writer) logger.Interface {
	colorful := false
	if out == nil {
		out, colorful = os.Stdout, true
	}
	return logger.New(log.New(out, "\r\n", log.LstdFlags), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  colorful,
	})
}

// Open connects to the configured database and returns a gorm handle.
// Postgres goes through a lib/pq pool; sqlite is meant for local runs and tests.
func Open(opts Options) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger:         newLogger(opts.LogOutput),
	}

	switch opts.Driver {
	case "postgres":
		sqlDB, err := NewPostgresConnection(opts)
		if err != nil {
			return nil, err
		}
		gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormCfg)
		if err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("open gorm on postgres: %w", err)
		}
		return gdb, nil
	case "sqlite":
		gdb, err := gorm.Open(sqlite.Open(opts.DSN), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return gdb, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
}

// NewPostgresConnection opens and pings a pooled lib/pq connection.
func NewPostgresConnection(opts Options) (*sql.DB, error) {
	sqlDB, err := sql.Open("postgres", opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("db ping failed: %w", err)
	}
	return sqlDB, nil
}
