// Package db holds the SQLite schema migrations and the connection setup for
// the local state file.
package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pressly/goose/v3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

//go:embed migrations/*.sql
var migrations embed.FS

const migrationsTable = "schema_migrations"

// Open opens (creating if needed) the SQLite file at path.
func Open(path string) (*gorm.DB, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
			}
		}
	}

	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	// single writer; also keeps ":memory:" on one connection
	sqlDB.SetMaxOpenConns(1)

	return gdb, nil
}

// Migrate applies every pending migration, or rolls back the latest one.
func Migrate(ctx context.Context, gdb *gorm.DB, rollback bool) error {
	sqlDB, err := prepare(gdb)
	if err != nil {
		return err
	}

	if rollback {
		if err := goose.DownContext(ctx, sqlDB, "migrations"); err != nil {
			return fmt.Errorf("goose down: %w", err)
		}
		return nil
	}
	if err := goose.UpContext(ctx, sqlDB, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// Version reports the latest applied migration.
func Version(ctx context.Context, gdb *gorm.DB) (int64, error) {
	sqlDB, err := prepare(gdb)
	if err != nil {
		return 0, err
	}
	return goose.GetDBVersionContext(ctx, sqlDB)
}

func prepare(gdb *gorm.DB) (*sql.DB, error) {
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	goose.SetBaseFS(migrations)
	goose.SetTableName(migrationsTable)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return nil, fmt.Errorf("goose: %w", err)
	}
	return sqlDB, nil
}
