// Package database provides the persistence collaborator: catalog snapshot
// loading and match result storage. The matching core never touches it;
// callers load a snapshot, match against it, then hand results back here.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/storelens/matcher/internal/config"
)

const (
	defaultPingTimeout = 5 * time.Second
	connMaxLifetime    = time.Hour
)

// Connect opens a database handle for the configured driver. "sqlite3" is
// the single-node crawler deployment; "postgres" serves shared deployments.
func Connect(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	var dsn string
	switch cfg.Driver {
	case "sqlite3":
		dsn = cfg.Path + "?_busy_timeout=5000&_journal_mode=WAL"
	case "postgres":
		dsn = fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
		)
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}

	db, err := sqlx.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}

	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), defaultPingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping %s database: %w", cfg.Driver, err)
	}
	return db, nil
}

// EnsureSchema creates the matcher tables when they do not exist yet. The
// DDL sticks to the portable subset both drivers accept.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS catalog_products (
			store        TEXT NOT NULL,
			position     INTEGER NOT NULL DEFAULT 0,
			code         TEXT NOT NULL,
			name         TEXT NOT NULL,
			price        INTEGER NOT NULL DEFAULT 0,
			category     TEXT NOT NULL DEFAULT '',
			image_url    TEXT NOT NULL DEFAULT '',
			product_url  TEXT NOT NULL DEFAULT '',
			popularity   INTEGER NOT NULL DEFAULT 0,
			is_featured  BOOLEAN NOT NULL DEFAULT FALSE,
			rating       REAL NOT NULL DEFAULT 0,
			review_count INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (store, code)
		)`,
		`CREATE TABLE IF NOT EXISTS video_products (
			video_id            TEXT NOT NULL,
			mention_name        TEXT NOT NULL,
			official_code       TEXT NOT NULL DEFAULT '',
			official_name       TEXT NOT NULL DEFAULT '',
			official_price      INTEGER NOT NULL DEFAULT 0,
			score               REAL NOT NULL DEFAULT 0,
			name_score          REAL NOT NULL DEFAULT 0,
			price_score         REAL NOT NULL DEFAULT 0,
			category_score      REAL NOT NULL DEFAULT 0,
			confidence          REAL NOT NULL DEFAULT 0,
			needs_manual_review BOOLEAN NOT NULL DEFAULT FALSE,
			match_source        TEXT NOT NULL DEFAULT '',
			is_matched          BOOLEAN NOT NULL DEFAULT FALSE,
			is_approved         BOOLEAN NOT NULL DEFAULT FALSE,
			PRIMARY KEY (video_id, mention_name)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
