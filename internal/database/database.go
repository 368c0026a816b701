package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"ms-events/internal/config"
	"ms-events/internal/logger"
)

type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

var ErrUnsupportedURL = errors.New("unsupported DATABASE_URL scheme")

// ParseURL maps a connection string onto a database/sql driver and DSN.
// SQLAlchemy style driver suffixes (postgresql+asyncpg, sqlite+aiosqlite) are accepted.
func ParseURL(raw string) (Driver, string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "", errors.New("empty DATABASE_URL")
	}
	if raw == ":memory:" {
		return DriverSQLite, memoryDSN(), nil
	}
	if strings.HasPrefix(raw, "file:") {
		return DriverSQLite, withForeignKeys(raw), nil
	}

	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedURL, raw)
	}
	if base, _, found := strings.Cut(scheme, "+"); found {
		scheme = base
	}

	switch strings.ToLower(scheme) {
	case "postgres", "postgresql":
		return DriverPostgres, "postgres://" + rest, nil
	case "sqlite", "sqlite3":
		// sqlite:///./events.db is a relative path, sqlite:////var/db/events.db an absolute one.
		path := strings.TrimPrefix(rest, "/")
		if path == "" || path == ":memory:" {
			return DriverSQLite, memoryDSN(), nil
		}
		return DriverSQLite, withForeignKeys("file:" + path), nil
	default:
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedURL, scheme)
	}
}

// sqliteForeignKeys turns on FK enforcement for every connection the pool
// opens: _pragma for modernc.org/sqlite, _foreign_keys for mattn/go-sqlite3.
const sqliteForeignKeys = "_pragma=foreign_keys(1)&_foreign_keys=1"

func withForeignKeys(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + sqliteForeignKeys
}

// memoryDSN names a fresh in-memory database so separate Open calls never
// share tables. It lives as long as its connection.
func memoryDSN() string {
	return withForeignKeys(fmt.Sprintf("file:memdb-%s?mode=memory&cache=shared", uuid.NewString()))
}

// Open connects to the store named by cfg.URL and returns a bun handle.
// The connection is verified with up to cfg.ConnectRetries pings.
func Open(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*bun.DB, error) {
	driver, dsn, err := ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	var sqldb *sql.DB
	switch driver {
	case DriverPostgres:
		sqldb, err = sql.Open("postgres", dsn)
	case DriverSQLite:
		sqldb, err = sql.Open(sqliteshim.ShimName, dsn)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if driver == DriverSQLite {
		// One connection serialises writes and keeps an in-memory database alive.
		sqldb.SetMaxOpenConns(1)
		sqldb.SetMaxIdleConns(1)
		sqldb.SetConnMaxLifetime(0)
	} else {
		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
		sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
		sqldb.SetConnMaxLifetime(cfg.MaxLifetime)
	}

	retries := cfg.ConnectRetries
	if retries < 1 {
		retries = 1
	}
	for i := 0; i < retries; i++ {
		log.Info("DATABASE", fmt.Sprintf("Attempting to connect to %s (attempt %d/%d)", driver, i+1, retries))
		err = sqldb.PingContext(ctx)
		if err == nil {
			break
		}
		log.Error("DATABASE", fmt.Sprintf("Failed to connect to %s: %v", driver, err))
		if i < retries-1 {
			select {
			case <-ctx.Done():
				sqldb.Close()
				return nil, ctx.Err()
			case <-time.After(cfg.RetryDelay):
			}
		}
	}
	if err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("connect to %s after %d attempts: %w", driver, retries, err)
	}

	var db *bun.DB
	if driver == DriverSQLite {
		db = bun.NewDB(sqldb, sqlitedialect.New())
		var enabled int
		if err := db.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&enabled); err != nil {
			db.Close()
			return nil, fmt.Errorf("check sqlite foreign keys: %w", err)
		}
		if enabled != 1 {
			db.Close()
			return nil, errors.New("sqlite driver ignored foreign_keys in DSN")
		}
	} else {
		db = bun.NewDB(sqldb, pgdialect.New())
	}

	log.Info("DATABASE", fmt.Sprintf("✅ %s connection successful", driver))
	return db, nil
}
