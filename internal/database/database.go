package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"ms-tours/internal/config"
	"ms-tours/internal/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Open connects to the configured database and returns a bun handle with a
// query logging hook installed.
func Open(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*bun.DB, error) {
	var (
		db  *bun.DB
		err error
	)
	switch cfg.Driver {
	case DriverPostgres:
		db, err = openPostgres(ctx, cfg, log)
	case DriverSQLite:
		db, err = OpenSQLite(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	db.AddQueryHook(&QueryLogger{Logger: log, SlowThreshold: 500 * time.Millisecond})
	log.Info("DATABASE", fmt.Sprintf("✅ %s connection successful", cfg.Driver))
	return db, nil
}

func openPostgres(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*bun.DB, error) {
	var sqldb *sql.DB
	var err error

	retries := cfg.ConnRetries
	if retries < 1 {
		retries = 1
	}

	for i := 0; i < retries; i++ {
		log.Info("DATABASE", fmt.Sprintf("Attempting to connect to PostgreSQL (attempt %d/%d)", i+1, retries))
		sqldb, err = sql.Open("postgres", cfg.DSN)
		if err != nil {
			log.Error("DATABASE", fmt.Sprintf("Failed to open PostgreSQL: %v", err))
			time.Sleep(2 * time.Second)
			continue
		}

		err = sqldb.PingContext(ctx)
		if err == nil {
			break
		}

		log.Error("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
		sqldb.Close()
		if i < retries-1 {
			time.Sleep(2 * time.Second)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL after %d attempts: %w", retries, err)
	}

	sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.MaxLifetime)

	return bun.NewDB(sqldb, pgdialect.New()), nil
}

// OpenSQLite opens a single-connection SQLite database with foreign keys
// enforced on every pooled connection. Used for local runs and tests.
func OpenSQLite(ctx context.Context, dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, sqliteDSN(dsn))
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}
	// in-memory databases live per connection
	sqldb.SetMaxOpenConns(1)

	var enabled int
	if err := sqldb.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&enabled); err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("failed to read SQLite foreign_keys: %w", err)
	}
	if enabled != 1 {
		sqldb.Close()
		return nil, fmt.Errorf("SQLite driver %s did not enable foreign keys", sqliteshim.DriverName())
	}

	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// sqliteDSN adds the foreign key switch in the syntax of the driver the shim
// resolved to, so each new connection opens with it set.
func sqliteDSN(dsn string) string {
	param := "_pragma=foreign_keys(1)"
	if sqliteshim.DriverName() == "sqlite3" {
		param = "_foreign_keys=1"
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&" + param
	}
	return dsn + "?" + param
}
