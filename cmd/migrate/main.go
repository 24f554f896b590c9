// Command migrate manages the tours schema.
//
//	migrate up            apply every pending migration (SQLite: create tables)
//	migrate down          roll back every migration
//	migrate to <version>  migrate up or down to version
//	migrate seed          insert demo tours, guides and events
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/uptrace/bun"

	"ms-tours/internal/config"
	"ms-tours/internal/database"
	"ms-tours/internal/database/migrations"
	"ms-tours/internal/logger"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: migrate up | down | to <version> | seed")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.NewLogger("ms-tours-migrate")
	defer log.Close()

	ctx := context.Background()
	db, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to connect to database: %v", err))
	}
	defer db.Close()

	if err := run(ctx, db, cfg.Database.Driver, os.Args[1:], log); err != nil {
		log.Fatal("MIGRATE", err.Error())
	}
	log.Info("MIGRATE", "✅ Done.")
}

func run(ctx context.Context, db *bun.DB, driver string, args []string, log *logger.Logger) error {
	command := args[0]

	if command == "seed" {
		log.Info("MIGRATE", "Seeding sample data...")
		return seedData(ctx, db)
	}

	if driver == database.DriverSQLite {
		if command != "up" {
			return fmt.Errorf("%q is not supported on sqlite, only up and seed", command)
		}
		log.Info("MIGRATE", "Creating sqlite tables...")
		return database.ApplySQLiteSchema(ctx, db)
	}

	runner := migrations.NewRunner(db, log)
	defer runner.Close()

	switch command {
	case "up":
		return runner.RunMigrations()
	case "down":
		log.Warn("MIGRATE", "Rolling back all migrations")
		return runner.MigrateDown()
	case "to":
		if len(args) < 2 {
			return fmt.Errorf("to requires a version")
		}
		version, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[1], err)
		}
		return runner.MigrateTo(uint(version))
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}
