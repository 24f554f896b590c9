// Package dbtest provides an in-memory SQLite database with the application
// schema for repository tests.
package dbtest

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/uptrace/bun"

	"ms-tours/internal/database"
	"ms-tours/internal/models"
)

func New(t testing.TB) *bun.DB {
	t.Helper()
	ctx := context.Background()

	// a unique shared-cache name keeps parallel tests isolated
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.OpenSQLite(ctx, dsn)
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.ApplySQLiteSchema(ctx, db); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return db
}

func SeedTour(t testing.TB, db *bun.DB, name string) *models.Tour {
	t.Helper()
	tour := &models.Tour{Name: name, Price: 100, Latitude: 45.5, Longitude: 13.6}
	if _, err := db.NewInsert().Model(tour).Exec(context.Background()); err != nil {
		t.Fatalf("Failed to seed tour: %v", err)
	}
	return tour
}

func SeedEvent(t testing.TB, db *bun.DB, name string, tourID *int64, from time.Time) *models.TourEvent {
	t.Helper()
	event := &models.TourEvent{EventName: name, TourID: tourID, DateFrom: from, DateTo: from.AddDate(0, 0, 3)}
	if _, err := db.NewInsert().Model(event).Exec(context.Background()); err != nil {
		t.Fatalf("Failed to seed event: %v", err)
	}
	return event
}

func SeedTourists(t testing.TB, db *bun.DB, eventID int64, names ...string) []models.Tourist {
	t.Helper()
	tourists := make([]models.Tourist, 0, len(names))
	for _, name := range names {
		tourists = append(tourists, models.Tourist{Name: name, Email: name + "@example.com", Country: "Croatia", TourEventID: eventID})
	}
	if len(tourists) == 0 {
		return tourists
	}
	if _, err := db.NewInsert().Model(&tourists).Exec(context.Background()); err != nil {
		t.Fatalf("Failed to seed tourists: %v", err)
	}
	return tourists
}
