package main

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"ms-tours/internal/models"
)

// seedData inserts a small demo data set for local runs.
func seedData(ctx context.Context, db *bun.DB) error {
	tours := []models.Tour{
		{
			Name:            "Plitvice Lakes Day Trip",
			Description:     "Waterfalls and wooden walkways in Croatia's oldest national park.",
			Latitude:        44.8654,
			Longitude:       15.5820,
			Price:           89,
			PhotoURLs:       []string{"https://example.com/photos/plitvice.jpg"},
			TripAdvisorLink: "https://www.tripadvisor.com/Attraction_Review-g303826",
		},
		{
			Name:        "Dubrovnik Old Town Walk",
			Description: "City walls, Stradun and the old harbour.",
			Latitude:    42.6507,
			Longitude:   18.0944,
			Price:       45,
			PhotoURLs:   []string{},
		},
	}
	if _, err := db.NewInsert().Model(&tours).Exec(ctx); err != nil {
		return fmt.Errorf("failed to seed tours: %w", err)
	}

	guides := []models.Guide{
		{Name: "Marko Horvat", Speciality: "National parks", Availability: true, PhoneNumber: "91234567", Email: "marko@example.com"},
		{Name: "Ivana Kovač", Speciality: "History", Availability: false, PhoneNumber: "98765432", Email: "ivana@example.com"},
	}
	if _, err := db.NewInsert().Model(&guides).Exec(ctx); err != nil {
		return fmt.Errorf("failed to seed guides: %w", err)
	}

	start := time.Now().AddDate(0, 1, 0).Truncate(24 * time.Hour)
	event := models.TourEvent{
		EventName: "Plitvice Spring Group",
		DateFrom:  start,
		DateTo:    start.AddDate(0, 0, 1),
		TourID:    &tours[0].ID,
	}
	if _, err := db.NewInsert().Model(&event).Exec(ctx); err != nil {
		return fmt.Errorf("failed to seed tour event: %w", err)
	}

	tourists := []models.Tourist{
		{Name: "Anna Schmidt", Email: "anna@example.com", Country: "Germany", TourEventID: event.ID},
		{Name: "Luca Rossi", Email: "luca@example.com", Country: "Italy", Notes: "Loved the boat ride", TourEventID: event.ID},
	}
	if _, err := db.NewInsert().Model(&tourists).Exec(ctx); err != nil {
		return fmt.Errorf("failed to seed tourists: %w", err)
	}
	return nil
}
