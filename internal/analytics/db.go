package analytics

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"ms-tours/internal/models"
)

// DB runs the dashboard aggregate queries.
type DB struct {
	bun *bun.DB
}

func NewDB(db *bun.DB) *DB {
	return &DB{bun: db}
}

// Counts holds the headline numbers of the dashboard cards.
type Counts struct {
	ActiveTours     int `bun:"active_tours" json:"active_tours"`
	UpcomingEvents  int `bun:"upcoming_events" json:"upcoming_events"`
	Tourists        int `bun:"tourists" json:"tourists"`
	AvailableGuides int `bun:"available_guides" json:"available_guides"`
}

func (db *DB) GetCounts(ctx context.Context, now time.Time) (*Counts, error) {
	var counts Counts
	err := db.bun.NewRaw(`
		SELECT
			(SELECT COUNT(*) FROM tours WHERE archived = ?) AS active_tours,
			(SELECT COUNT(*) FROM tour_events WHERE archived = ? AND date_to >= ?) AS upcoming_events,
			(SELECT COUNT(*) FROM tourists) AS tourists,
			(SELECT COUNT(*) FROM guides WHERE availability = ?) AS available_guides
	`, false, false, now, true).Scan(ctx, &counts)
	if err != nil {
		return nil, err
	}
	return &counts, nil
}

// EventSummary is one row of the scheduled events card.
type EventSummary struct {
	ID        int64     `bun:"id" json:"id"`
	EventName string    `bun:"event_name" json:"event_name"`
	TourName  string    `bun:"tour_name" json:"tour_name"`
	DateFrom  time.Time `bun:"date_from" json:"date_from"`
	DateTo    time.Time `bun:"date_to" json:"date_to"`
	Tourists  int       `bun:"tourists" json:"tourists"`
}

// GetUpcomingEvents lists active events that have not ended, soonest first,
// with their roster size.
func (db *DB) GetUpcomingEvents(ctx context.Context, now time.Time, limit int) ([]EventSummary, error) {
	events := []EventSummary{}
	err := db.bun.NewSelect().
		TableExpr("tour_events AS te").
		ColumnExpr("te.id, te.event_name, te.date_from, te.date_to").
		ColumnExpr("COALESCE(t.name, '') AS tour_name").
		ColumnExpr("COUNT(tr.id) AS tourists").
		Join("LEFT JOIN tours AS t ON t.id = te.tour_id").
		Join("LEFT JOIN tourists AS tr ON tr.tour_event_id = te.id").
		Where("te.archived = ?", false).
		Where("te.date_to >= ?", now).
		GroupExpr("te.id, te.event_name, te.date_from, te.date_to, t.name").
		OrderExpr("te.date_from ASC, te.id ASC").
		Limit(limit).
		Scan(ctx, &events)
	if err != nil {
		return nil, err
	}
	return events, nil
}

// GetRecentClients returns the most recently registered tourists.
func (db *DB) GetRecentClients(ctx context.Context, limit int) ([]models.TouristWithEvent, error) {
	clients := []models.TouristWithEvent{}
	err := db.bun.NewSelect().
		TableExpr("tourists AS tr").
		Join("JOIN tour_events AS te ON te.id = tr.tour_event_id").
		ColumnExpr("tr.name, tr.email, tr.country, tr.notes").
		ColumnExpr("te.event_name").
		OrderExpr("tr.id DESC").
		Limit(limit).
		Scan(ctx, &clients)
	if err != nil {
		return nil, err
	}
	return clients, nil
}

type CountryCount struct {
	Country  string `bun:"country" json:"country"`
	Tourists int    `bun:"tourists" json:"tourists"`
}

// GetTouristsByCountry groups tourists by country, largest group first.
// Tourists without a country are reported under "".
func (db *DB) GetTouristsByCountry(ctx context.Context) ([]CountryCount, error) {
	counts := []CountryCount{}
	err := db.bun.NewSelect().
		TableExpr("tourists AS tr").
		ColumnExpr("COALESCE(tr.country, '') AS country").
		ColumnExpr("COUNT(*) AS tourists").
		GroupExpr("COALESCE(tr.country, '')").
		OrderExpr("tourists DESC, country ASC").
		Scan(ctx, &counts)
	if err != nil {
		return nil, err
	}
	return counts, nil
}
