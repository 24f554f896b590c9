package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"ms-tours/internal/models"
	"ms-tours/internal/utils"
)

type DB struct {
	Bun *bun.DB
}

// ListEvents returns events ordered by start date with their tour loaded.
func (d *DB) ListEvents(ctx context.Context, status models.EventStatus) ([]models.TourEvent, error) {
	events := []models.TourEvent{}
	q := d.Bun.NewSelect().
		Model(&events).
		Relation("Tour").
		OrderExpr("te.date_from ASC").
		OrderExpr("te.id ASC")

	switch status {
	case models.EventStatusActive:
		q = q.Where("te.archived = ?", false)
	case models.EventStatusArchived:
		q = q.Where("te.archived = ?", true)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return events, nil
}

func (d *DB) GetEvent(ctx context.Context, id int64) (*models.TourEvent, error) {
	var event models.TourEvent
	err := d.Bun.NewSelect().
		Model(&event).
		Relation("Tour").
		Where("te.id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("tour event %d: %w", id, utils.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (d *DB) CreateEvent(ctx context.Context, event *models.TourEvent) error {
	_, err := d.Bun.NewInsert().Model(event).Exec(ctx)
	return err
}

func (d *DB) SetArchived(ctx context.Context, id int64, archived bool) error {
	res, err := d.Bun.NewUpdate().
		Model((*models.TourEvent)(nil)).
		Set("archived = ?", archived).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	return expectAffected(res, fmt.Sprintf("tour event %d", id))
}

// TouristIDsByEvent returns the identifiers of the tourists persisted under eventID.
func (d *DB) TouristIDsByEvent(ctx context.Context, eventID int64) ([]int64, error) {
	ids := []int64{}
	err := d.Bun.NewSelect().
		Model((*models.Tourist)(nil)).
		Column("id").
		Where("tour_event_id = ?", eventID).
		Scan(ctx, &ids)
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (d *DB) TouristsByEvent(ctx context.Context, eventID int64) ([]models.Tourist, error) {
	tourists := []models.Tourist{}
	err := d.Bun.NewSelect().
		Model(&tourists).
		Where("tour_event_id = ?", eventID).
		OrderExpr("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return tourists, nil
}

// InsertTourists writes new rows in one statement. Identifiers are generated
// by the database and written back into the slice.
func (d *DB) InsertTourists(ctx context.Context, tourists []models.Tourist) error {
	if len(tourists) == 0 {
		return nil
	}
	_, err := d.Bun.NewInsert().Model(&tourists).Exec(ctx)
	return err
}

// UpsertTourists writes rows that carry an identifier in one statement,
// updating every scalar column in place.
func (d *DB) UpsertTourists(ctx context.Context, tourists []models.Tourist) error {
	if len(tourists) == 0 {
		return nil
	}
	_, err := d.Bun.NewInsert().
		Model(&tourists).
		On("CONFLICT (id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("email = EXCLUDED.email").
		Set("country = EXCLUDED.country").
		Set("notes = EXCLUDED.notes").
		Set("tour_event_id = EXCLUDED.tour_event_id").
		Exec(ctx)
	return err
}

func (d *DB) DeleteTourist(ctx context.Context, id int64) error {
	res, err := d.Bun.NewDelete().
		Model((*models.Tourist)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	return expectAffected(res, fmt.Sprintf("tourist %d", id))
}

// TouristsWithEvents joins every tourist to its event name. Tourists whose
// event row is missing are left out.
func (d *DB) TouristsWithEvents(ctx context.Context) ([]models.TouristWithEvent, error) {
	rows := []models.TouristWithEvent{}
	err := d.Bun.NewSelect().
		TableExpr("tourists AS tr").
		Join("JOIN tour_events AS te ON te.id = tr.tour_event_id").
		ColumnExpr("tr.name, tr.email, tr.country, tr.notes").
		ColumnExpr("te.event_name").
		OrderExpr("tr.id ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func expectAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, utils.ErrNotFound)
	}
	return nil
}
