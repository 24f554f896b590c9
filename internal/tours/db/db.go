package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"

	"ms-tours/internal/models"
	"ms-tours/internal/utils"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) ListTours(ctx context.Context, archived bool) ([]models.Tour, error) {
	tours := []models.Tour{}
	err := d.Bun.NewSelect().
		Model(&tours).
		Where("t.archived = ?", archived).
		OrderExpr("t.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return tours, nil
}

func (d *DB) GetTour(ctx context.Context, id int64) (*models.Tour, error) {
	var tour models.Tour
	err := d.Bun.NewSelect().Model(&tour).Where("t.id = ?", id).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("tour %d: %w", id, utils.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &tour, nil
}

// GetToursByIDs returns the tours among ids, archived or not.
func (d *DB) GetToursByIDs(ctx context.Context, ids []int64) ([]models.Tour, error) {
	tours := []models.Tour{}
	if len(ids) == 0 {
		return tours, nil
	}
	err := d.Bun.NewSelect().
		Model(&tours).
		Where("t.id IN (?)", bun.In(ids)).
		OrderExpr("t.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return tours, nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// SearchByName matches name case-insensitively on a literal substring, across
// archived and active tours.
func (d *DB) SearchByName(ctx context.Context, fragment string) ([]models.Tour, error) {
	tours := []models.Tour{}
	err := d.Bun.NewSelect().
		Model(&tours).
		Where("LOWER(t.name) LIKE ? ESCAPE '!'", "%"+likeEscaper.Replace(strings.ToLower(fragment))+"%").
		OrderExpr("t.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return tours, nil
}

func (d *DB) CreateTour(ctx context.Context, tour *models.Tour) error {
	_, err := d.Bun.NewInsert().Model(tour).Exec(ctx)
	return err
}

// UpdateTour overwrites the editable columns. The archive flag and creation
// time are left alone.
func (d *DB) UpdateTour(ctx context.Context, tour *models.Tour) error {
	res, err := d.Bun.NewUpdate().
		Model(tour).
		Column("name", "description", "latitude", "longitude", "price", "photo_urls", "tripadvisor_link").
		WherePK().
		Exec(ctx)
	if err != nil {
		return err
	}
	return expectAffected(res, fmt.Sprintf("tour %d", tour.ID))
}

func (d *DB) DeleteTour(ctx context.Context, id int64) error {
	res, err := d.Bun.NewDelete().
		Model((*models.Tour)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	return expectAffected(res, fmt.Sprintf("tour %d", id))
}

func (d *DB) SetArchived(ctx context.Context, id int64, archived bool) error {
	res, err := d.Bun.NewUpdate().
		Model((*models.Tour)(nil)).
		Set("archived = ?", archived).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	return expectAffected(res, fmt.Sprintf("tour %d", id))
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
