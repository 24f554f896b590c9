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

func (d *DB) ListGuides(ctx context.Context) ([]models.Guide, error) {
	guides := []models.Guide{}
	if err := d.Bun.NewSelect().Model(&guides).OrderExpr("g.name ASC, g.id ASC").Scan(ctx); err != nil {
		return nil, err
	}
	return guides, nil
}

func (d *DB) GetGuide(ctx context.Context, id int64) (*models.Guide, error) {
	var guide models.Guide
	err := d.Bun.NewSelect().Model(&guide).Where("g.id = ?", id).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("guide %d: %w", id, utils.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &guide, nil
}

func (d *DB) CreateGuide(ctx context.Context, guide *models.Guide) error {
	_, err := d.Bun.NewInsert().Model(guide).Exec(ctx)
	return err
}

func (d *DB) UpdateGuide(ctx context.Context, guide *models.Guide) error {
	res, err := d.Bun.NewUpdate().
		Model(guide).
		Column("name", "speciality", "availability", "photo_url", "phone_number", "email").
		WherePK().
		Exec(ctx)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("guide %d: %w", guide.ID, utils.ErrNotFound)
	}
	return nil
}

func (d *DB) DeleteGuide(ctx context.Context, id int64) error {
	res, err := d.Bun.NewDelete().Model((*models.Guide)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("guide %d: %w", id, utils.ErrNotFound)
	}
	return nil
}
