package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Tour struct {
	bun.BaseModel `bun:"table:tours,alias:t"`

	ID              int64     `bun:"id,pk,autoincrement" json:"id"`
	Name            string    `bun:"name,notnull" json:"name" validate:"required,max=200"`
	Description     string    `bun:"description" json:"description"`
	Latitude        float64   `bun:"latitude" json:"latitude" validate:"gte=-90,lte=90"`
	Longitude       float64   `bun:"longitude" json:"longitude" validate:"gte=-180,lte=180"`
	Price           float64   `bun:"price" json:"price" validate:"gte=0"`
	PhotoURLs       []string  `bun:"photo_urls,type:jsonb" json:"photo_urls" validate:"dive,weburl"`
	TripAdvisorLink string    `bun:"tripadvisor_link" json:"tripadvisor_link" validate:"omitempty,weburl"`
	Archived        bool      `bun:"archived,notnull,default:false" json:"archived"`
	CreatedAt       time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// CatalogTour is what the public globe page receives for each pin.
type CatalogTour struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Latitude        float64  `json:"latitude"`
	Longitude       float64  `json:"longitude"`
	Price           float64  `json:"price"`
	PhotoURLs       []string `json:"photo_urls"`
	TripAdvisorLink string   `json:"tripadvisor_link"`
}

func (t Tour) Catalog() CatalogTour {
	photos := t.PhotoURLs
	if photos == nil {
		photos = []string{}
	}
	return CatalogTour{
		ID:              t.ID,
		Name:            t.Name,
		Description:     t.Description,
		Latitude:        t.Latitude,
		Longitude:       t.Longitude,
		Price:           t.Price,
		PhotoURLs:       photos,
		TripAdvisorLink: t.TripAdvisorLink,
	}
}
