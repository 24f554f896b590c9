package models

import "github.com/uptrace/bun"

// Tourist is a client registered on one tour event. A zero ID means the
// tourist has not been persisted yet.
type Tourist struct {
	bun.BaseModel `bun:"table:tourists,alias:tr"`

	ID          int64  `bun:"id,pk,autoincrement" json:"id,omitempty"`
	Name        string `bun:"name,notnull" json:"name" validate:"required,max=200"`
	Email       string `bun:"email" json:"email" validate:"omitempty,email"`
	Country     string `bun:"country" json:"country"`
	Notes       string `bun:"notes" json:"notes"`
	TourEventID int64  `bun:"tour_event_id,notnull" json:"tour_event_id,omitempty"`
}

type TouristWithEvent struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Country   string `json:"country"`
	EventName string `json:"event_name"`
	Notes     string `json:"notes"`
}
