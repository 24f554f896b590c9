package models

import (
	"time"

	"github.com/uptrace/bun"
)

type TourEvent struct {
	bun.BaseModel `bun:"table:tour_events,alias:te"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	EventName string    `bun:"event_name,notnull" json:"event_name"`
	DateFrom  time.Time `bun:"date_from,notnull" json:"date_from"`
	DateTo    time.Time `bun:"date_to,notnull" json:"date_to"`
	TourID    *int64    `bun:"tour_id" json:"tour_id"`
	Archived  bool      `bun:"archived,notnull,default:false" json:"archived"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`

	Tour *Tour `bun:"rel:belongs-to,join:tour_id=id" json:"tour,omitempty"`
}

// TourName is empty when the event has no tour or the tour was not loaded.
func (e TourEvent) TourName() string {
	if e.Tour == nil {
		return ""
	}
	return e.Tour.Name
}

type TourEventWithTourists struct {
	TourEvent
	Tourists []Tourist `json:"tourists"`
}

// EventStatus selects which events a listing returns.
type EventStatus string

const (
	EventStatusActive   EventStatus = "active"
	EventStatusArchived EventStatus = "archived"
	EventStatusAll      EventStatus = "all"
)

func ParseEventStatus(s string) (EventStatus, bool) {
	switch EventStatus(s) {
	case "", EventStatusActive:
		return EventStatusActive, true
	case EventStatusArchived:
		return EventStatusArchived, true
	case EventStatusAll:
		return EventStatusAll, true
	}
	return "", false
}
