package models

import (
	"time"

	"github.com/google/uuid"
)

type ActivityType string

const (
	ActivityCreated    ActivityType = "created"
	ActivityUpdated    ActivityType = "updated"
	ActivityDeleted    ActivityType = "deleted"
	ActivityArchived   ActivityType = "archived"
	ActivityUnarchived ActivityType = "unarchived"
	ActivityReconciled ActivityType = "roster_reconciled"
)

// ActivityEvent is published on the activity topic after a successful mutation.
type ActivityEvent struct {
	ID         string       `json:"id"`
	Type       ActivityType `json:"type"`
	Entity     string       `json:"entity"`
	EntityID   int64        `json:"entity_id"`
	Actor      string       `json:"actor,omitempty"`
	Detail     string       `json:"detail,omitempty"`
	OccurredAt time.Time    `json:"occurred_at"`
}

func NewActivityEvent(activity ActivityType, entity string, entityID int64, actor, detail string) ActivityEvent {
	return ActivityEvent{
		ID:         uuid.NewString(),
		Type:       activity,
		Entity:     entity,
		EntityID:   entityID,
		Actor:      actor,
		Detail:     detail,
		OccurredAt: time.Now().UTC(),
	}
}
