// Package activity forwards mutation notices to the activity topic.
package activity

import (
	"context"
	"errors"
	"fmt"

	"ms-tours/internal/auth"
	"ms-tours/internal/logger"
	"ms-tours/internal/models"
)

type Publisher interface {
	PublishActivity(ctx context.Context, event models.ActivityEvent) error
}

// Fanout delivers every event to each publisher, even when an earlier one
// fails.
type Fanout []Publisher

func (f Fanout) PublishActivity(ctx context.Context, event models.ActivityEvent) error {
	var errs []error
	for _, p := range f {
		if err := p.PublishActivity(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Notifier publishes best-effort: a failed publish is logged and never
// reaches the caller. A nil Publisher disables publishing.
type Notifier struct {
	Publisher Publisher
	Logger    *logger.Logger
}

func NewNotifier(publisher Publisher, log *logger.Logger) *Notifier {
	return &Notifier{Publisher: publisher, Logger: log}
}

// Notify records that the operator in ctx changed entity/entityID.
func (n *Notifier) Notify(ctx context.Context, kind models.ActivityType, entity string, entityID int64, detail string) {
	if n == nil || n.Publisher == nil {
		return
	}

	event := models.NewActivityEvent(kind, entity, entityID, auth.UserID(ctx), detail)
	if err := n.Publisher.PublishActivity(ctx, event); err != nil {
		n.Logger.Warn("KAFKA", fmt.Sprintf("Failed to publish %s activity for %s %d: %v", kind, entity, entityID, err))
	}
}
