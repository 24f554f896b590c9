// Package roster reconciles the tourists submitted for one tour event against
// the rows already persisted for it.
package roster

import (
	"context"
	"fmt"

	"ms-tours/internal/logger"
	"ms-tours/internal/models"
)

// Store is the persistence the reconciler needs. It is satisfied by
// events/db.DB.
type Store interface {
	TouristIDsByEvent(ctx context.Context, eventID int64) ([]int64, error)
	InsertTourists(ctx context.Context, tourists []models.Tourist) error
	UpsertTourists(ctx context.Context, tourists []models.Tourist) error
}

type Step string

const (
	StepFetch  Step = "fetch"
	StepInsert Step = "insert"
	StepUpdate Step = "update"
)

var stepMessages = map[Step]string{
	StepFetch:  "Error fetching existing tourists.",
	StepInsert: "Error saving new tourists.",
	StepUpdate: "Error updating existing tourists.",
}

// RosterError reports which step of a reconciliation failed. Steps that ran
// before it are not undone.
type RosterError struct {
	EventID int64
	Step    Step
	Message string
	Err     error
}

func (e *RosterError) Error() string {
	return fmt.Sprintf("%s (event %d): %v", e.Message, e.EventID, e.Err)
}

func (e *RosterError) Unwrap() error {
	return e.Err
}

func newRosterError(eventID int64, step Step, err error) *RosterError {
	return &RosterError{EventID: eventID, Step: step, Message: stepMessages[step], Err: err}
}

type Result struct {
	EventID int64            `json:"event_id"`
	Added   []models.Tourist `json:"added"`
	Updated []models.Tourist `json:"updated"`
}

// Partition splits submitted into rows that already exist under the event and
// rows that must be inserted. Order inside each batch follows submission. Rows
// headed for insertion have their ID cleared, and every row is stamped with
// eventID. When the same persisted ID is submitted twice the last one wins.
func Partition(eventID int64, persisted []int64, submitted []models.Tourist) (toUpdate, toAdd []models.Tourist) {
	existing := make(map[int64]struct{}, len(persisted))
	for _, id := range persisted {
		existing[id] = struct{}{}
	}

	position := make(map[int64]int)
	for _, t := range submitted {
		t.TourEventID = eventID
		if _, ok := existing[t.ID]; ok && t.ID != 0 {
			if i, seen := position[t.ID]; seen {
				toUpdate[i] = t
				continue
			}
			position[t.ID] = len(toUpdate)
			toUpdate = append(toUpdate, t)
			continue
		}
		t.ID = 0
		toAdd = append(toAdd, t)
	}
	return toUpdate, toAdd
}

type Reconciler struct {
	Store  Store
	Logger *logger.Logger
}

func NewReconciler(store Store, log *logger.Logger) *Reconciler {
	return &Reconciler{Store: store, Logger: log}
}

// Reconcile writes submitted as the roster of eventID. New tourists are
// inserted in one batch, then known tourists are updated in one batch.
// Persisted tourists missing from submitted are left alone.
func (r *Reconciler) Reconcile(ctx context.Context, eventID int64, submitted []models.Tourist) (*Result, error) {
	persisted, err := r.Store.TouristIDsByEvent(ctx, eventID)
	if err != nil {
		r.Logger.Error("ROSTER", fmt.Sprintf("Failed to fetch tourists of event %d: %v", eventID, err))
		return nil, newRosterError(eventID, StepFetch, err)
	}

	toUpdate, toAdd := Partition(eventID, persisted, submitted)
	result := &Result{EventID: eventID, Added: []models.Tourist{}, Updated: []models.Tourist{}}

	if len(toAdd) > 0 {
		if err := r.Store.InsertTourists(ctx, toAdd); err != nil {
			r.Logger.Error("ROSTER", fmt.Sprintf("Failed to insert %d tourists into event %d: %v", len(toAdd), eventID, err))
			return nil, newRosterError(eventID, StepInsert, err)
		}
		result.Added = toAdd
	}

	if len(toUpdate) > 0 {
		if err := r.Store.UpsertTourists(ctx, toUpdate); err != nil {
			r.Logger.Error("ROSTER", fmt.Sprintf("Failed to update %d tourists of event %d: %v", len(toUpdate), eventID, err))
			return nil, newRosterError(eventID, StepUpdate, err)
		}
		result.Updated = toUpdate
	}

	r.Logger.LogRoster("RECONCILE", eventID, fmt.Sprintf("%d added, %d updated", len(result.Added), len(result.Updated)))
	return result, nil
}
