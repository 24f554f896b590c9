package events

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"ms-tours/internal/activity"
	"ms-tours/internal/events/roster"
	"ms-tours/internal/export"
	"ms-tours/internal/logger"
	"ms-tours/internal/models"
	"ms-tours/internal/utils"
	"ms-tours/internal/vouchers"
)

const entityEvent = "tour_event"

type EventDBLayer interface {
	ListEvents(ctx context.Context, status models.EventStatus) ([]models.TourEvent, error)
	GetEvent(ctx context.Context, id int64) (*models.TourEvent, error)
	CreateEvent(ctx context.Context, event *models.TourEvent) error
	SetArchived(ctx context.Context, id int64, archived bool) error
	TouristsByEvent(ctx context.Context, eventID int64) ([]models.Tourist, error)
	DeleteTourist(ctx context.Context, id int64) error
}

type RosterReconciler interface {
	Reconcile(ctx context.Context, eventID int64, submitted []models.Tourist) (*roster.Result, error)
}

type VoucherGenerator interface {
	Generate(event models.TourEventWithTourists) ([]byte, error)
}

type EventService struct {
	DB       EventDBLayer
	Roster   RosterReconciler
	Vouchers VoucherGenerator
	Activity *activity.Notifier
	Logger   *logger.Logger
}

func NewEventService(db EventDBLayer, reconciler RosterReconciler, notifier *activity.Notifier, log *logger.Logger) *EventService {
	return &EventService{
		DB:       db,
		Roster:   reconciler,
		Vouchers: vouchers.NewGenerator(),
		Activity: notifier,
		Logger:   log,
	}
}

type CreateEventInput struct {
	EventName string           `json:"event_name" validate:"required,max=200"`
	DateFrom  string           `json:"date_from" validate:"required"`
	DateTo    string           `json:"date_to" validate:"required"`
	TourID    *int64           `json:"tour_id"`
	Tourists  []models.Tourist `json:"tourists" validate:"dive"`
}

type rosterInput struct {
	Tourists []models.Tourist `json:"tourists" validate:"dive"`
}

// EventWithRoster is returned after an event is created with its tourists.
type EventWithRoster struct {
	Event  *models.TourEvent `json:"event"`
	Roster *roster.Result    `json:"roster"`
}

func (s *EventService) ListEvents(ctx context.Context, status models.EventStatus) ([]models.TourEvent, error) {
	events, err := s.DB.ListEvents(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list tour events: %w", err)
	}
	return events, nil
}

func (s *EventService) GetEvent(ctx context.Context, id int64) (*models.TourEventWithTourists, error) {
	event, err := s.DB.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	tourists, err := s.DB.TouristsByEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load tourists of event %d: %w", id, err)
	}
	return &models.TourEventWithTourists{TourEvent: *event, Tourists: tourists}, nil
}

// CreateEvent inserts the event and then reconciles the submitted tourists
// under its new id. A roster failure leaves the event in place.
func (s *EventService) CreateEvent(ctx context.Context, input CreateEventInput) (*EventWithRoster, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}
	from, to, err := parseRange(input.DateFrom, input.DateTo)
	if err != nil {
		return nil, err
	}

	event := &models.TourEvent{
		EventName: input.EventName,
		DateFrom:  from,
		DateTo:    to,
		TourID:    input.TourID,
	}
	if err := s.DB.CreateEvent(ctx, event); err != nil {
		if utils.IsForeignKeyViolation(err) {
			return nil, utils.NewValidationError("tour_id", "Selected tour does not exist.")
		}
		return nil, fmt.Errorf("failed to create tour event: %w", err)
	}
	s.Logger.Info("EVENTS", fmt.Sprintf("Created tour event %d %q", event.ID, event.EventName))
	s.Activity.Notify(ctx, models.ActivityCreated, entityEvent, event.ID, event.EventName)

	result, err := s.Roster.Reconcile(ctx, event.ID, input.Tourists)
	if err != nil {
		return nil, err
	}
	s.Activity.Notify(ctx, models.ActivityReconciled, entityEvent, event.ID, rosterDetail(result))

	return &EventWithRoster{Event: event, Roster: result}, nil
}

// UpdateRoster reconciles tourists against an existing event. Tourists left
// out of the submission are not removed.
func (s *EventService) UpdateRoster(ctx context.Context, eventID int64, tourists []models.Tourist) (*roster.Result, error) {
	if err := utils.ValidateStruct(rosterInput{Tourists: tourists}); err != nil {
		return nil, err
	}
	if _, err := s.DB.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}

	result, err := s.Roster.Reconcile(ctx, eventID, tourists)
	if err != nil {
		return nil, err
	}
	s.Activity.Notify(ctx, models.ActivityReconciled, entityEvent, eventID, rosterDetail(result))
	return result, nil
}

func (s *EventService) ArchiveEvent(ctx context.Context, id int64) error {
	return s.setArchived(ctx, id, true)
}

func (s *EventService) UnarchiveEvent(ctx context.Context, id int64) error {
	return s.setArchived(ctx, id, false)
}

func (s *EventService) setArchived(ctx context.Context, id int64, archived bool) error {
	if err := s.DB.SetArchived(ctx, id, archived); err != nil {
		return err
	}

	kind := models.ActivityUnarchived
	if archived {
		kind = models.ActivityArchived
	}
	s.Logger.Info("EVENTS", fmt.Sprintf("Tour event %d %s", id, kind))
	s.Activity.Notify(ctx, kind, entityEvent, id, "")
	return nil
}

func (s *EventService) DeleteTourist(ctx context.Context, id int64) error {
	if err := s.DB.DeleteTourist(ctx, id); err != nil {
		return err
	}
	s.Logger.Info("EVENTS", fmt.Sprintf("Deleted tourist %d", id))
	s.Activity.Notify(ctx, models.ActivityDeleted, "tourist", id, "")
	return nil
}

var eventColumns = []export.Column{
	{Key: "event_name", Label: "Event Name"},
	{Key: "tour", Label: "Tour"},
	{Key: "date_from", Label: "Date From"},
	{Key: "date_to", Label: "Date To"},
	{Key: "status", Label: "Status"},
}

func (s *EventService) ExportEvents(ctx context.Context, format export.Format, status models.EventStatus) (*export.File, error) {
	events, err := s.ListEvents(ctx, status)
	if err != nil {
		return nil, err
	}

	rows := make([]export.Row, 0, len(events))
	for _, e := range events {
		state := string(models.EventStatusActive)
		if e.Archived {
			state = string(models.EventStatusArchived)
		}
		rows = append(rows, export.Row{
			"event_name": e.EventName,
			"tour":       e.TourName(),
			"date_from":  utils.FormatDate(e.DateFrom),
			"date_to":    utils.FormatDate(e.DateTo),
			"status":     state,
		})
	}
	return export.Render(format, rows, eventColumns, "tour_events")
}

// EventVouchers renders a printable voucher for each tourist of the event.
func (s *EventService) EventVouchers(ctx context.Context, id int64) (*export.File, error) {
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(event.Tourists) == 0 {
		return nil, utils.NewValidationError("tourists", "This tour event has no tourists.")
	}

	data, err := s.Vouchers.Generate(*event)
	if err != nil {
		return nil, fmt.Errorf("failed to render vouchers for event %d: %w", id, err)
	}
	s.Logger.Info("EVENTS", fmt.Sprintf("Rendered %d vouchers for event %d", len(event.Tourists), id))
	return &export.File{
		Name:        fmt.Sprintf("vouchers_%d.pdf", id),
		ContentType: "application/pdf",
		Data:        data,
	}, nil
}

func parseRange(fromValue, toValue string) (from, to time.Time, err error) {
	from, err = utils.ParseDate(fromValue)
	if err != nil {
		return from, to, utils.NewValidationError("date_from", err.Error())
	}
	to, err = utils.ParseDate(toValue)
	if err != nil {
		return from, to, utils.NewValidationError("date_to", err.Error())
	}
	if to.Before(from) {
		return from, to, utils.NewValidationError("date_to", "End date must be on or after the start date.")
	}
	return from, to, nil
}

func rosterDetail(result *roster.Result) string {
	return strconv.Itoa(len(result.Added)) + " added, " + strconv.Itoa(len(result.Updated)) + " updated"
}
