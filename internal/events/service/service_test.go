package events_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ms-tours/internal/database/dbtest"
	eventsdb "ms-tours/internal/events/db"
	"ms-tours/internal/events/roster"
	events "ms-tours/internal/events/service"
	"ms-tours/internal/export"
	"ms-tours/internal/logger"
	"ms-tours/internal/models"
	"ms-tours/internal/utils"
)

type MockEventDB struct {
	mock.Mock
}

func (m *MockEventDB) ListEvents(ctx context.Context, status models.EventStatus) ([]models.TourEvent, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TourEvent), args.Error(1)
}

func (m *MockEventDB) GetEvent(ctx context.Context, id int64) (*models.TourEvent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TourEvent), args.Error(1)
}

func (m *MockEventDB) CreateEvent(ctx context.Context, event *models.TourEvent) error {
	args := m.Called(ctx, event)
	event.ID = 41
	return args.Error(0)
}

func (m *MockEventDB) SetArchived(ctx context.Context, id int64, archived bool) error {
	args := m.Called(ctx, id, archived)
	return args.Error(0)
}

func (m *MockEventDB) TouristsByEvent(ctx context.Context, eventID int64) ([]models.Tourist, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Tourist), args.Error(1)
}

func (m *MockEventDB) DeleteTourist(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockReconciler struct {
	mock.Mock
}

func (m *MockReconciler) Reconcile(ctx context.Context, eventID int64, submitted []models.Tourist) (*roster.Result, error) {
	args := m.Called(ctx, eventID, submitted)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*roster.Result), args.Error(1)
}

func newService(db events.EventDBLayer, r events.RosterReconciler) *events.EventService {
	return events.NewEventService(db, r, nil, logger.NewDiscard())
}

func TestCreateEventReconcilesUnderNewID(t *testing.T) {
	db := new(MockEventDB)
	rec := new(MockReconciler)
	ctx := context.Background()

	tourists := []models.Tourist{{Name: "Ana"}}
	db.On("CreateEvent", ctx, mock.AnythingOfType("*models.TourEvent")).Return(nil)
	rec.On("Reconcile", ctx, int64(41), tourists).Return(&roster.Result{EventID: 41, Added: tourists}, nil)

	out, err := newService(db, rec).CreateEvent(ctx, events.CreateEventInput{
		EventName: "Spring Istria",
		DateFrom:  "2025-04-01",
		DateTo:    "2025-04-05",
		Tourists:  tourists,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(41), out.Event.ID)
	assert.Equal(t, time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC), out.Event.DateTo)
	assert.Len(t, out.Roster.Added, 1)
	db.AssertExpectations(t)
	rec.AssertExpectations(t)
}

func TestCreateEventValidation(t *testing.T) {
	tests := []struct {
		name  string
		input events.CreateEventInput
		field string
	}{
		{"missing name", events.CreateEventInput{DateFrom: "2025-01-01", DateTo: "2025-01-02"}, "event_name"},
		{"bad date", events.CreateEventInput{EventName: "x", DateFrom: "01/01/2025", DateTo: "2025-01-02"}, "date_from"},
		{"reversed range", events.CreateEventInput{EventName: "x", DateFrom: "2025-01-05", DateTo: "2025-01-02"}, "date_to"},
		{"bad tourist email", events.CreateEventInput{
			EventName: "x", DateFrom: "2025-01-01", DateTo: "2025-01-02",
			Tourists: []models.Tourist{{Name: "a"}, {Name: "b", Email: "nope"}},
		}, "tourists[1].email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := new(MockEventDB)
			_, err := newService(db, new(MockReconciler)).CreateEvent(context.Background(), tt.input)

			var verr *utils.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Fields[0].Field)
			db.AssertNotCalled(t, "CreateEvent", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateEventKeepsEventWhenRosterFails(t *testing.T) {
	db := new(MockEventDB)
	rec := new(MockReconciler)
	ctx := context.Background()

	rerr := &roster.RosterError{EventID: 41, Step: roster.StepInsert, Message: "Error saving new tourists.", Err: errors.New("disk full")}
	db.On("CreateEvent", ctx, mock.Anything).Return(nil)
	rec.On("Reconcile", ctx, int64(41), mock.Anything).Return(nil, rerr)

	_, err := newService(db, rec).CreateEvent(ctx, events.CreateEventInput{EventName: "x", DateFrom: "2025-01-01", DateTo: "2025-01-01"})

	var got *roster.RosterError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, "Error saving new tourists.", got.Message)
	db.AssertNotCalled(t, "SetArchived", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateRosterRequiresEvent(t *testing.T) {
	db := new(MockEventDB)
	rec := new(MockReconciler)
	ctx := context.Background()

	db.On("GetEvent", ctx, int64(5)).Return(nil, utils.ErrNotFound)

	_, err := newService(db, rec).UpdateRoster(ctx, 5, []models.Tourist{{Name: "a"}})
	assert.ErrorIs(t, err, utils.ErrNotFound)
	rec.AssertNotCalled(t, "Reconcile", mock.Anything, mock.Anything, mock.Anything)
}

func TestArchiveAndUnarchive(t *testing.T) {
	db := new(MockEventDB)
	ctx := context.Background()
	db.On("SetArchived", ctx, int64(3), true).Return(nil)
	db.On("SetArchived", ctx, int64(3), false).Return(nil)

	svc := newService(db, new(MockReconciler))
	require.NoError(t, svc.ArchiveEvent(ctx, 3))
	require.NoError(t, svc.UnarchiveEvent(ctx, 3))
	db.AssertExpectations(t)
}

func TestExportEventsCSV(t *testing.T) {
	db := new(MockEventDB)
	ctx := context.Background()
	tourID := int64(2)
	db.On("ListEvents", ctx, models.EventStatusAll).Return([]models.TourEvent{
		{ID: 1, EventName: "Krka", DateFrom: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), DateTo: time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC), TourID: &tourID, Tour: &models.Tour{Name: "Waterfalls"}},
		{ID: 2, EventName: "Old", Archived: true},
	}, nil)

	file, err := newService(db, new(MockReconciler)).ExportEvents(ctx, export.FormatCSV, models.EventStatusAll)
	require.NoError(t, err)
	assert.Equal(t, "tour_events.csv", file.Name)
	assert.Contains(t, string(file.Data), "Event Name,Tour,Date From,Date To,Status\r\n")
	assert.Contains(t, string(file.Data), "Krka,Waterfalls,2025-05-01,2025-05-02,active\r\n")
	assert.Contains(t, string(file.Data), "Old,,,,archived\r\n")
}

// An archived event drops out of the default listing while its tourists stay
// reachable by event id.
func TestArchivedEventKeepsTourists(t *testing.T) {
	bunDB := dbtest.New(t)
	store := &eventsdb.DB{Bun: bunDB}
	svc := events.NewEventService(store, roster.NewReconciler(store, logger.NewDiscard()), nil, logger.NewDiscard())
	ctx := context.Background()

	created, err := svc.CreateEvent(ctx, events.CreateEventInput{
		EventName: "Brijuni",
		DateFrom:  "2025-07-01",
		DateTo:    "2025-07-03",
		Tourists:  []models.Tourist{{Name: "Ana", Email: "ana@example.com"}, {Name: "Ivo"}},
	})
	require.NoError(t, err)
	id := created.Event.ID

	require.NoError(t, svc.ArchiveEvent(ctx, id))

	active, err := svc.ListEvents(ctx, models.EventStatusActive)
	require.NoError(t, err)
	assert.Empty(t, active)

	event, err := svc.GetEvent(ctx, id)
	require.NoError(t, err)
	assert.True(t, event.Archived)
	assert.Len(t, event.Tourists, 2)

	_, err = svc.GetEvent(ctx, id+100)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestCreateEventUnknownTour(t *testing.T) {
	bunDB := dbtest.New(t)
	store := &eventsdb.DB{Bun: bunDB}
	svc := events.NewEventService(store, roster.NewReconciler(store, logger.NewDiscard()), nil, logger.NewDiscard())

	missing := int64(999)
	_, err := svc.CreateEvent(context.Background(), events.CreateEventInput{EventName: "x", DateFrom: "2025-01-01", DateTo: "2025-01-01", TourID: &missing})

	var verr *utils.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "tour_id", verr.Fields[0].Field)
}

func TestEventVouchers(t *testing.T) {
	db := new(MockEventDB)
	event := &models.TourEvent{ID: 5, EventName: "Krka"}
	db.On("GetEvent", mock.Anything, int64(5)).Return(event, nil)
	db.On("TouristsByEvent", mock.Anything, int64(5)).Return([]models.Tourist{{ID: 1, Name: "Ana"}}, nil)

	file, err := newService(db, nil).EventVouchers(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "vouchers_5.pdf", file.Name)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.NotEmpty(t, file.Data)
}

func TestEventVouchersEmptyRoster(t *testing.T) {
	db := new(MockEventDB)
	db.On("GetEvent", mock.Anything, int64(5)).Return(&models.TourEvent{ID: 5}, nil)
	db.On("TouristsByEvent", mock.Anything, int64(5)).Return([]models.Tourist{}, nil)

	_, err := newService(db, nil).EventVouchers(context.Background(), 5)
	var verr *utils.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "tourists", verr.Fields[0].Field)
}
