package roster

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ms-tours/internal/database/dbtest"
	eventsdb "ms-tours/internal/events/db"
	"ms-tours/internal/logger"
	"ms-tours/internal/models"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) TouristIDsByEvent(ctx context.Context, eventID int64) ([]int64, error) {
	args := m.Called(ctx, eventID)
	if ids := args.Get(0); ids != nil {
		return ids.([]int64), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) InsertTourists(ctx context.Context, tourists []models.Tourist) error {
	args := m.Called(ctx, tourists)
	return args.Error(0)
}

func (m *MockStore) UpsertTourists(ctx context.Context, tourists []models.Tourist) error {
	args := m.Called(ctx, tourists)
	return args.Error(0)
}

func TestPartitionExample(t *testing.T) {
	submitted := []models.Tourist{{ID: 1, Name: "A"}, {Name: "B"}}

	toUpdate, toAdd := Partition(9, []int64{1, 2}, submitted)

	require.Len(t, toUpdate, 1)
	assert.Equal(t, int64(1), toUpdate[0].ID)
	assert.Equal(t, "A", toUpdate[0].Name)
	assert.Equal(t, int64(9), toUpdate[0].TourEventID)

	require.Len(t, toAdd, 1)
	assert.Equal(t, int64(0), toAdd[0].ID)
	assert.Equal(t, "B", toAdd[0].Name)
	assert.Equal(t, int64(9), toAdd[0].TourEventID)
}

func TestPartitionDropsForeignIDs(t *testing.T) {
	toUpdate, toAdd := Partition(3, []int64{10}, []models.Tourist{{ID: 77, Name: "stale"}})

	assert.Empty(t, toUpdate)
	require.Len(t, toAdd, 1)
	assert.Zero(t, toAdd[0].ID)
}

func TestPartitionCollapsesDuplicateIDs(t *testing.T) {
	submitted := []models.Tourist{{ID: 4, Name: "first"}, {ID: 5, Name: "other"}, {ID: 4, Name: "second"}}

	toUpdate, toAdd := Partition(1, []int64{4, 5}, submitted)

	assert.Empty(t, toAdd)
	require.Len(t, toUpdate, 2)
	assert.Equal(t, "second", toUpdate[0].Name)
	assert.Equal(t, "other", toUpdate[1].Name)
}

func TestPartitionIsTotalAndDisjoint(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 200; round++ {
		persisted := []int64{}
		for id := int64(1); id <= 20; id++ {
			if rng.Intn(2) == 0 {
				persisted = append(persisted, id)
			}
		}
		known := map[int64]bool{}
		for _, id := range persisted {
			known[id] = true
		}

		// unique ids so the duplicate collapse does not apply
		used := map[int64]bool{}
		submitted := []models.Tourist{}
		for i := 0; i < rng.Intn(15); i++ {
			id := int64(rng.Intn(25))
			if id != 0 && used[id] {
				continue
			}
			used[id] = true
			submitted = append(submitted, models.Tourist{ID: id, Name: "t"})
		}

		toUpdate, toAdd := Partition(1, persisted, submitted)
		require.Equal(t, len(submitted), len(toUpdate)+len(toAdd))

		for _, tourist := range toUpdate {
			assert.True(t, known[tourist.ID])
		}
		for _, tourist := range toAdd {
			assert.Zero(t, tourist.ID)
		}

		wantUpdates := 0
		for _, tourist := range submitted {
			if known[tourist.ID] {
				wantUpdates++
			}
		}
		assert.Equal(t, wantUpdates, len(toUpdate))
	}
}

func TestReconcileIssuesBothBatches(t *testing.T) {
	store := new(MockStore)
	ctx := context.Background()

	store.On("TouristIDsByEvent", ctx, int64(9)).Return([]int64{1, 2}, nil)
	store.On("InsertTourists", ctx, []models.Tourist{{Name: "B", TourEventID: 9}}).Return(nil)
	store.On("UpsertTourists", ctx, []models.Tourist{{ID: 1, Name: "A", TourEventID: 9}}).Return(nil)

	r := NewReconciler(store, logger.NewDiscard())
	result, err := r.Reconcile(ctx, 9, []models.Tourist{{ID: 1, Name: "A"}, {Name: "B"}})

	require.NoError(t, err)
	assert.Len(t, result.Added, 1)
	assert.Len(t, result.Updated, 1)
	store.AssertExpectations(t)
}

func TestReconcileSkipsEmptyBatches(t *testing.T) {
	store := new(MockStore)
	ctx := context.Background()
	store.On("TouristIDsByEvent", ctx, int64(2)).Return([]int64{}, nil)

	r := NewReconciler(store, logger.NewDiscard())
	result, err := r.Reconcile(ctx, 2, nil)

	require.NoError(t, err)
	assert.Empty(t, result.Added)
	assert.Empty(t, result.Updated)
	store.AssertNotCalled(t, "InsertTourists", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "UpsertTourists", mock.Anything, mock.Anything)
}

func TestReconcileFailureMessages(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection reset")

	tests := []struct {
		name    string
		setup   func(*MockStore)
		step    Step
		message string
	}{
		{
			name: "fetch",
			setup: func(s *MockStore) {
				s.On("TouristIDsByEvent", ctx, int64(5)).Return(nil, boom)
			},
			step:    StepFetch,
			message: "Error fetching existing tourists.",
		},
		{
			name: "insert",
			setup: func(s *MockStore) {
				s.On("TouristIDsByEvent", ctx, int64(5)).Return([]int64{1}, nil)
				s.On("InsertTourists", ctx, mock.Anything).Return(boom)
			},
			step:    StepInsert,
			message: "Error saving new tourists.",
		},
		{
			name: "update",
			setup: func(s *MockStore) {
				s.On("TouristIDsByEvent", ctx, int64(5)).Return([]int64{1}, nil)
				s.On("InsertTourists", ctx, mock.Anything).Return(nil)
				s.On("UpsertTourists", ctx, mock.Anything).Return(boom)
			},
			step:    StepUpdate,
			message: "Error updating existing tourists.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockStore)
			tt.setup(store)

			r := NewReconciler(store, logger.NewDiscard())
			_, err := r.Reconcile(ctx, 5, []models.Tourist{{ID: 1, Name: "A"}, {Name: "B"}})

			var rerr *RosterError
			require.ErrorAs(t, err, &rerr)
			assert.Equal(t, tt.step, rerr.Step)
			assert.Equal(t, tt.message, rerr.Message)
			assert.ErrorIs(t, err, boom)
		})
	}
}

func TestReconcileAgainstDatabase(t *testing.T) {
	bunDB := dbtest.New(t)
	store := &eventsdb.DB{Bun: bunDB}
	ctx := context.Background()

	event := dbtest.SeedEvent(t, bunDB, "Krka", nil, time.Now())
	other := dbtest.SeedEvent(t, bunDB, "Hvar", nil, time.Now())
	seeded := dbtest.SeedTourists(t, bunDB, event.ID, "one", "two")
	foreign := dbtest.SeedTourists(t, bunDB, other.ID, "elsewhere")

	r := NewReconciler(store, logger.NewDiscard())
	submitted := []models.Tourist{
		{ID: seeded[0].ID, Name: "One Renamed", Country: "Italy"},
		{Name: "three"},
		{ID: foreign[0].ID, Name: "copied"},
	}

	result, err := r.Reconcile(ctx, event.ID, submitted)
	require.NoError(t, err)
	assert.Len(t, result.Updated, 1)
	assert.Len(t, result.Added, 2)

	tourists, err := store.TouristsByEvent(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, tourists, 4)
	assert.Equal(t, "One Renamed", tourists[0].Name)
	assert.Equal(t, "two", tourists[1].Name)

	untouched, err := store.TouristsByEvent(ctx, other.ID)
	require.NoError(t, err)
	require.Len(t, untouched, 1)
	assert.Equal(t, "elsewhere", untouched[0].Name)

	// resubmitting the persisted roster changes nothing
	_, err = r.Reconcile(ctx, event.ID, tourists)
	require.NoError(t, err)
	again, err := store.TouristsByEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, tourists, again)
}
