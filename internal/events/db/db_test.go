package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-tours/internal/database/dbtest"
	"ms-tours/internal/models"
	"ms-tours/internal/utils"
)

func TestListEventsByStatus(t *testing.T) {
	bunDB := dbtest.New(t)
	d := &DB{Bun: bunDB}
	ctx := context.Background()

	tour := dbtest.SeedTour(t, bunDB, "Plitvice Lakes")
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	late := dbtest.SeedEvent(t, bunDB, "Late June", &tour.ID, base.AddDate(0, 0, 20))
	early := dbtest.SeedEvent(t, bunDB, "Early June", nil, base)
	old := dbtest.SeedEvent(t, bunDB, "Last Year", &tour.ID, base.AddDate(-1, 0, 0))
	require.NoError(t, d.SetArchived(ctx, old.ID, true))

	active, err := d.ListEvents(ctx, models.EventStatusActive)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, early.ID, active[0].ID)
	assert.Equal(t, late.ID, active[1].ID)
	assert.Equal(t, "", active[0].TourName())
	assert.Equal(t, "Plitvice Lakes", active[1].TourName())

	archived, err := d.ListEvents(ctx, models.EventStatusArchived)
	require.NoError(t, err)
	require.Len(t, archived, 1)
	assert.Equal(t, old.ID, archived[0].ID)

	all, err := d.ListEvents(ctx, models.EventStatusAll)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestGetEventNotFound(t *testing.T) {
	d := &DB{Bun: dbtest.New(t)}

	_, err := d.GetEvent(context.Background(), 404)
	assert.ErrorIs(t, err, utils.ErrNotFound)

	err = d.SetArchived(context.Background(), 404, true)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestInsertAndUpsertTourists(t *testing.T) {
	bunDB := dbtest.New(t)
	d := &DB{Bun: bunDB}
	ctx := context.Background()

	event := dbtest.SeedEvent(t, bunDB, "Istria", nil, time.Now())
	seeded := dbtest.SeedTourists(t, bunDB, event.ID, "ana", "ivan")

	fresh := []models.Tourist{
		{Name: "marko", Country: "Slovenia", TourEventID: event.ID},
		{Name: "lea", TourEventID: event.ID},
	}
	require.NoError(t, d.InsertTourists(ctx, fresh))
	assert.NotZero(t, fresh[0].ID)
	assert.NotZero(t, fresh[1].ID)

	changed := seeded[0]
	changed.Name = "Ana Horvat"
	changed.Notes = "vegetarian"
	require.NoError(t, d.UpsertTourists(ctx, []models.Tourist{changed}))

	tourists, err := d.TouristsByEvent(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, tourists, 4)
	assert.Equal(t, "Ana Horvat", tourists[0].Name)
	assert.Equal(t, "vegetarian", tourists[0].Notes)
	assert.Equal(t, "ivan", tourists[1].Name)

	ids, err := d.TouristIDsByEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{seeded[0].ID, seeded[1].ID, fresh[0].ID, fresh[1].ID}, ids)
}

func TestEmptyBatchesAreNoops(t *testing.T) {
	d := &DB{Bun: dbtest.New(t)}

	assert.NoError(t, d.InsertTourists(context.Background(), nil))
	assert.NoError(t, d.UpsertTourists(context.Background(), []models.Tourist{}))
}

func TestDeleteTourist(t *testing.T) {
	bunDB := dbtest.New(t)
	d := &DB{Bun: bunDB}
	ctx := context.Background()

	event := dbtest.SeedEvent(t, bunDB, "Dubrovnik", nil, time.Now())
	seeded := dbtest.SeedTourists(t, bunDB, event.ID, "ana")

	require.NoError(t, d.DeleteTourist(ctx, seeded[0].ID))
	assert.ErrorIs(t, d.DeleteTourist(ctx, seeded[0].ID), utils.ErrNotFound)
}

func TestTouristsWithEvents(t *testing.T) {
	bunDB := dbtest.New(t)
	d := &DB{Bun: bunDB}

	first := dbtest.SeedEvent(t, bunDB, "Split", nil, time.Now())
	second := dbtest.SeedEvent(t, bunDB, "Zadar", nil, time.Now())
	dbtest.SeedTourists(t, bunDB, first.ID, "ana")
	dbtest.SeedTourists(t, bunDB, second.ID, "ivan")

	rows, err := d.TouristsWithEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "ana", rows[0].Name)
	assert.Equal(t, "Split", rows[0].EventName)
	assert.Equal(t, "ana@example.com", rows[0].Email)
	assert.Equal(t, "Zadar", rows[1].EventName)
}
