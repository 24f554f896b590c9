package clients

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-tours/internal/database/dbtest"
	eventsdb "ms-tours/internal/events/db"
	"ms-tours/internal/export"
	"ms-tours/internal/logger"
	"ms-tours/internal/models"
)

var sample = []models.TouristWithEvent{
	{Name: "Ana", Country: "Croatia", EventName: "Krka"},
	{Name: "Jan", Country: "Slovenia", EventName: "Krka"},
	{Name: "Eva", Country: "Croatia", EventName: "Hvar"},
	{Name: "Tom", Country: "Germany", EventName: "Hvar"},
}

type staticDB struct {
	rows []models.TouristWithEvent
	err  error
}

func (s staticDB) TouristsWithEvents(context.Context) ([]models.TouristWithEvent, error) {
	return s.rows, s.err
}

func names(clients []models.TouristWithEvent) []string {
	out := []string{}
	for _, c := range clients {
		out = append(out, c.Name)
	}
	return out
}

func TestApply(t *testing.T) {
	assert.Equal(t, []string{"Ana", "Jan", "Eva", "Tom"}, names(Apply(sample, Criteria{})))
	assert.Equal(t, []string{"Ana", "Eva"}, names(Apply(sample, Criteria{Country: "Croatia"})))
	assert.Equal(t, []string{"Eva"}, names(Apply(sample, Criteria{Country: "Croatia", EventName: "Hvar"})))
	assert.Empty(t, Apply(sample, Criteria{Country: "croatia"}))
}

func TestOptionsKeepFirstSeenOrder(t *testing.T) {
	opts := Options(sample)
	assert.Equal(t, []string{"Croatia", "Slovenia", "Germany"}, opts.Countries)
	assert.Equal(t, []string{"Krka", "Hvar"}, opts.EventNames)

	empty := Options(nil)
	assert.NotNil(t, empty.Countries)
	assert.Empty(t, empty.Countries)
}

func TestExportFilteredClients(t *testing.T) {
	svc := NewClientService(staticDB{rows: sample}, logger.NewDiscard())

	file, err := svc.Export(context.Background(), export.FormatCSV, Criteria{EventName: "Krka"})
	require.NoError(t, err)
	assert.Equal(t, "Client_Export.csv", file.Name)

	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(string(file.Data), "\uFEFF")), "\r\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Name,Email,Country,Tour Event,Reviews", lines[0])
	assert.Equal(t, "Ana,,Croatia,Krka,", lines[1])
}

func TestFilterWrapsStorageError(t *testing.T) {
	svc := NewClientService(staticDB{err: errors.New("timeout")}, logger.NewDiscard())

	_, err := svc.Filter(context.Background(), "", "")
	assert.EqualError(t, err, "failed to fetch tourists with events: timeout")
}

func TestClientsFromDatabase(t *testing.T) {
	bunDB := dbtest.New(t)
	event := dbtest.SeedEvent(t, bunDB, "Krka", nil, time.Now())
	dbtest.SeedTourists(t, bunDB, event.ID, "ana", "ivo")

	svc := NewClientService(&eventsdb.DB{Bun: bunDB}, logger.NewDiscard())
	opts, err := svc.FilterOptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Croatia"}, opts.Countries)
	assert.Equal(t, []string{"Krka"}, opts.EventNames)
}
