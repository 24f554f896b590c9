package vouchers

import (
	"bytes"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-tours/internal/models"
)

var (
	pageObject  = regexp.MustCompile(`/Type\s*/Page[^s]`)
	imageObject = regexp.MustCompile(`/Subtype\s*/Image`)
)

func sampleEvent(link string) models.TourEventWithTourists {
	from := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	return models.TourEventWithTourists{
		TourEvent: models.TourEvent{
			ID:        3,
			EventName: "Krka July",
			DateFrom:  from,
			DateTo:    from.AddDate(0, 0, 2),
			Tour:      &models.Tour{Name: "Krka Waterfalls", TripAdvisorLink: link},
		},
		Tourists: []models.Tourist{
			{ID: 1, Name: "Ana", Country: "Croatia"},
			{ID: 2, Name: "Jürgen", Email: "j@example.com", Country: "Germany"},
		},
	}
}

func TestGenerateOnePagePerTourist(t *testing.T) {
	data, err := NewGenerator().Generate(sampleEvent("https://www.tripadvisor.com/krka"))
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	assert.Len(t, pageObject.FindAll(data, -1), 2)
	assert.True(t, imageObject.Match(data))
}

func TestGenerateWithoutLinkSkipsQRCode(t *testing.T) {
	data, err := NewGenerator().Generate(sampleEvent(""))
	require.NoError(t, err)
	assert.False(t, imageObject.Match(data))
	assert.Len(t, pageObject.FindAll(data, -1), 2)
}

func TestGenerateRejectsEmptyRoster(t *testing.T) {
	event := sampleEvent("")
	event.Tourists = nil

	_, err := NewGenerator().Generate(event)
	assert.ErrorContains(t, err, "has no tourists")
}
