package clients

import (
	"context"
	"fmt"

	"ms-tours/internal/export"
	"ms-tours/internal/logger"
	"ms-tours/internal/models"
)

// ExportFileName is the base name of client exports.
const ExportFileName = "Client_Export"

type ClientDBLayer interface {
	TouristsWithEvents(ctx context.Context) ([]models.TouristWithEvent, error)
}

// Criteria selects clients by exact country and event name. Empty fields
// match everything.
type Criteria struct {
	Country   string
	EventName string
}

func (f Criteria) Match(c models.TouristWithEvent) bool {
	if f.Country != "" && c.Country != f.Country {
		return false
	}
	if f.EventName != "" && c.EventName != f.EventName {
		return false
	}
	return true
}

// FilterOptions feed the dashboard dropdowns.
type FilterOptions struct {
	Countries  []string `json:"countries"`
	EventNames []string `json:"event_names"`
}

type ClientService struct {
	DB     ClientDBLayer
	Logger *logger.Logger
}

func NewClientService(db ClientDBLayer, log *logger.Logger) *ClientService {
	return &ClientService{DB: db, Logger: log}
}

func (s *ClientService) TouristsWithEvents(ctx context.Context) ([]models.TouristWithEvent, error) {
	clients, err := s.DB.TouristsWithEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tourists with events: %w", err)
	}
	return clients, nil
}

func (s *ClientService) Filter(ctx context.Context, country, eventName string) ([]models.TouristWithEvent, error) {
	all, err := s.TouristsWithEvents(ctx)
	if err != nil {
		return nil, err
	}
	return Apply(all, Criteria{Country: country, EventName: eventName}), nil
}

// Apply keeps the clients matching criteria in their original order.
func Apply(clients []models.TouristWithEvent, criteria Criteria) []models.TouristWithEvent {
	out := make([]models.TouristWithEvent, 0, len(clients))
	for _, c := range clients {
		if criteria.Match(c) {
			out = append(out, c)
		}
	}
	return out
}

// Options lists distinct countries and event names in first-seen order.
func Options(clients []models.TouristWithEvent) FilterOptions {
	opts := FilterOptions{Countries: []string{}, EventNames: []string{}}
	seenCountry := map[string]bool{}
	seenEvent := map[string]bool{}
	for _, c := range clients {
		if !seenCountry[c.Country] {
			seenCountry[c.Country] = true
			opts.Countries = append(opts.Countries, c.Country)
		}
		if !seenEvent[c.EventName] {
			seenEvent[c.EventName] = true
			opts.EventNames = append(opts.EventNames, c.EventName)
		}
	}
	return opts
}

func (s *ClientService) FilterOptions(ctx context.Context) (*FilterOptions, error) {
	all, err := s.TouristsWithEvents(ctx)
	if err != nil {
		return nil, err
	}
	opts := Options(all)
	return &opts, nil
}

var clientColumns = []export.Column{
	{Key: "name", Label: "Name"},
	{Key: "email", Label: "Email"},
	{Key: "country", Label: "Country"},
	{Key: "event_name", Label: "Tour Event"},
	{Key: "notes", Label: "Reviews"},
}

func (s *ClientService) Export(ctx context.Context, format export.Format, criteria Criteria) (*export.File, error) {
	clients, err := s.Filter(ctx, criteria.Country, criteria.EventName)
	if err != nil {
		return nil, err
	}

	rows := make([]export.Row, 0, len(clients))
	for _, c := range clients {
		rows = append(rows, export.Row{
			"name":       c.Name,
			"email":      c.Email,
			"country":    c.Country,
			"event_name": c.EventName,
			"notes":      c.Notes,
		})
	}
	s.Logger.Debug("CLIENTS", fmt.Sprintf("Exporting %d clients as %s", len(rows), format))
	return export.Render(format, rows, clientColumns, ExportFileName)
}
