package analytics

import (
	"context"
	"fmt"
	"time"

	"ms-tours/internal/logger"
	"ms-tours/internal/models"
)

const (
	DefaultListSize = 5
	MaxListSize     = 50
)

type OverviewDBLayer interface {
	GetCounts(ctx context.Context, now time.Time) (*Counts, error)
	GetUpcomingEvents(ctx context.Context, now time.Time, limit int) ([]EventSummary, error)
	GetRecentClients(ctx context.Context, limit int) ([]models.TouristWithEvent, error)
	GetTouristsByCountry(ctx context.Context) ([]CountryCount, error)
}

// Overview feeds the dashboard landing page.
type Overview struct {
	Counts            Counts                    `json:"counts"`
	UpcomingEvents    []EventSummary            `json:"upcoming_events"`
	RecentClients     []models.TouristWithEvent `json:"recent_clients"`
	TouristsByCountry []CountryCount            `json:"tourists_by_country"`
	GeneratedAt       time.Time                 `json:"generated_at"`
}

// Service handles analytics operations
type Service struct {
	DB     OverviewDBLayer
	Logger *logger.Logger
	Now    func() time.Time
}

func NewService(db OverviewDBLayer, log *logger.Logger) *Service {
	return &Service{DB: db, Logger: log, Now: time.Now}
}

// GetOverview gathers the dashboard cards. listSize bounds the event and
// client lists and is clamped to [1, MaxListSize].
func (s *Service) GetOverview(ctx context.Context, listSize int) (*Overview, error) {
	switch {
	case listSize <= 0:
		listSize = DefaultListSize
	case listSize > MaxListSize:
		listSize = MaxListSize
	}
	now := s.Now().UTC()

	counts, err := s.DB.GetCounts(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to count dashboard totals: %w", err)
	}
	upcoming, err := s.DB.GetUpcomingEvents(ctx, now, listSize)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch upcoming events: %w", err)
	}
	recent, err := s.DB.GetRecentClients(ctx, listSize)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent clients: %w", err)
	}
	byCountry, err := s.DB.GetTouristsByCountry(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to group tourists by country: %w", err)
	}

	s.Logger.Debug("ANALYTICS", fmt.Sprintf("Overview: %d tours, %d upcoming events, %d tourists",
		counts.ActiveTours, counts.UpcomingEvents, counts.Tourists))

	return &Overview{
		Counts:            *counts,
		UpcomingEvents:    upcoming,
		RecentClients:     recent,
		TouristsByCountry: byCountry,
		GeneratedAt:       now,
	}, nil
}
