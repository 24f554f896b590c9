package tours

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"ms-tours/internal/activity"
	"ms-tours/internal/export"
	"ms-tours/internal/logger"
	"ms-tours/internal/models"
	"ms-tours/internal/tours/qr"
	"ms-tours/internal/utils"
)

const (
	entityTour = "tour"

	// DeleteInUseMessage tells the operator what to do when a tour still has events.
	DeleteInUseMessage = "This tour is used by tour events; archive it instead."
)

var numericQuery = regexp.MustCompile(`^-?\d*(\.\d+)?$`)

type TourDBLayer interface {
	ListTours(ctx context.Context, archived bool) ([]models.Tour, error)
	GetTour(ctx context.Context, id int64) (*models.Tour, error)
	GetToursByIDs(ctx context.Context, ids []int64) ([]models.Tour, error)
	SearchByName(ctx context.Context, fragment string) ([]models.Tour, error)
	CreateTour(ctx context.Context, tour *models.Tour) error
	UpdateTour(ctx context.Context, tour *models.Tour) error
	DeleteTour(ctx context.Context, id int64) error
	SetArchived(ctx context.Context, id int64, archived bool) error
}

// CatalogCache stores the public catalog between reads.
type CatalogCache interface {
	Get(ctx context.Context) ([]models.CatalogTour, bool, error)
	Set(ctx context.Context, tours []models.CatalogTour) error
	Invalidate(ctx context.Context) error
}

type TourService struct {
	DB       TourDBLayer
	Cache    CatalogCache
	Activity *activity.Notifier
	Logger   *logger.Logger
}

// NewTourService accepts a nil cache, in which case the catalog is read from
// the database every time.
func NewTourService(db TourDBLayer, cache CatalogCache, notifier *activity.Notifier, log *logger.Logger) *TourService {
	return &TourService{DB: db, Cache: cache, Activity: notifier, Logger: log}
}

func (s *TourService) ListTours(ctx context.Context) ([]models.Tour, error) {
	tours, err := s.DB.ListTours(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list tours: %w", err)
	}
	return tours, nil
}

func (s *TourService) ListArchivedTours(ctx context.Context) ([]models.Tour, error) {
	tours, err := s.DB.ListTours(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list archived tours: %w", err)
	}
	return tours, nil
}

func (s *TourService) GetTour(ctx context.Context, id int64) (*models.Tour, error) {
	return s.DB.GetTour(ctx, id)
}

// SearchTours treats a numeric query as an id lookup and anything else as a
// case-insensitive name fragment. A blank query lists the active tours.
func (s *TourService) SearchTours(ctx context.Context, query string) ([]models.Tour, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.ListTours(ctx)
	}

	if numericQuery.MatchString(query) {
		id, err := strconv.ParseInt(query, 10, 64)
		if err != nil {
			return []models.Tour{}, nil
		}
		return s.DB.GetToursByIDs(ctx, []int64{id})
	}

	tours, err := s.DB.SearchByName(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search tours: %w", err)
	}
	return tours, nil
}

func (s *TourService) CreateTour(ctx context.Context, tour *models.Tour) error {
	normalize(tour)
	if err := utils.ValidateStruct(tour); err != nil {
		return err
	}

	tour.ID = 0
	tour.Archived = false
	if err := s.DB.CreateTour(ctx, tour); err != nil {
		return fmt.Errorf("failed to create tour: %w", err)
	}

	s.Logger.Info("TOURS", fmt.Sprintf("Created tour %d %q", tour.ID, tour.Name))
	s.catalogChanged(ctx)
	s.Activity.Notify(ctx, models.ActivityCreated, entityTour, tour.ID, tour.Name)
	return nil
}

func (s *TourService) UpdateTour(ctx context.Context, id int64, tour *models.Tour) error {
	normalize(tour)
	if err := utils.ValidateStruct(tour); err != nil {
		return err
	}

	tour.ID = id
	if err := s.DB.UpdateTour(ctx, tour); err != nil {
		return err
	}

	s.Logger.Info("TOURS", fmt.Sprintf("Updated tour %d", id))
	s.catalogChanged(ctx)
	s.Activity.Notify(ctx, models.ActivityUpdated, entityTour, id, tour.Name)
	return nil
}

// DeleteTour refuses tours that tour events still point at.
func (s *TourService) DeleteTour(ctx context.Context, id int64) error {
	if err := s.DB.DeleteTour(ctx, id); err != nil {
		return utils.TranslateDeleteError(err, DeleteInUseMessage)
	}

	s.Logger.Info("TOURS", fmt.Sprintf("Deleted tour %d", id))
	s.catalogChanged(ctx)
	s.Activity.Notify(ctx, models.ActivityDeleted, entityTour, id, "")
	return nil
}

func (s *TourService) ArchiveTour(ctx context.Context, id int64) error {
	return s.setArchived(ctx, id, true)
}

func (s *TourService) UnarchiveTour(ctx context.Context, id int64) error {
	return s.setArchived(ctx, id, false)
}

func (s *TourService) setArchived(ctx context.Context, id int64, archived bool) error {
	if err := s.DB.SetArchived(ctx, id, archived); err != nil {
		return err
	}

	kind := models.ActivityUnarchived
	if archived {
		kind = models.ActivityArchived
	}
	s.Logger.Info("TOURS", fmt.Sprintf("Tour %d %s", id, kind))
	s.catalogChanged(ctx)
	s.Activity.Notify(ctx, kind, entityTour, id, "")
	return nil
}

// PublicCatalog returns the active tours shown on the globe page.
func (s *TourService) PublicCatalog(ctx context.Context) ([]models.CatalogTour, error) {
	if s.Cache != nil {
		cached, hit, err := s.Cache.Get(ctx)
		if err != nil {
			s.Logger.Warn("REDIS", fmt.Sprintf("Catalog cache read failed: %v", err))
		} else if hit {
			return cached, nil
		}
	}

	tours, err := s.ListTours(ctx)
	if err != nil {
		return nil, err
	}
	catalog := make([]models.CatalogTour, 0, len(tours))
	for _, t := range tours {
		catalog = append(catalog, t.Catalog())
	}

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, catalog); err != nil {
			s.Logger.Warn("REDIS", fmt.Sprintf("Catalog cache write failed: %v", err))
		}
	}
	return catalog, nil
}

// TourQRCode encodes the tour's TripAdvisor link as a PNG.
func (s *TourService) TourQRCode(ctx context.Context, id int64, size int) ([]byte, error) {
	tour, err := s.DB.GetTour(ctx, id)
	if err != nil {
		return nil, err
	}
	if tour.Archived {
		return nil, fmt.Errorf("tour %d is archived: %w", id, utils.ErrNotFound)
	}
	if tour.TripAdvisorLink == "" {
		return nil, fmt.Errorf("tour %d has no TripAdvisor link: %w", id, utils.ErrNotFound)
	}

	png, err := qr.Encode(tour.TripAdvisorLink, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code for tour %d: %w", id, err)
	}
	return png, nil
}

var tourColumns = []export.Column{
	{Key: "name", Label: "Name"},
	{Key: "description", Label: "Description"},
	{Key: "latitude", Label: "Latitude"},
	{Key: "longitude", Label: "Longitude"},
	{Key: "photo_urls", Label: "Photo URLs"},
	{Key: "price", Label: "Price"},
	{Key: "tripadvisor_link", Label: "TripAdvisor Link"},
}

// ExportTours exports the selected tours, or every active tour when the
// selection matches none.
func (s *TourService) ExportTours(ctx context.Context, format export.Format, ids []int64) (*export.File, error) {
	selected, err := s.DB.GetToursByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load selected tours: %w", err)
	}
	if len(selected) == 0 {
		if selected, err = s.ListTours(ctx); err != nil {
			return nil, err
		}
	}

	rows := make([]export.Row, 0, len(selected))
	for _, t := range selected {
		rows = append(rows, export.Row{
			"name":             t.Name,
			"description":      t.Description,
			"latitude":         t.Latitude,
			"longitude":        t.Longitude,
			"photo_urls":       strings.Join(t.PhotoURLs, ", "),
			"price":            t.Price,
			"tripadvisor_link": t.TripAdvisorLink,
		})
	}
	return export.Render(format, rows, tourColumns, "tours")
}

func (s *TourService) catalogChanged(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(ctx); err != nil {
		s.Logger.Warn("REDIS", fmt.Sprintf("Catalog cache invalidation failed: %v", err))
	}
}

// normalize drops blank photo URLs left over from the dashboard form.
func normalize(tour *models.Tour) {
	tour.Name = strings.TrimSpace(tour.Name)
	photos := make([]string, 0, len(tour.PhotoURLs))
	for _, u := range tour.PhotoURLs {
		if u = strings.TrimSpace(u); u != "" {
			photos = append(photos, u)
		}
	}
	tour.PhotoURLs = photos
}
