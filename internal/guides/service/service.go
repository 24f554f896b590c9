package guides

import (
	"context"
	"fmt"
	"strings"

	"ms-tours/internal/activity"
	"ms-tours/internal/logger"
	"ms-tours/internal/models"
	"ms-tours/internal/utils"
)

const entityGuide = "guide"

// DeleteInUseMessage is shown when a guide row is still referenced.
const DeleteInUseMessage = "This guide is still referenced by other records and cannot be deleted."

type GuideDBLayer interface {
	ListGuides(ctx context.Context) ([]models.Guide, error)
	GetGuide(ctx context.Context, id int64) (*models.Guide, error)
	CreateGuide(ctx context.Context, guide *models.Guide) error
	UpdateGuide(ctx context.Context, guide *models.Guide) error
	DeleteGuide(ctx context.Context, id int64) error
}

type GuideService struct {
	DB       GuideDBLayer
	Activity *activity.Notifier
	Logger   *logger.Logger
}

func NewGuideService(db GuideDBLayer, notifier *activity.Notifier, log *logger.Logger) *GuideService {
	return &GuideService{DB: db, Activity: notifier, Logger: log}
}

func (s *GuideService) ListGuides(ctx context.Context) ([]models.Guide, error) {
	guides, err := s.DB.ListGuides(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list guides: %w", err)
	}
	return guides, nil
}

func (s *GuideService) GetGuide(ctx context.Context, id int64) (*models.Guide, error) {
	return s.DB.GetGuide(ctx, id)
}

func (s *GuideService) CreateGuide(ctx context.Context, guide *models.Guide) error {
	trim(guide)
	if err := utils.ValidateStruct(guide); err != nil {
		return err
	}

	guide.ID = 0
	if err := s.DB.CreateGuide(ctx, guide); err != nil {
		return fmt.Errorf("failed to create guide: %w", err)
	}
	s.Logger.Info("GUIDES", fmt.Sprintf("Created guide %d %q", guide.ID, guide.Name))
	s.Activity.Notify(ctx, models.ActivityCreated, entityGuide, guide.ID, guide.Name)
	return nil
}

func (s *GuideService) UpdateGuide(ctx context.Context, id int64, guide *models.Guide) error {
	trim(guide)
	if err := utils.ValidateStruct(guide); err != nil {
		return err
	}

	guide.ID = id
	if err := s.DB.UpdateGuide(ctx, guide); err != nil {
		return err
	}
	s.Logger.Info("GUIDES", fmt.Sprintf("Updated guide %d", id))
	s.Activity.Notify(ctx, models.ActivityUpdated, entityGuide, id, guide.Name)
	return nil
}

func (s *GuideService) DeleteGuide(ctx context.Context, id int64) error {
	if err := s.DB.DeleteGuide(ctx, id); err != nil {
		return utils.TranslateDeleteError(err, DeleteInUseMessage)
	}
	s.Logger.Info("GUIDES", fmt.Sprintf("Deleted guide %d", id))
	s.Activity.Notify(ctx, models.ActivityDeleted, entityGuide, id, "")
	return nil
}

func trim(g *models.Guide) {
	g.Name = strings.TrimSpace(g.Name)
	g.Email = strings.TrimSpace(g.Email)
	g.PhoneNumber = strings.ReplaceAll(strings.TrimSpace(g.PhoneNumber), " ", "")
}
