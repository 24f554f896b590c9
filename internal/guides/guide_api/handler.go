package guide_api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ms-tours/internal/logger"
	"ms-tours/internal/models"
	"ms-tours/internal/utils"
)

type GuideService interface {
	ListGuides(ctx context.Context) ([]models.Guide, error)
	GetGuide(ctx context.Context, id int64) (*models.Guide, error)
	CreateGuide(ctx context.Context, guide *models.Guide) error
	UpdateGuide(ctx context.Context, id int64, guide *models.Guide) error
	DeleteGuide(ctx context.Context, id int64) error
}

type Handler struct {
	Service GuideService
	Logger  *logger.Logger
}

func NewHandler(service GuideService, log *logger.Logger) *Handler {
	return &Handler{Service: service, Logger: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/guides", func(r chi.Router) {
		r.Get("/", h.ListGuides)
		r.Post("/", h.CreateGuide)
		r.Get("/{guideId}", h.GetGuide)
		r.Put("/{guideId}", h.UpdateGuide)
		r.Delete("/{guideId}", h.DeleteGuide)
	})
}

func (h *Handler) ListGuides(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.ListGuides(r.Context())
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListGuides: %v", err))
		utils.WriteError(w, "Error fetching guides", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Guides retrieved", list))
}

func (h *Handler) GetGuide(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "guideId")
	if err != nil {
		utils.WriteError(w, "Error fetching guide", err)
		return
	}
	guide, err := h.Service.GetGuide(r.Context(), id)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetGuide: guideId=%d: %v", id, err))
		utils.WriteError(w, "Error fetching guide", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Guide retrieved", guide))
}

func (h *Handler) CreateGuide(w http.ResponseWriter, r *http.Request) {
	var guide models.Guide
	if err := utils.DecodeJSON(r, &guide); err != nil {
		utils.WriteError(w, "Error creating guide", err)
		return
	}
	if err := h.Service.CreateGuide(r.Context(), &guide); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateGuide: %v", err))
		utils.WriteError(w, "Error creating guide", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Guide created", guide))
}

func (h *Handler) UpdateGuide(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "guideId")
	if err != nil {
		utils.WriteError(w, "Error updating guide", err)
		return
	}
	var guide models.Guide
	if err := utils.DecodeJSON(r, &guide); err != nil {
		utils.WriteError(w, "Error updating guide", err)
		return
	}
	if err := h.Service.UpdateGuide(r.Context(), id, &guide); err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateGuide: guideId=%d: %v", id, err))
		utils.WriteError(w, "Error updating guide", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Guide updated", guide))
}

func (h *Handler) DeleteGuide(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "guideId")
	if err != nil {
		utils.WriteError(w, "Error deleting guide", err)
		return
	}
	if err := h.Service.DeleteGuide(r.Context(), id); err != nil {
		h.Logger.Error("API", fmt.Sprintf("DeleteGuide: guideId=%d: %v", id, err))
		utils.WriteError(w, "Error deleting guide", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Guide deleted", map[string]int64{"id": id}))
}
