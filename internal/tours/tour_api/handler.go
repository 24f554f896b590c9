package tour_api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"ms-tours/internal/export"
	"ms-tours/internal/logger"
	"ms-tours/internal/models"
	"ms-tours/internal/utils"
)

type TourService interface {
	ListTours(ctx context.Context) ([]models.Tour, error)
	ListArchivedTours(ctx context.Context) ([]models.Tour, error)
	GetTour(ctx context.Context, id int64) (*models.Tour, error)
	SearchTours(ctx context.Context, query string) ([]models.Tour, error)
	CreateTour(ctx context.Context, tour *models.Tour) error
	UpdateTour(ctx context.Context, id int64, tour *models.Tour) error
	DeleteTour(ctx context.Context, id int64) error
	ArchiveTour(ctx context.Context, id int64) error
	UnarchiveTour(ctx context.Context, id int64) error
	PublicCatalog(ctx context.Context) ([]models.CatalogTour, error)
	TourQRCode(ctx context.Context, id int64, size int) ([]byte, error)
	ExportTours(ctx context.Context, format export.Format, ids []int64) (*export.File, error)
}

type Handler struct {
	Service TourService
	Logger  *logger.Logger
}

func NewHandler(service TourService, log *logger.Logger) *Handler {
	return &Handler{Service: service, Logger: log}
}

// RegisterRoutes mounts the dashboard tour routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/tours", func(r chi.Router) {
		r.Get("/", h.ListTours)
		r.Post("/", h.CreateTour)
		r.Get("/archived", h.ListArchivedTours)
		r.Get("/search", h.SearchTours)
		r.Get("/export", h.ExportTours)
		r.Get("/{tourId}", h.GetTour)
		r.Put("/{tourId}", h.UpdateTour)
		r.Delete("/{tourId}", h.DeleteTour)
		r.Post("/{tourId}/archive", h.ArchiveTour)
		r.Post("/{tourId}/unarchive", h.UnarchiveTour)
	})
}

// RegisterPublicRoutes mounts the unauthenticated globe page feed on r.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/tours", h.PublicCatalog)
	r.Get("/tours/{tourId}/qr", h.TourQRCode)
}

func (h *Handler) ListTours(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.ListTours(r.Context())
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListTours: %v", err))
		utils.WriteError(w, "Error fetching tours", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Tours retrieved", list))
}

func (h *Handler) ListArchivedTours(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.ListArchivedTours(r.Context())
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListArchivedTours: %v", err))
		utils.WriteError(w, "Error fetching archived tours", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Archived tours retrieved", list))
}

func (h *Handler) SearchTours(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.SearchTours(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("SearchTours: %v", err))
		utils.WriteError(w, "Failed to fetch tours. Please try again.", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Tours retrieved", list))
}

func (h *Handler) GetTour(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "tourId")
	if err != nil {
		utils.WriteError(w, "Error fetching tour", err)
		return
	}
	tour, err := h.Service.GetTour(r.Context(), id)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetTour: tourId=%d: %v", id, err))
		utils.WriteError(w, "Error fetching tour", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Tour retrieved", tour))
}

func (h *Handler) CreateTour(w http.ResponseWriter, r *http.Request) {
	var tour models.Tour
	if err := utils.DecodeJSON(r, &tour); err != nil {
		utils.WriteError(w, "Error adding tour", err)
		return
	}
	if err := h.Service.CreateTour(r.Context(), &tour); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateTour: %v", err))
		utils.WriteError(w, "Error adding tour", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Tour added successfully", tour))
}

func (h *Handler) UpdateTour(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "tourId")
	if err != nil {
		utils.WriteError(w, "Error updating tour", err)
		return
	}
	var tour models.Tour
	if err := utils.DecodeJSON(r, &tour); err != nil {
		utils.WriteError(w, "Error updating tour", err)
		return
	}
	if err := h.Service.UpdateTour(r.Context(), id, &tour); err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateTour: tourId=%d: %v", id, err))
		utils.WriteError(w, "Error updating tour", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Tour updated successfully", tour))
}

func (h *Handler) DeleteTour(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "tourId")
	if err != nil {
		utils.WriteError(w, "Error deleting tour", err)
		return
	}
	if err := h.Service.DeleteTour(r.Context(), id); err != nil {
		h.Logger.Error("API", fmt.Sprintf("DeleteTour: tourId=%d: %v", id, err))
		utils.WriteError(w, "Error deleting tour", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Tour deleted", map[string]int64{"id": id}))
}

func (h *Handler) ArchiveTour(w http.ResponseWriter, r *http.Request) {
	h.toggleArchive(w, r, "archive", h.Service.ArchiveTour)
}

func (h *Handler) UnarchiveTour(w http.ResponseWriter, r *http.Request) {
	h.toggleArchive(w, r, "unarchive", h.Service.UnarchiveTour)
}

func (h *Handler) toggleArchive(w http.ResponseWriter, r *http.Request, action string, apply func(context.Context, int64) error) {
	id, err := utils.PathID(r, "tourId")
	if err != nil {
		utils.WriteError(w, "Error trying to "+action+" tour", err)
		return
	}
	if err := apply(r.Context(), id); err != nil {
		h.Logger.Error("API", fmt.Sprintf("%s tour %d: %v", action, id, err))
		utils.WriteError(w, "Error trying to "+action+" tour", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Tour "+action+"d", map[string]int64{"id": id}))
}

// ExportTours accepts ids as a comma separated list, e.g. ?format=csv&ids=1,4,9.
func (h *Handler) ExportTours(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		utils.WriteError(w, "Error exporting tours", err)
		return
	}
	ids, err := parseIDList(r.URL.Query().Get("ids"))
	if err != nil {
		utils.WriteError(w, "Error exporting tours", err)
		return
	}

	file, err := h.Service.ExportTours(r.Context(), format, ids)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ExportTours: %v", err))
		utils.WriteError(w, "Error exporting tours", err)
		return
	}
	utils.WriteFile(w, file.Name, file.ContentType, file.Data)
}

func (h *Handler) PublicCatalog(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.Service.PublicCatalog(r.Context())
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("PublicCatalog: %v", err))
		utils.WriteError(w, "Error fetching tours", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Tours retrieved", catalog))
}

func (h *Handler) TourQRCode(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "tourId")
	if err != nil {
		utils.WriteError(w, "Error generating QR code", err)
		return
	}

	size := 0
	if raw := r.URL.Query().Get("size"); raw != "" {
		if size, err = strconv.Atoi(raw); err != nil || size < 64 || size > 1024 {
			utils.WriteError(w, "Error generating QR code", utils.NewValidationError("size", "must be between 64 and 1024"))
			return
		}
	}

	png, err := h.Service.TourQRCode(r.Context(), id, size)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("TourQRCode: tourId=%d: %v", id, err))
		utils.WriteError(w, "Error generating QR code", err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func parseIDList(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, utils.NewValidationError("ids", fmt.Sprintf("invalid tour id %q", part))
		}
		ids = append(ids, id)
	}
	return ids, nil
}
