package analytics_api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ms-tours/internal/analytics"
	"ms-tours/internal/logger"
	"ms-tours/internal/utils"
)

// Handler handles analytics HTTP endpoints
type Handler struct {
	Service *analytics.Service
	Logger  *logger.Logger
}

func NewHandler(service *analytics.Service, logger *logger.Logger) *Handler {
	return &Handler{Service: service, Logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard/overview", h.GetOverview)
}

// GetOverview serves GET /dashboard/overview?limit=
func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			utils.WriteError(w, "Invalid limit", utils.NewValidationError("limit", "limit must be a number"))
			return
		}
		limit = n
	}

	overview, err := h.Service.GetOverview(r.Context(), limit)
	if err != nil {
		h.Logger.Error("ANALYTICS", fmt.Sprintf("GetOverview: %v", err))
		utils.WriteError(w, "Failed to load dashboard overview", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Overview retrieved", overview))
}
