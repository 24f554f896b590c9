package client_api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	clients "ms-tours/internal/clients/service"
	"ms-tours/internal/export"
	"ms-tours/internal/logger"
	"ms-tours/internal/models"
	"ms-tours/internal/utils"
)

type ClientService interface {
	Filter(ctx context.Context, country, eventName string) ([]models.TouristWithEvent, error)
	FilterOptions(ctx context.Context) (*clients.FilterOptions, error)
	Export(ctx context.Context, format export.Format, criteria clients.Criteria) (*export.File, error)
}

type Handler struct {
	Service ClientService
	Logger  *logger.Logger
}

func NewHandler(service ClientService, log *logger.Logger) *Handler {
	return &Handler{Service: service, Logger: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/clients", func(r chi.Router) {
		r.Get("/", h.ListClients)
		r.Get("/options", h.FilterOptions)
		r.Get("/export", h.ExportClients)
	})
}

func criteriaFrom(r *http.Request) clients.Criteria {
	q := r.URL.Query()
	return clients.Criteria{Country: q.Get("country"), EventName: q.Get("event")}
}

func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	criteria := criteriaFrom(r)
	list, err := h.Service.Filter(r.Context(), criteria.Country, criteria.EventName)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListClients: %v", err))
		utils.WriteError(w, "Failed to fetch tourists with events.", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Clients retrieved", list))
}

func (h *Handler) FilterOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.Service.FilterOptions(r.Context())
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("FilterOptions: %v", err))
		utils.WriteError(w, "Failed to fetch tourists with events.", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Filter options retrieved", opts))
}

func (h *Handler) ExportClients(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		utils.WriteError(w, "Error exporting clients", err)
		return
	}

	file, err := h.Service.Export(r.Context(), format, criteriaFrom(r))
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ExportClients: %v", err))
		utils.WriteError(w, "Error exporting clients", err)
		return
	}
	utils.WriteFile(w, file.Name, file.ContentType, file.Data)
}
