package event_api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"ms-tours/internal/events/roster"
	events "ms-tours/internal/events/service"
	"ms-tours/internal/export"
	"ms-tours/internal/logger"
	"ms-tours/internal/models"
	"ms-tours/internal/utils"
)

type EventService interface {
	ListEvents(ctx context.Context, status models.EventStatus) ([]models.TourEvent, error)
	GetEvent(ctx context.Context, id int64) (*models.TourEventWithTourists, error)
	CreateEvent(ctx context.Context, input events.CreateEventInput) (*events.EventWithRoster, error)
	UpdateRoster(ctx context.Context, eventID int64, tourists []models.Tourist) (*roster.Result, error)
	ArchiveEvent(ctx context.Context, id int64) error
	UnarchiveEvent(ctx context.Context, id int64) error
	DeleteTourist(ctx context.Context, id int64) error
	ExportEvents(ctx context.Context, format export.Format, status models.EventStatus) (*export.File, error)
	EventVouchers(ctx context.Context, id int64) (*export.File, error)
}

type Handler struct {
	Service EventService
	Logger  *logger.Logger
}

func NewHandler(service EventService, log *logger.Logger) *Handler {
	return &Handler{Service: service, Logger: log}
}

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	status, ok := models.ParseEventStatus(r.URL.Query().Get("status"))
	if !ok {
		utils.WriteError(w, "Error fetching tour events", utils.NewValidationError("status", "must be active, archived or all"))
		return
	}

	list, err := h.Service.ListEvents(r.Context(), status)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListEvents: %v", err))
		utils.WriteError(w, "Error fetching tour events", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Tour events retrieved", list))
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "eventId")
	if err != nil {
		utils.WriteError(w, "Error fetching tour event", err)
		return
	}

	event, err := h.Service.GetEvent(r.Context(), id)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetEvent: eventId=%d: %v", id, err))
		utils.WriteError(w, "Error fetching tour event", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Tour event retrieved", event))
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var input events.CreateEventInput
	if err := utils.DecodeJSON(r, &input); err != nil {
		utils.WriteError(w, "Error creating tour event", err)
		return
	}
	h.Logger.Debug("API", fmt.Sprintf("CreateEvent: %q with %d tourists", input.EventName, len(input.Tourists)))

	out, err := h.Service.CreateEvent(r.Context(), input)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateEvent: %v", err))
		h.writeRosterError(w, "Error creating tour event", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Tour event created", out))
}

// UpdateRoster expects {"tourists": [...]}. Tourists carrying an id of this
// event are updated, the rest are added.
func (h *Handler) UpdateRoster(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "eventId")
	if err != nil {
		utils.WriteError(w, "Error updating tourists", err)
		return
	}

	var body struct {
		Tourists []models.Tourist `json:"tourists"`
	}
	if err := utils.DecodeJSON(r, &body); err != nil {
		utils.WriteError(w, "Error updating tourists", err)
		return
	}

	result, err := h.Service.UpdateRoster(r.Context(), id, body.Tourists)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateRoster: eventId=%d: %v", id, err))
		h.writeRosterError(w, "Error updating tourists", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Tourists saved", result))
}

func (h *Handler) ArchiveEvent(w http.ResponseWriter, r *http.Request) {
	h.toggleArchive(w, r, true)
}

func (h *Handler) UnarchiveEvent(w http.ResponseWriter, r *http.Request) {
	h.toggleArchive(w, r, false)
}

func (h *Handler) toggleArchive(w http.ResponseWriter, r *http.Request, archive bool) {
	action, apply := "unarchive", h.Service.UnarchiveEvent
	if archive {
		action, apply = "archive", h.Service.ArchiveEvent
	}

	id, err := utils.PathID(r, "eventId")
	if err != nil {
		utils.WriteError(w, "Error trying to "+action+" tour event", err)
		return
	}
	if err := apply(r.Context(), id); err != nil {
		h.Logger.Error("API", fmt.Sprintf("%s event %d: %v", action, id, err))
		utils.WriteError(w, "Error trying to "+action+" tour event", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Tour event "+action+"d", map[string]int64{"id": id}))
}

func (h *Handler) DeleteTourist(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "touristId")
	if err != nil {
		utils.WriteError(w, "Error deleting tourist", err)
		return
	}
	if err := h.Service.DeleteTourist(r.Context(), id); err != nil {
		h.Logger.Error("API", fmt.Sprintf("DeleteTourist: touristId=%d: %v", id, err))
		utils.WriteError(w, "Error deleting tourist", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Tourist deleted", map[string]int64{"id": id}))
}

func (h *Handler) ExportEvents(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		utils.WriteError(w, "Error exporting tour events", err)
		return
	}
	status, ok := models.ParseEventStatus(r.URL.Query().Get("status"))
	if !ok {
		utils.WriteError(w, "Error exporting tour events", utils.NewValidationError("status", "must be active, archived or all"))
		return
	}

	file, err := h.Service.ExportEvents(r.Context(), format, status)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ExportEvents: %v", err))
		utils.WriteError(w, "Error exporting tour events", err)
		return
	}
	utils.WriteFile(w, file.Name, file.ContentType, file.Data)
}

func (h *Handler) EventVouchers(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "eventId")
	if err != nil {
		utils.WriteError(w, "Error generating vouchers", err)
		return
	}

	file, err := h.Service.EventVouchers(r.Context(), id)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("EventVouchers: eventId=%d: %v", id, err))
		utils.WriteError(w, "Error generating vouchers", err)
		return
	}
	utils.WriteFile(w, file.Name, file.ContentType, file.Data)
}

// writeRosterError surfaces the operator message of a failed roster step.
func (h *Handler) writeRosterError(w http.ResponseWriter, fallback string, err error) {
	var rerr *roster.RosterError
	if errors.As(err, &rerr) {
		utils.WriteError(w, rerr.Message, err)
		return
	}
	utils.WriteError(w, fallback, err)
}
