package event_api

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the tour event and tourist routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/events", func(r chi.Router) {
		r.Get("/", h.ListEvents)
		r.Post("/", h.CreateEvent)
		r.Get("/export", h.ExportEvents)
		r.Get("/{eventId}", h.GetEvent)
		r.Put("/{eventId}/tourists", h.UpdateRoster)
		r.Get("/{eventId}/vouchers", h.EventVouchers)
		r.Post("/{eventId}/archive", h.ArchiveEvent)
		r.Post("/{eventId}/unarchive", h.UnarchiveEvent)
	})
	r.Delete("/tourists/{touristId}", h.DeleteTourist)
}
