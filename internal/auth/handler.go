package auth

import (
	"errors"
	"fmt"
	"net/http"

	"ms-tours/internal/logger"
	"ms-tours/internal/utils"
)

// Handler serves the session endpoints used by the dashboard header.
type Handler struct {
	Revocations RevocationStore
	Logger      *logger.Logger
}

func NewHandler(revocations RevocationStore, log *logger.Logger) *Handler {
	return &Handler{Revocations: revocations, Logger: log}
}

func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	user := User(r.Context())
	if user == nil {
		unauthorized(w, "no session")
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Session retrieved", user))
}

// SignOut revokes the caller's token until it expires.
func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	user := User(r.Context())
	if user == nil {
		unauthorized(w, "no session")
		return
	}
	if h.Revocations == nil {
		h.Logger.Error("AUTH", "SignOut: token revocation is not configured")
		utils.WriteError(w, "Error signing out", errors.New("token revocation is not configured"))
		return
	}

	if err := h.Revocations.Revoke(r.Context(), user.TokenID, user.ExpiresAt); err != nil {
		h.Logger.Error("AUTH", fmt.Sprintf("SignOut: failed to revoke token for user %s: %v", user.ID, err))
		utils.WriteError(w, "Error signing out", err)
		return
	}

	h.Logger.LogSecurity("SIGN_OUT", fmt.Sprintf("user=%s", user.ID))
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Signed out", nil))
}
