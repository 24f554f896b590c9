package models

import (
	"time"
)

// SessionUser is the operator identity carried by a verified bearer token.
type SessionUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role,omitempty"`
	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}
