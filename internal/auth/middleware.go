package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"ms-tours/internal/logger"
	"ms-tours/internal/models"
	"ms-tours/internal/utils"
)

type contextKey string

const userKey contextKey = "session_user"

// Middleware rejects requests without a valid, unrevoked bearer token and
// stores the session user in the request context. revocations may be nil.
func Middleware(verifier Verifier, revocations RevocationStore, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawToken, err := ExtractTokenFromRequest(r)
			if err != nil {
				unauthorized(w, err.Error())
				return
			}

			user, err := verifier.Verify(r.Context(), rawToken)
			if err != nil {
				log.LogSecurity("TOKEN_REJECTED", fmt.Sprintf("%s %s: %v", r.Method, r.URL.Path, err))
				unauthorized(w, err.Error())
				return
			}

			if revocations != nil {
				revoked, err := revocations.IsRevoked(r.Context(), user.TokenID)
				if err != nil {
					// an unreachable Redis must not lock operators out
					log.Warn("AUTH", fmt.Sprintf("Revocation check failed: %v", err))
				} else if revoked {
					log.LogSecurity("TOKEN_REVOKED", fmt.Sprintf("user=%s", user.ID))
					unauthorized(w, "token has been revoked")
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// StaticUser authenticates every request as the given operator. It is used
// when AUTH_DISABLED is set for local runs.
func StaticUser(userID string) func(http.Handler) http.Handler {
	user := &models.SessionUser{ID: userID, Role: "admin", ExpiresAt: time.Now().AddDate(10, 0, 0)}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func unauthorized(w http.ResponseWriter, reason string) {
	utils.WriteJSON(w, http.StatusUnauthorized, utils.ErrorResponse("Authentication required", reason))
}

func WithUser(ctx context.Context, user *models.SessionUser) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func User(ctx context.Context) *models.SessionUser {
	if user, ok := ctx.Value(userKey).(*models.SessionUser); ok {
		return user
	}
	return nil
}

// Helper to extract user ID in handlers and services
func UserID(ctx context.Context) string {
	if user := User(ctx); user != nil {
		return user.ID
	}
	return ""
}
