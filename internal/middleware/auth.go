package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/innervoice/innervoice-go/internal/apperr"
	"github.com/innervoice/innervoice-go/internal/model"
)

// TokenVerifier resolves a bearer token to an identity.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*model.Identity, error)
}

// AuthFailureRecorder counts rejected requests by reason.
type AuthFailureRecorder interface {
	RecordAuthFailure(reason string)
}

// BearerAuth returns middleware that requires a valid Bearer token in the
// Authorization header. rec may be nil.
func BearerAuth(verifier TokenVerifier, rec AuthFailureRecorder) func(http.Handler) http.Handler {
	reject := func(w http.ResponseWriter, reason, msg string) {
		if rec != nil {
			rec.RecordAuthFailure(reason)
		}
		writeJSONError(w, http.StatusUnauthorized, msg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				reject(w, "missing", "Not authenticated")
				return
			}

			scheme, token, found := strings.Cut(authHeader, " ")
			token = strings.TrimSpace(token)
			if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
				reject(w, "format", "invalid authorization format")
				return
			}

			identity, err := verifier.Verify(r.Context(), token)
			if err != nil {
				msg := "Invalid token"
				var appErr *apperr.Error
				if errors.As(err, &appErr) && appErr.Kind == apperr.KindUnauthorized {
					msg = appErr.Message
				} else {
					slog.Error("token verification failed unexpectedly", "error", err)
				}
				reject(w, "invalid", msg)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
