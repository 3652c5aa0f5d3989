package handler

import (
	"context"
	"net/http"

	"github.com/innervoice/innervoice-go/internal/middleware"
	"github.com/innervoice/innervoice-go/internal/model"
)

// ProfileService is the profile logic used by ProfileHandler.
type ProfileService interface {
	GetOrCreate(ctx context.Context, user model.Identity) (*model.Profile, error)
}

// ProfileHandler handles HTTP requests for the authenticated user.
type ProfileHandler struct {
	service ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(svc ProfileService) *ProfileHandler {
	return &ProfileHandler{service: svc}
}

// HandleProfile handles GET /api/profile requests.
func (h *ProfileHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("Not authenticated"))
		return
	}

	profile, err := h.service.GetOrCreate(r.Context(), *user)
	if err != nil {
		writeError(w, r, "get_profile", "An error occurred while fetching or creating the profile.", err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// HandleDebugAuth handles GET /api/debug-auth requests.
func (h *ProfileHandler) HandleDebugAuth(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("Not authenticated"))
		return
	}

	writeJSON(w, http.StatusOK, model.DebugAuthResponse{
		Message:      "Authentication successful!",
		UserID:       user.ID,
		Email:        user.Email,
		UserMetadata: user.UserMetadata,
	})
}
