package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/innervoice/innervoice-go/internal/model"
)

// ProviderService is the provider logic used by ProviderHandler.
type ProviderService interface {
	List(ctx context.Context) ([]model.Provider, error)
	Get(ctx context.Context, providerID string) (model.ProviderWithPrograms, error)
}

// ProviderHandler handles HTTP requests for providers.
type ProviderHandler struct {
	service ProviderService
}

// NewProviderHandler creates a new ProviderHandler.
func NewProviderHandler(svc ProviderService) *ProviderHandler {
	return &ProviderHandler{service: svc}
}

// HandleList handles GET /api/providers requests.
func (h *ProviderHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	providers, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, r, "list_providers", "Internal server error while fetching providers", err)
		return
	}

	writeJSON(w, http.StatusOK, providers)
}

// HandleGet handles GET /api/providers/{provider_id} requests.
func (h *ProviderHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	provider, err := h.service.Get(r.Context(), chi.URLParam(r, "provider_id"))
	if err != nil {
		writeError(w, r, "get_provider", "Internal server error while fetching provider", err)
		return
	}

	writeJSON(w, http.StatusOK, provider)
}
