package handler

import (
	"net/http"

	"github.com/innervoice/innervoice-go/internal/model"
)

// HandleRoot handles GET / requests.
func HandleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Hello World"})
}

// HandleHealth handles GET /healthz requests. It does not touch the store.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
