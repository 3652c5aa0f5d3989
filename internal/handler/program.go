package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/innervoice/innervoice-go/internal/model"
)

// ProgramService is the program logic used by ProgramHandler.
type ProgramService interface {
	Create(ctx context.Context, in model.ProgramInput) (model.ProgramDetail, error)
	List(ctx context.Context) ([]model.Program, error)
	Get(ctx context.Context, programID string) (model.ProgramDetail, error)
	Update(ctx context.Context, programID string, in model.ProgramInput) (model.ProgramDetail, error)
}

// ProgramHandler handles HTTP requests for programs.
type ProgramHandler struct {
	service ProgramService
}

// NewProgramHandler creates a new ProgramHandler.
func NewProgramHandler(svc ProgramService) *ProgramHandler {
	return &ProgramHandler{service: svc}
}

// HandleCreate handles POST /api/programs requests.
func (h *ProgramHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in model.ProgramInput
	if !decodeJSON(w, r, &in) {
		return
	}

	program, err := h.service.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, "create_program", "Internal server error while creating program", err)
		return
	}

	writeJSON(w, http.StatusOK, program)
}

// HandleList handles GET /api/programs requests.
func (h *ProgramHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	programs, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, r, "list_programs", "Internal server error while fetching programs", err)
		return
	}

	writeJSON(w, http.StatusOK, programs)
}

// HandleGet handles GET /api/programs/{program_id} requests.
func (h *ProgramHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	program, err := h.service.Get(r.Context(), chi.URLParam(r, "program_id"))
	if err != nil {
		writeError(w, r, "get_program", "Internal server error while fetching program", err)
		return
	}

	writeJSON(w, http.StatusOK, program)
}

// HandleUpdate handles PATCH /api/programs/{program_id} requests.
func (h *ProgramHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var in model.ProgramInput
	if !decodeJSON(w, r, &in) {
		return
	}

	program, err := h.service.Update(r.Context(), chi.URLParam(r, "program_id"), in)
	if err != nil {
		writeError(w, r, "update_program", "Internal server error while updating program", err)
		return
	}

	writeJSON(w, http.StatusOK, program)
}
