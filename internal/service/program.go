package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/innervoice/innervoice-go/internal/apperr"
	"github.com/innervoice/innervoice-go/internal/model"
	"github.com/innervoice/innervoice-go/internal/repository"
)

// ProgramRepository is the program storage used by ProgramService.
type ProgramRepository interface {
	List(ctx context.Context) ([]model.Program, error)
	GetWithProvider(ctx context.Context, programID string) (*model.ProgramRecord, error)
	Insert(ctx context.Context, in model.ProgramInput) (string, error)
	Update(ctx context.Context, programID string, in model.ProgramInput) error
}

// ProviderLookup checks that a referenced provider exists.
type ProviderLookup interface {
	Exists(ctx context.Context, providerID string) (bool, error)
}

// ProgramService handles program business logic.
type ProgramService struct {
	programs  ProgramRepository
	providers ProviderLookup
}

// NewProgramService creates a new ProgramService.
func NewProgramService(programs ProgramRepository, providers ProviderLookup) *ProgramService {
	return &ProgramService{programs: programs, providers: providers}
}

// Create validates and stores a new program, then returns it re-read with its
// provider name. A failure after the insert leaves the row in place.
func (s *ProgramService) Create(ctx context.Context, in model.ProgramInput) (model.ProgramDetail, error) {
	if err := validateProgramCreate(in); err != nil {
		return model.ProgramDetail{}, err
	}
	if err := s.checkProvider(ctx, in.ProviderID); err != nil {
		return model.ProgramDetail{}, err
	}

	id, err := s.programs.Insert(ctx, in)
	if err != nil {
		if errors.Is(err, repository.ErrNoRowsReturned) {
			return model.ProgramDetail{}, apperr.Internal(errors.New("program insert acknowledged without data"))
		}
		return model.ProgramDetail{}, apperr.Internal(err)
	}

	rec, err := s.programs.GetWithProvider(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.ProgramDetail{}, apperr.Internal(fmt.Errorf("created program %s not found on re-fetch", id))
		}
		return model.ProgramDetail{}, apperr.Internal(err)
	}

	slog.Info("program created", "program_id", id)
	return ShapeProgram(*rec), nil
}

// List returns all program rows as stored.
func (s *ProgramService) List(ctx context.Context) ([]model.Program, error) {
	programs, err := s.programs.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return programs, nil
}

// Get returns a program with its provider name.
func (s *ProgramService) Get(ctx context.Context, programID string) (model.ProgramDetail, error) {
	rec, err := s.programs.GetWithProvider(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.ProgramDetail{}, apperr.NotFound("Program with ID %s not found", programID)
		}
		return model.ProgramDetail{}, apperr.Internal(err)
	}
	return ShapeProgram(*rec), nil
}

// Update writes the provided fields of a program and returns the updated program.
func (s *ProgramService) Update(ctx context.Context, programID string, in model.ProgramInput) (model.ProgramDetail, error) {
	if err := validateProgramUpdate(in); err != nil {
		return model.ProgramDetail{}, err
	}
	if err := s.checkProvider(ctx, in.ProviderID); err != nil {
		return model.ProgramDetail{}, err
	}

	if err := s.programs.Update(ctx, programID, in); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.ProgramDetail{}, apperr.NotFound("Program with ID %s not found", programID)
		}
		return model.ProgramDetail{}, apperr.Internal(err)
	}

	slog.Info("program updated", "program_id", programID, "fields", len(in.Fields()))
	return s.Get(ctx, programID)
}

// checkProvider verifies a provided provider_id, including an explicit "",
// which can never reference a provider.
func (s *ProgramService) checkProvider(ctx context.Context, providerID *string) error {
	if providerID == nil {
		return nil
	}

	ok, err := s.providers.Exists(ctx, *providerID)
	if err != nil {
		return apperr.Internal(err)
	}
	if !ok {
		return apperr.ReferencedNotFound("Provider with ID %s not found", *providerID)
	}
	return nil
}

func validateProgramCreate(in model.ProgramInput) error {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return apperr.Validation("name is required", map[string]string{"name": "required"})
	}
	return validateProgramFields(in)
}

func validateProgramUpdate(in model.ProgramInput) error {
	if in.Empty() {
		return apperr.Validation("no fields to update", nil)
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return apperr.Validation("name must not be empty", map[string]string{"name": "required"})
	}
	return validateProgramFields(in)
}

func validateProgramFields(in model.ProgramInput) error {
	if in.RepeatInterval != nil && *in.RepeatInterval < 0 {
		return apperr.Validation("repeat_interval must not be negative",
			map[string]string{"repeat_interval": "must_be_positive"})
	}
	return nil
}
