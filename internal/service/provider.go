package service

import (
	"context"
	"errors"

	"github.com/innervoice/innervoice-go/internal/apperr"
	"github.com/innervoice/innervoice-go/internal/model"
	"github.com/innervoice/innervoice-go/internal/repository"
)

// ProviderRepository is the provider storage used by ProviderService.
type ProviderRepository interface {
	List(ctx context.Context) ([]model.Provider, error)
	GetWithPrograms(ctx context.Context, providerID string) (*model.ProviderRecord, error)
}

// ProviderService handles provider reads.
type ProviderService struct {
	repo ProviderRepository
}

// NewProviderService creates a new ProviderService.
func NewProviderService(repo ProviderRepository) *ProviderService {
	return &ProviderService{repo: repo}
}

// List returns all provider rows as stored.
func (s *ProviderService) List(ctx context.Context) ([]model.Provider, error) {
	providers, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return providers, nil
}

// Get returns a provider with the id and name of each of its programs.
func (s *ProviderService) Get(ctx context.Context, providerID string) (model.ProviderWithPrograms, error) {
	rec, err := s.repo.GetWithPrograms(ctx, providerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.ProviderWithPrograms{}, apperr.NotFound("Provider with ID %s not found", providerID)
		}
		return model.ProviderWithPrograms{}, apperr.Internal(err)
	}
	return ShapeProvider(*rec), nil
}
