package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/innervoice/innervoice-go/internal/apperr"
	"github.com/innervoice/innervoice-go/internal/model"
	"github.com/innervoice/innervoice-go/internal/repository"
)

// ProfileRepository is the profile storage used by ProfileService.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*model.Profile, error)
	Insert(ctx context.Context, profile model.Profile) (*model.Profile, error)
}

// ProfileService handles user profile business logic.
type ProfileService struct {
	repo ProfileRepository
}

// NewProfileService creates a new ProfileService.
func NewProfileService(repo ProfileRepository) *ProfileService {
	return &ProfileService{repo: repo}
}

// GetOrCreate returns the profile of user, creating it on first access.
// Concurrent first requests race on the insert; the loser reloads the row the
// winner created, relying on the store's primary key on user_id.
func (s *ProfileService) GetOrCreate(ctx context.Context, user model.Identity) (*model.Profile, error) {
	profile, err := s.repo.GetByUserID(ctx, user.ID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Internal(err)
	}

	newProfile := model.Profile{UserID: user.ID}
	if user.Email != "" {
		email := user.Email
		newProfile.Email = &email
	}

	created, err := s.repo.Insert(ctx, newProfile)
	switch {
	case err == nil:
		slog.Info("profile created", "user_id", user.ID)
		return created, nil
	case errors.Is(err, repository.ErrDuplicate):
		slog.Warn("profile created concurrently, reloading", "user_id", user.ID)
		existing, err := s.repo.GetByUserID(ctx, user.ID)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		return existing, nil
	case errors.Is(err, repository.ErrNoRowsReturned):
		return nil, apperr.Internal(errors.New("failed to create profile: no data returned after insert"))
	default:
		return nil, apperr.Internal(err)
	}
}
