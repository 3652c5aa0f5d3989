package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/innervoice/innervoice-go/internal/datastore"
	"github.com/innervoice/innervoice-go/internal/model"
)

const profileColumns = `user_id, email, provider_id, created_at`

// ProfileRepository handles profile persistence operations.
type ProfileRepository struct {
	store *datastore.Client
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(store *datastore.Client) *ProfileRepository {
	return &ProfileRepository{store: store}
}

// GetByUserID retrieves the profile of an identity.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	db, err := r.store.DB()
	if err != nil {
		return nil, err
	}
	d := r.store.Dialect()
	if !canMatchKey(d, userID) {
		return nil, ErrNotFound
	}

	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = ?`

	p := &model.Profile{}
	err = db.QueryRowContext(ctx, d.Rebind(query), userID).Scan(&p.UserID, &p.Email, &p.ProviderID, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get profile %s: %w", userID, err)
	}

	return p, nil
}

// Insert creates a profile and returns the stored row. A profile that already
// exists for the user yields ErrDuplicate.
func (r *ProfileRepository) Insert(ctx context.Context, profile model.Profile) (*model.Profile, error) {
	db, err := r.store.DB()
	if err != nil {
		return nil, err
	}
	d := r.store.Dialect()

	query := `INSERT INTO profiles (user_id, email) VALUES (?, ?)`

	if d.Returning {
		p := &model.Profile{}
		err := db.QueryRowContext(ctx, d.Rebind(query+` RETURNING `+profileColumns), profile.UserID, profile.Email).
			Scan(&p.UserID, &p.Email, &p.ProviderID, &p.CreatedAt)
		if err != nil {
			return nil, classifyInsertError(err)
		}
		return p, nil
	}

	result, err := db.ExecContext(ctx, d.Rebind(query), profile.UserID, profile.Email)
	if err != nil {
		return nil, classifyInsertError(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNoRowsReturned
	}

	p, err := r.GetByUserID(ctx, profile.UserID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNoRowsReturned
	}
	return p, err
}

func classifyInsertError(err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return ErrNoRowsReturned
	case datastore.IsUniqueViolation(err):
		return ErrDuplicate
	default:
		return fmt.Errorf("insert profile: %w", err)
	}
}
