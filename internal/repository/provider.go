package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/innervoice/innervoice-go/internal/datastore"
	"github.com/innervoice/innervoice-go/internal/model"
)

// ProviderRepository handles provider persistence operations.
type ProviderRepository struct {
	store *datastore.Client
}

// NewProviderRepository creates a new ProviderRepository.
func NewProviderRepository(store *datastore.Client) *ProviderRepository {
	return &ProviderRepository{store: store}
}

// Exists reports whether a provider with the given id exists.
func (r *ProviderRepository) Exists(ctx context.Context, providerID string) (bool, error) {
	db, err := r.store.DB()
	if err != nil {
		return false, err
	}
	d := r.store.Dialect()
	if !canMatchKey(d, providerID) {
		return false, nil
	}

	var one int
	err = db.QueryRowContext(ctx, d.Rebind(`SELECT 1 FROM providers WHERE provider_id = ?`), providerID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check provider %s: %w", providerID, err)
	}

	return true, nil
}

// List returns every provider row.
func (r *ProviderRepository) List(ctx context.Context) ([]model.Provider, error) {
	db, err := r.store.DB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT provider_id, name, description FROM providers`)
	if err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	defer rows.Close()

	providers := []model.Provider{}
	for rows.Next() {
		var p model.Provider
		if err := rows.Scan(&p.ProviderID, &p.Name, &p.Description); err != nil {
			return nil, fmt.Errorf("scan provider: %w", err)
		}
		providers = append(providers, p)
	}

	return providers, rows.Err()
}

// GetWithPrograms retrieves a provider joined with the rows of its programs.
func (r *ProviderRepository) GetWithPrograms(ctx context.Context, providerID string) (*model.ProviderRecord, error) {
	db, err := r.store.DB()
	if err != nil {
		return nil, err
	}
	d := r.store.Dialect()
	if !canMatchKey(d, providerID) {
		return nil, ErrNotFound
	}

	query := `SELECT pv.provider_id, pv.name, pv.description, ` + qualify("g", programColumns) + `
		FROM providers pv
		LEFT JOIN programs g ON g.provider_id = pv.provider_id
		WHERE pv.provider_id = ?
		ORDER BY g.name`

	rows, err := db.QueryContext(ctx, d.Rebind(query), providerID)
	if err != nil {
		return nil, fmt.Errorf("get provider %s: %w", providerID, err)
	}
	defer rows.Close()

	var rec *model.ProviderRecord
	for rows.Next() {
		var pv model.Provider
		var g nullableProgram
		dest := append([]any{&pv.ProviderID, &pv.Name, &pv.Description}, g.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan provider: %w", err)
		}

		if rec == nil {
			rec = &model.ProviderRecord{Provider: pv}
		}
		if p, ok := g.program(); ok {
			rec.Programs = append(rec.Programs, p)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotFound
	}

	return rec, nil
}

// nullableProgram receives the program side of a LEFT JOIN, where every
// column, including the key and name, may be NULL.
type nullableProgram struct {
	model.Program
	id   *string
	name *string
}

func (n *nullableProgram) dest() []any {
	p := &n.Program
	return []any{
		&n.id, &n.name, &p.Category, &p.Description, &p.StartDate, &p.EndDate,
		&p.DateInterval, &p.RepeatInterval, &p.PlaceID, &p.Address, &p.Phone, &p.Email,
		&p.WebsiteURL, &p.ProviderID, &p.IsApproved,
	}
}

func (n *nullableProgram) program() (model.Program, bool) {
	if n.id == nil {
		return model.Program{}, false
	}
	p := n.Program
	p.ProgramID = *n.id
	if n.name != nil {
		p.Name = *n.name
	}
	return p, true
}
