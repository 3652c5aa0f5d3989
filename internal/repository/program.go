package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/innervoice/innervoice-go/internal/datastore"
	"github.com/innervoice/innervoice-go/internal/model"
)

var programColumns = []string{
	"program_id", "name", "category", "description", "start_date", "end_date",
	"date_interval", "repeat_interval", "place_id", "address", "phone", "email",
	"website_url", "provider_id", "is_approved",
}

// ProgramRepository handles program persistence operations.
type ProgramRepository struct {
	store *datastore.Client
}

// NewProgramRepository creates a new ProgramRepository.
func NewProgramRepository(store *datastore.Client) *ProgramRepository {
	return &ProgramRepository{store: store}
}

// List returns every program row without joins.
func (r *ProgramRepository) List(ctx context.Context) ([]model.Program, error) {
	db, err := r.store.DB()
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + strings.Join(programColumns, ", ") + ` FROM programs`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	defer rows.Close()

	programs := []model.Program{}
	for rows.Next() {
		var p model.Program
		if err := scanProgram(rows, &p); err != nil {
			return nil, fmt.Errorf("scan program: %w", err)
		}
		programs = append(programs, p)
	}

	return programs, rows.Err()
}

// GetWithProvider retrieves a program joined with its provider's id and name.
func (r *ProgramRepository) GetWithProvider(ctx context.Context, programID string) (*model.ProgramRecord, error) {
	db, err := r.store.DB()
	if err != nil {
		return nil, err
	}
	d := r.store.Dialect()
	if !canMatchKey(d, programID) {
		return nil, ErrNotFound
	}

	query := `SELECT ` + qualify("p", programColumns) + `, pv.provider_id, pv.name
		FROM programs p
		LEFT JOIN providers pv ON pv.provider_id = p.provider_id
		WHERE p.program_id = ?`

	rec := &model.ProgramRecord{}
	var providerID, providerName *string
	err = scanProgram(db.QueryRowContext(ctx, d.Rebind(query), programID), &rec.Program, &providerID, &providerName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get program %s: %w", programID, err)
	}

	if providerID != nil {
		rec.Providers = &model.ProviderRef{ProviderID: *providerID}
		if providerName != nil {
			rec.Providers.Name = *providerName
		}
	}

	return rec, nil
}

// Insert stores a new program with only the provided fields and returns its id.
// On dialects without RETURNING the id is generated here.
func (r *ProgramRepository) Insert(ctx context.Context, in model.ProgramInput) (string, error) {
	db, err := r.store.DB()
	if err != nil {
		return "", err
	}
	d := r.store.Dialect()

	fields := in.Fields()
	var id string
	if !d.Returning {
		id = uuid.NewString()
		fields = append([]model.Field{{Column: "program_id", Value: id}}, fields...)
	}

	cols, args := splitFields(fields)
	query := fmt.Sprintf(`INSERT INTO programs (%s) VALUES (%s)`,
		strings.Join(cols, ", "), datastore.Placeholders(len(cols)))

	if d.Returning {
		err := db.QueryRowContext(ctx, d.Rebind(query+` RETURNING program_id`), args...).Scan(&id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return "", ErrNoRowsReturned
			}
			return "", fmt.Errorf("insert program: %w", err)
		}
		return id, nil
	}

	result, err := db.ExecContext(ctx, d.Rebind(query), args...)
	if err != nil {
		return "", fmt.Errorf("insert program: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", ErrNoRowsReturned
	}

	return id, nil
}

// Update writes the provided fields to an existing program.
func (r *ProgramRepository) Update(ctx context.Context, programID string, in model.ProgramInput) error {
	db, err := r.store.DB()
	if err != nil {
		return err
	}
	d := r.store.Dialect()
	if !canMatchKey(d, programID) {
		return ErrNotFound
	}

	cols, args := splitFields(in.Fields())
	if len(cols) == 0 {
		return nil
	}
	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = c + ` = ?`
	}
	query := `UPDATE programs SET ` + strings.Join(sets, ", ") + ` WHERE program_id = ?`

	result, err := db.ExecContext(ctx, d.Rebind(query), append(args, programID)...)
	if err != nil {
		return fmt.Errorf("update program %s: %w", programID, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	// MySQL reports 0 affected rows when the values did not change.
	var one int
	err = db.QueryRowContext(ctx, d.Rebind(`SELECT 1 FROM programs WHERE program_id = ?`), programID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func scanProgram(s rowScanner, p *model.Program, extra ...any) error {
	dest := []any{
		&p.ProgramID, &p.Name, &p.Category, &p.Description, &p.StartDate, &p.EndDate,
		&p.DateInterval, &p.RepeatInterval, &p.PlaceID, &p.Address, &p.Phone, &p.Email,
		&p.WebsiteURL, &p.ProviderID, &p.IsApproved,
	}
	return s.Scan(append(dest, extra...)...)
}

func splitFields(fields []model.Field) ([]string, []any) {
	cols := make([]string, len(fields))
	args := make([]any, len(fields))
	for i, f := range fields {
		cols[i] = f.Column
		args[i] = f.Value
	}
	return cols, args
}
