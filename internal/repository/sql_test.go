package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/innervoice/innervoice-go/internal/datastore"
	"github.com/innervoice/innervoice-go/internal/model"
)

const (
	testProgramID  = "3f1c2a8e-5b7d-4c1e-9a2f-0d6b8e4c7a11"
	testProviderID = "9b2e4f60-1d3a-4c5b-8e7f-2a6c0d9e1b34"
	testUserID     = "c7d8e9f0-a1b2-4c3d-8e5f-60718293a4b5"
)

func strPtr(s string) *string { return &s }

// programRow returns a programs row with every optional column NULL.
func programRow(id, name string) []driver.Value {
	row := make([]driver.Value, len(programColumns))
	row[0] = id
	row[1] = name
	return row
}

func profileRow(createdAt time.Time) []driver.Value {
	return []driver.Value{testUserID, "a@example.com", nil, createdAt}
}

var profileColumnNames = []string{"user_id", "email", "provider_id", "created_at"}

func TestProgramInsert_Returning(t *testing.T) {
	store, db := newFakeStore(t, datastore.Postgres, fakeStep{
		contains: "INSERT INTO programs (name, place_id) VALUES ($1, $2) RETURNING program_id",
		columns:  []string{"program_id"},
		rows:     [][]driver.Value{{testProgramID}},
	})

	id, err := NewProgramRepository(store).Insert(context.Background(), model.ProgramInput{
		Name:    strPtr("Food Relief"),
		PlaceID: strPtr(""),
	})
	if err != nil {
		t.Fatalf("Insert() unexpected error: %v", err)
	}
	if id != testProgramID {
		t.Errorf("id = %q, want %q", id, testProgramID)
	}
	if want := []driver.Value{"Food Relief", ""}; !reflect.DeepEqual(db.calls[0].args, want) {
		t.Errorf("args = %v, want %v", db.calls[0].args, want)
	}
}

func TestProgramInsert_ReturningNoRows(t *testing.T) {
	store, _ := newFakeStore(t, datastore.Postgres, fakeStep{
		contains: "RETURNING program_id",
		columns:  []string{"program_id"},
	})

	_, err := NewProgramRepository(store).Insert(context.Background(), model.ProgramInput{Name: strPtr("X")})
	if !errors.Is(err, ErrNoRowsReturned) {
		t.Errorf("Insert() error = %v, want ErrNoRowsReturned", err)
	}
}

func TestProgramInsert_MySQL(t *testing.T) {
	start := model.NewDate(2026, time.March, 1)
	repeat := 7
	store, db := newFakeStore(t, datastore.MySQL, fakeStep{
		contains: "INSERT INTO programs (program_id, name, start_date, repeat_interval) VALUES (?, ?, ?, ?)",
		affected: 1,
	})

	id, err := NewProgramRepository(store).Insert(context.Background(), model.ProgramInput{
		Name:           strPtr("Food Relief"),
		StartDate:      &start,
		RepeatInterval: &repeat,
	})
	if err != nil {
		t.Fatalf("Insert() unexpected error: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("generated id %q is not a uuid", id)
	}
	want := []driver.Value{id, "Food Relief", "2026-03-01", int64(7)}
	if !reflect.DeepEqual(db.calls[0].args, want) {
		t.Errorf("args = %v, want %v", db.calls[0].args, want)
	}
}

func TestProgramInsert_MySQLNoRowsAffected(t *testing.T) {
	store, _ := newFakeStore(t, datastore.MySQL, fakeStep{contains: "INSERT INTO programs", affected: 0})

	_, err := NewProgramRepository(store).Insert(context.Background(), model.ProgramInput{Name: strPtr("X")})
	if !errors.Is(err, ErrNoRowsReturned) {
		t.Errorf("Insert() error = %v, want ErrNoRowsReturned", err)
	}
}

func TestProgramUpdate(t *testing.T) {
	approved := true
	in := model.ProgramInput{IsApproved: &approved}

	tests := []struct {
		name    string
		dialect datastore.Dialect
		id      string
		steps   []fakeStep
		wantErr error
	}{
		{
			name:    "postgres row changed",
			dialect: datastore.Postgres,
			id:      testProgramID,
			steps: []fakeStep{
				{contains: "UPDATE programs SET is_approved = $1 WHERE program_id = $2", affected: 1},
			},
		},
		{
			name:    "mysql unchanged row still exists",
			dialect: datastore.MySQL,
			id:      "p-1",
			steps: []fakeStep{
				{contains: "UPDATE programs SET is_approved = ? WHERE program_id = ?", affected: 0},
				{contains: "SELECT 1 FROM programs WHERE program_id = ?", columns: []string{"1"}, rows: [][]driver.Value{{int64(1)}}},
			},
		},
		{
			name:    "mysql missing row",
			dialect: datastore.MySQL,
			id:      "p-404",
			steps: []fakeStep{
				{contains: "UPDATE programs", affected: 0},
				{contains: "SELECT 1 FROM programs", columns: []string{"1"}},
			},
			wantErr: ErrNotFound,
		},
		{
			name:    "postgres non-uuid id",
			dialect: datastore.Postgres,
			id:      "not-a-uuid",
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, db := newFakeStore(t, tt.dialect, tt.steps...)

			err := NewProgramRepository(store).Update(context.Background(), tt.id, in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Update() error = %v, want %v", err, tt.wantErr)
			}
			if len(tt.steps) > 0 {
				if want := []driver.Value{true, tt.id}; !reflect.DeepEqual(db.calls[0].args, want) {
					t.Errorf("args = %v, want %v", db.calls[0].args, want)
				}
			}
		})
	}
}

func TestProgramList(t *testing.T) {
	row := programRow(testProgramID, "Food Relief")
	row[3] = "" // description
	store, _ := newFakeStore(t, datastore.Postgres, fakeStep{
		contains: "FROM programs",
		columns:  programColumns,
		rows:     [][]driver.Value{row, programRow("5a0e9c1d-7b3f-4e2a-9c8d-1f2e3d4c5b6a", "Housing")},
	})

	programs, err := NewProgramRepository(store).List(context.Background())
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	if len(programs) != 2 {
		t.Fatalf("len = %d, want 2", len(programs))
	}
	if programs[0].Description == nil || *programs[0].Description != "" {
		t.Errorf("empty description should scan as \"\", got %v", programs[0].Description)
	}
	if programs[1].Description != nil || programs[1].ProviderID != nil {
		t.Errorf("NULL columns should scan as nil: %+v", programs[1])
	}
}

func TestProgramGetWithProvider(t *testing.T) {
	joined := func(providerID, providerName driver.Value) []driver.Value {
		row := programRow(testProgramID, "Food Relief")
		row[4] = time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC) // start_date
		row[14] = false                                                // is_approved
		return append(row, providerID, providerName)
	}
	columns := append(append([]string{}, programColumns...), "provider_id", "name")

	t.Run("with provider", func(t *testing.T) {
		row := joined(testProviderID, "Anglicare")
		row[13] = testProviderID
		store, db := newFakeStore(t, datastore.Postgres, fakeStep{
			contains: "LEFT JOIN providers pv ON pv.provider_id = p.provider_id",
			columns:  columns,
			rows:     [][]driver.Value{row},
		})

		rec, err := NewProgramRepository(store).GetWithProvider(context.Background(), testProgramID)
		if err != nil {
			t.Fatalf("GetWithProvider() unexpected error: %v", err)
		}
		if rec.Providers == nil || rec.Providers.Name != "Anglicare" {
			t.Errorf("Providers = %+v", rec.Providers)
		}
		if rec.StartDate == nil || rec.StartDate.String() != "2026-03-01" {
			t.Errorf("StartDate = %v", rec.StartDate)
		}
		if rec.IsApproved == nil || *rec.IsApproved {
			t.Errorf("IsApproved = %v, want false", rec.IsApproved)
		}
		if want := []driver.Value{testProgramID}; !reflect.DeepEqual(db.calls[0].args, want) {
			t.Errorf("args = %v", db.calls[0].args)
		}
	})

	t.Run("without provider", func(t *testing.T) {
		store, _ := newFakeStore(t, datastore.Postgres, fakeStep{
			contains: "FROM programs p",
			columns:  columns,
			rows:     [][]driver.Value{joined(nil, nil)},
		})

		rec, err := NewProgramRepository(store).GetWithProvider(context.Background(), testProgramID)
		if err != nil {
			t.Fatalf("GetWithProvider() unexpected error: %v", err)
		}
		if rec.Providers != nil {
			t.Errorf("Providers = %+v, want nil", rec.Providers)
		}
	})

	t.Run("absent", func(t *testing.T) {
		store, _ := newFakeStore(t, datastore.Postgres, fakeStep{contains: "FROM programs p", columns: columns})

		_, err := NewProgramRepository(store).GetWithProvider(context.Background(), testProgramID)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("GetWithProvider() error = %v, want ErrNotFound", err)
		}
	})
}

func TestProviderGetWithPrograms(t *testing.T) {
	columns := append([]string{"provider_id", "name", "description"}, programColumns...)
	row := func(program []driver.Value) []driver.Value {
		return append([]driver.Value{testProviderID, "Salvation Army", nil}, program...)
	}

	t.Run("folds joined rows", func(t *testing.T) {
		food := programRow(testProgramID, "Food Relief")
		food[10] = "0400 000 000" // phone
		housing := programRow("5a0e9c1d-7b3f-4e2a-9c8d-1f2e3d4c5b6a", "Housing")
		store, _ := newFakeStore(t, datastore.Postgres, fakeStep{
			contains: "LEFT JOIN programs g ON g.provider_id = pv.provider_id",
			columns:  columns,
			rows:     [][]driver.Value{row(food), row(housing)},
		})

		rec, err := NewProviderRepository(store).GetWithPrograms(context.Background(), testProviderID)
		if err != nil {
			t.Fatalf("GetWithPrograms() unexpected error: %v", err)
		}
		if rec.ProviderID != testProviderID || rec.Name != "Salvation Army" {
			t.Errorf("provider = %+v", rec.Provider)
		}
		if len(rec.Programs) != 2 || rec.Programs[0].Name != "Food Relief" || rec.Programs[1].Name != "Housing" {
			t.Errorf("programs = %+v", rec.Programs)
		}
	})

	t.Run("provider without programs", func(t *testing.T) {
		store, _ := newFakeStore(t, datastore.Postgres, fakeStep{
			contains: "FROM providers pv",
			columns:  columns,
			rows:     [][]driver.Value{row(make([]driver.Value, len(programColumns)))},
		})

		rec, err := NewProviderRepository(store).GetWithPrograms(context.Background(), testProviderID)
		if err != nil {
			t.Fatalf("GetWithPrograms() unexpected error: %v", err)
		}
		if len(rec.Programs) != 0 {
			t.Errorf("programs = %+v, want none", rec.Programs)
		}
	})

	t.Run("absent", func(t *testing.T) {
		store, _ := newFakeStore(t, datastore.Postgres, fakeStep{contains: "FROM providers pv", columns: columns})

		_, err := NewProviderRepository(store).GetWithPrograms(context.Background(), testProviderID)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("GetWithPrograms() error = %v, want ErrNotFound", err)
		}
	})
}

func TestProviderExists(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		store, _ := newFakeStore(t, datastore.Postgres, fakeStep{
			contains: "SELECT 1 FROM providers WHERE provider_id = $1",
			columns:  []string{"1"},
			rows:     [][]driver.Value{{int64(1)}},
		})
		ok, err := NewProviderRepository(store).Exists(context.Background(), testProviderID)
		if err != nil || !ok {
			t.Errorf("Exists() = %v, %v; want true, nil", ok, err)
		}
	})

	t.Run("missing", func(t *testing.T) {
		store, _ := newFakeStore(t, datastore.Postgres, fakeStep{contains: "FROM providers", columns: []string{"1"}})
		ok, err := NewProviderRepository(store).Exists(context.Background(), testProviderID)
		if err != nil || ok {
			t.Errorf("Exists() = %v, %v; want false, nil", ok, err)
		}
	})

	t.Run("empty id never queries", func(t *testing.T) {
		store, _ := newFakeStore(t, datastore.MySQL)
		ok, err := NewProviderRepository(store).Exists(context.Background(), "")
		if err != nil || ok {
			t.Errorf("Exists() = %v, %v; want false, nil", ok, err)
		}
	})
}

func TestProfileInsert_Duplicate(t *testing.T) {
	tests := []struct {
		name    string
		dialect datastore.Dialect
		err     error
	}{
		{"postgres unique_violation", datastore.Postgres, &pq.Error{Code: "23505", Message: "duplicate key value"}},
		{"mysql duplicate entry", datastore.MySQL, &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _ := newFakeStore(t, tt.dialect, fakeStep{contains: "INSERT INTO profiles", err: tt.err})

			_, err := NewProfileRepository(store).Insert(context.Background(), model.Profile{UserID: testUserID})
			if !errors.Is(err, ErrDuplicate) {
				t.Errorf("Insert() error = %v, want ErrDuplicate", err)
			}
		})
	}
}

func TestProfileInsert_Returning(t *testing.T) {
	created := time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)
	store, db := newFakeStore(t, datastore.Postgres, fakeStep{
		contains: "INSERT INTO profiles (user_id, email) VALUES ($1, $2) RETURNING user_id, email, provider_id, created_at",
		columns:  profileColumnNames,
		rows:     [][]driver.Value{profileRow(created)},
	})

	p, err := NewProfileRepository(store).Insert(context.Background(), model.Profile{UserID: testUserID, Email: strPtr("a@example.com")})
	if err != nil {
		t.Fatalf("Insert() unexpected error: %v", err)
	}
	if p.CreatedAt == nil || !p.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", p.CreatedAt, created)
	}
	if want := []driver.Value{testUserID, "a@example.com"}; !reflect.DeepEqual(db.calls[0].args, want) {
		t.Errorf("args = %v, want %v", db.calls[0].args, want)
	}
}

func TestProfileInsert_MySQLReloadsRow(t *testing.T) {
	created := time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)
	store, db := newFakeStore(t, datastore.MySQL,
		fakeStep{contains: "INSERT INTO profiles (user_id, email) VALUES (?, ?)", affected: 1},
		fakeStep{
			contains: "SELECT user_id, email, provider_id, created_at FROM profiles WHERE user_id = ?",
			columns:  profileColumnNames,
			rows:     [][]driver.Value{profileRow(created)},
		},
	)

	p, err := NewProfileRepository(store).Insert(context.Background(), model.Profile{UserID: testUserID})
	if err != nil {
		t.Fatalf("Insert() unexpected error: %v", err)
	}
	if p.UserID != testUserID || p.CreatedAt == nil || !p.CreatedAt.Equal(created) {
		t.Errorf("profile = %+v", p)
	}
	if db.calls[0].args[1] != nil {
		t.Errorf("nil email should be sent as NULL, got %v", db.calls[0].args[1])
	}
}

func TestProfileGetByUserID_NotFound(t *testing.T) {
	store, _ := newFakeStore(t, datastore.Postgres, fakeStep{contains: "FROM profiles", columns: profileColumnNames})

	_, err := NewProfileRepository(store).GetByUserID(context.Background(), testUserID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByUserID() error = %v, want ErrNotFound", err)
	}
}
