package repository

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/innervoice/innervoice-go/internal/datastore"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrNoRowsReturned means the store acknowledged a write without returning the row.
	ErrNoRowsReturned = errors.New("write returned no rows")
	ErrDuplicate      = errors.New("record already exists")
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// qualify prefixes each column with the table alias.
func qualify(alias string, cols []string) string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = alias + "." + c
	}
	return strings.Join(out, ", ")
}

// canMatchKey reports whether id can be a primary key value in the store.
// Native uuid columns reject other input with a type error rather than an
// empty result.
func canMatchKey(d datastore.Dialect, id string) bool {
	if id == "" {
		return false
	}
	if !d.UUIDKeys {
		return true
	}
	_, err := uuid.Parse(id)
	return err == nil
}
