package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/innervoice/innervoice-go/internal/datastore"
)

// fakeStep is the scripted answer to one statement. The statement must
// contain the given fragment.
type fakeStep struct {
	contains string
	columns  []string
	rows     [][]driver.Value
	affected int64
	err      error
}

type fakeCall struct {
	query string
	args  []driver.Value
}

// fakeDB is a database/sql connector that answers statements in order from
// a script and records what it was sent.
type fakeDB struct {
	mu    sync.Mutex
	steps []fakeStep
	calls []fakeCall
}

func newFakeStore(t *testing.T, d datastore.Dialect, steps ...fakeStep) (*datastore.Client, *fakeDB) {
	t.Helper()
	f := &fakeDB{steps: steps}
	db := sql.OpenDB(f)
	t.Cleanup(func() {
		db.Close()
		if len(f.steps) != 0 {
			t.Errorf("%d scripted statements were not executed", len(f.steps))
		}
	})
	return datastore.NewClient(db, d, datastore.Options{Scope: datastore.ScopeService}), f
}

func (f *fakeDB) next(query string, args []driver.NamedValue) (fakeStep, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	vals := make([]driver.Value, len(args))
	for i, a := range args {
		vals[i] = a.Value
	}
	f.calls = append(f.calls, fakeCall{query: query, args: vals})

	if len(f.steps) == 0 {
		return fakeStep{}, fmt.Errorf("unexpected statement: %s", query)
	}
	s := f.steps[0]
	f.steps = f.steps[1:]
	if !strings.Contains(query, s.contains) {
		return fakeStep{}, fmt.Errorf("statement %q does not contain %q", query, s.contains)
	}
	return s, nil
}

func (f *fakeDB) Connect(ctx context.Context) (driver.Conn, error) { return &fakeConn{db: f}, nil }
func (f *fakeDB) Driver() driver.Driver                           { return fakeDriver{} }

type fakeDriver struct{}

func (fakeDriver) Open(string) (driver.Conn, error) { return nil, errors.New("fake driver opens through its connector") }

type fakeConn struct {
	db *fakeDB
}

func (c *fakeConn) Prepare(query string) (driver.Stmt, error) {
	return nil, errors.New("prepared statements are not supported")
}

func (c *fakeConn) Close() error { return nil }

func (c *fakeConn) Begin() (driver.Tx, error) {
	return nil, errors.New("transactions are not supported")
}

func (c *fakeConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	s, err := c.db.next(query, args)
	if err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	return &fakeRows{columns: s.columns, rows: s.rows}, nil
}

func (c *fakeConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	s, err := c.db.next(query, args)
	if err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	return driver.RowsAffected(s.affected), nil
}

type fakeRows struct {
	columns []string
	rows    [][]driver.Value
	pos     int
}

func (r *fakeRows) Columns() []string { return r.columns }
func (r *fakeRows) Close() error      { return nil }

func (r *fakeRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.pos])
	r.pos++
	return nil
}
