// Package datastore is the client for the hosted relational store and its
// identity service. A client is bound to one privilege scope.
package datastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

// Scope is the privilege level a client was created with.
type Scope string

const (
	// ScopeUser uses the public (anon) key and reduced database role.
	ScopeUser Scope = "user"
	// ScopeService uses the service-role key and elevated database role.
	ScopeService Scope = "service"
)

// ErrNoDatabase is returned by DB-backed calls on a client opened without a DSN.
var ErrNoDatabase = errors.New("datastore: client has no database connection")

// Options configures a Client.
type Options struct {
	Scope  Scope
	Driver string
	// DSN is optional; a client without one can still resolve identities.
	DSN string
	// URL is the base URL of the hosted service, e.g. https://xyz.supabase.co.
	URL    string
	APIKey string

	AuthTimeout     time.Duration
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	HTTPClient *http.Client
}

// Client is a handle to the hosted store for one privilege scope.
type Client struct {
	scope   Scope
	db      *sql.DB
	dialect Dialect
	baseURL string
	apiKey  string
	http    *http.Client
}

// Open creates a client and, when a DSN is configured, its connection pool.
func Open(ctx context.Context, opts Options) (*Client, error) {
	dialect, err := DialectFor(opts.Driver)
	if err != nil {
		return nil, err
	}

	var db *sql.DB
	if opts.DSN != "" {
		dsn, err := DriverDSN(dialect, opts.DSN)
		if err != nil {
			return nil, err
		}
		db, err = sql.Open(dialect.DriverName, dsn)
		if err != nil {
			return nil, fmt.Errorf("open %s database: %w", opts.Scope, err)
		}

		db.SetMaxOpenConns(valueOr(opts.MaxOpenConns, 25))
		db.SetMaxIdleConns(valueOr(opts.MaxIdleConns, 5))
		db.SetConnMaxLifetime(valueOr(opts.ConnMaxLifetime, 5*time.Minute))

		if err := db.PingContext(ctx); err != nil {
			slog.Warn("database ping failed, continuing", "scope", opts.Scope, "error", err)
		}
	}

	return NewClient(db, dialect, opts), nil
}

// NewClient wraps an existing pool. db may be nil.
func NewClient(db *sql.DB, dialect Dialect, opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: valueOr(opts.AuthTimeout, 10*time.Second)}
	}

	return &Client{
		scope:   opts.Scope,
		db:      db,
		dialect: dialect,
		baseURL: strings.TrimRight(opts.URL, "/"),
		apiKey:  opts.APIKey,
		http:    httpClient,
	}
}

// Scope returns the privilege scope of the client.
func (c *Client) Scope() Scope { return c.scope }

// Dialect returns the SQL dialect of the underlying database.
func (c *Client) Dialect() Dialect { return c.dialect }

// DB returns the connection pool, or ErrNoDatabase.
func (c *Client) DB() (*sql.DB, error) {
	if c.db == nil {
		return nil, ErrNoDatabase
	}
	return c.db, nil
}

// Ping checks the database connection.
func (c *Client) Ping(ctx context.Context) error {
	db, err := c.DB()
	if err != nil {
		return err
	}
	return db.PingContext(ctx)
}

// Close releases the connection pool.
func (c *Client) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// DriverDSN returns dsn adjusted for the dialect's driver. MySQL connections
// always scan DATE and TIMESTAMP columns into time.Time.
func DriverDSN(d Dialect, dsn string) (string, error) {
	if d.Name != MySQL.Name {
		return dsn, nil
	}

	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

func valueOr[T comparable](v, fallback T) T {
	var zero T
	if v == zero {
		return fallback
	}
	return v
}
