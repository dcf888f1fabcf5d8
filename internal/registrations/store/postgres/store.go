// Package postgres reads registrations directly from the backing Postgres table.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"regadmin/internal/registrations/models"
	"regadmin/internal/registrations/store"
)

// Name identifies this source in logs, metrics and traces.
const Name = "postgres"

// listQuery returns every column of every row as JSON so the schema can drift
// without breaking the page.
const listQuery = `
	SELECT row_to_json(r)::text
	FROM registrations r
	ORDER BY r.created_at DESC
`

type dbQuerier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	PingContext(ctx context.Context) error
}

// Store queries the registrations table over database/sql with the pgx driver.
type Store struct {
	db dbQuerier
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Name() string {
	return Name
}

// ListRegistrations returns all rows, newest first.
func (s *Store) ListRegistrations(ctx context.Context) ([]*models.Registration, error) {
	rows, err := s.db.QueryContext(ctx, listQuery)
	if err != nil {
		return nil, classify(err, "query registrations")
	}
	defer rows.Close()

	out := []*models.Registration{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, store.NewFetchError(store.ErrorBadData, Name, "scan registration", err)
		}
		var reg models.Registration
		if err := json.Unmarshal([]byte(raw), &reg); err != nil {
			return nil, store.NewFetchError(store.ErrorBadData, Name, "decode registration", err)
		}
		out = append(out, &reg)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "iterate registrations")
	}
	return out, nil
}

// Health pings the database.
func (s *Store) Health(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return classify(err, "ping database")
	}
	return nil
}

// classify maps driver errors onto fetch categories using Postgres SQLSTATE classes.
func classify(err error, msg string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return store.NewFetchError(store.ErrorTimeout, Name, msg, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "42P01":
			return store.NewFetchError(store.ErrorNotFound, Name, msg, err)
		case pgErr.Code == "42501" || strings.HasPrefix(pgErr.Code, "28"):
			return store.NewFetchError(store.ErrorAuthentication, Name, msg, err)
		case pgErr.Code == "57014":
			return store.NewFetchError(store.ErrorTimeout, Name, msg, err)
		case pgErr.Code == "53300":
			return store.NewFetchError(store.ErrorRateLimited, Name, msg, err)
		case strings.HasPrefix(pgErr.Code, "08") || strings.HasPrefix(pgErr.Code, "57"):
			return store.NewFetchError(store.ErrorOutage, Name, msg, err)
		default:
			return store.NewFetchError(store.ErrorBadData, Name, msg, err)
		}
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return store.NewFetchError(store.ErrorOutage, Name, msg, err)
	}
	return store.NewFetchError(store.ErrorInternal, Name, msg, err)
}
