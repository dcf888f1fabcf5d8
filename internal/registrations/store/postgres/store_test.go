package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"regadmin/internal/registrations/store"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want store.ErrorCategory
	}{
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), store.ErrorTimeout},
		{"missing table", &pgconn.PgError{Code: "42P01"}, store.ErrorNotFound},
		{"permission denied", &pgconn.PgError{Code: "42501"}, store.ErrorAuthentication},
		{"bad password", &pgconn.PgError{Code: "28P01"}, store.ErrorAuthentication},
		{"statement timeout", &pgconn.PgError{Code: "57014"}, store.ErrorTimeout},
		{"too many connections", &pgconn.PgError{Code: "53300"}, store.ErrorRateLimited},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, store.ErrorOutage},
		{"connection failure", &pgconn.PgError{Code: "08006"}, store.ErrorOutage},
		{"syntax error", &pgconn.PgError{Code: "42601"}, store.ErrorBadData},
		{"unknown", errors.New("boom"), store.ErrorInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify(tt.err, "query registrations")
			assert.Equal(t, tt.want, store.CategoryOf(err))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}
