package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFetchError(t *testing.T) {
	root := errors.New("connection refused")
	err := NewFetchError(ErrorOutage, "postgrest", "failed to execute request", root)

	assert.Equal(t, "source postgrest [outage]: failed to execute request: connection refused", err.Error())
	assert.ErrorIs(t, err, root)

	bare := NewFetchError(ErrorNotFound, "postgrest", "table not found", nil)
	assert.Equal(t, "source postgrest [not_found]: table not found", bare.Error())
}

func TestCategoryOf(t *testing.T) {
	wrapped := fmt.Errorf("page: %w", NewFetchError(ErrorAuthentication, "postgrest", "denied", nil))
	assert.Equal(t, ErrorAuthentication, CategoryOf(wrapped))
	assert.Equal(t, ErrorTimeout, CategoryOf(fmt.Errorf("query: %w", context.DeadlineExceeded)))
	assert.Equal(t, ErrorInternal, CategoryOf(errors.New("boom")))
}
