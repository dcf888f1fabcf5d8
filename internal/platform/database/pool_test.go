package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("postgres://localhost/regadmin")
	assert.Equal(t, "postgres://localhost/regadmin", cfg.URL)
	assert.Equal(t, 4, cfg.MaxOpenConns)
	assert.Equal(t, 2, cfg.MaxIdleConns)
	assert.Equal(t, 5*time.Minute, cfg.ConnMaxLifetime)
}

func TestNewRequiresURL(t *testing.T) {
	pool, err := New(context.Background(), Config{})
	require.Error(t, err)
	assert.Nil(t, pool)
}

func TestNilPool(t *testing.T) {
	var p *Pool
	assert.Error(t, p.Health(context.Background()))
	assert.NoError(t, p.Close())
}
