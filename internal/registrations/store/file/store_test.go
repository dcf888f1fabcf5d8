package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regadmin/internal/registrations/store"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestListRegistrations_YAML(t *testing.T) {
	path := writeFixture(t, "registrations.yaml", `
- id: 1
  full_name: Older
  created_at: 2024-01-05T00:00:00Z
- id: 2
  full_name: Newer
  mobile_number: 9876543210
  created_at: 2024-02-01T10:00:00Z
  ward: null
- id: 3
  full_name: Undated
`)

	rows, err := New(path).ListRegistrations(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Undated", *rows[0].FullName)
	assert.Equal(t, "Newer", *rows[1].FullName)
	assert.Equal(t, "Older", *rows[2].FullName)

	assert.Equal(t, "2", *rows[1].ID)
	assert.Equal(t, "9876543210", *rows[1].MobileNumber)
	assert.Nil(t, rows[1].Ward)
	assert.Equal(t, "2024-02-01T10:00:00Z", *rows[1].CreatedAt)
}

func TestListRegistrations_JSON(t *testing.T) {
	path := writeFixture(t, "registrations.json", `[
		{"id": "a", "category": "Tailoring", "created_at": "2024-01-05T00:00:00Z"},
		{"id": "b", "created_at": "not a date"},
		{"id": "c", "created_at": "2024-03-01T00:00:00Z"}
	]`)

	rows, err := New(path).ListRegistrations(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "c", *rows[0].ID)
	assert.Equal(t, "a", *rows[1].ID)
	assert.Equal(t, "b", *rows[2].ID)
	assert.Equal(t, "Tailoring", rows[1].CategoryLabel())
}

func TestListRegistrations_EmptyDocument(t *testing.T) {
	path := writeFixture(t, "empty.yaml", "")

	rows, err := New(path).ListRegistrations(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestListRegistrations_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := New(filepath.Join(t.TempDir(), "missing.yaml")).ListRegistrations(context.Background())
		assert.Equal(t, store.ErrorNotFound, store.CategoryOf(err))
	})

	t.Run("not a sequence", func(t *testing.T) {
		path := writeFixture(t, "bad.yaml", "full_name: Asha")
		_, err := New(path).ListRegistrations(context.Background())
		assert.Equal(t, store.ErrorBadData, store.CategoryOf(err))
	})

	t.Run("read failure", func(t *testing.T) {
		s := New("ignored")
		s.readFile = func(string) ([]byte, error) { return nil, errors.New("disk on fire") }
		_, err := s.ListRegistrations(context.Background())
		assert.Equal(t, store.ErrorInternal, store.CategoryOf(err))
		assert.Error(t, s.Health(context.Background()))
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := New("ignored").ListRegistrations(ctx)
		assert.Error(t, err)
	})
}
