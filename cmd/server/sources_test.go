package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regadmin/internal/platform/config"
	"regadmin/internal/platform/health"
	"regadmin/internal/registrations/store/file"
	"regadmin/internal/registrations/store/postgrest"
	dErrors "regadmin/pkg/domain-errors"
)

func TestBuildSource(t *testing.T) {
	ctx := context.Background()

	t.Run("postgrest", func(t *testing.T) {
		src, closeFn, err := buildSource(ctx, config.Source{
			Kind:        config.SourcePostgREST,
			SupabaseURL: "https://project.supabase.co",
			SupabaseKey: "anon",
		}, health.New("test"))
		require.NoError(t, err)
		defer closeFn()
		assert.Equal(t, postgrest.Name, src.Name())
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "registrations.yaml")
		require.NoError(t, os.WriteFile(path, []byte("- id: 1\n"), 0o600))

		checks := health.New("test")
		src, closeFn, err := buildSource(ctx, config.Source{Kind: config.SourceFile, FilePath: path}, checks)
		require.NoError(t, err)
		defer closeFn()
		assert.Equal(t, file.Name, src.Name())
		assert.Equal(t, health.StateUp, checks.Ready(ctx).Checks[file.Name].State)

		rows, err := src.ListRegistrations(ctx)
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("postgres without url", func(t *testing.T) {
		_, closeFn, err := buildSource(ctx, config.Source{Kind: config.SourcePostgres}, health.New("test"))
		defer closeFn()
		assert.Error(t, err)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, closeFn, err := buildSource(ctx, config.Source{Kind: "redis"}, health.New("test"))
		defer closeFn()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeMisconfigured))
	})
}
