package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "regadmin/pkg/domain-errors"
)

func lookup(env map[string]string) func(string) string {
	return func(key string) string { return env[key] }
}

func TestFromLookup_Defaults(t *testing.T) {
	cfg, err := FromLookup(lookup(map[string]string{
		"SUPABASE_URL":      "https://abc.supabase.co/",
		"SUPABASE_ANON_KEY": "anon",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, SourcePostgREST, cfg.Source.Kind)
	assert.Equal(t, "https://abc.supabase.co", cfg.Source.SupabaseURL, "trailing slash trimmed")
	assert.Zero(t, cfg.Source.FetchTimeout, "no fetch timeout unless configured")
	assert.Equal(t, time.UTC, cfg.Display.Location)
	assert.Equal(t, DefaultDateLayout, cfg.Display.DateLayout)
	assert.Equal(t, "none", cfg.Tracing.Exporter)
}

func TestFromLookup_FileSource(t *testing.T) {
	cfg, err := FromLookup(lookup(map[string]string{
		"REGISTRATIONS_SOURCE":        "FILE",
		"REGISTRATIONS_FILE":          "testdata/registrations.yaml",
		"REGISTRATIONS_FETCH_TIMEOUT": "15s",
		"DISPLAY_TIMEZONE":            "Asia/Kolkata",
	}))
	require.NoError(t, err)

	assert.Equal(t, SourceFile, cfg.Source.Kind)
	assert.Equal(t, 15*time.Second, cfg.Source.FetchTimeout)
	assert.Equal(t, "Asia/Kolkata", cfg.Display.Location.String())
}

func TestFromLookup_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantMsg string
	}{
		{
			name:    "postgrest without url",
			env:     map[string]string{"SUPABASE_ANON_KEY": "anon"},
			wantMsg: "SUPABASE_URL is required",
		},
		{
			name:    "postgres without dsn",
			env:     map[string]string{"REGISTRATIONS_SOURCE": "postgres"},
			wantMsg: "DATABASE_URL is required",
		},
		{
			name:    "unknown source",
			env:     map[string]string{"REGISTRATIONS_SOURCE": "redis"},
			wantMsg: "REGISTRATIONS_SOURCE must be one of [postgrest postgres file]",
		},
		{
			name: "unknown exporter",
			env: map[string]string{
				"REGISTRATIONS_SOURCE": "file",
				"REGISTRATIONS_FILE":   "x.yaml",
				"TRACING_EXPORTER":     "jaeger",
			},
			wantMsg: "TRACING_EXPORTER must be one of [none stdout otlp]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromLookup(lookup(tt.env))
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}

	t.Run("bad timeout", func(t *testing.T) {
		_, err := FromLookup(lookup(map[string]string{"REGISTRATIONS_FETCH_TIMEOUT": "soon"}))
		assert.ErrorContains(t, err, "REGISTRATIONS_FETCH_TIMEOUT")
	})

	t.Run("bad timezone", func(t *testing.T) {
		_, err := FromLookup(lookup(map[string]string{"DISPLAY_TIMEZONE": "Mars/Olympus"}))
		assert.ErrorContains(t, err, "DISPLAY_TIMEZONE")
	})
}
