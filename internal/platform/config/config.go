package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"regadmin/pkg/validation"
)

// Source kinds accepted by REGISTRATIONS_SOURCE.
const (
	SourcePostgREST = "postgrest"
	SourcePostgres  = "postgres"
	SourceFile      = "file"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr        string `env:"REGADMIN_ADDR" validate:"notblank"`
	Environment string `env:"REGADMIN_ENV" validate:"notblank"`
	LogLevel    string `env:"LOG_LEVEL" validate:"oneof=debug info warn error"`

	Source  Source
	Display Display
	Tracing Tracing
}

// Source selects and configures where registrations are read from.
type Source struct {
	Kind         string        `env:"REGISTRATIONS_SOURCE" validate:"oneof=postgrest postgres file"`
	SupabaseURL  string        `env:"SUPABASE_URL" validate:"required_if=Kind postgrest,omitempty,url"`
	SupabaseKey  string        `env:"SUPABASE_ANON_KEY" validate:"required_if=Kind postgrest"`
	DatabaseURL  string        `env:"DATABASE_URL" validate:"required_if=Kind postgres"`
	FilePath     string        `env:"REGISTRATIONS_FILE" validate:"required_if=Kind file"`
	FetchTimeout time.Duration `env:"REGISTRATIONS_FETCH_TIMEOUT" validate:"min=0"`
}

// Display controls how registration dates are rendered.
type Display struct {
	Location   *time.Location `env:"DISPLAY_TIMEZONE" validate:"required"`
	DateLayout string         `env:"DISPLAY_DATE_LAYOUT" validate:"notblank"`
}

// Tracing selects the span exporter.
type Tracing struct {
	Exporter     string `env:"TRACING_EXPORTER" validate:"oneof=none stdout otlp"`
	OTLPEndpoint string `env:"OTLP_ENDPOINT"`
	ServiceName  string `env:"OTEL_SERVICE_NAME" validate:"notblank"`
}

// DefaultDateLayout renders dates the way an en-US browser's toLocaleDateString does.
const DefaultDateLayout = "1/2/2006"

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	return FromLookup(os.Getenv)
}

// FromLookup builds a Server config from an arbitrary key lookup; tests pass a map.
func FromLookup(getenv func(string) string) (Server, error) {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	cfg := Server{
		Addr:        get("REGADMIN_ADDR", ":8080"),
		Environment: get("REGADMIN_ENV", "development"),
		LogLevel:    strings.ToLower(get("LOG_LEVEL", "info")),
		Source: Source{
			Kind:        strings.ToLower(get("REGISTRATIONS_SOURCE", SourcePostgREST)),
			SupabaseURL: strings.TrimRight(get("SUPABASE_URL", ""), "/"),
			SupabaseKey: get("SUPABASE_ANON_KEY", ""),
			DatabaseURL: get("DATABASE_URL", ""),
			FilePath:    get("REGISTRATIONS_FILE", ""),
		},
		Display: Display{
			DateLayout: get("DISPLAY_DATE_LAYOUT", DefaultDateLayout),
		},
		Tracing: Tracing{
			Exporter:     strings.ToLower(get("TRACING_EXPORTER", "none")),
			OTLPEndpoint: get("OTLP_ENDPOINT", ""),
			ServiceName:  get("OTEL_SERVICE_NAME", "regadmin"),
		},
	}

	// Zero means no timeout: a stuck data source keeps the page loading.
	if raw := get("REGISTRATIONS_FETCH_TIMEOUT", ""); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Server{}, fmt.Errorf("parse REGISTRATIONS_FETCH_TIMEOUT: %w", err)
		}
		cfg.Source.FetchTimeout = d
	}

	loc, err := time.LoadLocation(get("DISPLAY_TIMEZONE", "UTC"))
	if err != nil {
		return Server{}, fmt.Errorf("load DISPLAY_TIMEZONE: %w", err)
	}
	cfg.Display.Location = loc

	if err := validation.Validate(cfg); err != nil {
		return Server{}, err
	}
	return cfg, nil
}
