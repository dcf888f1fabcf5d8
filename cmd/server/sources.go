package main

import (
	"context"
	"fmt"

	"regadmin/internal/platform/config"
	"regadmin/internal/platform/database"
	"regadmin/internal/platform/health"
	"regadmin/internal/registrations/page"
	"regadmin/internal/registrations/store/file"
	"regadmin/internal/registrations/store/postgres"
	"regadmin/internal/registrations/store/postgrest"
	dErrors "regadmin/pkg/domain-errors"
)

// buildSource constructs the configured registrations source and registers its
// readiness check. The returned func releases any held connections.
func buildSource(ctx context.Context, cfg config.Source, checks *health.Handler) (page.Source, func(), error) {
	noop := func() {}

	switch cfg.Kind {
	case config.SourcePostgREST:
		client := postgrest.New(postgrest.Config{
			BaseURL: cfg.SupabaseURL,
			APIKey:  cfg.SupabaseKey,
			Timeout: cfg.FetchTimeout,
		})
		checks.RegisterCheck(postgrest.Name, client.Health)
		return client, noop, nil

	case config.SourcePostgres:
		pool, err := database.New(ctx, database.DefaultConfig(cfg.DatabaseURL))
		if err != nil {
			return nil, noop, fmt.Errorf("connect registrations database: %w", err)
		}
		checks.RegisterCheck("database", pool.Health)
		return postgres.New(pool.DB()), func() { _ = pool.Close() }, nil

	case config.SourceFile:
		fixture := file.New(cfg.FilePath)
		checks.RegisterCheck(file.Name, fixture.Health)
		return fixture, noop, nil

	default:
		return nil, noop, dErrors.New(dErrors.CodeMisconfigured, fmt.Sprintf("unknown registrations source %q", cfg.Kind))
	}
}
