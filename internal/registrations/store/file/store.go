// Package file serves registrations from a local YAML or JSON fixture.
// It exists for development and demos without a backend.
package file

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"regadmin/internal/registrations/models"
	"regadmin/internal/registrations/store"
)

// Name identifies this source in logs, metrics and traces.
const Name = "file"

// Store re-reads its file on every fetch so edits show up on refresh.
type Store struct {
	path     string
	readFile func(string) ([]byte, error)
}

func New(path string) *Store {
	return &Store{path: path, readFile: os.ReadFile}
}

func (s *Store) Name() string {
	return Name
}

// ListRegistrations parses the fixture, a sequence of mappings, newest first.
func (s *Store) ListRegistrations(ctx context.Context) ([]*models.Registration, error) {
	if err := ctx.Err(); err != nil {
		return nil, store.NewFetchError(store.ErrorTimeout, Name, "fetch cancelled", err)
	}

	data, err := s.readFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, store.NewFetchError(store.ErrorNotFound, Name, "fixture not found", err)
		}
		if errors.Is(err, fs.ErrPermission) {
			return nil, store.NewFetchError(store.ErrorAuthentication, Name, "fixture not readable", err)
		}
		return nil, store.NewFetchError(store.ErrorInternal, Name, "read fixture", err)
	}

	// yaml.v3 accepts JSON documents too.
	var raw []map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, store.NewFetchError(store.ErrorBadData, Name, "parse fixture", err)
	}

	out := make([]*models.Registration, 0, len(raw))
	for _, row := range raw {
		if row == nil {
			continue
		}
		out = append(out, models.FromMap(row))
	}
	sortNewestFirst(out)
	return out, nil
}

// Health checks the fixture is readable.
func (s *Store) Health(_ context.Context) error {
	if _, err := s.readFile(s.path); err != nil {
		return store.NewFetchError(store.ErrorOutage, Name, "fixture unreadable", err)
	}
	return nil
}

// sortNewestFirst orders like ORDER BY created_at DESC in Postgres: rows with
// no timestamp first, then newest to oldest. Unparseable timestamps sort last.
func sortNewestFirst(rows []*models.Registration) {
	type key struct {
		rank int
		at   int64
	}
	keys := make(map[*models.Registration]key, len(rows))
	for _, r := range rows {
		switch {
		case !models.Present(r.CreatedAt):
			keys[r] = key{rank: 0}
		default:
			t, err := models.ParseTimestamp(*r.CreatedAt)
			if err != nil {
				keys[r] = key{rank: 2}
				continue
			}
			keys[r] = key{rank: 1, at: t.UnixNano()}
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := keys[rows[i]], keys[rows[j]]
		if a.rank != b.rank {
			return a.rank < b.rank
		}
		return a.at > b.at
	})
}
