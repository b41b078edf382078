package tutor

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/wubrg/tutor/internal/observability"
	"github.com/wubrg/tutor/internal/query"
	"github.com/wubrg/tutor/internal/store"
)

// Service compiles and runs card searches against a database. It is
// safe for concurrent use.
type Service struct {
	store *store.Store
	obs   *observability.Config
}

// New creates a Service around an open GORM handle. The dialect is
// inferred from the database driver unless WithDialect pins it.
func New(db *gorm.DB, opts ...Option) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("tutor: database handle is required")
	}
	cfg := newConfig(opts...)

	var obs *observability.Config
	if cfg.obs != nil {
		built, err := buildObservability(*cfg.obs)
		if err != nil {
			return nil, fmt.Errorf("tutor: observability: %w", err)
		}
		if err := observability.RegisterGORMCallbacks(db, built); err != nil {
			return nil, fmt.Errorf("tutor: db tracing: %w", err)
		}
		obs = built
	}

	st, err := store.New(db, store.Options{
		Dialect:              cfg.dialect,
		Registry:             cfg.registry,
		PerFaceColorEquality: cfg.perFace,
		CacheSize:            cfg.cacheSize,
		Logger:               cfg.logger,
		Observability:        obs,
	})
	if err != nil {
		return nil, err
	}
	return &Service{store: st, obs: obs}, nil
}

// Compile turns a search query into a WHERE fragment for the service's
// dialect, consulting the compiled-query cache first. The returned
// query is shared and must not be modified.
func (s *Service) Compile(ctx context.Context, raw string) (*CompiledQuery, error) {
	return s.store.Compile(ctx, raw)
}

// Search compiles raw and returns the matching cards. A blank query
// matches everything.
func (s *Service) Search(ctx context.Context, raw string, opts SearchOptions) ([]Card, error) {
	return s.store.Search(ctx, raw, opts)
}

// Count compiles raw and counts the matching rows without fetching
// them. UniqueCards counts distinct cards rather than printings.
func (s *Service) Count(ctx context.Context, raw string, unique Unique) (int64, error) {
	return s.store.Count(ctx, raw, unique)
}

// Explain parses raw against the service's registry and renders the
// tree in prefix notation. No SQL is produced.
func (s *Service) Explain(raw string) (string, error) {
	node, err := query.ParseString(raw, s.store.Registry())
	if err != nil {
		return "", err
	}
	return query.Dump(node), nil
}

// Migrate creates or updates the cards table.
func (s *Service) Migrate() error {
	return s.store.Migrate()
}

// Ingest bulk-loads cards into the backing table.
func (s *Service) Ingest(ctx context.Context, cards []Card) error {
	return s.store.Ingest(ctx, cards)
}

// Registry returns the field registry queries resolve against.
func (s *Service) Registry() *Registry {
	return s.store.Registry()
}

// Dialect returns the SQL flavor the service compiles for.
func (s *Service) Dialect() Dialect {
	return s.store.Dialect()
}

// Observability returns the telemetry configuration, or nil when none
// was requested.
func (s *Service) Observability() *observability.Config {
	return s.obs
}
