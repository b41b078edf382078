package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/wubrg/tutor/internal/observability"
	"github.com/wubrg/tutor/internal/query"
	"github.com/wubrg/tutor/internal/registry"
)

var (
	errNilDB         = errors.New("store requires an open database handle")
	errUnknownDriver = errors.New("cannot infer SQL dialect from driver")
)

// Unique selects how Search collapses multiple printings of one card.
type Unique string

const (
	// UniquePrints returns every printing that matches.
	UniquePrints Unique = "prints"
	// UniqueCards returns one printing per oracle card.
	UniqueCards Unique = "cards"
)

// SearchOptions shape the rows a Search returns. The zero value returns
// every matching printing in database order.
type SearchOptions struct {
	// OrderBy is a comma-separated sort expression such as
	// "cmc desc, name asc".
	OrderBy string

	// Unique collapses printings of the same card. Empty means
	// UniquePrints.
	Unique Unique

	// Limit caps the number of rows returned. Zero means no cap.
	Limit int

	// Offset skips rows for pagination.
	Offset int
}

// Options configures a Store.
type Options struct {
	// Dialect selects the SQL flavor of compiled fragments. Empty means
	// inferred from the GORM dialector.
	Dialect query.Dialect

	// Registry resolves field aliases. Nil means the default card
	// registry.
	Registry *registry.Registry

	// PerFaceColorEquality compiles exact color matches per card face
	// instead of against the card-level color union.
	PerFaceColorEquality bool

	// CacheSize bounds the compiled-query cache. Zero means the
	// default.
	CacheSize int

	// Logger receives structured search logs. Nil means slog.Default.
	Logger *slog.Logger

	// Observability carries the tracer and metrics. Nil disables both.
	Observability *observability.Config
}

// Store compiles raw searches and runs them against a card database.
// All methods are safe for concurrent use.
type Store struct {
	db      *gorm.DB
	dialect query.Dialect
	reg     *registry.Registry
	perFace bool
	cache   *compiledQueryCache
	logger  *slog.Logger
	obs     *observability.Config
	tracer  *observability.Tracer
	metrics *observability.Metrics
}

// New creates a Store around an open GORM handle.
func New(db *gorm.DB, opts Options) (*Store, error) {
	if db == nil {
		return nil, errNilDB
	}
	dialect := opts.Dialect
	if dialect == "" {
		var err error
		dialect, err = dialectFromDriver(db)
		if err != nil {
			return nil, err
		}
	}
	reg := opts.Registry
	if reg == nil {
		reg = registry.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		db:      db,
		dialect: dialect,
		reg:     reg,
		perFace: opts.PerFaceColorEquality,
		cache:   newCompiledQueryCache(opts.CacheSize),
		logger:  logger,
		obs:     opts.Observability,
		tracer:  opts.Observability.Tracer(),
		metrics: opts.Observability.Metrics(),
	}, nil
}

func dialectFromDriver(db *gorm.DB) (query.Dialect, error) {
	switch db.Dialector.Name() {
	case "postgres":
		return query.DialectPostgres, nil
	case "sqlite", "sqlite3":
		return query.DialectSQLite, nil
	default:
		return "", fmt.Errorf("%w: %s", errUnknownDriver, db.Dialector.Name())
	}
}

// Dialect returns the SQL flavor the store compiles for.
func (s *Store) Dialect() query.Dialect {
	return s.dialect
}

// Registry returns the field registry the store resolves against.
func (s *Store) Registry() *registry.Registry {
	return s.reg
}

// Migrate creates or updates the cards table.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&Card{})
}

// Ingest bulk-loads cards. Tags and face columns are expected to be
// denormalized by the caller before loading.
func (s *Store) Ingest(ctx context.Context, cards []Card) error {
	if len(cards) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Create(&cards).Error
}

// Compile turns a raw search into a WHERE fragment, consulting the
// compiled-query cache first. The returned query is shared with other
// callers and must not be modified.
func (s *Store) Compile(ctx context.Context, raw string) (*query.CompiledQuery, error) {
	cq, _, err := s.compile(ctx, raw)
	return cq, err
}

// compile reports whether the fragment came from the cache.
func (s *Store) compile(ctx context.Context, raw string) (*query.CompiledQuery, bool, error) {
	var span trace.Span
	if s.obs.IsEnabled() {
		ctx, span = s.tracer.StartCompile(ctx, string(s.dialect))
		defer span.End()
		if s.obs.QueryTextEnabled() {
			s.tracer.AddQueryText(span, raw)
		}
	}

	key := cacheKey(s.dialect, s.perFace, raw)
	if cq, ok := s.cache.get(key); ok {
		s.metrics.RecordCacheLookup(ctx, true)
		if span != nil {
			s.tracer.AddCompileResult(span, len(cq.Args), true)
		}
		return cq, true, nil
	}
	s.metrics.RecordCacheLookup(ctx, false)

	start := time.Now()
	cq, err := compileQuery(raw, s.reg, query.CompileOptions{
		Dialect:              s.dialect,
		PerFaceColorEquality: s.perFace,
	})
	if err != nil {
		s.metrics.RecordCompileError(ctx, string(s.dialect), errorKind(err))
		if span != nil {
			s.tracer.RecordError(span, err)
		}
		return nil, false, err
	}
	s.metrics.RecordCompile(ctx, string(s.dialect), time.Since(start))
	if span != nil {
		s.tracer.AddCompileResult(span, len(cq.Args), false)
	}

	s.cache.put(key, cq)
	return cq, false, nil
}

// compileQuery runs the pure pipeline. It never touches the database
// or the cache.
func compileQuery(raw string, reg *registry.Registry, opts query.CompileOptions) (*query.CompiledQuery, error) {
	return query.CompileString(raw, reg, opts)
}

// errorKind labels a compile error for metrics.
func errorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case isSyntaxError(err):
		return "syntax"
	case isUnknownFieldError(err):
		return "unknown_field"
	case isTypeError(err):
		return "type"
	default:
		return "internal"
	}
}

func isSyntaxError(err error) bool {
	_, ok := query.AsSyntaxError(err)
	return ok
}

func isUnknownFieldError(err error) bool {
	_, ok := query.AsUnknownFieldError(err)
	return ok
}

func isTypeError(err error) bool {
	_, ok := query.AsTypeError(err)
	return ok
}

// Search compiles raw and returns the matching cards. An empty query
// matches every card.
func (s *Store) Search(ctx context.Context, raw string, opts SearchOptions) ([]Card, error) {
	var span trace.Span
	if s.obs.IsEnabled() {
		ctx, span = s.tracer.StartSearch(ctx, string(s.dialect), false)
		defer span.End()
		if s.obs.QueryTextEnabled() {
			s.tracer.AddQueryText(span, raw)
		}
		s.tracer.AddSearchOptions(span, opts.OrderBy, string(opts.Unique), opts.Limit, opts.Offset)
	}

	start := time.Now()
	tx, err := s.buildQuery(ctx, raw, opts)
	if err != nil {
		if span != nil {
			s.tracer.RecordError(span, err)
		}
		return nil, err
	}

	var cards []Card
	if err := tx.Find(&cards).Error; err != nil {
		if span != nil {
			s.tracer.RecordError(span, err)
		}
		return nil, fmt.Errorf("search: %w", err)
	}

	s.metrics.RecordSearch(ctx, string(s.dialect), observability.OpSearch, time.Since(start))
	s.metrics.RecordResultCount(ctx, string(s.dialect), int64(len(cards)))
	s.log(ctx).Debug("search complete",
		observability.LogFieldDialect, string(s.dialect),
		observability.LogFieldResultCount, len(cards),
		observability.LogFieldDuration, time.Since(start).Milliseconds(),
	)
	return cards, nil
}

// Count compiles raw and reports how many rows match without loading
// them. UniqueCards counts oracle cards instead of printings.
func (s *Store) Count(ctx context.Context, raw string, unique Unique) (int64, error) {
	var span trace.Span
	if s.obs.IsEnabled() {
		ctx, span = s.tracer.StartSearch(ctx, string(s.dialect), true)
		defer span.End()
		if s.obs.QueryTextEnabled() {
			s.tracer.AddQueryText(span, raw)
		}
	}

	start := time.Now()
	tx, err := s.whereClause(ctx, s.db.WithContext(ctx).Model(&Card{}), raw)
	if err != nil {
		if span != nil {
			s.tracer.RecordError(span, err)
		}
		return 0, err
	}
	if unique == UniqueCards {
		tx = tx.Distinct("oracle_id")
	}

	var n int64
	if err := tx.Count(&n).Error; err != nil {
		if span != nil {
			s.tracer.RecordError(span, err)
		}
		return 0, fmt.Errorf("count: %w", err)
	}

	s.metrics.RecordSearch(ctx, string(s.dialect), observability.OpCount, time.Since(start))
	return n, nil
}

// buildQuery assembles the gorm statement for a search: WHERE from the
// compiled fragment, unique shaping, ORDER BY from the parsed sort
// expression, then pagination.
func (s *Store) buildQuery(ctx context.Context, raw string, opts SearchOptions) (*gorm.DB, error) {
	tx, err := s.whereClause(ctx, s.db.WithContext(ctx).Model(&Card{}), raw)
	if err != nil {
		return nil, err
	}

	switch opts.Unique {
	case UniqueCards:
		tx = s.uniqueCards(ctx, tx)
	case UniquePrints, "":
	default:
		return nil, fmt.Errorf("unknown unique mode %q", opts.Unique)
	}

	if opts.OrderBy != "" {
		items, err := query.ParseOrder(opts.OrderBy, s.reg)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			direction := "ASC"
			if item.Descending {
				direction = "DESC"
			}
			tx = tx.Order(fmt.Sprintf("%s %s", item.Column, direction))
		}
	}

	if opts.Offset > 0 {
		tx = tx.Offset(opts.Offset)
	}
	if opts.Limit > 0 {
		tx = tx.Limit(opts.Limit)
	}
	return tx, nil
}

// whereClause applies the compiled fragment for raw, or nothing when
// the query is blank.
func (s *Store) whereClause(ctx context.Context, tx *gorm.DB, raw string) (*gorm.DB, error) {
	if strings.TrimSpace(raw) == "" {
		return tx, nil
	}
	cq, _, err := s.compile(ctx, raw)
	if err != nil {
		return nil, err
	}
	return tx.Where(cq.SQL, cq.Args...), nil
}

// uniqueCards collapses printings to one row per oracle card.
// PostgreSQL picks the row with DISTINCT ON inside a subquery so caller
// ordering still applies outside; SQLite lacks DISTINCT ON, so the rows
// are grouped and an arbitrary printing represents each card.
func (s *Store) uniqueCards(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if s.dialect == query.DialectPostgres {
		inner := tx.Select("DISTINCT ON (oracle_id) *").Order("oracle_id")
		return s.db.WithContext(ctx).Table("(?) AS cards", inner)
	}
	return tx.Group("oracle_id")
}

// log returns the store logger enriched with trace context.
func (s *Store) log(ctx context.Context) *slog.Logger {
	return observability.LoggerWithTrace(ctx, s.logger)
}
