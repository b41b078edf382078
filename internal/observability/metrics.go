package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the compiler and store metric instruments.
type Metrics struct {
	compileDuration metric.Float64Histogram
	compileCount    metric.Int64Counter
	compileErrors   metric.Int64Counter
	cacheHits       metric.Int64Counter
	cacheMisses     metric.Int64Counter
	searchDuration  metric.Float64Histogram
	searchResults   metric.Int64Histogram
	dbQueryDuration metric.Float64Histogram
}

// NewMetrics creates a new Metrics instance with the given MeterProvider.
func NewMetrics(mp metric.MeterProvider) *Metrics {
	meter := mp.Meter(MeterName)
	m := &Metrics{}

	// Note: errors from meter instrument creation are unlikely in practice
	// and would only occur with invalid parameters. We use explicit checks
	// to satisfy the linter while continuing with partial metrics on error.
	var err error

	m.compileDuration, err = meter.Float64Histogram(
		"tutor.compile.duration",
		metric.WithDescription("Duration of query compilation in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		m.compileDuration, _ = meter.Float64Histogram("tutor.compile.duration")
	}

	m.compileCount, err = meter.Int64Counter(
		"tutor.compile.count",
		metric.WithDescription("Total number of query compilations"),
		metric.WithUnit("{compile}"),
	)
	if err != nil {
		m.compileCount, _ = meter.Int64Counter("tutor.compile.count")
	}

	m.compileErrors, err = meter.Int64Counter(
		"tutor.compile.errors",
		metric.WithDescription("Total number of queries rejected during compilation"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		m.compileErrors, _ = meter.Int64Counter("tutor.compile.errors")
	}

	m.cacheHits, err = meter.Int64Counter(
		"tutor.cache.hits",
		metric.WithDescription("Number of compiled-query cache hits"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		m.cacheHits, _ = meter.Int64Counter("tutor.cache.hits")
	}

	m.cacheMisses, err = meter.Int64Counter(
		"tutor.cache.misses",
		metric.WithDescription("Number of compiled-query cache misses"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		m.cacheMisses, _ = meter.Int64Counter("tutor.cache.misses")
	}

	m.searchDuration, err = meter.Float64Histogram(
		"tutor.search.duration",
		metric.WithDescription("Duration of store searches in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		m.searchDuration, _ = meter.Float64Histogram("tutor.search.duration")
	}

	m.searchResults, err = meter.Int64Histogram(
		"tutor.search.results",
		metric.WithDescription("Number of cards returned by a search"),
		metric.WithUnit("{card}"),
	)
	if err != nil {
		m.searchResults, _ = meter.Int64Histogram("tutor.search.results")
	}

	m.dbQueryDuration, err = meter.Float64Histogram(
		"tutor.db.query.duration",
		metric.WithDescription("Duration of database queries in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		m.dbQueryDuration, _ = meter.Float64Histogram("tutor.db.query.duration")
	}

	return m
}

// RecordCompile records metrics for a completed compilation.
func (m *Metrics) RecordCompile(ctx context.Context, dialect string, duration time.Duration) {
	attrs := metric.WithAttributes(DialectAttr(dialect))
	m.compileDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	m.compileCount.Add(ctx, 1, attrs)
}

// RecordCompileError records a query rejected during compilation.
func (m *Metrics) RecordCompileError(ctx context.Context, dialect, kind string) {
	attrs := metric.WithAttributes(
		DialectAttr(dialect),
		ErrorKindAttr(kind),
	)
	m.compileErrors.Add(ctx, 1, attrs)
}

// RecordCacheLookup records a compiled-query cache lookup.
func (m *Metrics) RecordCacheLookup(ctx context.Context, hit bool) {
	if hit {
		m.cacheHits.Add(ctx, 1)
	} else {
		m.cacheMisses.Add(ctx, 1)
	}
}

// RecordSearch records metrics for a completed store search.
func (m *Metrics) RecordSearch(ctx context.Context, dialect, operation string, duration time.Duration) {
	attrs := metric.WithAttributes(
		DialectAttr(dialect),
		OperationAttr(operation),
	)
	m.searchDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
}

// RecordResultCount records the number of cards returned by a search.
func (m *Metrics) RecordResultCount(ctx context.Context, dialect string, count int64) {
	attrs := metric.WithAttributes(DialectAttr(dialect))
	m.searchResults.Record(ctx, count, attrs)
}

// RecordDBQuery records metrics for a database query.
func (m *Metrics) RecordDBQuery(ctx context.Context, operation string, duration time.Duration) {
	attrs := metric.WithAttributes(OperationAttr(operation))
	m.dbQueryDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
}
