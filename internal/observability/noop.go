package observability

import (
	"go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// NewNoopTracer creates a tracer that does nothing.
func NewNoopTracer() *Tracer {
	return &Tracer{
		tracer:      tracenoop.NewTracerProvider().Tracer(""),
		serviceName: "",
	}
}

// NewNoopMetrics creates metrics that do nothing.
func NewNoopMetrics() *Metrics {
	meter := noop.NewMeterProvider().Meter("")
	m := &Metrics{}

	// Note: noop meter never returns errors, but we must check them to satisfy the linter.
	m.compileDuration, _ = meter.Float64Histogram("tutor.compile.duration") //nolint:errcheck
	m.compileCount, _ = meter.Int64Counter("tutor.compile.count")           //nolint:errcheck
	m.compileErrors, _ = meter.Int64Counter("tutor.compile.errors")         //nolint:errcheck
	m.cacheHits, _ = meter.Int64Counter("tutor.cache.hits")                 //nolint:errcheck
	m.cacheMisses, _ = meter.Int64Counter("tutor.cache.misses")             //nolint:errcheck
	m.searchDuration, _ = meter.Float64Histogram("tutor.search.duration")   //nolint:errcheck
	m.searchResults, _ = meter.Int64Histogram("tutor.search.results")       //nolint:errcheck
	m.dbQueryDuration, _ = meter.Float64Histogram("tutor.db.query.duration") //nolint:errcheck

	return m
}
