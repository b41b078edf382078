package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer wraps an OpenTelemetry tracer with compiler-specific span creation methods.
type Tracer struct {
	tracer      trace.Tracer
	serviceName string
}

// NewTracer creates a new Tracer using the given TracerProvider.
func NewTracer(tp trace.TracerProvider, serviceName string) *Tracer {
	return &Tracer{
		tracer:      tp.Tracer(TracerName),
		serviceName: serviceName,
	}
}

// StartSpan starts a new span with the given name and attributes.
func (t *Tracer) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, span
}

// StartCompile starts a span for compiling a search query.
func (t *Tracer) StartCompile(ctx context.Context, dialect string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "tutor.compile", trace.WithAttributes(
		DialectAttr(dialect),
		OperationAttr(OpCompile),
	))
}

// StartSearch starts a span for running a search against the card store.
// Count-only searches carry the count operation attribute instead.
func (t *Tracer) StartSearch(ctx context.Context, dialect string, counting bool) (context.Context, trace.Span) {
	op := OpSearch
	if counting {
		op = OpCount
	}
	return t.tracer.Start(ctx, "tutor.search", trace.WithAttributes(
		DialectAttr(dialect),
		OperationAttr(op),
	))
}

// StartDBQuery starts a span for a database query.
func (t *Tracer) StartDBQuery(ctx context.Context, operation string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "db.query", trace.WithAttributes(
		attribute.String("db.operation", operation),
	))
}

// AddQueryText adds the raw query text to a span.
// Callers gate this on Config.QueryTextEnabled.
func (t *Tracer) AddQueryText(span trace.Span, query string) {
	if query != "" {
		span.SetAttributes(QueryAttr(query))
	}
}

// AddCompileResult adds compile outcome attributes to a span.
func (t *Tracer) AddCompileResult(span trace.Span, paramCount int, cacheHit bool) {
	span.SetAttributes(
		ParamCountAttr(paramCount),
		CacheHitAttr(cacheHit),
	)
}

// AddSearchOptions adds result shaping attributes to a span.
func (t *Tracer) AddSearchOptions(span trace.Span, orderBy, unique string, limit, offset int) {
	var attrs []attribute.KeyValue
	if orderBy != "" {
		attrs = append(attrs, OrderByAttr(orderBy))
	}
	if unique != "" {
		attrs = append(attrs, attribute.String(AttrUnique, unique))
	}
	if limit > 0 {
		attrs = append(attrs, attribute.Int(AttrLimit, limit))
	}
	if offset > 0 {
		attrs = append(attrs, attribute.Int(AttrOffset, offset))
	}
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
}

// RecordError records an error on the span.
func (t *Tracer) RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// LoggerWithTrace returns a logger enriched with trace context.
func LoggerWithTrace(ctx context.Context, logger *slog.Logger) *slog.Logger {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return logger
	}
	return logger.With(
		slog.String(LogFieldTraceID, span.SpanContext().TraceID().String()),
		slog.String(LogFieldSpanID, span.SpanContext().SpanID().String()),
	)
}
