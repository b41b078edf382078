// Package observability provides OpenTelemetry-based instrumentation for the
// query compiler and the card store built on top of it.
//
// It supports distributed tracing, metrics collection, and enhanced structured logging.
//
// All observability features are opt-in. When not configured, no-op implementations
// are used with zero performance overhead.
package observability

import "go.opentelemetry.io/otel/attribute"

// Instrumentation identity constants
const (
	// TracerName is the instrumentation name for tracing.
	TracerName = "github.com/wubrg/tutor"
	// MeterName is the instrumentation name for metrics.
	MeterName = "github.com/wubrg/tutor"
)

// Semantic attribute keys following OpenTelemetry conventions.
const (
	// Compile attributes
	AttrQuery      = "tutor.query"
	AttrDialect    = "tutor.dialect"
	AttrOperation  = "tutor.operation"
	AttrParamCount = "tutor.param_count"
	AttrCacheHit   = "tutor.cache_hit"

	// Search attributes
	AttrOrderBy     = "tutor.order_by"
	AttrUnique      = "tutor.unique"
	AttrLimit       = "tutor.limit"
	AttrOffset      = "tutor.offset"
	AttrResultCount = "tutor.result.count"

	// Error attributes
	AttrErrorKind     = "tutor.error.kind"
	AttrErrorPosition = "tutor.error.position"
)

// Operation types for the tutor.operation attribute.
const (
	OpCompile = "compile"
	OpSearch  = "search"
	OpCount   = "count"
	OpExplain = "explain"
)

// Log field keys for structured logging with trace context.
const (
	LogFieldQuery       = "query"
	LogFieldDialect     = "dialect"
	LogFieldOperation   = "operation"
	LogFieldTraceID     = "trace_id"
	LogFieldSpanID      = "span_id"
	LogFieldDuration    = "duration_ms"
	LogFieldResultCount = "result_count"
	LogFieldCacheHit    = "cache_hit"
	LogFieldError       = "error"
)

// QueryAttr creates an attribute for the raw query text.
func QueryAttr(query string) attribute.KeyValue {
	return attribute.String(AttrQuery, query)
}

// DialectAttr creates an attribute for the SQL dialect.
func DialectAttr(dialect string) attribute.KeyValue {
	return attribute.String(AttrDialect, dialect)
}

// OperationAttr creates an attribute for the operation type.
func OperationAttr(op string) attribute.KeyValue {
	return attribute.String(AttrOperation, op)
}

// ParamCountAttr creates an attribute for the number of bind parameters.
func ParamCountAttr(count int) attribute.KeyValue {
	return attribute.Int(AttrParamCount, count)
}

// CacheHitAttr creates an attribute marking a compile cache hit or miss.
func CacheHitAttr(hit bool) attribute.KeyValue {
	return attribute.Bool(AttrCacheHit, hit)
}

// OrderByAttr creates an attribute for the order-by expression.
func OrderByAttr(orderBy string) attribute.KeyValue {
	return attribute.String(AttrOrderBy, orderBy)
}

// ResultCountAttr creates an attribute for the result count.
func ResultCountAttr(count int64) attribute.KeyValue {
	return attribute.Int64(AttrResultCount, count)
}

// ErrorKindAttr creates an attribute for the error kind.
func ErrorKindAttr(kind string) attribute.KeyValue {
	return attribute.String(AttrErrorKind, kind)
}

// ErrorPositionAttr creates an attribute for the byte offset of a query error.
func ErrorPositionAttr(pos int) attribute.KeyValue {
	return attribute.Int(AttrErrorPosition, pos)
}
