package tutor

import (
	"github.com/wubrg/tutor/internal/query"
)

// Compile turns a search query into a PostgreSQL WHERE fragment using
// the default registry. It is a pure function: the same query text
// always yields the same fragment and parameters, and nothing is
// cached between calls.
func Compile(raw string) (*CompiledQuery, error) {
	return CompileWithOptions(raw)
}

// CompileWithOptions is Compile with a custom registry, dialect, or
// color-equality mode. Options that concern a Service, such as
// WithLogger and WithObservability, have no effect here.
func CompileWithOptions(raw string, opts ...Option) (*CompiledQuery, error) {
	cfg := newConfig(opts...)
	dialect := cfg.dialect
	if dialect == "" {
		dialect = DialectPostgres
	}
	return query.CompileString(raw, cfg.registry, query.CompileOptions{
		Dialect:              dialect,
		PerFaceColorEquality: cfg.perFace,
	})
}

// Explain parses a query and renders its tree in prefix notation,
// which is how the command line prints what a query means. No SQL is
// produced.
func Explain(raw string, opts ...Option) (string, error) {
	cfg := newConfig(opts...)
	node, err := query.ParseString(raw, cfg.registry)
	if err != nil {
		return "", err
	}
	return query.Dump(node), nil
}
