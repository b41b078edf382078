package query

import (
	"github.com/wubrg/tutor/internal/registry"
)

// CompileString runs the full pipeline on raw query text: balance
// delimiters, parse, validate, compile. It is a pure function; the
// same input always yields the same fragment and parameters.
func CompileString(raw string, reg *registry.Registry, opts CompileOptions) (*CompiledQuery, error) {
	node, err := ParseString(raw, reg)
	if err != nil {
		return nil, err
	}
	return Compile(node, opts)
}

// ParseString balances, parses, and validates raw query text,
// returning the typed tree compilation runs on.
func ParseString(raw string, reg *registry.Registry) (Node, error) {
	node, err := Parse(Balance(raw), reg)
	if err != nil {
		return nil, err
	}
	if err := Validate(node); err != nil {
		return nil, err
	}
	return node, nil
}
