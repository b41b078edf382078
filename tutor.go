// Package tutor compiles card search queries into SQL and runs them
// against a card database.
//
// The package has two layers. Compile and CompileWithOptions are pure:
// query text in, WHERE fragment plus bind parameters out, no database
// involved. Service wraps a GORM connection and adds the stateful
// parts on top: compiled-query caching, execution, counting, and
// optional OpenTelemetry instrumentation.
//
// Query values never travel inside the SQL text. Every literal a
// player types arrives at the database as a bind parameter.
package tutor

import (
	"io"

	"gorm.io/gorm"

	"github.com/wubrg/tutor/internal/query"
	"github.com/wubrg/tutor/internal/registry"
	"github.com/wubrg/tutor/internal/store"
)

// Re-export the types callers hold on to, so the internal packages
// stay internal.
type (
	// CompiledQuery is a WHERE fragment plus its bind parameters in
	// placeholder order.
	CompiledQuery = query.CompiledQuery
	// Dialect selects the SQL flavor of compiled fragments.
	Dialect = query.Dialect
	// Registry is the searchable-field catalog queries resolve against.
	Registry = registry.Registry
	// Field describes one searchable field of a Registry.
	Field = registry.Field
	// Card is one printing of a card in the backing table.
	Card = store.Card
	// SearchOptions shapes the result set of a search.
	SearchOptions = store.SearchOptions
	// Unique selects how printings collapse in search results.
	Unique = store.Unique
	// JSONStrings is the JSON array column type of the card schema.
	JSONStrings = store.JSONStrings
	// JSONMap is the JSON object column type of the card schema.
	JSONMap = store.JSONMap
)

const (
	// DialectPostgres targets PostgreSQL.
	DialectPostgres = query.DialectPostgres
	// DialectSQLite targets SQLite with the JSON1 extension and a
	// registered REGEXP function.
	DialectSQLite = query.DialectSQLite

	// UniquePrints returns every printing that matches.
	UniquePrints = store.UniquePrints
	// UniqueCards collapses printings of the same card to one row.
	UniqueCards = store.UniqueCards
)

// DefaultRegistry returns the built-in Scryfall-flavored field
// registry.
func DefaultRegistry() *Registry {
	return registry.Default()
}

// LoadRegistry reads a field registry definition from YAML.
func LoadRegistry(r io.Reader) (*Registry, error) {
	return registry.LoadYAML(r)
}

// LoadRegistryFile reads a field registry definition from a YAML file.
func LoadRegistryFile(path string) (*Registry, error) {
	return registry.LoadFile(path)
}

// OpenPostgres opens a PostgreSQL-backed GORM handle suitable for New.
func OpenPostgres(dsn string, cfg *gorm.Config) (*gorm.DB, error) {
	return store.OpenPostgres(dsn, cfg)
}

// OpenSQLite opens a SQLite-backed GORM handle suitable for New. The
// connection registers the REGEXP function compiled fragments use.
func OpenSQLite(dsn string, cfg *gorm.Config) (*gorm.DB, error) {
	return store.OpenSQLite(dsn, cfg)
}
