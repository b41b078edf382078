package store

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// OpenPostgres opens a PostgreSQL database. Compiled fragments lean on
// built-in JSONB operators, so no extensions are required.
func OpenPostgres(dsn string, cfg *gorm.Config) (*gorm.DB, error) {
	if cfg == nil {
		cfg = &gorm.Config{}
	}
	return gorm.Open(postgres.Open(dsn), cfg)
}
