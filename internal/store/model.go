// Package store runs compiled card searches against a SQL database.
//
// The schema mirrors the column bindings of the default field registry:
// card-level text columns hold both faces joined with " // ", face-level
// columns carry per-face values, and set-valued fields live in JSON
// columns that the compiled fragments probe with JSONB containment on
// PostgreSQL and json_each on SQLite.
package store

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// JSONStrings stores a string slice as a JSON array column. The stored
// text must always be valid JSON because compiled fragments feed it to
// json_each and the @> operator.
type JSONStrings []string

// Value implements driver.Valuer. A nil slice is stored as an empty
// array, never as NULL.
func (s JSONStrings) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (s *JSONStrings) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, (*[]string)(s))
	case string:
		return json.Unmarshal([]byte(v), (*[]string)(s))
	default:
		return fmt.Errorf("cannot scan %T into JSONStrings", value)
	}
}

// GormDBDataType maps the column to JSONB on PostgreSQL and plain text
// elsewhere.
func (JSONStrings) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "JSONB"
	}
	return "TEXT"
}

// JSONMap stores a string-to-string map as a JSON object column. The
// legalities column uses it with format names as keys and statuses such
// as "legal" or "banned" as values.
type JSONMap map[string]string

// Value implements driver.Valuer. A nil map is stored as an empty
// object, never as NULL.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]string(m))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, (*map[string]string)(m))
	case string:
		return json.Unmarshal([]byte(v), (*map[string]string)(m))
	default:
		return fmt.Errorf("cannot scan %T into JSONMap", value)
	}
}

// GormDBDataType maps the column to JSONB on PostgreSQL and plain text
// elsewhere.
func (JSONMap) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "JSONB"
	}
	return "TEXT"
}

// Card is one printing of a card. Several printings share an OracleID;
// searching with UniqueCards collapses them to one row each.
//
// Face columns are NULL or empty for the missing face of single-faced
// cards, which makes face-expanded predicates skip them naturally: a
// NULL front_power compares false against every bound value.
type Card struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	OracleID uuid.UUID `gorm:"type:uuid;index"`

	Name       string `gorm:"size:255;not null;index"`
	TypeLine   string `gorm:"size:255"`
	OracleText string

	ManaValue decimal.Decimal `gorm:"column:cmc;type:numeric"`

	FrontPower     decimal.NullDecimal `gorm:"type:numeric"`
	BackPower      decimal.NullDecimal `gorm:"type:numeric"`
	FrontToughness decimal.NullDecimal `gorm:"type:numeric"`
	BackToughness  decimal.NullDecimal `gorm:"type:numeric"`
	FrontLoyalty   decimal.NullDecimal `gorm:"type:numeric"`
	BackLoyalty    decimal.NullDecimal `gorm:"type:numeric"`

	BackName    string `gorm:"size:255"`
	FrontFlavor string
	BackFlavor  string

	// Color arrays hold single uppercase symbols ("W".."G"). Keywords
	// and Tags are stored lowercase; compiled fragments bind values
	// lowercased, and the JSON probes compare exactly.
	Colors        JSONStrings
	FrontColors   JSONStrings
	BackColors    JSONStrings
	ColorIdentity JSONStrings
	Keywords      JSONStrings
	Tags          JSONStrings
	Legalities    JSONMap

	SetCode string `gorm:"size:8;index"`
	Rarity  string `gorm:"size:16"`
	Layout  string `gorm:"size:32"`

	ReleasedAt time.Time

	Reserved bool
	Promo    bool
	Reprint  bool
	Foil     bool
}

// TableName pins the table compiled WHERE fragments run against.
func (Card) TableName() string {
	return "cards"
}
