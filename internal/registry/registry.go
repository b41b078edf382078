// Package registry defines the searchable-field catalog that drives
// parsing and compilation. Each field descriptor names the aliases
// players type, the storage type that selects the value sub-grammar,
// and the column bindings the compiler renders against.
package registry

import (
	"fmt"
	"strings"
)

// FieldType selects the value sub-grammar and the SQL lowering for a
// field.
type FieldType int

const (
	// Text fields hold free text and support contains, equals, and
	// optionally regex matching.
	Text FieldType = iota
	// Numeric fields participate in comparisons and arithmetic.
	Numeric
	// Color fields hold a color set stored as a JSON array of symbols.
	Color
	// ColorIdentity is a color set with deck-building semantics: the
	// colon operator means "fits within" rather than "contains".
	ColorIdentity
	// Keyword fields test membership against a finite value domain.
	Keyword
	// Boolean fields expose named flags through the is: syntax.
	Boolean
	// Date fields compare against calendar dates or bare years.
	Date
)

// String returns the lowercase name of the field type.
func (t FieldType) String() string {
	switch t {
	case Text:
		return "text"
	case Numeric:
		return "numeric"
	case Color:
		return "color"
	case ColorIdentity:
		return "color identity"
	case Keyword:
		return "keyword"
	case Boolean:
		return "boolean"
	case Date:
		return "date"
	default:
		return fmt.Sprintf("FieldType(%d)", int(t))
	}
}

// SetMode selects how a Keyword field's value domain is stored.
type SetMode int

const (
	// SetNone marks non-keyword fields.
	SetNone SetMode = iota
	// SetArray stores values as a JSON array; membership is element
	// containment.
	SetArray
	// SetLegality stores a JSON object mapping value to "legal";
	// membership checks the key's legality.
	SetLegality
	// SetText stores a single value in a plain text column.
	SetText
)

// Field describes one searchable field.
type Field struct {
	// Name is the canonical field name, also accepted as an alias.
	Name string
	// Aliases are the additional prefixes players may type.
	Aliases []string
	// Type selects the value sub-grammar.
	Type FieldType
	// Column is the card-level column binding.
	Column string
	// FaceColumns binds front and back face columns for fields whose
	// values live per card face. A non-empty first entry marks the
	// field as face-unioned: predicates expand to an OR across faces.
	FaceColumns [2]string
	// SupportsRegex permits regex literals as values (Text only).
	SupportsRegex bool
	// SupportsArithmetic permits the field inside arithmetic
	// expressions (Numeric only).
	SupportsArithmetic bool
	// SetMode selects the storage shape for Keyword fields.
	SetMode SetMode
	// Enum closes the value domain for SetText fields; empty means
	// any value is accepted.
	Enum []string
	// EnumAliases maps accepted spellings to canonical enum values.
	EnumAliases map[string]string
	// Flags maps is: flag names to SQL conditions for Boolean fields.
	Flags map[string]string
	// Bare marks the single Text field that unfielded terms bind to.
	Bare bool
}

// FaceUnion reports whether predicates on the field expand across
// card faces.
func (f *Field) FaceUnion() bool { return f.FaceColumns[0] != "" }

// CanonicalValue normalizes an enum spelling, reporting whether the
// value belongs to the field's domain. Open-domain fields accept
// everything lowercased.
func (f *Field) CanonicalValue(value string) (string, bool) {
	lower := strings.ToLower(value)
	if canonical, ok := f.EnumAliases[lower]; ok {
		lower = canonical
	}
	if len(f.Enum) == 0 {
		return lower, true
	}
	for _, allowed := range f.Enum {
		if lower == allowed {
			return lower, true
		}
	}
	return lower, false
}

// Registry resolves aliases to field descriptors. It is immutable
// after construction and safe for concurrent use.
type Registry struct {
	fields  []*Field
	aliases map[string]*Field
	bare    *Field
}

// New validates the descriptor list and builds the alias map.
// Construction fails on duplicate aliases, missing column bindings,
// or capability flags that do not fit the field's type.
func New(fields []Field) (*Registry, error) {
	reg := &Registry{
		fields:  make([]*Field, 0, len(fields)),
		aliases: make(map[string]*Field, len(fields)*2),
	}
	for i := range fields {
		field := fields[i]
		if err := validateField(&field); err != nil {
			return nil, err
		}
		owned := field
		for _, alias := range fieldAliases(&owned) {
			if existing, exists := reg.aliases[alias]; exists {
				return nil, fmt.Errorf("field %s: alias %q already registered to %s", owned.Name, alias, existing.Name)
			}
			reg.aliases[alias] = &owned
		}
		if owned.Bare {
			if reg.bare != nil {
				return nil, fmt.Errorf("field %s: bare-term binding already held by %s", owned.Name, reg.bare.Name)
			}
			reg.bare = &owned
		}
		reg.fields = append(reg.fields, &owned)
	}
	if reg.bare == nil {
		return nil, fmt.Errorf("registry has no bare-term field")
	}
	return reg, nil
}

// MustNew is New for descriptor lists known to be valid.
func MustNew(fields []Field) *Registry {
	reg, err := New(fields)
	if err != nil {
		panic(err)
	}
	return reg
}

// Lookup resolves an alias to its field descriptor. Aliases are
// case-insensitive.
func (r *Registry) Lookup(alias string) (*Field, bool) {
	field, ok := r.aliases[strings.ToLower(alias)]
	return field, ok
}

// BareField returns the field unfielded terms bind to.
func (r *Registry) BareField() *Field { return r.bare }

// BooleanField returns the first boolean field, which also serves the
// not: prefix. Nil when the registry has none.
func (r *Registry) BooleanField() *Field {
	for _, field := range r.fields {
		if field.Type == Boolean {
			return field
		}
	}
	return nil
}

// Fields returns the descriptors in registration order.
func (r *Registry) Fields() []*Field {
	out := make([]*Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// fieldAliases returns the lowercased name plus aliases.
func fieldAliases(f *Field) []string {
	out := make([]string, 0, len(f.Aliases)+1)
	out = append(out, strings.ToLower(f.Name))
	for _, alias := range f.Aliases {
		lower := strings.ToLower(alias)
		if lower != strings.ToLower(f.Name) {
			out = append(out, lower)
		}
	}
	return out
}

// validateField checks a single descriptor's internal consistency.
func validateField(f *Field) error {
	if f.Name == "" {
		return fmt.Errorf("field with empty name")
	}
	switch f.Type {
	case Boolean:
		if len(f.Flags) == 0 {
			return fmt.Errorf("field %s: boolean field needs at least one flag", f.Name)
		}
		for flag, condition := range f.Flags {
			if flag == "" || condition == "" {
				return fmt.Errorf("field %s: empty flag binding", f.Name)
			}
		}
	default:
		if f.Column == "" && !f.FaceUnion() {
			return fmt.Errorf("field %s: no column binding", f.Name)
		}
	}
	if f.FaceUnion() {
		switch f.Type {
		case Text, Numeric, Color:
			if f.FaceColumns[1] == "" {
				return fmt.Errorf("field %s: face union needs both face columns", f.Name)
			}
		default:
			return fmt.Errorf("field %s: face union not applicable to %s fields", f.Name, f.Type)
		}
	}
	if f.SupportsRegex && f.Type != Text {
		return fmt.Errorf("field %s: regex support requires a text field", f.Name)
	}
	if f.SupportsArithmetic && f.Type != Numeric {
		return fmt.Errorf("field %s: arithmetic support requires a numeric field", f.Name)
	}
	if f.Type == Keyword && f.SetMode == SetNone {
		return fmt.Errorf("field %s: keyword field needs a set mode", f.Name)
	}
	if f.Type != Keyword && f.SetMode != SetNone {
		return fmt.Errorf("field %s: set mode only applies to keyword fields", f.Name)
	}
	if f.Bare && f.Type != Text {
		return fmt.Errorf("field %s: bare-term binding requires a text field", f.Name)
	}
	if len(f.Enum) > 0 {
		seen := make(map[string]struct{}, len(f.Enum))
		for _, value := range f.Enum {
			lower := strings.ToLower(value)
			if _, exists := seen[lower]; exists {
				return fmt.Errorf("field %s: duplicate enum value %q", f.Name, lower)
			}
			seen[lower] = struct{}{}
		}
	}
	return nil
}
