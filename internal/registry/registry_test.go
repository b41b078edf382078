package registry

import (
	"strings"
	"testing"
)

func minimalFields() []Field {
	return []Field{
		{Name: "name", Type: Text, Column: "name", Bare: true},
		{Name: "cmc", Type: Numeric, Column: "cmc", SupportsArithmetic: true},
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func([]Field) []Field
		wantErr string
	}{
		{
			name:    "valid minimal",
			mutate:  func(f []Field) []Field { return f },
			wantErr: "",
		},
		{
			name: "duplicate alias across fields",
			mutate: func(f []Field) []Field {
				f[1].Aliases = []string{"name"}
				return f
			},
			wantErr: "already registered",
		},
		{
			name: "missing column",
			mutate: func(f []Field) []Field {
				f[1].Column = ""
				return f
			},
			wantErr: "no column binding",
		},
		{
			name: "no bare field",
			mutate: func(f []Field) []Field {
				f[0].Bare = false
				return f
			},
			wantErr: "no bare-term field",
		},
		{
			name: "two bare fields",
			mutate: func(f []Field) []Field {
				return append(f, Field{Name: "oracle", Type: Text, Column: "oracle_text", Bare: true})
			},
			wantErr: "already held",
		},
		{
			name: "regex on numeric",
			mutate: func(f []Field) []Field {
				f[1].SupportsRegex = true
				return f
			},
			wantErr: "requires a text field",
		},
		{
			name: "arithmetic on text",
			mutate: func(f []Field) []Field {
				f[0].SupportsArithmetic = true
				return f
			},
			wantErr: "requires a numeric field",
		},
		{
			name: "face union on date",
			mutate: func(f []Field) []Field {
				return append(f, Field{
					Name: "released", Type: Date,
					FaceColumns: [2]string{"front_released", "back_released"},
				})
			},
			wantErr: "not applicable",
		},
		{
			name: "face union missing back column",
			mutate: func(f []Field) []Field {
				return append(f, Field{
					Name: "power", Type: Numeric,
					FaceColumns: [2]string{"front_power", ""},
				})
			},
			wantErr: "both face columns",
		},
		{
			name: "keyword without set mode",
			mutate: func(f []Field) []Field {
				return append(f, Field{Name: "keyword", Type: Keyword, Column: "keywords"})
			},
			wantErr: "needs a set mode",
		},
		{
			name: "set mode on text",
			mutate: func(f []Field) []Field {
				f[0].SetMode = SetArray
				return f
			},
			wantErr: "only applies to keyword",
		},
		{
			name: "boolean without flags",
			mutate: func(f []Field) []Field {
				return append(f, Field{Name: "is", Type: Boolean})
			},
			wantErr: "at least one flag",
		},
		{
			name: "bare on numeric",
			mutate: func(f []Field) []Field {
				f[0].Bare = false
				f[1].Bare = true
				return f
			},
			wantErr: "requires a text field",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.mutate(minimalFields()))
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("New() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("New() succeeded, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("New() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	reg := Default()
	tests := []struct {
		alias string
		want  string
	}{
		{"name", "name"},
		{"n", "name"},
		{"t", "type"},
		{"TYPE", "type"},
		{"o", "oracle"},
		{"mv", "cmc"},
		{"pow", "power"},
		{"c", "color"},
		{"id", "identity"},
		{"e", "set"},
		{"r", "rarity"},
		{"year", "released"},
	}
	for _, tt := range tests {
		field, ok := reg.Lookup(tt.alias)
		if !ok {
			t.Errorf("Lookup(%q) not found", tt.alias)
			continue
		}
		if field.Name != tt.want {
			t.Errorf("Lookup(%q) = %s, want %s", tt.alias, field.Name, tt.want)
		}
	}
	if _, ok := reg.Lookup("banana"); ok {
		t.Error("Lookup(banana) should not resolve")
	}
}

func TestBareField(t *testing.T) {
	reg := Default()
	if reg.BareField().Name != "name" {
		t.Errorf("BareField() = %s, want name", reg.BareField().Name)
	}
}

func TestCanonicalValue(t *testing.T) {
	reg := Default()
	rarity, _ := reg.Lookup("rarity")
	tests := []struct {
		value string
		want  string
		ok    bool
	}{
		{"c", "common", true},
		{"common", "common", true},
		{"M", "mythic", true},
		{"basic", "basic", false},
	}
	for _, tt := range tests {
		got, ok := rarity.CanonicalValue(tt.value)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("CanonicalValue(%q) = %q,%v want %q,%v", tt.value, got, ok, tt.want, tt.ok)
		}
	}

	// Open-domain fields accept anything, lowercased.
	set, _ := reg.Lookup("set")
	got, ok := set.CanonicalValue("NEO")
	if !ok || got != "neo" {
		t.Errorf("open domain CanonicalValue = %q,%v want neo,true", got, ok)
	}
}

func TestDefaultRegistryShape(t *testing.T) {
	reg := Default()
	power, _ := reg.Lookup("power")
	if !power.FaceUnion() {
		t.Error("power should be face-unioned")
	}
	if !power.SupportsArithmetic {
		t.Error("power should support arithmetic")
	}
	name, _ := reg.Lookup("name")
	if name.FaceUnion() {
		t.Error("name should not be face-unioned")
	}
	if !name.SupportsRegex {
		t.Error("name should support regex")
	}
	flavor, _ := reg.Lookup("ft")
	if !flavor.FaceUnion() || flavor.SupportsRegex {
		t.Error("flavor should be face-unioned without regex support")
	}
	is, _ := reg.Lookup("is")
	if is.Type != Boolean || len(is.Flags) == 0 {
		t.Error("is should be a boolean field with flags")
	}
}
