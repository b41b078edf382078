package tutor

import (
	"reflect"
	"strings"
	"testing"
)

func TestCompileDefaultsToPostgres(t *testing.T) {
	compiled, err := Compile("c:gu")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	wantSQL := `("colors" @> CAST(? AS JSONB) AND "colors" <@ CAST(? AS JSONB))`
	if compiled.SQL != wantSQL {
		t.Errorf("SQL = %q, want %q", compiled.SQL, wantSQL)
	}
	wantArgs := []interface{}{`["U","G"]`, `["U","G"]`}
	if !reflect.DeepEqual(compiled.Args, wantArgs) {
		t.Errorf("Args = %#v, want %#v", compiled.Args, wantArgs)
	}
}

func TestCompileIsPure(t *testing.T) {
	first, err := Compile("t:creature cmc>=3 -c:u")
	if err != nil {
		t.Fatalf("first Compile failed: %v", err)
	}
	second, err := Compile("t:creature cmc>=3 -c:u")
	if err != nil {
		t.Fatalf("second Compile failed: %v", err)
	}

	if first == second {
		t.Error("Expected distinct result values from separate calls")
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Results differ: %#v vs %#v", first, second)
	}
}

func TestCompileImplicitAndExplicitAnd(t *testing.T) {
	implicit, err := Compile("t:creature t:sorcery")
	if err != nil {
		t.Fatalf("implicit form failed: %v", err)
	}
	explicit, err := Compile("t:creature and t:sorcery")
	if err != nil {
		t.Fatalf("explicit form failed: %v", err)
	}

	if !reflect.DeepEqual(implicit, explicit) {
		t.Errorf("Implicit AND compiled differently: %q vs %q", implicit.SQL, explicit.SQL)
	}
}

func TestCompileParameterShape(t *testing.T) {
	compiled, err := Compile("t:creature t:sorcery")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	if got := strings.Count(compiled.SQL, "?"); got != 2 {
		t.Errorf("Expected 2 placeholders, got %d in %q", got, compiled.SQL)
	}
	wantArgs := []interface{}{"%creature%", "%sorcery%"}
	if !reflect.DeepEqual(compiled.Args, wantArgs) {
		t.Errorf("Args = %#v, want %#v", compiled.Args, wantArgs)
	}
	if strings.Contains(compiled.SQL, "creature") || strings.Contains(compiled.SQL, "sorcery") {
		t.Errorf("Literal leaked into SQL: %q", compiled.SQL)
	}
}

func TestCompileBalancesDelimiters(t *testing.T) {
	inputs := []string{
		"((t:creature",
		`o:"unterminated`,
		`(c:u or c:r t:creature`,
		`o:"draw a card (then`,
	}

	for _, input := range inputs {
		if _, err := Compile(input); err != nil {
			t.Errorf("Compile(%q) failed: %v", input, err)
		}
	}

	// A stray closer is not repaired; the parser reports it.
	if _, err := Compile(")t:creature"); err == nil {
		t.Error("Expected a syntax error for a stray closing paren")
	}
}

func TestCompileFaceUnion(t *testing.T) {
	compiled, err := Compile("power=3")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	wantSQL := `("front_power" = ? OR "back_power" = ?)`
	if compiled.SQL != wantSQL {
		t.Errorf("SQL = %q, want %q", compiled.SQL, wantSQL)
	}
	wantArgs := []interface{}{int64(3), int64(3)}
	if !reflect.DeepEqual(compiled.Args, wantArgs) {
		t.Errorf("Args = %#v, want %#v", compiled.Args, wantArgs)
	}
}

func TestCompileWithDialect(t *testing.T) {
	compiled, err := CompileWithOptions("t:creature", WithDialect(DialectSQLite))
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	wantSQL := `LOWER("type_line") LIKE LOWER(?) ESCAPE '\'`
	if compiled.SQL != wantSQL {
		t.Errorf("SQL = %q, want %q", compiled.SQL, wantSQL)
	}
}

func TestCompileWithRegistry(t *testing.T) {
	const doc = `
fields:
  - name: karma
    type: numeric
    column: karma
    arithmetic: true
  - name: name
    type: text
    column: name
    regex: true
    bare: true
`
	reg, err := LoadRegistry(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("LoadRegistry failed: %v", err)
	}

	compiled, err := CompileWithOptions("karma>=2", WithRegistry(reg))
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if want := `"karma" >= ?`; compiled.SQL != want {
		t.Errorf("SQL = %q, want %q", compiled.SQL, want)
	}

	// The default registry does not know the field.
	if _, err := Compile("karma>=2"); err == nil {
		t.Error("Expected unknown field error with default registry")
	}
}

func TestCompilePerFaceColorEquality(t *testing.T) {
	unioned, err := Compile("c:gu")
	if err != nil {
		t.Fatalf("unioned Compile failed: %v", err)
	}
	if strings.Contains(unioned.SQL, "front_colors") {
		t.Errorf("Unioned equality should stay card-level: %q", unioned.SQL)
	}

	perFace, err := CompileWithOptions("c:gu", WithPerFaceColorEquality())
	if err != nil {
		t.Fatalf("per-face Compile failed: %v", err)
	}
	if !strings.Contains(perFace.SQL, "front_colors") || !strings.Contains(perFace.SQL, "back_colors") {
		t.Errorf("Per-face equality should expand across faces: %q", perFace.SQL)
	}
	if len(perFace.Args) != 4 {
		t.Errorf("Expected 4 args for two per-face equality checks, got %d", len(perFace.Args))
	}
}

func TestCompileErrors(t *testing.T) {
	t.Run("syntax error", func(t *testing.T) {
		compiled, err := Compile("t:")
		if compiled != nil {
			t.Error("Expected no compiled query on error")
		}
		if _, ok := AsSyntaxError(err); !ok {
			t.Errorf("Expected a syntax error, got %v", err)
		}
	})

	t.Run("unknown field with position", func(t *testing.T) {
		_, err := Compile("t:creature zzz:4")
		fieldErr, ok := AsUnknownFieldError(err)
		if !ok {
			t.Fatalf("Expected an unknown field error, got %v", err)
		}
		if fieldErr.Alias != "zzz" {
			t.Errorf("Alias = %q, want %q", fieldErr.Alias, "zzz")
		}
		if fieldErr.Position != 11 {
			t.Errorf("Position = %d, want 11", fieldErr.Position)
		}
	})

	t.Run("regex on unsupported field", func(t *testing.T) {
		compiled, err := Compile("ft:/secret/")
		if compiled != nil {
			t.Error("Expected no SQL for a rejected query")
		}
		typeErr, ok := AsTypeError(err)
		if !ok {
			t.Fatalf("Expected a type error, got %v", err)
		}
		if typeErr.Field != "flavor" {
			t.Errorf("Field = %q, want %q", typeErr.Field, "flavor")
		}
	})

	t.Run("empty query", func(t *testing.T) {
		if _, err := Compile(""); err == nil {
			t.Error("Expected an error for the empty query")
		}
	})
}

func TestExplain(t *testing.T) {
	dump, err := Explain("t:creature c:gu")
	if err != nil {
		t.Fatalf("Explain failed: %v", err)
	}
	want := `(and (contains type "creature") (color equals color UG))`
	if dump != want {
		t.Errorf("Explain = %q, want %q", dump, want)
	}

	if _, err := Explain("zzz:1"); err == nil {
		t.Error("Expected an error for an unknown field")
	}
}
