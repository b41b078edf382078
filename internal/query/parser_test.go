package query

import (
	"testing"

	"github.com/wubrg/tutor/internal/registry"
)

func parseDefault(t *testing.T, input string) Node {
	t.Helper()
	node, err := Parse(input, registry.Default())
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", input, err)
	}
	return node
}

func assertDump(t *testing.T, input, want string) {
	t.Helper()
	if got := Dump(parseDefault(t, input)); got != want {
		t.Errorf("Parse(%q) = %s, want %s", input, got, want)
	}
}

func TestParseFieldPredicates(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Text contains",
			input: "t:creature",
			want:  `(contains type "creature")`,
		},
		{
			name:  "Text equals",
			input: "t=Sorcery",
			want:  `(equals type "Sorcery")`,
		},
		{
			name:  "Text not equals",
			input: "t!=land",
			want:  `(not (equals type "land"))`,
		},
		{
			name:  "Quoted value",
			input: `o:"draw a card"`,
			want:  `(contains oracle "draw a card")`,
		},
		{
			name:  "Regex value",
			input: `o:/draw.*card/`,
			want:  `(regex oracle "draw.*card")`,
		},
		{
			name:  "Alias resolves to canonical field",
			input: "manavalue=3",
			want:  `(cmp = cmc 3)`,
		},
		{
			name:  "Boolean keyword as value",
			input: "o:and",
			want:  `(contains oracle "and")`,
		},
		{
			name:  "Keyword membership",
			input: "kw:flying",
			want:  `(set all keyword flying)`,
		},
		{
			name:  "Legality",
			input: "f:modern",
			want:  `(set all format modern)`,
		},
		{
			name:  "Legality alias canonicalizes",
			input: "f:edh",
			want:  `(set all format commander)`,
		},
		{
			name:  "Rarity list",
			input: "r:c,u",
			want:  `(set any rarity common,uncommon)`,
		},
		{
			name:  "Negated set",
			input: "r!=mythic",
			want:  `(not (set all rarity mythic))`,
		},
		{
			name:  "Flag",
			input: "is:dfc",
			want:  `(flag dfc)`,
		},
		{
			name:  "Negated flag prefix",
			input: "not:reserved",
			want:  `(not (flag reserved))`,
		},
		{
			name:  "Year only date",
			input: "year:2020",
			want:  `(date = released 2020)`,
		},
		{
			name:  "Full date",
			input: "date>2020-01-01",
			want:  `(date > released 2020-01-01)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDump(t, tt.input, tt.want)
		})
	}
}

func TestParseBareTerms(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Bare word",
			input: "goblin",
			want:  `(contains name "goblin")`,
		},
		{
			name:  "Bare quoted phrase",
			input: `"lightning bolt"`,
			want:  `(contains name "lightning bolt")`,
		},
		{
			name:  "Bare regex",
			input: "/^gob/",
			want:  `(regex name "^gob")`,
		},
		{
			name:  "Exact name",
			input: "!fire",
			want:  `(equals name "fire")`,
		},
		{
			name:  "Exact quoted name",
			input: `!"Ach! Hans, Run!"`,
			want:  `(equals name "Ach! Hans, Run!")`,
		},
		{
			name:  "Hyphenated name stays one term",
			input: "Lim-Dul",
			want:  `(contains name "Lim-Dul")`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDump(t, tt.input, tt.want)
		})
	}
}

func TestParseBooleanStructure(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Implicit AND",
			input: "t:creature t:sorcery",
			want:  `(and (contains type "creature") (contains type "sorcery"))`,
		},
		{
			name:  "Explicit AND",
			input: "t:creature and t:sorcery",
			want:  `(and (contains type "creature") (contains type "sorcery"))`,
		},
		{
			name:  "OR binds looser than AND",
			input: "t:a or t:b t:c",
			want:  `(or (contains type "a") (and (contains type "b") (contains type "c")))`,
		},
		{
			name:  "Parens group",
			input: "(t:a or t:b) t:c",
			want:  `(and (or (contains type "a") (contains type "b")) (contains type "c"))`,
		},
		{
			name:  "Minus negates",
			input: "-t:land",
			want:  `(not (contains type "land"))`,
		},
		{
			name:  "Word NOT negates",
			input: "not t:land",
			want:  `(not (contains type "land"))`,
		},
		{
			name:  "Double negation",
			input: "--t:land",
			want:  `(not (not (contains type "land")))`,
		},
		{
			name:  "Negated quoted term",
			input: `-"evil"`,
			want:  `(not (contains name "evil"))`,
		},
		{
			name:  "Negation binds tighter than AND",
			input: "t:goblin -t:legendary",
			want:  `(and (contains type "goblin") (not (contains type "legendary")))`,
		},
		{
			name:  "Left associative OR",
			input: "a or b or c",
			want:  `(or (or (contains name "a") (contains name "b")) (contains name "c"))`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDump(t, tt.input, tt.want)
		})
	}
}

func TestParseImplicitAndMatchesExplicit(t *testing.T) {
	pairs := [][2]string{
		{"t:creature t:sorcery", "t:creature and t:sorcery"},
		{"c:g cmc=3", "c:g and cmc=3"},
		{`"a b" o:x`, `"a b" and o:x`},
		{"power>2 toughness>2 cmc<4", "power>2 and toughness>2 and cmc<4"},
	}

	for _, pair := range pairs {
		implicit := Dump(parseDefault(t, pair[0]))
		explicit := Dump(parseDefault(t, pair[1]))
		if implicit != explicit {
			t.Errorf("Parse(%q) = %s, but Parse(%q) = %s", pair[0], implicit, pair[1], explicit)
		}
	}
}

func TestParseNumericOperandShapes(t *testing.T) {
	// Every combination of literal, field, and arithmetic expression
	// on both sides of a comparison goes through the same production.
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Literal vs field",
			input: "1<power",
			want:  "(cmp < 1 power)",
		},
		{
			name:  "Literal vs literal",
			input: "1<2",
			want:  "(cmp < 1 2)",
		},
		{
			name:  "Literal vs arithmetic",
			input: "5<cmc+power",
			want:  "(cmp < 5 (+ cmc power))",
		},
		{
			name:  "Field vs literal",
			input: "power<5",
			want:  "(cmp < power 5)",
		},
		{
			name:  "Field vs field",
			input: "power>toughness",
			want:  "(cmp > power toughness)",
		},
		{
			name:  "Field vs arithmetic",
			input: "power<cmc*2",
			want:  "(cmp < power (* cmc 2))",
		},
		{
			name:  "Arithmetic vs literal",
			input: "cmc+1<5",
			want:  "(cmp < (+ cmc 1) 5)",
		},
		{
			name:  "Arithmetic vs field",
			input: "cmc+1<power",
			want:  "(cmp < (+ cmc 1) power)",
		},
		{
			name:  "Arithmetic vs arithmetic",
			input: "power+1>toughness-1",
			want:  "(cmp > (+ power 1) (- toughness 1))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDump(t, tt.input, tt.want)
		})
	}
}

func TestParseArithmeticPrecedence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Multiplication binds tighter",
			input: "cmc+1*2>power",
			want:  "(cmp > (+ cmc (* 1 2)) power)",
		},
		{
			name:  "Division chains left",
			input: "cmc/2/2>1",
			want:  "(cmp > (/ (/ cmc 2) 2) 1)",
		},
		{
			name:  "Parenthesized operand",
			input: "cmc>(1+2)*2",
			want:  "(cmp > cmc (* (+ 1 2) 2))",
		},
		{
			name:  "Group opening the comparison",
			input: "(power+toughness)>10",
			want:  "(cmp > (+ power toughness) 10)",
		},
		{
			name:  "Unary minus literal",
			input: "cmc>-1",
			want:  "(cmp > cmc -1)",
		},
		{
			name:  "Colon as numeric equality",
			input: "pow:4",
			want:  "(cmp = power 4)",
		},
		{
			name:  "Decimal literal",
			input: "cmc>3.5",
			want:  "(cmp > cmc 3.5)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDump(t, tt.input, tt.want)
		})
	}
}

func TestParseMinusDisambiguation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Minus continues arithmetic between operands",
			input: "power - 1 > 2",
			want:  "(cmp > (- power 1) 2)",
		},
		{
			name:  "Minus before predicate negates",
			input: "power -t:sorcery",
			want:  `(and (contains name "power") (not (contains type "sorcery")))`,
		},
		{
			name:  "Minus before bare word negates",
			input: "goblin -legendary",
			want:  `(and (contains name "goblin") (not (contains name "legendary")))`,
		},
		{
			name:  "Unspaced minus after letters splits into arithmetic",
			input: "power-1>2",
			want:  "(cmp > (- power 1) 2)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDump(t, tt.input, tt.want)
		})
	}
}

func TestParseColorPredicates(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Single color colon means has",
			input: "c:g",
			want:  "(color contains color G)",
		},
		{
			name:  "Two colors colon means exactly",
			input: "c:gu",
			want:  "(color equals color UG)",
		},
		{
			name:  "Color name",
			input: "c:red",
			want:  "(color contains color R)",
		},
		{
			name:  "Guild nickname",
			input: "c:simic",
			want:  "(color equals color UG)",
		},
		{
			name:  "Colorless",
			input: "c:c",
			want:  "(color equals color C)",
		},
		{
			name:  "Equals operator",
			input: "c=g",
			want:  "(color equals color G)",
		},
		{
			name:  "Not equals",
			input: "c!=g",
			want:  "(not (color equals color G))",
		},
		{
			name:  "Superset",
			input: "c>=wu",
			want:  "(color superset color WU)",
		},
		{
			name:  "Strict superset",
			input: "c>rg",
			want:  "(and (color superset color RG) (not (color equals color RG)))",
		},
		{
			name:  "Subset",
			input: "c<=esper",
			want:  "(color subset color WUB)",
		},
		{
			name:  "Strict subset",
			input: "c<wu",
			want:  "(and (color subset color WU) (not (color equals color WU)))",
		},
		{
			name:  "Identity colon means fits within",
			input: "id:esper",
			want:  "(color subset identity WUB)",
		},
		{
			name:  "Comma list matches any group",
			input: "c:rg,wu",
			want:  "(color contains-any color [RG WU])",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDump(t, tt.input, tt.want)
		})
	}
}

func TestParseErrors(t *testing.T) {
	reg := registry.Default()

	t.Run("Empty query", func(t *testing.T) {
		_, err := Parse("", reg)
		if _, ok := AsSyntaxError(err); !ok {
			t.Fatalf("expected SyntaxError, got %v", err)
		}
	})

	t.Run("Whitespace only", func(t *testing.T) {
		_, err := Parse("   ", reg)
		if _, ok := AsSyntaxError(err); !ok {
			t.Fatalf("expected SyntaxError, got %v", err)
		}
	})

	t.Run("Unknown field", func(t *testing.T) {
		_, err := Parse("foo:bar", reg)
		fieldErr, ok := AsUnknownFieldError(err)
		if !ok {
			t.Fatalf("expected UnknownFieldError, got %v", err)
		}
		if fieldErr.Alias != "foo" || fieldErr.Position != 0 {
			t.Errorf("got alias %q at %d, want foo at 0", fieldErr.Alias, fieldErr.Position)
		}
	})

	t.Run("Unknown field position after other atoms", func(t *testing.T) {
		_, err := Parse("t:creature foo:bar", reg)
		fieldErr, ok := AsUnknownFieldError(err)
		if !ok {
			t.Fatalf("expected UnknownFieldError, got %v", err)
		}
		if fieldErr.Position != 11 {
			t.Errorf("got position %d, want 11", fieldErr.Position)
		}
	})

	t.Run("Unknown field in comparison", func(t *testing.T) {
		_, err := Parse("cmc>wat", reg)
		fieldErr, ok := AsUnknownFieldError(err)
		if !ok {
			t.Fatalf("expected UnknownFieldError, got %v", err)
		}
		if fieldErr.Alias != "wat" {
			t.Errorf("got alias %q, want wat", fieldErr.Alias)
		}
	})

	t.Run("Text field with comparison operator", func(t *testing.T) {
		_, err := Parse("t>creature", reg)
		typeErr, ok := AsTypeError(err)
		if !ok {
			t.Fatalf("expected TypeError, got %v", err)
		}
		if typeErr.Field != "type" || typeErr.Operator != ">" {
			t.Errorf("got field %q operator %q, want type >", typeErr.Field, typeErr.Operator)
		}
	})

	t.Run("Boolean field with comparison operator", func(t *testing.T) {
		_, err := Parse("is>dfc", reg)
		if _, ok := AsTypeError(err); !ok {
			t.Fatalf("expected TypeError, got %v", err)
		}
	})

	t.Run("Missing value", func(t *testing.T) {
		_, err := Parse("t:", reg)
		if _, ok := AsSyntaxError(err); !ok {
			t.Fatalf("expected SyntaxError, got %v", err)
		}
	})

	t.Run("Trailing close paren", func(t *testing.T) {
		_, err := Parse("t:goblin)", reg)
		syntaxErr, ok := AsSyntaxError(err)
		if !ok {
			t.Fatalf("expected SyntaxError, got %v", err)
		}
		if syntaxErr.Position != 8 {
			t.Errorf("got position %d, want 8", syntaxErr.Position)
		}
	})

	t.Run("Dangling OR", func(t *testing.T) {
		_, err := Parse("t:goblin or", reg)
		if _, ok := AsSyntaxError(err); !ok {
			t.Fatalf("expected SyntaxError, got %v", err)
		}
	})

	t.Run("Missing comparison operand", func(t *testing.T) {
		_, err := Parse("cmc>", reg)
		if _, ok := AsSyntaxError(err); !ok {
			t.Fatalf("expected SyntaxError, got %v", err)
		}
	})

	t.Run("Bad color symbol", func(t *testing.T) {
		_, err := Parse("c:gx", reg)
		if _, ok := AsSyntaxError(err); !ok {
			t.Fatalf("expected SyntaxError, got %v", err)
		}
	})

	t.Run("Color list without colon", func(t *testing.T) {
		_, err := Parse("c=rg,wu", reg)
		if _, ok := AsSyntaxError(err); !ok {
			t.Fatalf("expected SyntaxError, got %v", err)
		}
	})

	t.Run("Invalid date", func(t *testing.T) {
		_, err := Parse("year:20x0", reg)
		if _, ok := AsSyntaxError(err); !ok {
			t.Fatalf("expected SyntaxError, got %v", err)
		}
	})

	t.Run("Nil registry", func(t *testing.T) {
		_, err := Parse("t:creature", nil)
		if err == nil {
			t.Fatal("expected error for nil registry")
		}
	})
}

func TestParsePositionsPointIntoInput(t *testing.T) {
	node := parseDefault(t, "t:creature cmc=3")
	and, ok := node.(*AndNode)
	if !ok {
		t.Fatalf("expected AndNode, got %T", node)
	}
	text, ok := and.Left.(*TextPredicate)
	if !ok {
		t.Fatalf("expected TextPredicate, got %T", and.Left)
	}
	if text.Pos != 0 {
		t.Errorf("text predicate position = %d, want 0", text.Pos)
	}
	cmp, ok := and.Right.(*NumericComparison)
	if !ok {
		t.Fatalf("expected NumericComparison, got %T", and.Right)
	}
	if cmp.Pos != 11 {
		t.Errorf("comparison position = %d, want 11", cmp.Pos)
	}
}
