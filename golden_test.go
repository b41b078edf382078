package tutor

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// renderCompiled serializes a compiled query for golden comparison.
// Each bind parameter is listed with its dynamic type so a silent
// change from int64 to float64 shows up in review.
func renderCompiled(raw string, compiled *CompiledQuery) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "query: %s\n", raw)
	fmt.Fprintf(&b, "sql: %s\n", compiled.SQL)
	if len(compiled.Args) == 0 {
		b.WriteString("args: (none)\n")
		return b.Bytes()
	}
	b.WriteString("args:\n")
	for i, arg := range compiled.Args {
		fmt.Fprintf(&b, "  $%d: %v (%T)\n", i+1, arg, arg)
	}
	return b.Bytes()
}

func TestCompileGolden(t *testing.T) {
	cases := []struct {
		name  string
		query string
		opts  []Option
	}{
		{name: "two_type_terms", query: "t:creature t:sorcery"},
		{name: "colors_exact_pair", query: "c:gu"},
		{name: "power_face_union", query: "power=3"},
		{name: "regex_oracle", query: "o:/draw .* cards?/"},
		{name: "or_group", query: "c:u or c:r"},
		{name: "negated_type", query: "-t:creature c:r"},
		{name: "identity_subset", query: "id<=esper"},
		{name: "arithmetic_faces", query: "cmc>power+1"},
		{name: "format_legal", query: "f:modern"},
		{name: "rarity_list", query: "r:c,u"},
		{name: "flag_dfc", query: "is:dfc"},
		{name: "release_year", query: "year:1993"},
		{name: "keyword_array", query: "kw:flying"},
		{name: "bare_and_quoted", query: `"lightning" bolt`},
		{name: "injection_literal", query: `name:"'; drop table cards; --"`},
		{name: "complex_nested", query: "(c:u or c:r) t:creature -is:reprint"},
		{
			name:  "perface_colors",
			query: "c:ur",
			opts:  []Option{WithPerFaceColorEquality()},
		},
		{
			name:  "sqlite_type_color",
			query: "t:creature c:g",
			opts:  []Option{WithDialect(DialectSQLite)},
		},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			compiled, err := CompileWithOptions(tc.query, tc.opts...)
			if err != nil {
				t.Fatalf("Compile(%q) failed: %v", tc.query, err)
			}
			g.Assert(t, tc.name, renderCompiled(tc.query, compiled))
		})
	}
}
