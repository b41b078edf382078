package query

import (
	"strings"
	"time"

	"github.com/wubrg/tutor/internal/colors"
	"github.com/wubrg/tutor/internal/registry"
)

// parseFieldPredicate parses the value after "FIELD OP", dispatching
// on the field's storage type.
func (p *parser) parseFieldPredicate(field *registry.Field, fieldTok, opTok Token) (Node, error) {
	switch field.Type {
	case registry.Text:
		return p.parseTextPredicate(field, fieldTok, opTok)
	case registry.Numeric:
		return p.parseNumericPredicate(field, fieldTok, opTok)
	case registry.Color, registry.ColorIdentity:
		return p.parseColorPredicate(field, fieldTok, opTok)
	case registry.Keyword:
		return p.parseSetPredicate(field, fieldTok, opTok)
	case registry.Boolean:
		if opTok.Value != ":" {
			return nil, &TypeError{
				Field:    field.Name,
				Operator: opTok.Value,
				Reason:   "boolean fields only support ':'",
				Position: fieldTok.Pos,
			}
		}
		return p.flagPredicateFor(field, fieldTok)
	case registry.Date:
		return p.parseDatePredicate(field, fieldTok, opTok)
	default:
		return nil, errUnsupportedNode
	}
}

// parseTextPredicate handles text fields: ':' matches substrings, '='
// whole values, '!=' negated whole values. A regex literal as the
// value switches to regex matching.
func (p *parser) parseTextPredicate(field *registry.Field, fieldTok, opTok Token) (Node, error) {
	switch opTok.Value {
	case ":", "=", "!=":
	default:
		return nil, &TypeError{
			Field:    field.Name,
			Operator: opTok.Value,
			Reason:   "text fields support ':', '=', and '!='",
			Position: fieldTok.Pos,
		}
	}

	value := p.peek()
	var node *TextPredicate
	switch {
	case value.Type == TokenRegex:
		p.consume()
		node = &TextPredicate{Field: field, Op: TextRegex, Value: value.Value, Pos: fieldTok.Pos}
	case wordLike(value) || value.Type == TokenQuoted:
		p.consume()
		op := TextEquals
		if opTok.Value == ":" {
			op = TextContains
		}
		node = &TextPredicate{Field: field, Op: op, Value: value.Value, Pos: fieldTok.Pos}
	default:
		return nil, syntaxErrorf(value.Pos, "expected a value for field %q", field.Name)
	}

	if opTok.Value == "!=" {
		return &NotNode{Child: node}, nil
	}
	return node, nil
}

// parseColorPredicate handles color and color-identity fields. The
// colon reads naturally per field: on colors a single symbol means
// "has this color" and several symbols mean "exactly these colors";
// on identity it means "fits within these colors". Comma lists match
// any item.
func (p *parser) parseColorPredicate(field *registry.Field, fieldTok, opTok Token) (Node, error) {
	groups, err := p.parseColorGroups(field)
	if err != nil {
		return nil, err
	}

	if len(groups) > 1 {
		if opTok.Value != ":" {
			return nil, syntaxErrorf(fieldTok.Pos, "color lists only combine with ':'")
		}
		return &ColorPredicate{Field: field, Op: ColorContainsAny, Groups: groups, Pos: fieldTok.Pos}, nil
	}

	set := groups[0]
	equals := &ColorPredicate{Field: field, Op: ColorEquals, Colors: set, Pos: fieldTok.Pos}

	switch opTok.Value {
	case ":":
		if field.Type == registry.ColorIdentity {
			return &ColorPredicate{Field: field, Op: ColorSubset, Colors: set, Pos: fieldTok.Pos}, nil
		}
		if set.Empty() {
			return equals, nil
		}
		if set.Len() == 1 {
			return &ColorPredicate{Field: field, Op: ColorContains, Colors: set, Pos: fieldTok.Pos}, nil
		}
		return equals, nil
	case "=":
		return equals, nil
	case "!=":
		return &NotNode{Child: equals}, nil
	case ">=":
		return &ColorPredicate{Field: field, Op: ColorSuperset, Colors: set, Pos: fieldTok.Pos}, nil
	case "<=":
		return &ColorPredicate{Field: field, Op: ColorSubset, Colors: set, Pos: fieldTok.Pos}, nil
	case ">":
		superset := &ColorPredicate{Field: field, Op: ColorSuperset, Colors: set, Pos: fieldTok.Pos}
		return &AndNode{Left: superset, Right: &NotNode{Child: equals}}, nil
	case "<":
		subset := &ColorPredicate{Field: field, Op: ColorSubset, Colors: set, Pos: fieldTok.Pos}
		return &AndNode{Left: subset, Right: &NotNode{Child: equals}}, nil
	default:
		return nil, &TypeError{
			Field:    field.Name,
			Operator: opTok.Value,
			Reason:   "color fields support ':', '=', '!=', '<', '<=', '>', and '>='",
			Position: fieldTok.Pos,
		}
	}
}

// parseColorGroups reads a color word or a comma list of color words.
func (p *parser) parseColorGroups(field *registry.Field) ([]colors.Set, error) {
	var groups []colors.Set
	for {
		value := p.peek()
		if !wordLike(value) && value.Type != TokenQuoted {
			return nil, syntaxErrorf(value.Pos, "expected a color value for field %q", field.Name)
		}
		p.consume()
		set, err := colors.Parse(value.Value)
		if err != nil {
			return nil, syntaxErrorf(value.Pos, "%v", err)
		}
		groups = append(groups, set)
		if p.peek().Type != TokenComma {
			return groups, nil
		}
		p.consume()
	}
}

// parseSetPredicate handles keyword fields: single values require
// membership, comma lists match any item, '!=' negates.
func (p *parser) parseSetPredicate(field *registry.Field, fieldTok, opTok Token) (Node, error) {
	switch opTok.Value {
	case ":", "=", "!=":
	default:
		return nil, &TypeError{
			Field:    field.Name,
			Operator: opTok.Value,
			Reason:   "keyword fields support ':', '=', and '!='",
			Position: fieldTok.Pos,
		}
	}

	var values []string
	for {
		value := p.peek()
		if !wordLike(value) && value.Type != TokenQuoted {
			return nil, syntaxErrorf(value.Pos, "expected a value for field %q", field.Name)
		}
		p.consume()
		canonical, _ := field.CanonicalValue(value.Value)
		values = append(values, canonical)
		if p.peek().Type != TokenComma {
			break
		}
		p.consume()
	}

	op := SetContains
	if len(values) > 1 {
		op = SetAnyOf
	}
	node := &SetPredicate{Field: field, Op: op, Values: values, Pos: fieldTok.Pos}
	if opTok.Value == "!=" {
		return &NotNode{Child: node}, nil
	}
	return node, nil
}

// flagPredicate resolves the not: prefix against the registry's
// boolean field.
func (p *parser) flagPredicate(atTok Token) (Node, error) {
	field := p.registry.BooleanField()
	if field == nil {
		return nil, &UnknownFieldError{Alias: atTok.Value, Position: atTok.Pos}
	}
	return p.flagPredicateFor(field, atTok)
}

// flagPredicateFor reads the flag name after is: or not:.
func (p *parser) flagPredicateFor(field *registry.Field, atTok Token) (Node, error) {
	value := p.peek()
	if !wordLike(value) {
		return nil, syntaxErrorf(value.Pos, "expected a flag name for field %q", field.Name)
	}
	p.consume()
	return &FlagPredicate{Field: field, Flag: strings.ToLower(value.Value), Pos: atTok.Pos}, nil
}

// parseDatePredicate handles date fields. Values are YYYY-MM-DD dates
// or bare years; a bare year widens equality to the whole year.
func (p *parser) parseDatePredicate(field *registry.Field, fieldTok, opTok Token) (Node, error) {
	op, ok := cmpOpFromString(opTok.Value)
	if !ok {
		return nil, &TypeError{
			Field:    field.Name,
			Operator: opTok.Value,
			Reason:   "date fields support ':', '=', '!=', '<', '<=', '>', and '>='",
			Position: fieldTok.Pos,
		}
	}

	value := p.peek()
	if !wordLike(value) && value.Type != TokenQuoted {
		return nil, syntaxErrorf(value.Pos, "expected a date for field %q", field.Name)
	}
	p.consume()

	if isYearWord(value.Value) {
		year, err := time.Parse("2006", value.Value)
		if err != nil {
			return nil, syntaxErrorf(value.Pos, "invalid year %q", value.Value)
		}
		return &DatePredicate{Field: field, Op: op, When: year, YearOnly: true, Pos: fieldTok.Pos}, nil
	}

	when, err := time.Parse("2006-01-02", value.Value)
	if err != nil {
		return nil, syntaxErrorf(value.Pos, "invalid date %q, expected YYYY or YYYY-MM-DD", value.Value)
	}
	return &DatePredicate{Field: field, Op: op, When: when, Pos: fieldTok.Pos}, nil
}

// cmpOpFromString maps an operator spelling to a comparison operator.
// The colon reads as equality.
func cmpOpFromString(op string) (CmpOp, bool) {
	switch op {
	case ":", "=":
		return CmpEq, true
	case "!=":
		return CmpNe, true
	case "<":
		return CmpLt, true
	case "<=":
		return CmpLe, true
	case ">":
		return CmpGt, true
	case ">=":
		return CmpGe, true
	default:
		return 0, false
	}
}

// isYearWord reports whether s is a four-digit year.
func isYearWord(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}
