package query

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/wubrg/tutor/internal/registry"
)

// Dialect selects the SQL flavor of compiled fragments.
type Dialect string

const (
	// DialectPostgres targets PostgreSQL: JSONB containment, ILIKE,
	// and case-insensitive POSIX regex.
	DialectPostgres Dialect = "postgres"
	// DialectSQLite targets SQLite with the JSON1 extension and a
	// registered REGEXP function.
	DialectSQLite Dialect = "sqlite"
)

// CompiledQuery is a WHERE fragment plus its bind parameters in
// placeholder order. Literal values never appear in the fragment
// itself.
type CompiledQuery struct {
	SQL  string
	Args []interface{}
}

// CompileOptions controls SQL generation.
type CompileOptions struct {
	// Dialect selects the SQL flavor. Empty means PostgreSQL.
	Dialect Dialect

	// PerFaceColorEquality compiles exact color matches per card face
	// instead of against the card-level color union.
	PerFaceColorEquality bool
}

// Compile lowers a validated tree into a parameterized WHERE fragment.
// Predicates on face-unioned fields expand to an OR across faces with
// consistent column substitution per branch. Compile does not fail on
// trees that parse and validate; an error here indicates a defect.
func Compile(node Node, opts CompileOptions) (*CompiledQuery, error) {
	if node == nil {
		return nil, fmt.Errorf("%w: nil tree", errUnsupportedNode)
	}
	dialect := opts.Dialect
	if dialect == "" {
		dialect = DialectPostgres
	}
	if dialect != DialectPostgres && dialect != DialectSQLite {
		return nil, fmt.Errorf("%w: %q", errUnknownDialect, dialect)
	}
	c := &compiler{dialect: dialect, perFaceColors: opts.PerFaceColorEquality, face: -1}
	sql, args, err := c.build(node)
	if err != nil {
		return nil, err
	}
	return &CompiledQuery{SQL: sql, Args: args}, nil
}

// compiler carries the rendering state. face is -1 for card-level
// rendering and 0 or 1 while expanding a predicate across faces.
type compiler struct {
	dialect       Dialect
	perFaceColors bool
	face          int
}

// build renders any node.
func (c *compiler) build(node Node) (string, []interface{}, error) {
	switch n := node.(type) {
	case *AndNode:
		return c.buildLogical(n.Left, n.Right, "AND")
	case *OrNode:
		return c.buildLogical(n.Left, n.Right, "OR")
	case *NotNode:
		child, args, err := c.build(n.Child)
		if err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("NOT (%s)", child), args, nil
	case *TextPredicate:
		return c.buildText(n)
	case *NumericComparison:
		return c.buildNumeric(n)
	case *ColorPredicate:
		return c.buildColor(n)
	case *SetPredicate:
		return c.buildSet(n)
	case *FlagPredicate:
		return c.buildFlag(n)
	case *DatePredicate:
		return c.buildDate(n)
	default:
		return "", nil, fmt.Errorf("%w: %T", errUnsupportedNode, node)
	}
}

// buildLogical renders a binary boolean combination. Both sides are
// parenthesized so operator precedence never leaks between branches.
func (c *compiler) buildLogical(left, right Node, op string) (string, []interface{}, error) {
	leftSQL, leftArgs, err := c.build(left)
	if err != nil {
		return "", nil, err
	}
	rightSQL, rightArgs, err := c.build(right)
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("(%s) %s (%s)", leftSQL, op, rightSQL), append(leftArgs, rightArgs...), nil
}

// acrossFaces renders a predicate once per card face and joins the
// renderings with OR. The face index steers column resolution so every
// field reference inside one branch substitutes consistently.
func (c *compiler) acrossFaces(render func() (string, []interface{}, error)) (string, []interface{}, error) {
	c.face = 0
	frontSQL, frontArgs, err := render()
	if err != nil {
		c.face = -1
		return "", nil, err
	}
	c.face = 1
	backSQL, backArgs, err := render()
	c.face = -1
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("(%s OR %s)", frontSQL, backSQL), append(frontArgs, backArgs...), nil
}

// column resolves a field's column for the current face context and
// quotes it.
func (c *compiler) column(field *registry.Field) (string, error) {
	name := field.Column
	if c.face >= 0 && field.FaceUnion() {
		name = field.FaceColumns[c.face]
	}
	return quoteColumn(name)
}

// quoteColumn validates and quotes a column identifier. Double quotes
// work for both supported dialects.
func quoteColumn(name string) (string, error) {
	if !isValidIdentifier(name) {
		return "", fmt.Errorf("%w: %q", errInvalidSQLIdentifier, name)
	}
	return `"` + name + `"`, nil
}

// isValidIdentifier reports whether name is a plain SQL identifier.
func isValidIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, ch := range name {
		switch {
		case ch >= 'a' && ch <= 'z':
		case ch >= 'A' && ch <= 'Z':
		case ch == '_':
		case ch >= '0' && ch <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// buildText renders a text predicate.
func (c *compiler) buildText(n *TextPredicate) (string, []interface{}, error) {
	if c.face < 0 && n.Field.Column == "" && n.Field.FaceUnion() {
		return c.acrossFaces(func() (string, []interface{}, error) { return c.buildText(n) })
	}
	column, err := c.column(n.Field)
	if err != nil {
		return "", nil, err
	}

	switch n.Op {
	case TextContains:
		pattern := containsPattern(n.Value)
		if c.dialect == DialectPostgres {
			return fmt.Sprintf("%s ILIKE ? %s", column, likeEscapeClause), []interface{}{pattern}, nil
		}
		return fmt.Sprintf("LOWER(%s) LIKE LOWER(?) %s", column, likeEscapeClause), []interface{}{pattern}, nil

	case TextEquals:
		return fmt.Sprintf("LOWER(%s) = LOWER(?)", column), []interface{}{n.Value}, nil

	case TextRegex:
		if c.dialect == DialectPostgres {
			return fmt.Sprintf("%s ~* ?", column), []interface{}{n.Value}, nil
		}
		return fmt.Sprintf("%s REGEXP ?", column), []interface{}{n.Value}, nil

	default:
		return "", nil, fmt.Errorf("%w: text op %d", errUnsupportedNode, int(n.Op))
	}
}

// buildNumeric renders a numeric comparison.
func (c *compiler) buildNumeric(n *NumericComparison) (string, []interface{}, error) {
	if c.face < 0 && (operandFaced(n.Left) || operandFaced(n.Right)) {
		return c.acrossFaces(func() (string, []interface{}, error) { return c.buildNumeric(n) })
	}
	leftSQL, leftArgs, err := c.buildOperand(n.Left)
	if err != nil {
		return "", nil, err
	}
	rightSQL, rightArgs, err := c.buildOperand(n.Right)
	if err != nil {
		return "", nil, err
	}
	sql := fmt.Sprintf("%s %s %s", leftSQL, n.Op.SQL(), rightSQL)
	return sql, append(leftArgs, rightArgs...), nil
}

// buildOperand renders one side of a numeric comparison.
func (c *compiler) buildOperand(operand NumericOperand) (string, []interface{}, error) {
	switch o := operand.(type) {
	case *NumberLiteral:
		return "?", []interface{}{numericArg(o.Value)}, nil

	case *FieldRef:
		column, err := c.column(o.Field)
		if err != nil {
			return "", nil, err
		}
		return column, nil, nil

	case *Arithmetic:
		leftSQL, leftArgs, err := c.buildOperand(o.Left)
		if err != nil {
			return "", nil, err
		}
		rightSQL, rightArgs, err := c.buildOperand(o.Right)
		if err != nil {
			return "", nil, err
		}
		// Division casts to REAL so 3/2 compares as 1.5, not 1.
		if o.Op == "/" {
			return fmt.Sprintf("(CAST(%s AS REAL) / %s)", leftSQL, rightSQL), append(leftArgs, rightArgs...), nil
		}
		return fmt.Sprintf("(%s %s %s)", leftSQL, o.Op, rightSQL), append(leftArgs, rightArgs...), nil

	default:
		return "", nil, fmt.Errorf("%w: %T", errUnsupportedOperand, operand)
	}
}

// operandFaced reports whether an operand references a field that only
// exists per face.
func operandFaced(operand NumericOperand) bool {
	switch o := operand.(type) {
	case *FieldRef:
		return o.Field.Column == "" && o.Field.FaceUnion()
	case *Arithmetic:
		return operandFaced(o.Left) || operandFaced(o.Right)
	default:
		return false
	}
}

// numericArg converts a decimal literal to a driver-friendly bind
// value: int64 when exact, float64 otherwise.
func numericArg(d decimal.Decimal) interface{} {
	if d.IsInteger() {
		return d.IntPart()
	}
	f, _ := d.Float64()
	return f
}
