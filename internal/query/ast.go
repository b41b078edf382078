package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wubrg/tutor/internal/colors"
	"github.com/wubrg/tutor/internal/registry"
)

// Node represents a node in the parsed query tree. Nodes are immutable
// after construction and live only for the duration of a compilation.
type Node interface {
	node()
}

// AndNode represents a conjunction (explicit 'and' or juxtaposition).
type AndNode struct {
	Left  Node
	Right Node
}

func (n *AndNode) node() {}

// OrNode represents a disjunction.
type OrNode struct {
	Left  Node
	Right Node
}

func (n *OrNode) node() {}

// NotNode represents a negation ('-' prefix or 'not').
type NotNode struct {
	Child Node
}

func (n *NotNode) node() {}

// TextOp selects the matching mode of a text predicate.
type TextOp int

const (
	// TextContains matches case-insensitive substrings.
	TextContains TextOp = iota
	// TextEquals matches the whole value case-insensitively.
	TextEquals
	// TextRegex matches a case-insensitive POSIX regex.
	TextRegex
)

// String returns the operator name.
func (op TextOp) String() string {
	switch op {
	case TextContains:
		return "contains"
	case TextEquals:
		return "equals"
	case TextRegex:
		return "regex"
	default:
		return fmt.Sprintf("TextOp(%d)", int(op))
	}
}

// TextPredicate matches a text field against a literal value.
type TextPredicate struct {
	Field *registry.Field
	Op    TextOp
	Value string
	Pos   int
}

func (n *TextPredicate) node() {}

// CmpOp is a comparison operator shared by numeric and date
// predicates.
type CmpOp int

const (
	CmpEq CmpOp = iota
	CmpNe
	CmpLt
	CmpLe
	CmpGt
	CmpGe
)

// String returns the operator as typed in a query.
func (op CmpOp) String() string {
	switch op {
	case CmpEq:
		return "="
	case CmpNe:
		return "!="
	case CmpLt:
		return "<"
	case CmpLe:
		return "<="
	case CmpGt:
		return ">"
	case CmpGe:
		return ">="
	default:
		return fmt.Sprintf("CmpOp(%d)", int(op))
	}
}

// SQL returns the SQL spelling of the operator.
func (op CmpOp) SQL() string {
	if op == CmpNe {
		return "<>"
	}
	return op.String()
}

// NumericOperand is one side of a numeric comparison: a literal, a
// field reference, or an arithmetic expression over operands. All
// comparison shapes flow through this single union.
type NumericOperand interface {
	operand()
}

// NumberLiteral is a numeric constant.
type NumberLiteral struct {
	Value decimal.Decimal
}

func (o *NumberLiteral) operand() {}

// FieldRef references a numeric field.
type FieldRef struct {
	Field *registry.Field
	Pos   int
}

func (o *FieldRef) operand() {}

// Arithmetic combines two operands with +, -, *, or /.
type Arithmetic struct {
	Op    string
	Left  NumericOperand
	Right NumericOperand
}

func (o *Arithmetic) operand() {}

// NumericComparison compares two numeric operands.
type NumericComparison struct {
	Left  NumericOperand
	Op    CmpOp
	Right NumericOperand
	Pos   int
}

func (n *NumericComparison) node() {}

// ColorOp selects the set relation of a color predicate.
type ColorOp int

const (
	// ColorEquals matches the exact color set.
	ColorEquals ColorOp = iota
	// ColorSubset matches cards whose colors fit within the set.
	ColorSubset
	// ColorSuperset matches cards that have at least the set.
	ColorSuperset
	// ColorContains matches cards that have every color of the set.
	ColorContains
	// ColorContainsAny matches cards that have all colors of any one
	// group.
	ColorContainsAny
)

// String returns the relation name.
func (op ColorOp) String() string {
	switch op {
	case ColorEquals:
		return "equals"
	case ColorSubset:
		return "subset"
	case ColorSuperset:
		return "superset"
	case ColorContains:
		return "contains"
	case ColorContainsAny:
		return "contains-any"
	default:
		return fmt.Sprintf("ColorOp(%d)", int(op))
	}
}

// ColorPredicate matches a color or color-identity field against a
// color set. Groups is populated for ColorContainsAny, where each
// comma-separated item forms one group.
type ColorPredicate struct {
	Field  *registry.Field
	Op     ColorOp
	Colors colors.Set
	Groups []colors.Set
	Pos    int
}

func (n *ColorPredicate) node() {}

// SetOp selects the membership mode of a set predicate.
type SetOp int

const (
	// SetContains requires membership of every listed value.
	SetContains SetOp = iota
	// SetAnyOf requires membership of at least one listed value.
	SetAnyOf
)

// SetPredicate tests membership in a keyword field's value domain.
type SetPredicate struct {
	Field  *registry.Field
	Op     SetOp
	Values []string
	Pos    int
}

func (n *SetPredicate) node() {}

// FlagPredicate tests a named boolean flag (the is: syntax).
type FlagPredicate struct {
	Field *registry.Field
	Flag  string
	Pos   int
}

func (n *FlagPredicate) node() {}

// DatePredicate compares a date field against a calendar date. A bare
// year widens equality to the whole year.
type DatePredicate struct {
	Field    *registry.Field
	Op       CmpOp
	When     time.Time
	YearOnly bool
	Pos      int
}

func (n *DatePredicate) node() {}

// Dump renders a node tree as a compact s-expression for diagnostics.
func Dump(node Node) string {
	switch n := node.(type) {
	case *AndNode:
		return fmt.Sprintf("(and %s %s)", Dump(n.Left), Dump(n.Right))
	case *OrNode:
		return fmt.Sprintf("(or %s %s)", Dump(n.Left), Dump(n.Right))
	case *NotNode:
		return fmt.Sprintf("(not %s)", Dump(n.Child))
	case *TextPredicate:
		return fmt.Sprintf("(%s %s %q)", n.Op, n.Field.Name, n.Value)
	case *NumericComparison:
		return fmt.Sprintf("(cmp %s %s %s)", n.Op, dumpOperand(n.Left), dumpOperand(n.Right))
	case *ColorPredicate:
		if n.Op == ColorContainsAny {
			parts := make([]string, len(n.Groups))
			for i, group := range n.Groups {
				parts[i] = group.String()
			}
			return fmt.Sprintf("(color %s %s [%s])", n.Op, n.Field.Name, strings.Join(parts, " "))
		}
		return fmt.Sprintf("(color %s %s %s)", n.Op, n.Field.Name, n.Colors)
	case *SetPredicate:
		mode := "all"
		if n.Op == SetAnyOf {
			mode = "any"
		}
		return fmt.Sprintf("(set %s %s %s)", mode, n.Field.Name, strings.Join(n.Values, ","))
	case *FlagPredicate:
		return fmt.Sprintf("(flag %s)", n.Flag)
	case *DatePredicate:
		layout := "2006-01-02"
		if n.YearOnly {
			layout = "2006"
		}
		return fmt.Sprintf("(date %s %s %s)", n.Op, n.Field.Name, n.When.Format(layout))
	default:
		return fmt.Sprintf("(unknown %T)", node)
	}
}

// dumpOperand renders a numeric operand for diagnostics.
func dumpOperand(operand NumericOperand) string {
	switch o := operand.(type) {
	case *NumberLiteral:
		return o.Value.String()
	case *FieldRef:
		return o.Field.Name
	case *Arithmetic:
		return fmt.Sprintf("(%s %s %s)", o.Op, dumpOperand(o.Left), dumpOperand(o.Right))
	default:
		return fmt.Sprintf("(unknown %T)", operand)
	}
}
