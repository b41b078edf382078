package query

import (
	"fmt"
	"strings"

	"github.com/wubrg/tutor/internal/registry"
)

// Validate type-checks a parsed tree against the field capabilities
// recorded in its descriptors: regex only where supported, arithmetic
// only over numeric fields that allow it, enum values inside their
// domain, flags known. The walk is pure and returns the first
// mismatch as a TypeError.
func Validate(node Node) error {
	switch n := node.(type) {
	case *AndNode:
		if err := Validate(n.Left); err != nil {
			return err
		}
		return Validate(n.Right)

	case *OrNode:
		if err := Validate(n.Left); err != nil {
			return err
		}
		return Validate(n.Right)

	case *NotNode:
		return Validate(n.Child)

	case *TextPredicate:
		if n.Field.Type != registry.Text {
			return &TypeError{
				Field:    n.Field.Name,
				Reason:   fmt.Sprintf("text matching requires a text field, not %s", n.Field.Type),
				Position: n.Pos,
			}
		}
		if n.Op == TextRegex && !n.Field.SupportsRegex {
			return &TypeError{
				Field:    n.Field.Name,
				Operator: "regex",
				Reason:   "field does not support regular expressions",
				Position: n.Pos,
			}
		}
		return nil

	case *NumericComparison:
		if err := validateOperand(n.Left, false, n.Pos); err != nil {
			return err
		}
		return validateOperand(n.Right, false, n.Pos)

	case *ColorPredicate:
		if n.Field.Type != registry.Color && n.Field.Type != registry.ColorIdentity {
			return &TypeError{
				Field:    n.Field.Name,
				Reason:   fmt.Sprintf("color matching requires a color field, not %s", n.Field.Type),
				Position: n.Pos,
			}
		}
		return nil

	case *SetPredicate:
		if n.Field.Type != registry.Keyword {
			return &TypeError{
				Field:    n.Field.Name,
				Reason:   fmt.Sprintf("membership matching requires a keyword field, not %s", n.Field.Type),
				Position: n.Pos,
			}
		}
		for _, value := range n.Values {
			if _, ok := n.Field.CanonicalValue(value); !ok {
				return &TypeError{
					Field:    n.Field.Name,
					Reason:   fmt.Sprintf("value %q is not one of %s", value, strings.Join(n.Field.Enum, ", ")),
					Position: n.Pos,
				}
			}
		}
		return nil

	case *FlagPredicate:
		if _, ok := n.Field.Flags[n.Flag]; !ok {
			return &TypeError{
				Field:    n.Field.Name,
				Reason:   fmt.Sprintf("unknown flag %q", n.Flag),
				Position: n.Pos,
			}
		}
		return nil

	case *DatePredicate:
		if n.Field.Type != registry.Date {
			return &TypeError{
				Field:    n.Field.Name,
				Reason:   fmt.Sprintf("date matching requires a date field, not %s", n.Field.Type),
				Position: n.Pos,
			}
		}
		return nil

	default:
		return fmt.Errorf("%w: %T", errUnsupportedNode, node)
	}
}

// validateOperand checks a numeric operand. Field references must be
// numeric; inside arithmetic they must also allow arithmetic.
func validateOperand(operand NumericOperand, inArithmetic bool, pos int) error {
	switch o := operand.(type) {
	case *NumberLiteral:
		return nil

	case *FieldRef:
		if o.Field.Type != registry.Numeric {
			return &TypeError{
				Field:    o.Field.Name,
				Reason:   fmt.Sprintf("numeric comparison requires a numeric field, not %s", o.Field.Type),
				Position: o.Pos,
			}
		}
		if inArithmetic && !o.Field.SupportsArithmetic {
			return &TypeError{
				Field:    o.Field.Name,
				Reason:   "field does not support arithmetic",
				Position: o.Pos,
			}
		}
		return nil

	case *Arithmetic:
		if err := validateOperand(o.Left, true, pos); err != nil {
			return err
		}
		return validateOperand(o.Right, true, pos)

	default:
		return fmt.Errorf("%w: %T", errUnsupportedOperand, operand)
	}
}
