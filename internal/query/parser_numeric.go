package query

import (
	"github.com/shopspring/decimal"

	"github.com/wubrg/tutor/internal/registry"
)

// Numeric comparisons run through one production regardless of
// operand shape: each side is a literal, a field reference, or an
// arithmetic expression over those. "power>3", "3<power", and
// "power+1>toughness*2" are all the same node type.

// parseNumericPredicate handles a numeric field followed by an
// operator: the field becomes the left operand of a comparison.
func (p *parser) parseNumericPredicate(field *registry.Field, fieldTok, opTok Token) (Node, error) {
	op, ok := cmpOpFromString(opTok.Value)
	if !ok {
		return nil, &TypeError{
			Field:    field.Name,
			Operator: opTok.Value,
			Reason:   "numeric fields support ':', '=', '!=', '<', '<=', '>', and '>='",
			Position: fieldTok.Pos,
		}
	}
	right, err := p.parseOperandExpr()
	if err != nil {
		return nil, err
	}
	return &NumericComparison{
		Left:  &FieldRef{Field: field, Pos: fieldTok.Pos},
		Op:    op,
		Right: right,
		Pos:   fieldTok.Pos,
	}, nil
}

// parseBareComparison parses a comparison that does not start with
// "FIELD OP", such as "3<power" or "power+2>toughness".
func (p *parser) parseBareComparison() (Node, error) {
	start := p.peek()
	left, err := p.parseOperandExpr()
	if err != nil {
		return nil, err
	}
	opTok := p.peek()
	if opTok.Type != TokenOperator || opTok.Value == ":" {
		return nil, syntaxErrorf(opTok.Pos, "expected a comparison operator, found %q", opTok.Value)
	}
	op, _ := cmpOpFromString(opTok.Value)
	p.consume()
	right, err := p.parseOperandExpr()
	if err != nil {
		return nil, err
	}
	return &NumericComparison{Left: left, Op: op, Right: right, Pos: start.Pos}, nil
}

// parseOperandExpr handles: term (("+" | "-") term)*
// A minus only continues the expression when a numeric operand
// follows; otherwise it belongs to a negated atom after an implicit
// AND.
func (p *parser) parseOperandExpr() (NumericOperand, error) {
	left, err := p.parseOperandTerm()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.Type != TokenArithmetic || (tok.Value != "+" && tok.Value != "-") {
			return left, nil
		}
		if tok.Value == "-" && !p.numericish(p.peekAt(1)) {
			return left, nil
		}
		p.consume()
		right, err := p.parseOperandTerm()
		if err != nil {
			return nil, err
		}
		left = &Arithmetic{Op: tok.Value, Left: left, Right: right}
	}
}

// parseOperandTerm handles: factor (("*" | "/") factor)*
func (p *parser) parseOperandTerm() (NumericOperand, error) {
	left, err := p.parseOperandFactor()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.Type != TokenArithmetic || (tok.Value != "*" && tok.Value != "/") {
			return left, nil
		}
		p.consume()
		right, err := p.parseOperandFactor()
		if err != nil {
			return nil, err
		}
		left = &Arithmetic{Op: tok.Value, Left: left, Right: right}
	}
}

// parseOperandFactor handles: "(" operandExpr ")" | "-" factor | NUMBER | FIELD
func (p *parser) parseOperandFactor() (NumericOperand, error) {
	tok := p.peek()
	switch {
	case tok.Type == TokenLParen:
		p.consume()
		inner, err := p.parseOperandExpr()
		if err != nil {
			return nil, err
		}
		if closing := p.peek(); closing.Type != TokenRParen {
			return nil, syntaxErrorf(closing.Pos, "expected ')' in arithmetic expression")
		}
		p.consume()
		return inner, nil

	case tok.Type == TokenArithmetic && tok.Value == "-":
		p.consume()
		factor, err := p.parseOperandFactor()
		if err != nil {
			return nil, err
		}
		if literal, ok := factor.(*NumberLiteral); ok {
			return &NumberLiteral{Value: literal.Value.Neg()}, nil
		}
		return &Arithmetic{Op: "-", Left: &NumberLiteral{Value: decimal.Zero}, Right: factor}, nil

	case tok.Type == TokenWord:
		p.consume()
		if isNumberWord(tok.Value) {
			value, err := decimal.NewFromString(tok.Value)
			if err != nil {
				return nil, syntaxErrorf(tok.Pos, "invalid number %q", tok.Value)
			}
			return &NumberLiteral{Value: value}, nil
		}
		field, ok := p.registry.Lookup(tok.Value)
		if !ok {
			return nil, &UnknownFieldError{Alias: tok.Value, Position: tok.Pos}
		}
		return &FieldRef{Field: field, Pos: tok.Pos}, nil

	default:
		return nil, syntaxErrorf(tok.Pos, "expected a number or numeric field, found %q", tok.Value)
	}
}

// numericish reports whether tok can begin a numeric operand. It
// keeps "-" disambiguation consistent between "power - 1" arithmetic
// and "power -t:sorcery" negation.
func (p *parser) numericish(tok Token) bool {
	if tok.Type == TokenLParen {
		return true
	}
	if tok.Type != TokenWord {
		return false
	}
	if isNumberWord(tok.Value) {
		return true
	}
	field, ok := p.registry.Lookup(tok.Value)
	return ok && field.Type == registry.Numeric
}

// isNumberWord reports whether s looks like a numeric literal.
func isNumberWord(s string) bool {
	hasDigit := false
	for _, ch := range s {
		switch {
		case ch >= '0' && ch <= '9':
			hasDigit = true
		case ch == '.':
		default:
			return false
		}
	}
	return hasDigit
}
