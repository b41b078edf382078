package query

import (
	"github.com/wubrg/tutor/internal/registry"
)

// Parse turns a search query into a node tree using reg to resolve
// field prefixes. The input should already be delimiter-balanced.
// The grammar, lowest precedence first:
//
//	query      = orExpr EOF
//	orExpr     = andExpr ("or" andExpr)*
//	andExpr    = notExpr (("and")? notExpr)*        // implicit AND between adjacent atoms
//	notExpr    = ("-" | "not") notExpr | primary
//	primary    = "(" orExpr ")" | "!" exactName | predicate | bareTerm
//	predicate  = FIELD OP value | operand CMP operand
//	bareTerm   = WORD | QUOTED | REGEX              // matches against the bare-term field
//
// The value sub-grammar after FIELD OP dispatches on the field's
// storage type. Errors are terminal: no partial tree is returned.
func Parse(input string, reg *registry.Registry) (Node, error) {
	if reg == nil {
		return nil, errRegistryRequired
	}
	tokens, err := NewTokenizer(input).TokenizeAll()
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens, registry: reg}
	if p.peek().Type == TokenEOF {
		return nil, syntaxErrorf(0, "empty query")
	}
	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Type != TokenEOF {
		return nil, syntaxErrorf(tok.Pos, "unexpected %q", tok.Value)
	}
	return node, nil
}

// parser is a recursive descent parser over a token slice.
type parser struct {
	tokens   []Token
	pos      int
	registry *registry.Registry
}

// peek returns the current token without consuming it.
func (p *parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

// peekAt looks ahead offset tokens from the current position.
func (p *parser) peekAt(offset int) Token {
	if p.pos+offset >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos+offset]
}

// consume returns the current token and advances past it.
func (p *parser) consume() Token {
	tok := p.peek()
	if tok.Type != TokenEOF {
		p.pos++
	}
	return tok
}

// parseOr handles: andExpr ("or" andExpr)*
func (p *parser) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == TokenLogical && p.peek().Value == "or" {
		p.consume()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &OrNode{Left: left, Right: right}
	}
	return left, nil
}

// parseAnd handles: notExpr (("and")? notExpr)*
// Adjacent atoms with no keyword between them combine with implicit
// AND, identical in meaning to an explicit 'and'.
func (p *parser) parseAnd() (Node, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.Type == TokenLogical && tok.Value == "and" {
			p.consume()
		} else if !p.atomStart(tok) {
			return left, nil
		}
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &AndNode{Left: left, Right: right}
	}
}

// atomStart reports whether tok can begin an atom, which decides where
// implicit AND applies.
func (p *parser) atomStart(tok Token) bool {
	switch tok.Type {
	case TokenWord, TokenQuoted, TokenRegex, TokenBang, TokenLParen, TokenNot:
		return true
	case TokenArithmetic:
		return tok.Value == "-"
	default:
		return false
	}
}

// parseNot handles: ("-" | "not") notExpr | primary
// The not: prefix form negates a flag and is handled here because the
// keyword arrives as its own token.
func (p *parser) parseNot() (Node, error) {
	tok := p.peek()
	if tok.Type == TokenNot && p.peekAt(1).Type == TokenOperator && p.peekAt(1).Value == ":" {
		p.consume()
		p.consume()
		flag, err := p.flagPredicate(tok)
		if err != nil {
			return nil, err
		}
		return &NotNode{Child: flag}, nil
	}
	if tok.Type == TokenNot || (tok.Type == TokenArithmetic && tok.Value == "-") {
		p.consume()
		child, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &NotNode{Child: child}, nil
	}
	return p.parsePrimary()
}

// parsePrimary handles: "(" orExpr ")" | "!" exactName | predicate | bareTerm
func (p *parser) parsePrimary() (Node, error) {
	tok := p.peek()
	switch tok.Type {
	case TokenLParen:
		start := p.pos
		p.consume()
		inner, err := p.parseOr()
		if err == nil {
			if closing := p.peek(); closing.Type == TokenRParen {
				p.consume()
				return inner, nil
			}
			err = syntaxErrorf(p.peek().Pos, "expected ')', found %q", p.peek().Value)
		}
		// A parenthesized span that fails as a boolean group may still
		// open an arithmetic operand, as in "(power+toughness)>10".
		p.pos = start
		if node, retryErr := p.parseBareComparison(); retryErr == nil {
			return node, nil
		}
		p.pos = start
		return nil, err

	case TokenBang:
		p.consume()
		value := p.peek()
		if !wordLike(value) && value.Type != TokenQuoted {
			return nil, syntaxErrorf(value.Pos, "expected a name after '!'")
		}
		p.consume()
		return &TextPredicate{
			Field: p.registry.BareField(),
			Op:    TextEquals,
			Value: value.Value,
			Pos:   tok.Pos,
		}, nil

	case TokenQuoted:
		p.consume()
		return &TextPredicate{
			Field: p.registry.BareField(),
			Op:    TextContains,
			Value: tok.Value,
			Pos:   tok.Pos,
		}, nil

	case TokenRegex:
		p.consume()
		return &TextPredicate{
			Field: p.registry.BareField(),
			Op:    TextRegex,
			Value: tok.Value,
			Pos:   tok.Pos,
		}, nil

	case TokenWord:
		return p.parseWordAtom(tok)

	case TokenRParen:
		return nil, syntaxErrorf(tok.Pos, "unexpected ')'")

	case TokenEOF:
		return nil, syntaxErrorf(tok.Pos, "unexpected end of query")

	default:
		return nil, syntaxErrorf(tok.Pos, "unexpected %q", tok.Value)
	}
}

// parseWordAtom disambiguates a word at atom position: a fielded
// predicate when a registered field precedes an operator, a bare
// numeric comparison when an operator or arithmetic follows, and a
// bare term otherwise.
func (p *parser) parseWordAtom(tok Token) (Node, error) {
	next := p.peekAt(1)

	if next.Type == TokenOperator {
		if field, ok := p.registry.Lookup(tok.Value); ok {
			p.consume()
			op := p.consume()
			return p.parseFieldPredicate(field, tok, op)
		}
		if next.Value != ":" && isNumberWord(tok.Value) {
			return p.parseBareComparison()
		}
		return nil, &UnknownFieldError{Alias: tok.Value, Position: tok.Pos}
	}

	if next.Type == TokenArithmetic && next.Value != "-" {
		return p.parseBareComparison()
	}
	if next.Type == TokenArithmetic && next.Value == "-" && p.operandContinues() {
		return p.parseBareComparison()
	}

	p.consume()
	return &TextPredicate{
		Field: p.registry.BareField(),
		Op:    TextContains,
		Value: tok.Value,
		Pos:   tok.Pos,
	}, nil
}

// operandContinues distinguishes "power - 1 > cmc" from a term
// followed by a negated atom such as "power -t:sorcery". A minus
// continues an operand only when both the current word and the token
// after the minus are numeric in nature.
func (p *parser) operandContinues() bool {
	if !p.numericish(p.peek()) {
		return false
	}
	return p.numericish(p.peekAt(2))
}

// wordLike reports whether tok carries word text. Boolean keywords
// are word-like in value position so names containing "and", "or",
// or "not" stay searchable.
func wordLike(tok Token) bool {
	switch tok.Type {
	case TokenWord, TokenLogical, TokenNot:
		return true
	default:
		return false
	}
}
