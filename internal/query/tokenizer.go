package query

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenType represents the type of a token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenWord
	TokenQuoted
	TokenRegex
	TokenOperator
	TokenArithmetic
	TokenBang
	TokenComma
	TokenLParen
	TokenRParen
	TokenLogical
	TokenNot
)

// Token represents a single token in a search query. Pos is the byte
// offset into the query string.
type Token struct {
	Type  TokenType
	Value string
	Pos   int
}

// Tokenizer splits a search query into tokens. Quoted strings and
// regex literals are atomic: their content is never re-inspected by
// the grammar.
type Tokenizer struct {
	input string
	pos   int
	ch    rune
	chw   int
	prev  TokenType
}

// NewTokenizer creates a tokenizer over input, which should already be
// delimiter-balanced.
func NewTokenizer(input string) *Tokenizer {
	t := &Tokenizer{input: input, prev: TokenEOF}
	t.decode()
	return t
}

// decode loads the rune at the current position.
func (t *Tokenizer) decode() {
	if t.pos >= len(t.input) {
		t.ch = 0
		t.chw = 0
		return
	}
	t.ch, t.chw = utf8.DecodeRuneInString(t.input[t.pos:])
}

// advance moves to the next rune.
func (t *Tokenizer) advance() {
	t.pos += t.chw
	t.decode()
}

// peek looks at the rune after the current one without advancing.
func (t *Tokenizer) peek() rune {
	if t.pos+t.chw >= len(t.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(t.input[t.pos+t.chw:])
	return r
}

// skipWhitespace skips whitespace characters.
func (t *Tokenizer) skipWhitespace() {
	for t.ch == ' ' || t.ch == '\t' || t.ch == '\n' || t.ch == '\r' {
		t.advance()
	}
}

// isWordStart reports whether ch can begin an unquoted word.
func isWordStart(ch rune) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_'
}

// readWord reads an unquoted word. A hyphen joins a word when followed
// by a letter, so card names like "Lim-Dul" stay whole while "power-1"
// splits for arithmetic. Between digits a hyphen also joins, keeping
// dates like "2020-01-01" in one token. Apostrophes and dots stay part
// of the word, including at its end, so "B.F.M." and "Urza's" survive.
func (t *Tokenizer) readWord() string {
	var result strings.Builder
	allDigits := true
	for t.ch != 0 {
		switch {
		case isWordStart(t.ch):
			if !unicode.IsDigit(t.ch) {
				allDigits = false
			}
			result.WriteRune(t.ch)
		case t.ch == '-' && unicode.IsLetter(t.peek()):
			allDigits = false
			result.WriteRune(t.ch)
		case t.ch == '-' && allDigits && result.Len() > 0 && unicode.IsDigit(t.peek()):
			result.WriteRune(t.ch)
		case (t.ch == '\'' || t.ch == '.') && (isWordStart(t.peek()) || result.Len() > 0):
			allDigits = false
			result.WriteRune(t.ch)
		default:
			return result.String()
		}
		t.advance()
	}
	return result.String()
}

// readQuoted reads a double-quoted string after the opening quote.
// Backslash escapes a quote or another backslash; any other backslash
// is literal content. Input is balanced, so a missing closing quote
// simply ends the literal at end of input.
func (t *Tokenizer) readQuoted() string {
	t.advance()

	var result strings.Builder
	for t.ch != 0 && t.ch != '"' {
		if t.ch == '\\' && (t.peek() == '"' || t.peek() == '\\') {
			t.advance()
			result.WriteRune(t.ch)
		} else {
			result.WriteRune(t.ch)
		}
		t.advance()
	}

	if t.ch == '"' {
		t.advance()
	}

	return result.String()
}

// readRegex reads a regex literal after the opening slash. Backslash
// before a slash escapes it; every other escape sequence passes
// through verbatim for the regex engine.
func (t *Tokenizer) readRegex() (string, error) {
	start := t.pos
	t.advance()

	var result strings.Builder
	for t.ch != 0 && t.ch != '/' {
		if t.ch == '\\' && t.peek() == '/' {
			t.advance()
			result.WriteRune(t.ch)
		} else {
			result.WriteRune(t.ch)
		}
		t.advance()
	}

	if t.ch != '/' {
		return "", syntaxErrorf(start, "unterminated regular expression")
	}
	t.advance()

	return result.String(), nil
}

// regexAllowed reports whether a slash at the current position opens a
// regex literal. After an operand a slash is the division operator;
// everywhere else it starts a regex.
func (t *Tokenizer) regexAllowed() bool {
	switch t.prev {
	case TokenWord, TokenQuoted, TokenRegex, TokenRParen:
		return false
	default:
		return true
	}
}

// NextToken returns the next token.
func (t *Tokenizer) NextToken() (Token, error) {
	t.skipWhitespace()

	if t.ch == 0 {
		return t.emit(Token{Type: TokenEOF, Pos: t.pos}), nil
	}

	pos := t.pos

	if t.ch == '"' {
		value := t.readQuoted()
		return t.emit(Token{Type: TokenQuoted, Value: value, Pos: pos}), nil
	}

	if t.ch == '/' {
		if t.regexAllowed() {
			value, err := t.readRegex()
			if err != nil {
				return Token{}, err
			}
			return t.emit(Token{Type: TokenRegex, Value: value, Pos: pos}), nil
		}
		t.advance()
		return t.emit(Token{Type: TokenArithmetic, Value: "/", Pos: pos}), nil
	}

	if token, ok := t.tokenizeSpecialChar(pos); ok {
		return t.emit(token), nil
	}

	if isWordStart(t.ch) || (t.ch == '.' && unicode.IsDigit(t.peek())) {
		value := t.readWord()
		return t.emit(t.classifyWord(value, pos)), nil
	}

	return Token{}, syntaxErrorf(pos, "unexpected character %q", t.ch)
}

// emit records the token type for regex disambiguation and returns
// the token.
func (t *Tokenizer) emit(token Token) Token {
	t.prev = token.Type
	return token
}

// tokenizeSpecialChar tokenizes operators, parentheses, and commas.
func (t *Tokenizer) tokenizeSpecialChar(pos int) (Token, bool) {
	switch t.ch {
	case '(':
		t.advance()
		return Token{Type: TokenLParen, Value: "(", Pos: pos}, true
	case ')':
		t.advance()
		return Token{Type: TokenRParen, Value: ")", Pos: pos}, true
	case ',':
		t.advance()
		return Token{Type: TokenComma, Value: ",", Pos: pos}, true
	case ':':
		t.advance()
		return Token{Type: TokenOperator, Value: ":", Pos: pos}, true
	case '=':
		t.advance()
		return Token{Type: TokenOperator, Value: "=", Pos: pos}, true
	case '<', '>':
		op := string(t.ch)
		t.advance()
		if t.ch == '=' {
			op += "="
			t.advance()
		}
		return Token{Type: TokenOperator, Value: op, Pos: pos}, true
	case '!':
		t.advance()
		if t.ch == '=' {
			t.advance()
			return Token{Type: TokenOperator, Value: "!=", Pos: pos}, true
		}
		return Token{Type: TokenBang, Value: "!", Pos: pos}, true
	case '+', '-', '*':
		op := string(t.ch)
		t.advance()
		return Token{Type: TokenArithmetic, Value: op, Pos: pos}, true
	}
	return Token{}, false
}

// classifyWord separates boolean keywords from plain words.
func (t *Tokenizer) classifyWord(value string, pos int) Token {
	switch strings.ToLower(value) {
	case "and", "or":
		return Token{Type: TokenLogical, Value: strings.ToLower(value), Pos: pos}
	case "not":
		return Token{Type: TokenNot, Value: "not", Pos: pos}
	}
	return Token{Type: TokenWord, Value: value, Pos: pos}
}

// TokenizeAll returns all tokens from the input, ending with EOF.
func (t *Tokenizer) TokenizeAll() ([]Token, error) {
	var tokens []Token

	for {
		token, err := t.NextToken()
		if err != nil {
			return nil, err
		}

		tokens = append(tokens, token)

		if token.Type == TokenEOF {
			break
		}
	}

	return tokens, nil
}
