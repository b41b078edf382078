package query

import "strings"

// Balance repairs unclosed parentheses and quotes so the tokenizer
// never sees unbalanced input. Missing closers are appended in reverse
// order of opening. Content inside quoted strings and regex literals
// is opaque to balancing. Stray closers are left in place for the
// parser to report. Balance never fails.
func Balance(input string) string {
	var stack []byte
	inQuote := false
	inRegex := false
	escaped := false
	prevOperand := false

	for i := 0; i < len(input); i++ {
		ch := input[i]

		if escaped {
			escaped = false
			continue
		}

		if inQuote {
			switch ch {
			case '\\':
				escaped = true
			case '"':
				inQuote = false
				stack = stack[:len(stack)-1]
				prevOperand = true
			}
			continue
		}

		if inRegex {
			switch ch {
			case '\\':
				escaped = true
			case '/':
				inRegex = false
				prevOperand = true
			}
			continue
		}

		switch {
		case ch == '"':
			inQuote = true
			stack = append(stack, '"')
		case ch == '(':
			stack = append(stack, '(')
			prevOperand = false
		case ch == ')':
			if len(stack) > 0 && stack[len(stack)-1] == '(' {
				stack = stack[:len(stack)-1]
			}
			prevOperand = true
		case ch == '/':
			// After an operand a slash divides; elsewhere it opens a
			// regex literal.
			if prevOperand {
				prevOperand = false
			} else {
				inRegex = true
			}
		case isWordByte(ch):
			prevOperand = true
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			// Whitespace does not change operand position.
		default:
			prevOperand = false
		}
	}

	if len(stack) == 0 {
		return input
	}

	var out strings.Builder
	out.Grow(len(input) + len(stack) + 1)
	out.WriteString(input)
	// A trailing backslash inside a quote stays a literal backslash
	// rather than escaping the repaired closer.
	if escaped && inQuote {
		out.WriteByte('\\')
	}
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '"' {
			out.WriteByte('"')
		} else {
			out.WriteByte(')')
		}
	}
	return out.String()
}

// isWordByte reports whether ch can appear inside an unquoted word.
// Multi-byte UTF-8 sequences count as word content.
func isWordByte(ch byte) bool {
	switch {
	case ch >= 'a' && ch <= 'z':
		return true
	case ch >= 'A' && ch <= 'Z':
		return true
	case ch >= '0' && ch <= '9':
		return true
	case ch == '_' || ch == '\'' || ch == '.':
		return true
	case ch >= 0x80:
		return true
	}
	return false
}
