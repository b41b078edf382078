package query

import (
	"fmt"
	"strings"

	"github.com/wubrg/tutor/internal/registry"
)

// OrderItem is one resolved ORDER BY key.
type OrderItem struct {
	Column     string
	Descending bool
}

// ParseOrder parses a comma-separated sort expression such as
// "cmc desc, name". Keys are field aliases resolved through the
// registry; each may carry an asc or desc suffix. Face-split fields
// sort on their front face.
func ParseOrder(input string, reg *registry.Registry) ([]OrderItem, error) {
	if reg == nil {
		return nil, errRegistryRequired
	}

	parts := strings.Split(input, ",")
	result := make([]OrderItem, 0, len(parts))

	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}

		tokens := strings.Fields(trimmed)
		item := OrderItem{Descending: false}

		if len(tokens) > 1 {
			direction := strings.ToLower(tokens[1])
			if direction == "desc" {
				item.Descending = true
			} else if direction != "asc" {
				return nil, fmt.Errorf("%w: %q, expected asc or desc", errOrderByInvalidDirection, tokens[1])
			}
		}
		if len(tokens) > 2 {
			return nil, fmt.Errorf("%w: %q", errOrderByInvalidDirection, strings.Join(tokens[2:], " "))
		}

		column, err := sortColumn(tokens[0], reg)
		if err != nil {
			return nil, err
		}
		item.Column = column
		result = append(result, item)
	}

	if len(result) == 0 {
		return nil, errOrderByEmpty
	}
	return result, nil
}

// sortColumn resolves a sort key to its quoted column reference.
func sortColumn(key string, reg *registry.Registry) (string, error) {
	field, ok := reg.Lookup(key)
	if !ok {
		return "", &UnknownFieldError{Alias: key}
	}

	switch field.Type {
	case registry.Text, registry.Numeric, registry.Date:
	case registry.Keyword:
		if field.SetMode != registry.SetText {
			return "", fmt.Errorf("field %q is not sortable", field.Name)
		}
	default:
		return "", fmt.Errorf("field %q is not sortable", field.Name)
	}

	column := field.Column
	if column == "" && field.FaceUnion() {
		column = field.FaceColumns[0]
	}
	return quoteColumn(column)
}
