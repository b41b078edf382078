package query

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/wubrg/tutor/internal/colors"
	"github.com/wubrg/tutor/internal/registry"
)

// Color sets live in JSON array columns. PostgreSQL lowers set
// relations to JSONB containment; SQLite walks the array with
// json_each. Values reach the database only as bind parameters.

// buildColor renders a color predicate.
func (c *compiler) buildColor(n *ColorPredicate) (string, []interface{}, error) {
	if c.face < 0 && c.perFaceColors && n.Op == ColorEquals && n.Field.FaceUnion() {
		return c.acrossFaces(func() (string, []interface{}, error) { return c.buildColor(n) })
	}
	column, err := c.column(n.Field)
	if err != nil {
		return "", nil, err
	}

	switch n.Op {
	case ColorEquals:
		haveSQL, haveArgs := c.colorsContainAll(column, n.Colors)
		fitSQL, fitArgs := c.colorsSubsetOf(column, n.Colors)
		return fmt.Sprintf("(%s AND %s)", haveSQL, fitSQL), append(haveArgs, fitArgs...), nil

	case ColorSuperset, ColorContains:
		sql, args := c.colorsContainAll(column, n.Colors)
		return sql, args, nil

	case ColorSubset:
		sql, args := c.colorsSubsetOf(column, n.Colors)
		return sql, args, nil

	case ColorContainsAny:
		groups := n.Groups
		if len(groups) == 0 {
			groups = n.Colors.Singles()
		}
		parts := make([]string, 0, len(groups))
		var args []interface{}
		for _, group := range groups {
			sql, groupArgs := c.colorsContainAll(column, group)
			parts = append(parts, sql)
			args = append(args, groupArgs...)
		}
		if len(parts) == 1 {
			return parts[0], args, nil
		}
		return "(" + strings.Join(parts, " OR ") + ")", args, nil

	default:
		return "", nil, fmt.Errorf("%w: color op %d", errUnsupportedNode, int(n.Op))
	}
}

// colorsContainAll renders "column has every color of set". The empty
// set is contained in everything.
func (c *compiler) colorsContainAll(column string, set colors.Set) (string, []interface{}) {
	if c.dialect == DialectPostgres {
		return fmt.Sprintf("%s @> CAST(? AS JSONB)", column), []interface{}{jsonColors(set)}
	}
	if set.Empty() {
		return "1 = 1", []interface{}{}
	}
	parts := make([]string, 0, set.Len())
	args := make([]interface{}, 0, set.Len())
	for _, symbol := range set.Symbols() {
		parts = append(parts, fmt.Sprintf("EXISTS (SELECT 1 FROM json_each(%s) WHERE json_each.value = ?)", column))
		args = append(args, symbol)
	}
	if len(parts) == 1 {
		return parts[0], args
	}
	return "(" + strings.Join(parts, " AND ") + ")", args
}

// colorsSubsetOf renders "column has no color outside set". The empty
// set admits only colorless cards.
func (c *compiler) colorsSubsetOf(column string, set colors.Set) (string, []interface{}) {
	if c.dialect == DialectPostgres {
		return fmt.Sprintf("%s <@ CAST(? AS JSONB)", column), []interface{}{jsonColors(set)}
	}
	if set.Empty() {
		return fmt.Sprintf("NOT EXISTS (SELECT 1 FROM json_each(%s))", column), []interface{}{}
	}
	symbols := set.Symbols()
	placeholders := make([]string, len(symbols))
	args := make([]interface{}, len(symbols))
	for i, symbol := range symbols {
		placeholders[i] = "?"
		args[i] = symbol
	}
	sql := fmt.Sprintf("NOT EXISTS (SELECT 1 FROM json_each(%s) WHERE json_each.value NOT IN (%s))",
		column, strings.Join(placeholders, ", "))
	return sql, args
}

// buildSet renders a keyword membership predicate according to the
// field's storage mode.
func (c *compiler) buildSet(n *SetPredicate) (string, []interface{}, error) {
	column, err := c.column(n.Field)
	if err != nil {
		return "", nil, err
	}

	switch n.Field.SetMode {
	case registry.SetArray:
		parts := make([]string, 0, len(n.Values))
		var args []interface{}
		for _, value := range n.Values {
			sql, valueArgs := c.arrayMember(column, value)
			parts = append(parts, sql)
			args = append(args, valueArgs...)
		}
		return joinParts(parts, n.Op), args, nil

	case registry.SetLegality:
		parts := make([]string, 0, len(n.Values))
		var args []interface{}
		for _, value := range n.Values {
			sql, valueArgs := c.legalIn(column, value)
			parts = append(parts, sql)
			args = append(args, valueArgs...)
		}
		return joinParts(parts, n.Op), args, nil

	case registry.SetText:
		if n.Op == SetAnyOf && len(n.Values) > 1 {
			placeholders := make([]string, len(n.Values))
			args := make([]interface{}, len(n.Values))
			for i, value := range n.Values {
				placeholders[i] = "?"
				args[i] = strings.ToLower(value)
			}
			return fmt.Sprintf("LOWER(%s) IN (%s)", column, strings.Join(placeholders, ", ")), args, nil
		}
		parts := make([]string, 0, len(n.Values))
		var args []interface{}
		for _, value := range n.Values {
			parts = append(parts, fmt.Sprintf("LOWER(%s) = LOWER(?)", column))
			args = append(args, value)
		}
		return joinParts(parts, n.Op), args, nil

	default:
		return "", nil, fmt.Errorf("%w: set mode %d", errUnsupportedNode, int(n.Field.SetMode))
	}
}

// arrayMember renders membership of value in a JSON array column.
func (c *compiler) arrayMember(column, value string) (string, []interface{}) {
	if c.dialect == DialectPostgres {
		return fmt.Sprintf("%s @> CAST(? AS JSONB)", column), []interface{}{jsonStringArray(value)}
	}
	return fmt.Sprintf("EXISTS (SELECT 1 FROM json_each(%s) WHERE json_each.value = ?)", column), []interface{}{value}
}

// legalIn renders "the card is legal in format" against a legality
// object column.
func (c *compiler) legalIn(column, format string) (string, []interface{}) {
	if c.dialect == DialectPostgres {
		return fmt.Sprintf("%s @> CAST(? AS JSONB)", column), []interface{}{jsonLegality(format)}
	}
	return fmt.Sprintf("json_extract(%s, ?) = 'legal'", column), []interface{}{"$." + format}
}

// joinParts combines per-value conditions with the membership mode.
func joinParts(parts []string, op SetOp) string {
	if len(parts) == 1 {
		return parts[0]
	}
	joiner := " AND "
	if op == SetAnyOf {
		joiner = " OR "
	}
	return "(" + strings.Join(parts, joiner) + ")"
}

// buildFlag renders a boolean flag. The binding comes from the
// registry: a bare column name tests the column, anything else is a
// condition snippet from trusted configuration.
func (c *compiler) buildFlag(n *FlagPredicate) (string, []interface{}, error) {
	condition, ok := n.Field.Flags[n.Flag]
	if !ok {
		return "", nil, fmt.Errorf("%w: flag %q", errUnsupportedNode, n.Flag)
	}
	if isValidIdentifier(condition) {
		column, err := quoteColumn(condition)
		if err != nil {
			return "", nil, err
		}
		return column, []interface{}{}, nil
	}
	return "(" + condition + ")", []interface{}{}, nil
}

// buildDate renders a date comparison. Year-only values widen to the
// calendar year.
func (c *compiler) buildDate(n *DatePredicate) (string, []interface{}, error) {
	column, err := c.column(n.Field)
	if err != nil {
		return "", nil, err
	}

	if !n.YearOnly {
		return fmt.Sprintf("%s %s ?", column, n.Op.SQL()), []interface{}{n.When}, nil
	}

	start := time.Date(n.When.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	switch n.Op {
	case CmpEq:
		return fmt.Sprintf("(%s >= ? AND %s < ?)", column, column), []interface{}{start, end}, nil
	case CmpNe:
		return fmt.Sprintf("(%s < ? OR %s >= ?)", column, column), []interface{}{start, end}, nil
	case CmpLt:
		return fmt.Sprintf("%s < ?", column), []interface{}{start}, nil
	case CmpLe:
		return fmt.Sprintf("%s < ?", column), []interface{}{end}, nil
	case CmpGt:
		return fmt.Sprintf("%s >= ?", column), []interface{}{end}, nil
	case CmpGe:
		return fmt.Sprintf("%s >= ?", column), []interface{}{start}, nil
	default:
		return "", nil, fmt.Errorf("%w: date op %d", errUnsupportedNode, int(n.Op))
	}
}

// jsonColors renders a color set as its JSON array form.
func jsonColors(set colors.Set) string {
	data, _ := set.MarshalJSON()
	return string(data)
}

// jsonStringArray renders a single-element JSON string array.
func jsonStringArray(value string) string {
	data, _ := json.Marshal([]string{value})
	return string(data)
}

// jsonLegality renders the single-key legality object for a format.
func jsonLegality(format string) string {
	data, _ := json.Marshal(map[string]string{format: "legal"})
	return string(data)
}
