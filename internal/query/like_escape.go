package query

import "strings"

const likeEscapeClause = "ESCAPE '\\'"

// escapeLikePattern neutralizes LIKE wildcards in user-supplied text
// so literals only ever match themselves.
func escapeLikePattern(value string) string {
	replacer := strings.NewReplacer(
		"\\", "\\\\",
		"%", "\\%",
		"_", "\\_",
	)
	return replacer.Replace(value)
}

// containsPattern wraps a literal for substring matching.
func containsPattern(value string) string {
	return "%" + escapeLikePattern(value) + "%"
}
