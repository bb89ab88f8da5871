package validation

import (
	"fmt"
	"regexp"
	"strings"

	"askchart/models"
)

// ForbiddenKeywords are rejected anywhere in an ad-hoc query.
var ForbiddenKeywords = []string{"DROP", "DELETE", "UPDATE", "INSERT", "CREATE", "ALTER"}

var forbiddenPattern = regexp.MustCompile(`(?i)\b(` + strings.Join(ForbiddenKeywords, "|") + `)\b`)

var (
	lineComment  = regexp.MustCompile(`--[^\n]*`)
	blockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

// CheckReadOnly rejects queries containing a mutating keyword or not
// starting with SELECT or WITH. This is a keyword check, not a parser;
// the tabular store additionally rolls back every query it runs.
func CheckReadOnly(query string) error {
	if kw := forbiddenPattern.FindString(query); kw != "" {
		return fmt.Errorf("%w: %s", models.ErrForbiddenOperation, strings.ToUpper(kw))
	}

	stripped := blockComment.ReplaceAllString(query, " ")
	stripped = lineComment.ReplaceAllString(stripped, " ")
	stripped = strings.TrimLeft(strings.TrimSpace(stripped), "(")
	fields := strings.Fields(stripped)
	if len(fields) == 0 {
		return fmt.Errorf("%w: empty query", models.ErrForbiddenOperation)
	}

	switch strings.ToUpper(fields[0]) {
	case "SELECT", "WITH":
		return nil
	}
	return fmt.Errorf("%w: statement must start with SELECT or WITH", models.ErrForbiddenOperation)
}
