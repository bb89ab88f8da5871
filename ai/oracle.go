package ai

import (
	"context"
	"strings"

	"github.com/tidwall/gjson"

	"askchart/models"
)

// Oracle turns a question about a table into an answer text that is
// expected to embed a JSON object describing the intent.
type Oracle interface {
	Answer(ctx context.Context, req Request) (string, error)
}

type Request struct {
	Question string
	// ContextLabel names the table the question is about.
	ContextLabel string
	Schema       []models.Column
}

// Answer is either Structured or FreeText.
type Answer interface {
	isAnswer()
}

// Structured is an answer the oracle returned in the expected shape.
type Structured struct {
	WantsChart  bool
	Query       string
	ChartKind   models.ChartKind
	Description string
}

// FreeText is an answer with no usable structure; Text is shown as is.
type FreeText struct {
	Text string
}

func (Structured) isAnswer() {}
func (FreeText) isAnswer()   {}

// ParseAnswer extracts the intent object from text. The object may be the
// whole text, sit inside a code fence, or be embedded in prose. A chart is
// only wanted when a query came with it.
func ParseAnswer(text string) Answer {
	obj, ok := extractObject(text)
	if !ok {
		return FreeText{Text: text}
	}

	res := gjson.Parse(obj)
	query := strings.TrimSpace(res.Get("sql_query").String())

	return Structured{
		WantsChart:  truthy(res.Get("chart_request")) && query != "",
		Query:       query,
		ChartKind:   models.ParseChartKind(res.Get("chart_type").String()),
		Description: res.Get("description").String(),
	}
}

func truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.True:
		return true
	case gjson.Number:
		return v.Int() == 1
	case gjson.String:
		s := strings.ToLower(strings.TrimSpace(v.Str))
		return s == "1" || s == "true" || s == "yes"
	}
	return false
}

func extractObject(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if isObject(trimmed) {
		return trimmed, true
	}

	for start := strings.IndexByte(trimmed, '{'); start >= 0; {
		if end := matchingBrace(trimmed, start); end > start {
			candidate := trimmed[start : end+1]
			if isObject(candidate) {
				return candidate, true
			}
		}
		next := strings.IndexByte(trimmed[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", false
}

func isObject(s string) bool {
	return gjson.Valid(s) && gjson.Parse(s).IsObject()
}

// matchingBrace returns the index of the brace closing the one at start,
// skipping braces inside JSON strings, or -1.
func matchingBrace(s string, start int) int {
	depth, inString, escaped := 0, false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
