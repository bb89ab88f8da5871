package ai

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"askchart/models"
)

// yearUse says how a rule treats a year mentioned in the question.
type yearUse int

const (
	yearIgnored yearUse = iota
	yearOptional
	yearRequired
)

// keywordRule matches when every keyword group has a hit and the dataset
// is one of tabs (any dataset when tabs is empty). Templates may use
// {{table}}, {{year}} and {{year_filter}}.
type keywordRule struct {
	tabs        []string
	keywords    [][]string
	year        yearUse
	query       string
	kind        models.ChartKind
	description string
}

var (
	categoryWords = []string{"카테고리", "category"}
	salesWords    = []string{"매출", "sales"}
	ratingWords   = []string{"레이팅", "평점", "rating"}
)

// Category rules come before the year rules so "2024년 카테고리별 매출" is
// a category breakdown filtered to 2024.
var keywordRules = []keywordRule{
	{
		tabs:        []string{"tab1"},
		keywords:    [][]string{categoryWords, salesWords},
		year:        yearOptional,
		query:       "SELECT category, SUM(sales) AS total_sales FROM {{table}}{{year_filter}} GROUP BY category ORDER BY total_sales DESC",
		kind:        models.ChartDoughnut,
		description: "Total sales by category.",
	},
	{
		tabs:        []string{"tab1"},
		keywords:    [][]string{categoryWords, ratingWords},
		year:        yearOptional,
		query:       "SELECT category, AVG(rating) AS avg_rating FROM {{table}}{{year_filter}} GROUP BY category ORDER BY avg_rating DESC",
		kind:        models.ChartBar,
		description: "Average rating by category.",
	},
	{
		tabs:        []string{"tab1"},
		keywords:    [][]string{ratingWords},
		year:        yearRequired,
		query:       "SELECT quarter, AVG(rating) AS avg_rating FROM {{table}} WHERE year = {{year}} GROUP BY quarter ORDER BY quarter",
		kind:        models.ChartBar,
		description: "Average rating per quarter of {{year}}.",
	},
	{
		tabs:        []string{"tab1"},
		keywords:    [][]string{salesWords},
		year:        yearRequired,
		query:       "SELECT quarter, SUM(sales) AS total_sales FROM {{table}} WHERE year = {{year}} GROUP BY quarter ORDER BY quarter",
		kind:        models.ChartLine,
		description: "Total sales per quarter of {{year}}.",
	},
	{
		tabs:        []string{"tab1"},
		keywords:    [][]string{{"연도", "연간", "year"}},
		query:       "SELECT year, AVG(rating) AS avg_rating, SUM(sales) AS total_sales FROM {{table}} GROUP BY year ORDER BY year",
		kind:        models.ChartLine,
		description: "Yearly trend of rating and sales.",
	},
	{
		tabs:        []string{"tab2"},
		keywords:    [][]string{{"상위", "top"}},
		query:       "SELECT product_name, stock FROM {{table}} ORDER BY stock DESC LIMIT 10",
		kind:        models.ChartBar,
		description: "Top 10 products by stock.",
	},
	{
		tabs:        []string{"tab3"},
		keywords:    [][]string{{"상위", "top"}},
		query:       "SELECT region, COUNT(*) AS customer_count FROM {{table}} GROUP BY region ORDER BY customer_count DESC LIMIT 5",
		kind:        models.ChartPie,
		description: "Top 5 regions by customer count.",
	},
	{
		tabs:        []string{"tab1"},
		keywords:    [][]string{{"분기", "quarter"}},
		query:       "SELECT quarter, AVG(rating) AS avg_rating FROM {{table}} GROUP BY quarter ORDER BY quarter",
		kind:        models.ChartBar,
		description: "Average rating by quarter.",
	},
	{
		tabs:        []string{"tab2"},
		keywords:    [][]string{categoryWords},
		query:       "SELECT category, COUNT(*) AS product_count, SUM(stock) AS total_stock FROM {{table}} GROUP BY category ORDER BY product_count DESC",
		kind:        models.ChartBar,
		description: "Products and stock by category.",
	},
	{
		tabs:        []string{"tab3"},
		keywords:    [][]string{{"지역", "region"}},
		query:       "SELECT region, AVG(satisfaction_score) AS avg_satisfaction FROM {{table}} GROUP BY region ORDER BY avg_satisfaction DESC",
		kind:        models.ChartBar,
		description: "Average satisfaction by region.",
	},
	{
		tabs:        []string{"tab1"},
		keywords:    [][]string{{"차트", "그래프", "보여", "chart", "graph", "show"}},
		query:       "SELECT year || '-' || quarter AS period, AVG(rating) AS avg_rating FROM {{table}} GROUP BY year, quarter ORDER BY year, quarter",
		kind:        models.ChartLine,
		description: "Average rating by year and quarter.",
	},
	{
		tabs:        []string{"tab2"},
		keywords:    [][]string{{"차트", "그래프", "보여", "chart", "graph", "show"}},
		query:       "SELECT category, COUNT(*) AS product_count FROM {{table}} GROUP BY category",
		kind:        models.ChartPie,
		description: "Product distribution by category.",
	},
	{
		tabs:        []string{"tab3"},
		keywords:    [][]string{{"차트", "그래프", "보여", "chart", "graph", "show"}},
		query:       "SELECT region, COUNT(*) AS customer_count FROM {{table}} GROUP BY region",
		kind:        models.ChartDoughnut,
		description: "Customer distribution by region.",
	},
}

const noChartDescription = "The analysis you asked for has been performed."

var (
	yearPattern  = regexp.MustCompile(`(?:^|\D)(20\d{2})(?:\D|$)`)
	tablePattern = regexp.MustCompile(`\b([A-Za-z][A-Za-z0-9_]*)_data\b`)
)

// KeywordOracle answers from a fixed keyword table instead of a model. It
// produces the same JSON text a model is asked for.
type KeywordOracle struct{}

func NewKeywordOracle() *KeywordOracle {
	return &KeywordOracle{}
}

func (KeywordOracle) Answer(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	out, err := json.Marshal(Match(req.Question, req.ContextLabel))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// KeywordAnswer is the wire shape of a keyword match.
type KeywordAnswer struct {
	ChartRequest int              `json:"chart_request"`
	SQLQuery     string           `json:"sql_query,omitempty"`
	ChartType    models.ChartKind `json:"chart_type,omitempty"`
	Description  string           `json:"description"`
}

// Match classifies question against table, e.g. "tab1_data".
func Match(question, table string) KeywordAnswer {
	tab := strings.TrimSuffix(table, "_data")
	lower := strings.ToLower(question)

	year := ""
	if m := yearPattern.FindStringSubmatch(question); m != nil {
		year = m[1]
	}

	for _, rule := range keywordRules {
		if !rule.appliesTo(tab) || !rule.matches(lower) {
			continue
		}
		if rule.year == yearRequired && year == "" {
			continue
		}

		filter := ""
		if rule.year != yearIgnored && year != "" {
			filter = " WHERE year = " + year
		}
		r := strings.NewReplacer("{{table}}", table, "{{year}}", year, "{{year_filter}}", filter)

		return KeywordAnswer{
			ChartRequest: 1,
			SQLQuery:     r.Replace(rule.query),
			ChartType:    rule.kind,
			Description:  r.Replace(rule.description),
		}
	}

	return KeywordAnswer{Description: noChartDescription}
}

// TableFromPrompt finds the table a system prompt refers to, defaulting to
// tab1_data.
func TableFromPrompt(prompt string) string {
	if m := tablePattern.FindString(prompt); m != "" {
		return m
	}
	return "tab1_data"
}

func (r keywordRule) appliesTo(tab string) bool {
	if len(r.tabs) == 0 {
		return true
	}
	for _, t := range r.tabs {
		if t == tab {
			return true
		}
	}
	return false
}

func (r keywordRule) matches(lower string) bool {
	for _, group := range r.keywords {
		hit := false
		for _, kw := range group {
			if strings.Contains(lower, kw) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}
