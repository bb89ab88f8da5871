package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"askchart/cache"
	"askchart/logger"
	"askchart/models"
)

func TestParseAnswer(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Answer
	}{
		{
			name: "bare object",
			text: `{"chart_request": 1, "sql_query": "SELECT a, b FROM t", "chart_type": "line", "description": "trend"}`,
			want: Structured{WantsChart: true, Query: "SELECT a, b FROM t", ChartKind: models.ChartLine, Description: "trend"},
		},
		{
			name: "fenced object in prose",
			text: "Here you go:\n```json\n{\"chart_request\": \"1\", \"sql_query\": \"SELECT x FROM t\", \"chart_type\": \"pie\", \"description\": \"share {of} x\"}\n```\nThanks.",
			want: Structured{WantsChart: true, Query: "SELECT x FROM t", ChartKind: models.ChartPie, Description: "share {of} x"},
		},
		{
			name: "chart requested without query",
			text: `{"chart_request": true, "description": "nothing to plot"}`,
			want: Structured{WantsChart: false, ChartKind: models.ChartBar, Description: "nothing to plot"},
		},
		{
			name: "no chart",
			text: `{"chart_request": 0, "description": "just text"}`,
			want: Structured{ChartKind: models.ChartBar, Description: "just text"},
		},
		{
			name: "unknown kind falls back to bar",
			text: `{"chart_request": 1, "sql_query": "SELECT 1", "chart_type": "radar"}`,
			want: Structured{WantsChart: true, Query: "SELECT 1", ChartKind: models.ChartBar},
		},
		{
			name: "plain prose",
			text: "Sales went up in 2024.",
			want: FreeText{Text: "Sales went up in 2024."},
		},
		{
			name: "broken object",
			text: `{"chart_request": 1, "sql_query": `,
			want: FreeText{Text: `{"chart_request": 1, "sql_query": `},
		},
		{
			name: "skips invalid braces before the object",
			text: `set {a} then {"chart_request": 1, "sql_query": "SELECT 2"}`,
			want: Structured{WantsChart: true, Query: "SELECT 2", ChartKind: models.ChartBar},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAnswer(tt.text))
		})
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name     string
		question string
		table    string
		chart    int
		kind     models.ChartKind
		query    string
	}{
		{
			name:     "category sales wins over year",
			question: "2024년 카테고리별 매출",
			table:    "tab1_data",
			chart:    1,
			kind:     models.ChartDoughnut,
			query:    "SELECT category, SUM(sales) AS total_sales FROM tab1_data WHERE year = 2024 GROUP BY category ORDER BY total_sales DESC",
		},
		{
			name:     "category sales without year",
			question: "카테고리별 매출 보여줘",
			table:    "tab1_data",
			chart:    1,
			kind:     models.ChartDoughnut,
			query:    "SELECT category, SUM(sales) AS total_sales FROM tab1_data GROUP BY category ORDER BY total_sales DESC",
		},
		{
			name:     "year rating is quarterly",
			question: "2023 rating",
			table:    "tab1_data",
			chart:    1,
			kind:     models.ChartBar,
			query:    "SELECT quarter, AVG(rating) AS avg_rating FROM tab1_data WHERE year = 2023 GROUP BY quarter ORDER BY quarter",
		},
		{
			name:     "top products",
			question: "상위 재고 제품",
			table:    "tab2_data",
			chart:    1,
			kind:     models.ChartBar,
			query:    "SELECT product_name, stock FROM tab2_data ORDER BY stock DESC LIMIT 10",
		},
		{
			name:     "top regions",
			question: "top regions",
			table:    "tab3_data",
			chart:    1,
			kind:     models.ChartPie,
			query:    "SELECT region, COUNT(*) AS customer_count FROM tab3_data GROUP BY region ORDER BY customer_count DESC LIMIT 5",
		},
		{
			name:     "generic chart request uses tab default",
			question: "Show me a chart",
			table:    "tab3_data",
			chart:    1,
			kind:     models.ChartDoughnut,
			query:    "SELECT region, COUNT(*) AS customer_count FROM tab3_data GROUP BY region",
		},
		{
			name:     "no keyword",
			question: "hello there",
			table:    "tab1_data",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Match(tt.question, tt.table)
			assert.Equal(t, tt.chart, got.ChartRequest)
			assert.Equal(t, tt.kind, got.ChartType)
			assert.Equal(t, tt.query, got.SQLQuery)
			assert.NotEmpty(t, got.Description)
		})
	}
}

func TestKeywordOracle_RoundTripsThroughParseAnswer(t *testing.T) {
	text, err := NewKeywordOracle().Answer(context.Background(), Request{
		Question:     "2024년 카테고리별 매출",
		ContextLabel: "tab1_data",
	})
	require.NoError(t, err)

	ans, ok := ParseAnswer(text).(Structured)
	require.True(t, ok)
	assert.True(t, ans.WantsChart)
	assert.Equal(t, models.ChartDoughnut, ans.ChartKind)
	assert.Contains(t, ans.Query, "FROM tab1_data")
}

func TestKeywordOracle_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewKeywordOracle().Answer(ctx, Request{Question: "chart", ContextLabel: "tab1_data"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTableFromPrompt(t *testing.T) {
	assert.Equal(t, "tab3_data", TableFromPrompt("Table: tab3_data\nColumns:"))
	assert.Equal(t, "tab1_data", TableFromPrompt("no table here"))
}

func TestBuildClassifyPrompt(t *testing.T) {
	prompt := BuildClassifyPrompt("tab2_data", []models.Column{
		{Name: "category", Type: models.ColumnText},
		{Name: "stock", Type: models.ColumnNumeric},
	})

	assert.Contains(t, prompt, "Table: tab2_data")
	assert.Contains(t, prompt, "- stock (numeric)")
	assert.Contains(t, prompt, `"chart_request"`)
}

func newCompletionServer(t *testing.T, status int, content string, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

		var req ChatCompletionRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			return
		}
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "test-model", req.Model)
		if assert.Len(t, req.Messages, 2) {
			assert.Equal(t, "system", req.Messages[0].Role)
			assert.Equal(t, "user", req.Messages[1].Role)
		}

		if status != http.StatusOK {
			http.Error(w, "overloaded", status)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"index": 0, "message": map[string]string{"role": "assistant", "content": content}},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPClient_AnswerUsesCache(t *testing.T) {
	var calls atomic.Int32
	srv := newCompletionServer(t, http.StatusOK, `{"chart_request": 0, "description": "ok"}`, &calls)

	client := NewHTTPClient(HTTPClientConfig{
		APIURL: srv.URL,
		APIKey: "secret",
		Model:  "test-model",
	}, cache.New(0), logger.Discard())

	req := Request{Question: "how many?", ContextLabel: "tab1_data"}
	first, err := client.Answer(context.Background(), req)
	require.NoError(t, err)
	second, err := client.Answer(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPClient_NonOKStatus(t *testing.T) {
	var calls atomic.Int32
	srv := newCompletionServer(t, http.StatusServiceUnavailable, "", &calls)

	answers := cache.New(0)
	client := NewHTTPClient(HTTPClientConfig{
		APIURL: srv.URL,
		APIKey: "secret",
		Model:  "test-model",
	}, answers, logger.Discard())

	_, err := client.Answer(context.Background(), Request{Question: "q", ContextLabel: "tab1_data"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Equal(t, 0, answers.Len())
	assert.Equal(t, int32(1), calls.Load())
}
