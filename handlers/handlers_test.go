package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"askchart/ai"
	"askchart/cache"
	"askchart/db"
	"askchart/logger"
	"askchart/models"
	"askchart/service"
	"askchart/tabular"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeUpstream bool

func (f fakeUpstream) IsConnected() bool { return bool(f) }

func newRouter(t *testing.T, upstream Upstream) *gin.Engine {
	t.Helper()
	log := logger.Discard()

	tables, err := tabular.New(log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tables.Close() })

	kv, err := db.NewFileKV(t.TempDir())
	require.NoError(t, err)
	docs := db.NewDocumentStore(kv)

	pipeline := service.NewPipeline(tables, nil, service.NewSampleSource(), ai.NewKeywordOracle(), docs,
		cache.New(time.Minute), service.PipelineConfig{OracleTimeout: time.Second}, log)

	h := New(pipeline, service.NewPresetResolver(docs, log), docs, upstream, "file", log)

	r := gin.New()
	r.Use(RequestLogger(log))
	h.Register(r, true)
	return r
}

func do(t *testing.T, r http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	out := map[string]any{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w, out
}

func TestHealth(t *testing.T) {
	w, body := do(t, newRouter(t, nil), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "not_configured", body["sql_server"])
	assert.Equal(t, "file", body["store"])

	w, body = do(t, newRouter(t, fakeUpstream(true)), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "connected", body["sql_server"])
}

func TestDatasetsAndTabData(t *testing.T) {
	r := newRouter(t, nil)

	_, body := do(t, r, http.MethodGet, "/api/datasets", nil)
	datasets := body["datasets"].([]any)
	require.Len(t, datasets, 3)
	assert.Equal(t, false, datasets[0].(map[string]any)["loaded"])

	w, body := do(t, r, http.MethodGet, "/api/tabs/tab1/data", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 36, body["total_rows"])
	charts := body["charts"].([]any)
	require.Len(t, charts, 2)
	first := charts[0].(map[string]any)
	assert.Equal(t, "tab1_chart_1", first["id"])
	assert.Equal(t, "line", first["config"].(map[string]any)["type"])

	_, body = do(t, r, http.MethodGet, "/api/datasets", nil)
	assert.Equal(t, true, body["datasets"].([]any)[0].(map[string]any)["loaded"])

	w, _ = do(t, r, http.MethodGet, "/api/tabs/nope/data", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTabSchema(t *testing.T) {
	w, body := do(t, newRouter(t, nil), http.MethodGet, "/api/tabs/tab3/schema", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tab3_data", body["table"])
	columns := body["columns"].([]any)
	require.Len(t, columns, 4)
	assert.Equal(t, map[string]any{"name": "region", "type": "text"}, columns[1])
}

func TestQueryAndHistory(t *testing.T) {
	r := newRouter(t, nil)

	w, body := do(t, r, http.MethodPost, "/api/users/alice/llm/query", models.QueryRequest{
		Question: "2024년 카테고리별 매출",
		TabID:    "tab1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 1, body["chart_request"])
	assert.Equal(t, "doughnut", body["chart_type"])
	assert.Contains(t, body["sql_query"], "FROM tab1_data")
	queryID := body["query_id"].(string)
	require.NotEmpty(t, queryID)

	_, body = do(t, r, http.MethodGet, "/api/users/alice/history?limit=10", nil)
	history := body["history"].([]any)
	require.Len(t, history, 1)
	assert.Equal(t, queryID, history[0].(map[string]any)["id"])

	w, body = do(t, r, http.MethodGet, "/api/users/alice/history/"+queryID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	query := body["query"].(map[string]any)
	assert.Equal(t, "2024년 카테고리별 매출", query["question"])
	assert.Equal(t, true, query["chart_generated"])

	_, body = do(t, r, http.MethodGet, "/api/users/alice/info", nil)
	user := body["user"].(map[string]any)
	assert.EqualValues(t, 1, user["total_queries"])
	assert.EqualValues(t, 1, user["total_charts"])
}

func TestQueryErrors(t *testing.T) {
	r := newRouter(t, nil)

	tests := []struct {
		name   string
		path   string
		body   any
		status int
	}{
		{name: "missing fields", path: "/api/users/alice/llm/query", body: map[string]string{"question": "hi"}, status: http.StatusBadRequest},
		{name: "gibberish question", path: "/api/users/alice/llm/query", body: models.QueryRequest{Question: "!!!!!!", TabID: "tab1"}, status: http.StatusBadRequest},
		{name: "unknown tab", path: "/api/users/alice/llm/query", body: models.QueryRequest{Question: "show me a chart", TabID: "tab9"}, status: http.StatusNotFound},
		{name: "bad username", path: "/api/users/bad%20name/llm/query", body: models.QueryRequest{Question: "show me a chart", TabID: "tab1"}, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := do(t, r, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestHistoryErrors(t *testing.T) {
	r := newRouter(t, nil)

	w, _ := do(t, r, http.MethodGet, "/api/users/alice/history?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodGet, "/api/users/alice/history/20240101_000000_deadbeef", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, body := do(t, r, http.MethodGet, "/api/users/alice/history", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, body["history"])
}

func TestPresetEndpoints(t *testing.T) {
	r := newRouter(t, nil)

	_, asked := do(t, r, http.MethodPost, "/api/users/alice/llm/query", models.QueryRequest{
		Question: "top regions", TabID: "tab3",
	})
	queryID := asked["query_id"].(string)

	w, body := do(t, r, http.MethodPost, "/api/users/alice/presets", map[string]any{
		"name":   "regions",
		"tab_id": "tab3",
		"grid_config": map[string]any{
			"layout": "grid-cols-1",
			"charts": []any{
				map[string]any{"position": 0, "source": map[string]any{"type": "query_reference", "query_id": queryID, "title": "Top 5"}},
				map[string]any{"position": 1, "source": map[string]any{"type": "inline_data", "chart_data": map[string]any{"id": "inline-1"}}},
			},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	presetID := body["preset_id"].(string)

	_, body = do(t, r, http.MethodGet, "/api/users/alice/presets?tab_id=tab3", nil)
	presets := body["presets"].([]any)
	require.Len(t, presets, 1)
	assert.EqualValues(t, 2, presets[0].(map[string]any)["chart_count"])

	_, body = do(t, r, http.MethodGet, "/api/users/alice/presets?tab_id=tab1", nil)
	assert.Empty(t, body["presets"])

	w, body = do(t, r, http.MethodGet, "/api/users/alice/presets/"+presetID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	charts := body["charts"].([]any)
	require.Len(t, charts, 2)
	ref := charts[0].(map[string]any)["chart_data"].(map[string]any)
	assert.Equal(t, "Top 5", ref["title"])
	assert.Equal(t, "pie", ref["config"].(map[string]any)["type"])

	w, _ = do(t, r, http.MethodPut, "/api/users/alice/presets/"+presetID, map[string]any{"name": "renamed"})
	assert.Equal(t, http.StatusOK, w.Code)
	_, body = do(t, r, http.MethodGet, "/api/users/alice/presets/"+presetID, nil)
	assert.Equal(t, "renamed", body["preset"].(map[string]any)["name"])

	w, _ = do(t, r, http.MethodPut, "/api/users/alice/presets/"+presetID, map[string]any{
		"grid_config": map[string]any{"charts": []any{
			map[string]any{"position": 0, "source": map[string]any{"type": "inline_data", "chart_data": map[string]any{}}},
			map[string]any{"position": 0, "source": map[string]any{"type": "inline_data", "chart_data": map[string]any{}}},
		}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodDelete, "/api/users/alice/presets/"+presetID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = do(t, r, http.MethodDelete, "/api/users/alice/presets/"+presetID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = do(t, r, http.MethodGet, "/api/users/alice/presets/"+presetID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreatePresetInvalid(t *testing.T) {
	w, _ := do(t, newRouter(t, nil), http.MethodPost, "/api/users/alice/presets", map[string]any{
		"name":   "bad",
		"tab_id": "tab1",
		"grid_config": map[string]any{"charts": []any{
			map[string]any{"position": 0, "source": map[string]any{"type": "somewhere"}},
		}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatCompletionsStub(t *testing.T) {
	r := newRouter(t, nil)

	w, body := do(t, r, http.MethodPost, "/v1/chat/completions", ai.ChatCompletionRequest{
		Model: "test-model",
		Messages: []ai.ChatMessage{
			{Role: "system", Content: ai.BuildClassifyPrompt("tab2_data", nil)},
			{Role: "user", Content: "상위 10개 제품의 재고 현황"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "test-model", body["model"])

	choice := body["choices"].([]any)[0].(map[string]any)
	content := choice["message"].(map[string]any)["content"].(string)
	answer, ok := ai.ParseAnswer(content).(ai.Structured)
	require.True(t, ok)
	assert.True(t, answer.WantsChart)
	assert.Equal(t, "SELECT product_name, stock FROM tab2_data ORDER BY stock DESC LIMIT 10", answer.Query)

	w, body = do(t, r, http.MethodGet, "/v1/models", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["data"], 1)
}

// The HTTP oracle client talks to the stub endpoint the same way it would
// talk to a model server.
func TestHTTPOracleAgainstStub(t *testing.T) {
	srv := httptest.NewServer(newRouter(t, nil))
	t.Cleanup(srv.Close)

	client := ai.NewHTTPClient(ai.HTTPClientConfig{APIURL: srv.URL + "/v1/chat/completions", Model: "stub"},
		cache.New(time.Minute), logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	text, err := client.Answer(ctx, ai.Request{Question: "지역별 고객 분포를 차트로 보여줘", ContextLabel: "tab3_data"})
	require.NoError(t, err)

	answer, ok := ai.ParseAnswer(text).(ai.Structured)
	require.True(t, ok)
	assert.Equal(t, models.ChartBar, answer.ChartKind)
	assert.Contains(t, answer.Query, "FROM tab3_data")
}
