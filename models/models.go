package models

import "encoding/json"

// ColumnType is the inferred type of a dataset column.
type ColumnType string

const (
	ColumnNumeric  ColumnType = "numeric"
	ColumnText     ColumnType = "text"
	ColumnTemporal ColumnType = "temporal"
)

type Column struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
}

// QueryResult is an ordered set of rows. Columns carries the column order,
// since each row is a map.
type QueryResult struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

// Column returns the values of one column in row order.
func (r *QueryResult) Column(name string) []any {
	values := make([]any, len(r.Rows))
	for i, row := range r.Rows {
		values[i] = row[name]
	}
	return values
}

// Empty reports whether there is nothing to display.
func (r *QueryResult) Empty() bool {
	return r == nil || len(r.Rows) == 0 || len(r.Columns) == 0
}

type QueryRequest struct {
	Question string `json:"question" binding:"required"`
	TabID    string `json:"tab_id" binding:"required"`
}

// QueryResponse is returned by the query endpoint and persisted as the
// response of a history entry.
type QueryResponse struct {
	Success      bool             `json:"success"`
	ChartRequest int              `json:"chart_request"`
	ChartConfig  *ChartDescriptor `json:"chart_config,omitempty"`
	RawData      []map[string]any `json:"raw_data,omitempty"`
	Description  string           `json:"description"`
	SQLQuery     string           `json:"sql_query,omitempty"`
	ChartType    ChartKind        `json:"chart_type,omitempty"`
	QueryID      string           `json:"query_id,omitempty"`
}

// WantsChart reports whether a chart was produced.
func (r *QueryResponse) WantsChart() bool {
	return r.ChartRequest == 1
}

// TabChart is one of the default charts returned on dataset load.
type TabChart struct {
	ID      string           `json:"id"`
	Config  *ChartDescriptor `json:"config"`
	RawData []map[string]any `json:"raw_data"`
}

type TabDataResponse struct {
	Success   bool       `json:"success"`
	Charts    []TabChart `json:"charts"`
	TotalRows int        `json:"total_rows"`
}

type UserInfo struct {
	Username     string `json:"username"`
	CreatedAt    string `json:"created_at"`
	LastAccessed string `json:"last_accessed"`
	TotalQueries int    `json:"total_queries"`
	TotalCharts  int    `json:"total_charts"`
}

// HistoryEntry is the full record of one processed question. It is written
// once and never modified.
type HistoryEntry struct {
	ID             string          `json:"id"`
	Timestamp      string          `json:"timestamp"`
	TabID          string          `json:"tab_id"`
	Question       string          `json:"question"`
	Response       json.RawMessage `json:"response"`
	ChartGenerated bool            `json:"chart_generated"`
}

// HistorySummary is what the per-user history index keeps.
type HistorySummary struct {
	ID             string `json:"id"`
	Timestamp      string `json:"timestamp"`
	Question       string `json:"question"`
	ChartGenerated bool   `json:"chart_generated"`
}
