package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"askchart/ai"
	"askchart/cache"
	"askchart/chart"
	"askchart/config"
	"askchart/db"
	"askchart/models"
	"askchart/tabular"
	"askchart/validation"
)

const (
	noAnswerDescription    = "Could not produce an answer to the question."
	chartFailedDescription = "Chart generation failed."
)

type PipelineConfig struct {
	// OracleTimeout bounds a single classification call.
	OracleTimeout time.Duration
	// TestMode skips the upstream and always serves sample rows.
	TestMode bool
}

// Pipeline answers questions about datasets: it makes sure the dataset is
// cached, asks the oracle what the question wants, runs the resulting query
// and shapes the rows into a chart.
type Pipeline struct {
	tables   *tabular.Store
	upstream Source
	fallback Source
	oracle   ai.Oracle
	docs     db.Store
	answers  *cache.Cache
	cfg      PipelineConfig
	log      *slog.Logger
	loads    singleflight.Group
}

// NewPipeline wires a pipeline. upstream may be nil, in which case every
// dataset comes from fallback. answers may be nil.
func NewPipeline(tables *tabular.Store, upstream, fallback Source, oracle ai.Oracle, docs db.Store, answers *cache.Cache, cfg PipelineConfig, log *slog.Logger) *Pipeline {
	return &Pipeline{
		tables:   tables,
		upstream: upstream,
		fallback: fallback,
		oracle:   oracle,
		docs:     docs,
		answers:  answers,
		cfg:      cfg,
		log:      log,
	}
}

// EnsureDataset loads datasetID into the tabular store unless it is already
// there. Concurrent first loads of one dataset share a single fetch, which
// is detached from the cancellation of whichever caller started it.
func (p *Pipeline) EnsureDataset(ctx context.Context, datasetID string) error {
	if _, ok := config.LookupDataset(datasetID); !ok {
		return fmt.Errorf("dataset %s: %w", datasetID, models.ErrNotFound)
	}
	if p.tables.Exists(ctx, datasetID) {
		return nil
	}

	_, err, _ := p.loads.Do(datasetID, func() (any, error) {
		return p.load(context.WithoutCancel(ctx), datasetID)
	})
	return err
}

// LoadDataset (re)loads datasetID and builds its default charts.
func (p *Pipeline) LoadDataset(ctx context.Context, datasetID string) (*models.TabDataResponse, error) {
	dataset, ok := config.LookupDataset(datasetID)
	if !ok {
		return nil, fmt.Errorf("dataset %s: %w", datasetID, models.ErrNotFound)
	}

	v, err, _ := p.loads.Do(datasetID, func() (any, error) {
		return p.load(context.WithoutCancel(ctx), datasetID)
	})
	if err != nil {
		return nil, err
	}
	rows, _ := v.(int)

	return &models.TabDataResponse{
		Success:   true,
		Charts:    p.defaultCharts(ctx, dataset),
		TotalRows: rows,
	}, nil
}

// load fetches and stores datasetID, returning the row count.
func (p *Pipeline) load(ctx context.Context, datasetID string) (int, error) {
	result, err := p.fetch(ctx, datasetID)
	if err != nil {
		return 0, err
	}
	if err := p.tables.Load(ctx, datasetID, result); err != nil {
		return 0, fmt.Errorf("failed to cache dataset %s: %w", datasetID, err)
	}
	// Cached queries may name columns the new rows no longer have.
	if p.answers != nil {
		p.answers.Flush()
	}

	p.log.Info("dataset loaded", "dataset", datasetID, "rows", len(result.Rows), "columns", len(result.Columns))
	return len(result.Rows), nil
}

func (p *Pipeline) fetch(ctx context.Context, datasetID string) (*models.QueryResult, error) {
	if !p.cfg.TestMode && p.upstream != nil {
		result, err := p.upstream.FetchRows(ctx, datasetID)
		switch {
		case err != nil:
			p.log.Warn("upstream fetch failed, using sample data", "dataset", datasetID, "error", err)
		case result.Empty():
			p.log.Warn("upstream returned no rows, using sample data", "dataset", datasetID)
		default:
			return result, nil
		}
	}

	result, err := p.fallback.FetchRows(ctx, datasetID)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %v: %w", datasetID, err, models.ErrUpstreamUnavailable)
	}
	if result.Empty() {
		return nil, fmt.Errorf("dataset %s has no rows: %w", datasetID, models.ErrUpstreamUnavailable)
	}
	return result, nil
}

func (p *Pipeline) defaultCharts(ctx context.Context, dataset config.Dataset) []models.TabChart {
	table := tabular.TableName(dataset.ID)
	charts := []models.TabChart{}

	for i, dc := range dataset.Charts {
		query := strings.ReplaceAll(dc.Query, "{{table}}", table)
		result, err := p.tables.Execute(ctx, query)
		if err != nil {
			p.log.Warn("default chart skipped", "dataset", dataset.ID, "chart", i+1, "error", err)
			continue
		}

		desc := chart.Assemble(result, dc.Kind)
		if desc == nil {
			continue
		}
		charts = append(charts, models.TabChart{
			ID:      fmt.Sprintf("%s_chart_%d", dataset.ID, i+1),
			Config:  chart.WithTitle(desc, dc.Title),
			RawData: result.Rows,
		})
	}
	return charts
}

// Classify asks the oracle about question. An oracle failure or timeout is
// not an error: the answer degrades to plain text.
func (p *Pipeline) Classify(ctx context.Context, datasetID, question string) ai.Answer {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.OracleTimeout)
	defer cancel()

	text, err := p.oracle.Answer(ctx, ai.Request{
		Question:     question,
		ContextLabel: tabular.TableName(datasetID),
		Schema:       p.tables.DescribeSchema(ctx, datasetID),
	})
	if err != nil {
		p.log.Warn("oracle unavailable, answering without a chart", "dataset", datasetID, "error", err)
		return ai.FreeText{Text: noAnswerDescription}
	}
	return ai.ParseAnswer(text)
}

// Resolve turns a question into a response without recording it.
func (p *Pipeline) Resolve(ctx context.Context, datasetID, question string) (*models.QueryResponse, error) {
	if err := p.EnsureDataset(ctx, datasetID); err != nil {
		return nil, err
	}

	var intent ai.Structured
	switch answer := p.Classify(ctx, datasetID, question).(type) {
	case ai.FreeText:
		return plainResponse(answer.Text), nil
	case ai.Structured:
		if !answer.WantsChart {
			if answer.Description == "" {
				return plainResponse(noAnswerDescription), nil
			}
			return plainResponse(answer.Description), nil
		}
		intent = answer
	}

	if err := validation.CheckReadOnly(intent.Query); err != nil {
		p.log.Warn("rejected generated query", "dataset", datasetID, "query", intent.Query)
		return nil, err
	}

	result, err := p.tables.Execute(ctx, intent.Query)
	if err != nil {
		return nil, err
	}

	desc := chart.Assemble(result, intent.ChartKind)
	if desc == nil {
		return plainResponse(chartFailedDescription), nil
	}

	return &models.QueryResponse{
		Success:      true,
		ChartRequest: 1,
		ChartConfig:  chart.WithTitle(desc, chart.TruncateTitle(question)),
		RawData:      result.Rows,
		Description:  intent.Description,
		SQLQuery:     intent.Query,
		ChartType:    intent.ChartKind,
	}, nil
}

func plainResponse(description string) *models.QueryResponse {
	return &models.QueryResponse{Success: true, Description: description}
}

// Ask resolves a user's question, stores it in the user's history and
// updates their statistics. The returned response carries the history id.
func (p *Pipeline) Ask(ctx context.Context, username, datasetID, question string) (*models.QueryResponse, error) {
	if !validation.IsValidQuestion(question) {
		return nil, fmt.Errorf("question is not meaningful: %w", models.ErrInvalidRequest)
	}

	resp, err := p.Resolve(ctx, datasetID, question)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}

	queryID, err := p.docs.AppendHistory(username, &models.HistoryEntry{
		TabID:          datasetID,
		Question:       question,
		Response:       raw,
		ChartGenerated: resp.WantsChart(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save history: %w", err)
	}
	resp.QueryID = queryID

	if _, err := p.docs.RecordQuery(username, resp.WantsChart()); err != nil {
		p.log.Error("failed to update user statistics", "user", username, "error", err)
	}

	return resp, nil
}

// Loaded reports, per catalog dataset, whether it is cached.
func (p *Pipeline) Loaded(ctx context.Context) map[string]bool {
	loaded := map[string]bool{}
	for _, d := range config.Datasets() {
		loaded[d.ID] = p.tables.Exists(ctx, d.ID)
	}
	return loaded
}

// Schema describes a cached dataset, loading it first if needed.
func (p *Pipeline) Schema(ctx context.Context, datasetID string) ([]models.Column, error) {
	if err := p.EnsureDataset(ctx, datasetID); err != nil {
		return nil, err
	}
	return p.tables.DescribeSchema(ctx, datasetID), nil
}
