package service

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"askchart/db"
	"askchart/models"
)

// PresetResolver expands a stored preset into renderable chart documents.
// Slots that cannot be resolved are logged and left out; only a missing
// preset fails the whole call.
type PresetResolver struct {
	docs db.Store
	log  *slog.Logger
}

func NewPresetResolver(docs db.Store, log *slog.Logger) *PresetResolver {
	return &PresetResolver{docs: docs, log: log}
}

func (r *PresetResolver) Resolve(username, presetID string) (*models.ResolvedPreset, error) {
	preset, err := r.docs.LoadPreset(username, presetID)
	if err != nil {
		return nil, err
	}

	charts := []models.ResolvedChart{}
	for _, slot := range preset.GridConfig.Charts {
		doc, err := r.resolveSlot(username, slot.Source)
		if err != nil {
			r.log.Warn("preset chart skipped", "preset", presetID, "position", slot.Position, "error", err)
			continue
		}
		if doc.ID() == "" {
			doc["id"] = "preset_chart_" + shortID()
		}
		charts = append(charts, models.ResolvedChart{Position: slot.Position, ChartData: doc})
	}

	return &models.ResolvedPreset{Success: true, Preset: preset, Charts: charts}, nil
}

func (r *PresetResolver) resolveSlot(username string, src models.ChartSource) (models.ChartDocument, error) {
	switch src.Type {
	case models.SourceInline:
		if src.ChartData == nil {
			return nil, fmt.Errorf("inline slot has no chart_data")
		}
		return src.ChartData, nil
	case models.SourceQueryReference:
		return r.fromHistory(username, src)
	default:
		return nil, fmt.Errorf("unknown source type %q", src.Type)
	}
}

// fromHistory rebuilds a chart document from a recorded response: the
// chart config moves to "config", an id is assigned when missing and the
// slot's title override is applied.
func (r *PresetResolver) fromHistory(username string, src models.ChartSource) (models.ChartDocument, error) {
	entry, err := r.docs.GetHistory(username, src.QueryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load query %s: %w", src.QueryID, err)
	}

	doc := models.ChartDocument{}
	if err := json.Unmarshal(entry.Response, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode query %s: %w", src.QueryID, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("query %s has no response", src.QueryID)
	}

	if cfg, ok := doc["chart_config"]; ok {
		doc["config"] = cfg
		delete(doc, "chart_config")
	}
	if doc.ID() == "" {
		doc["id"] = "query_chart_" + shortID()
	}
	if src.Title != nil {
		doc.SetTitle(*src.Title)
	}
	return doc, nil
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
