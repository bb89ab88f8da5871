package db

import (
	"errors"
	"fmt"
	"strings"

	"askchart/models"
)

func (s *DocumentStore) CreatePreset(username string, in models.PresetCreate) (*models.Preset, error) {
	if err := checkUser(username); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("name is required: %w", models.ErrInvalidPreset)
	}
	if strings.TrimSpace(in.TabID) == "" {
		return nil, fmt.Errorf("tab_id is required: %w", models.ErrInvalidPreset)
	}
	if err := validateGrid(in.GridConfig); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.timestamp()
	preset := &models.Preset{
		ID:          fmt.Sprintf("preset_%s_%s", s.idPrefix(), shortID()),
		Name:        in.Name,
		Description: in.Description,
		TabID:       in.TabID,
		CreatedAt:   now,
		UpdatedAt:   now,
		GridConfig:  in.GridConfig,
	}
	if preset.GridConfig.Charts == nil {
		preset.GridConfig.Charts = []models.ChartSlot{}
	}

	if err := s.putJSON(presetKey(username, preset.ID), preset); err != nil {
		return nil, err
	}
	if err := s.indexPreset(username, preset); err != nil {
		return nil, err
	}
	return preset, nil
}

// UpdatePreset applies the fields set in in and bumps updated_at.
func (s *DocumentStore) UpdatePreset(username, id string, in models.PresetUpdate) (*models.Preset, error) {
	if err := checkPreset(username, id); err != nil {
		return nil, err
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, fmt.Errorf("name must not be empty: %w", models.ErrInvalidPreset)
	}
	if in.GridConfig != nil {
		if err := validateGrid(*in.GridConfig); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	preset, err := s.loadPreset(username, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		preset.Name = *in.Name
	}
	if in.Description != nil {
		preset.Description = *in.Description
	}
	if in.GridConfig != nil {
		preset.GridConfig = *in.GridConfig
	}
	preset.UpdatedAt = s.timestamp()

	if err := s.putJSON(presetKey(username, id), preset); err != nil {
		return nil, err
	}
	if err := s.indexPreset(username, preset); err != nil {
		return nil, err
	}
	return preset, nil
}

func (s *DocumentStore) DeletePreset(username, id string) error {
	if err := checkPreset(username, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Delete(presetKey(username, id)); err != nil {
		return err
	}

	index, err := s.presetIndex(username)
	if err != nil {
		return err
	}
	kept := index.Presets[:0]
	for _, p := range index.Presets {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	index.Presets = kept
	index.LastUpdated = s.timestamp()
	return s.putJSON(presetIndexKey(username), index)
}

// ListPresets returns the user's preset summaries, newest first, keeping
// only those for tabID when it is set.
func (s *DocumentStore) ListPresets(username, tabID string) ([]models.PresetSummary, error) {
	if err := checkUser(username); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.presetIndex(username)
	if err != nil {
		return nil, err
	}
	if tabID == "" {
		return index.Presets, nil
	}

	filtered := []models.PresetSummary{}
	for _, p := range index.Presets {
		if p.TabID == tabID {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

func (s *DocumentStore) LoadPreset(username, id string) (*models.Preset, error) {
	if err := checkPreset(username, id); err != nil {
		return nil, err
	}
	return s.loadPreset(username, id)
}

func (s *DocumentStore) loadPreset(username, id string) (*models.Preset, error) {
	var preset models.Preset
	if err := s.getJSON(presetKey(username, id), &preset); err != nil {
		return nil, err
	}
	return &preset, nil
}

func (s *DocumentStore) presetIndex(username string) (*models.PresetIndex, error) {
	index := &models.PresetIndex{Presets: []models.PresetSummary{}}
	err := s.getJSON(presetIndexKey(username), index)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	if index.Presets == nil {
		index.Presets = []models.PresetSummary{}
	}
	return index, nil
}

// indexPreset replaces the preset's summary in place, or inserts it at the
// front when the preset is new.
func (s *DocumentStore) indexPreset(username string, preset *models.Preset) error {
	index, err := s.presetIndex(username)
	if err != nil {
		return err
	}

	summary := models.PresetSummary{
		ID:          preset.ID,
		Name:        preset.Name,
		Description: preset.Description,
		TabID:       preset.TabID,
		ChartCount:  len(preset.GridConfig.Charts),
		CreatedAt:   preset.CreatedAt,
		UpdatedAt:   preset.UpdatedAt,
	}

	replaced := false
	for i := range index.Presets {
		if index.Presets[i].ID == preset.ID {
			index.Presets[i] = summary
			replaced = true
			break
		}
	}
	if !replaced {
		index.Presets = append([]models.PresetSummary{summary}, index.Presets...)
	}

	index.LastUpdated = s.timestamp()
	return s.putJSON(presetIndexKey(username), index)
}

// checkPreset also keeps the index document from being addressed as a
// preset, since both live in the same directory.
func checkPreset(username, id string) error {
	if err := checkDocument(username, id); err != nil {
		return err
	}
	if id == presetIndexName {
		return fmt.Errorf("preset %q: %w", id, models.ErrNotFound)
	}
	return nil
}

func validateGrid(grid models.GridConfig) error {
	seen := make(map[int]bool, len(grid.Charts))
	for _, slot := range grid.Charts {
		if seen[slot.Position] {
			return fmt.Errorf("duplicate position %d: %w", slot.Position, models.ErrInvalidPreset)
		}
		seen[slot.Position] = true

		switch slot.Source.Type {
		case models.SourceInline:
			if slot.Source.ChartData == nil {
				return fmt.Errorf("position %d: chart_data is required: %w", slot.Position, models.ErrInvalidPreset)
			}
		case models.SourceQueryReference:
			if slot.Source.QueryID == "" {
				return fmt.Errorf("position %d: query_id is required: %w", slot.Position, models.ErrInvalidPreset)
			}
		default:
			return fmt.Errorf("position %d: unknown source type %q: %w", slot.Position, slot.Source.Type, models.ErrInvalidPreset)
		}
	}
	return nil
}
