package db

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"askchart/models"
	"askchart/validation"
)

// Store persists per-user metadata, query history and presets.
type Store interface {
	GetOrCreateUser(username string) (*models.UserInfo, error)
	RecordQuery(username string, chartGenerated bool) (*models.UserInfo, error)

	AppendHistory(username string, entry *models.HistoryEntry) (string, error)
	ListHistory(username string, limit int) ([]models.HistorySummary, error)
	GetHistory(username, id string) (*models.HistoryEntry, error)

	CreatePreset(username string, in models.PresetCreate) (*models.Preset, error)
	UpdatePreset(username, id string, in models.PresetUpdate) (*models.Preset, error)
	DeletePreset(username, id string) error
	ListPresets(username, tabID string) ([]models.PresetSummary, error)
	LoadPreset(username, id string) (*models.Preset, error)

	Close() error
}

const (
	historyIndexLimit   = 100
	historyQuestionRune = 100
	idTimeLayout        = "20060102_150405"
	timestampLayout     = "2006-01-02T15:04:05.000000"
	presetIndexName     = "preset_index"
)

// DocumentStore implements Store as JSON documents in a KV. Every index is
// updated with a read-modify-write cycle, so writers are serialized.
type DocumentStore struct {
	kv  KV
	mu  sync.Mutex
	now func() time.Time
}

func NewDocumentStore(kv KV) *DocumentStore {
	return &DocumentStore{kv: kv, now: time.Now}
}

func (s *DocumentStore) Close() error {
	return s.kv.Close()
}

func metadataKey(user string) string { return user + "/metadata.json" }
func historyIndexKey(user string) string { return user + "/history_index.json" }
func historyKey(user, id string) string { return user + "/queries/" + id + ".json" }
func presetKey(user, id string) string { return user + "/presets/" + id + ".json" }
func presetIndexKey(user string) string { return user + "/presets/" + presetIndexName + ".json" }

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func (s *DocumentStore) timestamp() string {
	return s.now().Format(timestampLayout)
}

func (s *DocumentStore) idPrefix() string {
	return s.now().Format(idTimeLayout)
}

func checkUser(username string) error {
	if !validation.IsValidUsername(username) {
		return fmt.Errorf("invalid username %q: %w", username, models.ErrInvalidRequest)
	}
	return nil
}

func checkDocument(username, id string) error {
	if err := checkUser(username); err != nil {
		return err
	}
	if !validation.IsValidDocumentID(id) {
		return fmt.Errorf("document %q: %w", id, models.ErrNotFound)
	}
	return nil
}

// getJSON decodes the document at key into v. Missing documents surface as
// models.ErrNotFound.
func (s *DocumentStore) getJSON(key string, v any) error {
	data, err := s.kv.Get(key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return nil
}

func (s *DocumentStore) putJSON(key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := s.kv.Set(key, data); err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}
