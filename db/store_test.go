package db

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"askchart/models"
)

type backend struct {
	name string
	open func(t *testing.T) KV
}

var backends = []backend{
	{
		name: "badger",
		open: func(t *testing.T) KV {
			kv, err := NewBadgerKV("")
			require.NoError(t, err)
			return kv
		},
	},
	{
		name: "file",
		open: func(t *testing.T) KV {
			kv, err := NewFileKV(t.TempDir())
			require.NoError(t, err)
			return kv
		},
	},
}

func forEachBackend(t *testing.T, fn func(t *testing.T, s *DocumentStore)) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			s := NewDocumentStore(b.open(t))
			t.Cleanup(func() { _ = s.Close() })
			fn(t, s)
		})
	}
}

func TestUser_CreateAndRecord(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s *DocumentStore) {
		user, err := s.GetOrCreateUser("alice")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.NotEmpty(t, user.CreatedAt)
		assert.Zero(t, user.TotalQueries)

		_, err = s.RecordQuery("alice", true)
		require.NoError(t, err)
		user, err = s.RecordQuery("alice", false)
		require.NoError(t, err)
		assert.Equal(t, 2, user.TotalQueries)
		assert.Equal(t, 1, user.TotalCharts)

		again, err := s.GetOrCreateUser("alice")
		require.NoError(t, err)
		assert.Equal(t, user.CreatedAt, again.CreatedAt)
		assert.Equal(t, 2, again.TotalQueries)
	})
}

func TestUser_InvalidName(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s *DocumentStore) {
		_, err := s.GetOrCreateUser("../etc")
		assert.ErrorIs(t, err, models.ErrInvalidRequest)
	})
}

func TestHistory_AppendAndGet(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s *DocumentStore) {
		s.now = func() time.Time { return time.Date(2024, 3, 5, 14, 30, 7, 0, time.UTC) }

		entry := &models.HistoryEntry{
			TabID:          "tab1",
			Question:       "카테고리별 매출",
			Response:       json.RawMessage(`{"success":true,"chart_request":1}`),
			ChartGenerated: true,
		}
		id, err := s.AppendHistory("alice", entry)
		require.NoError(t, err)
		assert.Regexp(t, regexp.MustCompile(`^20240305_143007_[0-9a-f]{8}$`), id)
		assert.Equal(t, id, entry.ID)

		got, err := s.GetHistory("alice", id)
		require.NoError(t, err)
		assert.Equal(t, "tab1", got.TabID)
		assert.Equal(t, "카테고리별 매출", got.Question)
		assert.JSONEq(t, `{"success":true,"chart_request":1}`, string(got.Response))
		assert.True(t, got.ChartGenerated)

		list, err := s.ListHistory("alice", 50)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, id, list[0].ID)
	})
}

func TestHistory_Missing(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s *DocumentStore) {
		_, err := s.GetHistory("alice", "20240101_000000_deadbeef")
		assert.ErrorIs(t, err, models.ErrNotFound)

		_, err = s.GetHistory("alice", "../../secret")
		assert.ErrorIs(t, err, models.ErrNotFound)

		list, err := s.ListHistory("nobody", 10)
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestHistory_IndexCapAndOrder(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s *DocumentStore) {
		var ids []string
		for i := 0; i < historyIndexLimit+1; i++ {
			id, err := s.AppendHistory("bob", &models.HistoryEntry{
				TabID:    "tab2",
				Question: fmt.Sprintf("question %d", i),
				Response: json.RawMessage(`{}`),
			})
			require.NoError(t, err)
			ids = append(ids, id)
		}

		list, err := s.ListHistory("bob", 0)
		require.NoError(t, err)
		require.Len(t, list, historyIndexLimit)
		assert.Equal(t, ids[len(ids)-1], list[0].ID)
		assert.Equal(t, "question 100", list[0].Question)
		assert.Equal(t, ids[1], list[len(list)-1].ID)

		// The oldest entry fell out of the index but is still stored.
		first, err := s.GetHistory("bob", ids[0])
		require.NoError(t, err)
		assert.Equal(t, "question 0", first.Question)

		limited, err := s.ListHistory("bob", 3)
		require.NoError(t, err)
		assert.Len(t, limited, 3)
	})
}

func TestHistory_SummaryTruncatesQuestion(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s *DocumentStore) {
		long := strings.Repeat("매", 150)
		_, err := s.AppendHistory("carol", &models.HistoryEntry{Question: long, Response: json.RawMessage(`{}`)})
		require.NoError(t, err)

		list, err := s.ListHistory("carol", 1)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, strings.Repeat("매", 100), list[0].Question)
	})
}

func inlineSlot(pos int) models.ChartSlot {
	return models.ChartSlot{
		Position: pos,
		Source: models.ChartSource{
			Type:      models.SourceInline,
			ChartData: models.ChartDocument{"id": fmt.Sprintf("chart_%d", pos)},
		},
	}
}

func TestPreset_Lifecycle(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s *DocumentStore) {
		p1, err := s.CreatePreset("alice", models.PresetCreate{
			Name:       "sales",
			TabID:      "tab1",
			GridConfig: models.GridConfig{Layout: "grid-cols-2", Charts: []models.ChartSlot{inlineSlot(0), inlineSlot(1)}},
		})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(p1.ID, "preset_"))
		assert.Equal(t, p1.CreatedAt, p1.UpdatedAt)

		p2, err := s.CreatePreset("alice", models.PresetCreate{Name: "products", TabID: "tab2"})
		require.NoError(t, err)

		all, err := s.ListPresets("alice", "")
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, p2.ID, all[0].ID)
		assert.Equal(t, 2, all[1].ChartCount)

		tab1, err := s.ListPresets("alice", "tab1")
		require.NoError(t, err)
		require.Len(t, tab1, 1)
		assert.Equal(t, p1.ID, tab1[0].ID)

		s.now = func() time.Time { return time.Now().Add(time.Hour) }
		name := "sales v2"
		updated, err := s.UpdatePreset("alice", p1.ID, models.PresetUpdate{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "sales v2", updated.Name)
		assert.Equal(t, "tab1", updated.TabID)
		assert.Len(t, updated.GridConfig.Charts, 2)
		assert.NotEqual(t, updated.CreatedAt, updated.UpdatedAt)

		all, err = s.ListPresets("alice", "")
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, p1.ID, all[1].ID, "update keeps index position")
		assert.Equal(t, "sales v2", all[1].Name)

		loaded, err := s.LoadPreset("alice", p1.ID)
		require.NoError(t, err)
		assert.Equal(t, "grid-cols-2", loaded.GridConfig.Layout)
		assert.Equal(t, "chart_1", loaded.GridConfig.Charts[1].Source.ChartData.ID())

		require.NoError(t, s.DeletePreset("alice", p1.ID))
		_, err = s.LoadPreset("alice", p1.ID)
		assert.ErrorIs(t, err, models.ErrNotFound)
		assert.ErrorIs(t, s.DeletePreset("alice", p1.ID), models.ErrNotFound)

		all, err = s.ListPresets("alice", "")
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, p2.ID, all[0].ID)
	})
}

func TestPreset_UpdateMissing(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s *DocumentStore) {
		name := "x"
		_, err := s.UpdatePreset("alice", "preset_20240101_000000_deadbeef", models.PresetUpdate{Name: &name})
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestPreset_IndexIsNotAPreset(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s *DocumentStore) {
		_, err := s.CreatePreset("alice", models.PresetCreate{Name: "n", TabID: "tab1"})
		require.NoError(t, err)

		_, err = s.LoadPreset("alice", "preset_index")
		assert.ErrorIs(t, err, models.ErrNotFound)
		assert.ErrorIs(t, s.DeletePreset("alice", "preset_index"), models.ErrNotFound)
	})
}

func TestPreset_Validation(t *testing.T) {
	tests := []struct {
		name string
		in   models.PresetCreate
	}{
		{name: "missing name", in: models.PresetCreate{TabID: "tab1"}},
		{name: "missing tab", in: models.PresetCreate{Name: "n"}},
		{
			name: "duplicate position",
			in: models.PresetCreate{Name: "n", TabID: "tab1", GridConfig: models.GridConfig{
				Charts: []models.ChartSlot{inlineSlot(0), inlineSlot(0)},
			}},
		},
		{
			name: "reference without query id",
			in: models.PresetCreate{Name: "n", TabID: "tab1", GridConfig: models.GridConfig{
				Charts: []models.ChartSlot{{Position: 0, Source: models.ChartSource{Type: models.SourceQueryReference}}},
			}},
		},
		{
			name: "unknown source",
			in: models.PresetCreate{Name: "n", TabID: "tab1", GridConfig: models.GridConfig{
				Charts: []models.ChartSlot{{Position: 0, Source: models.ChartSource{Type: "remote"}}},
			}},
		},
	}

	s := NewDocumentStore(backends[0].open(t))
	t.Cleanup(func() { _ = s.Close() })

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreatePreset("alice", tt.in)
			assert.ErrorIs(t, err, models.ErrInvalidPreset)
		})
	}
}

func TestFileKV_Layout(t *testing.T) {
	root := t.TempDir()
	kv, err := NewFileKV(root)
	require.NoError(t, err)
	s := NewDocumentStore(kv)

	id, err := s.AppendHistory("alice", &models.HistoryEntry{Question: "q", Response: json.RawMessage(`{}`)})
	require.NoError(t, err)
	p, err := s.CreatePreset("alice", models.PresetCreate{Name: "n", TabID: "tab1"})
	require.NoError(t, err)
	_, err = s.GetOrCreateUser("alice")
	require.NoError(t, err)

	for _, rel := range []string{
		"alice/metadata.json",
		"alice/history_index.json",
		"alice/queries/" + id + ".json",
		"alice/presets/" + p.ID + ".json",
		"alice/presets/preset_index.json",
	} {
		_, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
		assert.NoError(t, err, rel)
	}
}
