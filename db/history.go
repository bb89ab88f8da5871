package db

import (
	"errors"
	"fmt"

	"askchart/models"
)

// GetOrCreateUser returns the user's metadata, creating it on first use,
// and records the access time.
func (s *DocumentStore) GetOrCreateUser(username string) (*models.UserInfo, error) {
	if err := checkUser(username); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.loadUser(username)
	if err != nil {
		return nil, err
	}
	if err := s.putJSON(metadataKey(username), user); err != nil {
		return nil, err
	}
	return user, nil
}

// RecordQuery counts one processed question for the user.
func (s *DocumentStore) RecordQuery(username string, chartGenerated bool) (*models.UserInfo, error) {
	if err := checkUser(username); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.loadUser(username)
	if err != nil {
		return nil, err
	}
	user.TotalQueries++
	if chartGenerated {
		user.TotalCharts++
	}
	if err := s.putJSON(metadataKey(username), user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *DocumentStore) loadUser(username string) (*models.UserInfo, error) {
	now := s.timestamp()

	var user models.UserInfo
	err := s.getJSON(metadataKey(username), &user)
	switch {
	case errors.Is(err, models.ErrNotFound):
		user = models.UserInfo{Username: username, CreatedAt: now}
	case err != nil:
		return nil, err
	}
	user.LastAccessed = now
	return &user, nil
}

// AppendHistory stores entry under a fresh id and puts its summary at the
// front of the user's history index. The id is returned and also set on
// entry.
func (s *DocumentStore) AppendHistory(username string, entry *models.HistoryEntry) (string, error) {
	if err := checkUser(username); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry.ID = fmt.Sprintf("%s_%s", s.idPrefix(), shortID())
	entry.Timestamp = s.timestamp()

	if err := s.putJSON(historyKey(username, entry.ID), entry); err != nil {
		return "", err
	}

	index, err := s.historyIndex(username)
	if err != nil {
		return "", err
	}

	summary := models.HistorySummary{
		ID:             entry.ID,
		Timestamp:      entry.Timestamp,
		Question:       truncateRunes(entry.Question, historyQuestionRune),
		ChartGenerated: entry.ChartGenerated,
	}
	index = append([]models.HistorySummary{summary}, index...)
	if len(index) > historyIndexLimit {
		index = index[:historyIndexLimit]
	}

	if err := s.putJSON(historyIndexKey(username), index); err != nil {
		return "", err
	}
	return entry.ID, nil
}

// ListHistory returns up to limit summaries, most recent first. A
// non-positive limit returns the whole index.
func (s *DocumentStore) ListHistory(username string, limit int) ([]models.HistorySummary, error) {
	if err := checkUser(username); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.historyIndex(username)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(index) > limit {
		index = index[:limit]
	}
	return index, nil
}

func (s *DocumentStore) GetHistory(username, id string) (*models.HistoryEntry, error) {
	if err := checkDocument(username, id); err != nil {
		return nil, err
	}

	var entry models.HistoryEntry
	if err := s.getJSON(historyKey(username, id), &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *DocumentStore) historyIndex(username string) ([]models.HistorySummary, error) {
	index := []models.HistorySummary{}
	err := s.getJSON(historyIndexKey(username), &index)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	return index, nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
