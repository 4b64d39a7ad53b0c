package service

import (
	"context"

	"github.com/yalin/transinvert/backend/internal/analysis"
	"github.com/yalin/transinvert/backend/internal/models"
	"github.com/yalin/transinvert/backend/internal/store"
)

// memStore is an in-memory PersistentStore for tests.
type memStore struct {
	data     *store.Collections
	failSave bool
	saves    int
}

func newMemStore() *memStore {
	return &memStore{data: store.NewCollections()}
}

func (m *memStore) Load() (*store.Collections, error) {
	return m.data.Clone(), nil
}

func (m *memStore) Save(c *store.Collections) error {
	if m.failSave {
		return errSaveFailed
	}
	m.saves++
	m.data = c.Clone()
	return nil
}

var errSaveFailed = &saveError{}

type saveError struct{}

func (*saveError) Error() string { return "save failed" }

// stubChat replays one canned JSON reply for every provider call.
type stubChat struct {
	reply string
	err   error
	calls int
}

func (s *stubChat) Chat(_ context.Context, _, _ string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func newTestService(st store.PersistentStore, chat analysis.ChatClient) *Service {
	var a *analysis.Analyzer
	if chat != nil {
		a = analysis.NewAnalyzer(chat)
	}
	return New(st, a)
}

func seedText(m *memStore, id, title, content string) *models.Text {
	t := &models.Text{
		ID:        id,
		Title:     title,
		Content:   content,
		CreatedAt: "2024-01-01T00:00:00Z",
	}
	m.data.Texts[id] = t
	return t
}

func seedFolder(m *memStore, id, name string, parentID *string) *models.Folder {
	f := &models.Folder{
		ID:        id,
		Name:      name,
		ParentID:  parentID,
		CreatedAt: "2024-01-01T00:00:00Z",
	}
	m.data.Folders[id] = f
	return f
}
