// Package service implements the application services over the persistent
// store: text materials, folders, practice and review.
package service

import (
	"sync"

	"github.com/yalin/transinvert/backend/internal/analysis"
	"github.com/yalin/transinvert/backend/internal/store"
)

// Service coordinates all store-backed operations. The store exposes whole
// collections, so every mutation is load-modify-save under one mutex.
type Service struct {
	mu       sync.Mutex
	store    store.PersistentStore
	analyzer *analysis.Analyzer
}

// New creates a Service. analyzer may be nil when no AI provider is
// configured; operations that need it fail with AI_NOT_CONFIGURED.
func New(st store.PersistentStore, analyzer *analysis.Analyzer) *Service {
	return &Service{store: st, analyzer: analyzer}
}

// update runs fn against a loaded copy of the collections and persists the
// result if fn succeeds.
func (s *Service) update(fn func(c *store.Collections) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.store.Load()
	if err != nil {
		return err
	}
	if err := fn(c); err != nil {
		return err
	}
	return s.store.Save(c)
}

// view runs fn against a loaded copy without persisting anything.
func (s *Service) view(fn func(c *store.Collections) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.store.Load()
	if err != nil {
		return err
	}
	return fn(c)
}
