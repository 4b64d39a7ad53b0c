// Package store provides persistence for the four application collections.
package store

import (
	"github.com/yalin/transinvert/backend/internal/models"
)

// Collections bundles the four persisted collections. Folders, Texts and
// Analyses are keyed by id (Analyses by text id); History is append-ordered.
type Collections struct {
	Folders  map[string]*models.Folder
	Texts    map[string]*models.Text
	Analyses map[string]*models.Analysis
	History  []*models.PracticeRecord
}

// NewCollections returns an empty, non-nil set of collections.
func NewCollections() *Collections {
	return &Collections{
		Folders:  make(map[string]*models.Folder),
		Texts:    make(map[string]*models.Text),
		Analyses: make(map[string]*models.Analysis),
		History:  []*models.PracticeRecord{},
	}
}

// Clone returns a deep copy. Mutating the copy never affects the original,
// which is what lets the merge engine build a full working state before
// deciding whether to persist it.
func (c *Collections) Clone() *Collections {
	out := NewCollections()
	for id, f := range c.Folders {
		out.Folders[id] = f.Clone()
	}
	for id, t := range c.Texts {
		out.Texts[id] = t.Clone()
	}
	for id, a := range c.Analyses {
		out.Analyses[id] = a.Clone()
	}
	for _, r := range c.History {
		out.History = append(out.History, r.Clone())
	}
	return out
}

// normalize replaces nil maps/slices after deserialization.
func (c *Collections) normalize() {
	if c.Folders == nil {
		c.Folders = make(map[string]*models.Folder)
	}
	if c.Texts == nil {
		c.Texts = make(map[string]*models.Text)
	}
	if c.Analyses == nil {
		c.Analyses = make(map[string]*models.Analysis)
	}
	if c.History == nil {
		c.History = []*models.PracticeRecord{}
	}
}

// PersistentStore is the persistence boundary for the four collections.
// Load returns a consistent point-in-time copy; Save replaces the persisted
// state with the given collections. Both are atomic from the caller's point
// of view: a failed Save leaves the previous state intact.
type PersistentStore interface {
	Load() (*Collections, error)
	Save(c *Collections) error
}

// Compile-time interface checks.
var (
	_ PersistentStore = (*FileStore)(nil)
	_ PersistentStore = (*SQLiteStore)(nil)
)
