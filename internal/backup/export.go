package backup

import (
	"sort"
	"time"

	apperrors "github.com/yalin/transinvert/backend/internal/errors"
	"github.com/yalin/transinvert/backend/internal/logging"
	"github.com/yalin/transinvert/backend/internal/models"
	"github.com/yalin/transinvert/backend/internal/store"
	"github.com/yalin/transinvert/backend/internal/textutil"
)

// Exporter assembles snapshots from a persistent store.
type Exporter struct {
	store store.PersistentStore
}

// NewExporter creates a new Exporter.
func NewExporter(st store.PersistentStore) *Exporter {
	return &Exporter{store: st}
}

// Export loads the four collections and assembles a snapshot. It is strictly
// read-only. Items that fail structural validation are skipped one by one;
// only a failing Load aborts the export.
//
// History records do not store a text reference, so each record gets a
// best-effort text_id hint: the id of the text whose content fingerprint
// matches the record's text_content. When several texts share identical
// content, the smallest id wins, keeping repeated exports deterministic.
func (e *Exporter) Export() (*Snapshot, error) {
	current, err := e.store.Load()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrExportFailed, "failed to load store", err)
	}

	snap := &Snapshot{
		Version:    SnapshotVersion,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
	}
	snap.normalize()

	for id, f := range current.Folders {
		if err := f.Validate(); err != nil {
			logging.Warn("export: skipping invalid folder", map[string]interface{}{"id": id, "error": err.Error()})
			continue
		}
		snap.Folders[id] = f.Clone()
	}

	for id, t := range current.Texts {
		if err := t.Validate(); err != nil {
			logging.Warn("export: skipping invalid text", map[string]interface{}{"id": id, "error": err.Error()})
			continue
		}
		snap.Texts[id] = t.Clone()
	}

	for id, a := range current.Analyses {
		if err := a.Validate(); err != nil {
			logging.Warn("export: skipping invalid analysis", map[string]interface{}{"text_id": id, "error": err.Error()})
			continue
		}
		snap.Analyses[id] = a.Clone()
	}

	hashToID := contentIndex(snap.Texts)
	for _, r := range current.History {
		if err := r.Validate(); err != nil {
			logging.Warn("export: skipping invalid history record", map[string]interface{}{"error": err.Error()})
			continue
		}
		rec := &SnapshotRecord{PracticeRecord: *r.Clone()}
		if id, ok := hashToID[textutil.ContentHash(r.TextContent)]; ok {
			rec.TextID = id
		}
		snap.PracticeHistory = append(snap.PracticeHistory, rec)
	}

	snap.Stats = Stats{
		Folders:         len(snap.Folders),
		Texts:           len(snap.Texts),
		Analyses:        len(snap.Analyses),
		PracticeHistory: len(snap.PracticeHistory),
	}
	return snap, nil
}

// contentIndex maps content fingerprints to text ids. Ids are visited in
// sorted order so the first (smallest) id wins on duplicate content.
func contentIndex(texts map[string]*models.Text) map[string]string {
	index := make(map[string]string, len(texts))
	ids := make([]string, 0, len(texts))
	for id := range texts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		h := textutil.ContentHash(texts[id].Content)
		if _, ok := index[h]; !ok {
			index[h] = id
		}
	}
	return index
}
