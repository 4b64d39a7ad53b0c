package backup

import (
	"fmt"
	"sort"

	apperrors "github.com/yalin/transinvert/backend/internal/errors"
	"github.com/yalin/transinvert/backend/internal/logging"
	"github.com/yalin/transinvert/backend/internal/store"
	"github.com/yalin/transinvert/backend/internal/textutil"
)

// Mode selects the import strategy.
type Mode string

const (
	// ModeMerge augments the existing store, deduplicating by id and content.
	ModeMerge Mode = "merge"
	// ModeReplace discards the existing store before applying the snapshot.
	ModeReplace Mode = "replace"
)

// Options controls one import run.
type Options struct {
	Mode   Mode
	DryRun bool
}

// Breakdown counts what happened per collection during an import.
type Breakdown struct {
	Folders         int `json:"folders"`
	Texts           int `json:"texts"`
	Analyses        int `json:"analyses"`
	History         int `json:"history"`
	SkippedTexts    int `json:"skipped_texts"`
	SkippedAnalyses int `json:"skipped_analyses"`
	SkippedHistory  int `json:"skipped_history"`
}

// Summary is the outcome of one import run. Counts are the final collection
// sizes; Imported is the per-collection imported/skipped breakdown.
type Summary struct {
	Mode     Mode      `json:"mode"`
	DryRun   bool      `json:"dry_run"`
	Counts   Stats     `json:"counts"`
	Imported Breakdown `json:"imported"`
}

// Importer merges snapshots into a persistent store.
//
// The importer is not safe for concurrent use against the same store; the
// caller must serialize imports (the HTTP layer holds a mutex for the
// duration of each call).
type Importer struct {
	store store.PersistentStore
}

// NewImporter creates a new Importer.
func NewImporter(st store.PersistentStore) *Importer {
	return &Importer{store: st}
}

// Import computes the result of applying snap to the current store contents
// and, unless opts.DryRun, persists it in a single atomic Save. The entire
// new state is built in memory first; no partial state ever reaches the
// store, and a dry run returns strictly before the persist call.
//
// A structurally invalid snapshot aborts the whole import before any phase
// runs. Individual malformed items are skipped, not fatal.
func (i *Importer) Import(snap *Snapshot, opts Options) (*Summary, error) {
	if err := snap.Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrBadSnapshot, "rejecting snapshot", err)
	}
	mode := opts.Mode
	if mode == "" {
		mode = ModeMerge
	}
	if mode != ModeMerge && mode != ModeReplace {
		return nil, apperrors.New(apperrors.ErrInvalid, fmt.Sprintf("unknown import mode %q", mode))
	}

	current, err := i.store.Load()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrImportFailed, "failed to load store", err)
	}

	// Working state: replace starts empty, merge starts from a deep copy so
	// the live collections stay untouched until the final Save.
	working := store.NewCollections()
	if mode == ModeMerge {
		working = current.Clone()
	}

	summary := &Summary{Mode: mode, DryRun: opts.DryRun}

	// idMap records where each incoming text id ended up; the content index
	// lets later texts in the same snapshot dedup against earlier ones.
	idMap := make(map[string]string)
	hashToID := contentIndex(working.Texts)

	i.mergeFolders(snap, working, summary)
	i.mergeTexts(snap, working, summary, idMap, hashToID)
	i.mergeAnalyses(snap, working, summary, idMap)
	i.mergeHistory(snap, working, summary, idMap)

	summary.Counts = Stats{
		Folders:         len(working.Folders),
		Texts:           len(working.Texts),
		Analyses:        len(working.Analyses),
		PracticeHistory: len(working.History),
	}

	if opts.DryRun {
		return summary, nil
	}

	if err := i.store.Save(working); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStoreSave, "failed to persist imported state", err)
	}
	return summary, nil
}

// mergeFolders upserts incoming folders by id. Folder ids are assumed
// globally meaningful, so there is no content-based dedup here.
func (i *Importer) mergeFolders(snap *Snapshot, working *store.Collections, summary *Summary) {
	for _, fid := range sortedKeys(snap.Folders) {
		f := snap.Folders[fid]
		if err := f.Validate(); err != nil {
			logging.Warn("import: skipping invalid folder", map[string]interface{}{"id": fid, "error": err.Error()})
			continue
		}
		if existing, ok := working.Folders[fid]; ok {
			if existing.Name != f.Name || !equalOptional(existing.ParentID, f.ParentID) {
				existing.Name = f.Name
				existing.ParentID = cloneOptional(f.ParentID)
			}
			summary.Imported.Folders++
		} else {
			working.Folders[fid] = f.Clone()
			summary.Imported.Folders++
		}
	}
}

// mergeTexts merges incoming texts, producing the id remap table used by the
// analysis and history phases. Ids are visited in sorted order so collision
// suffixes come out identical on every run against the same inputs.
func (i *Importer) mergeTexts(snap *Snapshot, working *store.Collections, summary *Summary,
	idMap map[string]string, hashToID map[string]string) {

	for _, tid := range sortedKeys(snap.Texts) {
		t := snap.Texts[tid]
		if err := t.Validate(); err != nil {
			logging.Warn("import: skipping invalid text", map[string]interface{}{"id": tid, "error": err.Error()})
			continue
		}
		ch := textutil.ContentHash(t.Content)

		if existing, ok := working.Texts[tid]; ok {
			if textutil.ContentHash(existing.Content) == ch {
				// Same id, same content: already present.
				idMap[tid] = tid
				summary.Imported.SkippedTexts++
			} else {
				// Id collision with unrelated content. Insert under a fresh
				// deterministic id instead of overwriting.
				newID := fmt.Sprintf("%s-import-%d", tid, len(working.Texts)+1)
				clone := t.Clone()
				clone.ID = newID
				working.Texts[newID] = clone
				idMap[tid] = newID
				hashToID[ch] = newID
				summary.Imported.Texts++
			}
			continue
		}

		if existingID, ok := hashToID[ch]; ok {
			// New id, known content: duplicate-by-content.
			idMap[tid] = existingID
			summary.Imported.SkippedTexts++
			continue
		}

		working.Texts[tid] = t.Clone()
		idMap[tid] = tid
		hashToID[ch] = tid
		summary.Imported.Texts++
	}
}

// mergeAnalyses re-keys incoming analyses through the text id remap table and
// upserts them, last write wins. An analysis whose resolved text id does not
// exist in the working texts is dropped so every surviving analysis keeps a
// valid text reference.
func (i *Importer) mergeAnalyses(snap *Snapshot, working *store.Collections, summary *Summary,
	idMap map[string]string) {

	for _, atid := range sortedKeys(snap.Analyses) {
		a := snap.Analyses[atid]
		if err := a.Validate(); err != nil {
			logging.Warn("import: skipping invalid analysis", map[string]interface{}{"text_id": atid, "error": err.Error()})
			continue
		}
		finalID := atid
		if mapped, ok := idMap[atid]; ok {
			finalID = mapped
		}
		if _, ok := working.Texts[finalID]; !ok {
			logging.Warn("import: dropping analysis for missing text", map[string]interface{}{"text_id": finalID})
			summary.Imported.SkippedAnalyses++
			continue
		}
		clone := a.Clone()
		clone.TextID = finalID
		working.Analyses[finalID] = clone
		summary.Imported.Analyses++
	}
}

// mergeHistory appends incoming records, deduplicated by record id. When a
// record's text hint resolves to a text in the working set, its content and
// title are overwritten with the current values of that text, restoring the
// verbatim-copy invariant against the merged target.
func (i *Importer) mergeHistory(snap *Snapshot, working *store.Collections, summary *Summary,
	idMap map[string]string) {

	existingIDs := make(map[string]bool, len(working.History))
	for _, r := range working.History {
		existingIDs[r.ID] = true
	}

	for _, r := range snap.PracticeHistory {
		if err := r.Validate(); err != nil {
			logging.Warn("import: skipping invalid history record", map[string]interface{}{"error": err.Error()})
			continue
		}

		rec := r.PracticeRecord.Clone()
		if r.TextID != "" {
			finalID := r.TextID
			if mapped, ok := idMap[r.TextID]; ok {
				finalID = mapped
			}
			if target, ok := working.Texts[finalID]; ok {
				rec.TextContent = target.Content
				rec.TextTitle = target.Title
			}
		}

		if existingIDs[rec.ID] {
			summary.Imported.SkippedHistory++
			continue
		}
		working.History = append(working.History, rec)
		existingIDs[rec.ID] = true
		summary.Imported.History++
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func equalOptional(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func cloneOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
