// Package backup provides full snapshot export and merge import of the four
// application collections (folders, texts, analyses, practice history).
package backup

import (
	"fmt"

	"github.com/yalin/transinvert/backend/internal/models"
)

// SnapshotVersion is the only snapshot format this engine produces or merges.
const SnapshotVersion = "2.0"

// SnapshotRecord is a practice history record as carried inside a snapshot.
// TextID is a best-effort link to the text the record was practiced against;
// it exists only for import reconciliation and is never persisted in the
// live store.
type SnapshotRecord struct {
	models.PracticeRecord
	TextID string `json:"text_id,omitempty"`
}

// Stats holds per-collection sizes.
type Stats struct {
	Folders         int `json:"folders"`
	Texts           int `json:"texts"`
	Analyses        int `json:"analyses"`
	PracticeHistory int `json:"practice_history"`
}

// Snapshot is an immutable point-in-time copy of the four collections,
// suitable for download and later re-import.
type Snapshot struct {
	Version         string                      `json:"version"`
	ExportedAt      string                      `json:"exported_at"`
	Stats           Stats                       `json:"stats"`
	Folders         map[string]*models.Folder   `json:"folders"`
	Texts           map[string]*models.Text     `json:"texts"`
	Analyses        map[string]*models.Analysis `json:"analyses"`
	PracticeHistory []*SnapshotRecord           `json:"practice_history"`
}

// Validate checks that the snapshot is a well-formed container of a supported
// version. It does not validate individual items; those are checked (and
// skipped when broken) during import. Missing collection maps are tolerated
// and normalized to empty.
func (s *Snapshot) Validate() error {
	if s == nil {
		return fmt.Errorf("snapshot is nil")
	}
	if s.Version == "" {
		return fmt.Errorf("snapshot missing version")
	}
	if s.Version != SnapshotVersion {
		return fmt.Errorf("unsupported snapshot version %q (want %s)", s.Version, SnapshotVersion)
	}
	s.normalize()
	return nil
}

func (s *Snapshot) normalize() {
	if s.Folders == nil {
		s.Folders = make(map[string]*models.Folder)
	}
	if s.Texts == nil {
		s.Texts = make(map[string]*models.Text)
	}
	if s.Analyses == nil {
		s.Analyses = make(map[string]*models.Analysis)
	}
	if s.PracticeHistory == nil {
		s.PracticeHistory = []*SnapshotRecord{}
	}
}
