package backup

import (
	"encoding/json"
	"testing"

	apperrors "github.com/yalin/transinvert/backend/internal/errors"
	"github.com/yalin/transinvert/backend/internal/models"
)

func emptySnapshot() *Snapshot {
	s := &Snapshot{Version: SnapshotVersion, ExportedAt: "2026-01-02T03:04:05Z"}
	s.normalize()
	return s
}

func snapText(id, title, content string) *models.Text {
	return newText(id, title, content)
}

func TestImport_rejectsBadSnapshots(t *testing.T) {
	st := newMemStore()
	imp := NewImporter(st)

	tests := []struct {
		name string
		snap *Snapshot
	}{
		{"nil snapshot", nil},
		{"missing version", &Snapshot{ExportedAt: "2026-01-02T03:04:05Z"}},
		{"unsupported version", &Snapshot{Version: "1.0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := imp.Import(tt.snap, Options{Mode: ModeMerge})
			if err == nil {
				t.Fatal("Import() should reject the snapshot")
			}
			if !apperrors.Is(err, apperrors.ErrBadSnapshot) {
				t.Errorf("error code = %v, want %s", err, apperrors.ErrBadSnapshot)
			}
			if st.saves != 0 {
				t.Error("rejected import must not touch the store")
			}
		})
	}
}

func TestImport_rejectsUnknownMode(t *testing.T) {
	if _, err := NewImporter(newMemStore()).Import(emptySnapshot(), Options{Mode: "sideways"}); err == nil {
		t.Fatal("Import() should reject unknown modes")
	}
}

func TestImport_defaultsToMerge(t *testing.T) {
	st := newMemStore()
	st.data.Texts["t1"] = newText("t1", "A", "Hello world")

	summary, err := NewImporter(st).Import(emptySnapshot(), Options{})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if summary.Mode != ModeMerge {
		t.Errorf("Mode = %q, want merge", summary.Mode)
	}
	if summary.Counts.Texts != 1 {
		t.Errorf("existing text lost under default mode: counts = %+v", summary.Counts)
	}
}

func TestImport_mergeInsertsNewItems(t *testing.T) {
	st := newMemStore()
	snap := emptySnapshot()
	snap.Folders["f1"] = &models.Folder{ID: "f1", Name: "Inbox"}
	snap.Texts["t1"] = snapText("t1", "A", "Hello world")
	snap.Analyses["t1"] = &models.Analysis{TextID: "t1", Translation: "你好世界"}
	snap.PracticeHistory = append(snap.PracticeHistory,
		&SnapshotRecord{PracticeRecord: *newRecord("r1", "A", "Hello world"), TextID: "t1"})

	summary, err := NewImporter(st).Import(snap, Options{Mode: ModeMerge})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	if summary.Imported.Folders != 1 || summary.Imported.Texts != 1 ||
		summary.Imported.Analyses != 1 || summary.Imported.History != 1 {
		t.Errorf("Imported = %+v, want 1 of each", summary.Imported)
	}
	want := Stats{Folders: 1, Texts: 1, Analyses: 1, PracticeHistory: 1}
	if summary.Counts != want {
		t.Errorf("Counts = %+v, want %+v", summary.Counts, want)
	}
	if st.saves != 1 {
		t.Errorf("saves = %d, want 1", st.saves)
	}
	if st.data.Texts["t1"] == nil {
		t.Error("text t1 not persisted")
	}
}

// A store holding T1 ("Hello world") merged with a snapshot
// text T2 whose content differs only in whitespace must end with exactly one
// text, imported 0 / skipped 1.
func TestImport_contentDedup(t *testing.T) {
	st := newMemStore()
	st.data.Texts["T1"] = newText("T1", "Hello", "Hello world")

	snap := emptySnapshot()
	snap.Texts["T2"] = snapText("T2", "Hello again", "Hello   world")

	summary, err := NewImporter(st).Import(snap, Options{Mode: ModeMerge})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	if summary.Imported.Texts != 0 || summary.Imported.SkippedTexts != 1 {
		t.Errorf("texts imported/skipped = %d/%d, want 0/1",
			summary.Imported.Texts, summary.Imported.SkippedTexts)
	}
	if summary.Counts.Texts != 1 {
		t.Errorf("Counts.Texts = %d, want 1", summary.Counts.Texts)
	}
	if st.data.Texts["T1"] == nil || st.data.Texts["T2"] != nil {
		t.Error("dedup should keep T1 and not create T2")
	}
}

// Analyses and history referencing either id of a deduped pair must resolve
// to the single surviving text.
func TestImport_dedupRemapsReferences(t *testing.T) {
	st := newMemStore()
	st.data.Texts["T1"] = newText("T1", "Hello", "Hello world")

	snap := emptySnapshot()
	snap.Texts["T2"] = snapText("T2", "Hello again", "Hello world")
	snap.Analyses["T2"] = &models.Analysis{TextID: "T2", Translation: "你好世界"}
	snap.PracticeHistory = append(snap.PracticeHistory,
		&SnapshotRecord{PracticeRecord: *newRecord("r1", "Hello again", "stale copy"), TextID: "T2"})

	summary, err := NewImporter(st).Import(snap, Options{Mode: ModeMerge})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	if a := st.data.Analyses["T1"]; a == nil || a.TextID != "T1" {
		t.Fatalf("analysis not remapped onto T1: %+v", st.data.Analyses)
	}
	if summary.Counts.Analyses != 1 {
		t.Errorf("Counts.Analyses = %d, want 1", summary.Counts.Analyses)
	}
	rec := st.data.History[0]
	if rec.TextContent != "Hello world" || rec.TextTitle != "Hello" {
		t.Errorf("history not realigned to surviving text: %+v", rec)
	}
}

func TestImport_idCollisionGetsDeterministicFreshID(t *testing.T) {
	st := newMemStore()
	st.data.Texts["T1"] = newText("T1", "Original", "Original content")

	snap := emptySnapshot()
	snap.Texts["T1"] = snapText("T1", "Intruder", "Unrelated content")

	summary, err := NewImporter(st).Import(snap, Options{Mode: ModeMerge})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	if summary.Imported.Texts != 1 {
		t.Errorf("Imported.Texts = %d, want 1", summary.Imported.Texts)
	}
	moved := st.data.Texts["T1-import-2"]
	if moved == nil {
		t.Fatalf("collided text not found under T1-import-2; have %v", sortedKeys(st.data.Texts))
	}
	if moved.ID != "T1-import-2" || moved.Content != "Unrelated content" {
		t.Errorf("moved text = %+v", moved)
	}
	if st.data.Texts["T1"].Content != "Original content" {
		t.Error("existing text was overwritten on id collision")
	}
}

// A history record whose hint resolves through the collision
// remap must take the target text's current title, whatever was exported.
func TestImport_historyRealignedThroughCollisionRemap(t *testing.T) {
	st := newMemStore()
	st.data.Texts["T1"] = newText("T1", "A", "Original content")

	snap := emptySnapshot()
	snap.Texts["T1"] = snapText("T1", "B", "Unrelated content")
	snap.PracticeHistory = append(snap.PracticeHistory,
		&SnapshotRecord{PracticeRecord: *newRecord("r1", "Old title", "old copy"), TextID: "T1"})

	if _, err := NewImporter(st).Import(snap, Options{Mode: ModeMerge}); err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	rec := st.data.History[0]
	if rec.TextTitle != "B" {
		t.Errorf("TextTitle = %q, want B (current title of remapped text)", rec.TextTitle)
	}
	if rec.TextContent != "Unrelated content" {
		t.Errorf("TextContent = %q, want the remapped text's content", rec.TextContent)
	}
}

func TestImport_historyDedupByID(t *testing.T) {
	st := newMemStore()
	st.data.History = append(st.data.History, newRecord("r1", "A", "Hello world"))

	snap := emptySnapshot()
	snap.PracticeHistory = append(snap.PracticeHistory,
		&SnapshotRecord{PracticeRecord: *newRecord("r1", "A", "Hello world")},
		&SnapshotRecord{PracticeRecord: *newRecord("r2", "B", "Other text")})

	summary, err := NewImporter(st).Import(snap, Options{Mode: ModeMerge})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	if summary.Imported.History != 1 || summary.Imported.SkippedHistory != 1 {
		t.Errorf("history imported/skipped = %d/%d, want 1/1",
			summary.Imported.History, summary.Imported.SkippedHistory)
	}
	if len(st.data.History) != 2 {
		t.Errorf("history size = %d, want 2", len(st.data.History))
	}
}

func TestImport_replaceDiscardsExistingState(t *testing.T) {
	st := newMemStore()
	st.data.Texts["old"] = newText("old", "Old", "Old content")
	st.data.Folders["f-old"] = &models.Folder{ID: "f-old", Name: "Old"}

	snap := emptySnapshot()
	snap.Texts["t1"] = snapText("t1", "New", "New content")

	summary, err := NewImporter(st).Import(snap, Options{Mode: ModeReplace})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	want := Stats{Texts: 1}
	if summary.Counts != want {
		t.Errorf("Counts = %+v, want %+v", summary.Counts, want)
	}
	if st.data.Texts["old"] != nil || st.data.Folders["f-old"] != nil {
		t.Error("replace mode must discard previous contents")
	}
}

func TestImport_folderUpsert(t *testing.T) {
	parent := "p1"
	st := newMemStore()
	st.data.Folders["f1"] = &models.Folder{ID: "f1", Name: "Before"}

	snap := emptySnapshot()
	snap.Folders["f1"] = &models.Folder{ID: "f1", Name: "After", ParentID: &parent}
	snap.Folders["f2"] = &models.Folder{ID: "f2", Name: "Fresh"}

	summary, err := NewImporter(st).Import(snap, Options{Mode: ModeMerge})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	if summary.Imported.Folders != 2 {
		t.Errorf("Imported.Folders = %d, want 2", summary.Imported.Folders)
	}
	f1 := st.data.Folders["f1"]
	if f1.Name != "After" || f1.ParentID == nil || *f1.ParentID != "p1" {
		t.Errorf("folder f1 not updated in place: %+v", f1)
	}
}

func TestImport_skipsMalformedItems(t *testing.T) {
	st := newMemStore()
	snap := emptySnapshot()
	snap.Folders["f1"] = &models.Folder{ID: "f1"}              // missing name
	snap.Texts["t1"] = &models.Text{ID: "t1", Title: "A"}      // missing content
	snap.Texts["t2"] = snapText("t2", "B", "Valid content")
	snap.Analyses["t2"] = &models.Analysis{TextID: "t2"}       // missing translation
	snap.PracticeHistory = append(snap.PracticeHistory,
		&SnapshotRecord{PracticeRecord: models.PracticeRecord{ID: "r1"}}) // missing text_content

	summary, err := NewImporter(st).Import(snap, Options{Mode: ModeMerge})
	if err != nil {
		t.Fatalf("Import() should tolerate malformed items, got %v", err)
	}

	want := Stats{Texts: 1}
	if summary.Counts != want {
		t.Errorf("Counts = %+v, want %+v", summary.Counts, want)
	}
	if summary.Imported.Folders != 0 || summary.Imported.Analyses != 0 || summary.Imported.History != 0 {
		t.Errorf("malformed items were counted as imported: %+v", summary.Imported)
	}
}

// Referential integrity: every analysis in the result must point at a text
// present in the result, so orphans are dropped rather than inserted.
func TestImport_dropsOrphanAnalyses(t *testing.T) {
	st := newMemStore()
	snap := emptySnapshot()
	snap.Analyses["ghost"] = &models.Analysis{TextID: "ghost", Translation: "幽灵"}

	summary, err := NewImporter(st).Import(snap, Options{Mode: ModeMerge})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	if summary.Counts.Analyses != 0 || summary.Imported.SkippedAnalyses != 1 {
		t.Errorf("orphan analysis handling: counts=%+v imported=%+v", summary.Counts, summary.Imported)
	}
	for id, a := range st.data.Analyses {
		if st.data.Texts[a.TextID] == nil {
			t.Errorf("analysis %s references missing text %s", id, a.TextID)
		}
	}
}

func TestImport_dryRunPurity(t *testing.T) {
	st := newMemStore()
	st.data.Texts["t1"] = newText("t1", "A", "Hello world")

	before, err := NewExporter(st).Export()
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	snap := emptySnapshot()
	snap.Texts["t2"] = snapText("t2", "B", "Other content")
	snap.Folders["f1"] = &models.Folder{ID: "f1", Name: "Inbox"}

	summary, err := NewImporter(st).Import(snap, Options{Mode: ModeMerge, DryRun: true})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	if !summary.DryRun {
		t.Error("summary should carry dry_run=true")
	}
	if summary.Counts.Texts != 2 || summary.Imported.Texts != 1 {
		t.Errorf("dry run must still compute the outcome: %+v", summary)
	}
	if st.saves != 0 {
		t.Fatalf("dry run performed %d saves, want 0", st.saves)
	}

	after, err := NewExporter(st).Export()
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	before.ExportedAt, after.ExportedAt = "", ""
	b1, _ := json.Marshal(before)
	b2, _ := json.Marshal(after)
	if string(b1) != string(b2) {
		t.Errorf("dry run changed subsequent export:\nbefore %s\nafter  %s", b1, b2)
	}
}

// Importing the same snapshot twice in merge mode must recognize everything
// as duplicates the second time.
func TestImport_idempotence(t *testing.T) {
	st := newMemStore()
	snap := emptySnapshot()
	snap.Folders["f1"] = &models.Folder{ID: "f1", Name: "Inbox"}
	snap.Texts["t1"] = snapText("t1", "A", "Hello world")
	snap.Texts["t2"] = snapText("t2", "B", "Other content")
	snap.Analyses["t1"] = &models.Analysis{TextID: "t1", Translation: "你好世界"}
	snap.PracticeHistory = append(snap.PracticeHistory,
		&SnapshotRecord{PracticeRecord: *newRecord("r1", "A", "Hello world"), TextID: "t1"})

	imp := NewImporter(st)
	first, err := imp.Import(snap, Options{Mode: ModeMerge})
	if err != nil {
		t.Fatalf("first Import() error = %v", err)
	}
	second, err := imp.Import(snap, Options{Mode: ModeMerge})
	if err != nil {
		t.Fatalf("second Import() error = %v", err)
	}

	if first.Counts != second.Counts {
		t.Errorf("counts changed on re-import: first %+v, second %+v", first.Counts, second.Counts)
	}
	if second.Imported.Texts != 0 || second.Imported.SkippedTexts != 2 {
		t.Errorf("second pass texts imported/skipped = %d/%d, want 0/2",
			second.Imported.Texts, second.Imported.SkippedTexts)
	}
	if second.Imported.History != 0 || second.Imported.SkippedHistory != 1 {
		t.Errorf("second pass history imported/skipped = %d/%d, want 0/1",
			second.Imported.History, second.Imported.SkippedHistory)
	}
}

// Export-then-reimport in merge mode is a no-op.
func TestImport_roundTrip(t *testing.T) {
	st := newMemStore()
	st.data.Folders["f1"] = &models.Folder{ID: "f1", Name: "Inbox"}
	st.data.Texts["t1"] = newText("t1", "A", "Hello world")
	st.data.Texts["t2"] = newText("t2", "B", "Other content")
	st.data.Analyses["t1"] = &models.Analysis{TextID: "t1", Translation: "你好世界"}
	st.data.History = append(st.data.History, newRecord("r1", "A", "Hello world"))

	snap, err := NewExporter(st).Export()
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	summary, err := NewImporter(st).Import(snap, Options{Mode: ModeMerge})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	want := Stats{Folders: 1, Texts: 2, Analyses: 1, PracticeHistory: 1}
	if summary.Counts != want {
		t.Errorf("round trip changed counts: %+v, want %+v", summary.Counts, want)
	}
	if summary.Imported.Texts != 0 || summary.Imported.History != 0 {
		t.Errorf("round trip imported new items: %+v", summary.Imported)
	}
}

func TestImport_saveFailureLeavesStoreIntact(t *testing.T) {
	st := newMemStore()
	st.data.Texts["t1"] = newText("t1", "A", "Hello world")
	st.failSave = true

	snap := emptySnapshot()
	snap.Texts["t2"] = snapText("t2", "B", "Other content")

	_, err := NewImporter(st).Import(snap, Options{Mode: ModeMerge})
	if err == nil {
		t.Fatal("Import() should surface save failures")
	}
	if !apperrors.Is(err, apperrors.ErrStoreSave) {
		t.Errorf("error code = %v, want %s", err, apperrors.ErrStoreSave)
	}
	if len(st.data.Texts) != 1 {
		t.Error("failed save must leave the pre-import state untouched")
	}
}

// Two texts inside the same snapshot with identical content dedup against
// each other via the incrementally maintained content index.
func TestImport_intraSnapshotDedup(t *testing.T) {
	st := newMemStore()
	snap := emptySnapshot()
	snap.Texts["a1"] = snapText("a1", "First", "Shared content")
	snap.Texts["b1"] = snapText("b1", "Second", "Shared  content")

	summary, err := NewImporter(st).Import(snap, Options{Mode: ModeMerge})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	if summary.Counts.Texts != 1 {
		t.Errorf("Counts.Texts = %d, want 1", summary.Counts.Texts)
	}
	if summary.Imported.Texts != 1 || summary.Imported.SkippedTexts != 1 {
		t.Errorf("imported/skipped = %d/%d, want 1/1",
			summary.Imported.Texts, summary.Imported.SkippedTexts)
	}
	if st.data.Texts["a1"] == nil {
		t.Error("sorted order should keep a1 as the surviving id")
	}
}
