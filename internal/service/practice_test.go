package service

import (
	"context"
	"testing"

	apperrors "github.com/yalin/transinvert/backend/internal/errors"
	"github.com/yalin/transinvert/backend/internal/models"
)

const evaluationReply = `{
	"score": 72,
	"corrections": [{"original": "I waked", "corrected": "I woke", "reason": "irregular verb"}],
	"overall_feedback": "继续加油",
	"is_acceptable": false
}`

func TestSubmitPractice(t *testing.T) {
	st := newMemStore()
	seedText(st, "t1", "Morning", "I woke up early.")
	st.data.Analyses["t1"] = analysisFor("t1")

	svc := newTestService(st, &stubChat{reply: evaluationReply})

	got, err := svc.SubmitPractice(context.Background(), "t1", "I waked up early.")
	if err != nil {
		t.Fatalf("SubmitPractice() error = %v", err)
	}

	if got.Score != 72 {
		t.Errorf("Score = %d, want 72", got.Score)
	}
	if got.TextTitle != "Morning" || got.TextContent != "I woke up early." {
		t.Errorf("record copies = %q / %q, want verbatim text", got.TextTitle, got.TextContent)
	}
	if got.ChineseTranslation != "翻译" {
		t.Errorf("ChineseTranslation = %q, want cached translation", got.ChineseTranslation)
	}
	if got.AIEvaluation == nil || len(got.AIEvaluation.Corrections) != 1 {
		t.Errorf("AIEvaluation = %+v", got.AIEvaluation)
	}
	if len(st.data.History) != 1 {
		t.Fatalf("history length = %d, want 1", len(st.data.History))
	}
}

func TestSubmitPractice_textNotFound(t *testing.T) {
	svc := newTestService(newMemStore(), &stubChat{reply: evaluationReply})

	_, err := svc.SubmitPractice(context.Background(), "nope", "input")
	if !apperrors.Is(err, apperrors.ErrTextNotFound) {
		t.Errorf("error = %v, want %s", err, apperrors.ErrTextNotFound)
	}
}

func TestSubmitPractice_noProvider(t *testing.T) {
	st := newMemStore()
	seedText(st, "t1", "A", "content")

	svc := newTestService(st, nil)
	_, err := svc.SubmitPractice(context.Background(), "t1", "input")
	if !apperrors.Is(err, apperrors.ErrAINotConfigured) {
		t.Errorf("error = %v, want %s", err, apperrors.ErrAINotConfigured)
	}
}

func TestSubmitPractice_emptyInput(t *testing.T) {
	svc := newTestService(newMemStore(), &stubChat{reply: evaluationReply})

	_, err := svc.SubmitPractice(context.Background(), "t1", "")
	if !apperrors.Is(err, apperrors.ErrInvalid) {
		t.Errorf("error = %v, want %s", err, apperrors.ErrInvalid)
	}
}

func TestHistory_newestFirst(t *testing.T) {
	st := newMemStore()
	st.data.History = []*models.PracticeRecord{
		{ID: "r1", Timestamp: "2024-01-01T00:00:00Z", TextContent: "a"},
		{ID: "r2", Timestamp: "2024-03-01T00:00:00Z", TextContent: "b"},
		{ID: "r3", Timestamp: "2024-02-01T00:00:00Z", TextContent: "c"},
	}

	svc := newTestService(st, nil)
	got, err := svc.History()
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(got) != 3 || got[0].ID != "r2" || got[2].ID != "r1" {
		t.Errorf("order = [%s %s %s], want [r2 r3 r1]", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestDeleteRecord(t *testing.T) {
	st := newMemStore()
	st.data.History = []*models.PracticeRecord{
		{ID: "r1", Timestamp: "2024-01-01T00:00:00Z", TextContent: "a"},
		{ID: "r2", Timestamp: "2024-02-01T00:00:00Z", TextContent: "b"},
	}

	svc := newTestService(st, nil)
	if err := svc.DeleteRecord("r1"); err != nil {
		t.Fatalf("DeleteRecord() error = %v", err)
	}
	if len(st.data.History) != 1 || st.data.History[0].ID != "r2" {
		t.Errorf("history = %+v, want only r2", st.data.History)
	}

	if err := svc.DeleteRecord("r1"); !apperrors.Is(err, apperrors.ErrRecordNotFound) {
		t.Errorf("error = %v, want %s", err, apperrors.ErrRecordNotFound)
	}
}

func TestDueForReview(t *testing.T) {
	st := newMemStore()
	st.data.History = []*models.PracticeRecord{
		{ID: "low-new", Timestamp: "2024-02-01T00:00:00Z", TextContent: "a", Score: 60},
		{ID: "high", Timestamp: "2024-01-01T00:00:00Z", TextContent: "b", Score: 95},
		{ID: "low-old", Timestamp: "2024-01-15T00:00:00Z", TextContent: "c", Score: 40},
		{ID: "exhausted", Timestamp: "2024-01-10T00:00:00Z", TextContent: "d", Score: 50, ReviewCount: 3},
	}

	svc := newTestService(st, nil)
	got, err := svc.DueForReview()
	if err != nil {
		t.Fatalf("DueForReview() error = %v", err)
	}
	if len(got) != 2 || got[0].ID != "low-old" || got[1].ID != "low-new" {
		t.Errorf("due = %+v, want [low-old low-new] oldest first", got)
	}
}

func TestMarkReviewed(t *testing.T) {
	st := newMemStore()
	st.data.History = []*models.PracticeRecord{
		{ID: "r1", Timestamp: "2024-01-01T00:00:00Z", TextContent: "a", Score: 60},
	}

	svc := newTestService(st, nil)
	got, err := svc.MarkReviewed("r1")
	if err != nil {
		t.Fatalf("MarkReviewed() error = %v", err)
	}
	if got.ReviewCount != 1 || got.LastReviewed == "" {
		t.Errorf("record = %+v, want review counted and stamped", got)
	}
	if st.data.History[0].ReviewCount != 1 {
		t.Error("review count not persisted")
	}

	if _, err := svc.MarkReviewed("nope"); !apperrors.Is(err, apperrors.ErrRecordNotFound) {
		t.Errorf("error = %v, want %s", err, apperrors.ErrRecordNotFound)
	}
}
