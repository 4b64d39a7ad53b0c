package models

import "fmt"

// Correction is a single correction suggested by the evaluator.
type Correction struct {
	Original  string `json:"original"`
	Corrected string `json:"corrected"`
	Reason    string `json:"reason,omitempty"`
}

// Evaluation is the AI evaluation of one practice submission.
type Evaluation struct {
	Score           int          `json:"score"`
	Corrections     []Correction `json:"corrections"`
	OverallFeedback string       `json:"overall_feedback"`
	IsAcceptable    bool         `json:"is_acceptable"`
}

// Clone returns a deep copy of the evaluation.
func (e *Evaluation) Clone() *Evaluation {
	c := *e
	c.Corrections = append([]Correction(nil), e.Corrections...)
	return &c
}

// PracticeRecord is one completed practice attempt.
// TextContent and TextTitle are verbatim copies of the material at submission
// time, not live references to a Text.
type PracticeRecord struct {
	ID                 string      `json:"id"`
	Timestamp          string      `json:"timestamp"`
	TextTitle          string      `json:"text_title"`
	TextContent        string      `json:"text_content"`
	ChineseTranslation string      `json:"chinese_translation"`
	UserInput          string      `json:"user_input"`
	AIEvaluation       *Evaluation `json:"ai_evaluation,omitempty"`
	Score              int         `json:"score"`
	ReviewCount        int         `json:"review_count"`
	LastReviewed       string      `json:"last_reviewed,omitempty"`
	ErrorPatterns      []string    `json:"error_patterns,omitempty"`
}

// Validate checks the required record fields.
func (r *PracticeRecord) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("practice record: missing id")
	}
	if r.TextContent == "" {
		return fmt.Errorf("practice record %s: missing text_content", r.ID)
	}
	return nil
}

// Clone returns a deep copy of the record.
func (r *PracticeRecord) Clone() *PracticeRecord {
	c := *r
	if r.AIEvaluation != nil {
		c.AIEvaluation = r.AIEvaluation.Clone()
	}
	c.ErrorPatterns = append([]string(nil), r.ErrorPatterns...)
	return &c
}

// NeedsReview reports whether the record is due for another review pass.
// Low-scoring attempts are resurfaced up to three times.
func (r *PracticeRecord) NeedsReview() bool {
	return r.Score < 80 && r.ReviewCount < 3
}

// MarkReviewed increments the review counter and stamps the review time.
func (r *PracticeRecord) MarkReviewed(now string) {
	r.ReviewCount++
	r.LastReviewed = now
}
