package models

import "fmt"

// PracticeType distinguishes how a text is meant to be practiced.
type PracticeType string

const (
	PracticeTypeTranslation PracticeType = "translation"
	PracticeTypeDictation   PracticeType = "dictation"
)

// Text represents an English practice material.
// Content is the dedup key for snapshot imports, via its content hash.
type Text struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Content      string       `json:"content"`
	WordCount    int          `json:"word_count"`
	CreatedAt    string       `json:"created_at"`
	PracticeType PracticeType `json:"practice_type,omitempty"`
	Topic        string       `json:"topic,omitempty"`
	Source       string       `json:"source,omitempty"`
	FolderID     *string      `json:"folder_id"`
}

// Validate checks the required text fields.
func (t *Text) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("text: missing id")
	}
	if t.Title == "" {
		return fmt.Errorf("text %s: missing title", t.ID)
	}
	if t.Content == "" {
		return fmt.Errorf("text %s: missing content", t.ID)
	}
	if t.CreatedAt == "" {
		return fmt.Errorf("text %s: missing created_at", t.ID)
	}
	return nil
}

// Clone returns a deep copy of the text.
func (t *Text) Clone() *Text {
	c := *t
	if t.FolderID != nil {
		f := *t.FolderID
		c.FolderID = &f
	}
	return &c
}

// DifficultWord is a word/meaning pair flagged by analysis.
type DifficultWord struct {
	Word    string `json:"word"`
	Meaning string `json:"meaning"`
}

// Analysis holds the AI analysis of a text, keyed by text id.
type Analysis struct {
	TextID         string          `json:"text_id"`
	Translation    string          `json:"translation"`
	DifficultWords []DifficultWord `json:"difficult_words"`
	Difficulty     int             `json:"difficulty"`
	KeyPoints      []string        `json:"key_points"`
	WordCount      int             `json:"word_count"`
}

// Validate checks the required analysis fields.
func (a *Analysis) Validate() error {
	if a.TextID == "" {
		return fmt.Errorf("analysis: missing text_id")
	}
	if a.Translation == "" {
		return fmt.Errorf("analysis %s: missing translation", a.TextID)
	}
	return nil
}

// Clone returns a deep copy of the analysis.
func (a *Analysis) Clone() *Analysis {
	c := *a
	c.DifficultWords = append([]DifficultWord(nil), a.DifficultWords...)
	c.KeyPoints = append([]string(nil), a.KeyPoints...)
	return &c
}
