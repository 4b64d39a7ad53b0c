package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	apperrors "github.com/yalin/transinvert/backend/internal/errors"
	"github.com/yalin/transinvert/backend/internal/models"
	"github.com/yalin/transinvert/backend/internal/store"
	"github.com/yalin/transinvert/backend/internal/uuid"
)

// SubmitPractice evaluates a reproduction attempt against a text and appends
// the result to the practice history. The stored record carries a verbatim
// copy of the text's content and title as they are at submission time.
func (s *Service) SubmitPractice(ctx context.Context, textID, userInput string) (*models.PracticeRecord, error) {
	if userInput == "" {
		return nil, apperrors.New(apperrors.ErrInvalid, "user input must not be empty")
	}
	if s.analyzer == nil {
		return nil, apperrors.New(apperrors.ErrAINotConfigured, "no AI provider configured")
	}

	text, err := s.GetText(textID)
	if err != nil {
		return nil, err
	}

	evaluation, err := s.analyzer.EvaluatePractice(ctx, text.Content, userInput)
	if err != nil {
		return nil, err
	}

	// Translation comes from the cached analysis when there is one; practice
	// should not force an extra provider call.
	translation := ""
	_ = s.view(func(c *store.Collections) error {
		if a, ok := c.Analyses[textID]; ok {
			translation = a.Translation
		}
		return nil
	})

	record := &models.PracticeRecord{
		ID:                 uuid.New(),
		Timestamp:          time.Now().UTC().Format(time.RFC3339),
		TextTitle:          text.Title,
		TextContent:        text.Content,
		ChineseTranslation: translation,
		UserInput:          userInput,
		AIEvaluation:       evaluation,
		Score:              evaluation.Score,
	}

	err = s.update(func(c *store.Collections) error {
		c.History = append(c.History, record)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// History returns all practice records, newest first.
func (s *Service) History() ([]*models.PracticeRecord, error) {
	var out []*models.PracticeRecord
	err := s.view(func(c *store.Collections) error {
		out = append(out, c.History...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	return out, nil
}

// DeleteRecord removes one history record by id.
func (s *Service) DeleteRecord(id string) error {
	return s.update(func(c *store.Collections) error {
		for i, r := range c.History {
			if r.ID == id {
				c.History = append(c.History[:i], c.History[i+1:]...)
				return nil
			}
		}
		return apperrors.New(apperrors.ErrRecordNotFound, fmt.Sprintf("practice record %s not found", id))
	})
}

// DueForReview returns records that scored below 80 and have been reviewed
// fewer than three times, oldest first.
func (s *Service) DueForReview() ([]*models.PracticeRecord, error) {
	var out []*models.PracticeRecord
	err := s.view(func(c *store.Collections) error {
		for _, r := range c.History {
			if r.NeedsReview() {
				out = append(out, r)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	return out, nil
}

// MarkReviewed increments a record's review counter.
func (s *Service) MarkReviewed(id string) (*models.PracticeRecord, error) {
	var out *models.PracticeRecord
	err := s.update(func(c *store.Collections) error {
		for _, r := range c.History {
			if r.ID == id {
				r.MarkReviewed(time.Now().UTC().Format(time.RFC3339))
				out = r
				return nil
			}
		}
		return apperrors.New(apperrors.ErrRecordNotFound, fmt.Sprintf("practice record %s not found", id))
	})
	return out, err
}
