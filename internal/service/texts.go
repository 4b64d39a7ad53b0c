package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	apperrors "github.com/yalin/transinvert/backend/internal/errors"
	"github.com/yalin/transinvert/backend/internal/models"
	"github.com/yalin/transinvert/backend/internal/parser"
	"github.com/yalin/transinvert/backend/internal/store"
	"github.com/yalin/transinvert/backend/internal/textutil"
	"github.com/yalin/transinvert/backend/internal/uuid"
)

// UploadRequest carries a new practice material.
type UploadRequest struct {
	Content      string
	Title        string
	Topic        string
	PracticeType models.PracticeType
	FolderID     *string
}

// UploadText stores a new practice text. Markdown uploads are stripped to
// plain prose first; a missing title is derived from the content.
func (s *Service) UploadText(req UploadRequest) (*models.Text, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperrors.New(apperrors.ErrTextInvalid, "content must not be empty")
	}

	title := strings.TrimSpace(req.Title)
	if parser.LooksLikeMarkdown(content) {
		if title == "" {
			title = parser.ExtractTitle(content)
		}
		content = parser.ToPlainText(content)
		if content == "" {
			return nil, apperrors.New(apperrors.ErrTextInvalid, "no prose left after markdown stripping")
		}
	}
	if title == "" {
		title = deriveTitle(content)
	}

	practiceType := req.PracticeType
	if practiceType == "" {
		practiceType = models.PracticeTypeTranslation
	}

	text := &models.Text{
		ID:           uuid.New(),
		Title:        title,
		Content:      content,
		WordCount:    textutil.WordCount(content),
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
		PracticeType: practiceType,
		Topic:        req.Topic,
	}

	err := s.update(func(c *store.Collections) error {
		if req.FolderID != nil {
			if _, ok := c.Folders[*req.FolderID]; !ok {
				return apperrors.New(apperrors.ErrFolderNotFound,
					fmt.Sprintf("folder %s does not exist", *req.FolderID))
			}
			text.FolderID = req.FolderID
		}
		c.Texts[text.ID] = text
		return nil
	})
	if err != nil {
		return nil, err
	}
	return text, nil
}

// ListTexts returns all texts, newest first. A non-nil folderID filters to
// one folder.
func (s *Service) ListTexts(folderID *string) ([]*models.Text, error) {
	var out []*models.Text
	err := s.view(func(c *store.Collections) error {
		for _, t := range c.Texts {
			if folderID != nil && (t.FolderID == nil || *t.FolderID != *folderID) {
				continue
			}
			out = append(out, t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// GetText returns one text by id.
func (s *Service) GetText(id string) (*models.Text, error) {
	var out *models.Text
	err := s.view(func(c *store.Collections) error {
		t, ok := c.Texts[id]
		if !ok {
			return apperrors.New(apperrors.ErrTextNotFound, fmt.Sprintf("text %s not found", id))
		}
		out = t
		return nil
	})
	return out, err
}

// DeleteText removes a text and its cached analysis. History records keep
// their verbatim copies and are not touched.
func (s *Service) DeleteText(id string) error {
	return s.update(func(c *store.Collections) error {
		if _, ok := c.Texts[id]; !ok {
			return apperrors.New(apperrors.ErrTextNotFound, fmt.Sprintf("text %s not found", id))
		}
		delete(c.Texts, id)
		delete(c.Analyses, id)
		return nil
	})
}

// MoveText assigns a text to a folder, or to the root when folderID is nil.
func (s *Service) MoveText(id string, folderID *string) error {
	return s.update(func(c *store.Collections) error {
		t, ok := c.Texts[id]
		if !ok {
			return apperrors.New(apperrors.ErrTextNotFound, fmt.Sprintf("text %s not found", id))
		}
		if folderID != nil {
			if _, ok := c.Folders[*folderID]; !ok {
				return apperrors.New(apperrors.ErrFolderNotFound,
					fmt.Sprintf("folder %s does not exist", *folderID))
			}
		}
		t.FolderID = folderID
		return nil
	})
}

// GetAnalysis returns the cached analysis for a text, generating and caching
// it through the AI provider on first access.
func (s *Service) GetAnalysis(ctx context.Context, textID string) (*models.Analysis, error) {
	var cached *models.Analysis
	var content string
	err := s.view(func(c *store.Collections) error {
		t, ok := c.Texts[textID]
		if !ok {
			return apperrors.New(apperrors.ErrTextNotFound, fmt.Sprintf("text %s not found", textID))
		}
		content = t.Content
		cached = c.Analyses[textID]
		return nil
	})
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return cached, nil
	}

	if s.analyzer == nil {
		return nil, apperrors.New(apperrors.ErrAINotConfigured, "no AI provider configured")
	}
	result, err := s.analyzer.AnalyzeText(ctx, textID, content)
	if err != nil {
		return nil, err
	}

	err = s.update(func(c *store.Collections) error {
		// The text may have been deleted while the provider was running.
		if _, ok := c.Texts[textID]; !ok {
			return apperrors.New(apperrors.ErrTextNotFound, fmt.Sprintf("text %s not found", textID))
		}
		c.Analyses[textID] = result
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// deriveTitle builds a short title from the first words of the content.
func deriveTitle(content string) string {
	words := strings.Fields(content)
	if len(words) > 8 {
		words = words[:8]
	}
	title := strings.Join(words, " ")
	if len(title) > 100 {
		title = title[:100]
	}
	return title
}
