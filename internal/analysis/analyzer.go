package analysis

import (
	"context"
	"encoding/json"
	"strings"

	apperrors "github.com/yalin/transinvert/backend/internal/errors"
	"github.com/yalin/transinvert/backend/internal/models"
	"github.com/yalin/transinvert/backend/internal/textutil"
)

// Analyzer produces text analyses and practice evaluations through a chat
// model.
type Analyzer struct {
	client ChatClient
}

// NewAnalyzer creates an Analyzer on top of a chat client.
func NewAnalyzer(client ChatClient) *Analyzer {
	return &Analyzer{client: client}
}

// AnalyzeText asks the model for a full analysis of the text.
func (a *Analyzer) AnalyzeText(ctx context.Context, textID, content string) (*models.Analysis, error) {
	prompt, err := renderAnalyzePrompt(content)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, "failed to render prompt", err)
	}

	reply, err := a.client.Chat(ctx, analyzeSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	var result models.Analysis
	if err := json.Unmarshal([]byte(extractJSON(reply)), &result); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrAIBadResponse, "analysis reply is not valid JSON", err)
	}

	result.TextID = textID
	if result.WordCount == 0 {
		result.WordCount = textutil.WordCount(content)
	}
	if result.Difficulty < 1 || result.Difficulty > 5 {
		result.Difficulty = 3
	}
	if err := result.Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrAIBadResponse, "incomplete analysis reply", err)
	}
	return &result, nil
}

// EvaluatePractice scores a user's reproduction attempt against the original.
func (a *Analyzer) EvaluatePractice(ctx context.Context, original, userInput string) (*models.Evaluation, error) {
	prompt, err := renderEvaluatePrompt(original, userInput)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, "failed to render prompt", err)
	}

	reply, err := a.client.Chat(ctx, evaluateSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	var result models.Evaluation
	if err := json.Unmarshal([]byte(extractJSON(reply)), &result); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrAIBadResponse, "evaluation reply is not valid JSON", err)
	}

	if result.Score < 0 {
		result.Score = 0
	}
	if result.Score > 100 {
		result.Score = 100
	}
	return &result, nil
}

// extractJSON pulls the JSON object out of a model reply, tolerating code
// fences and prose around it.
func extractJSON(reply string) string {
	s := strings.TrimSpace(reply)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
