package analysis

import (
	"strings"
	"text/template"
)

const analyzeSystemPrompt = `You are an English learning assistant. Always answer with a single JSON object and nothing else.`

const analyzeUserTemplate = `Analyze the following English text for a Chinese learner.

Text:
{{.Content}}

Respond with JSON of this exact shape:
{
  "translation": "<full Chinese translation>",
  "difficult_words": [{"word": "<english word>", "meaning": "<Chinese meaning>"}],
  "difficulty": <integer 1-5>,
  "key_points": ["<key phrase or grammar point>"],
  "word_count": <integer>
}`

const evaluateSystemPrompt = `You are an English writing evaluator. Always answer with a single JSON object and nothing else.`

const evaluateUserTemplate = `The learner studied this English text:
{{.Original}}

They then tried to reproduce it from the Chinese translation. Their attempt:
{{.UserInput}}

Score the attempt against the original. Respond with JSON of this exact shape:
{
  "score": <integer 0-100>,
  "corrections": [{"original": "<their phrasing>", "corrected": "<better phrasing>", "reason": "<why>"}],
  "overall_feedback": "<short feedback in Chinese>",
  "is_acceptable": <true if grammar and meaning are basically correct>
}`

var (
	analyzeTmpl  = template.Must(template.New("analyze").Parse(analyzeUserTemplate))
	evaluateTmpl = template.Must(template.New("evaluate").Parse(evaluateUserTemplate))
)

func renderAnalyzePrompt(content string) (string, error) {
	var buf strings.Builder
	err := analyzeTmpl.Execute(&buf, struct{ Content string }{Content: content})
	return buf.String(), err
}

func renderEvaluatePrompt(original, userInput string) (string, error) {
	var buf strings.Builder
	err := evaluateTmpl.Execute(&buf, struct{ Original, UserInput string }{
		Original:  original,
		UserInput: userInput,
	})
	return buf.String(), err
}
