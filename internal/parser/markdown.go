// Package parser prepares uploaded material for practice.
package parser

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// LooksLikeMarkdown reports whether the content uses common markdown syntax.
// Plain prose passes through untouched; only marked-up uploads are stripped.
func LooksLikeMarkdown(content string) bool {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") ||
			strings.HasPrefix(trimmed, "- ") ||
			strings.HasPrefix(trimmed, "* ") ||
			strings.HasPrefix(trimmed, "> ") ||
			strings.HasPrefix(trimmed, "```") {
			return true
		}
		if strings.Contains(trimmed, "](") || strings.Contains(trimmed, "**") {
			return true
		}
	}
	return false
}

// ExtractTitle picks a title from markdown content: the first heading, or the
// first non-empty line.
func ExtractTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			title := strings.TrimSpace(strings.TrimLeft(line, "#"))
			if title != "" {
				return truncate(title, 200)
			}
			continue
		}
		return truncate(line, 100)
	}
	return "Untitled"
}

// ToPlainText converts markdown to plain text by walking the parsed AST and
// collecting text nodes. Inline markup (emphasis, links, code spans) is
// flattened to its visible text.
func ToPlainText(markdown string) string {
	md := goldmark.New()
	node := md.Parser().Parse(text.NewReader([]byte(markdown)))

	var builder strings.Builder
	source := []byte(markdown)

	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n.Kind() {
		case ast.KindText:
			textNode := n.(*ast.Text)
			builder.Write(textNode.Segment.Value(source))
			if textNode.SoftLineBreak() || textNode.HardLineBreak() {
				builder.WriteString("\n")
			}
		case ast.KindParagraph, ast.KindHeading, ast.KindList:
			builder.WriteString("\n")
		case ast.KindFencedCodeBlock, ast.KindCodeBlock:
			// Code blocks are not practice prose.
			return ast.WalkSkipChildren, nil
		}

		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(builder.String())
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
