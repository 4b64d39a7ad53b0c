package handlers

import (
	"github.com/yalin/transinvert/backend/internal/models"
)

func sampleText(id, title, content string) *models.Text {
	return &models.Text{
		ID:        id,
		Title:     title,
		Content:   content,
		CreatedAt: "2024-01-01T00:00:00Z",
	}
}
