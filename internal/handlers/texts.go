package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yalin/transinvert/backend/internal/models"
	"github.com/yalin/transinvert/backend/internal/service"
)

// TextHandler serves the practice material endpoints.
type TextHandler struct {
	svc *service.Service
}

// NewTextHandler creates a text handler.
func NewTextHandler(svc *service.Service) *TextHandler {
	return &TextHandler{svc: svc}
}

type uploadTextRequest struct {
	Content      string  `json:"content"`
	Title        string  `json:"title"`
	Topic        string  `json:"topic"`
	PracticeType string  `json:"practice_type"`
	FolderID     *string `json:"folder_id"`
}

// Upload stores a new practice text.
func (h *TextHandler) Upload(w http.ResponseWriter, r *http.Request) {
	var req uploadTextRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	text, err := h.svc.UploadText(service.UploadRequest{
		Content:      req.Content,
		Title:        req.Title,
		Topic:        req.Topic,
		PracticeType: models.PracticeType(req.PracticeType),
		FolderID:     req.FolderID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, text, "text uploaded")
}

// List returns all texts, optionally filtered by ?folder_id=.
func (h *TextHandler) List(w http.ResponseWriter, r *http.Request) {
	var folderID *string
	if raw := r.URL.Query().Get("folder_id"); raw != "" {
		folderID = &raw
	}

	texts, err := h.svc.ListTexts(folderID)
	if err != nil {
		writeError(w, err)
		return
	}
	if texts == nil {
		texts = []*models.Text{}
	}
	writeData(w, http.StatusOK, texts, "")
}

// Get returns one text by id.
func (h *TextHandler) Get(w http.ResponseWriter, r *http.Request) {
	text, err := h.svc.GetText(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, text, "")
}

// Delete removes a text and its cached analysis.
func (h *TextHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteText(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, nil, "text deleted")
}

type moveTextRequest struct {
	FolderID *string `json:"folder_id"`
}

// Move assigns a text to a folder (null folder_id moves it to the root).
func (h *TextHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req moveTextRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.svc.MoveText(chi.URLParam(r, "id"), req.FolderID); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, nil, "text moved")
}

// Analysis returns the cached analysis for a text, generating it on first
// access.
func (h *TextHandler) Analysis(w http.ResponseWriter, r *http.Request) {
	analysis, err := h.svc.GetAnalysis(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, analysis, "")
}
