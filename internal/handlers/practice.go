package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yalin/transinvert/backend/internal/models"
	"github.com/yalin/transinvert/backend/internal/service"
)

// PracticeHandler serves practice submission, history and review.
type PracticeHandler struct {
	svc *service.Service
}

// NewPracticeHandler creates a practice handler.
func NewPracticeHandler(svc *service.Service) *PracticeHandler {
	return &PracticeHandler{svc: svc}
}

type submitPracticeRequest struct {
	TextID    string `json:"text_id"`
	UserInput string `json:"user_input"`
}

// Submit evaluates a reproduction attempt and appends it to the history.
func (h *PracticeHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitPracticeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	record, err := h.svc.SubmitPractice(r.Context(), req.TextID, req.UserInput)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, record, "practice recorded")
}

// History returns all practice records, newest first.
func (h *PracticeHandler) History(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.History()
	if err != nil {
		writeError(w, err)
		return
	}
	if records == nil {
		records = []*models.PracticeRecord{}
	}
	writeData(w, http.StatusOK, records, "")
}

// DeleteRecord removes one history record.
func (h *PracticeHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteRecord(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, nil, "record deleted")
}

// Due returns records that still need review, oldest first.
func (h *PracticeHandler) Due(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.DueForReview()
	if err != nil {
		writeError(w, err)
		return
	}
	if records == nil {
		records = []*models.PracticeRecord{}
	}
	writeData(w, http.StatusOK, records, "")
}

// MarkReviewed increments a record's review counter.
func (h *PracticeHandler) MarkReviewed(w http.ResponseWriter, r *http.Request) {
	record, err := h.svc.MarkReviewed(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, record, "review recorded")
}
