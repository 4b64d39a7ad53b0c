package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yalin/transinvert/backend/internal/models"
	"github.com/yalin/transinvert/backend/internal/service"
)

// FolderHandler serves the folder management endpoints.
type FolderHandler struct {
	svc *service.Service
}

// NewFolderHandler creates a folder handler.
func NewFolderHandler(svc *service.Service) *FolderHandler {
	return &FolderHandler{svc: svc}
}

type folderRequest struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id"`
}

// Create adds a folder, optionally under a parent.
func (h *FolderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req folderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	folder, err := h.svc.CreateFolder(req.Name, req.ParentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, folder, "folder created")
}

// List returns all folders sorted by name.
func (h *FolderHandler) List(w http.ResponseWriter, r *http.Request) {
	folders, err := h.svc.ListFolders()
	if err != nil {
		writeError(w, err)
		return
	}
	if folders == nil {
		folders = []*models.Folder{}
	}
	writeData(w, http.StatusOK, folders, "")
}

// Tree returns the folder hierarchy.
func (h *FolderHandler) Tree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.svc.FolderTree()
	if err != nil {
		writeError(w, err)
		return
	}
	if tree == nil {
		tree = []*service.FolderNode{}
	}
	writeData(w, http.StatusOK, tree, "")
}

// Update renames a folder and/or moves it under a new parent.
func (h *FolderHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req folderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	folder, err := h.svc.UpdateFolder(chi.URLParam(r, "id"), req.Name, req.ParentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, folder, "folder updated")
}

// Delete removes a folder, moving its texts to the root and re-parenting its
// children.
func (h *FolderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteFolder(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, nil, "folder deleted")
}
