package handler

import (
	"log/slog"
	"net/http"

	docsysSvc "filedesk/internal/domain/services/docsystem"
	"filedesk/internal/httputil"
)

// FolderHandler handles folder HTTP requests
type FolderHandler struct {
	folderService docsysSvc.FolderService
	logger        *slog.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(folderService docsysSvc.FolderService, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{
		folderService: folderService,
		logger:        logger,
	}
}

// CreateFolder creates a folder, optionally filing documents into it
// POST /folders
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req docsysSvc.CreateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleBadBody(w, err)
		return
	}

	folder, err := h.folderService.CreateFolder(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, folder)
}

// GetFolder retrieves a folder with its documents
// GET /folders/{id}
func (h *FolderHandler) GetFolder(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r, "id")
	if err != nil {
		handleError(w, err)
		return
	}

	folder, err := h.folderService.GetFolder(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}

// UpdateFolder renames a folder
// PATCH /folders/{id}
func (h *FolderHandler) UpdateFolder(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r, "id")
	if err != nil {
		handleError(w, err)
		return
	}

	var req docsysSvc.UpdateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleBadBody(w, err)
		return
	}

	folder, err := h.folderService.UpdateFolder(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}

// DeleteFolder deletes a folder, leaving its documents unfiled
// DELETE /folders/{id}
func (h *FolderHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r, "id")
	if err != nil {
		handleError(w, err)
		return
	}

	if err := h.folderService.DeleteFolder(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondOK(w, "folder deleted", map[string]int64{"id": id})
}

// BulkDeleteFolders deletes many folders in one call
// POST /folders/bulk-delete
func (h *FolderHandler) BulkDeleteFolders(w http.ResponseWriter, r *http.Request) {
	var req docsysSvc.BulkDeleteRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleBadBody(w, err)
		return
	}

	deleted, err := h.folderService.BulkDeleteFolders(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondOK(w, "folders deleted", map[string]int64{"deleted": deleted})
}

// ListDocuments lists the documents filed in a folder
// GET /folders/{id}/documents
func (h *FolderHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r, "id")
	if err != nil {
		handleError(w, err)
		return
	}

	docs, err := h.folderService.ListDocuments(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, docs)
}

// CheckName reports whether a folder name is taken for a user
// GET /users/{userId}/folders/check-name?name=
func (h *FolderHandler) CheckName(w http.ResponseWriter, r *http.Request) {
	userID, err := httputil.PathID(r, "userId")
	if err != nil {
		handleError(w, err)
		return
	}

	check, err := h.folderService.CheckName(r.Context(), userID, r.URL.Query().Get("name"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, check)
}
