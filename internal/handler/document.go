package handler

import (
	"log/slog"
	"net/http"

	docsysSvc "filedesk/internal/domain/services/docsystem"
	"filedesk/internal/httputil"
)

// DocumentHandler handles document HTTP requests
type DocumentHandler struct {
	docService docsysSvc.DocumentService
	logger     *slog.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(docService docsysSvc.DocumentService, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{
		docService: docService,
		logger:     logger,
	}
}

// CreateDocument records an uploaded file
// POST /documents
// Returns 201 if created, 409 if the owner already has a document of that name
func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	var req docsysSvc.CreateDocumentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleBadBody(w, err)
		return
	}

	doc, err := h.docService.CreateDocument(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, doc)
}

// GetDocument retrieves a document with owner and folder expanded
// GET /documents/{id}
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r, "id")
	if err != nil {
		handleError(w, err)
		return
	}

	doc, err := h.docService.GetDocument(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// UpdateDocument renames and/or moves a document
// PATCH /documents/{id}
func (h *DocumentHandler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r, "id")
	if err != nil {
		handleError(w, err)
		return
	}

	var req docsysSvc.UpdateDocumentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleBadBody(w, err)
		return
	}

	doc, err := h.docService.UpdateDocument(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// DeleteDocument deletes a document
// DELETE /documents/{id}
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r, "id")
	if err != nil {
		handleError(w, err)
		return
	}

	if err := h.docService.DeleteDocument(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondOK(w, "document deleted", map[string]int64{"id": id})
}

// BulkDeleteDocuments deletes many documents in one call
// POST /documents/bulk-delete
func (h *DocumentHandler) BulkDeleteDocuments(w http.ResponseWriter, r *http.Request) {
	var req docsysSvc.BulkDeleteRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleBadBody(w, err)
		return
	}

	deleted, err := h.docService.BulkDeleteDocuments(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondOK(w, "documents deleted", map[string]int64{"deleted": deleted})
}

// MoveDocuments files documents into a folder, or unfiles them
// POST /documents/move
func (h *DocumentHandler) MoveDocuments(w http.ResponseWriter, r *http.Request) {
	var req docsysSvc.MoveDocumentsRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleBadBody(w, err)
		return
	}

	moved, err := h.docService.MoveDocuments(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondOK(w, "documents moved", map[string]int64{"moved": moved})
}

// CheckName reports whether a document name is taken for a user
// GET /users/{userId}/documents/check-name?name=
func (h *DocumentHandler) CheckName(w http.ResponseWriter, r *http.Request) {
	userID, err := httputil.PathID(r, "userId")
	if err != nil {
		handleError(w, err)
		return
	}

	check, err := h.docService.CheckName(r.Context(), userID, r.URL.Query().Get("name"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, check)
}
