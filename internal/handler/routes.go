package handler

import (
	"net/http"
)

// Handlers groups every HTTP handler the API serves
type Handlers struct {
	Listing  *ListingHandler
	Document *DocumentHandler
	Folder   *FolderHandler
	User     *UserHandler
	Health   *HealthHandler
}

// Register mounts the API routes on mux (Go 1.22+ method and wildcard patterns)
func (h *Handlers) Register(mux *http.ServeMux) {
	// Health check
	if h.Health != nil {
		mux.HandleFunc("GET /health", h.Health.HealthCheck)
	}

	// Combined listing
	mux.HandleFunc("GET /users/{userId}/documents-folders", h.Listing.ListCombined)
	mux.HandleFunc("GET /users/{userId}/search", h.Listing.Search)

	// User routes
	mux.HandleFunc("POST /users", h.User.CreateUser)
	mux.HandleFunc("GET /users/count", h.User.CountUsers) // More specific than {userId}, wins regardless of order
	mux.HandleFunc("GET /users/{userId}", h.User.GetUser)

	// Document routes
	mux.HandleFunc("POST /documents", h.Document.CreateDocument)
	mux.HandleFunc("POST /documents/bulk-delete", h.Document.BulkDeleteDocuments)
	mux.HandleFunc("POST /documents/move", h.Document.MoveDocuments)
	mux.HandleFunc("GET /documents/{id}", h.Document.GetDocument)
	mux.HandleFunc("PATCH /documents/{id}", h.Document.UpdateDocument)
	mux.HandleFunc("DELETE /documents/{id}", h.Document.DeleteDocument)
	mux.HandleFunc("GET /users/{userId}/documents/check-name", h.Document.CheckName)

	// Folder routes
	mux.HandleFunc("POST /folders", h.Folder.CreateFolder)
	mux.HandleFunc("POST /folders/bulk-delete", h.Folder.BulkDeleteFolders)
	mux.HandleFunc("GET /folders/{id}", h.Folder.GetFolder)
	mux.HandleFunc("PATCH /folders/{id}", h.Folder.UpdateFolder)
	mux.HandleFunc("DELETE /folders/{id}", h.Folder.DeleteFolder)
	mux.HandleFunc("GET /folders/{id}/documents", h.Folder.ListDocuments)
	mux.HandleFunc("GET /users/{userId}/folders/check-name", h.Folder.CheckName)
}
