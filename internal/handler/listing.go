package handler

import (
	"log/slog"
	"net/http"

	models "filedesk/internal/domain/models/docsystem"
	docsysSvc "filedesk/internal/domain/services/docsystem"
	"filedesk/internal/httputil"
)

// ListingHandler serves the combined documents+folders feed
type ListingHandler struct {
	listingService docsysSvc.ListingService
	logger         *slog.Logger
}

// NewListingHandler creates a new listing handler
func NewListingHandler(listingService docsysSvc.ListingService, logger *slog.Logger) *ListingHandler {
	return &ListingHandler{
		listingService: listingService,
		logger:         logger,
	}
}

// ListCombined returns one page of a user's documents and folders
// GET /users/{userId}/documents-folders?page=&limit=
func (h *ListingHandler) ListCombined(w http.ResponseWriter, r *http.Request) {
	userID, opts, ok := h.parse(w, r)
	if !ok {
		return
	}

	page, err := h.listingService.ListCombined(r.Context(), userID, opts)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, page)
}

// Search returns one page of a user's documents and folders whose names
// contain the search text. A blank search lists everything.
// GET /users/{userId}/search?search=&page=&limit=
func (h *ListingHandler) Search(w http.ResponseWriter, r *http.Request) {
	userID, opts, ok := h.parse(w, r)
	if !ok {
		return
	}
	opts.Search = r.URL.Query().Get("search")

	page, err := h.listingService.SearchCombined(r.Context(), userID, opts)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, page)
}

// parse reads the owner id and paging parameters, answering the request
// itself when they are malformed
func (h *ListingHandler) parse(w http.ResponseWriter, r *http.Request) (int64, *models.ListOptions, bool) {
	userID, err := httputil.PathID(r, "userId")
	if err != nil {
		handleError(w, err)
		return 0, nil, false
	}

	page, err := httputil.QueryInt(r, "page")
	if err != nil {
		handleError(w, err)
		return 0, nil, false
	}

	limit, err := httputil.QueryInt(r, "limit")
	if err != nil {
		handleError(w, err)
		return 0, nil, false
	}

	return userID, &models.ListOptions{Page: page, Limit: limit}, true
}
