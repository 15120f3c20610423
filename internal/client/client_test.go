package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	models "filedesk/internal/domain/models/docsystem"
	docsysSvc "filedesk/internal/domain/services/docsystem"
	"filedesk/internal/httputil"
)

func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return New(srv.URL, WithTimeout(5*time.Second))
}

func samplePage(opts *models.ListOptions) *models.ListingPage {
	window := []models.Entry{
		models.FolderEntry(models.Folder{ID: 4, Name: "Tax", CreatedAt: time.Unix(100, 0).UTC()}),
		models.DocumentEntry(models.Document{ID: 4, Name: "tax.pdf", FileSize: "100 kB", CreatedAt: time.Unix(200, 0).UTC()}),
	}
	return models.NewListingPage(window, 3, 1, opts)
}

func TestClient_ListCombined(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/{userId}/documents-folders", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("userId") != "7" {
			t.Errorf("userId = %s, want 7", r.PathValue("userId"))
		}
		if r.URL.Query().Get("page") != "2" || r.URL.Query().Get("limit") != "2" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		httputil.RespondJSON(w, http.StatusOK, samplePage(&models.ListOptions{Page: 2, Limit: 2}))
	})
	c := newTestClient(t, mux)

	page, err := c.ListCombined(context.Background(), 7, 2, 2)
	if err != nil {
		t.Fatalf("ListCombined: %v", err)
	}
	if page.Total != 4 || page.TotalPages != 2 || page.Page != 2 {
		t.Errorf("page meta = %+v", page)
	}

	entries := page.Entries()
	if len(entries) != 2 || entries[0].Key() != "folder-4" || entries[1].Key() != "document-4" {
		t.Fatalf("entries = %v", entries)
	}
	if entries[1].Document.FileSize != "100 kB" {
		t.Errorf("file size = %q", entries[1].Document.FileSize)
	}
}

func TestClient_SearchSendsQuery(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/{userId}/search", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("search"); got != "tax 2024" {
			t.Errorf("search = %q, want %q", got, "tax 2024")
		}
		if r.URL.Query().Has("page") {
			t.Errorf("page sent although unset")
		}
		httputil.RespondJSON(w, http.StatusOK, samplePage(&models.ListOptions{Page: 1, Limit: 10}))
	})
	c := newTestClient(t, mux)

	if _, err := c.Search(context.Background(), 7, "tax 2024", 0, 0); err != nil {
		t.Fatalf("Search: %v", err)
	}
}

func TestClient_BulkDelete(t *testing.T) {
	var gotDocs, gotFolders []int64
	mux := http.NewServeMux()
	mux.HandleFunc("POST /documents/bulk-delete", func(w http.ResponseWriter, r *http.Request) {
		var req docsysSvc.BulkDeleteRequest
		json.NewDecoder(r.Body).Decode(&req)
		gotDocs = req.IDs
		httputil.RespondOK(w, "documents deleted", map[string]int64{"deleted": int64(len(req.IDs))})
	})
	mux.HandleFunc("POST /folders/bulk-delete", func(w http.ResponseWriter, r *http.Request) {
		var req docsysSvc.BulkDeleteRequest
		json.NewDecoder(r.Body).Decode(&req)
		gotFolders = req.IDs
		httputil.RespondOK(w, "folders deleted", map[string]int64{"deleted": int64(len(req.IDs))})
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	n, err := c.BulkDeleteDocuments(ctx, []int64{1, 2})
	if err != nil || n != 2 {
		t.Fatalf("BulkDeleteDocuments = %d, %v", n, err)
	}
	n, err = c.BulkDeleteFolders(ctx, []int64{1})
	if err != nil || n != 1 {
		t.Fatalf("BulkDeleteFolders = %d, %v", n, err)
	}
	if len(gotDocs) != 2 || len(gotFolders) != 1 || gotFolders[0] != 1 {
		t.Errorf("bodies: documents %v, folders %v", gotDocs, gotFolders)
	}
}

func TestClient_SurfacesServerMessage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /documents", func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondError(w, http.StatusConflict, `document "a.pdf" already exists`, "already_exists")
	})
	mux.HandleFunc("GET /users/{userId}/documents-folders", func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondError(w, http.StatusBadRequest, "invalid user id", "validation_failed")
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	_, err := c.CreateDocument(ctx, &docsysSvc.CreateDocumentRequest{UserID: 1, Name: "a.pdf", FileSize: "1 kB"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusConflict || apiErr.Code != "already_exists" {
		t.Errorf("apiErr = %+v", apiErr)
	}
	if err.Error() != `document "a.pdf" already exists` {
		t.Errorf("message = %q", err.Error())
	}

	_, err = c.ListCombined(ctx, 1, 1, 10)
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadRequest || apiErr.Message != "invalid user id" {
		t.Errorf("err = %v", err)
	}
}

func TestClient_CheckDocumentName(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/{userId}/documents/check-name", func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		httputil.RespondJSON(w, http.StatusOK, docsysSvc.NameCheck{Name: name, Exists: name == "taken.pdf", ID: 3})
	})
	c := newTestClient(t, mux)

	check, err := c.CheckDocumentName(context.Background(), 1, "taken.pdf")
	if err != nil {
		t.Fatalf("CheckDocumentName: %v", err)
	}
	if !check.Exists || check.Name != "taken.pdf" {
		t.Errorf("check = %+v", check)
	}
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := New(srv.URL, WithTimeout(time.Second))

	_, err := c.ListCombined(context.Background(), 1, 1, 10)
	if err == nil {
		t.Fatal("expected error from closed server")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Errorf("transport failure reported as API error: %v", apiErr)
	}
}
