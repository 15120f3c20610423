package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"filedesk/internal/domain"
	models "filedesk/internal/domain/models/docsystem"
	docsysSvc "filedesk/internal/domain/services/docsystem"
	"filedesk/internal/httputil"
)

type stubListing struct {
	calls      int
	lastUser   int64
	lastOpts   models.ListOptions
	lastSearch bool
	err        error
}

func (s *stubListing) page(userID int64, opts *models.ListOptions, search bool) (*models.ListingPage, error) {
	s.calls++
	s.lastUser, s.lastOpts, s.lastSearch = userID, *opts, search
	if s.err != nil {
		return nil, s.err
	}
	window := []models.Entry{
		models.FolderEntry(models.Folder{ID: 1, Name: "Inbox", UserID: userID, CreatedAt: time.Unix(300, 0)}),
		models.DocumentEntry(models.Document{ID: 2, Name: "a.pdf", UserID: userID, CreatedAt: time.Unix(200, 0)}),
	}
	o := *opts
	o.ApplyDefaults()
	return models.NewListingPage(window, 1, 1, &o), nil
}

func (s *stubListing) ListCombined(ctx context.Context, userID int64, opts *models.ListOptions) (*models.ListingPage, error) {
	return s.page(userID, opts, false)
}

func (s *stubListing) SearchCombined(ctx context.Context, userID int64, opts *models.ListOptions) (*models.ListingPage, error) {
	return s.page(userID, opts, true)
}

type stubDocuments struct {
	docsysSvc.DocumentService
	createErr error
	bulkIDs   []int64
	patch     *docsysSvc.UpdateDocumentRequest
	deleteErr error
}

func (s *stubDocuments) CreateDocument(ctx context.Context, req *docsysSvc.CreateDocumentRequest) (*models.Document, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &models.Document{ID: 9, UserID: req.UserID, Name: req.Name, FileSize: req.FileSize}, nil
}

func (s *stubDocuments) UpdateDocument(ctx context.Context, id int64, req *docsysSvc.UpdateDocumentRequest) (*models.Document, error) {
	s.patch = req
	return &models.Document{ID: id, Name: "x"}, nil
}

func (s *stubDocuments) DeleteDocument(ctx context.Context, id int64) error {
	return s.deleteErr
}

func (s *stubDocuments) BulkDeleteDocuments(ctx context.Context, req *docsysSvc.BulkDeleteRequest) (int64, error) {
	s.bulkIDs = req.IDs
	return int64(len(req.IDs)), nil
}

type stubFolders struct {
	docsysSvc.FolderService
	deleted []int64
}

func (s *stubFolders) BulkDeleteFolders(ctx context.Context, req *docsysSvc.BulkDeleteRequest) (int64, error) {
	s.deleted = req.IDs
	return int64(len(req.IDs)), nil
}

func (s *stubFolders) CheckName(ctx context.Context, userID int64, name string) (*docsysSvc.NameCheck, error) {
	return &docsysSvc.NameCheck{Name: name, Exists: name == "Inbox", ID: 1}, nil
}

type stubUsers struct {
	docsysSvc.UserService
}

func (s *stubUsers) CountUsers(ctx context.Context) (int, error) { return 3, nil }

type stubPinger struct{ err error }

func (p stubPinger) Ping(ctx context.Context) error { return p.err }

type testServer struct {
	mux       *http.ServeMux
	listing   *stubListing
	documents *stubDocuments
	folders   *stubFolders
}

func newTestServer() *testServer {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ts := &testServer{
		mux:       http.NewServeMux(),
		listing:   &stubListing{},
		documents: &stubDocuments{},
		folders:   &stubFolders{},
	}
	h := &Handlers{
		Listing:  NewListingHandler(ts.listing, logger),
		Document: NewDocumentHandler(ts.documents, logger),
		Folder:   NewFolderHandler(ts.folders, logger),
		User:     NewUserHandler(&stubUsers{}, logger),
		Health:   NewHealthHandler(stubPinger{}),
	}
	h.Register(ts.mux)
	return ts
}

func (ts *testServer) do(method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	ts.mux.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) httputil.Envelope {
	t.Helper()
	var env httputil.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope %q: %v", rec.Body.String(), err)
	}
	return env
}

func TestListCombined_ParsesParameters(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(http.MethodGet, "/users/7/documents-folders?page=2&limit=5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ts.listing.lastUser != 7 || ts.listing.lastOpts.Page != 2 || ts.listing.lastOpts.Limit != 5 || ts.listing.lastSearch {
		t.Errorf("service saw user %d opts %+v search %v", ts.listing.lastUser, ts.listing.lastOpts, ts.listing.lastSearch)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"documents", "folders", "documentsTotal", "foldersTotal", "total", "page", "limit", "totalPages"} {
		if _, ok := body[key]; !ok {
			t.Errorf("response missing %q", key)
		}
	}
}

func TestSearch_PassesRawSearch(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(http.MethodGet, "/users/7/search?search=tax+2023", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !ts.listing.lastSearch || ts.listing.lastOpts.Search != "tax 2023" {
		t.Errorf("opts = %+v, search %v", ts.listing.lastOpts, ts.listing.lastSearch)
	}
}

func TestListing_RejectsMalformedInputWithoutCallingService(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"non-numeric user", "/users/abc/documents-folders"},
		{"zero user", "/users/0/search?search=x"},
		{"non-numeric page", "/users/1/documents-folders?page=two"},
		{"zero limit", "/users/1/documents-folders?limit=0"},
		{"negative page", "/users/1/search?page=-3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer()
			rec := ts.do(http.MethodGet, tt.target, "")

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			env := decodeEnvelope(t, rec)
			if env.Success || env.Message == "" || env.Error != codeValidation {
				t.Errorf("envelope = %+v", env)
			}
			if ts.listing.calls != 0 {
				t.Errorf("service called %d times", ts.listing.calls)
			}
		})
	}
}

func TestHandleError_StatusAndEnvelope(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
		wantCode    string
	}{
		{"conflict", domain.NewConflict("document", "a.pdf", 3), http.StatusConflict, `document "a.pdf" already exists`, codeConflict},
		{"not found", domain.NewNotFound("folder", 5), http.StatusNotFound, "folder 5 not found", codeNotFound},
		{"wrapped validation", fmt.Errorf("%w: name: cannot be blank.", domain.ErrValidation), http.StatusBadRequest, "validation failed: name: cannot be blank.", codeValidation},
		{"store failure", errors.New("connection refused"), http.StatusInternalServerError, "connection refused", codeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			env := decodeEnvelope(t, rec)
			if env.Success || env.Message != tt.wantMessage || env.Error != tt.wantCode {
				t.Errorf("envelope = %+v", env)
			}
		})
	}
}

func TestCreateDocument(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(http.MethodPost, "/documents", `{"user_id":1,"name":"a.pdf","file_size":"100 KB"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var doc models.Document
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Name != "a.pdf" || doc.FileSize != "100 KB" {
		t.Errorf("doc = %+v", doc)
	}

	ts.documents.createErr = domain.NewConflict("document", "a.pdf", 9)
	rec = ts.do(http.MethodPost, "/documents", `{"user_id":1,"name":"a.pdf","file_size":"100 KB"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate status = %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Message != `document "a.pdf" already exists` {
		t.Errorf("duplicate message = %q", env.Message)
	}

	rec = ts.do(http.MethodPost, "/documents", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad body status = %d", rec.Code)
	}
}

func TestUpdateDocument_FolderTriState(t *testing.T) {
	tests := []struct {
		body        string
		wantPresent bool
		wantNil     bool
	}{
		{`{"name":"b.pdf"}`, false, true},
		{`{"folder_id":null}`, true, true},
		{`{"folder_id":4}`, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			ts := newTestServer()
			rec := ts.do(http.MethodPatch, "/documents/3", tt.body)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			got := ts.documents.patch.FolderID
			if got.Present != tt.wantPresent || (got.Value == nil) != tt.wantNil {
				t.Errorf("FolderID = %+v", got)
			}
		})
	}
}

func TestDeleteDocument_Envelope(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(http.MethodDelete, "/documents/3", "")
	env := decodeEnvelope(t, rec)
	if rec.Code != http.StatusOK || !env.Success || env.Message != "document deleted" {
		t.Errorf("status %d envelope %+v", rec.Code, env)
	}

	ts.documents.deleteErr = domain.NewNotFound("document", 3)
	rec = ts.do(http.MethodDelete, "/documents/3", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing status = %d", rec.Code)
	}
}

func TestBulkDelete_Routes(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(http.MethodPost, "/documents/bulk-delete", `{"ids":[3,4]}`)
	if rec.Code != http.StatusOK || len(ts.documents.bulkIDs) != 2 {
		t.Errorf("documents: status %d ids %v", rec.Code, ts.documents.bulkIDs)
	}

	rec = ts.do(http.MethodPost, "/folders/bulk-delete", `{"ids":[1]}`)
	if rec.Code != http.StatusOK || len(ts.folders.deleted) != 1 {
		t.Errorf("folders: status %d ids %v", rec.Code, ts.folders.deleted)
	}
	env := decodeEnvelope(t, rec)
	data, _ := env.Data.(map[string]any)
	if data["deleted"] != float64(1) {
		t.Errorf("data = %v", env.Data)
	}
}

func TestFolderCheckName(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(http.MethodGet, "/users/1/folders/check-name?name=Inbox", "")
	var check docsysSvc.NameCheck
	if err := json.Unmarshal(rec.Body.Bytes(), &check); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !check.Exists || check.Name != "Inbox" {
		t.Errorf("check = %+v", check)
	}
}

func TestUserCountRouteWinsOverID(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(http.MethodGet, "/users/count", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"count":3`) {
		t.Errorf("status %d body %s", rec.Code, rec.Body.String())
	}
}

func TestHealthCheck(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler(stubPinger{}).HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("healthy status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	NewHealthHandler(stubPinger{err: errors.New("down")}).HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("unhealthy status = %d", rec.Code)
	}
}
