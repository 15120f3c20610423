package client

import (
	"context"
	"fmt"
	"strconv"
	"time"

	models "filedesk/internal/domain/models/docsystem"
	docsysSvc "filedesk/internal/domain/services/docsystem"
	"filedesk/internal/httputil"

	"github.com/go-resty/resty/v2"
)

// APIError is a failure envelope returned by the server. Its message is the
// server's own text, meant to be shown to the user as is.
type APIError struct {
	Status  int
	Message string
	Code    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client talks to the filedesk HTTP API
type Client struct {
	http *resty.Client
}

// Option configures a Client
type Option func(*resty.Client)

// WithTimeout bounds every request
func WithTimeout(d time.Duration) Option {
	return func(c *resty.Client) { c.SetTimeout(d) }
}

// New creates a client for the API at baseURL
func New(baseURL string, opts ...Option) *Client {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetTimeout(15 * time.Second)
	for _, opt := range opts {
		opt(rc)
	}
	return &Client{http: rc}
}

// ackEnvelope is a success envelope carrying a count
type ackEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		Deleted int64 `json:"deleted"`
		Moved   int64 `json:"moved"`
	} `json:"data"`
}

func (c *Client) request(ctx context.Context, result any) *resty.Request {
	return c.http.R().
		SetContext(ctx).
		SetResult(result).
		SetError(&httputil.Envelope{})
}

// check turns transport failures and error envelopes into Go errors
func check(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if !resp.IsError() {
		return nil
	}

	apiErr := &APIError{Status: resp.StatusCode(), Message: resp.Status()}
	if env, ok := resp.Error().(*httputil.Envelope); ok && env.Message != "" {
		apiErr.Message = env.Message
		apiErr.Code = env.Error
	}
	return apiErr
}

func pagingParams(page, limit int) map[string]string {
	params := map[string]string{}
	if page > 0 {
		params["page"] = strconv.Itoa(page)
	}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}
	return params
}

// ListCombined fetches one page of a user's unfiltered feed
func (c *Client) ListCombined(ctx context.Context, userID int64, page, limit int) (*models.ListingPage, error) {
	var out models.ListingPage
	resp, err := c.request(ctx, &out).
		SetPathParam("userId", strconv.FormatInt(userID, 10)).
		SetQueryParams(pagingParams(page, limit)).
		Get("/users/{userId}/documents-folders")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// Search fetches one page of a user's feed narrowed by name
func (c *Client) Search(ctx context.Context, userID int64, query string, page, limit int) (*models.ListingPage, error) {
	params := pagingParams(page, limit)
	params["search"] = query

	var out models.ListingPage
	resp, err := c.request(ctx, &out).
		SetPathParam("userId", strconv.FormatInt(userID, 10)).
		SetQueryParams(params).
		Get("/users/{userId}/search")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) bulkDelete(ctx context.Context, path string, ids []int64) (int64, error) {
	var out ackEnvelope
	resp, err := c.request(ctx, &out).
		SetBody(docsysSvc.BulkDeleteRequest{IDs: ids}).
		Post(path)
	if err := check(resp, err); err != nil {
		return 0, err
	}
	return out.Data.Deleted, nil
}

// BulkDeleteDocuments deletes documents by id
func (c *Client) BulkDeleteDocuments(ctx context.Context, ids []int64) (int64, error) {
	return c.bulkDelete(ctx, "/documents/bulk-delete", ids)
}

// BulkDeleteFolders deletes folders by id; their documents become unfiled
func (c *Client) BulkDeleteFolders(ctx context.Context, ids []int64) (int64, error) {
	return c.bulkDelete(ctx, "/folders/bulk-delete", ids)
}

// CreateDocument records an uploaded file
func (c *Client) CreateDocument(ctx context.Context, req *docsysSvc.CreateDocumentRequest) (*models.Document, error) {
	var out models.Document
	resp, err := c.request(ctx, &out).SetBody(req).Post("/documents")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateFolder creates a folder, optionally filing unfiled documents into it
func (c *Client) CreateFolder(ctx context.Context, req *docsysSvc.CreateFolderRequest) (*models.Folder, error) {
	var out models.Folder
	resp, err := c.request(ctx, &out).SetBody(req).Post("/folders")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckDocumentName asks whether a user already has a document called name
func (c *Client) CheckDocumentName(ctx context.Context, userID int64, name string) (*docsysSvc.NameCheck, error) {
	var out docsysSvc.NameCheck
	resp, err := c.request(ctx, &out).
		SetPathParam("userId", strconv.FormatInt(userID, 10)).
		SetQueryParam("name", name).
		Get("/users/{userId}/documents/check-name")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}
