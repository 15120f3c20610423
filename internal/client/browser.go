package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"filedesk/internal/config"
	models "filedesk/internal/domain/models/docsystem"

	"github.com/bep/debounce"
	"golang.org/x/sync/errgroup"
)

// maxReconcileFetches bounds the refetches one Refresh may trigger while
// clamping the page. Two corrections (clamp, then reset to 1) always settle.
const maxReconcileFetches = 3

// Fetcher is the slice of the API the Browser depends on
type Fetcher interface {
	ListCombined(ctx context.Context, userID int64, page, limit int) (*models.ListingPage, error)
	Search(ctx context.Context, userID int64, query string, page, limit int) (*models.ListingPage, error)
	BulkDeleteDocuments(ctx context.Context, ids []int64) (int64, error)
	BulkDeleteFolders(ctx context.Context, ids []int64) (int64, error)
}

// State is a snapshot of what the browser currently shows
type State struct {
	Page        int
	RowsPerPage int
	TotalPages  int
	Total       int
	SearchText  string
	Query       string
	Entries     []models.Entry
	Selected    []string
}

// DeleteResult reports what a bulk delete removed per kind
type DeleteResult struct {
	Documents int64
	Folders   int64
}

// Browser keeps the paging, search and selection state of a combined listing
// and reconciles it against what the server reports after every fetch.
type Browser struct {
	fetcher Fetcher
	userID  int64
	logger  *slog.Logger

	mu          sync.Mutex
	page        int
	rowsPerPage int
	searchText  string
	query       string
	totalPages  int
	total       int
	entries     []models.Entry
	selected    map[string]struct{}
	generation  uint64

	debounceWindow time.Duration
	debounced      func(f func())
	commitCtx      context.Context
	onChange       func(State)
	onError        func(error)
}

// BrowserOption configures a Browser
type BrowserOption func(*Browser)

// WithRowsPerPage sets the initial page size
func WithRowsPerPage(n int) BrowserOption {
	return func(b *Browser) { b.rowsPerPage = n }
}

// WithDebounce overrides the search quiescence window
func WithDebounce(d time.Duration) BrowserOption {
	return func(b *Browser) { b.debounceWindow = d }
}

// WithOnChange registers a callback invoked after every applied fetch
func WithOnChange(fn func(State)) BrowserOption {
	return func(b *Browser) { b.onChange = fn }
}

// WithOnError registers a callback for failures of debounced searches,
// which have no caller to return an error to.
func WithOnError(fn func(error)) BrowserOption {
	return func(b *Browser) { b.onError = fn }
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) BrowserOption {
	return func(b *Browser) { b.logger = logger }
}

// WithContext sets the context used by debounced search commits
func WithContext(ctx context.Context) BrowserOption {
	return func(b *Browser) { b.commitCtx = ctx }
}

// NewBrowser creates a browser over one user's listing, starting on page 1
// with no search.
func NewBrowser(fetcher Fetcher, userID int64, opts ...BrowserOption) *Browser {
	b := &Browser{
		fetcher:        fetcher,
		userID:         userID,
		logger:         slog.Default(),
		page:           1,
		rowsPerPage:    config.DefaultListLimit,
		totalPages:     1,
		selected:       make(map[string]struct{}),
		debounceWindow: config.SearchDebounce,
		commitCtx:      context.Background(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.rowsPerPage < 1 || b.rowsPerPage > config.MaxListLimit {
		b.rowsPerPage = config.DefaultListLimit
	}
	b.debounced = debounce.New(b.debounceWindow)
	return b
}

// fetch calls the search variant only when the committed query is non-blank
func (b *Browser) fetch(ctx context.Context, query string, page, limit int) (*models.ListingPage, error) {
	if strings.TrimSpace(query) != "" {
		return b.fetcher.Search(ctx, b.userID, query, page, limit)
	}
	return b.fetcher.ListCombined(ctx, b.userID, page, limit)
}

// Refresh fetches the current page and applies the reconciliation rules:
// a page past the server's totalPages is clamped down, and an empty page
// other than the first falls back to page 1. Each correction refetches.
// Responses overtaken by a newer fetch are discarded.
func (b *Browser) Refresh(ctx context.Context) error {
	for range maxReconcileFetches {
		b.mu.Lock()
		b.generation++
		gen := b.generation
		query, page, limit := b.query, b.page, b.rowsPerPage
		b.mu.Unlock()

		result, err := b.fetch(ctx, query, page, limit)
		if err != nil {
			return err
		}

		b.mu.Lock()
		if gen != b.generation {
			b.mu.Unlock()
			b.logger.Debug("discarding stale listing response", "page", page, "query", query)
			return nil
		}

		b.totalPages = result.TotalPages
		b.total = result.Total
		b.entries = result.Entries()

		switch {
		case result.TotalPages < b.page:
			b.page = max(result.TotalPages, 1)
			b.logger.Debug("clamping page", "from", page, "to", b.page)
			b.mu.Unlock()
			continue
		case len(b.entries) == 0 && b.page > 1:
			b.page = 1
			b.logger.Debug("empty page, returning to first page", "from", page)
			b.mu.Unlock()
			continue
		}

		state := b.stateLocked()
		b.mu.Unlock()
		b.notify(state)
		return nil
	}

	return fmt.Errorf("listing did not settle after %d fetches", maxReconcileFetches)
}

func (b *Browser) notify(state State) {
	if b.onChange != nil {
		b.onChange(state)
	}
}

// NextPage moves forward unless already on the last known page
func (b *Browser) NextPage(ctx context.Context) error {
	b.mu.Lock()
	if b.page >= b.totalPages {
		b.mu.Unlock()
		return nil
	}
	b.page++
	b.mu.Unlock()
	return b.Refresh(ctx)
}

// PrevPage moves back unless already on page 1
func (b *Browser) PrevPage(ctx context.Context) error {
	b.mu.Lock()
	if b.page <= 1 {
		b.mu.Unlock()
		return nil
	}
	b.page--
	b.mu.Unlock()
	return b.Refresh(ctx)
}

// GoToPage jumps to page n. Pages beyond the end are clamped by Refresh.
func (b *Browser) GoToPage(ctx context.Context, n int) error {
	if n < 1 {
		return fmt.Errorf("page must be at least 1, got %d", n)
	}
	b.mu.Lock()
	b.page = n
	b.mu.Unlock()
	return b.Refresh(ctx)
}

// SetRowsPerPage changes the page size and returns to page 1
func (b *Browser) SetRowsPerPage(ctx context.Context, n int) error {
	if n < 1 || n > config.MaxListLimit {
		return fmt.Errorf("rows per page must be between 1 and %d", config.MaxListLimit)
	}
	b.mu.Lock()
	b.rowsPerPage = n
	b.page = 1
	b.mu.Unlock()
	return b.Refresh(ctx)
}

// TypeSearch records raw input. The query is committed once the input has
// been stable for the debounce window, so a burst of keystrokes costs one fetch.
func (b *Browser) TypeSearch(text string) {
	b.mu.Lock()
	b.searchText = text
	b.mu.Unlock()

	b.debounced(func() {
		if err := b.CommitSearch(b.commitCtx); err != nil {
			b.logger.Warn("search refresh failed", "error", err)
			if b.onError != nil {
				b.onError(err)
			}
		}
	})
}

// CommitSearch commits the raw input as the query immediately. A changed
// query resets to page 1; an unchanged one does not refetch.
func (b *Browser) CommitSearch(ctx context.Context) error {
	b.mu.Lock()
	query := strings.TrimSpace(b.searchText)
	if query == b.query {
		b.mu.Unlock()
		return nil
	}
	b.query = query
	b.page = 1
	b.mu.Unlock()
	return b.Refresh(ctx)
}

// Toggle flips selection of a "kind-id" key
func (b *Browser) Toggle(key string) error {
	if _, _, err := models.ParseSelectionKey(key); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.selected[key]; ok {
		delete(b.selected, key)
	} else {
		b.selected[key] = struct{}{}
	}
	return nil
}

// Select adds an entry to the selection
func (b *Browser) Select(e models.Entry) {
	b.mu.Lock()
	b.selected[e.Key()] = struct{}{}
	b.mu.Unlock()
}

// SelectPage adds every row on the current page
func (b *Browser) SelectPage() {
	b.mu.Lock()
	for _, e := range b.entries {
		b.selected[e.Key()] = struct{}{}
	}
	b.mu.Unlock()
}

// Deselect removes an entry from the selection
func (b *Browser) Deselect(e models.Entry) {
	b.mu.Lock()
	delete(b.selected, e.Key())
	b.mu.Unlock()
}

// ClearSelection empties the selection
func (b *Browser) ClearSelection() {
	b.mu.Lock()
	clear(b.selected)
	b.mu.Unlock()
}

// Selected returns the selected keys, sorted
func (b *Browser) Selected() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.selectedLocked()
}

func (b *Browser) selectedLocked() []string {
	keys := make([]string, 0, len(b.selected))
	for k := range b.selected {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// State returns a snapshot of the browser
func (b *Browser) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stateLocked()
}

func (b *Browser) stateLocked() State {
	return State{
		Page:        b.page,
		RowsPerPage: b.rowsPerPage,
		TotalPages:  b.totalPages,
		Total:       b.total,
		SearchText:  b.searchText,
		Query:       b.query,
		Entries:     slices.Clone(b.entries),
		Selected:    b.selectedLocked(),
	}
}

// PartitionSelection splits composite keys into document ids and folder ids.
// Keys that do not parse are skipped.
func PartitionSelection(keys []string) (documentIDs, folderIDs []int64) {
	for _, key := range keys {
		kind, id, err := models.ParseSelectionKey(key)
		if err != nil {
			continue
		}
		switch kind {
		case models.EntryKindDocument:
			documentIDs = append(documentIDs, id)
		case models.EntryKindFolder:
			folderIDs = append(folderIDs, id)
		}
	}
	slices.Sort(documentIDs)
	slices.Sort(folderIDs)
	return documentIDs, folderIDs
}

// DeleteSelected bulk-deletes the selection. Documents and folders go to
// their own endpoints, each called at most once and skipped when empty.
// Both calls are awaited before the listing is refreshed, even when one
// fails. Keys of a kind that was deleted successfully leave the selection.
func (b *Browser) DeleteSelected(ctx context.Context) (DeleteResult, error) {
	documentIDs, folderIDs := PartitionSelection(b.Selected())

	var g errgroup.Group
	var result DeleteResult
	var documentErr, folderErr error
	if len(documentIDs) > 0 {
		g.Go(func() error {
			result.Documents, documentErr = b.fetcher.BulkDeleteDocuments(ctx, documentIDs)
			return documentErr
		})
	}
	if len(folderIDs) > 0 {
		g.Go(func() error {
			result.Folders, folderErr = b.fetcher.BulkDeleteFolders(ctx, folderIDs)
			return folderErr
		})
	}
	// Wait reports only the first failure; both are joined below.
	_ = g.Wait()

	b.mu.Lock()
	if documentErr == nil {
		b.dropSelectedLocked(models.EntryKindDocument, documentIDs)
	}
	if folderErr == nil {
		b.dropSelectedLocked(models.EntryKindFolder, folderIDs)
	}
	b.mu.Unlock()

	deleteErr := errors.Join(documentErr, folderErr)
	if len(documentIDs) == 0 && len(folderIDs) == 0 {
		return result, nil
	}

	b.logger.Info("bulk delete finished",
		"documents", result.Documents,
		"folders", result.Folders,
		"failed", deleteErr != nil,
	)

	if err := b.Refresh(ctx); err != nil {
		return result, errors.Join(deleteErr, err)
	}
	return result, deleteErr
}

func (b *Browser) dropSelectedLocked(kind models.EntryKind, ids []int64) {
	for _, id := range ids {
		delete(b.selected, models.SelectionKey(kind, id))
	}
}
