package docsystem

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"filedesk/internal/config"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// EntryKind tags which collection a combined-feed row came from
type EntryKind string

const (
	EntryKindFolder   EntryKind = "folder"
	EntryKindDocument EntryKind = "document"
)

// Entry is one row of the combined feed. Exactly one of Folder/Document is set,
// matching Kind. Build entries with FolderEntry/DocumentEntry only.
type Entry struct {
	Kind     EntryKind
	Folder   *Folder
	Document *Document
}

// FolderEntry tags a folder as a feed row
func FolderEntry(f Folder) Entry {
	return Entry{Kind: EntryKindFolder, Folder: &f}
}

// DocumentEntry tags a document as a feed row
func DocumentEntry(d Document) Entry {
	return Entry{Kind: EntryKindDocument, Document: &d}
}

func (e Entry) ID() int64 {
	if e.Kind == EntryKindFolder {
		return e.Folder.ID
	}
	return e.Document.ID
}

func (e Entry) Name() string {
	if e.Kind == EntryKindFolder {
		return e.Folder.Name
	}
	return e.Document.Name
}

func (e Entry) CreatedAt() time.Time {
	if e.Kind == EntryKindFolder {
		return e.Folder.CreatedAt
	}
	return e.Document.CreatedAt
}

// Key is the composite selection key, e.g. "folder-12". Documents and folders
// have independent id sequences, so the numeric id alone is ambiguous.
func (e Entry) Key() string {
	return SelectionKey(e.Kind, e.ID())
}

// SelectionKey formats a composite "kind-id" key
func SelectionKey(kind EntryKind, id int64) string {
	return fmt.Sprintf("%s-%d", kind, id)
}

// ParseSelectionKey splits a composite key back into kind and id
func ParseSelectionKey(key string) (EntryKind, int64, error) {
	kind, rawID, ok := strings.Cut(key, "-")
	if !ok {
		return "", 0, fmt.Errorf("selection key %q: missing separator", key)
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id < 1 {
		return "", 0, fmt.Errorf("selection key %q: invalid id", key)
	}
	switch EntryKind(kind) {
	case EntryKindFolder, EntryKindDocument:
		return EntryKind(kind), id, nil
	default:
		return "", 0, fmt.Errorf("selection key %q: unknown kind", key)
	}
}

// EntryLess orders the combined feed: folders before documents, then newest
// first, then higher id first so equal timestamps stay deterministic.
func EntryLess(a, b Entry) bool {
	if a.Kind != b.Kind {
		return a.Kind == EntryKindFolder
	}
	at, bt := a.CreatedAt(), b.CreatedAt()
	if !at.Equal(bt) {
		return at.After(bt)
	}
	return a.ID() > b.ID()
}

// SortEntries sorts entries in place by EntryLess
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return EntryLess(entries[i], entries[j])
	})
}

// PageWindow returns entries[(page-1)*limit : (page-1)*limit+limit], clipped
// to the slice. A window past the end is empty, never an error.
func PageWindow(entries []Entry, page, limit int) []Entry {
	if page < 1 || limit < 1 {
		return []Entry{}
	}
	start := (page - 1) * limit
	if start >= len(entries) {
		return []Entry{}
	}
	end := start + limit
	if end > len(entries) {
		end = len(entries)
	}
	return entries[start:end]
}

// TotalPages is ceil(total/limit), normalized to 1 for an empty feed so a UI
// can always render "page 1 of 1".
func TotalPages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 1
	}
	return (total + limit - 1) / limit
}

// ListFilter is the predicate shared by the count and fetch queries of both
// collections.
type ListFilter struct {
	UserID int64
	Search string // Trimmed; empty = no name filter
}

// HasSearch reports whether the filter narrows by name
func (f ListFilter) HasSearch() bool {
	return f.Search != ""
}

// ListOptions configures one page of the combined feed
type ListOptions struct {
	Search string `json:"search,omitempty"`
	Page   int    `json:"page"`
	Limit  int    `json:"limit"`
}

// ApplyDefaults fills unset paging fields. Explicit invalid values are left
// for Validate to reject.
func (o *ListOptions) ApplyDefaults() {
	if o.Page == 0 {
		o.Page = 1
	}
	if o.Limit == 0 {
		o.Limit = config.DefaultListLimit
	}
	o.Search = strings.TrimSpace(o.Search)
}

// Validate checks paging bounds
func (o *ListOptions) Validate() error {
	return validation.ValidateStruct(o,
		validation.Field(&o.Page, validation.Min(1).Error("page must be at least 1")),
		validation.Field(&o.Limit,
			validation.Min(1).Error("limit must be at least 1"),
			validation.Max(config.MaxListLimit).Error(fmt.Sprintf("limit cannot exceed %d", config.MaxListLimit)),
		),
	)
}

// ListedDocument is a document row carrying its source tag on the wire
type ListedDocument struct {
	Kind EntryKind `json:"kind"`
	Document
}

// ListedFolder is a folder row carrying its source tag on the wire
type ListedFolder struct {
	Kind EntryKind `json:"kind"`
	Folder
}

// ListingPage is one page of the combined feed, split back by kind
type ListingPage struct {
	Documents      []ListedDocument `json:"documents"`
	Folders        []ListedFolder   `json:"folders"`
	DocumentsTotal int              `json:"documentsTotal"`
	FoldersTotal   int              `json:"foldersTotal"`
	Total          int              `json:"total"`
	Page           int              `json:"page"`
	Limit          int              `json:"limit"`
	TotalPages     int              `json:"totalPages"`
}

// NewListingPage partitions a sorted window and attaches counts and paging
// metadata.
func NewListingPage(window []Entry, documentsTotal, foldersTotal int, opts *ListOptions) *ListingPage {
	page := &ListingPage{
		Documents:      []ListedDocument{},
		Folders:        []ListedFolder{},
		DocumentsTotal: documentsTotal,
		FoldersTotal:   foldersTotal,
		Total:          documentsTotal + foldersTotal,
		Page:           opts.Page,
		Limit:          opts.Limit,
	}
	page.TotalPages = TotalPages(page.Total, opts.Limit)

	for _, e := range window {
		switch e.Kind {
		case EntryKindFolder:
			page.Folders = append(page.Folders, ListedFolder{Kind: EntryKindFolder, Folder: *e.Folder})
		case EntryKindDocument:
			page.Documents = append(page.Documents, ListedDocument{Kind: EntryKindDocument, Document: *e.Document})
		}
	}

	return page
}

// Entries re-tags both lists and merges them in feed order. The wire keeps
// the kinds apart, so consumers rebuild the single sequence here.
func (p *ListingPage) Entries() []Entry {
	entries := make([]Entry, 0, len(p.Folders)+len(p.Documents))
	for _, f := range p.Folders {
		entries = append(entries, FolderEntry(f.Folder))
	}
	for _, d := range p.Documents {
		entries = append(entries, DocumentEntry(d.Document))
	}
	SortEntries(entries)
	return entries
}

// Len is the number of rows on the page
func (p *ListingPage) Len() int {
	return len(p.Documents) + len(p.Folders)
}
