package docsystem

import (
	"context"

	"filedesk/internal/domain/models/docsystem"
)

// DocumentRepository defines data access operations for documents
type DocumentRepository interface {
	// Create inserts a document. A (user, name) collision returns *domain.ConflictError.
	Create(ctx context.Context, doc *docsystem.Document) error

	// GetByID retrieves a document by ID
	GetByID(ctx context.Context, id int64) (*docsystem.Document, error)

	// GetByName retrieves a user's document by exact name
	GetByName(ctx context.Context, userID int64, name string) (*docsystem.Document, error)

	// Update persists name and folder changes
	Update(ctx context.Context, doc *docsystem.Document) error

	// Delete removes a document
	Delete(ctx context.Context, id int64) error

	// DeleteMany removes every listed document and returns how many were removed
	DeleteMany(ctx context.Context, ids []int64) (int64, error)

	// Count returns the number of documents matching filter
	Count(ctx context.Context, filter docsystem.ListFilter) (int, error)

	// ListRecent returns up to limit matching documents, newest first, from the
	// start of the ordering
	ListRecent(ctx context.Context, filter docsystem.ListFilter, limit int) ([]docsystem.Document, error)

	// ListByFolder lists the documents filed in a folder, newest first
	ListByFolder(ctx context.Context, folderID int64) ([]docsystem.Document, error)

	// AssignFolder points the listed documents owned by userID at folderID
	// (nil = unfile). With onlyUnfiled, documents already in a folder are skipped.
	AssignFolder(ctx context.Context, userID int64, ids []int64, folderID *int64, onlyUnfiled bool) (int64, error)

	// DetachFromFolders clears the folder reference of every document in the
	// listed folders
	DetachFromFolders(ctx context.Context, folderIDs []int64) (int64, error)
}
