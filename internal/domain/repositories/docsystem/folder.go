package docsystem

import (
	"context"

	"filedesk/internal/domain/models/docsystem"
)

// FolderRepository defines data access operations for folders
type FolderRepository interface {
	// Create inserts a folder. A (user, name) collision returns *domain.ConflictError.
	Create(ctx context.Context, folder *docsystem.Folder) error

	// GetByID retrieves a folder by ID
	GetByID(ctx context.Context, id int64) (*docsystem.Folder, error)

	// GetByName retrieves a user's folder by exact name
	GetByName(ctx context.Context, userID int64, name string) (*docsystem.Folder, error)

	// Update persists a rename
	Update(ctx context.Context, folder *docsystem.Folder) error

	// Delete removes a folder row. Callers detach documents first.
	Delete(ctx context.Context, id int64) error

	// DeleteMany removes every listed folder row and returns how many were removed
	DeleteMany(ctx context.Context, ids []int64) (int64, error)

	// Count returns the number of folders matching filter
	Count(ctx context.Context, filter docsystem.ListFilter) (int, error)

	// ListRecent returns up to limit matching folders, newest first, from the
	// start of the ordering
	ListRecent(ctx context.Context, filter docsystem.ListFilter, limit int) ([]docsystem.Folder, error)
}
