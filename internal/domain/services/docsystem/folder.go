package docsystem

import (
	"context"

	"filedesk/internal/domain/models/docsystem"
)

// FolderService handles folder business logic
type FolderService interface {
	// CreateFolder creates a folder, optionally filing unfiled documents into it
	CreateFolder(ctx context.Context, req *CreateFolderRequest) (*docsystem.Folder, error)

	// GetFolder retrieves a folder with its documents
	GetFolder(ctx context.Context, id int64) (*docsystem.Folder, error)

	// UpdateFolder renames a folder
	UpdateFolder(ctx context.Context, id int64, req *UpdateFolderRequest) (*docsystem.Folder, error)

	// DeleteFolder unfiles the folder's documents, then deletes the folder
	DeleteFolder(ctx context.Context, id int64) error

	// BulkDeleteFolders deletes every listed folder, unfiling their documents first
	BulkDeleteFolders(ctx context.Context, req *BulkDeleteRequest) (int64, error)

	// ListDocuments lists the documents filed in a folder
	ListDocuments(ctx context.Context, id int64) ([]docsystem.Document, error)

	// CheckName reports whether a user already has a folder with this name
	CheckName(ctx context.Context, userID int64, name string) (*NameCheck, error)
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	UserID      int64   `json:"user_id"`
	Name        string  `json:"name"`
	DocumentIDs []int64 `json:"document_ids,omitempty"` // Unfiled documents to file into the new folder
}

// UpdateFolderRequest represents a folder rename
type UpdateFolderRequest struct {
	Name string `json:"name"`
}
