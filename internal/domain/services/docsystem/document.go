package docsystem

import (
	"context"

	"filedesk/internal/domain/models/docsystem"
	"filedesk/internal/httputil"
)

// DocumentService handles document business logic
type DocumentService interface {
	// CreateDocument records an uploaded file's metadata
	CreateDocument(ctx context.Context, req *CreateDocumentRequest) (*docsystem.Document, error)

	// GetDocument retrieves a document with its owner and folder expanded
	GetDocument(ctx context.Context, id int64) (*docsystem.Document, error)

	// UpdateDocument renames and/or moves a document
	UpdateDocument(ctx context.Context, id int64, req *UpdateDocumentRequest) (*docsystem.Document, error)

	// DeleteDocument deletes one document
	DeleteDocument(ctx context.Context, id int64) error

	// BulkDeleteDocuments deletes every listed document
	BulkDeleteDocuments(ctx context.Context, req *BulkDeleteRequest) (int64, error)

	// MoveDocuments assigns documents to a folder, or unfiles them
	MoveDocuments(ctx context.Context, req *MoveDocumentsRequest) (int64, error)

	// CheckName reports whether a user already has a document with this name
	CheckName(ctx context.Context, userID int64, name string) (*NameCheck, error)
}

// CreateDocumentRequest represents a document upload
type CreateDocumentRequest struct {
	UserID   int64  `json:"user_id"`
	Name     string `json:"name"`
	FileSize string `json:"file_size"`           // Human readable, e.g. "100 KB"
	FolderID *int64 `json:"folder_id,omitempty"` // nil = unfiled
}

// UpdateDocumentRequest represents a document patch
type UpdateDocumentRequest struct {
	Name     *string                  `json:"name,omitempty"`
	FolderID httputil.Optional[int64] `json:"folder_id"` // absent = keep, null = unfile
}

// MoveDocumentsRequest assigns many documents to one folder
type MoveDocumentsRequest struct {
	UserID      int64   `json:"user_id"`
	DocumentIDs []int64 `json:"document_ids"`
	FolderID    *int64  `json:"folder_id"` // nil = unfile
}

// BulkDeleteRequest lists ids to delete
type BulkDeleteRequest struct {
	IDs []int64 `json:"ids"`
}

// NameCheck is the answer to a duplicate-name probe
type NameCheck struct {
	Name   string `json:"name"`
	Exists bool   `json:"exists"`
	ID     int64  `json:"id,omitempty"` // ID of the existing resource
}
