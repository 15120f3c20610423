package docsystem

import (
	"time"
)

// Document is file metadata only. Content is never stored.
type Document struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`           // Unique per owner
	FileSize  string    `json:"file_size" db:"file_size"` // Human readable, e.g. "100 KB"
	UserID    int64     `json:"user_id" db:"user_id"`
	FolderID  *int64    `json:"folder_id" db:"folder_id"` // NULL = unfiled
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Optional expansions, not stored
	Owner  *UserSummary   `json:"owner,omitempty"`
	Folder *FolderSummary `json:"folder,omitempty"`
}

// Unfiled reports whether the document sits outside every folder.
func (d *Document) Unfiled() bool {
	return d.FolderID == nil
}
