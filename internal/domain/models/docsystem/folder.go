package docsystem

import (
	"time"
)

// Folder is a flat, named grouping of documents. Folders never nest.
type Folder struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"` // Unique per owner
	UserID    int64     `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Contained documents, only populated on detail reads
	Documents []Document `json:"documents,omitempty"`
}

// FolderSummary is the folder expansion embedded in a document response.
type FolderSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Summary returns the folder expansion of f.
func (f *Folder) Summary() *FolderSummary {
	return &FolderSummary{ID: f.ID, Name: f.Name}
}
