package config

import "time"

const (
	// MaxDocumentNameLength is the maximum length for document names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxDocumentNameLength = 255

	// MaxFolderNameLength is the maximum length for folder names.
	// Same as document names for consistency.
	MaxFolderNameLength = 255

	// MaxFileSizeLabelLength bounds the human-readable size string ("100 KB").
	MaxFileSizeLabelLength = 32

	// MaxUserNameLength is the maximum length for user display names.
	MaxUserNameLength = 255

	// DefaultListLimit is the page size used when a listing request omits limit.
	DefaultListLimit = 10

	// MaxListLimit caps the page size of combined listings.
	MaxListLimit = 100

	// MaxBulkIDs caps the number of ids accepted by one bulk operation.
	MaxBulkIDs = 500

	// MaxUploadBytes is the largest file the client accepts for upload.
	MaxUploadBytes = 10 << 20

	// SearchDebounce is the quiescence window before typed search text is committed.
	SearchDebounce = 500 * time.Millisecond
)
