package docsystem

import (
	"context"

	"filedesk/internal/domain/models/docsystem"
)

// ListingService assembles the combined documents+folders feed of one user
type ListingService interface {
	// ListCombined returns one page of the unfiltered feed. opts.Search is ignored.
	ListCombined(ctx context.Context, userID int64, opts *docsystem.ListOptions) (*docsystem.ListingPage, error)

	// SearchCombined returns one page of the feed narrowed to names containing
	// opts.Search. A blank search behaves exactly like ListCombined.
	SearchCombined(ctx context.Context, userID int64, opts *docsystem.ListOptions) (*docsystem.ListingPage, error)
}
