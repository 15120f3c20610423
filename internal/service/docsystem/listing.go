package docsystem

import (
	"context"
	"log/slog"

	"filedesk/internal/domain"
	models "filedesk/internal/domain/models/docsystem"
	docsysRepo "filedesk/internal/domain/repositories/docsystem"
	docsysSvc "filedesk/internal/domain/services/docsystem"
)

// listingService implements the ListingService interface
type listingService struct {
	docRepo    docsysRepo.DocumentRepository
	folderRepo docsysRepo.FolderRepository
	logger     *slog.Logger
}

// NewListingService creates a new combined listing service
func NewListingService(
	docRepo docsysRepo.DocumentRepository,
	folderRepo docsysRepo.FolderRepository,
	logger *slog.Logger,
) docsysSvc.ListingService {
	return &listingService{
		docRepo:    docRepo,
		folderRepo: folderRepo,
		logger:     logger,
	}
}

// ListCombined returns one page of the user's unfiltered feed
func (s *listingService) ListCombined(ctx context.Context, userID int64, opts *models.ListOptions) (*models.ListingPage, error) {
	o := copyOptions(opts)
	o.Search = ""
	return s.assemble(ctx, userID, o)
}

// SearchCombined returns one page of the feed narrowed by name. A blank
// search falls through to the unfiltered feed.
func (s *listingService) SearchCombined(ctx context.Context, userID int64, opts *models.ListOptions) (*models.ListingPage, error) {
	return s.assemble(ctx, userID, copyOptions(opts))
}

func copyOptions(opts *models.ListOptions) *models.ListOptions {
	if opts == nil {
		return &models.ListOptions{}
	}
	o := *opts
	return &o
}

// assemble builds one page of the combined feed.
//
// Each kind is counted, then a prefix of min(page*limit, kindTotal) rows is
// read from each table in feed order. Any row on the requested page sits in
// one of those prefixes, so merging them and slicing the window yields the
// same page as sorting the full union would.
func (s *listingService) assemble(ctx context.Context, userID int64, opts *models.ListOptions) (*models.ListingPage, error) {
	if userID < 1 {
		return nil, domain.NewValidation("invalid user id: %d", userID)
	}

	opts.ApplyDefaults()
	if err := opts.Validate(); err != nil {
		return nil, validationFailed(err)
	}

	filter := models.ListFilter{UserID: userID, Search: opts.Search}

	documentsTotal, err := s.docRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	foldersTotal, err := s.folderRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := models.TotalPages(documentsTotal+foldersTotal, opts.Limit)
	if opts.Page > totalPages {
		s.logger.Debug("listing page past the end",
			"user_id", userID,
			"page", opts.Page,
			"total_pages", totalPages,
		)
		return models.NewListingPage(nil, documentsTotal, foldersTotal, opts), nil
	}

	itemsNeeded := opts.Page * opts.Limit

	folders, err := s.folderRepo.ListRecent(ctx, filter, min(itemsNeeded, foldersTotal))
	if err != nil {
		return nil, err
	}
	documents, err := s.docRepo.ListRecent(ctx, filter, min(itemsNeeded, documentsTotal))
	if err != nil {
		return nil, err
	}

	entries := make([]models.Entry, 0, len(folders)+len(documents))
	for _, f := range folders {
		entries = append(entries, models.FolderEntry(f))
	}
	for _, d := range documents {
		entries = append(entries, models.DocumentEntry(d))
	}
	models.SortEntries(entries)

	window := models.PageWindow(entries, opts.Page, opts.Limit)

	s.logger.Debug("listing assembled",
		"user_id", userID,
		"search", opts.Search,
		"page", opts.Page,
		"limit", opts.Limit,
		"fetched", len(entries),
		"window", len(window),
	)

	return models.NewListingPage(window, documentsTotal, foldersTotal, opts), nil
}
