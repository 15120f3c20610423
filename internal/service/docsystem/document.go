package docsystem

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"filedesk/internal/config"
	"filedesk/internal/domain"
	models "filedesk/internal/domain/models/docsystem"
	docsysRepo "filedesk/internal/domain/repositories/docsystem"
	docsysSvc "filedesk/internal/domain/services/docsystem"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// documentService implements the DocumentService interface
type documentService struct {
	docRepo    docsysRepo.DocumentRepository
	folderRepo docsysRepo.FolderRepository
	userRepo   docsysRepo.UserRepository
	validator  *ResourceValidator
	logger     *slog.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(
	docRepo docsysRepo.DocumentRepository,
	folderRepo docsysRepo.FolderRepository,
	userRepo docsysRepo.UserRepository,
	validator *ResourceValidator,
	logger *slog.Logger,
) docsysSvc.DocumentService {
	return &documentService{
		docRepo:    docRepo,
		folderRepo: folderRepo,
		userRepo:   userRepo,
		validator:  validator,
		logger:     logger,
	}
}

// CreateDocument records an uploaded file's metadata
func (s *documentService) CreateDocument(ctx context.Context, req *docsysSvc.CreateDocumentRequest) (*models.Document, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.FileSize = strings.TrimSpace(req.FileSize)

	if err := s.validateCreateRequest(req); err != nil {
		return nil, validationFailed(err)
	}

	if err := s.validator.ValidateUser(ctx, req.UserID); err != nil {
		return nil, err
	}
	if req.FolderID != nil {
		if err := s.validator.ValidateFolder(ctx, *req.FolderID, req.UserID); err != nil {
			return nil, err
		}
	}

	if err := s.ensureNameFree(ctx, req.UserID, req.Name, 0); err != nil {
		return nil, err
	}

	doc := &models.Document{
		UserID:   req.UserID,
		FolderID: req.FolderID,
		Name:     req.Name,
		FileSize: req.FileSize,
	}

	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("document created",
		"id", doc.ID,
		"name", doc.Name,
		"user_id", doc.UserID,
		"folder_id", doc.FolderID,
	)

	return doc, nil
}

// GetDocument retrieves a document with owner and folder expanded
func (s *documentService) GetDocument(ctx context.Context, id int64) (*models.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	owner, err := s.userRepo.GetByID(ctx, doc.UserID)
	if err != nil {
		s.logger.Warn("failed to expand owner", "doc_id", doc.ID, "error", err)
	} else {
		doc.Owner = owner.Summary()
	}

	if doc.FolderID != nil {
		folder, err := s.folderRepo.GetByID(ctx, *doc.FolderID)
		if err != nil {
			s.logger.Warn("failed to expand folder", "doc_id", doc.ID, "error", err)
		} else {
			doc.Folder = folder.Summary()
		}
	}

	return doc, nil
}

// UpdateDocument renames and/or moves a document
func (s *documentService) UpdateDocument(ctx context.Context, id int64, req *docsysSvc.UpdateDocumentRequest) (*models.Document, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, validationFailed(err)
	}

	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name != doc.Name {
			if err := s.ensureNameFree(ctx, doc.UserID, name, doc.ID); err != nil {
				return nil, err
			}
			doc.Name = name
		}
	}

	// Tri-state: only touch the folder if the field was present
	if req.FolderID.Present {
		if req.FolderID.Value != nil {
			if err := s.validator.ValidateFolder(ctx, *req.FolderID.Value, doc.UserID); err != nil {
				return nil, err
			}
			doc.FolderID = req.FolderID.Value
			s.logger.Debug("moving document", "doc_id", doc.ID, "folder_id", *doc.FolderID)
		} else {
			doc.FolderID = nil
			s.logger.Debug("unfiling document", "doc_id", doc.ID)
		}
	}

	if err := s.docRepo.Update(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("document updated",
		"id", doc.ID,
		"name", doc.Name,
		"folder_id", doc.FolderID,
	)

	return doc, nil
}

// DeleteDocument deletes one document
func (s *documentService) DeleteDocument(ctx context.Context, id int64) error {
	if err := s.docRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("document deleted", "id", id)
	return nil
}

// BulkDeleteDocuments deletes every listed document. Unknown ids are skipped;
// the count reports what was actually removed.
func (s *documentService) BulkDeleteDocuments(ctx context.Context, req *docsysSvc.BulkDeleteRequest) (int64, error) {
	if err := validateBulkIDs(req.IDs); err != nil {
		return 0, err
	}

	ids := uniqueIDs(req.IDs)
	deleted, err := s.docRepo.DeleteMany(ctx, ids)
	if err != nil {
		return 0, err
	}

	s.logger.Info("documents deleted", "requested", len(ids), "deleted", deleted)
	return deleted, nil
}

// MoveDocuments assigns documents to a folder, or unfiles them
func (s *documentService) MoveDocuments(ctx context.Context, req *docsysSvc.MoveDocumentsRequest) (int64, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.UserID, idRules...),
		validation.Field(&req.DocumentIDs,
			validation.Required,
			validation.Length(1, config.MaxBulkIDs),
			validation.Each(idRules...),
		),
	)
	if err != nil {
		return 0, validationFailed(err)
	}

	if err := s.validator.ValidateUser(ctx, req.UserID); err != nil {
		return 0, err
	}
	if req.FolderID != nil {
		if err := s.validator.ValidateFolder(ctx, *req.FolderID, req.UserID); err != nil {
			return 0, err
		}
	}

	ids := uniqueIDs(req.DocumentIDs)
	moved, err := s.docRepo.AssignFolder(ctx, req.UserID, ids, req.FolderID, false)
	if err != nil {
		return 0, err
	}

	s.logger.Info("documents moved",
		"user_id", req.UserID,
		"folder_id", req.FolderID,
		"requested", len(ids),
		"moved", moved,
	)

	return moved, nil
}

// CheckName reports whether a user already has a document with this name
func (s *documentService) CheckName(ctx context.Context, userID int64, name string) (*docsysSvc.NameCheck, error) {
	name, err := validateNameProbe(userID, name)
	if err != nil {
		return nil, err
	}

	check := &docsysSvc.NameCheck{Name: name}
	existing, err := s.docRepo.GetByName(ctx, userID, name)
	switch {
	case err == nil:
		check.Exists = true
		check.ID = existing.ID
	case errors.Is(err, domain.ErrNotFound):
	default:
		return nil, err
	}

	return check, nil
}

// ensureNameFree returns a ConflictError when another document of the user
// already carries name. selfID is excluded so a no-op rename passes.
func (s *documentService) ensureNameFree(ctx context.Context, userID int64, name string, selfID int64) error {
	existing, err := s.docRepo.GetByName(ctx, userID, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check for duplicate names: %w", err)
	}
	if existing.ID == selfID {
		return nil
	}
	return domain.NewConflict("document", name, existing.ID)
}

// validateCreateRequest validates a document creation request
func (s *documentService) validateCreateRequest(req *docsysSvc.CreateDocumentRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.UserID, idRules...),
		validation.Field(&req.Name, nameRules(config.MaxDocumentNameLength)...),
		validation.Field(&req.FileSize,
			validation.Required,
			validation.Length(1, config.MaxFileSizeLabelLength),
		),
		validation.Field(&req.FolderID, validation.NilOrNotEmpty.Error("must be a positive id"), validation.Min(int64(1))),
	)
}

// validateUpdateRequest validates a document patch
func (s *documentService) validateUpdateRequest(req *docsysSvc.UpdateDocumentRequest) error {
	if req.Name == nil && !req.FolderID.Present {
		return fmt.Errorf("at least one of name or folder_id must be provided")
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if err := validation.Validate(name, nameRules(config.MaxDocumentNameLength)...); err != nil {
			return fmt.Errorf("name: %w", err)
		}
	}

	if req.FolderID.Value != nil {
		if err := validation.Validate(*req.FolderID.Value, idRules...); err != nil {
			return fmt.Errorf("folder_id: %w", err)
		}
	}

	return nil
}
