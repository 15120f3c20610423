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
	"filedesk/internal/domain/repositories"
	docsysRepo "filedesk/internal/domain/repositories/docsystem"
	docsysSvc "filedesk/internal/domain/services/docsystem"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type folderService struct {
	folderRepo docsysRepo.FolderRepository
	docRepo    docsysRepo.DocumentRepository
	txManager  repositories.TransactionManager
	validator  *ResourceValidator
	logger     *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	folderRepo docsysRepo.FolderRepository,
	docRepo docsysRepo.DocumentRepository,
	txManager repositories.TransactionManager,
	validator *ResourceValidator,
	logger *slog.Logger,
) docsysSvc.FolderService {
	return &folderService{
		folderRepo: folderRepo,
		docRepo:    docRepo,
		txManager:  txManager,
		validator:  validator,
		logger:     logger,
	}
}

// CreateFolder creates a folder. Listed documents must be unfiled and owned
// by the same user; they are filed into the new folder in the same
// transaction, and any that cannot be filed abort the whole creation.
func (s *folderService) CreateFolder(ctx context.Context, req *docsysSvc.CreateFolderRequest) (*models.Folder, error) {
	req.Name = strings.TrimSpace(req.Name)

	err := validation.ValidateStruct(req,
		validation.Field(&req.UserID, idRules...),
		validation.Field(&req.Name, nameRules(config.MaxFolderNameLength)...),
		validation.Field(&req.DocumentIDs,
			validation.Length(0, config.MaxBulkIDs),
			validation.Each(idRules...),
		),
	)
	if err != nil {
		return nil, validationFailed(err)
	}

	if err := s.validator.ValidateUser(ctx, req.UserID); err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, req.UserID, req.Name, 0); err != nil {
		return nil, err
	}

	folder := &models.Folder{
		UserID: req.UserID,
		Name:   req.Name,
	}
	docIDs := uniqueIDs(req.DocumentIDs)

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.folderRepo.Create(txCtx, folder); err != nil {
			return err
		}
		if len(docIDs) == 0 {
			return nil
		}

		filed, err := s.docRepo.AssignFolder(txCtx, req.UserID, docIDs, &folder.ID, true)
		if err != nil {
			return err
		}
		if filed != int64(len(docIDs)) {
			return domain.NewValidation(
				"%d of %d documents cannot be added: they must exist, belong to user %d and not be in another folder",
				int64(len(docIDs))-filed, len(docIDs), req.UserID,
			)
		}

		folder.Documents, err = s.docRepo.ListByFolder(txCtx, folder.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"user_id", folder.UserID,
		"documents", len(docIDs),
	)

	return folder, nil
}

// GetFolder retrieves a folder with its documents
func (s *folderService) GetFolder(ctx context.Context, id int64) (*models.Folder, error) {
	folder, err := s.folderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	folder.Documents, err = s.docRepo.ListByFolder(ctx, folder.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list folder documents: %w", err)
	}

	return folder, nil
}

// UpdateFolder renames a folder
func (s *folderService) UpdateFolder(ctx context.Context, id int64, req *docsysSvc.UpdateFolderRequest) (*models.Folder, error) {
	req.Name = strings.TrimSpace(req.Name)

	err := validation.ValidateStruct(req,
		validation.Field(&req.Name, nameRules(config.MaxFolderNameLength)...),
	)
	if err != nil {
		return nil, validationFailed(err)
	}

	folder, err := s.folderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != folder.Name {
		if err := s.ensureNameFree(ctx, folder.UserID, req.Name, folder.ID); err != nil {
			return nil, err
		}
		folder.Name = req.Name
	}

	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder updated", "id", folder.ID, "name", folder.Name)
	return folder, nil
}

// DeleteFolder unfiles the folder's documents, then deletes the folder row.
// Both steps share one transaction so no document is left pointing at a
// missing folder.
func (s *folderService) DeleteFolder(ctx context.Context, id int64) error {
	var (
		folder   *models.Folder
		detached int64
	)

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		folder, err = s.folderRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		detached, err = s.docRepo.DetachFromFolders(txCtx, []int64{id})
		if err != nil {
			return err
		}

		return s.folderRepo.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("folder deleted",
		"id", id,
		"name", folder.Name,
		"user_id", folder.UserID,
		"detached_documents", detached,
	)

	return nil
}

// BulkDeleteFolders deletes every listed folder, unfiling their documents
// first. Unknown ids are skipped.
func (s *folderService) BulkDeleteFolders(ctx context.Context, req *docsysSvc.BulkDeleteRequest) (int64, error) {
	if err := validateBulkIDs(req.IDs); err != nil {
		return 0, err
	}

	ids := uniqueIDs(req.IDs)
	var deleted, detached int64

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		detached, err = s.docRepo.DetachFromFolders(txCtx, ids)
		if err != nil {
			return err
		}

		deleted, err = s.folderRepo.DeleteMany(txCtx, ids)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("folders deleted",
		"requested", len(ids),
		"deleted", deleted,
		"detached_documents", detached,
	)

	return deleted, nil
}

// ListDocuments lists the documents filed in a folder
func (s *folderService) ListDocuments(ctx context.Context, id int64) ([]models.Document, error) {
	if _, err := s.folderRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.docRepo.ListByFolder(ctx, id)
}

// CheckName reports whether a user already has a folder with this name
func (s *folderService) CheckName(ctx context.Context, userID int64, name string) (*docsysSvc.NameCheck, error) {
	name, err := validateNameProbe(userID, name)
	if err != nil {
		return nil, err
	}

	check := &docsysSvc.NameCheck{Name: name}
	existing, err := s.folderRepo.GetByName(ctx, userID, name)
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

func (s *folderService) ensureNameFree(ctx context.Context, userID int64, name string, selfID int64) error {
	existing, err := s.folderRepo.GetByName(ctx, userID, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check for duplicate names: %w", err)
	}
	if existing.ID == selfID {
		return nil
	}
	return domain.NewConflict("folder", name, existing.ID)
}
