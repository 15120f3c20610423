package docsystem

import (
	"context"
	"fmt"
	"strings"

	"filedesk/internal/config"
	"filedesk/internal/domain"
	docsysRepo "filedesk/internal/domain/repositories/docsystem"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ResourceValidator checks that referenced owners and folders exist before
// child resources point at them
type ResourceValidator struct {
	userRepo   docsysRepo.UserRepository
	folderRepo docsysRepo.FolderRepository
}

// NewResourceValidator creates a new resource validator
func NewResourceValidator(
	userRepo docsysRepo.UserRepository,
	folderRepo docsysRepo.FolderRepository,
) *ResourceValidator {
	return &ResourceValidator{
		userRepo:   userRepo,
		folderRepo: folderRepo,
	}
}

// ValidateUser ensures a user exists
// Returns domain.ErrNotFound if it doesn't
func (v *ResourceValidator) ValidateUser(ctx context.Context, userID int64) error {
	if _, err := v.userRepo.GetByID(ctx, userID); err != nil {
		return fmt.Errorf("invalid user: %w", err)
	}
	return nil
}

// ValidateFolder ensures a folder exists and belongs to userID. A folder of
// another user is reported as missing.
func (v *ResourceValidator) ValidateFolder(ctx context.Context, folderID, userID int64) error {
	folder, err := v.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return fmt.Errorf("invalid folder: %w", err)
	}
	if folder.UserID != userID {
		return fmt.Errorf("invalid folder: %w", domain.NewNotFound("folder", folderID))
	}
	return nil
}

// validationFailed wraps an ozzo error so it matches domain.ErrValidation
func validationFailed(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrValidation, err)
}

// idRules rejects zero and negative ids
var idRules = []validation.Rule{
	validation.Required.Error("must be a positive id"),
	validation.Min(int64(1)).Error("must be a positive id"),
}

func nameRules(maxLen int) []validation.Rule {
	return []validation.Rule{
		validation.Required,
		validation.Length(1, maxLen),
	}
}

// validateBulkIDs checks a bulk request's id list
func validateBulkIDs(ids []int64) error {
	err := validation.Validate(ids,
		validation.Required.Error("ids cannot be empty"),
		validation.Length(1, config.MaxBulkIDs),
		validation.Each(idRules...),
	)
	if err != nil {
		return validationFailed(fmt.Errorf("ids: %w", err))
	}
	return nil
}

// validateNameProbe checks the inputs of a check-name request
func validateNameProbe(userID int64, name string) (string, error) {
	name = strings.TrimSpace(name)
	err := validation.Errors{
		"user_id": validation.Validate(userID, idRules...),
		"name":    validation.Validate(name, validation.Required),
	}.Filter()
	if err != nil {
		return "", validationFailed(err)
	}
	return name, nil
}

// uniqueIDs drops repeated ids, keeping first occurrence order
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
