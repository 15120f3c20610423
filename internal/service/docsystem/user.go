package docsystem

import (
	"context"
	"log/slog"
	"strings"

	"filedesk/internal/config"
	"filedesk/internal/domain"
	models "filedesk/internal/domain/models/docsystem"
	docsysRepo "filedesk/internal/domain/repositories/docsystem"
	docsysSvc "filedesk/internal/domain/services/docsystem"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type userService struct {
	userRepo docsysRepo.UserRepository
	logger   *slog.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo docsysRepo.UserRepository, logger *slog.Logger) docsysSvc.UserService {
	return &userService{userRepo: userRepo, logger: logger}
}

func (s *userService) CreateUser(ctx context.Context, req *docsysSvc.CreateUserRequest) (*models.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)

	err := validation.ValidateStruct(req,
		validation.Field(&req.Email, validation.Required, is.EmailFormat),
		validation.Field(&req.Name, nameRules(config.MaxUserNameLength)...),
	)
	if err != nil {
		return nil, validationFailed(err)
	}

	user := &models.User{Email: req.Email, Name: req.Name}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user created", "id", user.ID, "email", user.Email)
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	if id < 1 {
		return nil, domain.NewValidation("invalid user id: %d", id)
	}
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) CountUsers(ctx context.Context) (int, error) {
	return s.userRepo.Count(ctx)
}
