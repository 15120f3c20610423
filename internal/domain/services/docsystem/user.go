package docsystem

import (
	"context"

	"filedesk/internal/domain/models/docsystem"
)

// UserService handles user business logic
type UserService interface {
	CreateUser(ctx context.Context, req *CreateUserRequest) (*docsystem.User, error)
	GetUser(ctx context.Context, id int64) (*docsystem.User, error)
	CountUsers(ctx context.Context) (int, error)
}

// CreateUserRequest represents a seed/admin user creation
type CreateUserRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}
