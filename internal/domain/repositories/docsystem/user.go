package docsystem

import (
	"context"

	"filedesk/internal/domain/models/docsystem"
)

// UserRepository defines data access operations for users
type UserRepository interface {
	// Create inserts a user, filling ID and CreatedAt
	Create(ctx context.Context, user *docsystem.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id int64) (*docsystem.User, error)

	// Count returns the number of users
	Count(ctx context.Context) (int, error)
}
