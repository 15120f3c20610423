package docsystem

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"filedesk/internal/domain"
	models "filedesk/internal/domain/models/docsystem"
	docsysRepo "filedesk/internal/domain/repositories/docsystem"
	"filedesk/internal/repository/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresUserRepository implements the UserRepository interface
type PostgresUserRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(config *postgres.RepositoryConfig) docsysRepo.UserRepository {
	return &PostgresUserRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a user
func (r *PostgresUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (email, name, created_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, r.tables.Users)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, user.Email, user.Name, user.CreatedAt).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return domain.NewConflict("user", user.Email, 0)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := fmt.Sprintf(`SELECT id, email, name, created_at FROM %s WHERE id = $1`, r.tables.Users)

	var user models.User
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(&user.ID, &user.Email, &user.Name, &user.CreatedAt)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, domain.NewNotFound("user", id)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

// Count returns the number of users
func (r *PostgresUserRepository) Count(ctx context.Context) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, r.tables.Users)

	var count int
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}

	return count, nil
}
