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

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const folderColumns = "id, user_id, name, created_at, updated_at"

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *postgres.RepositoryConfig) docsysRepo.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

func scanFolder(row pgx.Row, folder *models.Folder) error {
	return row.Scan(
		&folder.ID,
		&folder.UserID,
		&folder.Name,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)
}

// Create creates a new folder
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	if folder.CreatedAt.IsZero() {
		folder.CreatedAt = time.Now()
	}
	if folder.UpdatedAt.IsZero() {
		folder.UpdatedAt = folder.CreatedAt
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		folder.UserID,
		folder.Name,
		folder.CreatedAt,
		folder.UpdatedAt,
	).Scan(&folder.ID, &folder.CreatedAt, &folder.UpdatedAt)

	if err != nil {
		return r.mapWriteError(ctx, err, folder.UserID, folder.Name)
	}

	return nil
}

func (r *PostgresFolderRepository) mapWriteError(ctx context.Context, err error, userID int64, name string) error {
	switch {
	case postgres.IsPgDuplicateError(err):
		var existingID int64
		if existing, lookupErr := r.GetByName(ctx, userID, name); lookupErr == nil {
			existingID = existing.ID
		}
		return domain.NewConflict("folder", name, existingID)
	case postgres.IsPgForeignKeyError(err):
		return domain.NewValidation("user %d does not exist", userID)
	default:
		return fmt.Errorf("write folder: %w", err)
	}
}

// GetByID retrieves a folder by ID
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id int64) (*models.Folder, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, folderColumns, r.tables.Folders)

	var folder models.Folder
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := scanFolder(executor.QueryRow(ctx, query, id), &folder); err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, domain.NewNotFound("folder", id)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return &folder, nil
}

// GetByName retrieves a user's folder by exact name
func (r *PostgresFolderRepository) GetByName(ctx context.Context, userID int64, name string) (*models.Folder, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE user_id = $1 AND name = $2`, folderColumns, r.tables.Folders)

	var folder models.Folder
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := scanFolder(executor.QueryRow(ctx, query, userID, name), &folder); err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %q: %w", name, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder by name: %w", err)
	}

	return &folder, nil
}

// Update persists a rename
func (r *PostgresFolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	folder.UpdatedAt = time.Now()

	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, updated_at = $2
		WHERE id = $3
	`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, folder.Name, folder.UpdatedAt, folder.ID)
	if err != nil {
		return r.mapWriteError(ctx, err, folder.UserID, folder.Name)
	}

	if result.RowsAffected() == 0 {
		return domain.NewNotFound("folder", folder.ID)
	}

	return nil
}

// Delete removes a folder row. Documents still filed in it make this fail
// with a foreign key violation, so callers detach them first.
func (r *PostgresFolderRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.NewNotFound("folder", id)
	}

	return nil
}

// DeleteMany removes every listed folder row. Ids that do not exist are ignored.
func (r *PostgresFolderRepository) DeleteMany(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ANY($1)`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, ids)
	if err != nil {
		return 0, fmt.Errorf("delete folders: %w", err)
	}

	return result.RowsAffected(), nil
}

// Count returns the number of folders matching filter
func (r *PostgresFolderRepository) Count(ctx context.Context, filter models.ListFilter) (int, error) {
	query, args := countQuery(r.tables.Folders, filter)

	var count int
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count folders: %w", err)
	}

	return count, nil
}

// ListRecent returns up to limit matching folders, newest first
func (r *PostgresFolderRepository) ListRecent(ctx context.Context, filter models.ListFilter, limit int) ([]models.Folder, error) {
	if limit <= 0 {
		return []models.Folder{}, nil
	}

	query, args := recentQuery(r.tables.Folders, folderColumns, filter, limit)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	folders := []models.Folder{}
	for rows.Next() {
		var folder models.Folder
		if err := scanFolder(rows, &folder); err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, folder)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}
