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

const documentColumns = "id, user_id, folder_id, name, file_size, created_at, updated_at"

// PostgresDocumentRepository implements the DocumentRepository interface
type PostgresDocumentRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(config *postgres.RepositoryConfig) docsysRepo.DocumentRepository {
	return &PostgresDocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

func scanDocument(row pgx.Row, doc *models.Document) error {
	return row.Scan(
		&doc.ID,
		&doc.UserID,
		&doc.FolderID,
		&doc.Name,
		&doc.FileSize,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
}

func collectDocuments(rows pgx.Rows) ([]models.Document, error) {
	defer rows.Close()

	documents := []models.Document{}
	for rows.Next() {
		var doc models.Document
		if err := scanDocument(rows, &doc); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		documents = append(documents, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return documents, nil
}

// Create creates a new document
func (r *PostgresDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	now := time.Now()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = doc.CreatedAt
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, folder_id, name, file_size, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, r.tables.Documents)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		doc.UserID,
		doc.FolderID,
		doc.Name,
		doc.FileSize,
		doc.CreatedAt,
		doc.UpdatedAt,
	).Scan(&doc.ID, &doc.CreatedAt, &doc.UpdatedAt)

	if err != nil {
		return r.mapWriteError(ctx, err, doc.UserID, doc.Name)
	}

	return nil
}

// mapWriteError turns constraint violations into domain errors
func (r *PostgresDocumentRepository) mapWriteError(ctx context.Context, err error, userID int64, name string) error {
	switch {
	case postgres.IsPgDuplicateError(err):
		var existingID int64
		if existing, lookupErr := r.GetByName(ctx, userID, name); lookupErr == nil {
			existingID = existing.ID
		}
		return domain.NewConflict("document", name, existingID)
	case postgres.IsPgForeignKeyError(err):
		r.logger.Debug("document write rejected by foreign key",
			"constraint", postgres.ConstraintName(err),
			"user_id", userID,
		)
		return domain.NewValidation("document references a user or folder that does not exist")
	default:
		return fmt.Errorf("write document: %w", err)
	}
}

// GetByID retrieves a document by ID
func (r *PostgresDocumentRepository) GetByID(ctx context.Context, id int64) (*models.Document, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, documentColumns, r.tables.Documents)

	var doc models.Document
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := scanDocument(executor.QueryRow(ctx, query, id), &doc); err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, domain.NewNotFound("document", id)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return &doc, nil
}

// GetByName retrieves a user's document by exact name
func (r *PostgresDocumentRepository) GetByName(ctx context.Context, userID int64, name string) (*models.Document, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE user_id = $1 AND name = $2`, documentColumns, r.tables.Documents)

	var doc models.Document
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := scanDocument(executor.QueryRow(ctx, query, userID, name), &doc); err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("document %q: %w", name, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get document by name: %w", err)
	}

	return &doc, nil
}

// Update persists name and folder changes
func (r *PostgresDocumentRepository) Update(ctx context.Context, doc *models.Document) error {
	doc.UpdatedAt = time.Now()

	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, folder_id = $2, updated_at = $3
		WHERE id = $4
	`, r.tables.Documents)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, doc.Name, doc.FolderID, doc.UpdatedAt, doc.ID)
	if err != nil {
		return r.mapWriteError(ctx, err, doc.UserID, doc.Name)
	}

	if result.RowsAffected() == 0 {
		return domain.NewNotFound("document", doc.ID)
	}

	return nil
}

// Delete removes a document
func (r *PostgresDocumentRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Documents)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.NewNotFound("document", id)
	}

	return nil
}

// DeleteMany removes every listed document. Ids that do not exist are ignored.
func (r *PostgresDocumentRepository) DeleteMany(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ANY($1)`, r.tables.Documents)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, ids)
	if err != nil {
		return 0, fmt.Errorf("delete documents: %w", err)
	}

	return result.RowsAffected(), nil
}

// Count returns the number of documents matching filter
func (r *PostgresDocumentRepository) Count(ctx context.Context, filter models.ListFilter) (int, error) {
	query, args := countQuery(r.tables.Documents, filter)

	var count int
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}

	return count, nil
}

// ListRecent returns up to limit matching documents, newest first
func (r *PostgresDocumentRepository) ListRecent(ctx context.Context, filter models.ListFilter, limit int) ([]models.Document, error) {
	if limit <= 0 {
		return []models.Document{}, nil
	}

	query, args := recentQuery(r.tables.Documents, documentColumns, filter, limit)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	return collectDocuments(rows)
}

// ListByFolder lists the documents filed in a folder, newest first
func (r *PostgresDocumentRepository) ListByFolder(ctx context.Context, folderID int64) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE folder_id = $1
		ORDER BY created_at DESC, id DESC
	`, documentColumns, r.tables.Documents)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, folderID)
	if err != nil {
		return nil, fmt.Errorf("list folder documents: %w", err)
	}

	return collectDocuments(rows)
}

// AssignFolder points the listed documents owned by userID at folderID
func (r *PostgresDocumentRepository) AssignFolder(ctx context.Context, userID int64, ids []int64, folderID *int64, onlyUnfiled bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET folder_id = $1, updated_at = NOW()
		WHERE user_id = $2 AND id = ANY($3)
	`, r.tables.Documents)
	if onlyUnfiled {
		query += " AND folder_id IS NULL"
	}

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, folderID, userID, ids)
	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return 0, domain.NewValidation("target folder does not exist")
		}
		return 0, fmt.Errorf("assign folder: %w", err)
	}

	return result.RowsAffected(), nil
}

// DetachFromFolders clears the folder reference of every document in the
// listed folders
func (r *PostgresDocumentRepository) DetachFromFolders(ctx context.Context, folderIDs []int64) (int64, error) {
	if len(folderIDs) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET folder_id = NULL, updated_at = NOW()
		WHERE folder_id = ANY($1)
	`, r.tables.Documents)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, folderIDs)
	if err != nil {
		return 0, fmt.Errorf("detach documents: %w", err)
	}

	r.logger.Debug("detached documents from folders", "folders", len(folderIDs), "documents", result.RowsAffected())
	return result.RowsAffected(), nil
}
