package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"dokudoku/internal/domain"
	"dokudoku/internal/domain/models"
	"dokudoku/internal/domain/repositories"
)

// DocumentRepository implements repositories.DocumentRepository
type DocumentRepository struct {
	pool *pgxpool.Pool
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(config *RepositoryConfig) repositories.DocumentRepository {
	return &DocumentRepository{pool: config.Pool}
}

const documentColumns = `id, owner_id, folder_id, name, file_name, file_key, mime_type, size_bytes, created_at, updated_at`

func scanDocument(row interface{ Scan(...interface{}) error }) (*models.Document, error) {
	var doc models.Document
	err := row.Scan(
		&doc.ID,
		&doc.OwnerID,
		&doc.FolderID,
		&doc.Name,
		&doc.FileName,
		&doc.FileKey,
		&doc.MimeType,
		&doc.SizeBytes,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// Create inserts a new document
func (r *DocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}

	query := `
		INSERT INTO documents (id, owner_id, folder_id, name, file_name, file_key, mime_type, size_bytes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		doc.ID,
		doc.OwnerID,
		doc.FolderID,
		doc.Name,
		doc.FileName,
		doc.FileKey,
		doc.MimeType,
		doc.SizeBytes,
		doc.CreatedAt,
		doc.UpdatedAt,
	).Scan(&doc.CreatedAt, &doc.UpdatedAt)

	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("folder: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("create document: %w", err)
	}

	return nil
}

// GetByID retrieves a document within the owner's set
func (r *DocumentRepository) GetByID(ctx context.Context, id, ownerID string) (*models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM documents
		WHERE id = $1 AND owner_id = $2
	`, documentColumns)

	doc, err := scanDocument(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return doc, nil
}

// GetByIDAny retrieves a document regardless of owner
func (r *DocumentRepository) GetByIDAny(ctx context.Context, id string) (*models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM documents
		WHERE id = $1
	`, documentColumns)

	doc, err := scanDocument(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return doc, nil
}

// Update persists name and folder changes
func (r *DocumentRepository) Update(ctx context.Context, doc *models.Document) error {
	query := `
		UPDATE documents
		SET folder_id = $1, name = $2, updated_at = $3
		WHERE id = $4 AND owner_id = $5
	`

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		doc.FolderID,
		doc.Name,
		doc.UpdatedAt,
		doc.ID,
		doc.OwnerID,
	)

	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("folder: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("update document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", doc.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a document; tag associations and shares cascade at the
// schema level
func (r *DocumentRepository) Delete(ctx context.Context, id, ownerID string) error {
	query := `
		DELETE FROM documents
		WHERE id = $1 AND owner_id = $2
	`

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListByOwner retrieves all of the owner's documents
func (r *DocumentRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM documents
		WHERE owner_id = $1
		ORDER BY name ASC
	`, documentColumns)

	return r.queryDocuments(ctx, query, ownerID)
}

// ListByFolder retrieves the owner's documents in one folder
func (r *DocumentRepository) ListByFolder(ctx context.Context, folderID *string, ownerID string) ([]models.Document, error) {
	if folderID == nil {
		query := fmt.Sprintf(`
			SELECT %s FROM documents
			WHERE owner_id = $1 AND folder_id IS NULL
			ORDER BY name ASC
		`, documentColumns)
		return r.queryDocuments(ctx, query, ownerID)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM documents
		WHERE owner_id = $1 AND folder_id = $2
		ORDER BY name ASC
	`, documentColumns)
	return r.queryDocuments(ctx, query, ownerID, *folderID)
}

func (r *DocumentRepository) queryDocuments(ctx context.Context, query string, args ...interface{}) ([]models.Document, error) {
	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	return docs, nil
}

// CountInFolder counts the owner's documents directly in a folder
func (r *DocumentRepository) CountInFolder(ctx context.Context, folderID, ownerID string) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM documents
		WHERE folder_id = $1 AND owner_id = $2
	`

	var count int64
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, folderID, ownerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count documents in folder: %w", err)
	}

	return count, nil
}

// CountByFolder returns folder id -> direct document count for the owner
func (r *DocumentRepository) CountByFolder(ctx context.Context, ownerID string) (map[string]int, error) {
	query := `
		SELECT folder_id, COUNT(*)
		FROM documents
		WHERE owner_id = $1 AND folder_id IS NOT NULL
		GROUP BY folder_id
	`

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("count documents by folder: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var folderID string
		var count int
		if err := rows.Scan(&folderID, &count); err != nil {
			return nil, fmt.Errorf("scan document count: %w", err)
		}
		counts[folderID] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate document counts: %w", err)
	}

	return counts, nil
}

// CountOwned counts how many of the given ids exist and belong to the owner
func (r *DocumentRepository) CountOwned(ctx context.Context, ownerID string, ids []string) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM documents
		WHERE owner_id = $1 AND id = ANY($2)
	`

	var count int64
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, ownerID, ids).Scan(&count); err != nil {
		return 0, fmt.Errorf("count owned documents: %w", err)
	}

	return count, nil
}

// SetFolderBulk re-files all given documents of the owner at once
func (r *DocumentRepository) SetFolderBulk(ctx context.Context, ownerID string, ids []string, folderID *string) (int64, error) {
	query := `
		UPDATE documents
		SET folder_id = $1, updated_at = NOW()
		WHERE owner_id = $2 AND id = ANY($3)
	`

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, folderID, ownerID, ids)
	if err != nil {
		if isPgForeignKeyError(err) {
			return 0, fmt.Errorf("folder: %w", domain.ErrNotFound)
		}
		return 0, fmt.Errorf("bulk move documents: %w", err)
	}

	return result.RowsAffected(), nil
}

// DeleteBulk removes all given documents of the owner at once
func (r *DocumentRepository) DeleteBulk(ctx context.Context, ownerID string, ids []string) (int64, error) {
	query := `
		DELETE FROM documents
		WHERE owner_id = $1 AND id = ANY($2)
	`

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, ownerID, ids)
	if err != nil {
		return 0, fmt.Errorf("bulk delete documents: %w", err)
	}

	return result.RowsAffected(), nil
}
