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

// ShareRepository implements repositories.ShareRepository
type ShareRepository struct {
	pool *pgxpool.Pool
}

// NewShareRepository creates a new share repository
func NewShareRepository(config *RepositoryConfig) repositories.ShareRepository {
	return &ShareRepository{pool: config.Pool}
}

// Upsert creates a share or updates the permission of an existing
// (document, user) pair
func (r *ShareRepository) Upsert(ctx context.Context, share *models.Share) error {
	if share.ID == "" {
		share.ID = uuid.New().String()
	}

	query := `
		INSERT INTO document_shares (id, document_id, user_id, permission, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (document_id, user_id)
		DO UPDATE SET permission = EXCLUDED.permission
		RETURNING id, created_at
	`

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		share.ID,
		share.DocumentID,
		share.UserID,
		share.Permission,
		share.CreatedAt,
	).Scan(&share.ID, &share.CreatedAt)

	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("document: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("upsert share: %w", err)
	}

	return nil
}

// Get retrieves the share for one (document, user) pair
func (r *ShareRepository) Get(ctx context.Context, documentID, userID string) (*models.Share, error) {
	query := `
		SELECT id, document_id, user_id, permission, created_at
		FROM document_shares
		WHERE document_id = $1 AND user_id = $2
	`

	var share models.Share
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, documentID, userID).Scan(
		&share.ID,
		&share.DocumentID,
		&share.UserID,
		&share.Permission,
		&share.CreatedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("share: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get share: %w", err)
	}

	return &share, nil
}

// Delete removes the share for one (document, user) pair
func (r *ShareRepository) Delete(ctx context.Context, documentID, userID string) error {
	query := `
		DELETE FROM document_shares
		WHERE document_id = $1 AND user_id = $2
	`

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, documentID, userID)
	if err != nil {
		return fmt.Errorf("delete share: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("share: %w", domain.ErrNotFound)
	}

	return nil
}

// ListByDocument retrieves all shares on one document
func (r *ShareRepository) ListByDocument(ctx context.Context, documentID string) ([]models.Share, error) {
	query := `
		SELECT id, document_id, user_id, permission, created_at
		FROM document_shares
		WHERE document_id = $1
		ORDER BY created_at ASC
	`

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list shares: %w", err)
	}
	defer rows.Close()

	var shares []models.Share
	for rows.Next() {
		var share models.Share
		err := rows.Scan(
			&share.ID,
			&share.DocumentID,
			&share.UserID,
			&share.Permission,
			&share.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan share: %w", err)
		}
		shares = append(shares, share)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shares: %w", err)
	}

	return shares, nil
}
