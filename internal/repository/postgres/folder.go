package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"dokudoku/internal/domain"
	"dokudoku/internal/domain/models"
	"dokudoku/internal/domain/repositories"
)

// RepositoryConfig holds shared dependencies for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Logger *slog.Logger
}

// FolderRepository implements repositories.FolderRepository
type FolderRepository struct {
	pool *pgxpool.Pool
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *RepositoryConfig) repositories.FolderRepository {
	return &FolderRepository{pool: config.Pool}
}

// Create inserts a new folder
func (r *FolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	if folder.ID == "" {
		folder.ID = uuid.New().String()
	}

	query := `
		INSERT INTO folders (id, owner_id, parent_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		folder.ID,
		folder.OwnerID,
		folder.ParentID,
		folder.Name,
		folder.CreatedAt,
		folder.UpdatedAt,
	).Scan(&folder.CreatedAt, &folder.UpdatedAt)

	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("parent folder: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

// GetByID retrieves a folder by ID within the owner's set. An id that
// exists under a different owner is reported as absent, never as
// forbidden.
func (r *FolderRepository) GetByID(ctx context.Context, id, ownerID string) (*models.Folder, error) {
	query := `
		SELECT id, owner_id, parent_id, name, created_at, updated_at
		FROM folders
		WHERE id = $1 AND owner_id = $2
	`

	var folder models.Folder
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id, ownerID).Scan(
		&folder.ID,
		&folder.OwnerID,
		&folder.ParentID,
		&folder.Name,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return &folder, nil
}

// Update persists name and parent changes
func (r *FolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	query := `
		UPDATE folders
		SET parent_id = $1, name = $2, updated_at = $3
		WHERE id = $4 AND owner_id = $5
	`

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		folder.ParentID,
		folder.Name,
		folder.UpdatedAt,
		folder.ID,
		folder.OwnerID,
	)

	if err != nil {
		return fmt.Errorf("update folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a folder record
func (r *FolderRepository) Delete(ctx context.Context, id, ownerID string) error {
	query := `
		DELETE FROM folders
		WHERE id = $1 AND owner_id = $2
	`

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id, ownerID)
	if err != nil {
		if isPgForeignKeyError(err) {
			return &domain.ConflictError{
				Message:      "cannot delete a folder that still has contents",
				ResourceType: "folder",
				ResourceID:   id,
			}
		}
		return fmt.Errorf("delete folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListByOwner retrieves all of the owner's folders as a flat list
func (r *FolderRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Folder, error) {
	query := `
		SELECT id, owner_id, parent_id, name, created_at, updated_at
		FROM folders
		WHERE owner_id = $1
		ORDER BY name ASC
	`

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	var folders []models.Folder
	for rows.Next() {
		var folder models.Folder
		err := rows.Scan(
			&folder.ID,
			&folder.OwnerID,
			&folder.ParentID,
			&folder.Name,
			&folder.CreatedAt,
			&folder.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}

// ParentMap returns id -> parent id for all of the owner's folders
func (r *FolderRepository) ParentMap(ctx context.Context, ownerID string) (map[string]*string, error) {
	query := `
		SELECT id, parent_id
		FROM folders
		WHERE owner_id = $1
	`

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load folder parents: %w", err)
	}
	defer rows.Close()

	parents := make(map[string]*string)
	for rows.Next() {
		var id string
		var parentID *string
		if err := rows.Scan(&id, &parentID); err != nil {
			return nil, fmt.Errorf("scan folder parent: %w", err)
		}
		parents[id] = parentID
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folder parents: %w", err)
	}

	return parents, nil
}

// CountChildren counts direct child folders
func (r *FolderRepository) CountChildren(ctx context.Context, id, ownerID string) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM folders
		WHERE parent_id = $1 AND owner_id = $2
	`

	var count int64
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id, ownerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count child folders: %w", err)
	}

	return count, nil
}
