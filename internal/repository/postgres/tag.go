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

// TagRepository implements repositories.TagRepository
type TagRepository struct {
	pool *pgxpool.Pool
}

// NewTagRepository creates a new tag repository
func NewTagRepository(config *RepositoryConfig) repositories.TagRepository {
	return &TagRepository{pool: config.Pool}
}

// Create inserts a new tag
func (r *TagRepository) Create(ctx context.Context, tag *models.Tag) error {
	if tag.ID == "" {
		tag.ID = uuid.New().String()
	}

	query := `
		INSERT INTO tags (id, owner_id, name, color, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		tag.ID,
		tag.OwnerID,
		tag.Name,
		tag.Color,
		tag.CreatedAt,
	).Scan(&tag.CreatedAt)

	if err != nil {
		if isPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("a tag named %q already exists", tag.Name),
				ResourceType: "tag",
				ResourceID:   tag.ID,
			}
		}
		return fmt.Errorf("create tag: %w", err)
	}

	return nil
}

// GetByID retrieves a tag within the owner's set
func (r *TagRepository) GetByID(ctx context.Context, id, ownerID string) (*models.Tag, error) {
	query := `
		SELECT id, owner_id, name, color, created_at
		FROM tags
		WHERE id = $1 AND owner_id = $2
	`

	var tag models.Tag
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id, ownerID).Scan(
		&tag.ID,
		&tag.OwnerID,
		&tag.Name,
		&tag.Color,
		&tag.CreatedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("tag %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get tag: %w", err)
	}

	return &tag, nil
}

// GetByNameFold retrieves the owner's tag matching name
// case-insensitively, or nil if none exists
func (r *TagRepository) GetByNameFold(ctx context.Context, ownerID, name string) (*models.Tag, error) {
	query := `
		SELECT id, owner_id, name, color, created_at
		FROM tags
		WHERE owner_id = $1 AND LOWER(name) = LOWER($2)
	`

	var tag models.Tag
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, ownerID, name).Scan(
		&tag.ID,
		&tag.OwnerID,
		&tag.Name,
		&tag.Color,
		&tag.CreatedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, nil // Not found, not an error
		}
		return nil, fmt.Errorf("get tag by name: %w", err)
	}

	return &tag, nil
}

// Update persists name and color changes
func (r *TagRepository) Update(ctx context.Context, tag *models.Tag) error {
	query := `
		UPDATE tags
		SET name = $1, color = $2
		WHERE id = $3 AND owner_id = $4
	`

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		tag.Name,
		tag.Color,
		tag.ID,
		tag.OwnerID,
	)

	if err != nil {
		if isPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("a tag named %q already exists", tag.Name),
				ResourceType: "tag",
				ResourceID:   tag.ID,
			}
		}
		return fmt.Errorf("update tag: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("tag %s: %w", tag.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a tag record
func (r *TagRepository) Delete(ctx context.Context, id, ownerID string) error {
	query := `
		DELETE FROM tags
		WHERE id = $1 AND owner_id = $2
	`

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id, ownerID)
	if err != nil {
		if isPgForeignKeyError(err) {
			return &domain.ConflictError{
				Message:      "cannot delete a tag that is still attached to documents",
				ResourceType: "tag",
				ResourceID:   id,
			}
		}
		return fmt.Errorf("delete tag: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("tag %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListByOwner retrieves all of the owner's tags with usage counts
func (r *TagRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Tag, error) {
	query := `
		SELECT t.id, t.owner_id, t.name, t.color, t.created_at, COUNT(dt.document_id)
		FROM tags t
		LEFT JOIN document_tags dt ON dt.tag_id = t.id
		WHERE t.owner_id = $1
		GROUP BY t.id
		ORDER BY t.name ASC
	`

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var tag models.Tag
		err := rows.Scan(
			&tag.ID,
			&tag.OwnerID,
			&tag.Name,
			&tag.Color,
			&tag.CreatedAt,
			&tag.DocumentCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, tag)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tags: %w", err)
	}

	return tags, nil
}

// ListByDocument retrieves the tags attached to one document
func (r *TagRepository) ListByDocument(ctx context.Context, documentID string) ([]models.Tag, error) {
	query := `
		SELECT t.id, t.owner_id, t.name, t.color, t.created_at
		FROM tags t
		JOIN document_tags dt ON dt.tag_id = t.id
		WHERE dt.document_id = $1
		ORDER BY t.name ASC
	`

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list document tags: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var tag models.Tag
		err := rows.Scan(
			&tag.ID,
			&tag.OwnerID,
			&tag.Name,
			&tag.Color,
			&tag.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, tag)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tags: %w", err)
	}

	return tags, nil
}

// CountUsage counts documents currently carrying the tag
func (r *TagRepository) CountUsage(ctx context.Context, id string) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM document_tags
		WHERE tag_id = $1
	`

	var count int64
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id).Scan(&count); err != nil {
		return 0, fmt.Errorf("count tag usage: %w", err)
	}

	return count, nil
}

// CountOwned counts how many of the given ids exist and belong to the owner
func (r *TagRepository) CountOwned(ctx context.Context, ownerID string, ids []string) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM tags
		WHERE owner_id = $1 AND id = ANY($2)
	`

	var count int64
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, ownerID, ids).Scan(&count); err != nil {
		return 0, fmt.Errorf("count owned tags: %w", err)
	}

	return count, nil
}

// Attach associates a tag with a document
func (r *TagRepository) Attach(ctx context.Context, documentID, tagID string) error {
	query := `
		INSERT INTO document_tags (document_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, documentID, tagID); err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("document or tag: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("attach tag: %w", err)
	}

	return nil
}

// Detach removes one association
func (r *TagRepository) Detach(ctx context.Context, documentID, tagID string) error {
	query := `
		DELETE FROM document_tags
		WHERE document_id = $1 AND tag_id = $2
	`

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, documentID, tagID); err != nil {
		return fmt.Errorf("detach tag: %w", err)
	}

	return nil
}

// AttachBulk associates every tag with every document via a cross join of
// the two id lists, skipping pairs that already exist
func (r *TagRepository) AttachBulk(ctx context.Context, documentIDs, tagIDs []string) error {
	query := `
		INSERT INTO document_tags (document_id, tag_id)
		SELECT d.id, t.id
		FROM UNNEST($1::text[]) AS d(id)
		CROSS JOIN UNNEST($2::text[]) AS t(id)
		ON CONFLICT DO NOTHING
	`

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, documentIDs, tagIDs); err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("document or tag: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("bulk attach tags: %w", err)
	}

	return nil
}
