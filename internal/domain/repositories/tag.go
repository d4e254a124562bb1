package repositories

import (
	"context"

	"dokudoku/internal/domain/models"
)

// TagRepository defines data access operations for tags and their
// many-to-many associations with documents
type TagRepository interface {
	// Create inserts a new tag
	Create(ctx context.Context, tag *models.Tag) error

	// GetByID retrieves a tag within the owner's set
	GetByID(ctx context.Context, id, ownerID string) (*models.Tag, error)

	// GetByNameFold retrieves the owner's tag matching name
	// case-insensitively, or nil if none exists
	GetByNameFold(ctx context.Context, ownerID, name string) (*models.Tag, error)

	// Update persists name and color changes
	Update(ctx context.Context, tag *models.Tag) error

	// Delete removes a tag record
	Delete(ctx context.Context, id, ownerID string) error

	// ListByOwner retrieves all of the owner's tags with usage counts
	ListByOwner(ctx context.Context, ownerID string) ([]models.Tag, error)

	// ListByDocument retrieves the tags attached to one document
	ListByDocument(ctx context.Context, documentID string) ([]models.Tag, error)

	// CountUsage counts documents currently carrying the tag
	CountUsage(ctx context.Context, id string) (int64, error)

	// CountOwned counts how many of the given ids exist and belong to
	// the owner
	CountOwned(ctx context.Context, ownerID string, ids []string) (int64, error)

	// Attach associates a tag with a document (no-op when already attached)
	Attach(ctx context.Context, documentID, tagID string) error

	// Detach removes one association
	Detach(ctx context.Context, documentID, tagID string) error

	// AttachBulk associates every tag with every document in one statement
	AttachBulk(ctx context.Context, documentIDs, tagIDs []string) error
}
