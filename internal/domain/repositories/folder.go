package repositories

import (
	"context"

	"dokudoku/internal/domain/models"
)

// FolderRepository defines data access operations for folders.
// Every lookup is scoped to an owner: a folder id belonging to another
// owner behaves exactly like an absent one.
type FolderRepository interface {
	// Create inserts a new folder
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID retrieves a folder by ID within the owner's set
	GetByID(ctx context.Context, id, ownerID string) (*models.Folder, error)

	// Update persists name and parent changes
	Update(ctx context.Context, folder *models.Folder) error

	// Delete removes a folder record
	Delete(ctx context.Context, id, ownerID string) error

	// ListByOwner retrieves all of the owner's folders as a flat list
	ListByOwner(ctx context.Context, ownerID string) ([]models.Folder, error)

	// ParentMap returns id -> parent id for all of the owner's folders,
	// the snapshot the hierarchy validator walks
	ParentMap(ctx context.Context, ownerID string) (map[string]*string, error)

	// CountChildren counts direct child folders
	CountChildren(ctx context.Context, id, ownerID string) (int64, error)
}
