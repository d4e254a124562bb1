package repositories

import (
	"context"

	"dokudoku/internal/domain/models"
)

// DocumentRepository defines data access operations for documents
type DocumentRepository interface {
	// Create inserts a new document
	Create(ctx context.Context, doc *models.Document) error

	// GetByID retrieves a document within the owner's set
	GetByID(ctx context.Context, id, ownerID string) (*models.Document, error)

	// GetByIDAny retrieves a document regardless of owner. Used by the
	// access filter, which decides share-based visibility itself.
	GetByIDAny(ctx context.Context, id string) (*models.Document, error)

	// Update persists name and folder changes
	Update(ctx context.Context, doc *models.Document) error

	// Delete removes a document; tag associations and shares cascade
	Delete(ctx context.Context, id, ownerID string) error

	// ListByOwner retrieves all of the owner's documents
	ListByOwner(ctx context.Context, ownerID string) ([]models.Document, error)

	// ListByFolder retrieves the owner's documents in one folder
	// (nil folderID = unfiled documents)
	ListByFolder(ctx context.Context, folderID *string, ownerID string) ([]models.Document, error)

	// CountInFolder counts the owner's documents directly in a folder
	CountInFolder(ctx context.Context, folderID, ownerID string) (int64, error)

	// CountByFolder returns folder id -> direct document count for all of
	// the owner's filed documents
	CountByFolder(ctx context.Context, ownerID string) (map[string]int, error)

	// CountOwned counts how many of the given ids exist and belong to the
	// owner; the batch coordinator's all-or-nothing authorization check
	CountOwned(ctx context.Context, ownerID string, ids []string) (int64, error)

	// SetFolderBulk re-files all given documents of the owner at once
	SetFolderBulk(ctx context.Context, ownerID string, ids []string, folderID *string) (int64, error)

	// DeleteBulk removes all given documents of the owner at once
	DeleteBulk(ctx context.Context, ownerID string, ids []string) (int64, error)
}
