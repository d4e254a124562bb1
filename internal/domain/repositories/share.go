package repositories

import (
	"context"

	"dokudoku/internal/domain/models"
)

// ShareRepository defines data access operations for document shares
type ShareRepository interface {
	// Upsert creates a share or updates the permission of an existing
	// (document, user) pair
	Upsert(ctx context.Context, share *models.Share) error

	// Get retrieves the share for one (document, user) pair
	Get(ctx context.Context, documentID, userID string) (*models.Share, error)

	// Delete removes the share for one (document, user) pair
	Delete(ctx context.Context, documentID, userID string) error

	// ListByDocument retrieves all shares on one document
	ListByDocument(ctx context.Context, documentID string) ([]models.Share, error)
}
