package services

import (
	"context"

	"dokudoku/internal/domain/models"
)

// ShareService handles document share grants
type ShareService interface {
	// GrantShare gives a non-owner user VIEW or EDIT on one document;
	// granting again for the same user updates the permission
	GrantShare(ctx context.Context, ownerID, documentID string, req *GrantShareRequest) (*models.Share, error)

	// RevokeShare removes a user's grant on one document
	RevokeShare(ctx context.Context, ownerID, documentID, userID string) error

	// ListShares retrieves all grants on one document
	ListShares(ctx context.Context, ownerID, documentID string) ([]models.Share, error)
}

// GrantShareRequest represents a share grant request
type GrantShareRequest struct {
	UserID     string            `json:"user_id"`
	Permission models.Permission `json:"permission"`
}
