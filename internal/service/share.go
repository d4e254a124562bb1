package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dokudoku/internal/domain"
	"dokudoku/internal/domain/models"
	"dokudoku/internal/domain/repositories"
	"dokudoku/internal/domain/services"
)

type shareService struct {
	shareRepo repositories.ShareRepository
	access    services.AccessFilter
	logger    *slog.Logger
}

// NewShareService creates a new share service
func NewShareService(
	shareRepo repositories.ShareRepository,
	access services.AccessFilter,
	logger *slog.Logger,
) services.ShareService {
	return &shareService{
		shareRepo: shareRepo,
		access:    access,
		logger:    logger,
	}
}

// GrantShare gives a non-owner user VIEW or EDIT on one document.
// Granting again for the same user updates the permission in place.
// Only the owner manages shares.
func (s *shareService) GrantShare(ctx context.Context, ownerID, documentID string, req *services.GrantShareRequest) (*models.Share, error) {
	if req.UserID == "" {
		return nil, fmt.Errorf("%w: user_id is required", domain.ErrValidation)
	}
	if !req.Permission.Valid() {
		return nil, fmt.Errorf("%w: permission must be VIEW or EDIT", domain.ErrValidation)
	}
	if req.UserID == ownerID {
		return nil, fmt.Errorf("%w: cannot share a document with its owner", domain.ErrValidation)
	}

	if err := s.access.CanAccessDocument(ctx, ownerID, documentID, models.CapabilityManageShares); err != nil {
		return nil, err
	}

	share := &models.Share{
		DocumentID: documentID,
		UserID:     req.UserID,
		Permission: req.Permission,
		CreatedAt:  time.Now(),
	}

	if err := s.shareRepo.Upsert(ctx, share); err != nil {
		return nil, err
	}

	s.logger.Info("share granted",
		"document_id", documentID,
		"user_id", req.UserID,
		"permission", req.Permission,
	)

	return share, nil
}

// RevokeShare removes a user's grant on one document
func (s *shareService) RevokeShare(ctx context.Context, ownerID, documentID, userID string) error {
	if err := s.access.CanAccessDocument(ctx, ownerID, documentID, models.CapabilityManageShares); err != nil {
		return err
	}

	if err := s.shareRepo.Delete(ctx, documentID, userID); err != nil {
		return err
	}

	s.logger.Info("share revoked", "document_id", documentID, "user_id", userID)

	return nil
}

// ListShares retrieves all grants on one document
func (s *shareService) ListShares(ctx context.Context, ownerID, documentID string) ([]models.Share, error) {
	if err := s.access.CanAccessDocument(ctx, ownerID, documentID, models.CapabilityManageShares); err != nil {
		return nil, err
	}

	return s.shareRepo.ListByDocument(ctx, documentID)
}
