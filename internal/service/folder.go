package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"dokudoku/internal/config"
	"dokudoku/internal/domain"
	"dokudoku/internal/domain/models"
	"dokudoku/internal/domain/repositories"
	"dokudoku/internal/domain/services"
)

var folderNamePattern = regexp.MustCompile(`^[^/]+$`)

type folderService struct {
	folderRepo repositories.FolderRepository
	docRepo    repositories.DocumentRepository
	txManager  repositories.TransactionManager
	logger     *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	folderRepo repositories.FolderRepository,
	docRepo    repositories.DocumentRepository,
	txManager  repositories.TransactionManager,
	logger     *slog.Logger,
) services.FolderService {
	return &folderService{
		folderRepo: folderRepo,
		docRepo:    docRepo,
		txManager:  txManager,
		logger:     logger,
	}
}

// CreateFolder creates a new root-or-child folder
func (s *folderService) CreateFolder(ctx context.Context, req *services.CreateFolderRequest) (*models.Folder, error) {
	if err := validateFolderName(req.Name); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	// Normalize empty string to nil for root-level folders
	if req.ParentID != nil && *req.ParentID == "" {
		req.ParentID = nil
	}

	// If a parent is specified it must resolve within the owner's set
	if req.ParentID != nil {
		if _, err := s.folderRepo.GetByID(ctx, *req.ParentID, req.OwnerID); err != nil {
			return nil, fmt.Errorf("parent folder: %w", err)
		}
	}

	now := time.Now()
	folder := &models.Folder{
		OwnerID:   req.OwnerID,
		ParentID:  req.ParentID,
		Name:      strings.TrimSpace(req.Name),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"owner_id", folder.OwnerID,
		"parent_id", folder.ParentID,
	)

	return folder, nil
}

// GetFolder retrieves one folder within the owner's set
func (s *folderService) GetFolder(ctx context.Context, ownerID, id string) (*models.Folder, error) {
	return s.folderRepo.GetByID(ctx, id, ownerID)
}

// RenameFolder updates the name in place. Renaming to the current name
// is a no-op success.
func (s *folderService) RenameFolder(ctx context.Context, ownerID, id, name string) (*models.Folder, error) {
	if err := validateFolderName(name); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	folder, err := s.folderRepo.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if folder.Name == name {
		return folder, nil
	}

	folder.Name = name
	folder.UpdatedAt = time.Now()
	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder renamed", "id", folder.ID, "name", folder.Name)

	return folder, nil
}

// MoveFolder reparents a folder. The validation walk and the write run
// inside one serializable transaction so two concurrent moves cannot both
// pass validation against a stale snapshot and commit a cycle.
func (s *folderService) MoveFolder(ctx context.Context, ownerID, id string, newParentID *string) (*models.Folder, error) {
	if newParentID != nil && *newParentID == "" {
		newParentID = nil
	}

	var moved *models.Folder
	err := s.txManager.ExecSerializableTx(ctx, func(txCtx context.Context) error {
		folder, err := s.folderRepo.GetByID(txCtx, id, ownerID)
		if err != nil {
			return err
		}

		parents, err := s.folderRepo.ParentMap(txCtx, ownerID)
		if err != nil {
			return err
		}

		if err := ValidateMove(ownerID, id, newParentID, parents); err != nil {
			return err
		}

		folder.ParentID = newParentID
		folder.UpdatedAt = time.Now()
		if err := s.folderRepo.Update(txCtx, folder); err != nil {
			return err
		}

		moved = folder
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("folder moved",
		"id", moved.ID,
		"owner_id", ownerID,
		"parent_id", moved.ParentID,
	)

	return moved, nil
}

// UpdateFolder renames and/or reparents a folder (PATCH semantics).
// ParentID is tri-state: absent keeps the location, null detaches to
// root, an id moves under that folder.
func (s *folderService) UpdateFolder(ctx context.Context, ownerID, id string, req *services.UpdateFolderRequest) (*models.Folder, error) {
	if req.Name == nil && !req.ParentID.Present {
		return nil, fmt.Errorf("%w: at least one field must be provided", domain.ErrValidation)
	}
	if req.Name != nil {
		if err := validateFolderName(*req.Name); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
	}

	// A rename without a move needs no hierarchy validation
	if !req.ParentID.Present {
		return s.RenameFolder(ctx, ownerID, id, *req.Name)
	}

	var updated *models.Folder
	err := s.txManager.ExecSerializableTx(ctx, func(txCtx context.Context) error {
		folder, err := s.folderRepo.GetByID(txCtx, id, ownerID)
		if err != nil {
			return err
		}

		if req.Name != nil {
			folder.Name = strings.TrimSpace(*req.Name)
		}

		newParentID := req.ParentID.Value
		if newParentID != nil && *newParentID == "" {
			newParentID = nil
		}

		parents, err := s.folderRepo.ParentMap(txCtx, ownerID)
		if err != nil {
			return err
		}
		if err := ValidateMove(ownerID, id, newParentID, parents); err != nil {
			return err
		}

		folder.ParentID = newParentID
		folder.UpdatedAt = time.Now()
		if err := s.folderRepo.Update(txCtx, folder); err != nil {
			return err
		}

		updated = folder
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("folder updated",
		"id", updated.ID,
		"name", updated.Name,
		"parent_id", updated.ParentID,
	)

	return updated, nil
}

// DeleteFolder deletes a folder. The emptiness check and the delete run
// in one transaction so a document filed concurrently cannot be orphaned.
func (s *folderService) DeleteFolder(ctx context.Context, ownerID, id string) error {
	err := s.txManager.ExecSerializableTx(ctx, func(txCtx context.Context) error {
		if _, err := s.folderRepo.GetByID(txCtx, id, ownerID); err != nil {
			return err
		}

		childCount, err := s.folderRepo.CountChildren(txCtx, id, ownerID)
		if err != nil {
			return fmt.Errorf("failed to check child folders: %w", err)
		}
		docCount, err := s.docRepo.CountInFolder(txCtx, id, ownerID)
		if err != nil {
			return fmt.Errorf("failed to check documents: %w", err)
		}

		if childCount > 0 || docCount > 0 {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("folder is not empty: %d subfolders, %d documents", childCount, docCount),
				ResourceType: "folder",
				ResourceID:   id,
			}
		}

		return s.folderRepo.Delete(txCtx, id, ownerID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("folder deleted", "id", id, "owner_id", ownerID)

	return nil
}

// ListTree materializes the owner's folder forest with direct document
// and child counts. A folder whose recorded parent cannot be found in the
// owner's set is surfaced as a root rather than dropped, so no folder
// ever silently disappears from the listing.
func (s *folderService) ListTree(ctx context.Context, ownerID string) (*models.FolderTree, error) {
	folders, err := s.folderRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	docCounts, err := s.docRepo.CountByFolder(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	// First pass: index every folder by id
	nodes := make(map[string]*models.FolderTreeNode, len(folders))
	for _, folder := range folders {
		nodes[folder.ID] = &models.FolderTreeNode{
			Folder:        folder,
			DocumentCount: docCounts[folder.ID],
			Children:      []*models.FolderTreeNode{},
		}
	}

	// Second pass: attach each node to its parent's children list,
	// defaulting to root when the parent reference does not resolve
	roots := make([]*models.FolderTreeNode, 0)
	for _, folder := range folders {
		node := nodes[folder.ID]
		if folder.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		if parent, ok := nodes[*folder.ParentID]; ok {
			parent.Children = append(parent.Children, node)
		} else {
			roots = append(roots, node)
		}
	}

	for _, node := range nodes {
		node.ChildCount = len(node.Children)
	}

	return &models.FolderTree{Folders: roots}, nil
}

// validateFolderName validates a folder name
func validateFolderName(name string) error {
	return validation.Validate(strings.TrimSpace(name),
		validation.Required,
		validation.Length(1, config.MaxFolderNameLength),
		validation.Match(folderNamePattern).Error("folder name cannot contain slashes"),
	)
}
