package services

import (
	"context"

	"dokudoku/internal/domain/models"
	"dokudoku/internal/httputil"
)

// FolderService handles folder hierarchy business logic
type FolderService interface {
	// CreateFolder creates a new root-or-child folder
	CreateFolder(ctx context.Context, req *CreateFolderRequest) (*models.Folder, error)

	// GetFolder retrieves one folder within the owner's set
	GetFolder(ctx context.Context, ownerID, id string) (*models.Folder, error)

	// UpdateFolder renames and/or reparents a folder (PATCH semantics)
	UpdateFolder(ctx context.Context, ownerID, id string, req *UpdateFolderRequest) (*models.Folder, error)

	// RenameFolder updates the name in place; renaming to the current
	// name is a no-op success
	RenameFolder(ctx context.Context, ownerID, id, name string) (*models.Folder, error)

	// MoveFolder reparents a folder (nil = detach to root), rejecting
	// self-parenting and descendant cycles
	MoveFolder(ctx context.Context, ownerID, id string, newParentID *string) (*models.Folder, error)

	// DeleteFolder deletes a folder; fails while it still has child
	// folders or documents
	DeleteFolder(ctx context.Context, ownerID, id string) error

	// ListTree materializes the owner's folder forest with direct
	// document and child counts
	ListTree(ctx context.Context, ownerID string) (*models.FolderTree, error)
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	OwnerID  string  `json:"-"`
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id,omitempty"` // nil = root
}

// UpdateFolderRequest represents a folder update request.
// ParentID is tri-state: absent = keep, null = move to root, id = move.
type UpdateFolderRequest struct {
	Name     *string                 `json:"name,omitempty"`
	ParentID httputil.OptionalString `json:"parent_id,omitempty"`
}

// MoveFolderRequest represents an explicit folder move request
type MoveFolderRequest struct {
	ParentID *string `json:"parent_id"` // nil = detach to root
}
