package services

import (
	"context"

	"dokudoku/internal/domain/models"
)

// TagService handles tag business logic
type TagService interface {
	// CreateTag creates a tag; names are unique per owner
	// case-insensitively
	CreateTag(ctx context.Context, req *CreateTagRequest) (*models.Tag, error)

	// UpdateTag renames a tag and/or changes its color
	UpdateTag(ctx context.Context, ownerID, id string, req *UpdateTagRequest) (*models.Tag, error)

	// DeleteTag removes a tag; fails while any document still carries it
	DeleteTag(ctx context.Context, ownerID, id string) error

	// ListTags retrieves the owner's tags with usage counts
	ListTags(ctx context.Context, ownerID string) ([]models.Tag, error)
}

// CreateTagRequest represents a tag creation request
type CreateTagRequest struct {
	OwnerID string `json:"-"`
	Name    string `json:"name"`
	Color   string `json:"color,omitempty"` // defaults when empty
}

// UpdateTagRequest represents a tag update request
type UpdateTagRequest struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}
