package services

import (
	"context"

	"dokudoku/internal/domain/models"
)

// DocumentService handles document business logic
type DocumentService interface {
	// CreateDocument records an uploaded document's metadata
	CreateDocument(ctx context.Context, req *CreateDocumentRequest) (*models.Document, error)

	// GetDocument retrieves one document with its tags; readable by the
	// owner or by a user holding a share grant
	GetDocument(ctx context.Context, userID, id string) (*models.Document, error)

	// ListDocuments retrieves the owner's documents, optionally filtered
	// to one folder (folderID set with nil value = unfiled)
	ListDocuments(ctx context.Context, ownerID string, folderID *string, filterByFolder bool) ([]models.Document, error)

	// RenameDocument updates the display name; owner or EDIT grant
	RenameDocument(ctx context.Context, userID, id, name string) (*models.Document, error)

	// MoveDocument files the document into a folder owned by the
	// document's owner (nil = unfiled); owner only
	MoveDocument(ctx context.Context, ownerID, id string, folderID *string) (*models.Document, error)

	// DeleteDocument removes the document and cascades its tag
	// associations and shares; owner only
	DeleteDocument(ctx context.Context, ownerID, id string) error

	// AttachTag associates one of the owner's tags with the document
	AttachTag(ctx context.Context, ownerID, id, tagID string) error

	// DetachTag removes one tag association
	DetachTag(ctx context.Context, ownerID, id, tagID string) error
}

// CreateDocumentRequest represents an upload's metadata
type CreateDocumentRequest struct {
	OwnerID   string  `json:"-"`
	Name      string  `json:"name"`
	FileName  string  `json:"file_name"`
	FileKey   string  `json:"file_key"`
	MimeType  string  `json:"mime_type"`
	SizeBytes int64   `json:"size_bytes"`
	FolderID  *string `json:"folder_id,omitempty"`
}

// MoveDocumentRequest represents a document move request
type MoveDocumentRequest struct {
	FolderID *string `json:"folder_id"` // nil = unfiled
}

// RenameDocumentRequest represents a document rename request
type RenameDocumentRequest struct {
	Name string `json:"name"`
}

// AttachTagRequest names the tag to associate with a document
type AttachTagRequest struct {
	TagID string `json:"tag_id"`
}
