package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"dokudoku/internal/config"
	"dokudoku/internal/domain"
	"dokudoku/internal/domain/models"
	"dokudoku/internal/domain/repositories"
	"dokudoku/internal/domain/services"
)

type documentService struct {
	docRepo    repositories.DocumentRepository
	folderRepo repositories.FolderRepository
	tagRepo    repositories.TagRepository
	access     services.AccessFilter
	txManager  repositories.TransactionManager
	logger     *slog.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(
	docRepo repositories.DocumentRepository,
	folderRepo repositories.FolderRepository,
	tagRepo repositories.TagRepository,
	access services.AccessFilter,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.DocumentService {
	return &documentService{
		docRepo:    docRepo,
		folderRepo: folderRepo,
		tagRepo:    tagRepo,
		access:     access,
		txManager:  txManager,
		logger:     logger,
	}
}

// CreateDocument records an uploaded document's metadata
func (s *documentService) CreateDocument(ctx context.Context, req *services.CreateDocumentRequest) (*models.Document, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxDocumentNameLength)),
		validation.Field(&req.FileName, validation.Required),
		validation.Field(&req.FileKey, validation.Required),
		validation.Field(&req.SizeBytes, validation.Min(0)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if req.FolderID != nil && *req.FolderID == "" {
		req.FolderID = nil
	}
	if req.FolderID != nil {
		if _, err := s.folderRepo.GetByID(ctx, *req.FolderID, req.OwnerID); err != nil {
			return nil, fmt.Errorf("folder: %w", err)
		}
	}

	now := time.Now()
	doc := &models.Document{
		OwnerID:   req.OwnerID,
		FolderID:  req.FolderID,
		Name:      strings.TrimSpace(req.Name),
		FileName:  req.FileName,
		FileKey:   req.FileKey,
		MimeType:  req.MimeType,
		SizeBytes: req.SizeBytes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("document created",
		"id", doc.ID,
		"name", doc.Name,
		"owner_id", doc.OwnerID,
		"size_bytes", doc.SizeBytes,
	)

	return doc, nil
}

// GetDocument retrieves one document with its tags. Readable by the
// owner or by a user holding a share grant.
func (s *documentService) GetDocument(ctx context.Context, userID, id string) (*models.Document, error) {
	if err := s.access.CanAccessDocument(ctx, userID, id, models.CapabilityView); err != nil {
		return nil, err
	}

	doc, err := s.docRepo.GetByIDAny(ctx, id)
	if err != nil {
		return nil, err
	}

	tags, err := s.tagRepo.ListByDocument(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load document tags: %w", err)
	}
	doc.Tags = tags

	return doc, nil
}

// ListDocuments retrieves the owner's documents, optionally filtered to
// one folder (folderID nil with filterByFolder set = unfiled)
func (s *documentService) ListDocuments(ctx context.Context, ownerID string, folderID *string, filterByFolder bool) ([]models.Document, error) {
	if !filterByFolder {
		return s.docRepo.ListByOwner(ctx, ownerID)
	}

	if folderID != nil {
		if _, err := s.folderRepo.GetByID(ctx, *folderID, ownerID); err != nil {
			return nil, fmt.Errorf("folder: %w", err)
		}
	}

	return s.docRepo.ListByFolder(ctx, folderID, ownerID)
}

// RenameDocument updates the display name. Allowed for the owner or a
// user holding an EDIT grant.
func (s *documentService) RenameDocument(ctx context.Context, userID, id, name string) (*models.Document, error) {
	if err := validation.Validate(strings.TrimSpace(name),
		validation.Required,
		validation.Length(1, config.MaxDocumentNameLength),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if err := s.access.CanAccessDocument(ctx, userID, id, models.CapabilityEdit); err != nil {
		return nil, err
	}

	doc, err := s.docRepo.GetByIDAny(ctx, id)
	if err != nil {
		return nil, err
	}

	doc.Name = strings.TrimSpace(name)
	doc.UpdatedAt = time.Now()
	if err := s.docRepo.Update(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("document renamed", "id", doc.ID, "name", doc.Name, "user_id", userID)

	return doc, nil
}

// MoveDocument files the document into one of the owner's folders
// (nil = unfiled). Owner only: share grants never cover filing, because
// folders are private to their owner.
func (s *documentService) MoveDocument(ctx context.Context, ownerID, id string, folderID *string) (*models.Document, error) {
	if folderID != nil && *folderID == "" {
		folderID = nil
	}

	var moved *models.Document
	err := s.txManager.ExecSerializableTx(ctx, func(txCtx context.Context) error {
		doc, err := s.docRepo.GetByID(txCtx, id, ownerID)
		if err != nil {
			return err
		}

		if folderID != nil {
			if _, err := s.folderRepo.GetByID(txCtx, *folderID, ownerID); err != nil {
				return fmt.Errorf("folder: %w", err)
			}
		}

		doc.FolderID = folderID
		doc.UpdatedAt = time.Now()
		if err := s.docRepo.Update(txCtx, doc); err != nil {
			return err
		}

		moved = doc
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("document moved", "id", moved.ID, "folder_id", moved.FolderID)

	return moved, nil
}

// DeleteDocument removes the document and cascades its tag associations
// and shares. Owner only: no share grant covers deletion.
func (s *documentService) DeleteDocument(ctx context.Context, ownerID, id string) error {
	if err := s.access.CanAccessDocument(ctx, ownerID, id, models.CapabilityDelete); err != nil {
		return err
	}

	if err := s.docRepo.Delete(ctx, id, ownerID); err != nil {
		return err
	}

	s.logger.Info("document deleted", "id", id, "owner_id", ownerID)

	return nil
}

// AttachTag associates one of the owner's tags with the document.
// Already-attached tags are a no-op success.
func (s *documentService) AttachTag(ctx context.Context, ownerID, id, tagID string) error {
	doc, err := s.docRepo.GetByIDAny(ctx, id)
	if err != nil {
		return err
	}
	if doc.OwnerID != ownerID {
		return fmt.Errorf("document %s: %w", id, domain.ErrForbidden)
	}

	if _, err := s.tagRepo.GetByID(ctx, tagID, ownerID); err != nil {
		return fmt.Errorf("tag: %w", err)
	}

	if err := s.tagRepo.Attach(ctx, id, tagID); err != nil {
		return err
	}

	s.logger.Info("tag attached", "document_id", id, "tag_id", tagID)

	return nil
}

// DetachTag removes one tag association
func (s *documentService) DetachTag(ctx context.Context, ownerID, id, tagID string) error {
	doc, err := s.docRepo.GetByIDAny(ctx, id)
	if err != nil {
		return err
	}
	if doc.OwnerID != ownerID {
		return fmt.Errorf("document %s: %w", id, domain.ErrForbidden)
	}

	if err := s.tagRepo.Detach(ctx, id, tagID); err != nil {
		return err
	}

	s.logger.Info("tag detached", "document_id", id, "tag_id", tagID)

	return nil
}
