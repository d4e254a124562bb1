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

var tagColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

type tagService struct {
	tagRepo   repositories.TagRepository
	txManager repositories.TransactionManager
	logger    *slog.Logger
}

// NewTagService creates a new tag service
func NewTagService(
	tagRepo repositories.TagRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.TagService {
	return &tagService{
		tagRepo:   tagRepo,
		txManager: txManager,
		logger:    logger,
	}
}

// CreateTag creates a tag. Names are unique per owner case-insensitively,
// so "Invoices" and "invoices" are the same tag.
func (s *tagService) CreateTag(ctx context.Context, req *services.CreateTagRequest) (*models.Tag, error) {
	name := strings.TrimSpace(req.Name)
	if err := validateTagFields(name, req.Color); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	existing, err := s.tagRepo.GetByNameFold(ctx, req.OwnerID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &domain.ConflictError{
			Message:      fmt.Sprintf("a tag named %q already exists", existing.Name),
			ResourceType: "tag",
			ResourceID:   existing.ID,
		}
	}

	color := req.Color
	if color == "" {
		color = models.DefaultTagColor
	}

	tag := &models.Tag{
		OwnerID:   req.OwnerID,
		Name:      name,
		Color:     color,
		CreatedAt: time.Now(),
	}

	// The repository enforces the same uniqueness at the index level, so
	// a concurrent create of the same name still surfaces as a conflict
	if err := s.tagRepo.Create(ctx, tag); err != nil {
		return nil, err
	}

	s.logger.Info("tag created", "id", tag.ID, "name", tag.Name, "owner_id", tag.OwnerID)

	return tag, nil
}

// UpdateTag renames a tag and/or changes its color
func (s *tagService) UpdateTag(ctx context.Context, ownerID, id string, req *services.UpdateTagRequest) (*models.Tag, error) {
	if req.Name == nil && req.Color == nil {
		return nil, fmt.Errorf("%w: at least one field must be provided", domain.ErrValidation)
	}

	tag, err := s.tagRepo.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if err := validateTagFields(name, ""); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}

		if !strings.EqualFold(tag.Name, name) {
			existing, err := s.tagRepo.GetByNameFold(ctx, ownerID, name)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != id {
				return nil, &domain.ConflictError{
					Message:      fmt.Sprintf("a tag named %q already exists", existing.Name),
					ResourceType: "tag",
					ResourceID:   existing.ID,
				}
			}
		}
		tag.Name = name
	}

	if req.Color != nil {
		if !tagColorPattern.MatchString(*req.Color) {
			return nil, fmt.Errorf("%w: color must be a hex value like #94A3B8", domain.ErrValidation)
		}
		tag.Color = *req.Color
	}

	if err := s.tagRepo.Update(ctx, tag); err != nil {
		return nil, err
	}

	s.logger.Info("tag updated", "id", tag.ID, "name", tag.Name, "color", tag.Color)

	return tag, nil
}

// DeleteTag removes a tag. A tag still attached to documents cannot be
// deleted; detach it everywhere first.
func (s *tagService) DeleteTag(ctx context.Context, ownerID, id string) error {
	err := s.txManager.ExecSerializableTx(ctx, func(txCtx context.Context) error {
		tag, err := s.tagRepo.GetByID(txCtx, id, ownerID)
		if err != nil {
			return err
		}

		usage, err := s.tagRepo.CountUsage(txCtx, id)
		if err != nil {
			return fmt.Errorf("failed to check tag usage: %w", err)
		}
		if usage > 0 {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("tag %q is attached to %d documents", tag.Name, usage),
				ResourceType: "tag",
				ResourceID:   id,
			}
		}

		return s.tagRepo.Delete(txCtx, id, ownerID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("tag deleted", "id", id, "owner_id", ownerID)

	return nil
}

// ListTags retrieves the owner's tags with usage counts
func (s *tagService) ListTags(ctx context.Context, ownerID string) ([]models.Tag, error) {
	return s.tagRepo.ListByOwner(ctx, ownerID)
}

// validateTagFields validates a tag name and, when non-empty, its color
func validateTagFields(name, color string) error {
	if err := validation.Validate(name,
		validation.Required,
		validation.Length(1, config.MaxTagNameLength),
	); err != nil {
		return err
	}
	if color != "" && !tagColorPattern.MatchString(color) {
		return fmt.Errorf("color must be a hex value like #94A3B8")
	}
	return nil
}
