package service

import (
	"context"
	"fmt"
	"log/slog"

	"dokudoku/internal/config"
	"dokudoku/internal/domain"
	"dokudoku/internal/domain/repositories"
	"dokudoku/internal/domain/services"
)

type batchService struct {
	docRepo    repositories.DocumentRepository
	folderRepo repositories.FolderRepository
	tagRepo    repositories.TagRepository
	txManager  repositories.TransactionManager
	logger     *slog.Logger
}

// NewBatchService creates the batch document mutation coordinator
func NewBatchService(
	docRepo repositories.DocumentRepository,
	folderRepo repositories.FolderRepository,
	tagRepo repositories.TagRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.BatchService {
	return &batchService{
		docRepo:    docRepo,
		folderRepo: folderRepo,
		tagRepo:    tagRepo,
		txManager:  txManager,
		logger:     logger,
	}
}

// BatchMove files every document into folderID (nil = unfiled). The
// whole batch succeeds or nothing moves.
func (s *batchService) BatchMove(ctx context.Context, ownerID string, req *services.BatchMoveRequest) (int64, error) {
	ids, err := normalizeBatchIDs(req.DocumentIDs)
	if err != nil {
		return 0, err
	}

	folderID := req.FolderID
	if folderID != nil && *folderID == "" {
		folderID = nil
	}

	var affected int64
	err = s.txManager.ExecSerializableTx(ctx, func(txCtx context.Context) error {
		if err := s.authorizeAll(txCtx, ownerID, ids); err != nil {
			return err
		}

		if folderID != nil {
			parents, err := s.folderRepo.ParentMap(txCtx, ownerID)
			if err != nil {
				return err
			}
			if err := ResolveTargetFolder(folderID, parents); err != nil {
				return err
			}
		}

		affected, err = s.docRepo.SetFolderBulk(txCtx, ownerID, ids, folderID)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("batch move completed",
		"owner_id", ownerID,
		"folder_id", folderID,
		"affected", affected,
	)

	return affected, nil
}

// BatchDelete removes every document. The whole batch succeeds or
// nothing is deleted.
func (s *batchService) BatchDelete(ctx context.Context, ownerID string, req *services.BatchDeleteRequest) (int64, error) {
	ids, err := normalizeBatchIDs(req.DocumentIDs)
	if err != nil {
		return 0, err
	}

	var affected int64
	err = s.txManager.ExecSerializableTx(ctx, func(txCtx context.Context) error {
		if err := s.authorizeAll(txCtx, ownerID, ids); err != nil {
			return err
		}

		affected, err = s.docRepo.DeleteBulk(txCtx, ownerID, ids)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("batch delete completed", "owner_id", ownerID, "affected", affected)

	return affected, nil
}

// BatchAddTags attaches every tag to every document. Existing
// associations are left alone, so re-tagging is idempotent.
func (s *batchService) BatchAddTags(ctx context.Context, ownerID string, req *services.BatchTagRequest) (int64, error) {
	ids, err := normalizeBatchIDs(req.DocumentIDs)
	if err != nil {
		return 0, err
	}
	tagIDs, err := normalizeBatchIDs(req.TagIDs)
	if err != nil {
		return 0, fmt.Errorf("tag_ids: %w", err)
	}

	var affected int64
	err = s.txManager.ExecSerializableTx(ctx, func(txCtx context.Context) error {
		if err := s.authorizeAll(txCtx, ownerID, ids); err != nil {
			return err
		}

		// Tags referenced by the batch must all be the owner's. Unlike
		// the document check this reads as not-found: the caller names a
		// tag, and a tag outside the owner's set does not exist for them.
		tagCount, err := s.tagRepo.CountOwned(txCtx, ownerID, tagIDs)
		if err != nil {
			return err
		}
		if tagCount != int64(len(tagIDs)) {
			return fmt.Errorf("one or more tags: %w", domain.ErrNotFound)
		}

		if err := s.tagRepo.AttachBulk(txCtx, ids, tagIDs); err != nil {
			return err
		}

		affected = int64(len(ids))
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("batch tag completed",
		"owner_id", ownerID,
		"documents", len(ids),
		"tags", len(tagIDs),
	)

	return affected, nil
}

// authorizeAll is the all-or-nothing ownership gate: every id must name
// a document the caller owns, otherwise the batch is rejected before any
// write. Share-based EDIT access never qualifies a document here.
func (s *batchService) authorizeAll(ctx context.Context, ownerID string, ids []string) error {
	owned, err := s.docRepo.CountOwned(ctx, ownerID, ids)
	if err != nil {
		return err
	}
	if owned != int64(len(ids)) {
		return fmt.Errorf("%w: one or more documents are not accessible", domain.ErrForbidden)
	}
	return nil
}

// normalizeBatchIDs rejects empty or oversized batches and drops
// duplicate ids so the count-based ownership check stays exact.
func normalizeBatchIDs(ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: at least one id must be provided", domain.ErrValidation)
	}
	if len(ids) > config.MaxBatchSize {
		return nil, fmt.Errorf("%w: batch size exceeds the limit of %d", domain.ErrValidation, config.MaxBatchSize)
	}

	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			return nil, fmt.Errorf("%w: ids cannot be empty", domain.ErrValidation)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique, nil
}
