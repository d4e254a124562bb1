package services

import (
	"context"

	"dokudoku/internal/domain/models"
)

// AccessFilter resolves whether a caller may act on a folder or document,
// given ownership and share grants.
//
// Design principle: services call the filter before operating on a
// resource. The filter separates authorization (who may act) from
// identification (which resource).
//
// Folders are not shareable: a non-owner probing a folder id gets
// domain.ErrNotFound, the same answer as for an absent id. Documents
// distinguish the two cases: absent ids get ErrNotFound, existing but
// inaccessible ones get ErrForbidden.
type AccessFilter interface {
	// CanAccessFolder checks the capability on a folder
	CanAccessFolder(ctx context.Context, userID, folderID string, cap models.Capability) error

	// CanAccessDocument checks the capability on a document
	CanAccessDocument(ctx context.Context, userID, documentID string, cap models.Capability) error
}
