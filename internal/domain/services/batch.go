package services

import (
	"context"
)

// BatchService applies one mutation across a list of the caller's
// documents under an all-or-nothing authorization check: if any requested
// id is not owned by the caller, nothing is mutated. Share-based EDIT
// access never qualifies a document for someone else's batch.
type BatchService interface {
	// BatchMove files every document into folderID (nil = unfiled)
	BatchMove(ctx context.Context, ownerID string, req *BatchMoveRequest) (int64, error)

	// BatchDelete removes every document
	BatchDelete(ctx context.Context, ownerID string, req *BatchDeleteRequest) (int64, error)

	// BatchAddTags attaches every tag to every document
	BatchAddTags(ctx context.Context, ownerID string, req *BatchTagRequest) (int64, error)
}

// BatchMoveRequest names the documents to move and the target folder
type BatchMoveRequest struct {
	DocumentIDs []string `json:"document_ids"`
	FolderID    *string  `json:"folder_id"` // nil = unfiled
}

// BatchDeleteRequest names the documents to delete
type BatchDeleteRequest struct {
	DocumentIDs []string `json:"document_ids"`
}

// BatchTagRequest names the documents and the tags to attach
type BatchTagRequest struct {
	DocumentIDs []string `json:"document_ids"`
	TagIDs      []string `json:"tag_ids"`
}

// BatchResult reports how many documents a batch affected, for client
// confirmation messaging.
type BatchResult struct {
	Affected int64 `json:"affected"`
}
