package service

import (
	"fmt"

	"dokudoku/internal/domain"
)

// ValidateMove decides whether reparenting subjectID under
// candidateParentID is legal, given a snapshot of the owner's folder
// parent pointers (id -> parent id, nil for roots).
//
// The snapshot must come from the same transaction that performs the
// write, otherwise a concurrent move can slip a cycle past the check.
//
// The ancestor walk is iterative and bounded by the snapshot size: an
// acyclic tree cannot have a parent chain longer than its node count, so
// exceeding the bound means the stored tree is already corrupted and the
// walk reports that instead of looping forever.
func ValidateMove(ownerID, subjectID string, candidateParentID *string, parents map[string]*string) error {
	// Detaching to root cannot create a cycle
	if candidateParentID == nil {
		return nil
	}

	if *candidateParentID == subjectID {
		return &domain.ConflictError{
			Message:      "cannot move a folder into itself",
			ResourceType: "folder",
			ResourceID:   subjectID,
		}
	}

	// Owner scoping is built into the snapshot: an id absent from it is
	// either nonexistent or another owner's, and both read as not found
	if _, ok := parents[*candidateParentID]; !ok {
		return fmt.Errorf("parent folder %s: %w", *candidateParentID, domain.ErrNotFound)
	}

	// Walk the ancestor chain upward from the candidate parent. Hitting
	// the subject means the candidate is inside the subject's subtree.
	current := *candidateParentID
	for hops := 0; ; hops++ {
		if hops > len(parents) {
			return &domain.CorruptTreeError{OwnerID: ownerID, FolderID: current}
		}

		parent := parents[current]
		if parent == nil {
			// Reached a root, no cycle
			return nil
		}

		if *parent == subjectID {
			return &domain.ConflictError{
				Message:      "cannot move a folder into its own descendant",
				ResourceType: "folder",
				ResourceID:   *candidateParentID,
			}
		}

		if _, ok := parents[*parent]; !ok {
			// Parent reference leaves the owner's set; the listing
			// surfaces such folders as roots, so the chain ends here
			return nil
		}

		current = *parent
	}
}

// ResolveTargetFolder confirms a document move target: nil (unfiled) is
// always legal, otherwise the folder must be in the owner's snapshot.
// Documents are leaves, so there is no cycle to check.
func ResolveTargetFolder(folderID *string, parents map[string]*string) error {
	if folderID == nil {
		return nil
	}
	if _, ok := parents[*folderID]; !ok {
		return fmt.Errorf("folder %s: %w", *folderID, domain.ErrNotFound)
	}
	return nil
}
