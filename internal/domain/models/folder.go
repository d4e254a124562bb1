package models

import (
	"time"
)

// Folder is a named node in a per-owner tree used to organize documents.
// ParentID is nil for root folders and must otherwise reference another
// folder owned by the same owner.
type Folder struct {
	ID        string    `json:"id" db:"id"`
	OwnerID   string    `json:"owner_id" db:"owner_id"`
	ParentID  *string   `json:"parent_id" db:"parent_id"` // NULL = root level
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// FolderTreeNode is a folder in the materialized tree, annotated with its
// direct document and child-folder counts.
type FolderTreeNode struct {
	Folder
	DocumentCount int               `json:"document_count"`
	ChildCount    int               `json:"child_count"`
	Children      []*FolderTreeNode `json:"children"` // Pointers for proper nesting
}

// FolderTree is the forest of an owner's folders.
type FolderTree struct {
	Folders []*FolderTreeNode `json:"folders"`
}
