package models

import (
	"time"
)

// Document is an uploaded file's metadata record. File bytes live in
// external storage and are reachable through FileKey; this service only
// manages the metadata, the folder placement, tags and shares.
type Document struct {
	ID        string    `json:"id" db:"id"`
	OwnerID   string    `json:"owner_id" db:"owner_id"`
	FolderID  *string   `json:"folder_id" db:"folder_id"` // NULL = unfiled
	Name      string    `json:"name" db:"name"`
	FileName  string    `json:"file_name" db:"file_name"`
	FileKey   string    `json:"file_key" db:"file_key"` // storage object key
	MimeType  string    `json:"mime_type" db:"mime_type"`
	SizeBytes int64     `json:"size_bytes" db:"size_bytes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Tags is populated on single-document reads, not on bulk listings.
	Tags []Tag `json:"tags,omitempty"`
}
