package models

import (
	"time"
)

// DefaultTagColor is applied when a tag is created without a color.
const DefaultTagColor = "#94A3B8"

// Tag is a user-created label. Tags are flat (no hierarchy), scoped to a
// single owner, and unique per owner by case-insensitive name.
type Tag struct {
	ID        string    `json:"id" db:"id"`
	OwnerID   string    `json:"owner_id" db:"owner_id"`
	Name      string    `json:"name" db:"name"`
	Color     string    `json:"color" db:"color"` // Hex color for UI
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// DocumentCount is the number of documents carrying this tag.
	// Populated on listings; a tag with a non-zero count cannot be deleted.
	DocumentCount int `json:"document_count"`
}
