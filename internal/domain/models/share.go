package models

import (
	"time"
)

// Permission is the level of access a share grants on one document.
type Permission string

const (
	PermissionView Permission = "VIEW"
	PermissionEdit Permission = "EDIT"
)

// Valid reports whether p is one of the known permission levels.
func (p Permission) Valid() bool {
	return p == PermissionView || p == PermissionEdit
}

// Capability is a concrete action a caller wants to perform on a folder
// or document.
type Capability string

const (
	CapabilityView         Capability = "VIEW"
	CapabilityEdit         Capability = "EDIT"
	CapabilityDelete       Capability = "DELETE"
	CapabilityManageShares Capability = "MANAGE_SHARES"
)

// Allows reports whether a share with permission p covers the requested
// capability. EDIT implies VIEW; no share ever grants DELETE or
// MANAGE_SHARES - those remain owner-only.
func (p Permission) Allows(c Capability) bool {
	switch c {
	case CapabilityView:
		return p == PermissionView || p == PermissionEdit
	case CapabilityEdit:
		return p == PermissionEdit
	default:
		return false
	}
}

// Share grants a non-owner user VIEW or EDIT access to one document.
// It does not grant access to the document's folder.
type Share struct {
	ID         string     `json:"id" db:"id"`
	DocumentID string     `json:"document_id" db:"document_id"`
	UserID     string     `json:"user_id" db:"user_id"`
	Permission Permission `json:"permission" db:"permission"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}
