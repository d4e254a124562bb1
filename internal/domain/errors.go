package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface enables extensible error handling.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// ConflictError represents a tree or usage invariant violation
// (cycle, self-parent, non-empty folder delete, tag still in use)
// with details about the resource that blocks the operation.
type ConflictError struct {
	Message      string // Human-readable error message naming the invariant
	ResourceType string // Type of resource (document, folder, tag)
	ResourceID   string // ID of the blocking/conflicting resource
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return e.Message
}

// StatusCode implements the HTTPError interface
func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// CorruptTreeError indicates the stored folder hierarchy already contains a
// cycle or a dangling parent reference: the ancestor walk exceeded the bound
// that an acyclic tree can never reach. This is an internal consistency
// failure, not a client mistake, and is never returned for a healthy tree.
type CorruptTreeError struct {
	OwnerID  string
	FolderID string // folder at which the walk gave up
}

// Error implements the error interface
func (e *CorruptTreeError) Error() string {
	return "folder hierarchy is corrupted: ancestor chain from folder " + e.FolderID + " does not terminate"
}

// StatusCode implements the HTTPError interface
func (e *CorruptTreeError) StatusCode() int {
	return http.StatusInternalServerError
}
