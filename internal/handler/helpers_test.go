package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"dokudoku/internal/domain"
	"dokudoku/internal/httputil"
)

func TestHandleError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", fmt.Errorf("%w: name required", domain.ErrValidation), http.StatusBadRequest},
		{"not found", fmt.Errorf("folder x: %w", domain.ErrNotFound), http.StatusNotFound},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", fmt.Errorf("document y: %w", domain.ErrForbidden), http.StatusForbidden},
		{
			"conflict",
			&domain.ConflictError{Message: "folder is not empty", ResourceType: "folder", ResourceID: "f1"},
			http.StatusConflict,
		},
		{
			"serialization conflict",
			fmt.Errorf("%w: concurrent modification, retry the request", domain.ErrConflict),
			http.StatusConflict,
		},
		{
			"corrupt tree",
			&domain.CorruptTreeError{OwnerID: "u1", FolderID: "f1"},
			http.StatusInternalServerError,
		},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
				t.Errorf("Content-Type = %s, want application/problem+json", ct)
			}

			var problem httputil.ProblemDetail
			if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
				t.Fatalf("body is not valid problem JSON: %v", err)
			}
			if problem.Status != tt.wantStatus {
				t.Errorf("problem.Status = %d, want %d", problem.Status, tt.wantStatus)
			}
		})
	}
}

// Internal faults must not leak detail to the client
func TestHandleError_OpaqueInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	handleError(rec, errors.New("pq: connection refused to 10.0.0.5"))

	var problem httputil.ProblemDetail
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("body is not valid problem JSON: %v", err)
	}
	if problem.Detail != "internal server error" {
		t.Errorf("Detail = %q, want opaque message", problem.Detail)
	}
}
