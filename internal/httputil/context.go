package httputil

import (
	"context"
	"net/http"
)

// Unexported key type keeps request-context values collision-free
type contextKey string

const userIDKey contextKey = "userID"

// WithUserID returns a request whose context carries the authenticated
// user's id. The auth middleware calls this once per request.
func WithUserID(r *http.Request, userID string) *http.Request {
	ctx := context.WithValue(r.Context(), userIDKey, userID)
	return r.WithContext(ctx)
}

// GetUserID reads the authenticated user's id from the request context.
// Empty string means the request never passed the auth middleware.
func GetUserID(r *http.Request) string {
	userID, _ := r.Context().Value(userIDKey).(string)
	return userID
}
