package tokenstore

import (
	"context"
	"errors"
)

// ErrTokenNotFound indicates that the storage backend holds no token.
// Callers treat this as "cold start", not as a storage failure.
var ErrTokenNotFound = errors.New("token not found")

// TokenStore reads and writes the refresh token to persistent storage.
//
// Device-code authentication requires writable storage.
type TokenStore interface {
	// Read returns the stored token. Returns ErrTokenNotFound if the token
	// is missing or empty, any other error for storage failures.
	Read(ctx context.Context) (string, error)

	// Write persists the token to storage, replacing any previous value.
	// Returns error if the storage backend is read-only (e.g., environment
	// variables) or if the write operation fails.
	Write(ctx context.Context, token string) error
}
