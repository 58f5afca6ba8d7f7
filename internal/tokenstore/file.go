package tokenstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore provides atomic file-based token storage with secure permissions.
// Writes use temp file + rename for crash safety.
type FileStore struct {
	filePath string
}

// Compile-time check to ensure FileStore implements TokenStore
var _ TokenStore = (*FileStore)(nil)

// NewFileStore creates a FileStore for the given path. Parent directories are
// created lazily on the first Write so that a cold start never touches the
// filesystem.
func NewFileStore(filePath string) (*FileStore, error) {
	if filePath == "" {
		return nil, fmt.Errorf("file path cannot be empty")
	}

	return &FileStore{
		filePath: filePath,
	}, nil
}

// Path returns the resolved storage location.
func (f *FileStore) Path() string {
	return f.filePath
}

// Read returns the stored token after trimming whitespace. A missing file or
// a file that is empty after trimming yields ErrTokenNotFound; any other
// failure is returned as-is.
//
// Permissions are deliberately not verified on read: container secret mounts
// frequently expose files as 0444 and must still be usable.
func (f *FileStore) Read(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(f.filePath)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("%w at %s", ErrTokenNotFound, f.filePath)
	}
	if err != nil {
		return "", err
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("%w: empty token file %s", ErrTokenNotFound, f.filePath)
	}
	return token, nil
}

// Write atomically saves the token using temp file + rename for crash safety.
// The parent directory is created with 0700 and the file restricted to 0600
// (owner read/write only; best-effort no-op on platforms without POSIX
// permission bits).
func (f *FileStore) Write(ctx context.Context, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(f.filePath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	// MkdirAll leaves pre-existing directories untouched; restrict them too.
	if err := os.Chmod(dir, 0700); err != nil {
		return err
	}

	// Create secure temp file in same directory for atomic rename
	tempFile, err := os.CreateTemp(dir, "*.tmp")
	if err != nil {
		return err
	}
	tempName := tempFile.Name()
	// Cleanup deferred for all exit paths
	defer func() { _ = os.Remove(tempName) }()
	defer func() { _ = tempFile.Close() }()

	if _, err := tempFile.Write([]byte(strings.TrimSpace(token) + "\n")); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := tempFile.Close(); err != nil {
		return err
	}

	// Atomic rename to final location
	if err := os.Rename(tempName, f.filePath); err != nil {
		return err
	}

	// Set secure file permissions (0600 = rw-------)
	if err := os.Chmod(f.filePath, 0600); err != nil {
		return err
	}

	return nil
}
