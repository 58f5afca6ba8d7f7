package tokenstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	path := filepath.Join(dir, "refresh_token")

	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	const token = "0.AXEAmFkv-refresh-token-value"
	if err := store.Write(context.Background(), token); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := store.Read(context.Background())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != token {
		t.Errorf("Read = %q, want %q", got, token)
	}

	fileInfo, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat token file: %v", err)
	}
	if perm := fileInfo.Mode().Perm(); perm != 0600 {
		t.Errorf("token file permissions = %04o, want 0600", perm)
	}

	dirInfo, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("Stat token dir: %v", err)
	}
	if perm := dirInfo.Mode().Perm(); perm != 0700 {
		t.Errorf("token dir permissions = %04o, want 0700", perm)
	}
}

func TestFileStoreOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refresh_token")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	ctx := context.Background()
	if err := store.Write(ctx, "first"); err != nil {
		t.Fatalf("first Write: %v", err)
	}
	if err := store.Write(ctx, "second"); err != nil {
		t.Fatalf("second Write: %v", err)
	}

	got, err := store.Read(ctx)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != "second" {
		t.Errorf("Read = %q, want %q (overwrite, not append)", got, "second")
	}
}

func TestFileStoreReadAbsent(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(t *testing.T, path string)
	}{
		{
			name:    "missing file",
			prepare: func(t *testing.T, path string) {},
		},
		{
			name: "empty file",
			prepare: func(t *testing.T, path string) {
				if err := os.WriteFile(path, nil, 0600); err != nil {
					t.Fatal(err)
				}
			},
		},
		{
			name: "whitespace-only file",
			prepare: func(t *testing.T, path string) {
				if err := os.WriteFile(path, []byte(" \n\t\n"), 0600); err != nil {
					t.Fatal(err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "refresh_token")
			tt.prepare(t, path)

			store, err := NewFileStore(path)
			if err != nil {
				t.Fatalf("NewFileStore: %v", err)
			}

			_, err = store.Read(context.Background())
			if !errors.Is(err, ErrTokenNotFound) {
				t.Errorf("Read error = %v, want ErrTokenNotFound", err)
			}
		})
	}
}

func TestFileStoreTrimsOnRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refresh_token")
	if err := os.WriteFile(path, []byte("  token-with-padding\n\n"), 0600); err != nil {
		t.Fatal(err)
	}

	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	got, err := store.Read(context.Background())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != "token-with-padding" {
		t.Errorf("Read = %q, want trimmed contents", got)
	}
}

func TestFileStoreCanceledContext(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "refresh_token"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.Read(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Read error = %v, want context.Canceled", err)
	}
	if err := store.Write(ctx, "token"); !errors.Is(err, context.Canceled) {
		t.Errorf("Write error = %v, want context.Canceled", err)
	}
}

func TestNewFileStoreEmptyPath(t *testing.T) {
	if _, err := NewFileStore(""); err == nil {
		t.Error("NewFileStore(\"\") succeeded, want error")
	}
}
