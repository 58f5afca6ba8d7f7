// Package tokenstore provides persistent storage abstractions for the
// long-lived refresh token.
//
// Supports three storage backends with different security and deployment tradeoffs:
//   - File: Local filesystem storage with atomic writes and secure permissions
//   - Env: Read-only environment variable access (requires external secret management)
//   - Keyring: OS-native credential storage (macOS Keychain, Windows Credential Manager, etc.)
//
// Device-code authentication requires writable storage (file or keyring) so
// that rotated refresh tokens survive process restarts, while static token
// authentication can use any backend including read-only env storage.
//
// A missing or empty token is reported as ErrTokenNotFound so callers can
// distinguish a cold start (recoverable, escalate to interactive login) from
// a real storage failure.
package tokenstore
