package tokenstore

import (
	"os"
	"path/filepath"
)

// Well-known storage locations. In containerized deployments the refresh
// token is mounted as a platform secret; locally it lives under the user's
// home directory.
const (
	// SecretMountDir is the conventional directory for platform-provided
	// secrets (Docker secrets, Kubernetes secret volumes).
	SecretMountDir = "/run/secrets"

	// SecretMountFile is the token filename inside SecretMountDir.
	SecretMountFile = "ms_refresh_token"

	localStateDir  = ".notegate"
	localTokenFile = "refresh_token"
)

// Locator resolves the token storage location from the execution environment.
// The zero value probes the real filesystem; both probe functions are
// injectable for tests.
type Locator struct {
	// Exists reports whether a path exists. Defaults to an os.Stat probe.
	Exists func(path string) bool

	// HomeDir returns the current user's home directory.
	// Defaults to os.UserHomeDir.
	HomeDir func() (string, error)
}

// Resolve returns the storage path for the refresh token. An explicit
// non-empty override is used verbatim. Otherwise, if the secret-mount
// directory exists the well-known file inside it is used, and if not the
// fallback is a fixed filename under the user's home directory.
//
// The probe result is environment-dependent but stable: callers resolve once
// at construction and hold on to the result.
func (l *Locator) Resolve(override string) (string, error) {
	if override != "" {
		return override, nil
	}

	exists := l.Exists
	if exists == nil {
		exists = func(path string) bool {
			_, err := os.Stat(path)
			return err == nil
		}
	}

	if exists(SecretMountDir) {
		return filepath.Join(SecretMountDir, SecretMountFile), nil
	}

	homeDir := l.HomeDir
	if homeDir == nil {
		homeDir = os.UserHomeDir
	}
	home, err := homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, localStateDir, localTokenFile), nil
}

// DefaultLocation resolves the storage path using the real environment.
func DefaultLocation() (string, error) {
	return (&Locator{}).Resolve("")
}
