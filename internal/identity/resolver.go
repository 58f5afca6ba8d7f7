// Package identity resolves the application's registered OAuth client ID
// from explicit configuration, the process environment, or a local
// development .env file.
package identity

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// ClientIDEnv is the environment variable carrying the Microsoft client ID.
const ClientIDEnv = "MS_CLIENT_ID"

// containerSentinels mark a containerized environment when either exists.
// The first is Docker's marker, the second the generic OCI one.
var containerSentinels = [...]string{"/.dockerenv", "/run/.containerenv"}

// Resolver determines the OAuth client ID with a strict precedence order:
// explicit value, then ClientIDEnv, then (outside containers only) a .env
// file loaded into the process environment.
type Resolver struct {
	exists      func(path string) bool
	lookupEnv   func(key string) (string, bool)
	loadEnvFile func() error
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithExistsFunc replaces the filesystem probe used for container detection.
func WithExistsFunc(exists func(path string) bool) ResolverOption {
	return func(r *Resolver) {
		r.exists = exists
	}
}

// WithLookupEnv replaces the environment lookup.
func WithLookupEnv(lookupEnv func(key string) (string, bool)) ResolverOption {
	return func(r *Resolver) {
		r.lookupEnv = lookupEnv
	}
}

// WithEnvFileLoader replaces the .env loader.
func WithEnvFileLoader(load func() error) ResolverOption {
	return func(r *Resolver) {
		r.loadEnvFile = load
	}
}

// NewResolver creates a Resolver probing the real process environment.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		exists: func(path string) bool {
			_, err := os.Stat(path)
			return err == nil
		},
		lookupEnv:   os.LookupEnv,
		loadEnvFile: func() error { return godotenv.Load() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// InContainer reports whether a container sentinel path exists. It gates
// only the .env fallback; explicit and environment-variable resolution work
// everywhere.
func (r *Resolver) InContainer() bool {
	for _, sentinel := range containerSentinels {
		if r.exists(sentinel) {
			return true
		}
	}
	return false
}

// ClientID resolves the OAuth client ID. A non-empty explicit value is
// returned verbatim without consulting any other source.
func (r *Resolver) ClientID(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	if id, ok := r.lookupEnv(ClientIDEnv); ok && id != "" {
		return id, nil
	}

	if !r.InContainer() {
		// Missing .env is the normal case, not an error.
		_ = r.loadEnvFile()
		if id, ok := r.lookupEnv(ClientIDEnv); ok && id != "" {
			return id, nil
		}
	}

	return "", fmt.Errorf("%s must be set. Options:\n"+
		"1. Pass the --auth--client-id flag\n"+
		"2. Set the environment variable: export %s=...\n"+
		"3. Create a .env file for local development (only outside containers)", ClientIDEnv, ClientIDEnv)
}
