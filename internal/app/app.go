// Package app wires configuration, identity resolution, token storage and
// the token lifecycle into the runnable login flow.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/florianilch/notegate/internal/authflow"
	"github.com/florianilch/notegate/internal/graph"
	"github.com/florianilch/notegate/internal/identity"
	"github.com/florianilch/notegate/internal/msauth"
	"github.com/florianilch/notegate/internal/tokenstore"
)

// App orchestrates one login-and-verify run: obtain an access token and make
// the illustrative OneNote call with it.
type App struct {
	cfg      *Config
	resolver *identity.Resolver
	store    tokenstore.TokenStore
	tokens   *authflow.Manager // nil for static auth
	graph    *graph.Client
	out      io.Writer
}

// Option configures an App before construction wiring runs.
type Option func(*App)

// WithOutput redirects operator-facing output (default os.Stdout).
func WithOutput(out io.Writer) Option {
	return func(a *App) {
		if out != nil {
			a.out = out
		}
	}
}

// WithResolver replaces the client-ID resolver (tests inject scripted
// environments).
func WithResolver(resolver *identity.Resolver) Option {
	return func(a *App) {
		if resolver != nil {
			a.resolver = resolver
		}
	}
}

// New creates an App. Client-ID resolution failure is fatal here, before any
// network traffic: it is a configuration problem the operator must fix.
func New(ctx context.Context, cfg *Config, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	a := &App{
		cfg:      cfg,
		resolver: identity.NewResolver(),
		out:      os.Stdout,
	}
	for _, opt := range opts {
		opt(a)
	}

	store, err := cfg.Auth.NewTokenStore()
	if err != nil {
		return nil, fmt.Errorf("failed to create token store: %w", err)
	}
	a.store = store
	a.graph = graph.NewClient(graph.WithBaseURL(cfg.Graph.BaseURL))

	if cfg.Auth.Method == AuthenticationMethodDeviceCode {
		clientID, err := a.resolver.ClientID(cfg.Auth.ClientID)
		if err != nil {
			return nil, err
		}

		provider := msauth.NewClient(clientID, msauth.WithTenant(cfg.Auth.Tenant))
		manager, err := authflow.New(ctx, provider, store, a.promptDeviceLogin)
		if err != nil {
			return nil, fmt.Errorf("failed to create token manager: %w", err)
		}
		a.tokens = manager
	}

	return a, nil
}

// Run obtains an access token and lists the user's OneNote notebooks.
func (a *App) Run(ctx context.Context) error {
	token, err := a.accessToken(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "\nAccess token obtained (preview: %s)\n", tokenPreview(token))
	if fileStore, ok := a.store.(*tokenstore.FileStore); ok && a.tokens != nil {
		fmt.Fprintf(a.out, "Refresh token stored at %s\n", fileStore.Path())
	}

	slog.DebugContext(ctx, "verifying token against Microsoft Graph")
	notebooks, err := a.graph.Notebooks(ctx, token)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "\nRetrieved %d notebook(s):\n", len(notebooks))
	for _, nb := range notebooks {
		fmt.Fprintf(a.out, "  - %s (ID: %s)\n", nb.DisplayName, nb.ID)
	}
	return nil
}

// accessToken returns the access token per the configured method. Callers
// discard it after use; there is no caching across runs.
func (a *App) accessToken(ctx context.Context) (string, error) {
	if a.cfg.Auth.Method == AuthenticationMethodStatic {
		token, err := a.store.Read(ctx)
		if err != nil {
			return "", fmt.Errorf("reading static token: %w", err)
		}
		return token, nil
	}
	return a.tokens.AccessToken(ctx)
}

// promptDeviceLogin presents the device-code banner to the operator.
func (a *App) promptDeviceLogin(verificationURI, userCode string) {
	divider := strings.Repeat("=", 60)
	fmt.Fprintf(a.out, "\n%s\n", divider)
	fmt.Fprintln(a.out, "MICROSOFT AUTHENTICATION REQUIRED")
	fmt.Fprintln(a.out, divider)
	fmt.Fprintf(a.out, "1. Open on any device: %s\n", verificationURI)
	fmt.Fprintf(a.out, "2. Enter this code:    %s\n", userCode)
	fmt.Fprintf(a.out, "%s\n\n", divider)
}

// tokenPreview shortens a token for display without leaking it whole.
func tokenPreview(token string) string {
	const edge = 10
	if len(token) <= 2*edge {
		return token
	}
	return token[:edge] + "..." + token[len(token)-edge:]
}
