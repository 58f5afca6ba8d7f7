package authflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/oauth2"

	"github.com/florianilch/notegate/internal/tokenstore"
)

// TokenProvider is the narrow identity-provider capability the Manager
// needs. Implemented by msauth.Client against the real platform and by
// scripted fakes in tests.
type TokenProvider interface {
	// ExchangeRefreshToken silently exchanges a refresh token for a fresh
	// access token.
	ExchangeRefreshToken(ctx context.Context, refreshToken string) (*oauth2.Token, error)

	// DeviceAuthorize initiates a device-code grant.
	DeviceAuthorize(ctx context.Context) (*oauth2.DeviceAuthResponse, error)

	// DeviceAccessToken blocks until the operator completes the device-code
	// grant or the provider reports failure.
	DeviceAccessToken(ctx context.Context, auth *oauth2.DeviceAuthResponse) (*oauth2.Token, error)
}

// PromptFunc presents the verification URL and user code to the operator.
type PromptFunc func(verificationURI, userCode string)

// Manager orchestrates the token lifecycle: silent renewal when a refresh
// token is cached, device-code sign-in otherwise, with every newly issued
// refresh token written back through the store.
type Manager struct {
	provider TokenProvider
	store    tokenstore.TokenStore
	prompt   PromptFunc

	// refreshToken is the current cached value; empty means cold start.
	refreshToken string
}

// New creates a Manager and loads any persisted refresh token. A missing
// token is a normal cold start; any other read failure is logged as a
// warning and likewise treated as "no cached token" — load problems must
// never prevent the interactive fallback.
func New(ctx context.Context, provider TokenProvider, store tokenstore.TokenStore, prompt PromptFunc) (*Manager, error) {
	if provider == nil {
		return nil, fmt.Errorf("missing token provider")
	}
	if store == nil {
		return nil, fmt.Errorf("missing token store")
	}
	if prompt == nil {
		prompt = func(string, string) {}
	}

	m := &Manager{
		provider: provider,
		store:    store,
		prompt:   prompt,
	}

	token, err := store.Read(ctx)
	switch {
	case err == nil:
		m.refreshToken = token
		slog.DebugContext(ctx, "loaded cached refresh token")
	case errors.Is(err, tokenstore.ErrTokenNotFound):
		slog.DebugContext(ctx, "no cached refresh token, first sign-in will be interactive")
	default:
		slog.WarnContext(ctx, "could not load cached refresh token", "error", err)
	}

	return m, nil
}

// AccessToken returns a fresh access token, attempting silent renewal first
// and falling back to the interactive device-code flow. The returned token
// is short-lived and must not be cached by callers beyond one operation.
func (m *Manager) AccessToken(ctx context.Context) (string, error) {
	if m.refreshToken != "" {
		token, err := m.provider.ExchangeRefreshToken(ctx, m.refreshToken)
		if err == nil {
			if err := m.persist(ctx, token.RefreshToken); err != nil {
				return "", err
			}
			slog.DebugContext(ctx, "access token renewed silently")
			return token.AccessToken, nil
		}
		// Recoverable by design: an expired or revoked refresh token just
		// escalates to the interactive flow.
		slog.WarnContext(ctx, "silent token renewal failed, falling back to device-code flow",
			"error", providerErrorDescription(err))
	}

	return m.deviceFlow(ctx)
}

// deviceFlow runs the interactive device-code grant. Both of its failure
// points are terminal.
func (m *Manager) deviceFlow(ctx context.Context) (string, error) {
	auth, err := m.provider.DeviceAuthorize(ctx)
	if err != nil {
		return "", fmt.Errorf("initiating device-code flow: %w", err)
	}
	if auth.UserCode == "" {
		// Without a user code there is nothing to present and no point
		// polling; this is a client registration or protocol problem.
		return "", fmt.Errorf("device-code flow returned no user code (provider response: %+v)", auth)
	}

	m.prompt(auth.VerificationURI, auth.UserCode)

	token, err := m.provider.DeviceAccessToken(ctx, auth)
	if err != nil {
		return "", fmt.Errorf("device-code authentication failed: %s", providerErrorDescription(err))
	}

	if err := m.persist(ctx, token.RefreshToken); err != nil {
		return "", err
	}
	return token.AccessToken, nil
}

// persist writes a newly issued refresh token through the store. Unlike load
// failures, write failures are fatal to the enclosing operation: silently
// losing the credential would force interactive sign-in on every future run.
func (m *Manager) persist(ctx context.Context, refreshToken string) error {
	if refreshToken == "" || refreshToken == m.refreshToken {
		return nil
	}

	if err := m.store.Write(ctx, refreshToken); err != nil {
		slog.ErrorContext(ctx, "failed to persist refresh token", "error", err)
		return fmt.Errorf("persisting refresh token: %w", err)
	}

	m.refreshToken = refreshToken
	slog.DebugContext(ctx, "persisted rotated refresh token")
	return nil
}

// providerErrorDescription extracts the provider's human-readable error
// description when available (oauth2 wraps token-endpoint rejections in
// *oauth2.RetrieveError), falling back to the raw error text.
func providerErrorDescription(err error) string {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		if retrieveErr.ErrorDescription != "" {
			return retrieveErr.ErrorDescription
		}
		if retrieveErr.ErrorCode != "" {
			return retrieveErr.ErrorCode
		}
	}
	return err.Error()
}
