package msauth

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"
)

// DefaultTenant is the multi-tenant authority segment accepting both
// organizational and personal Microsoft accounts.
const DefaultTenant = "common"

// Scopes are the delegated Microsoft Graph permissions requested on every
// grant. offline_access is appended automatically, see NewClient.
var Scopes = []string{"Notes.Read"}

// offlineAccessScope makes the identity platform return a refresh token.
const offlineAccessScope = "offline_access"

// ClientOption configures a Client.
type ClientOption func(*clientConfig)

// clientConfig holds configuration for NewClient.
type clientConfig struct {
	tenant     string
	scopes     []string
	endpoint   *oauth2.Endpoint
	httpClient *http.Client
}

// WithTenant overrides the authority tenant segment (default "common").
func WithTenant(tenant string) ClientOption {
	return func(c *clientConfig) {
		if tenant != "" {
			c.tenant = tenant
		}
	}
}

// WithScopes overrides the requested permission scopes.
func WithScopes(scopes []string) ClientOption {
	return func(c *clientConfig) {
		if len(scopes) > 0 {
			c.scopes = scopes
		}
	}
}

// WithEndpoint overrides the OAuth2 endpoints. Used by tests to point the
// client at a local server.
func WithEndpoint(endpoint oauth2.Endpoint) ClientOption {
	return func(c *clientConfig) {
		c.endpoint = &endpoint
	}
}

// WithHTTPClient sets the HTTP client used for token requests.
// If not provided, http.DefaultClient is used.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *clientConfig) {
		c.httpClient = httpClient
	}
}

// Client talks to the Microsoft identity platform's OAuth2 endpoints on
// behalf of a registered public client application. Immutable after
// construction.
type Client struct {
	cfg        *oauth2.Config
	httpClient *http.Client
}

// NewClient creates a Client for the given application (client) ID.
func NewClient(clientID string, opts ...ClientOption) *Client {
	cfg := &clientConfig{
		tenant: DefaultTenant,
		scopes: Scopes,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	endpoint := microsoft.AzureADEndpoint(cfg.tenant)
	if cfg.endpoint != nil {
		endpoint = *cfg.endpoint
	}

	return &Client{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: "", // public client
			Endpoint:     endpoint,
			Scopes:       append(append([]string{}, cfg.scopes...), offlineAccessScope),
		},
		httpClient: cfg.httpClient,
	}
}

// ExchangeRefreshToken performs a silent refresh-token grant and returns the
// newly issued token. The identity platform may rotate the refresh token;
// callers must persist Token.RefreshToken when it is non-empty.
//
// Provider-side rejections (e.g. invalid_grant for an expired or revoked
// refresh token) surface as *oauth2.RetrieveError.
func (c *Client) ExchangeRefreshToken(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	seed := &oauth2.Token{RefreshToken: refreshToken}
	return c.cfg.TokenSource(c.oauthContext(ctx), seed).Token()
}

// DeviceAuthorize initiates the device-code grant and returns the response
// holding the user code and verification URI to present to the operator.
func (c *Client) DeviceAuthorize(ctx context.Context) (*oauth2.DeviceAuthResponse, error) {
	return c.cfg.DeviceAuth(c.oauthContext(ctx))
}

// DeviceAccessToken blocks polling the token endpoint until the operator
// approves or the device code expires. Cancelable via ctx.
func (c *Client) DeviceAccessToken(ctx context.Context, auth *oauth2.DeviceAuthResponse) (*oauth2.Token, error) {
	return c.cfg.DeviceAccessToken(c.oauthContext(ctx), auth)
}

// oauthContext injects the custom HTTP client via the oauth2.HTTPClient
// context key, per the oauth2 package's documented API.
func (c *Client) oauthContext(ctx context.Context) context.Context {
	if c.httpClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}
