// Package msauth provides OAuth2 token acquisition against the Microsoft
// identity platform for a public client (no client secret).
//
// Two grants are exposed, mirroring what MSAL's PublicClientApplication
// offers a CLI:
//   - refresh-token exchange for silent renewal of access tokens
//   - the RFC 8628 device-code grant for interactive first-time sign-in
//
// # Tenant
//
// The default authority is the multi-tenant "common" endpoint, so any work
// or personal Microsoft account can sign in. The offline_access scope is
// always requested on top of the configured scopes: without it the identity
// platform issues no refresh token and silent renewal is impossible (MSAL
// adds it implicitly, this package does so explicitly).
//
// # Custom HTTP client
//
// Configure a custom HTTP client for token requests (e.g., for tests or
// proxies):
//
//	c := msauth.NewClient(clientID,
//		msauth.WithHTTPClient(httpClient),
//	)
package msauth
