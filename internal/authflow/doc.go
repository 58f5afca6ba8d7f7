// Package authflow decides, on every access-token request, between silent
// renewal via a cached refresh token and interactive device-code sign-in,
// and persists rotated refresh tokens.
//
// The Manager holds the single current refresh token for the installation.
// Silent renewal is always attempted first because it needs no operator
// interaction; its failure is not an error but the signal to escalate to the
// device-code flow. The device flow's own failures are terminal: there is no
// further fallback.
package authflow
