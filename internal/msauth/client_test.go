package msauth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"golang.org/x/oauth2"
)

// fakeIdentityProvider runs an httptest server mimicking the identity
// platform's token and device-authorization endpoints.
func fakeIdentityProvider(t *testing.T, tokenHandler, deviceHandler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	mux := http.NewServeMux()
	if tokenHandler != nil {
		mux.HandleFunc("/token", tokenHandler)
	}
	if deviceHandler != nil {
		mux.HandleFunc("/devicecode", deviceHandler)
	}
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := NewClient("test-client-id",
		WithEndpoint(oauth2.Endpoint{
			AuthURL:       server.URL + "/authorize",
			TokenURL:      server.URL + "/token",
			DeviceAuthURL: server.URL + "/devicecode",
		}),
		WithHTTPClient(server.Client()),
	)
	return client, server
}

func TestExchangeRefreshToken(t *testing.T) {
	var gotForm url.Values
	client, _ := fakeIdentityProvider(t,
		func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseForm(); err != nil {
				t.Fatalf("parsing token request form: %v", err)
			}
			gotForm = r.PostForm
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"access_token": "new-access-token-xyz",
				"refresh_token": "new-refresh-token-abc",
				"token_type": "Bearer",
				"expires_in": 3600
			}`))
		},
		nil,
	)

	token, err := client.ExchangeRefreshToken(context.Background(), "stored-refresh-token")
	if err != nil {
		t.Fatalf("ExchangeRefreshToken: %v", err)
	}

	if token.AccessToken != "new-access-token-xyz" {
		t.Errorf("AccessToken = %q, want %q", token.AccessToken, "new-access-token-xyz")
	}
	if token.RefreshToken != "new-refresh-token-abc" {
		t.Errorf("RefreshToken = %q, want rotated value", token.RefreshToken)
	}

	if got := gotForm.Get("grant_type"); got != "refresh_token" {
		t.Errorf("grant_type = %q, want refresh_token", got)
	}
	if got := gotForm.Get("refresh_token"); got != "stored-refresh-token" {
		t.Errorf("refresh_token = %q, want stored value", got)
	}
}

func TestExchangeRefreshTokenInvalidGrant(t *testing.T) {
	client, _ := fakeIdentityProvider(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{
				"error": "invalid_grant",
				"error_description": "AADSTS70000: The refresh token has expired."
			}`))
		},
		nil,
	)

	_, err := client.ExchangeRefreshToken(context.Background(), "expired-refresh-token")
	if err == nil {
		t.Fatal("ExchangeRefreshToken succeeded, want invalid_grant error")
	}

	var retrieveErr *oauth2.RetrieveError
	if !errors.As(err, &retrieveErr) {
		t.Fatalf("error type = %T, want *oauth2.RetrieveError", err)
	}
	if retrieveErr.ErrorCode != "invalid_grant" {
		t.Errorf("ErrorCode = %q, want invalid_grant", retrieveErr.ErrorCode)
	}
}

func TestDeviceAuthorize(t *testing.T) {
	client, _ := fakeIdentityProvider(t,
		nil,
		func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseForm(); err != nil {
				t.Fatalf("parsing device request form: %v", err)
			}
			if got := r.PostForm.Get("client_id"); got != "test-client-id" {
				t.Errorf("client_id = %q, want test-client-id", got)
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"device_code": "dev-code",
				"user_code": "ABCD-1234",
				"verification_uri": "https://microsoft.com/devicelogin",
				"expires_in": 900,
				"interval": 5
			}`))
		},
	)

	auth, err := client.DeviceAuthorize(context.Background())
	if err != nil {
		t.Fatalf("DeviceAuthorize: %v", err)
	}
	if auth.UserCode != "ABCD-1234" {
		t.Errorf("UserCode = %q, want ABCD-1234", auth.UserCode)
	}
	if auth.VerificationURI != "https://microsoft.com/devicelogin" {
		t.Errorf("VerificationURI = %q", auth.VerificationURI)
	}
}

func TestNewClientAppendsOfflineAccess(t *testing.T) {
	var gotForm url.Values
	client, _ := fakeIdentityProvider(t,
		nil,
		func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseForm(); err != nil {
				t.Fatalf("parsing device request form: %v", err)
			}
			gotForm = r.PostForm
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"device_code": "d", "user_code": "u", "verification_uri": "v", "expires_in": 900, "interval": 5}`))
		},
	)

	if _, err := client.DeviceAuthorize(context.Background()); err != nil {
		t.Fatalf("DeviceAuthorize: %v", err)
	}

	// Without offline_access the platform never issues a refresh token.
	if got := gotForm.Get("scope"); got != "Notes.Read offline_access" {
		t.Errorf("scope = %q, want %q", got, "Notes.Read offline_access")
	}
}
