// Package graph is a minimal Microsoft Graph adapter covering the single
// OneNote call this tool makes. It is deliberately not a Graph SDK: one
// endpoint, bearer auth, nothing else.
package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
)

// DefaultBaseURL is the Microsoft Graph v1.0 endpoint.
const DefaultBaseURL = "https://graph.microsoft.com/v1.0"

// Notebook is one OneNote notebook as returned by Graph.
type Notebook struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// notebookList is Graph's collection envelope.
type notebookList struct {
	Value []Notebook `json:"value"`
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the Graph base URL (used by tests).
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithHTTPClient sets the HTTP client used for Graph requests.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// Client issues authenticated requests against Microsoft Graph.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Graph client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Notebooks lists the signed-in user's OneNote notebooks. The access token
// is sent verbatim as a bearer credential; any non-2xx status is an error
// carrying the status and response body.
func (c *Client) Notebooks(ctx context.Context, accessToken string) ([]Notebook, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/me/onenote/notebooks", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	// Correlation ID Graph echoes back in error responses and logs.
	req.Header.Set("client-request-id", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling Graph: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("graph request failed with status %d: %s", resp.StatusCode, body)
	}

	var list notebookList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("decoding Graph response: %w", err)
	}
	return list.Value, nil
}
