package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/everpayapp/everpay-frontend/internal/models"
)

// HTTPClient is the outbound transport seam, satisfied by
// *http.Client and by mocks in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is the typed client for the remote REST backend that owns
// creators, payments and login verification.
type Client struct {
	origin     string
	httpClient HTTPClient
}

// NewClient creates a backend client. The origin is trimmed of any
// trailing slash so URL construction stays predictable.
func NewClient(origin string, httpClient HTTPClient) *Client {
	return &Client{
		origin:     strings.TrimSuffix(origin, "/"),
		httpClient: httpClient,
	}
}

// Origin returns the configured backend origin.
func (c *Client) Origin() string {
	return c.origin
}

// Login verifies a credential pair against the backend login endpoint.
// Every failure path (transport error, non-2xx status, malformed
// response, missing creator or empty username) collapses to
// ErrInvalidCredentials so no partial identity ever escapes.
func (c *Client) Login(ctx context.Context, email, password string) (*models.Creator, error) {
	payload, err := json.Marshal(models.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal login request: %w", err)
	}

	url := c.origin + "/api/auth/login"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, models.ErrInvalidCredentials
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, models.ErrInvalidCredentials
	}

	var loginResp models.LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	if loginResp.Creator == nil || loginResp.Creator.Username == "" {
		return nil, models.ErrInvalidCredentials
	}

	return loginResp.Creator, nil
}
