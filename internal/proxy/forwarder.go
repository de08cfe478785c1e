package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/everpayapp/everpay-frontend/internal/backend"
	"github.com/everpayapp/everpay-frontend/internal/models"
)

// Result is the normalized outcome of a forwarded request. Body is
// either the backend's decoded JSON payload or a
// models.ProxyErrorBody wrapping a non-JSON response.
type Result struct {
	Status int
	Body   interface{}
}

// Forwarder forwards frontend-originated API calls to the backend
// origin verbatim: same method, same joined path, same query string,
// same JSON body. No retries, no circuit breaking.
type Forwarder struct {
	origin     string
	httpClient backend.HTTPClient
}

func NewForwarder(origin string, httpClient backend.HTTPClient) *Forwarder {
	return &Forwarder{
		origin:     strings.TrimSuffix(origin, "/"),
		httpClient: httpClient,
	}
}

// BuildURL constructs the backend target URL for a path tail and raw
// query string. Segments are joined verbatim; no re-encoding happens
// beyond what the inbound request already carried.
func (f *Forwarder) BuildURL(path, rawQuery string) string {
	url := f.origin + "/api/" + strings.TrimPrefix(path, "/")
	if rawQuery != "" {
		url += "?" + rawQuery
	}
	return url
}

// Forward sends the request to the backend and normalizes the
// response. For POST the inbound body must parse as JSON; a malformed
// body fails the whole request before anything reaches the backend.
// Any returned error means the caller should answer with the blanket
// proxy failure (HTTP 500).
func (f *Forwarder) Forward(ctx context.Context, method, path, rawQuery string, body []byte) (*Result, error) {
	url := f.BuildURL(path, rawQuery)

	var bodyReader io.Reader
	if method == http.MethodPost {
		var parsed interface{}
		if err := json.Unmarshal(body, &parsed); err != nil {
			return nil, fmt.Errorf("invalid request body: %w", err)
		}
		serialized, err := json.Marshal(parsed)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize request body: %w", err)
		}
		bodyReader = bytes.NewReader(serialized)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to build proxy request: %w", err)
	}
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("proxy request failed: %w", err)
	}
	defer resp.Body.Close()

	return normalize(resp)
}

// ForwardRaw posts a pre-validated payload (e.g. a verified webhook
// body) without the inbound JSON parse step.
func (f *Forwarder) ForwardRaw(ctx context.Context, path string, body []byte) (*Result, error) {
	url := f.BuildURL(path, "")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build proxy request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("proxy request failed: %w", err)
	}
	defer resp.Body.Close()

	return normalize(resp)
}

// normalize maps an upstream response onto the contract the frontend
// depends on: declared JSON comes back verbatim, anything else is
// wrapped in an error envelope so HTML error pages stay diagnosable.
// The returned status mirrors the backend, collapsing 2xx to 200.
func normalize(resp *http.Response) (*Result, error) {
	status := resp.StatusCode
	if status >= 200 && status < 300 {
		status = http.StatusOK
	}

	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		var data interface{}
		if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
			return nil, fmt.Errorf("failed to decode backend response: %w", err)
		}
		return &Result{Status: status, Body: data}, nil
	}

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read backend response: %w", err)
	}
	return &Result{
		Status: status,
		Body: models.ProxyErrorBody{
			Error:  "Backend did not return JSON",
			Status: resp.StatusCode,
			Body:   string(text),
		},
	}, nil
}
