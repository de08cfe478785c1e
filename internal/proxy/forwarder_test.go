package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/everpayapp/everpay-frontend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockHTTPClient struct {
	mock.Mock
}

func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	resp, _ := args.Get(0).(*http.Response)
	return resp, args.Error(1)
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		name     string
		origin   string
		path     string
		rawQuery string
		expected string
	}{
		{
			name:     "multi segment path",
			origin:   "http://backend:4000",
			path:     "a/b/c",
			expected: "http://backend:4000/api/a/b/c",
		},
		{
			name:     "leading slash path",
			origin:   "http://backend:4000",
			path:     "/payments/bob",
			expected: "http://backend:4000/api/payments/bob",
		},
		{
			name:     "trailing slash origin",
			origin:   "http://backend:4000/",
			path:     "payments/bob",
			expected: "http://backend:4000/api/payments/bob",
		},
		{
			name:     "query string preserved",
			origin:   "http://backend:4000",
			path:     "payments",
			rawQuery: "status=paid&page=2",
			expected: "http://backend:4000/api/payments?status=paid&page=2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewForwarder(tt.origin, http.DefaultClient)
			assert.Equal(t, tt.expected, f.BuildURL(tt.path, tt.rawQuery))
		})
	}
}

func TestForward_JSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/payments/bob", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	f := NewForwarder(srv.URL, srv.Client())
	result, err := f.Forward(context.Background(), http.MethodGet, "payments/bob", "", nil)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, result.Status)
	assert.Equal(t, map[string]interface{}{"data": []interface{}{}}, result.Body)
}

func TestForward_JSONErrorStatusMirrored(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"amount too small"}`))
	}))
	defer srv.Close()

	f := NewForwarder(srv.URL, srv.Client())
	result, err := f.Forward(context.Background(), http.MethodGet, "payments", "", nil)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnprocessableEntity, result.Status)
	assert.Equal(t, map[string]interface{}{"error": "amount too small"}, result.Body)
}

func TestForward_NonJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("<html>Not Found</html>"))
	}))
	defer srv.Close()

	f := NewForwarder(srv.URL, srv.Client())
	result, err := f.Forward(context.Background(), http.MethodGet, "payments/bob", "", nil)
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, result.Status)
	body, ok := result.Body.(models.ProxyErrorBody)
	require.True(t, ok)
	assert.Equal(t, "Backend did not return JSON", body.Error)
	assert.Equal(t, http.StatusNotFound, body.Status)
	assert.Equal(t, "<html>Not Found</html>", body.Body)
}

func TestForward_NonJSONSuccessStatusCollapsesTo200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("pong"))
	}))
	defer srv.Close()

	f := NewForwarder(srv.URL, srv.Client())
	result, err := f.Forward(context.Background(), http.MethodGet, "ping", "", nil)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, result.Status)
	body, ok := result.Body.(models.ProxyErrorBody)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, body.Status)
	assert.Equal(t, "pong", body.Body)
}

func TestForward_POSTBodyAndQueryForwarded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/payments/create", r.URL.Path)
		assert.Equal(t, "source=gift", r.URL.RawQuery)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "bob", body["creator"])
		assert.Equal(t, float64(500), body["amount"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	f := NewForwarder(srv.URL, srv.Client())
	result, err := f.Forward(context.Background(), http.MethodPost, "payments/create", "source=gift",
		[]byte(`{"creator":"bob","amount":500}`))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, result.Status)
	assert.Equal(t, map[string]interface{}{"ok": true}, result.Body)
}

func TestForward_MalformedPOSTBodyNeverReachesBackend(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	f := NewForwarder(srv.URL, srv.Client())
	_, err := f.Forward(context.Background(), http.MethodPost, "payments/create", "", []byte(`{not json`))
	require.Error(t, err)
	assert.False(t, called)
}

func TestForward_TransportFailure(t *testing.T) {
	mockHTTP := new(MockHTTPClient)
	mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Return(nil, errors.New("connection refused"))

	f := NewForwarder("http://backend:4000", mockHTTP)
	_, err := f.Forward(context.Background(), http.MethodGet, "payments", "", nil)
	require.Error(t, err)
	mockHTTP.AssertExpectations(t)
}
