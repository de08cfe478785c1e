package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/everpayapp/everpay-frontend/internal/proxy"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func proxyRouter(backendURL string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewProxyHandler(proxy.NewForwarder(backendURL, http.DefaultClient))

	router := gin.New()
	router.GET("/api/*path", handler.Handle)
	router.POST("/api/*path", handler.Handle)
	return router
}

func TestProxy_GETJSONPassthrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/payments/bob", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	router := proxyRouter(srv.URL)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/payments/bob", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[]}`, w.Body.String())
}

func TestProxy_QueryStringPreserved(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "status=paid&page=2", r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	router := proxyRouter(srv.URL)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/payments?status=paid&page=2", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProxy_NonJSONBackendWrappedInEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("<html>Not Found</html>"))
	}))
	defer srv.Close()

	router := proxyRouter(srv.URL)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/payments/bob", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Backend did not return JSON", body["error"])
	assert.Equal(t, float64(http.StatusNotFound), body["status"])
	assert.Equal(t, "<html>Not Found</html>", body["body"])
}

func TestProxy_POSTForwardsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "bob", body["creator"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"pay_1"}`))
	}))
	defer srv.Close()

	router := proxyRouter(srv.URL)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/payments/create", bytes.NewReader([]byte(`{"creator":"bob","amount":500}`)))
	router.ServeHTTP(w, req)

	// 2xx statuses collapse to 200.
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"pay_1"}`, w.Body.String())
}

func TestProxy_MalformedPOSTBody(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	router := proxyRouter(srv.URL)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/payments/create", bytes.NewReader([]byte(`{broken`)))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Proxy failed"}`, w.Body.String())
	assert.False(t, called, "malformed body must never reach the backend")
}

func TestProxy_BackendUnreachable(t *testing.T) {
	// Closed server: connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	router := proxyRouter(srv.URL)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/payments", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Proxy failed"}`, w.Body.String())
}
