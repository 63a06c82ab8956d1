package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cuemby/nurseduty/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t, Config{})

	req := httptest.NewRequest(http.MethodOptions, "/api/nurses/3", nil)
	req.Header.Set("Origin", "http://localhost:8080")
	req.Header.Set("Access-Control-Request-Method", "PUT")
	req.Header.Set("Access-Control-Request-Headers", "content-type")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:8080", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PUT")
	assert.Equal(t, "content-type", w.Header().Get("Access-Control-Allow-Headers"))
}

func TestCORSOrigins(t *testing.T) {
	srv, _ := newTestServer(t, Config{CORSOrigins: []string{"https://duty.example.org"}})

	tests := []struct {
		name      string
		origin    string
		wantAllow string
	}{
		{name: "allowed", origin: "https://duty.example.org", wantAllow: "https://duty.example.org"},
		{name: "other origin", origin: "https://evil.example.com", wantAllow: ""},
		{name: "no origin", origin: "", wantAllow: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/formula", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			srv.Handler().ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.wantAllow, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestRateLimit(t *testing.T) {
	srv, _ := newTestServer(t, Config{RequestsPerSecond: 0.001, Burst: 2})

	get := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/formula", nil)
		req.RemoteAddr = ip + ":40000"
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, get("10.0.0.1"))
	assert.Equal(t, http.StatusOK, get("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, get("10.0.0.1"))

	// limits are per client
	assert.Equal(t, http.StatusOK, get("10.0.0.2"))
}

func TestRateLimitDisabled(t *testing.T) {
	srv, _ := newTestServer(t, Config{})
	assert.Nil(t, srv.limiter)

	for i := 0; i < 50; i++ {
		assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/api/formula", "").Code)
	}
}

func TestRequestMetrics(t *testing.T) {
	srv, _ := newTestServer(t, Config{})
	counter := metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, "/api/settings", "404")
	before := testutil.ToFloat64(counter)

	do(t, srv, http.MethodGet, "/api/settings", "")

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "forwarded chain", headers: map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, remote: "10.0.0.1:1234", want: "203.0.113.7"},
		{name: "real ip", headers: map[string]string{"X-Real-IP": "198.51.100.2"}, remote: "10.0.0.1:1234", want: "198.51.100.2"},
		{name: "remote addr", remote: "192.0.2.10:5555", want: "192.0.2.10"},
		{name: "remote without port", remote: "192.0.2.11", want: "192.0.2.11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getClientIP(req))
		})
	}
}
