package http_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"

	posHttp "github.com/vasiliy-maslov/grocery-pos/internal/handler/http"
)

func sendFrom(h http.Handler, remoteAddr, forwardedFor string) int {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr.Code
}

func TestRateLimit(t *testing.T) {
	handler := posHttp.RateLimit(0.001, 2, nil)(posHttp.NewRouter())

	assert.Equal(t, http.StatusOK, sendFrom(handler, "10.0.0.1:5000", ""))
	assert.Equal(t, http.StatusOK, sendFrom(handler, "10.0.0.1:5001", ""))
	assert.Equal(t, http.StatusTooManyRequests, sendFrom(handler, "10.0.0.1:5002", ""))
	assert.Equal(t, http.StatusOK, sendFrom(handler, "10.0.0.2:5000", ""), "limits are per client")
}

func TestRateLimit_IgnoresForwardedHeadersFromUntrustedPeer(t *testing.T) {
	handler := posHttp.RateLimit(0.001, 1, nil)(posHttp.NewRouter())

	assert.Equal(t, http.StatusOK, sendFrom(handler, "203.0.113.9:4000", "10.0.0.1"))
	for i := 2; i <= 20; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "203.0.113.9:4000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		req.Header.Set("X-Real-IP", fmt.Sprintf("10.0.1.%d", i))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusTooManyRequests, rr.Code, "request %d", i)
	}
}

func TestRateLimit_TrustedProxy(t *testing.T) {
	trusted := []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")}
	handler := posHttp.RateLimit(0.001, 1, trusted)(posHttp.NewRouter())

	assert.Equal(t, http.StatusOK, sendFrom(handler, "10.1.2.3:80", "198.51.100.7"))
	assert.Equal(t, http.StatusTooManyRequests, sendFrom(handler, "10.1.2.3:80", "198.51.100.7"))
	assert.Equal(t, http.StatusOK, sendFrom(handler, "10.1.2.3:80", "198.51.100.8"), "each forwarded client has its own bucket")

	// A spoofed leftmost hop does not change the client the proxy saw.
	assert.Equal(t, http.StatusTooManyRequests, sendFrom(handler, "10.1.2.3:80", "192.0.2.55, 198.51.100.7"))
	// Trusted hops on the right are skipped.
	assert.Equal(t, http.StatusTooManyRequests, sendFrom(handler, "10.1.2.3:80", "198.51.100.8, 10.9.9.9"))
}

func TestRateLimit_Disabled(t *testing.T) {
	handler := posHttp.RateLimit(0, 0, nil)(posHttp.NewRouter())

	for i := 0; i < 20; i++ {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	}
}
