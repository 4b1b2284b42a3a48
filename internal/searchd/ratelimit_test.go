package searchd

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIPRateLimiterPerClient(t *testing.T) {
	l := NewIPRateLimiter(0.001, 2)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	for i := 0; i < 2; i++ {
		if code := do("10.0.0.1:1234"); code != http.StatusOK {
			t.Fatalf("request %d within burst got %d", i, code)
		}
	}
	if code := do("10.0.0.1:5678"); code != http.StatusTooManyRequests {
		t.Errorf("expected 429 once the burst is spent, got %d", code)
	}
	if code := do("10.0.0.2:1234"); code != http.StatusOK {
		t.Errorf("other clients have their own budget, got %d", code)
	}
}

func TestIPRateLimiterReusesLimiter(t *testing.T) {
	l := NewIPRateLimiter(1, 1)
	if l.GetLimiter("a") != l.GetLimiter("a") {
		t.Error("expected the same limiter for the same client")
	}
	if l.GetLimiter("a") == l.GetLimiter("b") {
		t.Error("expected distinct limiters per client")
	}
}
