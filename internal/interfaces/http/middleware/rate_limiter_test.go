package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitRejectsBeyondBurst(t *testing.T) {
	limiter := NewIPRateLimiter(1, 2)
	mw := RateLimit(limiter)(okHandler())

	var last int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/resumen/push", nil)
		req.RemoteAddr = "203.0.113.7:41000"
		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, req)
		last = rec.Code
	}

	if last != http.StatusTooManyRequests {
		t.Fatalf("third request status = %d, want 429", last)
	}
}

func TestRateLimitKeyedByHostNotPort(t *testing.T) {
	limiter := NewIPRateLimiter(1, 1)
	mw := RateLimit(limiter)(okHandler())

	first := httptest.NewRequest(http.MethodPost, "/resumen/push", nil)
	first.RemoteAddr = "203.0.113.7:41000"
	firstRec := httptest.NewRecorder()
	mw.ServeHTTP(firstRec, first)

	// Same host, new ephemeral port: must hit the same limiter
	second := httptest.NewRequest(http.MethodPost, "/resumen/push", nil)
	second.RemoteAddr = "203.0.113.7:41001"
	secondRec := httptest.NewRecorder()
	mw.ServeHTTP(secondRec, second)

	if secondRec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", secondRec.Code)
	}
}

func TestRateLimitExemptPaths(t *testing.T) {
	limiter := NewIPRateLimiter(1, 1)
	mw := RateLimit(limiter)(okHandler())

	for _, path := range []string{"/ws", "/healthz", "/readyz", "/ping"} {
		for i := 0; i < 5; i++ {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			req.RemoteAddr = "203.0.113.7:41000"
			rec := httptest.NewRecorder()
			mw.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("%s request %d status = %d, want 200", path, i, rec.Code)
			}
		}
	}
}

func TestRateLimitUsesForwardedForChain(t *testing.T) {
	limiter := NewIPRateLimiter(1, 1)
	mw := RateLimit(limiter)(okHandler())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/resumen/push", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		req.Header.Set("X-Forwarded-For", "198.51.100.9, 10.0.0.1")
		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, req)

		if i == 1 && rec.Code != http.StatusTooManyRequests {
			t.Fatalf("second proxied request status = %d, want 429", rec.Code)
		}
	}
}

func TestEvictStaleDropsIdleLimiters(t *testing.T) {
	limiter := NewIPRateLimiter(1, 1)
	current := time.Now()
	limiter.now = func() time.Time { return current }

	limiter.getLimiter("203.0.113.7")
	limiter.getLimiter("203.0.113.8")

	// .8 остается активным, .7 простаивает дольше TTL
	current = current.Add(limiterIdleTTL / 2)
	limiter.getLimiter("203.0.113.8")
	current = current.Add(limiterIdleTTL/2 + time.Minute)
	limiter.evictStale()

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	if _, ok := limiter.limiters["203.0.113.7"]; ok {
		t.Fatal("idle limiter was not evicted")
	}
	if _, ok := limiter.limiters["203.0.113.8"]; !ok {
		t.Fatal("recently used limiter was evicted")
	}
}
