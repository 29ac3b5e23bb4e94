package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(2, time.Hour)
	if !rl.Allow("10.0.0.1") || !rl.Allow("10.0.0.1") {
		t.Fatal("first two requests rejected")
	}
	if rl.Allow("10.0.0.1") {
		t.Error("third request allowed")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("other client throttled")
	}
}

func TestRateLimit_KeysOnHost(t *testing.T) {
	h := RateLimit(NewRateLimiter(1, time.Hour))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	for i, port := range []string{"5000", "5001"} {
		req := httptest.NewRequest("GET", "/api/profile", nil)
		req.RemoteAddr = "10.0.0.9:" + port
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		want := http.StatusOK
		if i == 1 {
			want = http.StatusTooManyRequests
		}
		if rr.Code != want {
			t.Errorf("request %d code = %d, want %d", i, rr.Code, want)
		}
	}
}

func TestRateLimiter_RefillsAndSweeps(t *testing.T) {
	clock := time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, time.Second)
	rl.now = func() time.Time { return clock }

	if !rl.Allow("a") || rl.Allow("a") {
		t.Fatal("bucket of one should allow exactly one request")
	}
	clock = clock.Add(1500 * time.Millisecond)
	if !rl.Allow("a") {
		t.Error("token not refilled after one interval")
	}
	if rl.Allow("a") {
		t.Error("partial interval refilled a token")
	}

	clock = clock.Add(staleAfter + time.Second)
	rl.Allow("b")
	if _, ok := rl.buckets["a"]; ok {
		t.Error("idle bucket not swept")
	}
}

func TestRateLimit_APIGetsJSON(t *testing.T) {
	h := RateLimit(NewRateLimiter(1, 2*time.Second))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	var rr *httptest.ResponseRecorder
	for range 2 {
		req := httptest.NewRequest("POST", "/api/contact", nil)
		req.RemoteAddr = "10.0.0.7:4000"
		rr = httptest.NewRecorder()
		h.ServeHTTP(rr, req)
	}
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("code = %d, want 429", rr.Code)
	}
	if got := rr.Header().Get("Retry-After"); got != "2" {
		t.Errorf("Retry-After = %q, want 2", got)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	static := httptest.NewRequest("GET", "/static/site.css", nil)
	static.RemoteAddr = "10.0.0.7:4000"
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, static)
	if rr.Code != http.StatusOK {
		t.Errorf("static asset throttled: %d", rr.Code)
	}
}

func TestCSRF_JSONExempt(t *testing.T) {
	key := []byte(strings.Repeat("k", 32))
	h := CSRF(key, false, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest("POST", "/api/log-hours", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Errorf("json post code = %d, want 204", rr.Code)
	}

	form := httptest.NewRequest("POST", "/login", strings.NewReader("email=a"))
	form.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, form)
	if rr.Code != http.StatusForbidden {
		t.Errorf("form post without token code = %d, want 403", rr.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).
		ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	for _, h := range []string{"Content-Security-Policy", "X-Frame-Options", "X-Content-Type-Options"} {
		if rr.Header().Get(h) == "" {
			t.Errorf("missing %s", h)
		}
	}
}
