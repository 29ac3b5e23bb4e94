package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/csrf"
)

// staleAfter is how long an idle client keeps its bucket.
const staleAfter = 5 * time.Minute

// RateLimiter is a token bucket per client address. Idle buckets are swept
// on the request path, at most once per staleAfter.
type RateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	rate      int
	interval  time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type bucket struct {
	tokens int
	filled time.Time
}

// NewRateLimiter allows rate requests per interval for each client.
func NewRateLimiter(rate int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		buckets:  make(map[string]*bucket),
		rate:     rate,
		interval: interval,
		now:      time.Now,
	}
}

// Allow takes one token from the client's bucket.
// PRE: client is non-empty
// POST: Returns false when the bucket is empty; the bucket is not debited
func (rl *RateLimiter) Allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweep(now)

	b, ok := rl.buckets[client]
	if !ok {
		rl.buckets[client] = &bucket{tokens: rl.rate - 1, filled: now}
		return true
	}
	if periods := int(now.Sub(b.filled) / rl.interval); periods > 0 {
		b.tokens = min(rl.rate, b.tokens+periods*rl.rate)
		b.filled = b.filled.Add(time.Duration(periods) * rl.interval)
	}
	if b.tokens <= 0 {
		slog.Warn("rate_limit_exceeded", "client", client)
		return false
	}
	b.tokens--
	return true
}

func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < staleAfter {
		return
	}
	rl.lastSweep = now
	for client, b := range rl.buckets {
		if now.Sub(b.filled) > staleAfter {
			delete(rl.buckets, client)
		}
	}
}

// RateLimit rejects clients over their budget with 429. API paths get a JSON
// body; static assets are never limited.
func RateLimit(limiter *RateLimiter) func(http.Handler) http.Handler {
	retryAfter := strconv.Itoa(max(1, int(limiter.interval/time.Second)))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/static/") {
				next.ServeHTTP(w, r)
				return
			}
			if limiter.Allow(clientAddr(r)) {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("Retry-After", retryAfter)
			if strings.HasPrefix(r.URL.Path, "/api/") {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"Demasiadas solicitudes."}` + "\n"))
				return
			}
			http.Error(w, "Demasiadas solicitudes", http.StatusTooManyRequests)
		})
	}
}

// clientAddr is the host part of RemoteAddr.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// SecurityHeaders adds OWASP recommended headers.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline' https://fonts.googleapis.com; font-src https://fonts.gstatic.com; script-src 'self' 'unsafe-inline'; img-src 'self' data: https:; frame-src https://www.google.com; connect-src 'self'")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// CSRF protects HTML form posts. authKey must be 32 bytes.
// JSON API requests (Content-Type: application/json) are exempt: the session
// cookie is SameSite=Lax and cross-site JSON posts need a CORS preflight.
func CSRF(authKey []byte, secure bool, trustedOrigins []string) func(http.Handler) http.Handler {
	csrfProtect := csrf.Protect(
		authKey,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.FieldName("csrf_token"),
		csrf.TrustedOrigins(trustedOrigins),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			slog.Warn("csrf_rejected", "path", r.URL.Path, "reason", csrf.FailureReason(r))
			http.Error(w, "Solicitud no válida", http.StatusForbidden)
		})),
	)

	return func(next http.Handler) http.Handler {
		protected := csrfProtect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
				next.ServeHTTP(w, r)
				return
			}
			if !secure {
				r = csrf.PlaintextHTTPRequest(r)
			}
			protected.ServeHTTP(w, r)
		})
	}
}

// Chain applies middlewares in order (outer to inner).
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for _, m := range middlewares {
		h = m(h)
	}
	return h
}
