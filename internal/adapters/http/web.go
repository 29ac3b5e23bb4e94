package web

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"dojo/internal/adapters/email"
	"dojo/internal/adapters/http/middleware"
	"dojo/internal/adapters/http/perf"
	"dojo/internal/adapters/identity"
	accountStore "dojo/internal/adapters/storage/account"
	auditStore "dojo/internal/adapters/storage/audit"
	childStore "dojo/internal/adapters/storage/child"
	classLogStore "dojo/internal/adapters/storage/classlog"
	gymClassStore "dojo/internal/adapters/storage/gymclass"
	membershipStore "dojo/internal/adapters/storage/membership"
	profileStore "dojo/internal/adapters/storage/profile"
	trainingLogStore "dojo/internal/adapters/storage/traininglog"
	waiverStore "dojo/internal/adapters/storage/waiver"
	"dojo/internal/config"
)

// AssignmentStore is the assignment persistence the handlers need: plain
// rows plus rows joined with member details.
type AssignmentStore interface {
	membershipStore.AssignmentStore
	membershipStore.AssignmentViewStore
}

// Stores holds all storage dependencies.
type Stores struct {
	CredentialStore  accountStore.Store
	ProfileStore     profileStore.Store
	PlanStore        membershipStore.PlanStore
	AssignmentStore  AssignmentStore
	TrainingLogStore trainingLogStore.Store
	ClassStore       gymClassStore.Store
	ClassLogStore    classLogStore.Store
	ChildStore       childStore.Store
	WaiverStore      waiverStore.Store
	AuditStore       auditStore.Store
}

// Services holds the collaborators that are not storage.
type Services struct {
	Identity identity.Provider
	Sender   email.Sender
	Leads    email.LeadNotifier
	Perf     *perf.Collector
}

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 20

// Package state set by NewMux. Handlers read it directly, as the server
// builds exactly one mux per process.
var (
	stores        *Stores
	auth          identity.Provider
	cfg           config.Config
	emailSender   email.Sender
	leadNotifier  email.LeadNotifier
	perfCollector *perf.Collector
)

// csrfKey derives the 32-byte CSRF secret from GYM_CSRF_KEY. A 64-character
// hex value is used as-is; any other value is hashed. Outside production an
// empty key gets a random per-process secret.
func csrfKey(c config.Config) ([]byte, error) {
	if c.CSRFKey == "" {
		if c.IsProduction() {
			return nil, fmt.Errorf("GYM_CSRF_KEY: %w", config.ErrMissingSecret)
		}
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate csrf key: %w", err)
		}
		slog.Warn("csrf_key_random", "hint", "set GYM_CSRF_KEY so form tokens survive restarts")
		return key, nil
	}
	if key, err := hex.DecodeString(c.CSRFKey); err == nil && len(key) == 32 {
		return key, nil
	}
	sum := sha256.Sum256([]byte(c.CSRFKey))
	return sum[:], nil
}

// trustedOrigins lists hosts allowed to post forms besides the request host.
func trustedOrigins(c config.Config) []string {
	origins := []string{"localhost" + c.Addr, "127.0.0.1" + c.Addr}
	if u, err := url.Parse(c.BackendURL); err == nil && u.Host != "" {
		origins = append(origins, u.Host)
	}
	return origins
}

// NewMux wires HTTP handlers for the app.
// PRE: s and svc.Identity are non-nil
// POST: Returns the handler wrapped in the middleware chain
func NewMux(staticDir string, c config.Config, s *Stores, svc Services) (http.Handler, error) {
	stores = s
	cfg = c
	auth = svc.Identity
	emailSender = svc.Sender
	if emailSender == nil {
		emailSender = &email.NoopSender{}
	}
	leadNotifier = svc.Leads
	if leadNotifier == nil {
		leadNotifier = email.LogNotifier{}
	}
	perfCollector = svc.Perf

	key, err := csrfKey(c)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	if staticDir != "" {
		mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	}
	registerRoutes(mux)

	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Outermost last: Timing -> RateLimit -> Guard -> CSRF -> SecurityHeaders -> mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(key, c.IsProduction(), trustedOrigins(c)),
		middleware.Guard(auth, c.IsProduction(), func() time.Time { return timeNow() }),
		middleware.RateLimit(limiter),
		middleware.Timing(svc.Perf, c.SlowRequestMs),
	), nil
}
