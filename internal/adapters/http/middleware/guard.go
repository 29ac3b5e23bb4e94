package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"dojo/internal/adapters/identity"
	"dojo/internal/domain/access"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const requestContextKey contextKey = "request"

// SessionProvider is the identity subset the guard needs.
type SessionProvider interface {
	Session(r *http.Request) (identity.Session, bool)
	IsAdmin(ctx context.Context, s identity.Session) (bool, error)
	Refresh(s identity.Session) (identity.Session, error)
}

// RequestContext is built once per request by Guard. The admin flag is
// resolved at most once, on first use.
type RequestContext struct {
	Session    identity.Session
	HasSession bool

	once    sync.Once
	resolve func() bool
	admin   bool
}

// NewRequestContext returns a context whose admin flag comes from resolve.
// resolve may be nil, meaning "not an admin".
func NewRequestContext(s identity.Session, hasSession bool, resolve func() bool) *RequestContext {
	return &RequestContext{Session: s, HasSession: hasSession, resolve: resolve}
}

// IsAdmin resolves and memoises the admin flag.
// POST: Returns false when there is no session
func (rc *RequestContext) IsAdmin() bool {
	if rc == nil || !rc.HasSession {
		return false
	}
	rc.once.Do(func() {
		if rc.resolve != nil {
			rc.admin = rc.resolve()
		}
	})
	return rc.admin
}

// ContextWithRequestContext stores rc on ctx. Used by Guard and by tests.
func ContextWithRequestContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, requestContextKey, rc)
}

// RequestContextFrom returns the request context set by Guard.
func RequestContextFrom(ctx context.Context) (*RequestContext, bool) {
	rc, ok := ctx.Value(requestContextKey).(*RequestContext)
	return rc, ok && rc != nil
}

// SessionFrom returns the authenticated session, if any.
func SessionFrom(ctx context.Context) (identity.Session, bool) {
	rc, ok := RequestContextFrom(ctx)
	if !ok || !rc.HasSession {
		return identity.Session{}, false
	}
	return rc.Session, true
}

// IsAdmin reports whether the request belongs to an administrator.
func IsAdmin(ctx context.Context) bool {
	rc, ok := RequestContextFrom(ctx)
	return ok && rc.IsAdmin()
}

// Guard applies the access rules to every request.
// Anonymous page requests go to /login, admins are kept inside /admin and
// members outside it. API requests always pass; handlers re-authorize.
// A session close to expiry has its cookie reissued before the decision.
// INVARIANT: The role check runs at most once per request, and only for
// authenticated page requests or handlers that ask for it
func Guard(p SessionProvider, secureCookies bool, now func() time.Time) func(http.Handler) http.Handler {
	if now == nil {
		now = time.Now
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			sess, ok := p.Session(r)
			if ok && sess.NeedsRefresh(now()) {
				if fresh, err := p.Refresh(sess); err == nil {
					identity.WriteCookie(w, fresh, secureCookies)
					sess = fresh
				} else {
					slog.Warn("session_refresh_failed", "user_id", sess.UserID, "error", err)
				}
			}

			rc := NewRequestContext(sess, ok, func() bool {
				admin, err := p.IsAdmin(ctx, sess)
				if err != nil {
					slog.Warn("role_check_failed", "user_id", sess.UserID, "error", err)
					return false
				}
				return admin
			})

			d := access.Decide(r.URL.Path, ok, rc.IsAdmin)
			if d.Outcome == access.Redirect {
				slog.Debug("guard_redirect", "path", r.URL.Path, "to", d.Location, "rule", d.Rule)
				http.Redirect(w, r, d.Location, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithRequestContext(ctx, rc)))
		})
	}
}
