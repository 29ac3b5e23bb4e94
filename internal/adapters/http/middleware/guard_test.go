package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dojo/internal/adapters/identity"
)

type fakeProvider struct {
	session    identity.Session
	hasSession bool
	admin      bool
	adminErr   error
	roleCalls  int
	refreshed  int
}

func (f *fakeProvider) Session(r *http.Request) (identity.Session, bool) {
	return f.session, f.hasSession
}

func (f *fakeProvider) IsAdmin(ctx context.Context, s identity.Session) (bool, error) {
	f.roleCalls++
	return f.admin, f.adminErr
}

func (f *fakeProvider) Refresh(s identity.Session) (identity.Session, error) {
	f.refreshed++
	s.ExpiresAt = s.ExpiresAt.Add(identity.DefaultSessionTTL)
	s.Token = "fresh-token"
	return s, nil
}

var guardNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func serveGuard(p *fakeProvider, path string) (*httptest.ResponseRecorder, *RequestContext) {
	var seen *RequestContext
	h := Guard(p, false, func() time.Time { return guardNow })(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = RequestContextFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", path, nil))
	return rr, seen
}

func TestGuard_Redirects(t *testing.T) {
	member := identity.Session{UserID: "u1", ExpiresAt: guardNow.Add(72 * time.Hour), Token: "t"}
	tests := []struct {
		name     string
		provider *fakeProvider
		path     string
		wantCode int
		wantLoc  string
	}{
		{"public anonymous", &fakeProvider{}, "/public/about", http.StatusOK, ""},
		{"anonymous page", &fakeProvider{}, "/profile", http.StatusSeeOther, "/login"},
		{"anonymous api", &fakeProvider{}, "/api/profile", http.StatusOK, ""},
		{"member in admin", &fakeProvider{session: member, hasSession: true}, "/admin/users", http.StatusSeeOther, "/profile"},
		{"admin outside admin", &fakeProvider{session: member, hasSession: true, admin: true}, "/profile", http.StatusSeeOther, "/admin"},
		{"admin in admin", &fakeProvider{session: member, hasSession: true, admin: true}, "/admin", http.StatusOK, ""},
		{"role check fails", &fakeProvider{session: member, hasSession: true, adminErr: errors.New("down")}, "/admin", http.StatusSeeOther, "/profile"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, _ := serveGuard(tt.provider, tt.path)
			if rr.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d", rr.Code, tt.wantCode)
			}
			if got := rr.Header().Get("Location"); got != tt.wantLoc {
				t.Errorf("Location = %q, want %q", got, tt.wantLoc)
			}
		})
	}
}

func TestGuard_APIDoesNotCheckRoleUntilAsked(t *testing.T) {
	p := &fakeProvider{
		session:    identity.Session{UserID: "u1", ExpiresAt: guardNow.Add(72 * time.Hour)},
		hasSession: true,
		admin:      true,
	}
	_, rc := serveGuard(p, "/api/profile")
	if p.roleCalls != 0 {
		t.Fatalf("roleCalls = %d before handler asked", p.roleCalls)
	}
	if !rc.IsAdmin() || !rc.IsAdmin() {
		t.Error("IsAdmin = false, want true")
	}
	if p.roleCalls != 1 {
		t.Errorf("roleCalls = %d, want 1 (memoised)", p.roleCalls)
	}
}

func TestGuard_RefreshesNearExpiry(t *testing.T) {
	p := &fakeProvider{
		session:    identity.Session{UserID: "u1", ExpiresAt: guardNow.Add(time.Hour)},
		hasSession: true,
	}
	rr, rc := serveGuard(p, "/api/profile")
	if p.refreshed != 1 {
		t.Fatalf("refreshed = %d, want 1", p.refreshed)
	}
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != identity.CookieName || cookies[0].Value != "fresh-token" {
		t.Errorf("cookies = %+v", cookies)
	}
	if rc.Session.Token != "fresh-token" {
		t.Errorf("context session not refreshed: %+v", rc.Session)
	}
}

func TestGuard_NoRefreshWhenFarFromExpiry(t *testing.T) {
	p := &fakeProvider{
		session:    identity.Session{UserID: "u1", ExpiresAt: guardNow.Add(72 * time.Hour)},
		hasSession: true,
	}
	rr, _ := serveGuard(p, "/api/profile")
	if p.refreshed != 0 || len(rr.Result().Cookies()) != 0 {
		t.Errorf("unexpected refresh: refreshed=%d cookies=%v", p.refreshed, rr.Result().Cookies())
	}
}

func TestRequestContext_NoSessionIsNeverAdmin(t *testing.T) {
	called := false
	rc := NewRequestContext(identity.Session{}, false, func() bool { called = true; return true })
	if rc.IsAdmin() || called {
		t.Error("anonymous context resolved admin")
	}
	if IsAdmin(context.Background()) {
		t.Error("IsAdmin on bare context = true")
	}
}
