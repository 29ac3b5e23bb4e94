package web

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
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
	"dojo/internal/adapters/storage/storagetest"
	trainingLogStore "dojo/internal/adapters/storage/traininglog"
	waiverStore "dojo/internal/adapters/storage/waiver"
	"dojo/internal/config"
	"dojo/internal/domain/billing"
)

// fixedNow is a Tuesday afternoon in the gym's zone.
var fixedNow = time.Date(2025, 3, 11, 18, 0, 0, 0, time.UTC)

const testAdminEmail = "sensei@dojo.test"

// testEnv is a fully wired app over an in-memory database.
type testEnv struct {
	db      *sql.DB
	handler http.Handler
	sender  *email.NoopSender
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	loc, err := billing.LoadLocation(billing.DefaultTimezone)
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return config.Config{
		Addr:               ":8080",
		Env:                "test",
		CSRFKey:            "test-csrf-key",
		Location:           loc,
		AdminEmails:        []string{testAdminEmail},
		ReminderWindowDays: 7,
		SlowRequestMs:      middleware.DefaultSlowRequestMs,
	}
}

func newTestStores(db *sql.DB) *Stores {
	assignments := membershipStore.NewAssignmentSQLiteStore(db)
	return &Stores{
		CredentialStore:  accountStore.NewSQLiteStore(db),
		ProfileStore:     profileStore.NewSQLiteStore(db),
		PlanStore:        membershipStore.NewPlanSQLiteStore(db),
		AssignmentStore:  assignments,
		TrainingLogStore: trainingLogStore.NewSQLiteStore(db),
		ClassStore:       gymClassStore.NewSQLiteStore(db),
		ClassLogStore:    classLogStore.NewSQLiteStore(db),
		ChildStore:       childStore.NewSQLiteStore(db),
		WaiverStore:      waiverStore.NewSQLiteStore(db),
		AuditStore:       auditStore.NewSQLiteStore(db),
	}
}

// newTestEnv wires NewMux over a fresh database and pins the clock.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := storagetest.OpenDB(t)
	s := newTestStores(db)

	prevNow, prevLimit := timeNow, RateLimitPerSecond
	timeNow = func() time.Time { return fixedNow }
	RateLimitPerSecond = 10000
	t.Cleanup(func() { timeNow, RateLimitPerSecond = prevNow, prevLimit })

	provider := &identity.Local{
		Credentials: s.CredentialStore,
		Tokens:      identity.NewTokens([]byte("test-session-secret"), time.Hour*24*7),
		Roles:       identity.StoreRoleChecker{Profiles: s.ProfileStore},
		Now:         func() time.Time { return fixedNow },
	}
	sender := email.NewNoopSender()
	h, err := NewMux("", testConfig(t), s, Services{
		Identity: provider,
		Sender:   sender,
		Perf:     perf.NewCollector(256),
	})
	if err != nil {
		t.Fatalf("NewMux: %v", err)
	}
	return &testEnv{db: db, handler: h, sender: sender}
}

// seedMember inserts a profile and optionally promotes it to admin.
func seedMember(t *testing.T, db *sql.DB, id, email string, admin bool) identity.Session {
	t.Helper()
	storagetest.SeedProfile(t, db, id, email)
	if admin {
		if _, err := db.Exec("UPDATE profile SET role = 'admin' WHERE id = ?", id); err != nil {
			t.Fatalf("promote %s: %v", id, err)
		}
	}
	return identity.Session{UserID: id, Email: email, ExpiresAt: fixedNow.Add(time.Hour * 72)}
}

// authRequest builds a JSON request carrying sess, as the guard would.
func authRequest(method, url, body string, sess identity.Session, admin bool) *http.Request {
	req := anonRequest(method, url, body)
	rc := middleware.NewRequestContext(sess, true, func() bool { return admin })
	return req.WithContext(middleware.ContextWithRequestContext(req.Context(), rc))
}

func anonRequest(method, url, body string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	req.Header.Set("Content-Type", "application/json")
	return req
}

// do sends req through the full middleware chain.
func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == identity.CookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", identity.CookieName)
	return nil
}

func countRows(t *testing.T, db *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	if err := db.QueryRowContext(context.Background(), query, args...).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
