package browser_test

import (
	"bytes"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	_ "modernc.org/sqlite"

	"dojo/internal/adapters/email"
	web "dojo/internal/adapters/http"
	"dojo/internal/adapters/http/perf"
	"dojo/internal/adapters/identity"
	"dojo/internal/adapters/storage"
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

const (
	adminEmail    = "sensei@dojo.test"
	adminPassword = "TestPass123!"
)

// testApp holds the running test server and Playwright handles.
type testApp struct {
	BaseURL string
	DB      *sql.DB
	Browser playwright.Browser
}

// newTestApp creates a fully wired app with a temp SQLite DB and starts an HTTP server.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)")
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	if err := storage.MigrateDB(db); err != nil {
		t.Fatalf("failed to migrate test DB: %v", err)
	}

	stores := &web.Stores{
		CredentialStore:  accountStore.NewSQLiteStore(db),
		ProfileStore:     profileStore.NewSQLiteStore(db),
		PlanStore:        membershipStore.NewPlanSQLiteStore(db),
		AssignmentStore:  membershipStore.NewAssignmentSQLiteStore(db),
		TrainingLogStore: trainingLogStore.NewSQLiteStore(db),
		ClassStore:       gymClassStore.NewSQLiteStore(db),
		ClassLogStore:    classLogStore.NewSQLiteStore(db),
		ChildStore:       childStore.NewSQLiteStore(db),
		WaiverStore:      waiverStore.NewSQLiteStore(db),
		AuditStore:       auditStore.NewSQLiteStore(db),
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	cfg, err := config.FromLookup(func(key string) (string, bool) {
		switch key {
		case "GYM_ADDR":
			return fmt.Sprintf(":%d", port), true
		case "GYM_ADMIN_EMAILS":
			return adminEmail, true
		case "GYM_CSRF_KEY":
			return "browser-test-csrf-key", true
		}
		return "", false
	})
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	provider := &identity.Local{
		Credentials: stores.CredentialStore,
		Tokens:      identity.NewTokens([]byte("browser-test-secret"), 0),
		Roles:       identity.StoreRoleChecker{Profiles: stores.ProfileStore},
	}
	web.RateLimitPerSecond = 10000
	handler, err := web.NewMux(filepath.Join(findProjectRoot(t), "static"), cfg, stores, web.Services{
		Identity: provider,
		Sender:   email.NewNoopSender(),
		Perf:     perf.NewCollector(perf.DefaultRingSize),
	})
	if err != nil {
		t.Fatalf("NewMux: %v", err)
	}

	srv := &http.Server{Addr: fmt.Sprintf("127.0.0.1:%d", port), Handler: handler}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("test server error: %v", err)
		}
	}()

	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	for range 50 {
		resp, err := http.Get(baseURL + "/login")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	pw, err := playwright.Run()
	if err != nil {
		t.Fatalf("failed to start Playwright: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		t.Fatalf("failed to launch browser: %v", err)
	}

	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
		srv.Close()
		db.Close()
	})

	app := &testApp{BaseURL: baseURL, DB: db, Browser: browser}
	app.register(t, adminEmail, adminPassword, "Sensei")
	return app
}

// register signs up through the JSON API, as the register page does.
func (a *testApp) register(t *testing.T, email, password, name string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"name":%q}`, email, password, name)
	resp, err := http.Post(a.BaseURL+"/api/profile", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: status %d", email, resp.StatusCode)
	}
}

// newPage creates a new browser page (tab).
func (a *testApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	page, err := a.Browser.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	t.Cleanup(func() { page.Close() })
	return page
}

// login submits the login form and waits for the landing page.
func (a *testApp) login(t *testing.T, page playwright.Page, email, password string) {
	t.Helper()
	if _, err := page.Goto(a.BaseURL + "/login"); err != nil {
		t.Fatalf("failed to navigate to login: %v", err)
	}
	if err := page.Locator("input[name=email]").Fill(email); err != nil {
		t.Fatalf("failed to fill email: %v", err)
	}
	if err := page.Locator("input[name=password]").Fill(password); err != nil {
		t.Fatalf("failed to fill password: %v", err)
	}
	if err := page.Locator("form[action='/api/login'] button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to submit login: %v", err)
	}
	if err := page.WaitForLoadState(); err != nil {
		t.Fatalf("failed waiting for landing page: %v", err)
	}
}

// findProjectRoot walks up from the working directory to the directory holding go.mod.
func findProjectRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("could not find project root (go.mod) from working directory")
		}
		dir = parent
	}
}
