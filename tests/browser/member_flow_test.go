package browser_test

import (
	"testing"

	"github.com/playwright-community/playwright-go"
)

// TestMember_LogHoursAndSignWaiver drives the JSON-backed forms end to end.
func TestMember_LogHoursAndSignWaiver(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	app := newTestApp(t)
	app.register(t, "ana@dojo.test", "kimura123", "Ana López")
	if _, err := app.DB.Exec("INSERT INTO gym_class (id, name, coach, schedule, capacity, enrolled, created_at) VALUES ('c1', 'BJJ', 'Rafa', '', 20, 0, '2025-01-01T00:00:00Z')"); err != nil {
		t.Fatalf("seed class: %v", err)
	}

	page := app.newPage(t)
	app.login(t, page, "ana@dojo.test", "kimura123")

	if _, err := page.Goto(app.BaseURL + "/log-hours"); err != nil {
		t.Fatal(err)
	}
	if err := page.Locator("input[name=hours]").Fill("1.5"); err != nil {
		t.Fatal(err)
	}
	if err := page.Locator("form[data-json] button[type=submit]").Click(); err != nil {
		t.Fatal(err)
	}
	if err := page.WaitForURL(app.BaseURL + "/profile"); err != nil {
		t.Fatalf("did not return to profile: %v", err)
	}

	if _, err := page.Goto(app.BaseURL + "/waiver"); err != nil {
		t.Fatal(err)
	}
	if err := page.Locator("input[name=signatureUrl]").Fill("https://cdn.test/sig.png"); err != nil {
		t.Fatal(err)
	}
	if err := page.Locator("input[name=acceptedESignLaw]").Check(); err != nil {
		t.Fatal(err)
	}
	if err := page.Locator("form[data-json] button[type=submit]").Click(); err != nil {
		t.Fatal(err)
	}
	if err := page.WaitForURL(app.BaseURL + "/profile"); err != nil {
		t.Fatalf("did not return to profile: %v", err)
	}
	if err := page.Locator("text=Carta responsiva firmada").WaitFor(playwright.LocatorWaitForOptions{
		State: playwright.WaitForSelectorStateVisible,
	}); err != nil {
		t.Errorf("waiver not shown as signed: %v", err)
	}

	var hours int
	if err := app.DB.QueryRow("SELECT COUNT(*) FROM hours_log").Scan(&hours); err != nil {
		t.Fatal(err)
	}
	if hours != 1 {
		t.Errorf("hours_log rows = %d, want 1", hours)
	}
}
