package orchestrators

import (
	"context"
	"errors"
	"testing"

	"dojo/internal/adapters/email"
	"dojo/internal/domain/audit"
)

type failingNotifier struct{ calls int }

func (f *failingNotifier) NotifyLead(context.Context, email.Lead) error {
	f.calls++
	return errors.New("unreachable")
}

func TestExecuteContact(t *testing.T) {
	n := &failingNotifier{}
	if err := ExecuteContact(context.Background(), ContactInput{Name: "Luis", Phone: "664 000 0000"}, ContactDeps{Notifier: n}); err != nil {
		t.Errorf("notifier failure should not surface: %v", err)
	}
	if n.calls != 1 {
		t.Errorf("calls = %d", n.calls)
	}
	if err := ExecuteContact(context.Background(), ContactInput{Name: "Luis"}, ContactDeps{Notifier: n}); !IsValidation(err) {
		t.Errorf("missing contact err = %v", err)
	}
}

func TestExecuteRecordClientError(t *testing.T) {
	rec := &mockAudit{}
	deps := ClientErrorDeps{Audit: rec, Now: testNow}

	err := ExecuteRecordClientError(context.Background(), ClientErrorInput{
		Source:     "client-promise",
		Message:    "TypeError: x is undefined",
		Stacktrace: "at main.js:3",
		Context:    map[string]any{"filename": "main.js", "lineno": 3},
	}, deps)
	if err != nil {
		t.Fatal(err)
	}
	e := rec.entries[0]
	if e.Source != audit.SourceClientPromise || e.Level != audit.LevelError || e.Action != audit.ActionClientError {
		t.Errorf("entry = %+v", e)
	}
	if e.Context != `{"filename":"main.js","lineno":3}` {
		t.Errorf("context = %s", e.Context)
	}

	ExecuteRecordClientError(context.Background(), ClientErrorInput{Source: "weird", Message: "m"}, deps)
	if rec.entries[1].Source != audit.SourceClient {
		t.Errorf("unknown source recorded as %s", rec.entries[1].Source)
	}
	if err := ExecuteRecordClientError(context.Background(), ClientErrorInput{Message: "  "}, deps); !IsValidation(err) {
		t.Errorf("empty message err = %v", err)
	}
}

func TestExecuteUpdateProfile_PartialAndProtected(t *testing.T) {
	p := newMockProfiles()
	base := newProfileFixture()
	p.byID[base.ID] = base
	name := "Ana María"
	got, err := ExecuteUpdateProfile(context.Background(), UpdateProfileInput{UserID: base.ID, FullName: &name}, UpdateProfileDeps{Profiles: p})
	if err != nil {
		t.Fatal(err)
	}
	if got.FullName != "Ana María" || got.Address != base.Address || got.Role != "admin" || got.BeltLevel != "blue" {
		t.Errorf("updated = %+v", got)
	}
	empty := ""
	if _, err := ExecuteUpdateProfile(context.Background(), UpdateProfileInput{UserID: base.ID, FullName: &empty}, UpdateProfileDeps{Profiles: p}); !IsValidation(err) {
		t.Errorf("empty name err = %v", err)
	}
}
