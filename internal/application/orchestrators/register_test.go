package orchestrators

import (
	"context"
	"errors"
	"testing"
	"time"

	"dojo/internal/domain/membership"
)

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Email:    "ana@dojo.mx",
		Password: "cinturon-negro",
		FullName: "Ana Amezcua",
		JoinDate: "2024-01-31",
	}
}

func TestExecuteRegister_CreatesProfile(t *testing.T) {
	profiles := newMockProfiles()
	res, err := ExecuteRegister(context.Background(), validRegisterInput(), RegisterDeps{
		Auth:     newMockAuth(),
		Profiles: profiles,
		Now:      testNow,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, ok := profiles.byID[res.Session.UserID]
	if !ok {
		t.Fatal("profile not saved under the credential id")
	}
	if p.Role != "user" || p.JoinDate != "2024-01-31" || p.Classes == nil {
		t.Errorf("profile = %+v", p)
	}
}

func TestExecuteRegister_AdminEmailPromoted(t *testing.T) {
	profiles := newMockProfiles()
	_, err := ExecuteRegister(context.Background(), validRegisterInput(), RegisterDeps{
		Auth:         newMockAuth(),
		Profiles:     profiles,
		IsAdminEmail: func(e string) bool { return e == "ana@dojo.mx" },
		Now:          testNow,
	})
	if err != nil {
		t.Fatal(err)
	}
	if profiles.byID["user-1"].Role != "admin" {
		t.Errorf("role = %s, want admin", profiles.byID["user-1"].Role)
	}
}

func TestExecuteRegister_DefaultJoinDateUsesGymZone(t *testing.T) {
	in := validRegisterInput()
	in.JoinDate = ""
	profiles := newMockProfiles()
	// 2024-06-10 02:00 UTC is still 2024-06-09 in Tijuana.
	res, err := ExecuteRegister(context.Background(), in, RegisterDeps{
		Auth:     newMockAuth(),
		Profiles: profiles,
		Location: tijuana(t),
		Now:      func() time.Time { return time.Date(2024, 6, 10, 2, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Profile.JoinDate != "2024-06-09" {
		t.Errorf("join date = %s", res.Profile.JoinDate)
	}
}

func TestExecuteRegister_ProfileFailureRemovesCredential(t *testing.T) {
	auth := newMockAuth()
	profiles := newMockProfiles()
	profiles.saveErr = errors.New("disk full")

	_, err := ExecuteRegister(context.Background(), validRegisterInput(), RegisterDeps{Auth: auth, Profiles: profiles, Now: testNow})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(auth.deleted) != 1 || auth.deleted[0] != "user-1" {
		t.Errorf("deleted = %v", auth.deleted)
	}
}

func TestExecuteRegister_DuplicateEmailIsValidation(t *testing.T) {
	auth := newMockAuth()
	deps := RegisterDeps{Auth: auth, Profiles: newMockProfiles(), Now: testNow}
	if _, err := ExecuteRegister(context.Background(), validRegisterInput(), deps); err != nil {
		t.Fatal(err)
	}
	_, err := ExecuteRegister(context.Background(), validRegisterInput(), deps)
	if !IsValidation(err) {
		t.Errorf("err = %v, want validation error", err)
	}
}

func TestExecuteRegister_AssignsMembershipByType(t *testing.T) {
	in := validRegisterInput()
	in.MembershipType = "mensual"
	plans := &mockPlans{byID: map[string]membership.Plan{
		"p1": {ID: "p1", Type: "Mensual", Price: 800, Duration: "1 mes", DurationDays: 30},
	}}
	assignments := &mockAssignments{}

	_, err := ExecuteRegister(context.Background(), in, RegisterDeps{
		Auth:        newMockAuth(),
		Profiles:    newMockProfiles(),
		Plans:       plans,
		Assignments: assignments,
		Now:         testNow,
		GenerateID:  sequentialIDs(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(assignments.saved) != 1 {
		t.Fatalf("assignments = %+v", assignments.saved)
	}
	a := assignments.saved[0]
	if a.MembershipID != "p1" || a.StartDate != "2024-01-31" || a.EndDate != "2024-03-01" || !a.Active {
		t.Errorf("assignment = %+v", a)
	}
}
