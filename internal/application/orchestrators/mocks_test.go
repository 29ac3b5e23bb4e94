package orchestrators

import (
	"context"
	"errors"
	"time"

	"dojo/internal/adapters/email"
	"dojo/internal/adapters/identity"
	"dojo/internal/adapters/storage"
	"dojo/internal/domain/audit"
	"dojo/internal/domain/child"
	"dojo/internal/domain/membership"
	"dojo/internal/domain/profile"
	"dojo/internal/domain/traininglog"
	"dojo/internal/domain/waiver"
)

var testTime = time.Date(2024, 6, 10, 18, 0, 0, 0, time.UTC)

func testNow() time.Time { return testTime }

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return "id-" + string(rune('0'+n))
	}
}

type mockAudit struct {
	entries []audit.Entry
	err     error
}

func (m *mockAudit) Save(_ context.Context, e audit.Entry) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, e)
	return nil
}

type mockProfiles struct {
	byID    map[string]profile.Profile
	saveErr error
}

func newMockProfiles(ps ...profile.Profile) *mockProfiles {
	m := &mockProfiles{byID: map[string]profile.Profile{}}
	for _, p := range ps {
		m.byID[p.ID] = p
	}
	return m
}

func (m *mockProfiles) GetByID(_ context.Context, id string) (profile.Profile, error) {
	p, ok := m.byID[id]
	if !ok {
		return profile.Profile{}, storage.ErrNotFound
	}
	return p, nil
}

func (m *mockProfiles) Save(_ context.Context, p profile.Profile) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.byID[p.ID] = p
	return nil
}

func (m *mockProfiles) UpdateAdminFields(_ context.Context, id, notes, belt string) error {
	p, ok := m.byID[id]
	if !ok {
		return storage.ErrNotFound
	}
	p.StudentNotes = notes
	p.BeltLevel = belt
	m.byID[id] = p
	return nil
}

type mockAuth struct {
	users      map[string]identity.Session // by email
	deleted    []string
	signInErr  error
	nextUserID string
}

func newMockAuth() *mockAuth {
	return &mockAuth{users: map[string]identity.Session{}, nextUserID: "user-1"}
}

func (m *mockAuth) SignIn(_ context.Context, email, _ string) (identity.Session, error) {
	if m.signInErr != nil {
		return identity.Session{}, m.signInErr
	}
	s, ok := m.users[email]
	if !ok {
		return identity.Session{}, identity.ErrInvalidCredentials
	}
	return s, nil
}

func (m *mockAuth) SignUp(_ context.Context, email, _ string) (identity.Session, error) {
	if _, ok := m.users[email]; ok {
		return identity.Session{}, identity.ErrEmailTaken
	}
	s := identity.Session{UserID: m.nextUserID, Email: email}
	m.users[email] = s
	return s, nil
}

func (m *mockAuth) DeleteUser(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

type mockRoles struct {
	admin bool
	err   error
}

func (m mockRoles) IsAdmin(context.Context, identity.Session) (bool, error) {
	return m.admin, m.err
}

type mockPlans struct {
	byID map[string]membership.Plan
}

func (m *mockPlans) GetByID(_ context.Context, id string) (membership.Plan, error) {
	p, ok := m.byID[id]
	if !ok {
		return membership.Plan{}, storage.ErrNotFound
	}
	return p, nil
}

func (m *mockPlans) List(context.Context) ([]membership.Plan, error) {
	var out []membership.Plan
	for _, p := range m.byID {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockPlans) Save(_ context.Context, p membership.Plan) error {
	m.byID[p.ID] = p
	return nil
}

func (m *mockPlans) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type mockAssignments struct {
	saved []membership.Assignment
}

func (m *mockAssignments) Save(_ context.Context, a membership.Assignment) error {
	m.saved = append(m.saved, a)
	return nil
}

type mockTrainingLogs struct {
	entries []traininglog.Entry
}

func (m *mockTrainingLogs) Append(_ context.Context, e traininglog.Entry) error {
	m.entries = append(m.entries, e)
	return nil
}

func (m *mockTrainingLogs) SumHours(_ context.Context, userID, className string) (float64, error) {
	var sum float64
	for _, e := range m.entries {
		if e.UserID == userID && e.ClassName == className {
			sum += e.Hours
		}
	}
	return sum, nil
}

func (m *mockTrainingLogs) CountSince(_ context.Context, userID, since string) (int, error) {
	n := 0
	for _, e := range m.entries {
		if e.UserID == userID && e.Date >= since {
			n++
		}
	}
	return n, nil
}

type mockWaivers struct {
	active map[string]waiver.Waiver
}

func (m *mockWaivers) GetActiveByUser(_ context.Context, userID string) (waiver.Waiver, error) {
	w, ok := m.active[userID]
	if !ok {
		return waiver.Waiver{}, storage.ErrNotFound
	}
	return w, nil
}

func (m *mockWaivers) Create(_ context.Context, w waiver.Waiver) error {
	m.active[w.UserID] = w
	return nil
}

func (m *mockWaivers) Revoke(_ context.Context, id string) error {
	for user, w := range m.active {
		if w.ID == id {
			delete(m.active, user)
			return nil
		}
	}
	return storage.ErrNotFound
}

type mockChildren struct {
	profiles map[string]child.Profile
	links    []child.ParentLink
	linkErr  error
}

func (m *mockChildren) CreateProfile(_ context.Context, p child.Profile) error {
	m.profiles[p.ID] = p
	return nil
}

func (m *mockChildren) DeleteProfile(_ context.Context, id string) error {
	delete(m.profiles, id)
	return nil
}

func (m *mockChildren) CreateLink(_ context.Context, l child.ParentLink) error {
	if m.linkErr != nil {
		return m.linkErr
	}
	m.links = append(m.links, l)
	return nil
}

type mockSender struct {
	sent   []email.Message
	failTo string
}

func (m *mockSender) Send(_ context.Context, msg email.Message) (email.Receipt, error) {
	if len(msg.To) > 0 && msg.To[0] == m.failTo {
		return email.Receipt{}, errors.New("smtp down")
	}
	m.sent = append(m.sent, msg)
	return email.Receipt{MessageID: "m"}, nil
}
