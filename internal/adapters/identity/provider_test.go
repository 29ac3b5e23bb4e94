package identity

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"dojo/internal/adapters/storage"
	"dojo/internal/domain/account"
)

type mockCredentials struct {
	byID map[string]account.Credential
}

func newMockCredentials() *mockCredentials {
	return &mockCredentials{byID: map[string]account.Credential{}}
}

func (m *mockCredentials) GetByID(_ context.Context, id string) (account.Credential, error) {
	c, ok := m.byID[id]
	if !ok {
		return account.Credential{}, storage.ErrNotFound
	}
	return c, nil
}

func (m *mockCredentials) GetByEmail(_ context.Context, email string) (account.Credential, error) {
	for _, c := range m.byID {
		if c.Email == email {
			return c, nil
		}
	}
	return account.Credential{}, storage.ErrNotFound
}

func (m *mockCredentials) Save(_ context.Context, c account.Credential) error {
	m.byID[c.ID] = c
	return nil
}

func (m *mockCredentials) Delete(_ context.Context, id string) error {
	delete(m.byID, id)
	return nil
}

func newLocal(creds *mockCredentials) *Local {
	return &Local{
		Credentials: creds,
		Tokens:      NewTokens([]byte("secret"), 0),
		Roles:       StoreRoleChecker{Profiles: mockProfiles{}},
		Now:         func() time.Time { return testNow },
	}
}

func TestLocal_SignUpThenSignIn(t *testing.T) {
	creds := newMockCredentials()
	l := newLocal(creds)
	ctx := context.Background()

	up, err := l.SignUp(ctx, " Ana@Dojo.MX ", "cinturon-negro")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if up.Email != "ana@dojo.mx" {
		t.Errorf("email not normalized: %q", up.Email)
	}
	if _, err := l.SignUp(ctx, "ana@dojo.mx", "cinturon-negro"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate SignUp err = %v", err)
	}

	in, err := l.SignIn(ctx, "ana@dojo.mx", "cinturon-negro")
	if err != nil || in.UserID != up.UserID {
		t.Fatalf("SignIn = %+v, %v", in, err)
	}

	req := httptest.NewRequest("GET", "/profile", nil)
	rec := httptest.NewRecorder()
	WriteCookie(rec, in, false)
	req.AddCookie(rec.Result().Cookies()[0])
	if s, ok := l.Session(req); !ok || s.UserID != up.UserID {
		t.Errorf("Session from cookie = %+v, %v", s, ok)
	}
}

func TestLocal_SignInLockout(t *testing.T) {
	creds := newMockCredentials()
	l := newLocal(creds)
	ctx := context.Background()
	if _, err := l.SignUp(ctx, "ana@dojo.mx", "cinturon-negro"); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < account.MaxFailedLogins; i++ {
		if _, err := l.SignIn(ctx, "ana@dojo.mx", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d err = %v", i, err)
		}
	}
	if _, err := l.SignIn(ctx, "ana@dojo.mx", "cinturon-negro"); !errors.Is(err, ErrAccountLocked) {
		t.Errorf("locked SignIn err = %v", err)
	}

	l.Now = func() time.Time { return testNow.Add(account.LockoutDuration + time.Second) }
	if _, err := l.SignIn(ctx, "ana@dojo.mx", "cinturon-negro"); err != nil {
		t.Errorf("SignIn after lockout: %v", err)
	}
}

func TestLocal_SignInUnknownEmail(t *testing.T) {
	l := newLocal(newMockCredentials())
	if _, err := l.SignIn(context.Background(), "nadie@dojo.mx", "whatever1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v", err)
	}
}
