package identity

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session cookie settings.
const (
	CookieName           = "dojo_session"
	DefaultSessionTTL    = 7 * 24 * time.Hour
	SessionRefreshWindow = 24 * time.Hour
)

// ErrInvalidToken is returned for tokens that fail signature, method or expiry checks.
var ErrInvalidToken = errors.New("invalid session token")

// Session is the authenticated identity carried by a request.
type Session struct {
	UserID    string
	Email     string
	ExpiresAt time.Time
	// Token is the raw cookie value, forwarded to remote role checks.
	Token string
}

// NeedsRefresh reports whether the session expires within SessionRefreshWindow of now.
func (s Session) NeedsRefresh(now time.Time) bool {
	return s.ExpiresAt.Sub(now) < SessionRefreshWindow
}

type authClaims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256 session tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

// NewTokens creates a token codec. A non-positive ttl falls back to DefaultSessionTTL.
// PRE: secret is non-empty
func NewTokens(secret []byte, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Tokens{secret: secret, ttl: ttl}
}

// Issue signs a token for the user valid from now for the configured TTL.
// POST: Returned Session carries the signed token and its expiry
func (t *Tokens) Issue(userID, email string, now time.Time) (Session, error) {
	expires := now.Add(t.ttl)
	claims := authClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return Session{}, fmt.Errorf("sign session: %w", err)
	}
	return Session{UserID: userID, Email: email, ExpiresAt: expires, Token: signed}, nil
}

// Parse verifies a token against now and returns the session it carries.
// POST: Returns ErrInvalidToken for any malformed, foreign or expired token
func (t *Tokens) Parse(raw string, now time.Time) (Session, error) {
	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return now }), jwt.WithExpirationRequired())
	if err != nil || !token.Valid || claims.UserID == "" {
		return Session{}, ErrInvalidToken
	}
	return Session{
		UserID:    claims.UserID,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
		Token:     raw,
	}, nil
}

// WriteCookie stores the session token on the response.
func WriteCookie(w http.ResponseWriter, s Session, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.Token,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		Expires:  s.ExpiresAt,
	})
}

// ClearCookie expires the session cookie.
func ClearCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
}
