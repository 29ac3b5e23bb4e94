// Package access decides, for every incoming request, whether it may proceed,
// must be redirected to the login page, or must be redirected to the landing
// page of the caller's role. The rules are pure functions of the request path,
// the presence of a session and the caller's admin flag.
package access

import "strings"

// Landing pages used by the redirect rules.
const (
	LoginPath   = "/login"
	AdminPath   = "/admin"
	ProfilePath = "/profile"
	APIPrefix   = "/api/"
)

// Role constants as stored on a profile and served to clients.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// PathClass is the classification of a request path.
type PathClass int

const (
	PathProtected PathClass = iota
	PathPublic
	PathAPI
)

// String returns the lower-case name of the class, used in log attributes.
func (c PathClass) String() string {
	switch c {
	case PathPublic:
		return "public"
	case PathAPI:
		return "api"
	default:
		return "protected"
	}
}

// publicExact are paths served to anonymous visitors as-is.
var publicExact = map[string]bool{
	"/":            true,
	"/favicon.ico": true,
}

// publicPrefixes match a path segment boundary: "/login" matches "/login" and
// "/login/help" but not "/loginx".
var publicPrefixes = []string{
	LoginPath,
	"/register",
	"/set-password",
	"/reset-password",
	"/public",
	"/static",
}

// Classify reports which class a path belongs to.
// PRE: path is a URL path (leading slash)
// POST: Returns exactly one class; public wins over API
func Classify(path string) PathClass {
	if publicExact[path] {
		return PathPublic
	}
	for _, p := range publicPrefixes {
		if hasSegmentPrefix(path, p) {
			return PathPublic
		}
	}
	if path == "/api" || strings.HasPrefix(path, APIPrefix) {
		return PathAPI
	}
	return PathProtected
}

// IsAdminArea reports whether the path lives under the admin back office.
func IsAdminArea(path string) bool {
	return hasSegmentPrefix(path, AdminPath)
}

func hasSegmentPrefix(path, prefix string) bool {
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+"/")
}

// Outcome is what the guard does with a request.
type Outcome int

const (
	Allow Outcome = iota
	Redirect
)

// Decision is the result of evaluating the guard rules for one request.
type Decision struct {
	Outcome  Outcome
	Location string // set when Outcome is Redirect
	Rule     int    // 1-based index of the rule that matched
}

// Decide evaluates the guard rules in order; the first match wins.
// isAdmin is only invoked when rules 1-3 do not match, so public, anonymous
// and API requests never trigger a role lookup.
// PRE: isAdmin is non-nil
// POST: Same inputs always yield the same Decision
func Decide(path string, hasSession bool, isAdmin func() bool) Decision {
	class := Classify(path)
	if class == PathPublic {
		return Decision{Outcome: Allow, Rule: 1}
	}
	if !hasSession && class != PathAPI {
		return Decision{Outcome: Redirect, Location: LoginPath, Rule: 2}
	}
	if class == PathAPI {
		return Decision{Outcome: Allow, Rule: 3}
	}

	admin := isAdmin()
	inAdmin := IsAdminArea(path)
	if admin && !inAdmin {
		return Decision{Outcome: Redirect, Location: AdminPath, Rule: 5}
	}
	if !admin && inAdmin {
		return Decision{Outcome: Redirect, Location: ProfilePath, Rule: 6}
	}
	return Decision{Outcome: Allow, Rule: 7}
}

// LandingPage returns where a freshly signed-in user is sent.
func LandingPage(isAdmin bool) string {
	if isAdmin {
		return AdminPath
	}
	return ProfilePath
}

// ServedRole resolves the role reported to clients from the stored profile
// role and the authoritative admin check. The admin check wins in both
// directions so the served role always agrees with page gating.
// A stored admin the check does not confirm is served as user, which departs
// from the stored value on purpose; callers log the mismatch.
// mismatch is true when the stored role claimed admin but the check did not.
func ServedRole(stored string, isAdmin bool) (role string, mismatch bool) {
	if isAdmin {
		return RoleAdmin, false
	}
	if stored == RoleAdmin {
		return RoleUser, true
	}
	if stored == "" {
		return RoleUser, false
	}
	return stored, false
}

// IsValidRole reports whether role is one of the stored role values.
func IsValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}
