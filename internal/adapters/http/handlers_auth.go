package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"dojo/internal/adapters/identity"
	"dojo/internal/application/orchestrators"
	"dojo/internal/domain/access"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// handleAPILogin handles POST /api/login. It accepts a JSON body or the login
// page's form post. On success the session cookie is set and the caller is
// sent to the landing page of their role.
func handleAPILogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req loginRequest
	isForm := !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
	if isForm {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "Formulario inválido.")
			return
		}
		req = loginRequest{Email: r.FormValue("email"), Password: r.FormValue("password")}
		if err := validate.Struct(req); err != nil {
			loginFailed(w, r, isForm, http.StatusBadRequest, "Ingresa tu correo y contraseña.")
			return
		}
	} else if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	}, orchestrators.LoginDeps{
		Auth:  auth,
		Roles: auth,
		Audit: stores.AuditStore,
		Now:   timeNow,
	})
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrInvalidCredentials):
			loginFailed(w, r, isForm, http.StatusUnauthorized, "Correo o contraseña incorrectos.")
		case errors.Is(err, identity.ErrAccountLocked):
			loginFailed(w, r, isForm, http.StatusUnauthorized, "Cuenta bloqueada temporalmente. Intenta más tarde.")
		default:
			internalError(w, err)
		}
		return
	}

	identity.WriteCookie(w, result.Session, cfg.IsProduction())
	http.Redirect(w, r, result.Landing, http.StatusSeeOther)
}

// loginFailed re-renders the login page for form posts and answers JSON
// clients with {"error": msg}.
func loginFailed(w http.ResponseWriter, r *http.Request, isForm bool, status int, msg string) {
	if isForm && isHTMLRequest(r) {
		renderTemplateStatus(w, r, status, "login.html", map[string]any{"Error": msg, "Email": r.FormValue("email")})
		return
	}
	writeError(w, status, msg)
}

// handleAPILogout handles POST /api/logout.
func handleAPILogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if sess, ok := auth.Session(r); ok {
		slog.Info("auth_event", "event", "logout", "email", sess.Email)
	}
	auth.SignOut(w)
	if isHTMLRequest(r) {
		http.Redirect(w, r, access.LoginPath, http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type registerRequest struct {
	Email          string   `json:"email" validate:"required,email,max=254"`
	Password       string   `json:"password" validate:"required,min=8"`
	Name           string   `json:"name" validate:"required,max=120"`
	BirthDate      string   `json:"birthDate" validate:"omitempty,datetime=2006-01-02"`
	Nationality    string   `json:"nationality" validate:"max=80"`
	HasExperience  bool     `json:"hasExperience"`
	HowFound       string   `json:"howFound" validate:"max=200"`
	HealthInfo     string   `json:"healthInfo" validate:"max=2000"`
	IsMinor        bool     `json:"isMinor"`
	ParentName     string   `json:"parentName" validate:"required_if=IsMinor true,max=120"`
	ParentPhone    string   `json:"parentPhone" validate:"max=40"`
	Address        string   `json:"address" validate:"max=300"`
	Avatar         string   `json:"avatar" validate:"omitempty,max=1000"`
	JoinDate       string   `json:"joinDate" validate:"omitempty,datetime=2006-01-02"`
	Classes        []string `json:"classes" validate:"max=20,dive,max=80"`
	MembershipType string   `json:"membershipType" validate:"max=80"`
}

// handleRegister creates the credential and profile (POST /api/profile).
// The new member is signed in on success.
func handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}

	result, err := orchestrators.ExecuteRegister(r.Context(), orchestrators.RegisterInput{
		Email:          req.Email,
		Password:       req.Password,
		FullName:       req.Name,
		BirthDate:      req.BirthDate,
		Nationality:    req.Nationality,
		HasExperience:  req.HasExperience,
		HowFound:       req.HowFound,
		HealthInfo:     req.HealthInfo,
		Underage:       req.IsMinor,
		ParentName:     req.ParentName,
		ParentPhone:    req.ParentPhone,
		Address:        req.Address,
		Avatar:         req.Avatar,
		Classes:        req.Classes,
		JoinDate:       req.JoinDate,
		MembershipType: req.MembershipType,
	}, orchestrators.RegisterDeps{
		Auth:         auth,
		Profiles:     stores.ProfileStore,
		Plans:        stores.PlanStore,
		Assignments:  stores.AssignmentStore,
		IsAdminEmail: cfg.IsAdminEmail,
		Audit:        stores.AuditStore,
		Location:     cfg.Location,
		Now:          timeNow,
		GenerateID:   generateID,
	})
	if err != nil {
		writeActionError(w, err)
		return
	}

	identity.WriteCookie(w, result.Session, cfg.IsProduction())
	isAdmin := result.Profile.Role == access.RoleAdmin
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":      result.Profile.ID,
		"email":   result.Profile.Email,
		"role":    result.Profile.Role,
		"landing": access.LandingPage(isAdmin),
	})
}
