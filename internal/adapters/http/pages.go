package web

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strconv"
	"time"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"dojo/internal/adapters/email"
	"dojo/internal/adapters/http/middleware"
	classLogStore "dojo/internal/adapters/storage/classlog"
	"dojo/internal/application/listutil"
	"dojo/internal/application/projections"
	"dojo/internal/domain/access"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed content/*.md
var contentFS embed.FS

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// publicPages are the markdown documents served under /public/{page}.
var publicPages = map[string]string{
	"about":       "Nosotros",
	"classes":     "Clases",
	"contact":     "Contacto",
	"events":      "Eventos",
	"location":    "Ubicación",
	"memberships": "Membresías",
	"sponsors":    "Patrocinadores",
}

// baseFuncs are replaced per request by requestFuncs; they exist so the
// templates parse once at startup.
var baseFuncs = template.FuncMap{
	"csrfField":      func() template.HTML { return "" },
	"csrfToken":      func() string { return "" },
	"isLoggedIn":     func() bool { return false },
	"isAdmin":        func() bool { return false },
	"currentEmail":   func() string { return "" },
	"renderMarkdown": renderMarkdown,
	"longDate":       longDate,
	"money":          func(v float64) string { return "$" + strconv.FormatFloat(v, 'f', 2, 64) },
	"add":            func(a, b int) int { return a + b },
	"sub":            func(a, b int) int { return a - b },
}

var pageTemplates = mustParseTemplates()

// mustParseTemplates pairs every page with the shared layout.
// POST: Panics on a malformed template, which only a bad build can produce
func mustParseTemplates() map[string]*template.Template {
	pages, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		panic(err)
	}
	out := make(map[string]*template.Template, len(pages))
	for _, p := range pages {
		name := path.Base(p)
		if name == "layout.html" {
			continue
		}
		tpl := template.Must(template.New("layout.html").Funcs(baseFuncs).
			ParseFS(templateFS, "templates/layout.html", p))
		out[name] = tpl
	}
	return out
}

func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// longDate renders a YYYY-MM-DD string as a Spanish long date. Anything
// unparseable is shown as-is.
func longDate(date string) string {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return date
	}
	return email.LongDateES(t)
}

func requestFuncs(r *http.Request) template.FuncMap {
	sess, loggedIn := middleware.SessionFrom(r.Context())
	return template.FuncMap{
		"csrfField":    func() template.HTML { return csrf.TemplateField(r) },
		"csrfToken":    func() string { return csrf.Token(r) },
		"isLoggedIn":   func() bool { return loggedIn },
		"isAdmin":      func() bool { return middleware.IsAdmin(r.Context()) },
		"currentEmail": func() string { return sess.Email },
	}
}

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	renderTemplateStatus(w, r, http.StatusOK, templateName, data)
}

// renderTemplateStatus executes the page into a buffer first so a failed
// render still produces a clean 500.
func renderTemplateStatus(w http.ResponseWriter, r *http.Request, status int, templateName string, data any) {
	base, ok := pageTemplates[templateName]
	if !ok {
		internalError(w, &requestError{msg: "unknown template " + templateName})
		return
	}
	tpl, err := base.Clone()
	if err != nil {
		internalError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := tpl.Funcs(requestFuncs(r)).Execute(&buf, data); err != nil {
		slog.Error("template_render_failed", "template", templateName, "error", err)
		http.Error(w, msgInternal, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func renderNotFound(w http.ResponseWriter, r *http.Request) {
	renderTemplateStatus(w, r, http.StatusNotFound, "not_found.html", nil)
}

func pageError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("internal_error", "path", r.URL.Path, "error", err.Error())
	renderTemplateStatus(w, r, http.StatusInternalServerError, "error.html", nil)
}

func readContent(name string) (string, error) {
	b, err := contentFS.ReadFile("content/" + name + ".md")
	return string(b), err
}

// handleHome renders the landing page (GET /).
func handleHome(w http.ResponseWriter, r *http.Request) {
	body, err := readContent("home")
	if err != nil {
		pageError(w, r, err)
		return
	}
	renderTemplate(w, r, "public.html", map[string]any{"Title": "Inicio", "Body": body, "Page": "home"})
}

// handlePublicPage renders one markdown document (GET /public/{page}).
func handlePublicPage(w http.ResponseWriter, r *http.Request) {
	page := r.PathValue("page")
	title, ok := publicPages[page]
	if !ok {
		renderNotFound(w, r)
		return
	}
	body, err := readContent(page)
	if err != nil {
		pageError(w, r, err)
		return
	}
	renderTemplate(w, r, "public.html", map[string]any{"Title": title, "Body": body, "Page": page})
}

// handleLoginPage renders the sign-in form. Signed-in visitors go straight
// to their landing page.
func handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.SessionFrom(r.Context()); ok {
		http.Redirect(w, r, access.LandingPage(middleware.IsAdmin(r.Context())), http.StatusSeeOther)
		return
	}
	renderTemplate(w, r, "login.html", map[string]any{"Email": "", "Error": ""})
}

// handleRegisterPage renders the sign-up form with the plan choices.
func handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	plans, err := stores.PlanStore.List(r.Context())
	if err != nil {
		pageError(w, r, err)
		return
	}
	renderTemplate(w, r, "register.html", map[string]any{
		"Plans": plans,
		"Today": timeNow().In(cfg.Location).Format(time.DateOnly),
	})
}

func memberProfile(r *http.Request) (projections.ProfileView, error) {
	sess, _ := middleware.SessionFrom(r.Context())
	return projections.QueryGetProfile(r.Context(), projections.GetProfileQuery{
		UserID:  sess.UserID,
		IsAdmin: middleware.IsAdmin(r.Context()),
	}, projections.GetProfileDeps{Profiles: stores.ProfileStore, Location: cfg.Location, Now: timeNow})
}

// handleProfilePage renders the member's own profile (GET /profile).
func handleProfilePage(w http.ResponseWriter, r *http.Request) {
	view, err := memberProfile(r)
	if err != nil {
		pageError(w, r, err)
		return
	}
	children, err := projections.QueryChildren(r.Context(), view.ID, stores.ChildStore)
	if err != nil {
		pageError(w, r, err)
		return
	}
	renderTemplate(w, r, "profile.html", map[string]any{"Profile": view, "Children": children})
}

// handleProfileEditPage renders the self-service edit form.
func handleProfileEditPage(w http.ResponseWriter, r *http.Request) {
	view, err := memberProfile(r)
	if err != nil {
		pageError(w, r, err)
		return
	}
	renderTemplate(w, r, "profile_edit.html", map[string]any{"Profile": view})
}

// handleLogHoursPage renders the hours form with the member's classes.
func handleLogHoursPage(w http.ResponseWriter, r *http.Request) {
	view, err := memberProfile(r)
	if err != nil {
		pageError(w, r, err)
		return
	}
	classes, err := stores.ClassStore.List(r.Context())
	if err != nil {
		pageError(w, r, err)
		return
	}
	renderTemplate(w, r, "log_hours.html", map[string]any{
		"Profile": view,
		"Classes": classes,
		"Today":   timeNow().In(cfg.Location).Format(time.DateOnly),
	})
}

// handleWaiverPage renders the waiver text and signature form.
func handleWaiverPage(w http.ResponseWriter, r *http.Request) {
	view, err := memberProfile(r)
	if err != nil {
		pageError(w, r, err)
		return
	}
	text, err := readContent("waiver")
	if err != nil {
		pageError(w, r, err)
		return
	}
	renderTemplate(w, r, "waiver.html", map[string]any{"Profile": view, "Text": text})
}

// handleAdminDashboard renders the back-office counters (GET /admin).
func handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	m, err := projections.QueryAdminMetrics(r.Context(), metricsDeps())
	if err != nil {
		pageError(w, r, err)
		return
	}
	renderTemplate(w, r, "admin_dashboard.html", map[string]any{"Metrics": m})
}

// handleAdminUsersPage renders one page of students.
func handleAdminUsersPage(w http.ResponseWriter, r *http.Request) {
	params := listutil.Parse(r.URL.Query())
	result, err := projections.QueryAdminUsers(r.Context(), params,
		projections.AdminUsersDeps{Profiles: stores.ProfileStore})
	if err != nil {
		pageError(w, r, err)
		return
	}
	renderTemplate(w, r, "admin_users.html", map[string]any{"Result": result, "Search": params.Search})
}

// handleAdminUserPage renders one student's detail.
func handleAdminUserPage(w http.ResponseWriter, r *http.Request) {
	detail, err := projections.QueryAdminUserDetail(r.Context(), r.PathValue("id"), projections.AdminUserDetailDeps{
		Profiles:    stores.ProfileStore,
		Assignments: stores.AssignmentStore,
		Training:    stores.TrainingLogStore,
		ClassLogs:   stores.ClassLogStore,
	})
	if err != nil {
		if isNotFound(err) {
			renderNotFound(w, r)
			return
		}
		pageError(w, r, err)
		return
	}
	renderTemplate(w, r, "admin_user.html", map[string]any{"User": detail})
}

// handleAdminClassesPage renders the class roster.
func handleAdminClassesPage(w http.ResponseWriter, r *http.Request) {
	classes, err := stores.ClassStore.List(r.Context())
	if err != nil {
		pageError(w, r, err)
		return
	}
	renderTemplate(w, r, "admin_classes.html", map[string]any{"Classes": classes})
}

// handleAdminMembershipsPage renders plans with their stats.
func handleAdminMembershipsPage(w http.ResponseWriter, r *http.Request) {
	stats, err := projections.QueryMembershipStats(r.Context(), projections.MembershipStatsDeps{
		Plans:       stores.PlanStore,
		Assignments: stores.AssignmentStore,
	})
	if err != nil {
		pageError(w, r, err)
		return
	}
	plans, err := stores.PlanStore.List(r.Context())
	if err != nil {
		pageError(w, r, err)
		return
	}
	renderTemplate(w, r, "admin_memberships.html", map[string]any{"Plans": plans, "Stats": stats})
}

// handleAdminExpiringPage renders memberships ending soon.
func handleAdminExpiringPage(w http.ResponseWriter, r *http.Request) {
	days := windowDays(r)
	result, err := projections.QueryExpiringMemberships(r.Context(),
		projections.MembershipListQuery{WindowDays: days}, membershipListDeps())
	if err != nil {
		pageError(w, r, err)
		return
	}
	renderTemplate(w, r, "admin_membership_list.html", map[string]any{
		"Title":     "Membresías por vencer",
		"Result":    result,
		"Days":      days,
		"Reminders": true,
	})
}

// handleAdminPendingPage renders memberships past their end date.
func handleAdminPendingPage(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryPendingMemberships(r.Context(), membershipListDeps())
	if err != nil {
		pageError(w, r, err)
		return
	}
	renderTemplate(w, r, "admin_membership_list.html", map[string]any{
		"Title":  "Pagos pendientes",
		"Result": result,
	})
}

// handleAdminLogsPage renders recent class sessions.
func handleAdminLogsPage(w http.ResponseWriter, r *http.Request) {
	logs, err := stores.ClassLogStore.List(r.Context(), classLogStore.ListFilter{
		UserID: r.URL.Query().Get("user_id"),
		Limit:  listutil.MaxPerPage,
	})
	if err != nil {
		pageError(w, r, err)
		return
	}
	renderTemplate(w, r, "admin_logs.html", map[string]any{"Logs": logs})
}

// handleAdminReportsPage renders the audit trail.
func handleAdminReportsPage(w http.ResponseWriter, r *http.Request) {
	level := r.URL.Query().Get("level")
	entries, err := projections.QueryReports(r.Context(), projections.ReportsQuery{Level: level}, stores.AuditStore)
	if err != nil {
		pageError(w, r, err)
		return
	}
	renderTemplate(w, r, "admin_reports.html", map[string]any{"Entries": entries, "Level": level})
}
