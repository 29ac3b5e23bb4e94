package web

import "net/http"

// registerRoutes maps every page and API path. Page routes are GET only;
// API handlers dispatch on method themselves and answer 405 in JSON.
func registerRoutes(mux *http.ServeMux) {
	// Public pages
	mux.HandleFunc("GET /{$}", handleHome)
	mux.HandleFunc("GET /public/{page}", handlePublicPage)
	mux.HandleFunc("GET /login", handleLoginPage)
	mux.HandleFunc("GET /register", handleRegisterPage)

	// Member pages
	mux.HandleFunc("GET /profile", handleProfilePage)
	mux.HandleFunc("GET /profile/edit", handleProfileEditPage)
	mux.HandleFunc("GET /log-hours", handleLogHoursPage)
	mux.HandleFunc("GET /waiver", handleWaiverPage)

	// Admin pages
	mux.HandleFunc("GET /admin", handleAdminDashboard)
	mux.HandleFunc("GET /admin/users", handleAdminUsersPage)
	mux.HandleFunc("GET /admin/users/{id}", handleAdminUserPage)
	mux.HandleFunc("GET /admin/classes", handleAdminClassesPage)
	mux.HandleFunc("GET /admin/memberships", handleAdminMembershipsPage)
	mux.HandleFunc("GET /admin/memberships/expiring", handleAdminExpiringPage)
	mux.HandleFunc("GET /admin/memberships/pending", handleAdminPendingPage)
	mux.HandleFunc("GET /admin/logs", handleAdminLogsPage)
	mux.HandleFunc("GET /admin/reports", handleAdminReportsPage)

	// Auth and member API
	mux.HandleFunc("/api/login", handleAPILogin)
	mux.HandleFunc("/api/logout", handleAPILogout)
	mux.HandleFunc("/api/profile", handleProfile)
	mux.HandleFunc("/api/log-hours", handleLogHours)
	mux.HandleFunc("/api/waiver", handleWaiver)
	mux.HandleFunc("/api/children", handleChildren)
	mux.HandleFunc("/api/contact", handleContact)
	mux.HandleFunc("/api/client-errors", handleClientError)

	// Admin API
	mux.HandleFunc("/api/admin/users", handleAdminUsers)
	mux.HandleFunc("/api/admin/users/{id}", handleAdminUser)
	mux.HandleFunc("/api/admin/users/{id}/waiver", handleAdminRevokeWaiver)
	mux.HandleFunc("/api/admin/classes", handleAdminClasses)
	mux.HandleFunc("/api/admin/classes/{id}", handleAdminClass)
	mux.HandleFunc("/api/admin/memberships", handleAdminMemberships)
	mux.HandleFunc("/api/admin/memberships/assign", handleAssignMembership)
	mux.HandleFunc("/api/admin/memberships/expiring", handleExpiringMemberships)
	mux.HandleFunc("/api/admin/memberships/pending", handlePendingMemberships)
	mux.HandleFunc("/api/admin/memberships/stats", handleMembershipStats)
	mux.HandleFunc("/api/admin/memberships/{id}", handleAdminMembership)
	mux.HandleFunc("/api/admin/logs", handleAdminLogs)
	mux.HandleFunc("/api/admin/logs/{id}", handleAdminLog)
	mux.HandleFunc("/api/admin/reports", handleAdminReports)
	mux.HandleFunc("/api/admin/metrics", handleAdminMetrics)
	mux.HandleFunc("/api/admin/reminders", handleSendReminders)
	mux.HandleFunc("/api/admin/perf", handleAdminPerf)
}
