package web

import (
	"net/http"
	"strconv"
	"time"

	classLogStore "dojo/internal/adapters/storage/classlog"
	"dojo/internal/application/listutil"
	"dojo/internal/application/orchestrators"
	"dojo/internal/application/projections"
)

// handleAdminUsers lists students (GET /api/admin/users).
func handleAdminUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	result, err := projections.QueryAdminUsers(r.Context(), listutil.Parse(r.URL.Query()),
		projections.AdminUsersDeps{Profiles: stores.ProfileStore})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type adminUserPatch struct {
	StudentNotes string `json:"student_notes" validate:"max=4000"`
	BeltLevel    string `json:"belt_level" validate:"omitempty,oneof=white blue purple brown black"`
}

// handleAdminUser handles GET (detail) and PATCH (notes and belt) for
// /api/admin/users/{id}.
func handleAdminUser(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		detail, err := projections.QueryAdminUserDetail(ctx, id, projections.AdminUserDetailDeps{
			Profiles:    stores.ProfileStore,
			Assignments: stores.AssignmentStore,
			Training:    stores.TrainingLogStore,
			ClassLogs:   stores.ClassLogStore,
		})
		if err != nil {
			writeActionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, detail)

	case http.MethodPatch:
		var req adminUserPatch
		if err := decodeJSON(w, r, &req); err != nil {
			badRequest(w, err)
			return
		}
		err := orchestrators.ExecuteAdminUpdateUser(ctx, orchestrators.AdminUpdateUserInput{
			ActorID:      sess.UserID,
			ActorEmail:   sess.Email,
			UserID:       id,
			StudentNotes: req.StudentNotes,
			BeltLevel:    req.BeltLevel,
		}, orchestrators.AdminUpdateUserDeps{
			Profiles: stores.ProfileStore,
			Audit:    stores.AuditStore,
			Now:      timeNow,
		})
		if err != nil {
			writeActionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": id, "student_notes": req.StudentNotes, "belt_level": req.BeltLevel})

	default:
		methodNotAllowed(w)
	}
}

// handleAdminRevokeWaiver revokes a member's waiver
// (DELETE /api/admin/users/{id}/waiver).
func handleAdminRevokeWaiver(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w)
		return
	}
	sess, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	err := orchestrators.ExecuteRevokeWaiver(r.Context(), orchestrators.RevokeWaiverInput{
		ActorID:    sess.UserID,
		ActorEmail: sess.Email,
		UserID:     r.PathValue("id"),
	}, orchestrators.RevokeWaiverDeps{Waivers: stores.WaiverStore, Audit: stores.AuditStore, Now: timeNow})
	if err != nil {
		writeActionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type classRequest struct {
	Name     string `json:"name" validate:"required,max=80"`
	Coach    string `json:"coach" validate:"required,max=80"`
	Schedule string `json:"schedule" validate:"max=120"`
	Capacity int    `json:"capacity" validate:"required,gt=0,lte=500"`
	Enrolled int    `json:"enrolled" validate:"gte=0"`
}

func classDeps() orchestrators.ClassDeps {
	return orchestrators.ClassDeps{Classes: stores.ClassStore, Audit: stores.AuditStore, Now: timeNow, GenerateID: generateID}
}

// handleAdminClasses handles GET (list) and POST (create) for /api/admin/classes.
func handleAdminClasses(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		classes, err := stores.ClassStore.List(r.Context())
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, nonNil(classes))
	case http.MethodPost:
		saveClass(w, r, sess.UserID, sess.Email, "")
	default:
		methodNotAllowed(w)
	}
}

// handleAdminClass handles PUT and DELETE for /api/admin/classes/{id}.
func handleAdminClass(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")
	switch r.Method {
	case http.MethodPut:
		saveClass(w, r, sess.UserID, sess.Email, id)
	case http.MethodDelete:
		if err := orchestrators.ExecuteDeleteClass(r.Context(), sess.UserID, sess.Email, id, classDeps()); err != nil {
			writeActionError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w)
	}
}

func saveClass(w http.ResponseWriter, r *http.Request, actorID, actorEmail, id string) {
	var req classRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	c, err := orchestrators.ExecuteSaveClass(r.Context(), orchestrators.SaveClassInput{
		ActorID:    actorID,
		ActorEmail: actorEmail,
		ID:         id,
		Name:       req.Name,
		Coach:      req.Coach,
		Schedule:   req.Schedule,
		Capacity:   req.Capacity,
		Enrolled:   req.Enrolled,
	}, classDeps())
	if err != nil {
		writeActionError(w, err)
		return
	}
	writeJSON(w, createdOrOK(id), c)
}

type planRequest struct {
	Type         string  `json:"type" validate:"required,max=80"`
	Price        float64 `json:"price" validate:"gte=0"`
	Duration     string  `json:"duration" validate:"required,max=80"`
	DurationDays int     `json:"duration_days" validate:"omitempty,gt=0,lte=3660"`
}

func planDeps() orchestrators.PlanDeps {
	return orchestrators.PlanDeps{Plans: stores.PlanStore, Audit: stores.AuditStore, Now: timeNow, GenerateID: generateID}
}

// handleAdminMemberships handles GET (list plans) and POST (create plan)
// for /api/admin/memberships.
func handleAdminMemberships(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		plans, err := stores.PlanStore.List(r.Context())
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, nonNil(plans))
	case http.MethodPost:
		savePlan(w, r, sess.UserID, sess.Email, "")
	default:
		methodNotAllowed(w)
	}
}

// handleAdminMembership handles PUT and DELETE for /api/admin/memberships/{id}.
func handleAdminMembership(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")
	switch r.Method {
	case http.MethodPut:
		savePlan(w, r, sess.UserID, sess.Email, id)
	case http.MethodDelete:
		if err := orchestrators.ExecuteDeletePlan(r.Context(), sess.UserID, sess.Email, id, planDeps()); err != nil {
			writeActionError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w)
	}
}

func savePlan(w http.ResponseWriter, r *http.Request, actorID, actorEmail, id string) {
	var req planRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	p, err := orchestrators.ExecuteSavePlan(r.Context(), orchestrators.SavePlanInput{
		ActorID:      actorID,
		ActorEmail:   actorEmail,
		ID:           id,
		Type:         req.Type,
		Price:        req.Price,
		Duration:     req.Duration,
		DurationDays: req.DurationDays,
	}, planDeps())
	if err != nil {
		writeActionError(w, err)
		return
	}
	writeJSON(w, createdOrOK(id), p)
}

type assignRequest struct {
	UserID       string  `json:"user_id" validate:"required"`
	MembershipID string  `json:"membership_id" validate:"required"`
	StartDate    string  `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	TotalPaid    float64 `json:"total_paid" validate:"gte=0"`
}

// handleAssignMembership creates an assignment (POST /api/admin/memberships/assign).
func handleAssignMembership(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	sess, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	var req assignRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	a, err := orchestrators.ExecuteAssignMembership(r.Context(), orchestrators.AssignMembershipInput{
		ActorID:      sess.UserID,
		ActorEmail:   sess.Email,
		UserID:       req.UserID,
		MembershipID: req.MembershipID,
		StartDate:    req.StartDate,
		TotalPaid:    req.TotalPaid,
	}, orchestrators.AssignMembershipDeps{
		Plans:       stores.PlanStore,
		Profiles:    stores.ProfileStore,
		Assignments: stores.AssignmentStore,
		Audit:       stores.AuditStore,
		Location:    cfg.Location,
		Now:         timeNow,
		GenerateID:  generateID,
	})
	if err != nil {
		writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func membershipListDeps() projections.MembershipListDeps {
	return projections.MembershipListDeps{Assignments: stores.AssignmentStore, Location: cfg.Location, Now: timeNow}
}

// windowDays reads ?days=, falling back to the configured reminder window.
func windowDays(r *http.Request) int {
	if n, err := strconv.Atoi(r.URL.Query().Get("days")); err == nil && n >= 0 && n <= 365 {
		return n
	}
	return cfg.ReminderWindowDays
}

// handleExpiringMemberships lists active assignments ending within the
// window (GET /api/admin/memberships/expiring).
func handleExpiringMemberships(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	result, err := projections.QueryExpiringMemberships(r.Context(),
		projections.MembershipListQuery{WindowDays: windowDays(r)}, membershipListDeps())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handlePendingMemberships lists active assignments already past their end
// date (GET /api/admin/memberships/pending).
func handlePendingMemberships(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	result, err := projections.QueryPendingMemberships(r.Context(), membershipListDeps())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleMembershipStats serves per-plan counts and revenue
// (GET /api/admin/memberships/stats).
func handleMembershipStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	stats, err := projections.QueryMembershipStats(r.Context(), projections.MembershipStatsDeps{
		Plans:       stores.PlanStore,
		Assignments: stores.AssignmentStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type classLogRequest struct {
	UserID          string `json:"user_id" validate:"required"`
	ClassName       string `json:"class_name" validate:"required,max=80"`
	Instructor      string `json:"instructor" validate:"max=80"`
	Date            string `json:"date" validate:"required,datetime=2006-01-02"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,gte=1,lte=600"`
	Notes           string `json:"notes" validate:"max=2000"`
}

func classLogDeps() orchestrators.ClassLogDeps {
	return orchestrators.ClassLogDeps{
		Logs:       stores.ClassLogStore,
		Profiles:   stores.ProfileStore,
		Audit:      stores.AuditStore,
		Now:        timeNow,
		GenerateID: generateID,
	}
}

// handleAdminLogs handles GET (list) and POST (create) for /api/admin/logs.
func handleAdminLogs(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit <= 0 || limit > listutil.MaxPerPage {
			limit = listutil.MaxPerPage
		}
		logs, err := stores.ClassLogStore.List(r.Context(), classLogStore.ListFilter{
			UserID: r.URL.Query().Get("user_id"),
			Limit:  limit,
		})
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, nonNil(logs))
	case http.MethodPost:
		saveClassLog(w, r, sess.UserID, sess.Email, "")
	default:
		methodNotAllowed(w)
	}
}

// handleAdminLog handles PUT and DELETE for /api/admin/logs/{id}.
func handleAdminLog(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")
	switch r.Method {
	case http.MethodPut:
		saveClassLog(w, r, sess.UserID, sess.Email, id)
	case http.MethodDelete:
		if err := orchestrators.ExecuteDeleteClassLog(r.Context(), sess.UserID, sess.Email, id, classLogDeps()); err != nil {
			writeActionError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w)
	}
}

func saveClassLog(w http.ResponseWriter, r *http.Request, actorID, actorEmail, id string) {
	var req classLogRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	l, err := orchestrators.ExecuteSaveClassLog(r.Context(), orchestrators.SaveClassLogInput{
		ActorID:         actorID,
		ActorEmail:      actorEmail,
		ID:              id,
		UserID:          req.UserID,
		ClassName:       req.ClassName,
		Instructor:      req.Instructor,
		Date:            req.Date,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
	}, classLogDeps())
	if err != nil {
		writeActionError(w, err)
		return
	}
	writeJSON(w, createdOrOK(id), l)
}

// handleAdminReports serves the latest audit entries (GET /api/admin/reports).
func handleAdminReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	entries, err := projections.QueryReports(r.Context(),
		projections.ReportsQuery{Level: r.URL.Query().Get("level")}, stores.AuditStore)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func metricsDeps() projections.MetricsDeps {
	return projections.MetricsDeps{
		Assignments: stores.AssignmentStore,
		TrainingLog: stores.TrainingLogStore,
		Classes:     stores.ClassStore,
		ClassLogs:   stores.ClassLogStore,
		Location:    cfg.Location,
		Now:         timeNow,
	}
}

// handleAdminMetrics serves the dashboard counters (GET /api/admin/metrics).
func handleAdminMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	m, err := projections.QueryAdminMetrics(r.Context(), metricsDeps())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// handleSendReminders e-mails members whose membership is about to end
// (POST /api/admin/reminders).
func handleSendReminders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	sess, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	result, err := orchestrators.ExecuteSendReminders(r.Context(), orchestrators.SendRemindersInput{
		ActorID:    sess.UserID,
		ActorEmail: sess.Email,
	}, orchestrators.SendRemindersDeps{
		Assignments: stores.AssignmentStore,
		Sender:      emailSender,
		Audit:       stores.AuditStore,
		WindowDays:  cfg.ReminderWindowDays,
		Location:    cfg.Location,
		Now:         timeNow,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleAdminPerf serves request and query timings from the last
// ?minutes= (default 15) minutes (GET /api/admin/perf).
func handleAdminPerf(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	if perfCollector == nil {
		writeError(w, http.StatusNotFound, msgNotFound)
		return
	}
	minutes, err := strconv.Atoi(r.URL.Query().Get("minutes"))
	if err != nil || minutes <= 0 || minutes > 24*60 {
		minutes = 15
	}
	since := timeNow().Add(-time.Duration(minutes) * time.Minute)
	writeJSON(w, http.StatusOK, perfCollector.Snapshot(since, 10))
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func createdOrOK(id string) int {
	if id == "" {
		return http.StatusCreated
	}
	return http.StatusOK
}
