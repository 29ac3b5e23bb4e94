package web

import (
	"net/http"

	"dojo/internal/adapters/http/middleware"
	"dojo/internal/application/orchestrators"
	"dojo/internal/application/projections"
)

// handleProfile handles GET (read), PUT (self-update) and POST (register)
// for /api/profile.
func handleProfile(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		handleGetProfile(w, r)
	case http.MethodPut:
		handleUpdateProfile(w, r)
	case http.MethodPost:
		handleRegister(w, r)
	default:
		methodNotAllowed(w)
	}
}

// handleGetProfile serves the caller's profile with role and next payment
// resolved.
func handleGetProfile(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	view, err := projections.QueryGetProfile(r.Context(), projections.GetProfileQuery{
		UserID:  sess.UserID,
		IsAdmin: middleware.IsAdmin(r.Context()),
	}, projections.GetProfileDeps{
		Profiles: stores.ProfileStore,
		Location: cfg.Location,
		Now:      timeNow,
	})
	if err != nil {
		writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type updateProfileRequest struct {
	Name          *string  `json:"name" validate:"omitempty,min=1,max=120"`
	Avatar        *string  `json:"avatar" validate:"omitempty,max=500"`
	BirthDate     *string  `json:"birthDate" validate:"omitempty,datetime=2006-01-02"`
	Nationality   *string  `json:"nationality" validate:"omitempty,max=80"`
	HasExperience *bool    `json:"hasExperience"`
	HowFound      *string  `json:"howFound" validate:"omitempty,max=200"`
	HealthInfo    *string  `json:"healthInfo" validate:"omitempty,max=2000"`
	IsMinor       *bool    `json:"isMinor"`
	ParentName    *string  `json:"parentName" validate:"omitempty,max=120"`
	ParentPhone   *string  `json:"parentPhone" validate:"omitempty,max=40"`
	Address       *string  `json:"address" validate:"omitempty,max=300"`
	Classes       []string `json:"classes" validate:"omitempty,max=20,dive,max=80"`
}

// handleUpdateProfile applies a partial update to the caller's own profile.
// Role, belt, notes and rollups are not editable here.
func handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	var req updateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}

	p, err := orchestrators.ExecuteUpdateProfile(r.Context(), orchestrators.UpdateProfileInput{
		UserID:        sess.UserID,
		FullName:      req.Name,
		Avatar:        req.Avatar,
		BirthDate:     req.BirthDate,
		Nationality:   req.Nationality,
		HasExperience: req.HasExperience,
		HowFound:      req.HowFound,
		HealthInfo:    req.HealthInfo,
		Underage:      req.IsMinor,
		ParentName:    req.ParentName,
		ParentPhone:   req.ParentPhone,
		Address:       req.Address,
		Classes:       req.Classes,
	}, orchestrators.UpdateProfileDeps{Profiles: stores.ProfileStore})
	if err != nil {
		writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": p.ID, "updated": true})
}

type logHoursRequest struct {
	ClassName string  `json:"className" validate:"required,max=80"`
	Date      string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Hours     float64 `json:"hours" validate:"required,gt=0,lte=12"`
}

// handleLogHours appends a training entry for the caller (POST /api/log-hours).
func handleLogHours(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	var req logHoursRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}

	result, err := orchestrators.ExecuteLogHours(r.Context(), orchestrators.LogHoursInput{
		UserID:    sess.UserID,
		Email:     sess.Email,
		ClassName: req.ClassName,
		Date:      req.Date,
		Hours:     req.Hours,
	}, orchestrators.LogHoursDeps{
		Logs:       stores.TrainingLogStore,
		Profiles:   stores.ProfileStore,
		Audit:      stores.AuditStore,
		Location:   cfg.Location,
		Now:        timeNow,
		GenerateID: generateID,
	})
	if err != nil {
		writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"entry":         result.Entry,
		"training":      result.Profile.Training,
		"classProgress": result.Profile.ClassProgress,
		"streak":        result.Profile.Streak,
	})
}

type waiverRequest struct {
	IsMinor          bool   `json:"isMinor"`
	MinorName        string `json:"minorName" validate:"required_if=IsMinor true,max=120"`
	MinorAge         *int   `json:"minorAge" validate:"omitempty,gte=0,lt=18"`
	ParticipantName  string `json:"participantName" validate:"required_if=IsMinor false,max=120"`
	ParticipantAge   *int   `json:"participantAge" validate:"omitempty,gte=0,lte=120"`
	ParticipantEmail string `json:"participantEmail" validate:"omitempty,email"`
	GuardianName     string `json:"guardianName" validate:"required_if=IsMinor true,max=120"`
	GuardianRelation string `json:"guardianRelation" validate:"required_if=IsMinor true,max=60"`
	SignatureURL     string `json:"signatureUrl" validate:"required,max=1000"`
	Owners           string `json:"owners" validate:"max=200"`
	AcceptedESignLaw bool   `json:"acceptedESignLaw"`
	AllowImageRights bool   `json:"allowImageRights"`
}

// handleWaiver records the caller's liability waiver (POST /api/waiver).
// A second active waiver for the same user is rejected with 400.
func handleWaiver(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	var req waiverRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}

	wv, err := orchestrators.ExecuteSignWaiver(r.Context(), orchestrators.SignWaiverInput{
		UserID:           sess.UserID,
		Email:            sess.Email,
		IsMinor:          req.IsMinor,
		MinorName:        req.MinorName,
		MinorAge:         req.MinorAge,
		ParticipantName:  req.ParticipantName,
		ParticipantAge:   req.ParticipantAge,
		ParticipantEmail: req.ParticipantEmail,
		GuardianName:     req.GuardianName,
		GuardianRelation: req.GuardianRelation,
		SignatureURL:     req.SignatureURL,
		Owners:           req.Owners,
		AcceptedESignLaw: req.AcceptedESignLaw,
		AllowImageRights: req.AllowImageRights,
	}, orchestrators.SignWaiverDeps{
		Waivers:    stores.WaiverStore,
		Audit:      stores.AuditStore,
		Now:        timeNow,
		GenerateID: generateID,
	})
	if err != nil {
		writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": wv.ID, "signedAt": wv.SignedAt})
}

type childRequest struct {
	Name       string `json:"name" validate:"required,max=120"`
	BirthDate  string `json:"birthDate" validate:"omitempty,datetime=2006-01-02"`
	HealthInfo string `json:"healthInfo" validate:"max=2000"`
	Relation   string `json:"relation" validate:"omitempty,oneof=parent guardian"`
}

// handleChildren handles GET (list) and POST (create) for /api/children.
func handleChildren(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		children, err := projections.QueryChildren(ctx, sess.UserID, stores.ChildStore)
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, children)

	case http.MethodPost:
		var req childRequest
		if err := decodeJSON(w, r, &req); err != nil {
			badRequest(w, err)
			return
		}
		c, err := orchestrators.ExecuteCreateChild(ctx, orchestrators.CreateChildInput{
			ParentID:   sess.UserID,
			Email:      sess.Email,
			FullName:   req.Name,
			BirthDate:  req.BirthDate,
			HealthInfo: req.HealthInfo,
			Relation:   req.Relation,
		}, orchestrators.CreateChildDeps{
			Children:   stores.ChildStore,
			Audit:      stores.AuditStore,
			Now:        timeNow,
			GenerateID: generateID,
		})
		if err != nil {
			writeActionError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, projections.ChildView{
			ID:         c.ID,
			Name:       c.FullName,
			BirthDate:  c.BirthDate,
			HealthInfo: c.HealthInfo,
		})

	default:
		methodNotAllowed(w)
	}
}
