package web

import (
	"log/slog"
	"net/http"

	"dojo/internal/adapters/http/middleware"
	"dojo/internal/application/orchestrators"
)

type contactRequest struct {
	Name    string `json:"name" validate:"required,max=120"`
	Email   string `json:"email" validate:"omitempty,email,max=254"`
	Phone   string `json:"phone" validate:"max=40"`
	Message string `json:"message" validate:"max=4000"`
}

// handleContact forwards a lead from the public contact page
// (POST /api/contact). Delivery problems are not reported to the visitor.
func handleContact(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req contactRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	err := orchestrators.ExecuteContact(r.Context(), orchestrators.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	}, orchestrators.ContactDeps{Notifier: leadNotifier})
	if err != nil {
		if orchestrators.IsValidation(err) {
			writeError(w, http.StatusBadRequest, "Indica tu nombre y un correo o teléfono.")
			return
		}
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]bool{"ok": true})
}

type clientErrorRequest struct {
	Source     string         `json:"source" validate:"max=40"`
	Message    string         `json:"message" validate:"required"`
	Stacktrace string         `json:"stacktrace"`
	Context    map[string]any `json:"context"`
}

// handleClientError records a browser error (POST /api/client-errors).
// The endpoint always answers 204 once the body parses, so a broken
// reporter never loops on its own failures.
func handleClientError(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req clientErrorRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	in := orchestrators.ClientErrorInput{
		Source:     req.Source,
		Message:    req.Message,
		Stacktrace: req.Stacktrace,
		Context:    req.Context,
	}
	if sess, ok := middleware.SessionFrom(r.Context()); ok {
		in.UserID = sess.UserID
		in.Email = sess.Email
	}
	err := orchestrators.ExecuteRecordClientError(r.Context(), in,
		orchestrators.ClientErrorDeps{Audit: stores.AuditStore, Now: timeNow})
	if err != nil {
		slog.Warn("client_error_not_recorded", "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}
