package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"dojo/internal/adapters/http/middleware"
	"dojo/internal/adapters/identity"
	"dojo/internal/adapters/storage"
	"dojo/internal/application/orchestrators"
	"dojo/internal/domain/waiver"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// Client-facing messages. Internal error text never reaches the client.
const (
	msgUnauthenticated = "No autenticado."
	msgForbidden       = "No autorizado."
	msgInternal        = "Error interno del servidor."
	msgNotFound        = "No encontrado."
	msgInvalidJSON     = "JSON inválido."
	msgAlreadySigned   = "Ya has firmado el documento."
)

func generateID() string {
	return uuid.New().String()
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("json_encode_failed", "error", err)
	}
}

// writeError sends {"error": msg}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// internalError logs the real error and returns a generic message.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	writeError(w, http.StatusInternalServerError, msgInternal)
}

// requestError is a decode or validation failure reported as 400.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

// decodeJSON reads a JSON body into v, rejecting unknown fields, and runs
// the struct's validate tags.
// POST: Returns a *requestError for anything the client must fix
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return &requestError{msg: "Falta el cuerpo de la solicitud."}
		}
		return &requestError{msg: msgInvalidJSON}
	}
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return &requestError{msg: fieldMessage(verrs[0])}
		}
		return &requestError{msg: err.Error()}
	}
	return nil
}

// fieldMessage renders the first failing rule for a field.
func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("El campo %s es obligatorio.", field)
	case "email":
		return fmt.Sprintf("El campo %s debe ser un correo válido.", field)
	case "min", "gte", "gt":
		return fmt.Sprintf("El campo %s debe ser al menos %s.", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("El campo %s no puede exceder %s.", field, fe.Param())
	case "datetime":
		return fmt.Sprintf("El campo %s debe tener el formato AAAA-MM-DD.", field)
	case "oneof":
		return fmt.Sprintf("El campo %s debe ser uno de: %s.", field, fe.Param())
	default:
		return fmt.Sprintf("El campo %s no es válido.", field)
	}
}

// badRequest answers a decodeJSON failure.
func badRequest(w http.ResponseWriter, err error) {
	var re *requestError
	if errors.As(err, &re) {
		writeError(w, http.StatusBadRequest, re.msg)
		return
	}
	writeError(w, http.StatusBadRequest, msgInvalidJSON)
}

// writeActionError maps orchestrator and store errors onto status codes.
func writeActionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, waiver.ErrAlreadySigned):
		writeError(w, http.StatusBadRequest, msgAlreadySigned)
	case errors.Is(err, identity.ErrEmailTaken):
		writeError(w, http.StatusConflict, "El correo ya está registrado.")
	case orchestrators.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, orchestrators.ErrForbidden):
		writeError(w, http.StatusForbidden, msgForbidden)
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, msgNotFound)
	default:
		internalError(w, err)
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}

// requireSession returns the caller's session or answers 401.
func requireSession(w http.ResponseWriter, r *http.Request) (identity.Session, bool) {
	sess, ok := middleware.SessionFrom(r.Context())
	if !ok {
		slog.Warn("auth_denied", "path", r.URL.Path, "reason", "no session")
		writeError(w, http.StatusUnauthorized, msgUnauthenticated)
		return identity.Session{}, false
	}
	return sess, true
}

// requireAdmin returns the caller's session when it belongs to an admin,
// answering 401 or 403 otherwise.
func requireAdmin(w http.ResponseWriter, r *http.Request) (identity.Session, bool) {
	sess, ok := requireSession(w, r)
	if !ok {
		return identity.Session{}, false
	}
	if !middleware.IsAdmin(r.Context()) {
		slog.Warn("auth_denied", "path", r.URL.Path, "user_id", sess.UserID, "required", "admin")
		writeError(w, http.StatusForbidden, msgForbidden)
		return identity.Session{}, false
	}
	return sess, true
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "Método no permitido.")
}

func isHTMLRequest(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") || strings.Contains(accept, "application/xhtml+xml")
}
