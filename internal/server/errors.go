package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"flashdeck/internal/app"
	"flashdeck/internal/util"
	"flashdeck/pkg/domain"
	"flashdeck/pkg/store"
)

type errorResponse struct {
	Error     string             `json:"error"`
	Code      string             `json:"code"`
	RequestID string             `json:"request_id,omitempty"`
	Fields    domain.FieldErrors `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Data: data})
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{
		Error:     msg,
		Code:      code,
		RequestID: strings.TrimSpace(w.Header().Get(util.RequestIDHeader)),
	})
}

func notFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, "SYSTEM_NOT_FOUND", "not found")
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "SYSTEM_METHOD_NOT_ALLOWED", "method not allowed")
}

// writeAppError maps application errors to a status and a stable code.
// Store details are logged, never sent to the client.
func (s *Server) writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	logger := util.LoggerFromContext(r.Context())

	var verr *app.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:     "the given data was invalid",
			Code:      "VALIDATION_FAILED",
			RequestID: strings.TrimSpace(w.Header().Get(util.RequestIDHeader)),
			Fields:    verr.Fields,
		})
		return
	}

	resource := "RESOURCE"
	var rerr *app.ResourceError
	if errors.As(err, &rerr) {
		resource = strings.ToUpper(rerr.Resource)
	}

	switch {
	case errors.Is(err, errBodyTooLarge):
		writeError(w, http.StatusBadRequest, "REQUEST_TOO_LARGE", "request body too large")
	case errors.Is(err, errInvalidBody):
		writeError(w, http.StatusBadRequest, "REQUEST_MALFORMED", err.Error())
	case errors.Is(err, app.ErrNotFound):
		writeError(w, http.StatusNotFound, resource+"_NOT_FOUND", strings.ToLower(resource)+" not found")
	case errors.Is(err, app.ErrForbidden):
		writeError(w, http.StatusForbidden, resource+"_FORBIDDEN", "forbidden")
	case errors.Is(err, app.ErrMalformedRequest):
		logger.Warn("write rejected", "err", err)
		if errors.Is(err, store.ErrForeignKey) {
			writeError(w, http.StatusBadRequest, "CARD_DECK_INVALID", "deck_id does not reference an existing deck")
			return
		}
		writeError(w, http.StatusBadRequest, "REQUEST_MALFORMED", "request could not be processed")
	case errors.Is(err, app.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "AUTH_INVALID_CREDENTIALS", app.ErrInvalidCredentials.Error())
	case errors.Is(err, app.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "AUTH_INVALID_TOKEN", "unauthenticated")
	default:
		logger.Error("request failed", "err", err)
		writeError(w, http.StatusInternalServerError, "SYSTEM_INTERNAL_ERROR", "internal error")
	}
}
