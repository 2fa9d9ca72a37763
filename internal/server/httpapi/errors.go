package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/storefront/internal/common"
)

// Error is the JSON body of every failed request.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	ErrCodeBadRequest      = "bad_request"
	ErrCodeUnauthenticated = "unauthenticated"
	ErrCodeForbidden       = "forbidden"
	ErrCodeNotFound        = "not_found"
	ErrCodeConflict        = "conflict"
	ErrCodeValidation      = "validation_error"
	ErrCodeRateLimited     = "rate_limited"
	ErrCodeInternal        = "internal_error"
)

// errorMapping binds a sentinel error to its HTTP status and code. The first
// match wins.
var errorMapping = []struct {
	err    error
	status int
	code   string
}{
	{common.ErrNotAuthenticated, http.StatusUnauthorized, ErrCodeUnauthenticated},
	{common.ErrInvalidSession, http.StatusUnauthorized, ErrCodeUnauthenticated},
	{common.ErrForbidden, http.StatusForbidden, ErrCodeForbidden},
	{common.ErrUserNotFound, http.StatusNotFound, ErrCodeNotFound},
	{common.ErrorNotFound, http.StatusNotFound, ErrCodeNotFound},
	{common.ErrInvalidPassword, http.StatusBadRequest, ErrCodeBadRequest},
	{common.ErrPasswordMismatch, http.StatusBadRequest, ErrCodeBadRequest},
	{common.ErrInvalidOrExpiredToken, http.StatusBadRequest, ErrCodeBadRequest},
	{common.ErrValidation, http.StatusBadRequest, ErrCodeValidation},
	{common.ErrEmailTaken, http.StatusConflict, ErrCodeConflict},
	{common.ErrRateLimited, http.StatusTooManyRequests, ErrCodeRateLimited},
}

// writeJSON writes v as the JSON response body. A nil v is encoded as null.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // best-effort write; the client may be gone
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// writeServiceError maps a service error onto a response. Errors outside the
// known taxonomy are logged and answered with a generic 500.
func (s *HTTPServer) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	for _, m := range errorMapping {
		if !errors.Is(err, m.err) {
			continue
		}
		message := m.err.Error()
		var ue *common.UserError
		if errors.As(err, &ue) {
			message = ue.Message
		}
		writeError(w, m.status, m.code, message)
		return
	}

	s.logger.Error(r.Context(), "request failed",
		"error", err,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", requestIDFromContext(r.Context()),
	)
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
}

// decodeJSON reads the request body into v, answering 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeBadRequest(w, "invalid request body")
		return false
	}
	return true
}
