package web

// errors.go converts core errors into HTTP responses. The technical error is
// logged server-side with the request ID; the client gets the user-facing
// message and support code from core.MapError.

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avdw/planagrid/internal/core"
	"github.com/avdw/planagrid/internal/logging"
)

// errorResponse is the JSON shape of all error replies.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// respondError logs err and writes its user-facing rendering.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	msg := core.MapError(err)
	status := statusFor(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// statusFor picks the HTTP status for a core error: user input problems are
// 4xx, backend trouble is 502, everything else 500.
func statusFor(err error) int {
	var dateErr *core.DateCoercionError
	switch {
	case errors.Is(err, core.ErrMalformedIdentifier):
		return http.StatusBadRequest
	case errors.As(err, &dateErr):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrNoPrimaryKey):
		return http.StatusConflict
	case errors.Is(err, core.ErrIndexOutOfRange):
		return http.StatusConflict
	default:
		var stErr *core.StorageError
		var loadErr *core.LoadError
		if errors.As(err, &stErr) || errors.As(err, &loadErr) {
			return http.StatusBadGateway
		}
		return http.StatusInternalServerError
	}
}

// writeJSON writes v as a JSON response body.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// writeError writes a plain error message with the given status.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: message, Message: message, Code: "REQ001"})
}
