package resp

import (
	"encoding/json"
	"net/http"

	"github.com/ncobase/postfeed/ecode"
)

// Exception represents the response structure.
type Exception struct {
	Status  int    `json:"status,omitempty"`  // HTTP status
	Code    int    `json:"code,omitempty"`    // Business code
	Message string `json:"message,omitempty"` // Message
	Errors  any    `json:"errors,omitempty"`  // Validation errors
	Data    any    `json:"data,omitempty"`    // Response data
}

func newResponse(status, code int, message string, data ...any) *Exception {
	var payload any
	if len(data) > 0 {
		payload = data[0]
	}

	if status < 200 || status >= 400 || code != 0 {
		return &Exception{Status: status, Code: code, Message: message, Errors: payload}
	}
	return &Exception{Status: status, Code: code, Message: message, Data: payload}
}

// Success writes a 200 response.
func Success(w http.ResponseWriter, data ...any) {
	WithStatusCode(w, http.StatusOK, data...)
}

// WithStatusCode writes a success response with a custom status code.
// A single string argument is sent as the message.
func WithStatusCode(w http.ResponseWriter, statusCode int, data ...any) {
	var message string
	var payload any

	if len(data) > 0 {
		payload = data[0]
		if s, ok := payload.(string); ok {
			message = s
			payload = nil
		}
	}

	status, body := buildSuccessResponse(newResponse(statusCode, 0, message, payload))
	writeJSON(w, status, body)
}

func buildSuccessResponse(r *Exception) (int, any) {
	status := http.StatusOK
	if r.Status != 0 {
		status = r.Status
	}
	if status < 200 || status >= 400 {
		return buildFailureResponse(r)
	}
	if status == http.StatusNoContent {
		return status, nil
	}
	if r.Data != nil {
		return status, r.Data
	}

	message := "ok"
	if r.Message != "" {
		message = r.Message
	}
	return status, map[string]any{"message": message}
}

// Fail writes a failure response. A nil exception is sent as a server error.
func Fail(w http.ResponseWriter, r *Exception) {
	if r == nil {
		r = &Exception{
			Status:  http.StatusInternalServerError,
			Code:    ecode.ServerErr,
			Message: ecode.Text(ecode.ServerErr),
		}
	}
	status, body := buildFailureResponse(r)
	writeJSON(w, status, body)
}

func buildFailureResponse(r *Exception) (int, any) {
	status := http.StatusBadRequest
	code := ecode.RequestErr

	if r.Status != 0 {
		status = r.Status
	}
	if r.Code != 0 {
		code = r.Code
	}
	message := r.Message
	if message == "" {
		message = ecode.Text(code)
	}

	return status, &Exception{
		Code:    code,
		Message: message,
		Errors:  r.Errors,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	// headers must be set before WriteHeader
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, "Failed to encode JSON response", http.StatusInternalServerError)
	}
}
