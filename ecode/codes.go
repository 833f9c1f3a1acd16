package ecode

import (
	"net/http"
	"sync"
)

// Business codes. 0 is success; negative values are failures grouped by range.
const (
	OK = 0

	// application
	ServiceUnavailable = -2
	Deadline           = -4

	// authentication
	NoLogin      = -101
	Unauthorized = -103
	AccessDenied = -403

	// request
	RequestErr       = -400
	ParamErr         = -401
	MethodNotAllowed = -405

	// resource
	NothingFound = -404
	Conflict     = -409

	// server
	ServerErr  = -500
	StoreWrite = -502
)

var (
	mu sync.RWMutex

	messages = map[int]string{
		OK:                 "ok",
		ServiceUnavailable: "Service unavailable",
		Deadline:           "Deadline exceeded",
		NoLogin:            "Account not logged in",
		Unauthorized:       "Unauthorized",
		AccessDenied:       "Access denied",
		RequestErr:         "Invalid request",
		ParamErr:           "Invalid parameters",
		MethodNotAllowed:   "Method not allowed",
		NothingFound:       "Nothing found",
		Conflict:           "Resource conflict",
		ServerErr:          "Internal server error",
		StoreWrite:         "Post could not be saved",
	}

	statuses = map[int]int{
		OK:                 http.StatusOK,
		ServiceUnavailable: http.StatusServiceUnavailable,
		Deadline:           http.StatusGatewayTimeout,
		NoLogin:            http.StatusUnauthorized,
		Unauthorized:       http.StatusUnauthorized,
		AccessDenied:       http.StatusForbidden,
		RequestErr:         http.StatusBadRequest,
		ParamErr:           http.StatusBadRequest,
		MethodNotAllowed:   http.StatusMethodNotAllowed,
		NothingFound:       http.StatusNotFound,
		Conflict:           http.StatusConflict,
		ServerErr:          http.StatusInternalServerError,
		StoreWrite:         http.StatusBadGateway,
	}
)

// Text returns the message registered for code, or the server error message
// for unknown codes.
func Text(code int) string {
	mu.RLock()
	defer mu.RUnlock()
	if msg, ok := messages[code]; ok {
		return msg
	}
	return messages[ServerErr]
}

// Register adds or replaces the message and HTTP status of a code.
func Register(code int, message string, status int) {
	mu.Lock()
	defer mu.Unlock()
	messages[code] = message
	if status != 0 {
		statuses[code] = status
	}
}

// ToHTTPStatus maps a business code to an HTTP status.
func ToHTTPStatus(code int) int {
	mu.RLock()
	defer mu.RUnlock()
	if status, ok := statuses[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
