package resp

import (
	"net/http"

	"github.com/ncobase/postfeed/ecode"
)

// UnAuthorized indicates that the request carries no valid session.
func UnAuthorized(message string, data ...any) *Exception {
	return newResponse(http.StatusUnauthorized, ecode.NoLogin, message, data...)
}

// BadRequest indicates a bad request.
func BadRequest(message string, data ...any) *Exception {
	return newResponse(http.StatusBadRequest, ecode.RequestErr, message, data...)
}

// NotFound indicates that the requested resource is not found.
func NotFound(message string, data ...any) *Exception {
	return newResponse(http.StatusNotFound, ecode.NothingFound, message, data...)
}

// InternalServer indicates a server error.
func InternalServer(message string, data ...any) *Exception {
	return newResponse(http.StatusInternalServerError, ecode.ServerErr, message, data...)
}

// BadGateway indicates that the backing store rejected a write.
func BadGateway(message string, data ...any) *Exception {
	return newResponse(http.StatusBadGateway, ecode.StoreWrite, message, data...)
}

// ServiceUnavailable indicates that a dependency is not reachable.
func ServiceUnavailable(message string, data ...any) *Exception {
	return newResponse(http.StatusServiceUnavailable, ecode.ServiceUnavailable, message, data...)
}
