// Package resp provides the JSON response helpers used by the API handlers.
//
// Success responses carry the payload as the body:
//
//	resp.Success(w, posts)
//	resp.WithStatusCode(w, http.StatusCreated, post)
//
// Failures carry a business code from ecode:
//
//	resp.Fail(w, resp.BadRequest("text required"))
//	// {"code":-400,"message":"text required"}
package resp
