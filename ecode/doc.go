// Package ecode defines the business codes returned in API responses.
//
// Codes follow the ranges:
//   - 0: success
//   - -1 to -99: application errors
//   - -100 to -199: authentication errors
//   - -400 to -499: request and resource errors
//   - -500+: server and store errors
//
// Look up a message or HTTP status for a code:
//
//	ecode.Text(ecode.NoLogin)         // "Account not logged in"
//	ecode.ToHTTPStatus(ecode.NoLogin) // 401
//
// The message helpers build short field messages for validation failures:
//
//	ecode.FieldIsRequired("text") // "text required"
package ecode
