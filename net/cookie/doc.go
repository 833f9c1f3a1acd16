// Package cookie sets and reads the access token and feed view cookies.
package cookie
