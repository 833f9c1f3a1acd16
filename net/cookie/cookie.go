package cookie

import (
	"net/http"
	"strings"
)

// Cookie names
const (
	AccessTokenName = "access_token"
	FeedViewName    = "feed_view"
)

// Cookie max ages (in seconds)
const (
	AccessTokenMaxAge = 60 * 60 * 24 // 24 hours
	FeedViewMaxAge    = 60 * 60 * 24 // 24 hours
)

// Options holds the attributes shared by every cookie the server sets.
type Options struct {
	Domain string
	Secure bool
}

func formatDomain(domain string) string {
	if domain != "" && domain != "localhost" && !strings.HasPrefix(domain, ".") {
		return "." + domain
	}
	return domain
}

func (o Options) set(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		MaxAge:   maxAge,
		Path:     "/",
		Domain:   formatDomain(o.Domain),
		Secure:   o.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// SetAccessToken sets access token cookie
func (o Options) SetAccessToken(w http.ResponseWriter, token string) {
	o.set(w, AccessTokenName, token, AccessTokenMaxAge)
}

// SetFeedView binds the browser to a feed view id.
func (o Options) SetFeedView(w http.ResponseWriter, id string) {
	o.set(w, FeedViewName, id, FeedViewMaxAge)
}

// Clear removes a cookie by name.
func (o Options) Clear(w http.ResponseWriter, name string) {
	o.set(w, name, "", -1)
}

// Get gets cookie value by name
func Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		return "", err
	}
	return c.Value, nil
}
