package cookie

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetFeedView(t *testing.T) {
	w := httptest.NewRecorder()
	Options{Domain: "example.com", Secure: true}.SetFeedView(w, "v1")

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, FeedViewName, c.Name)
	assert.Equal(t, "v1", c.Value)
	assert.Equal(t, "example.com", c.Domain)
	assert.True(t, c.Secure)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
}

func TestClear(t *testing.T) {
	w := httptest.NewRecorder()
	Options{}.Clear(w, AccessTokenName)

	c := w.Result().Cookies()[0]
	assert.Equal(t, AccessTokenName, c.Name)
	assert.Equal(t, -1, c.MaxAge)
}

func TestGet(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := Get(r, AccessTokenName)
	assert.ErrorIs(t, err, http.ErrNoCookie)

	r.AddCookie(&http.Cookie{Name: AccessTokenName, Value: "tok"})
	v, err := Get(r, AccessTokenName)
	require.NoError(t, err)
	assert.Equal(t, "tok", v)
}

func TestFormatDomain(t *testing.T) {
	assert.Equal(t, "", formatDomain(""))
	assert.Equal(t, "localhost", formatDomain("localhost"))
	assert.Equal(t, ".example.com", formatDomain("example.com"))
	assert.Equal(t, ".example.com", formatDomain(".example.com"))
}
