// Package session resolves the identity of the signed-in user.
package session

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/postfeed/ctxutil"
	"github.com/ncobase/postfeed/ecode"
	"github.com/ncobase/postfeed/feed/structs"
	"github.com/ncobase/postfeed/logging/logger"
	"github.com/ncobase/postfeed/net/cookie"
	"github.com/ncobase/postfeed/net/resp"
	"github.com/ncobase/postfeed/security/jwt"
)

// Identity is the active session.
type Identity = structs.Identity

// Provider returns the identity active for a request, if any.
type Provider interface {
	Current(ctx context.Context) (*Identity, bool)
}

// ContextProvider reads the identity Middleware stored on the context.
type ContextProvider struct{}

// Current implements Provider.
func (ContextProvider) Current(ctx context.Context) (*Identity, bool) {
	uid := ctxutil.GetUserID(ctx)
	if uid == "" {
		return nil, false
	}
	return &Identity{UID: uid, DisplayName: ctxutil.GetUserName(ctx)}, true
}

type static struct {
	id *Identity
}

// Static returns a provider that always reports id. A nil id means nobody
// is signed in.
func Static(id *Identity) Provider {
	return static{id: id}
}

func (s static) Current(context.Context) (*Identity, bool) {
	if s.id == nil {
		return nil, false
	}
	cp := *s.id
	return &cp, true
}

// tokenFromRequest reads a bearer token, falling back to the access token
// cookie.
func tokenFromRequest(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	token, _ := cookie.Get(c.Request, cookie.AccessTokenName)
	return token
}

// Middleware stores the identity of a valid access token on the request
// context. Missing or invalid tokens leave the request anonymous.
func Middleware(tm *jwt.TokenManager, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" || tm == nil {
			c.Next()
			return
		}

		ctx := ctxutil.WithGinContext(c.Request.Context(), c)
		claims, err := tm.DecodeToken(token)
		if err != nil {
			log.Debug(ctx, "ignoring invalid access token", "error", err)
			c.Next()
			return
		}

		uid := jwt.GetUserIDFromToken(claims)
		if uid == "" {
			c.Next()
			return
		}

		ctx = ctxutil.SetUserID(ctx, uid)
		ctx = ctxutil.SetUserName(ctx, jwt.GetUserNameFromToken(claims))
		ctx = ctxutil.SetToken(ctx, token)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireSession rejects requests without an identity with 401.
func RequireSession(p Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := p.Current(c.Request.Context()); !ok {
			resp.Fail(c.Writer, resp.UnAuthorized(ecode.Text(ecode.NoLogin)))
			c.Abort()
			return
		}
		c.Next()
	}
}
