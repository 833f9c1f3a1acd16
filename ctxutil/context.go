package ctxutil

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ginContextKeyType struct{}

var ginContextKey = ginContextKeyType{}

const (
	// TraceIDKey is the context and log field key of the request trace id.
	TraceIDKey = "trace_id"

	userIDKey   = "user_id"
	userNameKey = "user_name"
	tokenKey    = "token"
	viewIDKey   = "view_id"
)

// WithGinContext returns a context.Context that embeds the *gin.Context.
func WithGinContext(ctx context.Context, c *gin.Context) context.Context {
	return context.WithValue(ctx, ginContextKey, c)
}

// GetGinContext extracts *gin.Context from context.Context if it exists.
func GetGinContext(ctx context.Context) (*gin.Context, bool) {
	if c, ok := ctx.Value(ginContextKey).(*gin.Context); ok {
		return c, ok
	}
	return nil, false
}

// GetValue retrieves a value from the embedded gin context first, then ctx.
func GetValue(ctx context.Context, key string) any {
	if c, ok := GetGinContext(ctx); ok {
		if val, exists := c.Get(key); exists {
			return val
		}
	}
	return ctx.Value(key)
}

// SetValue sets a value on ctx and on the embedded gin context, if any.
func SetValue(ctx context.Context, key string, val any) context.Context {
	if c, ok := GetGinContext(ctx); ok {
		c.Set(key, val)
	}
	return context.WithValue(ctx, key, val) //nolint:staticcheck
}

func getString(ctx context.Context, key string) string {
	if s, ok := GetValue(ctx, key).(string); ok {
		return s
	}
	return ""
}

// SetUserID sets user id to context.Context.
func SetUserID(ctx context.Context, uid string) context.Context {
	return SetValue(ctx, userIDKey, uid)
}

// GetUserID gets user id from context.Context.
func GetUserID(ctx context.Context) string { return getString(ctx, userIDKey) }

// SetUserName sets the display name of the signed-in user.
func SetUserName(ctx context.Context, name string) context.Context {
	return SetValue(ctx, userNameKey, name)
}

// GetUserName gets the display name of the signed-in user.
func GetUserName(ctx context.Context) string { return getString(ctx, userNameKey) }

// SetToken sets token to context.Context.
func SetToken(ctx context.Context, token string) context.Context {
	return SetValue(ctx, tokenKey, token)
}

// GetToken gets token from context.Context.
func GetToken(ctx context.Context) string { return getString(ctx, tokenKey) }

// SetViewID sets the feed view id bound to the request.
func SetViewID(ctx context.Context, id string) context.Context {
	return SetValue(ctx, viewIDKey, id)
}

// GetViewID gets the feed view id bound to the request.
func GetViewID(ctx context.Context) string { return getString(ctx, viewIDKey) }

// GetTraceID gets trace id from context.Context or gin.Context.
func GetTraceID(ctx context.Context) string { return getString(ctx, TraceIDKey) }

// SetTraceID sets trace id to context.Context and gin.Context if available.
func SetTraceID(ctx context.Context, traceID string) context.Context {
	return SetValue(ctx, TraceIDKey, traceID)
}

// EnsureTraceID ensures that a trace ID exists in the context.
func EnsureTraceID(ctx context.Context) (context.Context, string) {
	if traceID := GetTraceID(ctx); traceID != "" {
		return ctx, traceID
	}
	traceID := uuid.NewString()
	return SetTraceID(ctx, traceID), traceID
}
