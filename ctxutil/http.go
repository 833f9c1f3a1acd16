package ctxutil

import (
	"context"
	"net"
	"net/http"
	"strings"
)

const clientIPKey = "client_ip"

// SetClientIP sets the client IP to context.Context.
func SetClientIP(ctx context.Context, ip string) context.Context {
	return SetValue(ctx, clientIPKey, ip)
}

// GetClientIP returns the client IP stored on ctx, falling back to the
// embedded gin context.
func GetClientIP(ctx context.Context) string {
	if ip := getString(ctx, clientIPKey); ip != "" {
		return ip
	}
	if c, ok := GetGinContext(ctx); ok {
		return c.ClientIP()
	}
	return ""
}

// ClientIPFromRequest reads the first X-Forwarded-For hop, then X-Real-IP,
// then the remote address.
func ClientIPFromRequest(req *http.Request) string {
	if fwd := req.Header.Get("X-Forwarded-For"); fwd != "" {
		if ip := strings.TrimSpace(strings.Split(fwd, ",")[0]); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(req.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}
	return host
}
