package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/postfeed/ctxutil"
	"github.com/ncobase/postfeed/logging/logger"
)

// TraceHeader carries the trace id in and out.
const TraceHeader = "X-Trace-ID"

// Trace binds the gin context to the request context and assigns a trace
// id, reusing an incoming X-Trace-ID.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := ctxutil.WithGinContext(c.Request.Context(), c)
		if id := c.GetHeader(TraceHeader); id != "" {
			ctx = ctxutil.SetTraceID(ctx, id)
		}
		ctx, traceID := ctxutil.EnsureTraceID(ctx)
		ctx = ctxutil.SetClientIP(ctx, ctxutil.ClientIPFromRequest(c.Request))

		c.Header(TraceHeader, traceID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// Logger logs one line per request.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		ctx := c.Request.Context()
		log.Info(ctx, "HTTP request",
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
			"ip", ctxutil.GetClientIP(ctx),
		)
	}
}
