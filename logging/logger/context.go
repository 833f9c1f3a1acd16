package logger

import (
	"context"

	"github.com/ncobase/postfeed/ctxutil"
)

const traceKey = ctxutil.TraceIDKey

func getTraceID(ctx context.Context) string {
	return ctxutil.GetTraceID(ctx)
}
