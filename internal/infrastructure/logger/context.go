package logger

import "context"

type ctxKey int

const requestIDKey ctxKey = 0

// WithRequestID returns a context carrying the request ID so downstream
// layers (including the SQL logger) can correlate entries.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID returns the request ID stored in the context, or "".
func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}
