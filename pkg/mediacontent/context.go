package mediacontent

import "context"

type ctxKey int

const requestIDKey ctxKey = 0

// WithRequestID returns a context carrying the request identifier used to
// correlate coordinator log lines for one request.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFrom returns the request identifier, empty when none was set.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
