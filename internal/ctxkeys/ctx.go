package ctxkeys

import "context"

// contextKey is a type for context keys to avoid collisions
type contextKey string

const RequestIDKey contextKey = "request_id"

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}
