package lectureauth

import "context"

type contextKey uint8

const (
	clientIPKey contextKey = iota
)

// WithClientIP attaches the caller's network address to the context so
// audit events can record it. Optional; absent means empty.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

func clientIPFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if ip, ok := ctx.Value(clientIPKey).(string); ok {
		return ip
	}
	return ""
}
