package middleware

import "context"

type ctxKey string

const (
	ctxCorrelationID ctxKey = "correlation_id"
	ctxSessionID     ctxKey = "session_id"
)

func GetCorrelationID(ctx context.Context) string {
	if v := ctx.Value(ctxCorrelationID); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// WithCorrelationID stores cid on ctx. Message consumers use it to carry the
// id of the event they are handling.
func WithCorrelationID(ctx context.Context, cid string) context.Context {
	return context.WithValue(ctx, ctxCorrelationID, cid)
}

func GetSessionID(ctx context.Context) string {
	if v := ctx.Value(ctxSessionID); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func WithSessionID(ctx context.Context, session string) context.Context {
	return context.WithValue(ctx, ctxSessionID, session)
}
