package ctxutil

import "context"

type ctxKey string

const (
	principalKey ctxKey = "principal"
	requestIDKey ctxKey = "request_id"
)

// Principal is the authenticated user of a request.
type Principal struct {
	UserID   string
	Username string
}

// WithPrincipal stores the authenticated user in the context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromCtx returns false when the request is not authenticated.
func PrincipalFromCtx(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	if !ok || p.UserID == "" || p.Username == "" {
		return Principal{}, false
	}
	return p, true
}

// UserIDFromCtx returns the authenticated user id, or "" and false.
func UserIDFromCtx(ctx context.Context) (string, bool) {
	p, ok := PrincipalFromCtx(ctx)
	return p.UserID, ok
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
