package remote

import "context"

// tokenKey is the context key for the session bearer token.
type tokenKey struct{}

// ContextWithToken returns a context carrying the session's bearer token.
// Every Client call made with the returned context is authenticated as that
// session.
func ContextWithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext extracts the bearer token from the context, or returns an
// empty string when the request is unauthenticated.
func TokenFromContext(ctx context.Context) string {
	if token, ok := ctx.Value(tokenKey{}).(string); ok {
		return token
	}
	return ""
}
