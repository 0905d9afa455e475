package ledger

import "context"

type tokenKey struct{}

// ContextWithToken attaches the caller's bearer token to the context so
// backends can forward it to the remote service.
func ContextWithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey{}, token)
}

// CallerToken returns the bearer token attached to the context, if any.
func CallerToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey{}).(string)
	return token, ok && token != ""
}
