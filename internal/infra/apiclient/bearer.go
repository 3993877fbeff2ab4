package apiclient

import "context"

// TokenSource yields the bearer token of the active session at send time.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

type (
	tokenSourceKey struct{}
	bearerKey      struct{}
)

// WithTokenSource installs the session whose token authorises requests made with ctx.
func WithTokenSource(ctx context.Context, src TokenSource) context.Context {
	return context.WithValue(ctx, tokenSourceKey{}, src)
}

// WithBearer forces a token for requests made with ctx, taking precedence over the
// session. An empty token sends no Authorization header.
func WithBearer(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, bearerKey{}, token)
}

func bearerFrom(ctx context.Context) string {
	if token, ok := ctx.Value(bearerKey{}).(string); ok {
		return token
	}

	if src, ok := ctx.Value(tokenSourceKey{}).(TokenSource); ok && src != nil {
		return src.Token()
	}

	return ""
}
