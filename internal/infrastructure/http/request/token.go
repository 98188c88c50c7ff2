package request

import "context"

// TokenProvider supplies the bearer token for a call. It is polled on every
// call, so a changed token applies to the next request. An empty token
// means no Authorization header.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

type TokenProviderFunc func(ctx context.Context) (string, error)

func (f TokenProviderFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}

type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	return string(t), nil
}

type noToken struct{}

func (noToken) Token(context.Context) (string, error) { return "", nil }
