package tokenstore

import "context"

type ctxKey struct{}

// WithStore returns a context carrying s. Use it with Context when the
// credential belongs to a request (a browser session) rather than to the
// process.
func WithStore(ctx context.Context, s Store) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the store carried by ctx, if any.
func FromContext(ctx context.Context) (Store, bool) {
	s, ok := ctx.Value(ctxKey{}).(Store)
	return s, ok && s != nil
}

// Context delegates to the store carried by the request context.
// Without one every call reports ErrUnavailable.
type Context struct{}

func (Context) Get(ctx context.Context) (string, error) {
	if s, ok := FromContext(ctx); ok {
		return s.Get(ctx)
	}
	return "", ErrUnavailable
}

func (Context) Set(ctx context.Context, token string) error {
	if s, ok := FromContext(ctx); ok {
		return s.Set(ctx, token)
	}
	return ErrUnavailable
}

func (Context) Remove(ctx context.Context) error {
	if s, ok := FromContext(ctx); ok {
		return s.Remove(ctx)
	}
	return ErrUnavailable
}
