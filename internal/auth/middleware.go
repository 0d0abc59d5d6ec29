package auth

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

type ctxKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the request's session or nil.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(ctxKey{}).(*Session)
	return s
}

// Middleware resolves the Authorization bearer token and attaches the
// session. Requests without a valid token pass through anonymous.
func (p *Provider) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := r.Header.Get("Authorization")
		if tok == "" {
			next.ServeHTTP(w, r)
			return
		}
		s, err := p.Resolve(r.Context(), tok)
		if err != nil {
			if !errors.Is(err, ErrUnauthenticated) {
				p.log.Error("resolving session", zap.Error(err))
			}
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
	})
}
