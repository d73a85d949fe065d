package middleware

import (
	"context"
	"net/http"
	"strings"
)

type CtxKey int

const (
	CtxSessionToken CtxKey = iota
)

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	// browsers cannot set headers on a websocket handshake
	return r.URL.Query().Get("token")
}

// Auth stores the caller's session token, if any, in the request context.
// Handlers check it against the session they act on.
func Auth() Middleware {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				h.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), CtxSessionToken, token)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func SessionToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(CtxSessionToken).(string)
	return token, ok
}
