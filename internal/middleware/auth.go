package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/mine-stalker/internal/config"
)

type CtxKey int

const (
	CtxPlayerClaims CtxKey = iota
)

// PlayerClaims returns the claims Auth attached to ctx, if any.
func PlayerClaims(ctx context.Context) (*config.PlayerClaims, bool) {
	claims, ok := ctx.Value(CtxPlayerClaims).(*config.PlayerClaims)
	return claims, ok && claims != nil
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// Auth attaches player claims to requests carrying a valid bearer token.
// Requests without a token pass through anonymously; a token that fails
// verification is rejected.
func Auth(log *logrus.Logger, verifier *config.JWT) Middleware {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				h.ServeHTTP(w, r)
				return
			}
			claims, err := verifier.ParsePlayerClaims(token)
			if err != nil {
				w.WriteHeader(http.StatusUnauthorized)
				log.WithError(err).WithFields(logrus.Fields{
					"statusCode": http.StatusUnauthorized,
					"remoteAddr": r.RemoteAddr,
					"xffHeader":  r.Header.Get("X-Forwarded-For"),
					"method":     r.Method,
					"uri":        r.URL.RequestURI(),
				}).Warn("rejected bearer token")
				return
			}
			ctx := context.WithValue(r.Context(), CtxPlayerClaims, claims)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
