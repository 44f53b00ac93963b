// Package auth resolves bearer tokens to the calling user.
package auth

import (
	"context"
	"errors"
	"net/http"

	"autobooks/src/utils"

	"github.com/go-chi/jwtauth"
	"github.com/sirupsen/logrus"
)

var ErrUnauthorized = errors.New("Unauthorized")

type Session struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// Verifier validates a bearer token against the identity provider.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Session, error)
}

type contextKey string

const sessionKey = contextKey("session")

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey).(*Session)
	return s, ok && s != nil
}

// Middleware rejects requests without a valid bearer token with 401 before any
// handler runs, and stores the session in the request context.
func Middleware(verifier Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := jwtauth.TokenFromHeader(r)
			if token == "" {
				utils.WriteError(w, utils.Unauthorized(ErrUnauthorized.Error()))
				return
			}

			session, err := verifier.Verify(r.Context(), token)
			if err != nil {
				utils.LoggerFromContext(r.Context()).WithError(err).Debug("token rejected")
				utils.WriteError(w, utils.Unauthorized(ErrUnauthorized.Error()))
				return
			}

			ctx := WithSession(r.Context(), session)
			ctx = utils.WithLogger(ctx, utils.LoggerFromContext(ctx).WithFields(logrus.Fields{"user_id": session.UserID}))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
