package auth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// JWTVerifier checks HS256 tokens signed with the project secret.
type JWTVerifier struct {
	secret   []byte
	audience string
}

func NewJWTVerifier(secret, audience string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret), audience: audience}
}

func (v *JWTVerifier) Verify(_ context.Context, token string) (*Session, error) {
	if len(v.secret) == 0 {
		return nil, fmt.Errorf("%w: no signing secret configured", ErrUnauthorized)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	if _, err := uuid.Parse(c.Subject); err != nil {
		return nil, fmt.Errorf("%w: subject is not a user id", ErrUnauthorized)
	}
	return &Session{UserID: c.Subject, Email: c.Email, Role: c.Role}, nil
}
