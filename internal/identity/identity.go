// Package identity resolves the authenticated caller from a bearer token.
// The booking core trusts the resolved principal for ownership checks and
// never re-derives it.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

type Principal struct {
	UserID uuid.UUID
	Role   Role
}

type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

var ErrInvalidToken = errors.New("invalid token")

type Resolver struct {
	secret []byte
}

func NewResolver(secret []byte) *Resolver {
	return &Resolver{secret: secret}
}

// Resolve parses an "Authorization: Bearer ..." header value into a Principal.
func (r *Resolver) Resolve(header string) (Principal, error) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return Principal{}, ErrInvalidToken
	}

	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return r.secret, nil
	})
	if err != nil || !token.Valid {
		return Principal{}, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Principal{}, ErrInvalidToken
	}

	role := Role(claims.Role)
	switch role {
	case RolePatient, RoleDoctor, RoleAdmin:
	default:
		return Principal{}, ErrInvalidToken
	}

	return Principal{UserID: userID, Role: role}, nil
}

// Sign issues a token for a principal. Used by the seed tool and tests.
func (r *Resolver) Sign(p Principal) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: p.UserID.String(),
		},
		Role: string(p.Role),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(r.secret)
}

type contextKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(Principal)
	return p, ok
}
