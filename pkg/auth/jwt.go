package auth

import (
	"context"
	"fmt"
	"strings"

	pkgerrors "vibewire/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const userContextKey contextKey = "vibewire.user"

// UserContext is the authenticated caller extracted from a bearer token
type UserContext struct {
	UserID string
}

// JWTValidator verifies HS256 bearer tokens issued by the platform's
// identity service
type JWTValidator struct {
	secret []byte
	issuer string
}

// NewJWTValidator creates a validator for the given signing secret
func NewJWTValidator(secret, issuer string) (*JWTValidator, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	return &JWTValidator{secret: []byte(secret), issuer: issuer}, nil
}

// Validate parses a bearer token and returns the caller it identifies
func (v *JWTValidator) Validate(tokenString string) (*UserContext, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithIssuer(v.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, pkgerrors.NewUnauthorizedError("invalid token").WithCause(err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, pkgerrors.NewUnauthorizedError("invalid token claims")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, pkgerrors.NewUnauthorizedError("token has no subject")
	}
	return &UserContext{UserID: sub}, nil
}

// ExtractBearerToken pulls the token out of an Authorization header value
func ExtractBearerToken(header string) (string, error) {
	if header == "" {
		return "", pkgerrors.NewUnauthorizedError("missing authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", pkgerrors.NewUnauthorizedError("malformed authorization header")
	}
	return parts[1], nil
}

// WithUser stores the user context on a request context
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUserFromContext retrieves the authenticated user
func GetUserFromContext(ctx context.Context) (*UserContext, error) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	if !ok || user == nil {
		return nil, pkgerrors.NewUnauthorizedError("no authenticated user in context")
	}
	return user, nil
}
