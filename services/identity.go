package services

import (
	"context"
	"errors"
)

// ErrUnauthorized means the token is missing, invalid, or expired.
var ErrUnauthorized = errors.New("unauthorized")

// Identity is the verified (id, display name) pair the debate core
// consumes. The core never authenticates credentials itself.
type Identity struct {
	ID          string
	DisplayName string
}

// TokenVerifier resolves a bearer token to a verified identity.
// Implementations: MockAuthService (in-memory users + HS256 JWTs) and
// CognitoVerifier (AWS Cognito user pool).
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}
