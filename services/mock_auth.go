package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"cineforo/models"
	"cineforo/utils"
)

var (
	// ErrEmailTaken means an account with that email already exists.
	ErrEmailTaken = errors.New("email already registered")
	// ErrBadCredentials means the email/password pair did not match.
	ErrBadCredentials = errors.New("invalid email or password")
)

// MockAuthService is the in-memory identity provider: it keeps accounts
// in a map, hashes passwords with bcrypt, and issues HS256 JWTs. It is
// the default provider for local development and tests.
type MockAuthService struct {
	secret string
	expiry time.Duration

	mu      sync.RWMutex
	byEmail map[string]*models.User
}

// NewMockAuthService creates an empty mock provider. expiry bounds the
// lifetime of issued tokens.
func NewMockAuthService(secret string, expiry time.Duration) *MockAuthService {
	return &MockAuthService{
		secret:  secret,
		expiry:  expiry,
		byEmail: make(map[string]*models.User),
	}
}

// SignUp registers a new account and returns the created user.
func (m *MockAuthService) SignUp(email, password, name string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return models.User{}, ErrBadCredentials
	}
	if name == "" {
		name = utils.ExtractNameFromEmail(email)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byEmail[email]; exists {
		return models.User{}, ErrEmailTaken
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  name,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	m.byEmail[email] = user
	return *user, nil
}

// Login checks the credentials and returns a signed access token.
func (m *MockAuthService) Login(email, password string) (string, models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	m.mu.RLock()
	user, exists := m.byEmail[email]
	m.mu.RUnlock()

	if !exists || !utils.CheckPasswordHash(password, user.PasswordHash) {
		return "", models.User{}, ErrBadCredentials
	}

	token, err := utils.GenerateJWTToken(m.secret, user.ID, user.Email, user.DisplayName, m.expiry)
	if err != nil {
		return "", models.User{}, fmt.Errorf("issue token: %w", err)
	}
	return token, *user, nil
}

// Verify implements TokenVerifier.
func (m *MockAuthService) Verify(_ context.Context, token string) (Identity, error) {
	claims, err := utils.ParseJWTToken(m.secret, token)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	name := claims.Name
	if name == "" {
		name = utils.ExtractNameFromEmail(claims.Email)
	}
	return Identity{ID: claims.UserID, DisplayName: name}, nil
}
