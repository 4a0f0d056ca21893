package service

import (
	"context"
	"log/slog"

	"github.com/Hafsa-Ahmadi/Budget-flow/internal/auth"
	"github.com/Hafsa-Ahmadi/Budget-flow/internal/models"
	"github.com/Hafsa-Ahmadi/Budget-flow/internal/storage"
)

// AuthService wraps the authenticator and token manager into the
// account surface: register, login, current-user lookup.
type AuthService struct {
	authenticator auth.Authenticator
	tokens        *auth.JWTManager
	users         storage.UserStore
}

// NewAuthService creates a new AuthService.
func NewAuthService(authenticator auth.Authenticator, tokens *auth.JWTManager, users storage.UserStore) *AuthService {
	return &AuthService{authenticator: authenticator, tokens: tokens, users: users}
}

// Session is a logged-in user plus their bearer token.
type Session struct {
	User  *models.User
	Token string
}

// Register creates an account and returns a fresh session.
func (s *AuthService) Register(ctx context.Context, email, name, password string) (*Session, error) {
	user, err := s.authenticator.Register(ctx, email, name, password)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, err
	}
	slog.Info("User registered", "user_id", user.ID)
	return &Session{User: user, Token: token}, nil
}

// Login verifies credentials and returns a session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Token: token}, nil
}

// CurrentUser resolves an authenticated user id to the account.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	return s.users.GetUserByID(ctx, userID)
}
