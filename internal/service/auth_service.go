package service

import (
	"context"
	"fmt"
	"log/slog"

	validator "github.com/avrebarra/minivalidator"

	"github.com/bekzodm/nasiya/internal/auth"
	"github.com/bekzodm/nasiya/internal/models"
)

// RegisterRequest is the payload for account creation.
type RegisterRequest struct {
	Email       string `json:"email" validate:"required"`
	DisplayName string `json:"display_name" validate:"required"`
	Password    string `json:"password" validate:"required"`
}

// LoginRequest is the payload for authentication.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries the account and its bearer token.
type AuthResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// AuthService handles registration and login.
type AuthService struct {
	authenticator *auth.Authenticator
	tokens        *auth.TokenManager
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator *auth.Authenticator, tokens *auth.TokenManager) *AuthService {
	return &AuthService{authenticator: authenticator, tokens: tokens}
}

// Register creates a new account and returns it with a fresh token.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if err := validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	user, err := s.authenticator.Register(ctx, req.Email, req.DisplayName, req.Password)
	if err != nil {
		slog.Warn("Registration failed", "email", req.Email, "error", err)
		return nil, err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		slog.Error("Failed to issue token", "user_id", user.ID, "error", err)
		return nil, err
	}

	slog.Info("User registered", "user_id", user.ID, "email", user.Email)
	return &AuthResponse{User: user, Token: token}, nil
}

// Login authenticates a user and returns a fresh token.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	user, err := s.authenticator.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		slog.Warn("Login failed", "email", req.Email)
		return nil, err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		slog.Error("Failed to issue token", "user_id", user.ID, "error", err)
		return nil, err
	}
	return &AuthResponse{User: user, Token: token}, nil
}
