package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/audiofx/api/internal/auth"
	"github.com/audiofx/api/internal/config"
	"github.com/audiofx/api/internal/model"
	"github.com/audiofx/api/internal/repo"
)

var (
	// ErrInvalidCredentials is returned for a bad username or password.
	// Both cases look the same to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserExists is returned when the username is taken.
	ErrUserExists = errors.New("user already exists")
	// ErrEmailExists is returned when the email is registered under
	// another account.
	ErrEmailExists = errors.New("email already registered")
)

// AuthService registers accounts and signs access tokens.
type AuthService struct {
	users  repo.UserRepo
	jwtCfg config.JWTConfig
}

func NewAuthService(users repo.UserRepo, jwtCfg config.JWTConfig) *AuthService {
	return &AuthService{users: users, jwtCfg: jwtCfg}
}

// Register creates an account and returns a signed token for it.
func (s *AuthService) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, ErrEmailExists
		}
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("[Auth] registered user %s", user.Username)
	return s.issue(user)
}

// Login verifies credentials and returns a signed token.
func (s *AuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	user, err := s.users.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *AuthService) issue(user *model.User) (*model.AuthResponse, error) {
	token, err := auth.SignToken(user.ID, user.Username, s.jwtCfg.Secret, s.jwtCfg.Expiration)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &model.AuthResponse{
		Username:    user.Username,
		AccessToken: token,
		TokenType:   "bearer",
	}, nil
}
