package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/audiofx/api/internal/store"
)

// TokenService mints and redeems temporary download tokens. A token is
// an opaque random string; the mapping to the artifact lives only
// server-side and expires on its own.
type TokenService struct {
	tokens store.TokenStore
}

func NewTokenService(tokens store.TokenStore) *TokenService {
	return &TokenService{tokens: tokens}
}

// Issue creates a fresh token for the artifact.
func (s *TokenService) Issue(ctx context.Context, art store.Artifact) (string, error) {
	token := uuid.NewString()
	if err := s.tokens.PutToken(ctx, token, art); err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}
	return token, nil
}

// Redeem resolves a token to its artifact. Expired and unknown tokens
// both return store.ErrNotFound.
func (s *TokenService) Redeem(ctx context.Context, token string) (store.Artifact, error) {
	return s.tokens.GetToken(ctx, token)
}
