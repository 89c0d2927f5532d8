package auth

import (
	"context"
	"sync"
	"time"
)

// RefreshTokenRepository defines the interface for refresh token storage.
type RefreshTokenRepository interface {
	// Create stores a new refresh token.
	Create(ctx context.Context, token *RefreshToken) error

	// FindByHash finds a refresh token by its hash.
	FindByHash(ctx context.Context, tokenHash string) (*RefreshToken, error)

	// Revoke marks a refresh token as revoked.
	Revoke(ctx context.Context, tokenHash string) error

	// RevokeAllForUser revokes all refresh tokens for a user.
	RevokeAllForUser(ctx context.Context, userID string) error
}

// InMemoryRefreshTokenRepository is an in-memory implementation of
// RefreshTokenRepository used in tests and local development.
type InMemoryRefreshTokenRepository struct {
	mu     sync.RWMutex
	tokens map[string]*RefreshToken // keyed by token hash
	byUser map[string][]string      // userID -> token hashes
}

// NewInMemoryRefreshTokenRepository creates a new in-memory repository.
func NewInMemoryRefreshTokenRepository() *InMemoryRefreshTokenRepository {
	return &InMemoryRefreshTokenRepository{
		tokens: make(map[string]*RefreshToken),
		byUser: make(map[string][]string),
	}
}

// Create stores a new refresh token.
func (r *InMemoryRefreshTokenRepository) Create(_ context.Context, token *RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *token
	r.tokens[token.TokenHash] = &cp
	r.byUser[token.UserID] = append(r.byUser[token.UserID], token.TokenHash)
	return nil
}

// FindByHash finds a refresh token by its hash.
func (r *InMemoryRefreshTokenRepository) FindByHash(_ context.Context, tokenHash string) (*RefreshToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	token, ok := r.tokens[tokenHash]
	if !ok {
		return nil, ErrInvalidRefreshToken
	}
	cp := *token
	return &cp, nil
}

// Revoke marks a refresh token as revoked. Unknown tokens are treated as
// already revoked.
func (r *InMemoryRefreshTokenRepository) Revoke(_ context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	token, ok := r.tokens[tokenHash]
	if !ok {
		return nil
	}
	now := time.Now()
	token.RevokedAt = &now
	return nil
}

// RevokeAllForUser revokes all refresh tokens for a user.
func (r *InMemoryRefreshTokenRepository) RevokeAllForUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for _, hash := range r.byUser[userID] {
		if token, ok := r.tokens[hash]; ok {
			token.RevokedAt = &now
		}
	}
	return nil
}

var _ RefreshTokenRepository = (*InMemoryRefreshTokenRepository)(nil)
