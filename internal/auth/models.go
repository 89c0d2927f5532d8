// Package auth provides token exchange and session management.
//
// Clients authenticate against Supabase Auth and exchange the resulting
// identity token for first-party API tokens. The API never sees the
// user's credentials.
package auth

import (
	"errors"
	"time"
)

// Predefined auth errors.
var (
	ErrInvalidIdentityToken = errors.New("invalid identity token")
	ErrInvalidAccessToken   = errors.New("invalid access token")
	ErrAccessTokenExpired   = errors.New("access token has expired")
	ErrInvalidRefreshToken  = errors.New("invalid refresh token")
	ErrRefreshTokenExpired  = errors.New("refresh token has expired")
)

// Token expiry constants.
const (
	// AccessTokenExpiry is how long access tokens are valid. Short expiry
	// limits exposure if a token is compromised.
	AccessTokenExpiry = 1 * time.Hour

	// RefreshTokenExpiry is how long refresh tokens are valid.
	RefreshTokenExpiry = 30 * 24 * time.Hour

	// RefreshTokenLength is the byte length of refresh tokens, 256 bits
	// of entropy.
	RefreshTokenLength = 32
)

// RefreshToken is a stored refresh token. Only the SHA-256 hash of the
// opaque value is persisted.
type RefreshToken struct {
	ID        string
	TokenHash string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}

// IdentityClaims are the claims read from a verified Supabase token.
type IdentityClaims struct {
	// Subject is Supabase's stable user identifier.
	Subject string

	// Email may be empty depending on the sign-in provider.
	Email string
}
