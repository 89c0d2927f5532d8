package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/alessandro-lagamba/yachai-server/internal/api/models"
	"github.com/alessandro-lagamba/yachai-server/internal/user"
)

// Provisioner creates or retrieves the local user behind an external
// identity. Satisfied by user.Service.
type Provisioner interface {
	Provision(ctx context.Context, externalSubject, userID, locale string) (*user.User, error)
}

// ServiceConfig holds configuration for the auth service.
type ServiceConfig struct {
	Verifier      *SupabaseVerifier
	JWTService    *JWTService
	RefreshRepo   RefreshTokenRepository
	Users         Provisioner
	Logger        zerolog.Logger
	DefaultLocale string
}

// Service provides token exchange and session operations.
type Service struct {
	verifier      *SupabaseVerifier
	jwtService    *JWTService
	refreshRepo   RefreshTokenRepository
	users         Provisioner
	logger        zerolog.Logger
	defaultLocale string
}

// NewService creates a new auth service.
func NewService(cfg ServiceConfig) *Service {
	locale := cfg.DefaultLocale
	if locale == "" {
		locale = "it-IT"
	}

	return &Service{
		verifier:      cfg.Verifier,
		jwtService:    cfg.JWTService,
		refreshRepo:   cfg.RefreshRepo,
		users:         cfg.Users,
		logger:        cfg.Logger,
		defaultLocale: locale,
	}
}

// Exchange verifies a Supabase identity token, provisions the local user
// and returns first-party tokens.
func (s *Service) Exchange(ctx context.Context, input *models.TokenExchangeInput) (*models.TokenPair, error) {
	if input.IdentityToken == "" {
		return nil, ErrInvalidIdentityToken
	}
	if s.verifier == nil {
		s.logger.Error().Msg("identity verifier not configured, rejecting exchange")
		return nil, ErrInvalidIdentityToken
	}

	claims, err := s.verifier.VerifyToken(input.IdentityToken)
	if err != nil {
		return nil, err
	}

	locale := input.Locale
	if locale == "" {
		locale = s.defaultLocale
	}

	u, err := s.users.Provision(ctx, claims.Subject, generateUserID(), locale)
	if err != nil {
		return nil, fmt.Errorf("provisioning user: %w", err)
	}

	s.logger.Info().Str("user_id", u.ID).Msg("identity token exchanged")
	return s.issueTokens(ctx, u.ID)
}

// Refresh rotates a refresh token and returns a new token pair. The old
// token is revoked on success.
func (s *Service) Refresh(ctx context.Context, refreshTokenStr string) (*models.TokenPair, error) {
	hash := HashToken(refreshTokenStr)

	token, err := s.refreshRepo.FindByHash(ctx, hash)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	if token.RevokedAt != nil {
		return nil, ErrInvalidRefreshToken
	}
	if time.Now().After(token.ExpiresAt) {
		return nil, ErrRefreshTokenExpired
	}

	if err := s.refreshRepo.Revoke(ctx, hash); err != nil {
		return nil, fmt.Errorf("revoking old refresh token: %w", err)
	}
	return s.issueTokens(ctx, token.UserID)
}

// ValidateAccessToken validates an access token and returns the user ID.
func (s *Service) ValidateAccessToken(tokenString string) (string, error) {
	claims, err := s.jwtService.ValidateAccessToken(tokenString)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

// Logout revokes a specific refresh token.
func (s *Service) Logout(ctx context.Context, refreshTokenStr string) error {
	return s.refreshRepo.Revoke(ctx, HashToken(refreshTokenStr))
}

// LogoutAll revokes all of the user's refresh tokens.
func (s *Service) LogoutAll(ctx context.Context, userID string) error {
	return s.refreshRepo.RevokeAllForUser(ctx, userID)
}

func (s *Service) issueTokens(ctx context.Context, userID string) (*models.TokenPair, error) {
	accessToken, expiresAt, err := s.jwtService.GenerateAccessToken(userID)
	if err != nil {
		return nil, fmt.Errorf("generating access token: %w", err)
	}

	refreshTokenStr, err := GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	refreshToken := &RefreshToken{
		ID:        uuid.New().String(),
		TokenHash: HashToken(refreshTokenStr),
		UserID:    userID,
		ExpiresAt: time.Now().Add(RefreshTokenExpiry),
		CreatedAt: time.Now(),
	}
	if err := s.refreshRepo.Create(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("storing refresh token: %w", err)
	}

	return &models.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenStr,
		ExpiresIn:    int(time.Until(expiresAt).Seconds()),
		UserID:       userID,
	}, nil
}

func generateUserID() string {
	return "usr_" + uuid.New().String()[:22]
}

// IsAuthError reports whether err is a client-side auth failure rather
// than a server fault.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrInvalidIdentityToken) ||
		errors.Is(err, ErrInvalidAccessToken) ||
		errors.Is(err, ErrAccessTokenExpired) ||
		errors.Is(err, ErrInvalidRefreshToken) ||
		errors.Is(err, ErrRefreshTokenExpired)
}
