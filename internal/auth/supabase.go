package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// supabaseAudience is the audience Supabase Auth sets on user tokens.
const supabaseAudience = "authenticated"

// SupabaseVerifierConfig holds configuration for the identity verifier.
type SupabaseVerifierConfig struct {
	// JWTSecret is the project's shared JWT secret (HS256).
	JWTSecret string

	// ProjectURL is the Supabase project URL, e.g.
	// "https://abcdefgh.supabase.co". The token issuer must match
	// ProjectURL + "/auth/v1".
	ProjectURL string
}

// SupabaseVerifier validates identity tokens issued by Supabase Auth.
type SupabaseVerifier struct {
	secret []byte
	issuer string
}

// NewSupabaseVerifier creates a new Supabase token verifier.
func NewSupabaseVerifier(cfg SupabaseVerifierConfig) *SupabaseVerifier {
	return &SupabaseVerifier{
		secret: []byte(cfg.JWTSecret),
		issuer: strings.TrimRight(cfg.ProjectURL, "/") + "/auth/v1",
	}
}

type supabaseClaims struct {
	jwt.RegisteredClaims

	Email string `json:"email,omitempty"`
}

// VerifyToken validates an identity token and returns its claims.
func (v *SupabaseVerifier) VerifyToken(tokenString string) (*IdentityClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &supabaseClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(supabaseAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: token expired", ErrInvalidIdentityToken)
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidIdentityToken, err.Error())
	}

	claims, ok := token.Claims.(*supabaseClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidIdentityToken
	}

	return &IdentityClaims{
		Subject: claims.Subject,
		Email:   claims.Email,
	}, nil
}
