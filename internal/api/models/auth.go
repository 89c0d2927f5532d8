package models

// TokenExchangeInput is the request body for exchanging an identity
// provider token for first-party tokens.
type TokenExchangeInput struct {
	IdentityToken string `json:"identityToken"`
	Locale        string `json:"locale,omitempty"`
}

// RefreshInput is the request body for refreshing an access token.
type RefreshInput struct {
	RefreshToken string `json:"refreshToken"`
}

// TokenPair is the response body for successful auth operations.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
	UserID       string `json:"userId"`
}
