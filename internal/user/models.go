// Package user provides user account and wellness profile management.
//
// # PII Considerations
//
// This package stores the minimum needed for personalization:
//
//   - UserID: internal identifier (randomly generated, not PII)
//   - Locale: language preference, minimal PII risk
//   - Age, skin type, medical condition tags: health-adjacent data that
//     only ever feeds the local personalization rules, never leaves the
//     service, and is deletable via DELETE /v1/me
//
// Names, emails and the external identity live with the identity
// provider; this service only ever sees its subject identifier.
package user

import (
	"time"

	"github.com/alessandro-lagamba/yachai-server/internal/personalization"
)

// User represents a user's account, wellness profile and consents.
type User struct {
	// ID is the unique user identifier (format: usr_XXXX).
	ID string

	// ExternalSubject is the identity provider's subject claim, used to
	// find the local user on token exchange.
	ExternalSubject string

	// Locale is the user's preferred language (BCP 47, e.g. "it-IT").
	Locale string

	// Profile contains the personalization attributes.
	Profile *Profile

	// Consents contains the user's privacy consent states.
	Consents *Consents

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Profile holds the attributes that drive range personalization.
type Profile struct {
	// Age in years, nil when not provided.
	Age *int

	// SkinType from skin onboarding, empty when skipped.
	SkinType personalization.SkinType

	// MedicalConditions holds tagged conditions (rosacea, eczema, ...).
	MedicalConditions []personalization.Condition

	// Lifestyle and Goals are free-form tags shown back in the copilot;
	// no current personalization rule consumes them.
	Lifestyle []string
	Goals     []string

	// DailyCalorieTarget normalizes food tracking onto a 0-100 scale.
	DailyCalorieTarget *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Consents represents the user's privacy consent states.
type Consents struct {
	Analytics         bool
	AIProcessing      bool
	PushNotifications bool
	UpdatedAt         time.Time
}

// EngineProfile converts the stored profile into the shape the
// personalization engine consumes. Returns nil when no profile exists so
// the engine skips adjustments entirely.
func (u *User) EngineProfile() *personalization.Profile {
	if u == nil || u.Profile == nil {
		return nil
	}
	return &personalization.Profile{
		Age:               u.Profile.Age,
		SkinType:          u.Profile.SkinType,
		MedicalConditions: u.Profile.MedicalConditions,
		Lifestyle:         u.Profile.Lifestyle,
		Goals:             u.Profile.Goals,
	}
}

// DefaultUser returns a new user with default settings.
func DefaultUser(id, externalSubject string) *User {
	now := time.Now()
	return &User{
		ID:              id,
		ExternalSubject: externalSubject,
		Locale:          "it-IT",
		Profile:         DefaultProfile(),
		Consents:        DefaultConsents(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// DefaultProfile returns an empty profile; all personalization attributes
// are opt-in.
func DefaultProfile() *Profile {
	now := time.Now()
	return &Profile{
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// DefaultConsents returns consents with every option disabled.
func DefaultConsents() *Consents {
	return &Consents{UpdatedAt: time.Now()}
}
