package user

import (
	"context"
	"errors"
	"time"

	"github.com/alessandro-lagamba/yachai-server/internal/api/models"
	"github.com/alessandro-lagamba/yachai-server/internal/personalization"
)

// Service errors.
var (
	ErrInvalidSkinType = errors.New("invalid skin type")
)

// Service provides user profile operations.
type Service struct {
	repo Repository
}

// NewService creates a new user service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetMe retrieves the user's account summary.
func (s *Service) GetMe(ctx context.Context, userID string) (*models.Me, error) {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &models.Me{
		UserID:    u.ID,
		Locale:    u.Locale,
		CreatedAt: models.Timestamp(u.CreatedAt),
	}, nil
}

// UpdateMe updates the user's account settings.
func (s *Service) UpdateMe(ctx context.Context, userID string, input *models.MeInput) (*models.Me, error) {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Locale != nil {
		u.Locale = *input.Locale
	}
	u.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	return &models.Me{
		UserID:    u.ID,
		Locale:    u.Locale,
		CreatedAt: models.Timestamp(u.CreatedAt),
	}, nil
}

// GetProfile retrieves the user's wellness profile.
func (s *Service) GetProfile(ctx context.Context, userID string) (*models.WellnessProfile, error) {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if u.Profile == nil {
		u.Profile = DefaultProfile()
	}
	return toAPIProfile(u.Profile), nil
}

// UpsertProfile creates or updates the user's wellness profile. Nil input
// fields leave the stored value untouched.
func (s *Service) UpsertProfile(ctx context.Context, userID string, input *models.WellnessProfileInput) (*models.WellnessProfile, error) {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if u.Profile == nil {
		u.Profile = DefaultProfile()
		u.Profile.CreatedAt = now
	}

	if input.Age != nil {
		u.Profile.Age = input.Age
	}
	if input.SkinType != nil {
		st, err := parseSkinType(*input.SkinType)
		if err != nil {
			return nil, err
		}
		u.Profile.SkinType = st
	}
	if input.MedicalConditions != nil {
		u.Profile.MedicalConditions = stringsToConditions(input.MedicalConditions)
	}
	if input.Lifestyle != nil {
		u.Profile.Lifestyle = input.Lifestyle
	}
	if input.Goals != nil {
		u.Profile.Goals = input.Goals
	}
	if input.DailyCalorieTarget != nil {
		u.Profile.DailyCalorieTarget = input.DailyCalorieTarget
	}

	u.Profile.UpdatedAt = now
	u.UpdatedAt = now

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return toAPIProfile(u.Profile), nil
}

// GetConsents retrieves the user's consent states.
func (s *Service) GetConsents(ctx context.Context, userID string) (*models.Consents, error) {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if u.Consents == nil {
		u.Consents = DefaultConsents()
	}
	return toAPIConsents(u.Consents), nil
}

// UpdateConsents updates the user's consent states.
func (s *Service) UpdateConsents(ctx context.Context, userID string, input *models.ConsentsInput) (*models.Consents, error) {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if u.Consents == nil {
		u.Consents = DefaultConsents()
	}

	if input.Analytics != nil {
		u.Consents.Analytics = *input.Analytics
	}
	if input.AIProcessing != nil {
		u.Consents.AIProcessing = *input.AIProcessing
	}
	if input.PushNotifications != nil {
		u.Consents.PushNotifications = *input.PushNotifications
	}
	u.Consents.UpdatedAt = now
	u.UpdatedAt = now

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return toAPIConsents(u.Consents), nil
}

// Get returns the full domain user, for internal collaborators that need
// the engine profile (tracking, copilot, worker).
func (s *Service) Get(ctx context.Context, userID string) (*User, error) {
	return s.repo.Get(ctx, userID)
}

// ListIDs returns all user IDs, for the baseline worker.
func (s *Service) ListIDs(ctx context.Context) ([]string, error) {
	return s.repo.List(ctx)
}

// Provision finds the local user for an external identity subject,
// creating one with defaults on first sight.
func (s *Service) Provision(ctx context.Context, externalSubject, userID, locale string) (*User, error) {
	existing, err := s.repo.GetByExternalSubject(ctx, externalSubject)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	u := DefaultUser(userID, externalSubject)
	if locale != "" {
		u.Locale = locale
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// DeleteUser deletes a user and all associated data.
func (s *Service) DeleteUser(ctx context.Context, userID string) error {
	return s.repo.Delete(ctx, userID)
}

func parseSkinType(v string) (personalization.SkinType, error) {
	switch personalization.SkinType(v) {
	case personalization.SkinTypeDry,
		personalization.SkinTypeOily,
		personalization.SkinTypeCombination,
		personalization.SkinTypeSensitive,
		personalization.SkinTypeNormal:
		return personalization.SkinType(v), nil
	case "":
		return "", nil
	default:
		return "", ErrInvalidSkinType
	}
}

func toAPIProfile(p *Profile) *models.WellnessProfile {
	return &models.WellnessProfile{
		Age:                p.Age,
		SkinType:           string(p.SkinType),
		MedicalConditions:  conditionsToStrings(p.MedicalConditions),
		Lifestyle:          p.Lifestyle,
		Goals:              p.Goals,
		DailyCalorieTarget: p.DailyCalorieTarget,
		CreatedAt:          models.Timestamp(p.CreatedAt),
		UpdatedAt:          models.Timestamp(p.UpdatedAt),
	}
}

func toAPIConsents(c *Consents) *models.Consents {
	return &models.Consents{
		Analytics:         c.Analytics,
		AIProcessing:      c.AIProcessing,
		PushNotifications: c.PushNotifications,
		UpdatedAt:         models.Timestamp(c.UpdatedAt),
	}
}
