package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alessandro-lagamba/yachai-server/internal/api/models"
	"github.com/alessandro-lagamba/yachai-server/internal/personalization"
	"github.com/alessandro-lagamba/yachai-server/internal/user"
)

func strPtr(v string) *string { return &v }
func intPtr(v int) *int       { return &v }

func newTestService(t *testing.T) (*user.Service, *user.User) {
	t.Helper()
	repo := user.NewInMemoryRepository()
	svc := user.NewService(repo)

	u, err := svc.Provision(context.Background(), "sub-abc", "usr_test1", "it-IT")
	require.NoError(t, err)
	return svc, u
}

func TestService_ProvisionIsIdempotent(t *testing.T) {
	repo := user.NewInMemoryRepository()
	svc := user.NewService(repo)
	ctx := context.Background()

	first, err := svc.Provision(ctx, "sub-abc", "usr_1", "it-IT")
	require.NoError(t, err)

	second, err := svc.Provision(ctx, "sub-abc", "usr_2", "en-US")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "same subject must map to the same user")
	assert.Equal(t, "it-IT", second.Locale)
}

func TestService_UpsertProfile_PartialUpdate(t *testing.T) {
	svc, u := newTestService(t)
	ctx := context.Background()

	_, err := svc.UpsertProfile(ctx, u.ID, &models.WellnessProfileInput{
		Age:      intPtr(31),
		SkinType: strPtr("dry"),
	})
	require.NoError(t, err)

	// A later update without skin type must not erase it.
	profile, err := svc.UpsertProfile(ctx, u.ID, &models.WellnessProfileInput{
		Goals: []string{"sleep better"},
	})
	require.NoError(t, err)

	assert.Equal(t, "dry", profile.SkinType)
	require.NotNil(t, profile.Age)
	assert.Equal(t, 31, *profile.Age)
	assert.Equal(t, []string{"sleep better"}, profile.Goals)
}

func TestService_UpsertProfile_RejectsUnknownSkinType(t *testing.T) {
	svc, u := newTestService(t)

	_, err := svc.UpsertProfile(context.Background(), u.ID, &models.WellnessProfileInput{
		SkinType: strPtr("reptilian"),
	})

	assert.ErrorIs(t, err, user.ErrInvalidSkinType)
}

func TestService_EngineProfileConversion(t *testing.T) {
	svc, u := newTestService(t)
	ctx := context.Background()

	_, err := svc.UpsertProfile(ctx, u.ID, &models.WellnessProfileInput{
		Age:               intPtr(22),
		SkinType:          strPtr("dry"),
		MedicalConditions: []string{"rosacea"},
	})
	require.NoError(t, err)

	full, err := svc.Get(ctx, u.ID)
	require.NoError(t, err)

	engine := full.EngineProfile()
	require.NotNil(t, engine)
	assert.Equal(t, personalization.SkinTypeDry, engine.SkinType)
	assert.True(t, engine.HasCondition(personalization.ConditionRosacea))
	require.NotNil(t, engine.Age)
	assert.Equal(t, 22, *engine.Age)
}

func TestService_UpdateConsents(t *testing.T) {
	svc, u := newTestService(t)
	ctx := context.Background()

	enabled := true
	consents, err := svc.UpdateConsents(ctx, u.ID, &models.ConsentsInput{AIProcessing: &enabled})
	require.NoError(t, err)

	assert.True(t, consents.AIProcessing)
	assert.False(t, consents.Analytics)
}

func TestService_GetMe_UnknownUser(t *testing.T) {
	svc := user.NewService(user.NewInMemoryRepository())

	_, err := svc.GetMe(context.Background(), "usr_missing")

	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
