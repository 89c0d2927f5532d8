package featureflags_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alessandro-lagamba/yachai-server/internal/featureflags"
)

func newTestService(repo featureflags.Repository) *featureflags.Service {
	return featureflags.NewService(featureflags.ServiceConfig{
		Repository: repo,
		Logger:     zerolog.Nop(),
		CacheTTL:   50 * time.Millisecond,
	})
}

func TestService_GetFlag_FallsBackToDefault(t *testing.T) {
	svc := newTestService(featureflags.NewInMemoryRepository())

	flag := svc.GetFlag(context.Background(), featureflags.FlagDisableJournalReflection)
	require.NotNil(t, flag)
	assert.False(t, flag.BoolValue(true))
}

func TestService_GetFlag_UnknownKey(t *testing.T) {
	svc := newTestService(featureflags.NewInMemoryRepository())

	flag := svc.GetFlag(context.Background(), "no_such_flag")
	assert.Nil(t, flag)
	// Nil flags still evaluate through BoolValue.
	assert.True(t, flag.BoolValue(true))
}

func TestService_SetFlag_OverridesDefault(t *testing.T) {
	svc := newTestService(featureflags.NewInMemoryRepository())
	ctx := context.Background()

	err := svc.SetFlag(ctx, &featureflags.Flag{
		Key:   featureflags.FlagDisableCoachMessage,
		Value: true,
	})
	require.NoError(t, err)

	assert.True(t, svc.IsCoachMessageDisabled(ctx))
}

func TestService_GetFlag_CachesRepositoryValue(t *testing.T) {
	repo := featureflags.NewInMemoryRepository()
	svc := newTestService(repo)
	ctx := context.Background()

	require.NoError(t, svc.SetFlag(ctx, &featureflags.Flag{
		Key:   featureflags.FlagCachedOnlyInsights,
		Value: true,
	}))

	// Mutate the store behind the cache; cached value should win until
	// invalidated.
	require.NoError(t, repo.SetFlag(ctx, &featureflags.Flag{
		Key:   featureflags.FlagCachedOnlyInsights,
		Value: false,
	}))
	assert.True(t, svc.IsCachedOnlyInsights(ctx))

	svc.InvalidateCache()
	assert.False(t, svc.IsCachedOnlyInsights(ctx))
}

func TestService_GetAllFlags_MergesOverDefaults(t *testing.T) {
	repo := featureflags.NewInMemoryRepository()
	svc := newTestService(repo)
	ctx := context.Background()

	require.NoError(t, repo.SetFlag(ctx, &featureflags.Flag{
		Key:   featureflags.FlagDisablePatternDetection,
		Value: true,
	}))

	flags := svc.GetAllFlags(ctx)
	assert.Len(t, flags, len(featureflags.DefaultFlags()))
	assert.True(t, flags[featureflags.FlagDisablePatternDetection].BoolValue(false))
	assert.False(t, flags[featureflags.FlagDisableCoachMessage].BoolValue(false))
}
