package journal_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alessandro-lagamba/yachai-server/internal/api/models"
	"github.com/alessandro-lagamba/yachai-server/internal/featureflags"
	"github.com/alessandro-lagamba/yachai-server/internal/insight"
	"github.com/alessandro-lagamba/yachai-server/internal/journal"
)

type stubReflector struct {
	reflection *insight.Reflection
	err        error
	calls      int
}

func (s *stubReflector) AnalyzeJournal(_ context.Context, _ string, _ *float64) (*insight.Reflection, error) {
	s.calls++
	return s.reflection, s.err
}

func newTestService(reflector journal.Reflector) *journal.Service {
	return journal.NewService(journal.ServiceConfig{
		Repository: journal.NewInMemoryRepository(),
		Reflector:  reflector,
		Flags: featureflags.NewService(featureflags.ServiceConfig{
			Repository: featureflags.NewInMemoryRepository(),
			Logger:     zerolog.Nop(),
		}),
		Logger: zerolog.Nop(),
	})
}

func TestService_Create_StoresEntryWithReflection(t *testing.T) {
	reflector := &stubReflector{reflection: &insight.Reflection{
		Summary:    "Giornata serena.",
		Themes:     []string{"famiglia"},
		Suggestion: "Continua così.",
	}}
	svc := newTestService(reflector)

	entry, err := svc.Create(context.Background(), "usr_1", &models.JournalEntryInput{
		Content: "Oggi mi sento bene.",
	})
	require.NoError(t, err)

	assert.Contains(t, entry.ID, "jrn_")
	require.NotNil(t, entry.Reflection)
	assert.Equal(t, "Giornata serena.", entry.Reflection.Summary)
	assert.Equal(t, 1, reflector.calls)
}

func TestService_Create_KeepsEntryWhenReflectionFails(t *testing.T) {
	reflector := &stubReflector{err: errors.New("provider down")}
	svc := newTestService(reflector)
	ctx := context.Background()

	entry, err := svc.Create(ctx, "usr_1", &models.JournalEntryInput{Content: "Una giornata no."})
	require.NoError(t, err)
	assert.Nil(t, entry.Reflection)

	stored, err := svc.Get(ctx, "usr_1", entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "Una giornata no.", stored.Content)
}

func TestService_Create_ValidatesContent(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, "usr_1", &models.JournalEntryInput{Content: "   "})
	assert.ErrorIs(t, err, journal.ErrEmptyContent)

	_, err = svc.Create(ctx, "usr_1", &models.JournalEntryInput{
		Content: strings.Repeat("a", journal.MaxContentLength+1),
	})
	assert.ErrorIs(t, err, journal.ErrContentTooLong)
}

func TestService_Create_SkipsReflectionWhenFlagged(t *testing.T) {
	reflector := &stubReflector{reflection: &insight.Reflection{Summary: "x"}}
	flags := featureflags.NewService(featureflags.ServiceConfig{
		Repository: featureflags.NewInMemoryRepository(),
		Logger:     zerolog.Nop(),
	})
	require.NoError(t, flags.SetFlag(context.Background(), &featureflags.Flag{
		Key:   featureflags.FlagDisableJournalReflection,
		Value: true,
	}))

	svc := journal.NewService(journal.ServiceConfig{
		Repository: journal.NewInMemoryRepository(),
		Reflector:  reflector,
		Flags:      flags,
		Logger:     zerolog.Nop(),
	})

	entry, err := svc.Create(context.Background(), "usr_1", &models.JournalEntryInput{Content: "Ciao diario."})
	require.NoError(t, err)
	assert.Nil(t, entry.Reflection)
	assert.Equal(t, 0, reflector.calls)
}

func TestService_List_NewestFirstAndScoped(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	first, err := svc.Create(ctx, "usr_1", &models.JournalEntryInput{Content: "prima"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, "usr_1", &models.JournalEntryInput{Content: "seconda"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "usr_2", &models.JournalEntryInput{Content: "altro utente"})
	require.NoError(t, err)

	list, err := svc.List(ctx, "usr_1", time.Time{}, 10)
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, second.ID, list.Items[0].ID)
	assert.Equal(t, first.ID, list.Items[1].ID)
}

func TestService_Delete_ScopedToOwner(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	entry, err := svc.Create(ctx, "usr_1", &models.JournalEntryInput{Content: "da cancellare"})
	require.NoError(t, err)

	err = svc.Delete(ctx, "usr_2", entry.ID)
	assert.ErrorIs(t, err, journal.ErrEntryNotFound)

	err = svc.Delete(ctx, "usr_1", entry.ID)
	assert.NoError(t, err)
}
