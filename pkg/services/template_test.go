package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/RMF112018/project-controls/pkg/events"
	"github.com/RMF112018/project-controls/pkg/guard"
	"github.com/RMF112018/project-controls/pkg/mocks"
	"github.com/RMF112018/project-controls/pkg/models"
	"github.com/RMF112018/project-controls/pkg/otelhelper"
	"github.com/RMF112018/project-controls/pkg/persistence/file"
	"github.com/RMF112018/project-controls/pkg/templatesync"
	"github.com/RMF112018/project-controls/pkg/testutil"
)

type failingSyncer struct {
	err error
}

func (s *failingSyncer) Sync(_ context.Context, _ *models.SharedTemplate) error {
	return s.err
}

func newTemplateService(t *testing.T, syncer templatesync.Syncer) (*Template, *file.Persistence, *mocks.MockEventBus) {
	t.Helper()

	p := file.NewPersistence(t.TempDir())
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	if syncer == nil {
		syncer = templatesync.NewLogSyncer(logger)
	}

	coordinator := templatesync.NewCoordinator(
		p.SharedTemplates(),
		templatesync.NewLockTable(),
		syncer,
		logger,
		otelhelper.NewNoopTracer(),
	)

	bus := &mocks.MockEventBus{}
	bus.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	service := NewTemplate(p, coordinator, guard.NewDefaultRateLimiter(), bus, logger)

	return service, p, bus
}

func syncQuorum() []models.SyncApproval {
	return []models.SyncApproval{
		{ApproverEmail: "alice@example.com"},
		{ApproverEmail: "bob@example.com"},
	}
}

func TestTemplate_SyncSuccessIsAudited(t *testing.T) {
	service, p, bus := newTemplateService(t, nil)

	template := testutil.CreateTestSharedTemplate()
	require.NoError(t, p.SharedTemplates().Save(t.Context(), template))

	require.NoError(t, service.Sync(t.Context(), template.ID, "admin@example.com", syncQuorum()))

	saved, err := service.Get(t.Context(), template.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SyncSuccess, saved.SyncStatus)

	bus.AssertCalled(t, "Publish", mock.Anything, template.ID, mock.MatchedBy(func(event any) bool {
		e, ok := event.(events.TemplateSyncSucceeded)

		return ok && e.GetType() == events.TemplateSyncSucceededEvent
	}))
}

func TestTemplate_SyncFailureIsAudited(t *testing.T) {
	service, p, bus := newTemplateService(t, &failingSyncer{err: errors.New("endpoint down")})

	template := testutil.CreateTestSharedTemplate()
	require.NoError(t, p.SharedTemplates().Save(t.Context(), template))

	err := service.Sync(t.Context(), template.ID, "admin@example.com", syncQuorum())
	require.Error(t, err)

	saved, getErr := service.Get(t.Context(), template.ID)
	require.NoError(t, getErr)
	assert.Equal(t, models.SyncFailed, saved.SyncStatus)

	bus.AssertCalled(t, "Publish", mock.Anything, template.ID, mock.MatchedBy(func(event any) bool {
		e, ok := event.(events.TemplateSyncFailed)

		return ok && e.GetType() == events.TemplateSyncFailedEvent
	}))
}

func TestTemplate_SyncGuardFailuresPropagate(t *testing.T) {
	service, p, _ := newTemplateService(t, nil)

	template := testutil.CreateTestSharedTemplate()
	require.NoError(t, p.SharedTemplates().Save(t.Context(), template))

	err := service.Sync(t.Context(), template.ID, "admin@example.com", syncQuorum()[:1])
	require.Error(t, err)
	assert.True(t, templatesync.IsInsufficientApprovals(err))
}

func TestTemplate_SyncRequiresActor(t *testing.T) {
	service, _, _ := newTemplateService(t, nil)

	err := service.Sync(t.Context(), "tpl-1", "", syncQuorum())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrActorRequired)
}

func TestTemplate_SyncRateLimited(t *testing.T) {
	service, p, _ := newTemplateService(t, nil)

	template := testutil.CreateTestSharedTemplate()
	require.NoError(t, p.SharedTemplates().Save(t.Context(), template))

	// Exhaust the window; sync attempts beyond the limit are refused before the
	// coordinator runs.
	for i := 0; i < guard.DefaultRateLimit; i++ {
		_ = service.Sync(t.Context(), template.ID, "admin@example.com", syncQuorum())
	}

	err := service.Sync(t.Context(), template.ID, "admin@example.com", syncQuorum())
	require.Error(t, err)
	assert.True(t, guard.IsRateLimited(err))
}
