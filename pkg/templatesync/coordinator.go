package templatesync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/RMF112018/project-controls/pkg/models"
	"github.com/RMF112018/project-controls/pkg/otelhelper"
	"github.com/RMF112018/project-controls/pkg/persistence"
)

// Syncer performs the actual registry synchronization. The production
// implementation talks to the site-provisioning collaborator; the engine only
// guards the call.
type Syncer interface {
	Sync(ctx context.Context, template *models.SharedTemplate) error
}

// Coordinator runs a guarded template sync end to end: content validation,
// exclusive lock, state transition, approval quorum, the sync itself, and the
// terminal transition. The lock is released on every exit path so a failed sync
// can never wedge a template.
type Coordinator struct {
	repo     persistence.SharedTemplateRepository
	locks    *LockTable
	syncer   Syncer
	logger   *slog.Logger
	tracer   trace.Tracer
	required int
	now      func() time.Time
}

// NewCoordinator creates a sync coordinator requiring the default approval quorum.
func NewCoordinator(repo persistence.SharedTemplateRepository, locks *LockTable, syncer Syncer, logger *slog.Logger, tracer trace.Tracer) *Coordinator {
	return &Coordinator{
		repo:     repo,
		locks:    locks,
		syncer:   syncer,
		logger:   logger,
		tracer:   tracer,
		required: RequiredApprovals,
		now:      time.Now,
	}
}

// Run executes a guarded sync of the template. Guard failures propagate
// unchanged so callers can branch on the failure kind.
func (c *Coordinator) Run(ctx context.Context, templateID string, approvals []models.SyncApproval) error {
	ctx, span := otelhelper.StartSpan(ctx, c.tracer, "templatesync.run",
		attribute.String(otelhelper.TemplateIDKey, templateID),
	)
	defer span.End()

	template, err := c.repo.ByID(ctx, templateID)
	if err != nil {
		return otelhelper.RecordError(span, fmt.Errorf("failed to load template %s: %w", templateID, err))
	}

	if err := AssertContentValid(*template); err != nil {
		return otelhelper.RecordError(span, err)
	}

	if err := c.locks.Acquire(templateID); err != nil {
		return otelhelper.RecordError(span, err)
	}
	defer c.locks.Release(templateID)

	if err := AssertValidTransition(template.SyncStatus, models.SyncSyncing); err != nil {
		return otelhelper.RecordError(span, err)
	}

	if err := AssertApproved(approvals, c.required); err != nil {
		return otelhelper.RecordError(span, err)
	}

	if err := c.setStatus(ctx, template, models.SyncSyncing); err != nil {
		return otelhelper.RecordError(span, err)
	}

	if err := c.syncer.Sync(ctx, template); err != nil {
		c.logger.ErrorContext(ctx, "template sync failed", "template_id", templateID, "error", err)

		if saveErr := c.setStatus(ctx, template, models.SyncFailed); saveErr != nil {
			return otelhelper.RecordError(span, saveErr)
		}

		return otelhelper.RecordError(span, fmt.Errorf("sync failed for template %s: %w", templateID, err))
	}

	syncedAt := c.now()
	template.LastSyncedAt = &syncedAt

	if err := c.setStatus(ctx, template, models.SyncSuccess); err != nil {
		return otelhelper.RecordError(span, err)
	}

	c.logger.InfoContext(ctx, "template sync succeeded", "template_id", templateID)

	return nil
}

func (c *Coordinator) setStatus(ctx context.Context, template *models.SharedTemplate, status models.SyncStatus) error {
	if err := AssertValidTransition(template.SyncStatus, status); err != nil {
		return err
	}

	template.SyncStatus = status

	if err := c.repo.Save(ctx, template); err != nil {
		return fmt.Errorf("failed to persist sync status %s: %w", status, err)
	}

	return nil
}
