package services

import (
	"context"
	"log/slog"

	"github.com/RMF112018/project-controls/pkg/eventbus"
	"github.com/RMF112018/project-controls/pkg/events"
	"github.com/RMF112018/project-controls/pkg/guard"
	"github.com/RMF112018/project-controls/pkg/models"
	"github.com/RMF112018/project-controls/pkg/persistence"
	"github.com/RMF112018/project-controls/pkg/templatesync"
)

// Template runs guarded template syncs and audits the outcome.
type Template struct {
	persistence persistence.Persistence
	coordinator *templatesync.Coordinator
	limiter     *guard.RateLimiter
	bus         eventbus.EventPublisher
	logger      *slog.Logger
}

// NewTemplate creates a template service.
func NewTemplate(
	p persistence.Persistence,
	coordinator *templatesync.Coordinator,
	limiter *guard.RateLimiter,
	bus eventbus.EventPublisher,
	logger *slog.Logger,
) *Template {
	return &Template{
		persistence: p,
		coordinator: coordinator,
		limiter:     limiter,
		bus:         bus,
		logger:      logger,
	}
}

// Get returns a shared template by id.
func (s *Template) Get(ctx context.Context, templateID string) (*models.SharedTemplate, error) {
	return s.persistence.SharedTemplates().ByID(ctx, templateID)
}

// Sync runs the guarded sync for a template. Guard failures propagate unchanged
// to the caller; both outcomes are audited.
func (s *Template) Sync(ctx context.Context, templateID, actor string, approvals []models.SyncApproval) error {
	if actor == "" {
		return &ServiceError{Op: "Sync", Err: ErrActorRequired}
	}

	if err := s.limiter.Check(actor, "template.sync"); err != nil {
		return err
	}

	if err := s.coordinator.Run(ctx, templateID, approvals); err != nil {
		event := events.TemplateSyncFailed{
			BaseEvent: events.NewBaseEvent(events.TemplateSyncFailedEvent, "shared_template", templateID, actor),
			Reason:    err.Error(),
		}
		publishAudit(ctx, s.bus, s.logger, templateID, event)

		return err
	}

	approvers := make([]string, 0, len(approvals))
	for _, a := range approvals {
		approvers = append(approvers, a.ApproverEmail)
	}

	event := events.TemplateSyncSucceeded{
		BaseEvent: events.NewBaseEvent(events.TemplateSyncSucceededEvent, "shared_template", templateID, actor),
		Approvers: approvers,
	}
	publishAudit(ctx, s.bus, s.logger, templateID, event)

	return nil
}
