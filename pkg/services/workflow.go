package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/RMF112018/project-controls/pkg/eventbus"
	"github.com/RMF112018/project-controls/pkg/events"
	"github.com/RMF112018/project-controls/pkg/guard"
	"github.com/RMF112018/project-controls/pkg/models"
	"github.com/RMF112018/project-controls/pkg/persistence"
	"github.com/RMF112018/project-controls/pkg/resolver"
	"github.com/RMF112018/project-controls/pkg/schema"
)

// Workflow exposes step resolution and override management.
type Workflow struct {
	persistence persistence.Persistence
	resolver    *resolver.WorkflowStepResolver
	limiter     *guard.RateLimiter
	bus         eventbus.EventPublisher
	logger      *slog.Logger
	now         func() time.Time
}

// NewWorkflow creates a workflow service.
func NewWorkflow(
	p persistence.Persistence,
	stepResolver *resolver.WorkflowStepResolver,
	limiter *guard.RateLimiter,
	bus eventbus.EventPublisher,
	logger *slog.Logger,
) *Workflow {
	return &Workflow{
		persistence: p,
		resolver:    stepResolver,
		limiter:     limiter,
		bus:         bus,
		logger:      logger,
		now:         time.Now,
	}
}

// HealthCheck checks the health of the persistence layer.
func (s *Workflow) HealthCheck(ctx context.Context) (string, bool) {
	if s.persistence == nil {
		return "Persistence layer not initialized", false
	}

	if err := s.persistence.HealthCheck(ctx); err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// ResolveSteps resolves the assignee chain for a workflow and project.
func (s *Workflow) ResolveSteps(ctx context.Context, key models.WorkflowKey, projectCode string) ([]models.ResolvedWorkflowStep, error) {
	return s.resolver.ResolveSteps(ctx, key, projectCode)
}

// ImportDefinition validates a raw workflow-definition document against the
// schema and persists it.
func (s *Workflow) ImportDefinition(ctx context.Context, document []byte, actor string) (*models.WorkflowDefinition, error) {
	if err := schema.ValidateWorkflowDefinition(document); err != nil {
		return nil, &ServiceError{Op: "ImportDefinition", Message: err.Error(), Err: ErrInvalidRequest}
	}

	var definition models.WorkflowDefinition
	if err := json.Unmarshal(document, &definition); err != nil {
		return nil, &ServiceError{Op: "ImportDefinition", Message: err.Error(), Err: ErrInvalidRequest}
	}

	if err := s.limiter.Check(actor, "workflow.import"); err != nil {
		return nil, err
	}

	if definition.ID == "" {
		definition.ID = uuid.NewString()
	}

	for i := range definition.Steps {
		if definition.Steps[i].ID == "" {
			definition.Steps[i].ID = uuid.NewString()
		}
	}

	now := s.now().UTC()
	definition.UpdatedAt = now

	if definition.CreatedAt.IsZero() {
		definition.CreatedAt = now
	}

	if err := s.persistence.Workflows().Save(ctx, &definition); err != nil {
		return nil, fmt.Errorf("failed to save workflow %s: %w", definition.Key, err)
	}

	return &definition, nil
}

// SetOverrideRequest pins an assignee for a (project, step) pair.
type SetOverrideRequest struct {
	ProjectCode string          `json:"project_code" validate:"required"`
	StepID      string          `json:"step_id"      validate:"required"`
	Assignee    models.Assignee `json:"assignee"`
	Reason      string          `json:"reason"`
	Actor       string          `json:"actor"        validate:"required,email"`
}

// SetOverride pins the step assignee. The override outranks every other
// resolution source until removed.
func (s *Workflow) SetOverride(ctx context.Context, req SetOverrideRequest) (*models.WorkflowStepOverride, error) {
	if err := s.limiter.Check(req.Actor, "workflow.override.set"); err != nil {
		return nil, err
	}

	override := &models.WorkflowStepOverride{
		ProjectCode: req.ProjectCode,
		StepID:      req.StepID,
		Assignee:    req.Assignee,
		Reason:      req.Reason,
		CreatedBy:   req.Actor,
		CreatedAt:   s.now().UTC(),
	}

	if err := s.persistence.Overrides().Save(ctx, override); err != nil {
		return nil, fmt.Errorf("failed to save override for %s/%s: %w", req.ProjectCode, req.StepID, err)
	}

	event := events.OverrideSet{
		BaseEvent: events.NewBaseEvent(events.OverrideSetEvent, "override", req.ProjectCode+"/"+req.StepID, req.Actor),
		Reason:    req.Reason,
	}
	event.After = snapshot(override)
	publishAudit(ctx, s.bus, s.logger, req.ProjectCode, event)

	return override, nil
}

// RemoveOverride deletes the pin for a (project, step) pair.
func (s *Workflow) RemoveOverride(ctx context.Context, projectCode, stepID, actor string) error {
	if actor == "" {
		return &ServiceError{Op: "RemoveOverride", Err: ErrActorRequired}
	}

	if err := s.limiter.Check(actor, "workflow.override.remove"); err != nil {
		return err
	}

	existing, err := s.persistence.Overrides().ByProjectStep(ctx, projectCode, stepID)
	if err != nil {
		return err
	}

	if err := s.persistence.Overrides().Delete(ctx, projectCode, stepID); err != nil {
		return fmt.Errorf("failed to delete override for %s/%s: %w", projectCode, stepID, err)
	}

	event := events.OverrideRemoved{
		BaseEvent: events.NewBaseEvent(events.OverrideRemovedEvent, "override", projectCode+"/"+stepID, actor),
	}
	event.Before = snapshot(existing)
	publishAudit(ctx, s.bus, s.logger, projectCode, event)

	return nil
}
