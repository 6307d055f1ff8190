// Package resolver implements workflow-step and permission resolution from the
// layered governance configuration.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/RMF112018/project-controls/pkg/flags"
	"github.com/RMF112018/project-controls/pkg/models"
	"github.com/RMF112018/project-controls/pkg/persistence"
)

// WorkflowStepResolver produces the concrete assignee chain for a workflow and
// project. Resolution is a pure function of the configuration snapshot; every
// "nobody is assigned" case degrades to a sentinel assignee instead of an error
// so callers can always render the full pending chain.
type WorkflowStepResolver struct {
	persistence persistence.Persistence
	flags       *flags.Registry
	logger      *slog.Logger
}

// NewWorkflowStepResolver creates a workflow step resolver.
func NewWorkflowStepResolver(p persistence.Persistence, registry *flags.Registry, logger *slog.Logger) *WorkflowStepResolver {
	return &WorkflowStepResolver{persistence: p, flags: registry, logger: logger}
}

// ResolveSteps resolves every step of the named workflow for a project, in
// ascending step order. An unknown workflow key yields an empty chain: callers
// treat "no workflow" as "no gating".
func (r *WorkflowStepResolver) ResolveSteps(ctx context.Context, key models.WorkflowKey, projectCode string) ([]models.ResolvedWorkflowStep, error) {
	definition, err := r.persistence.Workflows().ByKey(ctx, key)
	if err != nil {
		if errors.Is(err, persistence.ErrWorkflowNotFound) {
			return []models.ResolvedWorkflowStep{}, nil
		}

		return nil, fmt.Errorf("failed to load workflow %s: %w", key, err)
	}

	steps := make([]models.WorkflowStep, len(definition.Steps))
	copy(steps, definition.Steps)
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].StepOrder < steps[j].StepOrder })

	resolved := make([]models.ResolvedWorkflowStep, 0, len(steps))

	for _, step := range steps {
		if step.FeatureFlag != "" && !r.flags.Enabled(ctx, step.FeatureFlag) {
			if !step.IsSkippable {
				// Disabled and not skippable: the step does not exist in this chain.
				continue
			}

			resolved = append(resolved, models.ResolvedWorkflowStep{
				StepID:        step.ID,
				StepOrder:     step.StepOrder,
				Name:          step.Name,
				Assignee:      models.Unassigned(),
				Source:        models.SourceDefault,
				ActionLabel:   step.ActionLabel,
				ChairsMeeting: step.ChairsMeeting,
				Skipped:       true,
				SkipReason:    fmt.Sprintf("feature flag %q is disabled", step.FeatureFlag),
			})

			continue
		}

		entry, err := r.resolveStep(ctx, step, projectCode)
		if err != nil {
			return nil, err
		}

		resolved = append(resolved, entry)
	}

	return resolved, nil
}

func (r *WorkflowStepResolver) resolveStep(ctx context.Context, step models.WorkflowStep, projectCode string) (models.ResolvedWorkflowStep, error) {
	entry := models.ResolvedWorkflowStep{
		StepID:        step.ID,
		StepOrder:     step.StepOrder,
		Name:          step.Name,
		ActionLabel:   step.ActionLabel,
		ChairsMeeting: step.ChairsMeeting,
	}

	override, err := r.persistence.Overrides().ByProjectStep(ctx, projectCode, step.ID)
	if err != nil && !errors.Is(err, persistence.ErrOverrideNotFound) {
		return entry, fmt.Errorf("failed to look up override for step %s: %w", step.ID, err)
	}

	if override != nil {
		entry.Assignee = override.Assignee
		entry.Source = models.SourceOverride
		entry.ConditionMet = true

		return entry, nil
	}

	switch step.AssignmentType {
	case models.AssignmentProjectRole:
		return r.resolveProjectRole(ctx, step, projectCode, entry)
	case models.AssignmentNamedPerson:
		return r.resolveNamedPerson(ctx, step, projectCode, entry)
	}

	// Unknown assignment type in stored configuration; degrade to a sentinel.
	r.logger.WarnContext(ctx, "unknown assignment type", "step", step.ID, "type", step.AssignmentType)

	entry.Assignee = models.Unassigned()
	entry.Source = models.SourceDefault

	return entry, nil
}

func (r *WorkflowStepResolver) resolveProjectRole(ctx context.Context, step models.WorkflowStep, projectCode string, entry models.ResolvedWorkflowStep) (models.ResolvedWorkflowStep, error) {
	member, err := r.persistence.Teams().MemberByRole(ctx, projectCode, step.ProjectRole)
	if err != nil {
		if errors.Is(err, persistence.ErrAssignmentNotFound) {
			// Soft failure: the project simply has nobody in the role yet.
			entry.Assignee = models.NoRoleAssigned(step.ProjectRole)
			entry.Source = models.SourceProjectRole
			entry.ConditionMet = false

			return entry, nil
		}

		return entry, fmt.Errorf("failed to look up %s for project %s: %w", step.ProjectRole, projectCode, err)
	}

	entry.Assignee = member.Assignee()
	entry.Source = models.SourceProjectRole
	entry.ConditionMet = true

	return entry, nil
}

func (r *WorkflowStepResolver) resolveNamedPerson(ctx context.Context, step models.WorkflowStep, projectCode string, entry models.ResolvedWorkflowStep) (models.ResolvedWorkflowStep, error) {
	if !step.IsConditional {
		entry.Assignee = step.DefaultAssignee
		entry.Source = models.SourceDefault
		entry.ConditionMet = true

		return entry, nil
	}

	lead, err := r.persistence.Leads().ByProjectCode(ctx, projectCode)
	if err != nil && !errors.Is(err, persistence.ErrLeadNotFound) {
		return entry, fmt.Errorf("failed to load lead record for project %s: %w", projectCode, err)
	}

	// Stable sort by priority, then first full match wins. Rules are not
	// trusted to be stored pre-sorted.
	rules := make([]models.ConditionalAssignment, len(step.ConditionalAssignees))
	copy(rules, step.ConditionalAssignees)
	sort.SliceStable(rules, func(i, j int) bool { return rules[i].Priority < rules[j].Priority })

	// A missing lead record still evaluates: rules with no conditions match any
	// project vacuously.
	var leadRecord models.LeadRecord
	if lead != nil {
		leadRecord = *lead
	}

	for _, rule := range rules {
		if matchesAll(rule.Conditions, leadRecord) {
			entry.Assignee = rule.Assignee
			entry.Source = models.SourceCondition
			entry.ConditionMet = true

			return entry, nil
		}
	}

	entry.Assignee = step.DefaultAssignee
	entry.Source = models.SourceDefault
	entry.ConditionMet = len(rules) == 0

	return entry, nil
}

func matchesAll(conditions []models.AssignmentCondition, lead models.LeadRecord) bool {
	for _, c := range conditions {
		if lead.Field(c.Field) != c.Value {
			return false
		}
	}

	return true
}
