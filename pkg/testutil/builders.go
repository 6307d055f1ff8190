// Package testutil provides test data builders and utilities for testing.
package testutil

import (
	"github.com/google/uuid"

	"github.com/RMF112018/project-controls/pkg/models"
)

// CreateTestStep creates a workflow step with default values that can be overridden.
func CreateTestStep(overrides ...func(*models.WorkflowStep)) models.WorkflowStep {
	step := models.WorkflowStep{
		ID:             uuid.New().String(),
		StepOrder:      1,
		Name:           "Test Step",
		AssignmentType: models.AssignmentNamedPerson,
		DefaultAssignee: models.Assignee{
			UserID:      uuid.New().String(),
			DisplayName: "Default Approver",
			Email:       "default.approver@example.com",
		},
		ActionLabel: "Approve",
	}

	for _, override := range overrides {
		override(&step)
	}

	return step
}

// WithStepOrder sets the step's position in the chain.
func WithStepOrder(order int) func(*models.WorkflowStep) {
	return func(s *models.WorkflowStep) {
		s.StepOrder = order
	}
}

// WithProjectRole configures the step to resolve from the project team.
func WithProjectRole(role string) func(*models.WorkflowStep) {
	return func(s *models.WorkflowStep) {
		s.AssignmentType = models.AssignmentProjectRole
		s.ProjectRole = role
		s.DefaultAssignee = models.Assignee{}
	}
}

// WithConditionalRules configures the step with conditional assignment rules.
func WithConditionalRules(rules ...models.ConditionalAssignment) func(*models.WorkflowStep) {
	return func(s *models.WorkflowStep) {
		s.IsConditional = true
		s.ConditionalAssignees = rules
	}
}

// WithFeatureFlag gates the step behind a feature flag.
func WithFeatureFlag(name string, skippable bool) func(*models.WorkflowStep) {
	return func(s *models.WorkflowStep) {
		s.FeatureFlag = name
		s.IsSkippable = skippable
	}
}

// CreateTestDefinition creates a workflow definition holding the given steps.
func CreateTestDefinition(key models.WorkflowKey, steps ...models.WorkflowStep) *models.WorkflowDefinition {
	return &models.WorkflowDefinition{
		ID:    uuid.New().String(),
		Key:   key,
		Name:  "Test Workflow",
		Steps: steps,
	}
}

// CreateTestSharedTemplate creates a shared template with valid content that can
// be overridden.
func CreateTestSharedTemplate(overrides ...func(*models.SharedTemplate)) *models.SharedTemplate {
	template := &models.SharedTemplate{
		ID:              uuid.New().String(),
		Title:           "Commercial Project Template",
		Description:     "Baseline site structure for commercial projects",
		TemplateSiteURL: "https://contoso.sharepoint.com/sites/template-commercial",
		GitRepoURL:      "https://github.com/contoso/site-templates.git",
		SyncStatus:      models.SyncIdle,
		Version:         1,
		ModifiedBy:      "template.admin@example.com",
	}

	for _, override := range overrides {
		override(template)
	}

	return template
}

// WithSyncStatus sets the template's sync state.
func WithSyncStatus(status models.SyncStatus) func(*models.SharedTemplate) {
	return func(t *models.SharedTemplate) {
		t.SyncStatus = status
	}
}

// CreateTestPermissionTemplate creates an active permission template granting the
// given per-tool access.
func CreateTestPermissionTemplate(id, name string, access ...models.ToolAccess) models.PermissionTemplate {
	return models.PermissionTemplate{
		ID:         id,
		Name:       name,
		ToolAccess: access,
		IsActive:   true,
		Version:    1,
	}
}
