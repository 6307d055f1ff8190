// Package persistence provides the data access abstraction the governance engine
// reads its configuration through.
package persistence

import (
	"context"

	"github.com/RMF112018/project-controls/pkg/models"
)

// Persistence groups the repositories backing the resolution and guard components.
// The engine only ever reads through these interfaces; writes happen in the
// service layer after a guard has passed.
type Persistence interface {
	Workflows() WorkflowRepository
	Overrides() OverrideRepository
	Teams() TeamRepository
	Leads() LeadRepository
	Users() UserRepository
	Templates() TemplateRepository
	GroupMappings() GroupMappingRepository
	Roles() RoleRepository
	FeatureFlags() FeatureFlagRepository
	SharedTemplates() SharedTemplateRepository

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}

// WorkflowRepository stores workflow definitions keyed by workflow key.
type WorkflowRepository interface {
	ByKey(ctx context.Context, key models.WorkflowKey) (*models.WorkflowDefinition, error)
	List(ctx context.Context) ([]*models.WorkflowDefinition, error)
	Save(ctx context.Context, definition *models.WorkflowDefinition) error
}

// OverrideRepository stores per-(project, step) assignee pins.
type OverrideRepository interface {
	ByProjectStep(ctx context.Context, projectCode, stepID string) (*models.WorkflowStepOverride, error)
	Save(ctx context.Context, override *models.WorkflowStepOverride) error
	Delete(ctx context.Context, projectCode, stepID string) error
}

// TeamRepository stores project team assignments.
type TeamRepository interface {
	MemberByRole(ctx context.Context, projectCode, role string) (*models.ProjectTeamAssignment, error)
	Assignment(ctx context.Context, userEmail, projectCode string) (*models.ProjectTeamAssignment, error)
	AssignmentsByEmail(ctx context.Context, userEmail string) ([]*models.ProjectTeamAssignment, error)
}

// LeadRepository reads the lead records conditional rules match against.
type LeadRepository interface {
	ByProjectCode(ctx context.Context, projectCode string) (*models.LeadRecord, error)
	List(ctx context.Context) ([]*models.LeadRecord, error)
}

// UserRepository maps principals to their security group.
type UserRepository interface {
	ByEmail(ctx context.Context, email string) (*models.UserAccount, error)
}

// TemplateRepository stores permission templates.
type TemplateRepository interface {
	ByID(ctx context.Context, id string) (*models.PermissionTemplate, error)
	Default(ctx context.Context) (*models.PermissionTemplate, error)
}

// GroupMappingRepository stores security-group to default-template mappings.
type GroupMappingRepository interface {
	ByGroup(ctx context.Context, groupName string) (*models.SecurityGroupMapping, error)
}

// RoleRepository stores role configurations.
type RoleRepository interface {
	ByID(ctx context.Context, id string) (*models.RoleConfiguration, error)
	ByName(ctx context.Context, roleName string) (*models.RoleConfiguration, error)
	ListActive(ctx context.Context) ([]*models.RoleConfiguration, error)
	Save(ctx context.Context, role *models.RoleConfiguration) error
}

// FeatureFlagRepository reads workflow-step gating flags.
type FeatureFlagRepository interface {
	ByName(ctx context.Context, name string) (*models.FeatureFlag, error)
}

// SharedTemplateRepository stores shared template records and their sync status.
type SharedTemplateRepository interface {
	ByID(ctx context.Context, id string) (*models.SharedTemplate, error)
	Save(ctx context.Context, template *models.SharedTemplate) error
}
