// Package web provides the HTTP surface of the governance engine.
package web

import (
	"time"

	"github.com/RMF112018/project-controls/pkg/models"
)

// SetOverrideRequest pins a step assignee for one project.
type SetOverrideRequest struct {
	ProjectCode string          `json:"project_code" validate:"required"`
	StepID      string          `json:"step_id"      validate:"required"`
	Assignee    models.Assignee `json:"assignee"`
	Reason      string          `json:"reason"`
	Actor       string          `json:"actor"        validate:"required,email"`
}

// CreateRoleRequest creates a new role configuration.
type CreateRoleRequest struct {
	RoleName           string   `json:"role_name"    validate:"required"`
	DisplayName        string   `json:"display_name" validate:"required"`
	Description        string   `json:"description"`
	DefaultPermissions []string `json:"default_permissions"`
	Actor              string   `json:"actor"        validate:"required,email"`
}

// UpdateRoleRequest partially updates a role configuration. Protected fields are
// not accepted here at all; the service additionally discards them by
// construction.
type UpdateRoleRequest struct {
	DisplayName        *string  `json:"display_name,omitempty" validate:"omitempty,min=1"`
	Description        *string  `json:"description,omitempty"`
	DefaultPermissions []string `json:"default_permissions,omitempty"`
	Actor              string   `json:"actor" validate:"required,email"`
}

// SyncApprovalRequest is one approver sign-off in a sync request.
type SyncApprovalRequest struct {
	ApproverEmail string    `json:"approver_email" validate:"required,email"`
	ApprovedAt    time.Time `json:"approved_at"`
	Role          string    `json:"role"`
}

// SyncTemplateRequest triggers a guarded template sync.
type SyncTemplateRequest struct {
	Actor     string                `json:"actor"     validate:"required,email"`
	Approvals []SyncApprovalRequest `json:"approvals" validate:"required,dive"`
}

// ToApprovals converts the request approvals into the model shape.
func (r SyncTemplateRequest) ToApprovals() []models.SyncApproval {
	approvals := make([]models.SyncApproval, 0, len(r.Approvals))
	for _, a := range r.Approvals {
		approvals = append(approvals, models.SyncApproval{
			ApproverEmail: a.ApproverEmail,
			ApprovedAt:    a.ApprovedAt,
			Role:          a.Role,
		})
	}

	return approvals
}
