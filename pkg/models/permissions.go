package models

import "time"

// AccessLevel is the per-tool access tier granted by a permission template.
type AccessLevel string

const (
	AccessNone     AccessLevel = "NONE"
	AccessReadOnly AccessLevel = "READ_ONLY"
	AccessStandard AccessLevel = "STANDARD"
	AccessAdmin    AccessLevel = "ADMIN"
)

// ToolAccess grants one access level plus granular flags for a single tool.
type ToolAccess struct {
	ToolKey       string      `json:"tool_key" validate:"required"`
	Level         AccessLevel `json:"level"    validate:"required,oneof=NONE READ_ONLY STANDARD ADMIN"`
	GranularFlags []string    `json:"granular_flags,omitempty"`
}

// PermissionTemplate is a named bundle of per-tool access levels. Templates are
// long-lived configuration; Version increments on cross-environment promotion.
type PermissionTemplate struct {
	ID           string       `json:"id"`
	Name         string       `json:"name" validate:"required"`
	IdentityType string       `json:"identity_type,omitempty"`
	GlobalAccess bool         `json:"global_access"`
	ToolAccess   []ToolAccess `json:"tool_access"`
	IsDefault    bool         `json:"is_default"`
	IsActive     bool         `json:"is_active"`
	Version      int          `json:"version"`
	CreatedAt    time.Time    `json:"created_at"`
	CreatedBy    string       `json:"created_by"`
	ModifiedAt   time.Time    `json:"modified_at"`
	ModifiedBy   string       `json:"modified_by"`
}

// SecurityGroupMapping points an external-identity group at its default template.
type SecurityGroupMapping struct {
	GroupName         string `json:"group_name"          validate:"required"`
	DefaultTemplateID string `json:"default_template_id" validate:"required"`
	IsActive          bool   `json:"is_active"`
}

// ToolFlagGrant carries extra granular flags for one tool on a team assignment.
type ToolFlagGrant struct {
	ToolKey string   `json:"tool_key"`
	Flags   []string `json:"flags"`
}

// ProjectTeamAssignment places a person on a project team with a role and optional
// permission overrides. The template override wins over the group default; flag
// grants merge into (never replace) the winning template's tool entries.
type ProjectTeamAssignment struct {
	UserID                string          `json:"user_id"`
	UserEmail             string          `json:"user_email"   validate:"required,email"`
	DisplayName           string          `json:"display_name"`
	ProjectCode           string          `json:"project_code" validate:"required"`
	AssignedRole          string          `json:"assigned_role"`
	TemplateOverrideID    string          `json:"template_override_id,omitempty"`
	GranularFlagOverrides []ToolFlagGrant `json:"granular_flag_overrides,omitempty"`
	IsActive              bool            `json:"is_active"`
}

// Assignee converts the team member into the assignee shape workflow resolution emits.
func (a ProjectTeamAssignment) Assignee() Assignee {
	return Assignee{UserID: a.UserID, DisplayName: a.DisplayName, Email: a.UserEmail}
}

// UserAccount maps a principal to the security group its permissions derive from.
type UserAccount struct {
	Email         string `json:"email" validate:"required,email"`
	DisplayName   string `json:"display_name"`
	SecurityGroup string `json:"security_group"`
	IsActive      bool   `json:"is_active"`
}
