package models

// AssignmentSource tags which resolution path produced a step's assignee.
type AssignmentSource string

const (
	SourceOverride    AssignmentSource = "override"
	SourceProjectRole AssignmentSource = "project_role"
	SourceCondition   AssignmentSource = "condition"
	SourceDefault     AssignmentSource = "default"
)

// ResolvedWorkflowStep is the computed result of resolving one workflow step for a
// project. It is never persisted.
type ResolvedWorkflowStep struct {
	StepID        string           `json:"step_id"`
	StepOrder     int              `json:"step_order"`
	Name          string           `json:"name"`
	Assignee      Assignee         `json:"assignee"`
	Source        AssignmentSource `json:"source"`
	ConditionMet  bool             `json:"condition_met"`
	ActionLabel   string           `json:"action_label"`
	ChairsMeeting bool             `json:"chairs_meeting"`
	Skipped       bool             `json:"skipped,omitempty"`
	SkipReason    string           `json:"skip_reason,omitempty"`
}

// PermissionSource tags which configuration layer supplied the winning template.
type PermissionSource string

const (
	SourceSecurityGroupDefault PermissionSource = "security_group_default"
	SourceProjectOverride      PermissionSource = "project_override"
	SourceDirectAssignment     PermissionSource = "direct_assignment"
)

// ResolvedPermissions is the computed effective permission set for a principal,
// optionally scoped to a project.
type ResolvedPermissions struct {
	PrincipalEmail string                 `json:"principal_email"`
	ProjectCode    string                 `json:"project_code,omitempty"`
	TemplateID     string                 `json:"template_id"`
	TemplateName   string                 `json:"template_name"`
	Source         PermissionSource       `json:"source"`
	ToolLevels     map[string]AccessLevel `json:"tool_levels"`
	ToolFlags      map[string][]string    `json:"tool_flags"`
	Permissions    []string               `json:"permissions"`
	GlobalAccess   bool                   `json:"global_access"`
}

// HasPermission reports whether the flattened permission set contains perm.
func (r ResolvedPermissions) HasPermission(perm string) bool {
	for _, p := range r.Permissions {
		if p == perm {
			return true
		}
	}

	return false
}
