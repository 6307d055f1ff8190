// Package models defines the configuration entities read by the governance engine.
package models

import "time"

// WorkflowKey identifies one of the fixed catalogue of approval workflows.
type WorkflowKey string

const (
	WorkflowGoNoGo             WorkflowKey = "go-no-go"
	WorkflowPMPApproval        WorkflowKey = "pmp-approval"
	WorkflowMonthlyReview      WorkflowKey = "monthly-review"
	WorkflowCommitmentApproval WorkflowKey = "commitment-approval"
	WorkflowTurnoverApproval   WorkflowKey = "turnover-approval"
	WorkflowContractTracking   WorkflowKey = "contract-tracking"
)

// AssignmentType selects how a workflow step resolves its assignee.
type AssignmentType string

const (
	// AssignmentProjectRole resolves the assignee from the project team by role key.
	AssignmentProjectRole AssignmentType = "project_role"
	// AssignmentNamedPerson resolves to a configured person, optionally via conditional rules.
	AssignmentNamedPerson AssignmentType = "named_person"
)

// WorkflowDefinition is an administrator-managed approval process. The resolver
// treats definitions as read-only configuration.
type WorkflowDefinition struct {
	ID        string         `json:"id"`
	Key       WorkflowKey    `json:"key"   validate:"required"`
	Name      string         `json:"name"  validate:"required,min=3"`
	Steps     []WorkflowStep `json:"steps"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// WorkflowStep is a single approval/assignment point in a workflow definition.
type WorkflowStep struct {
	ID                   string                  `json:"id"`
	StepOrder            int                     `json:"step_order"      validate:"required,min=1"`
	Name                 string                  `json:"name"            validate:"required"`
	AssignmentType       AssignmentType          `json:"assignment_type" validate:"required,oneof=project_role named_person"`
	ProjectRole          string                  `json:"project_role,omitempty"`
	DefaultAssignee      Assignee                `json:"default_assignee"`
	IsConditional        bool                    `json:"is_conditional"`
	ConditionalAssignees []ConditionalAssignment `json:"conditional_assignees,omitempty"`
	IsSkippable          bool                    `json:"is_skippable"`
	FeatureFlag          string                  `json:"feature_flag,omitempty"`
	ActionLabel          string                  `json:"action_label"`
	ChairsMeeting        bool                    `json:"chairs_meeting"`
}

// ConditionField names a lead-record field a conditional rule may match against.
type ConditionField string

const (
	FieldDivision ConditionField = "division"
	FieldRegion   ConditionField = "region"
	FieldSector   ConditionField = "sector"
)

// AssignmentCondition is a single field equality check against the project's lead record.
type AssignmentCondition struct {
	Field ConditionField `json:"field" validate:"required,oneof=division region sector"`
	Value string         `json:"value" validate:"required"`
}

// ConditionalAssignment maps a conjunction of conditions to an assignee. Rules are
// evaluated priority-ascending, first full match wins; an empty condition list
// matches every project.
type ConditionalAssignment struct {
	Conditions []AssignmentCondition `json:"conditions"`
	Assignee   Assignee              `json:"assignee"`
	Priority   int                   `json:"priority"`
}

// WorkflowStepOverride pins an assignee for one (project, step) pair. It outranks
// every other resolution source.
type WorkflowStepOverride struct {
	ProjectCode string    `json:"project_code" validate:"required"`
	StepID      string    `json:"step_id"      validate:"required"`
	Assignee    Assignee  `json:"assignee"`
	Reason      string    `json:"reason"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}
