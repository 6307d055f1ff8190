// Package persistence provides standardized error types for configuration lookups.
package persistence

import (
	"errors"
	"fmt"
)

// Standard lookup error types that all implementations should use.
var (
	// ErrWorkflowNotFound indicates no workflow definition exists for the given key.
	ErrWorkflowNotFound = errors.New("workflow definition not found")

	// ErrOverrideNotFound indicates no override is pinned for the (project, step) pair.
	ErrOverrideNotFound = errors.New("workflow step override not found")

	// ErrAssignmentNotFound indicates no team assignment matched the lookup.
	ErrAssignmentNotFound = errors.New("project team assignment not found")

	// ErrLeadNotFound indicates no lead record exists for the project code.
	ErrLeadNotFound = errors.New("lead record not found")

	// ErrUserNotFound indicates no user account exists for the email.
	ErrUserNotFound = errors.New("user account not found")

	// ErrTemplateNotFound indicates a permission template id resolved to nothing.
	ErrTemplateNotFound = errors.New("permission template not found")

	// ErrGroupMappingNotFound indicates no mapping exists for the security group.
	ErrGroupMappingNotFound = errors.New("security group mapping not found")

	// ErrRoleNotFound indicates no role configuration exists for the id or name.
	ErrRoleNotFound = errors.New("role configuration not found")

	// ErrFlagNotFound indicates the feature flag name is unknown to the registry.
	ErrFlagNotFound = errors.New("feature flag not found")

	// ErrSharedTemplateNotFound indicates no shared template exists for the id.
	ErrSharedTemplateNotFound = errors.New("shared template not found")
)

// ConfigError wraps configuration lookup errors with operation context.
type ConfigError struct {
	Op     string // Operation being performed (e.g., "ByKey", "Save")
	Entity string // Entity kind (e.g., "workflow", "role")
	ID     string // Identifier used in the lookup
	Err    error  // Underlying error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s operation failed for %s %s: %v", e.Op, e.Entity, e.ID, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is implements error comparison for configuration errors.
func (e *ConfigError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewConfigError creates a configuration error with context.
func NewConfigError(op, entity, id string, err error) *ConfigError {
	return &ConfigError{Op: op, Entity: entity, ID: id, Err: err}
}

// IsNotFound reports whether err is any of the not-found sentinels.
func IsNotFound(err error) bool {
	for _, sentinel := range []error{
		ErrWorkflowNotFound,
		ErrOverrideNotFound,
		ErrAssignmentNotFound,
		ErrLeadNotFound,
		ErrUserNotFound,
		ErrTemplateNotFound,
		ErrGroupMappingNotFound,
		ErrRoleNotFound,
		ErrFlagNotFound,
		ErrSharedTemplateNotFound,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}

	return false
}

// IsTemplateNotFound reports whether err indicates a missing permission template.
func IsTemplateNotFound(err error) bool {
	return errors.Is(err, ErrTemplateNotFound)
}

// IsRoleNotFound reports whether err indicates a missing role configuration.
func IsRoleNotFound(err error) bool {
	return errors.Is(err, ErrRoleNotFound)
}

// IsSharedTemplateNotFound reports whether err indicates a missing shared template.
func IsSharedTemplateNotFound(err error) bool {
	return errors.Is(err, ErrSharedTemplateNotFound)
}
