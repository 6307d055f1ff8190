// Package services orchestrates guarded mutations: every privileged write passes
// the relevant guard first and emits an audit event after it lands.
package services

import (
	"errors"
	"fmt"
)

// Business logic errors. These indicate client errors (4xx responses).
var (
	// Validation errors (400 Bad Request).
	ErrInvalidRequest   = errors.New("invalid request")
	ErrRoleNameRequired = errors.New("role name is required")
	ErrActorRequired    = errors.New("acting principal is required")

	// Business logic conflicts (409 Conflict).
	ErrSystemRoleImmutable = errors.New("system roles cannot be deactivated")
	ErrRoleInactive        = errors.New("role configuration is inactive")
)

// ServiceError wraps service-level errors with additional context.
type ServiceError struct {
	Op      string // Operation name
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsValidationError checks if an error should map to HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrRoleNameRequired) ||
		errors.Is(err, ErrActorRequired)
}

// IsConflictError checks if an error should map to HTTP 409.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrSystemRoleImmutable) ||
		errors.Is(err, ErrRoleInactive)
}
