// Package templatesync guards template synchronization into the shared template
// registry: a fixed state machine, an exclusive per-template lock, content-safety
// validation, and a multi-approver quorum gate.
package templatesync

import (
	"errors"
	"fmt"
	"strings"

	"github.com/RMF112018/project-controls/pkg/models"
)

// TransitionError reports an illegal sync status transition.
type TransitionError struct {
	From models.SyncStatus
	To   models.SyncStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal sync transition %s -> %s", e.From, e.To)
}

// LockError reports that the template's sync lock is already held.
type LockError struct {
	TemplateID string
}

func (e *LockError) Error() string {
	return fmt.Sprintf("sync lock for template %s is already held", e.TemplateID)
}

// ContentValidationError carries the complete list of content violations so the
// caller can surface every problem at once.
type ContentValidationError struct {
	Violations []Violation
}

func (e *ContentValidationError) Error() string {
	messages := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		messages[i] = v.String()
	}

	return fmt.Sprintf("template content validation failed: %s", strings.Join(messages, "; "))
}

// InsufficientApprovalsError reports a failed sync quorum check.
type InsufficientApprovalsError struct {
	Actual   int
	Required int
}

func (e *InsufficientApprovalsError) Error() string {
	return fmt.Sprintf("sync requires %d distinct approvers, got %d", e.Required, e.Actual)
}

// IsTransitionError reports whether err is an illegal transition failure.
func IsTransitionError(err error) bool {
	var e *TransitionError

	return errors.As(err, &e)
}

// IsLockError reports whether err is a lock contention failure.
func IsLockError(err error) bool {
	var e *LockError

	return errors.As(err, &e)
}

// IsContentValidationError reports whether err is a content validation failure.
func IsContentValidationError(err error) bool {
	var e *ContentValidationError

	return errors.As(err, &e)
}

// IsInsufficientApprovals reports whether err is a failed quorum check.
func IsInsufficientApprovals(err error) bool {
	var e *InsufficientApprovalsError

	return errors.As(err, &e)
}
