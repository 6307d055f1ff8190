// Package guard protects privileged mutations: it refuses grants that would
// escalate a principal beyond its own permissions and throttles mutation rate
// per (principal, operation) pair.
package guard

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// PermissionEscalationError reports an attempt to grant permissions the acting
// principal does not hold. It is fatal to the attempted mutation.
type PermissionEscalationError struct {
	Principal string
	Escalated []string
}

func (e *PermissionEscalationError) Error() string {
	return fmt.Sprintf("principal %s attempted to grant permissions it does not hold: %s",
		e.Principal, strings.Join(e.Escalated, ", "))
}

// DetectEscalation returns the requested permissions that are outside the held
// set, sorted. An empty result means the grant is safe.
func DetectEscalation(held, requested []string) []string {
	heldSet := make(map[string]struct{}, len(held))
	for _, p := range held {
		heldSet[p] = struct{}{}
	}

	var escalated []string

	for _, p := range requested {
		if _, ok := heldSet[p]; !ok {
			escalated = append(escalated, p)
		}
	}

	sort.Strings(escalated)

	return escalated
}

// AssertNotSelfEscalation fails with a *PermissionEscalationError if any
// requested permission is outside the principal's held set.
func AssertNotSelfEscalation(principal string, held, requested []string) error {
	escalated := DetectEscalation(held, requested)
	if len(escalated) > 0 {
		return &PermissionEscalationError{Principal: principal, Escalated: escalated}
	}

	return nil
}

// IsEscalation reports whether err is a permission escalation failure.
func IsEscalation(err error) bool {
	var e *PermissionEscalationError

	return errors.As(err, &e)
}
