package templatesync

import (
	"strings"

	"github.com/RMF112018/project-controls/pkg/models"
)

// RequiredApprovals is the minimum quorum of distinct approvers before a sync
// may proceed.
const RequiredApprovals = 2

// DistinctApprovers counts distinct approver emails, case-insensitively.
// Duplicate approvals from the same person never count twice.
func DistinctApprovers(approvals []models.SyncApproval) int {
	seen := make(map[string]struct{}, len(approvals))

	for _, a := range approvals {
		email := strings.ToLower(strings.TrimSpace(a.ApproverEmail))
		if email == "" {
			continue
		}

		seen[email] = struct{}{}
	}

	return len(seen)
}

// AssertApproved fails with an *InsufficientApprovalsError unless the approvals
// carry at least required distinct approver emails. A required count below one
// falls back to RequiredApprovals.
func AssertApproved(approvals []models.SyncApproval, required int) error {
	if required < 1 {
		required = RequiredApprovals
	}

	actual := DistinctApprovers(approvals)
	if actual < required {
		return &InsufficientApprovalsError{Actual: actual, Required: required}
	}

	return nil
}
