package templatesync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RMF112018/project-controls/pkg/models"
)

func TestDistinctApprovers(t *testing.T) {
	assert.Equal(t, 0, DistinctApprovers(nil))

	assert.Equal(t, 1, DistinctApprovers([]models.SyncApproval{
		{ApproverEmail: "alice@example.com"},
	}))

	// Case and whitespace differences are the same approver.
	assert.Equal(t, 1, DistinctApprovers([]models.SyncApproval{
		{ApproverEmail: "alice@example.com"},
		{ApproverEmail: "ALICE@Example.COM"},
		{ApproverEmail: "  alice@example.com  "},
	}))

	assert.Equal(t, 2, DistinctApprovers([]models.SyncApproval{
		{ApproverEmail: "alice@example.com"},
		{ApproverEmail: "bob@example.com"},
		{ApproverEmail: "Bob@Example.com"},
	}))

	// Blank approvals never count.
	assert.Equal(t, 0, DistinctApprovers([]models.SyncApproval{
		{ApproverEmail: ""},
		{ApproverEmail: "   "},
	}))
}

func TestAssertApproved(t *testing.T) {
	two := []models.SyncApproval{
		{ApproverEmail: "alice@example.com"},
		{ApproverEmail: "bob@example.com"},
	}

	require.NoError(t, AssertApproved(two, RequiredApprovals))

	err := AssertApproved(two[:1], RequiredApprovals)
	require.Error(t, err)
	assert.True(t, IsInsufficientApprovals(err))

	var appErr *InsufficientApprovalsError

	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 1, appErr.Actual)
	assert.Equal(t, RequiredApprovals, appErr.Required)

	err = AssertApproved(nil, RequiredApprovals)
	require.Error(t, err)
}

func TestAssertApproved_RequiredBelowOneUsesDefault(t *testing.T) {
	one := []models.SyncApproval{{ApproverEmail: "alice@example.com"}}

	// A zero or negative quorum must not disable the gate.
	require.Error(t, AssertApproved(one, 0))
	require.Error(t, AssertApproved(one, -3))
	require.NoError(t, AssertApproved(append(one, models.SyncApproval{ApproverEmail: "bob@example.com"}), 0))
}
