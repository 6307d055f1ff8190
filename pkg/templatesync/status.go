package templatesync

import "github.com/RMF112018/project-controls/pkg/models"

// legalTransitions is the fixed sync state machine. Idle may only start syncing;
// an in-flight sync may only land on success or failure; terminal states may be
// retried or reset.
var legalTransitions = map[models.SyncStatus][]models.SyncStatus{
	models.SyncIdle:    {models.SyncSyncing},
	models.SyncSyncing: {models.SyncSuccess, models.SyncFailed},
	models.SyncSuccess: {models.SyncSyncing, models.SyncIdle},
	models.SyncFailed:  {models.SyncSyncing, models.SyncIdle},
}

// ValidTransition reports whether from -> to is in the legal transition table.
func ValidTransition(from, to models.SyncStatus) bool {
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}

	return false
}

// AssertValidTransition fails with a *TransitionError if from -> to is illegal.
func AssertValidTransition(from, to models.SyncStatus) error {
	if !ValidTransition(from, to) {
		return &TransitionError{From: from, To: to}
	}

	return nil
}
