package templatesync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockTable_Exclusive(t *testing.T) {
	locks := NewLockTable()

	require.NoError(t, locks.Acquire("tpl-1"))
	assert.True(t, locks.Held("tpl-1"))

	err := locks.Acquire("tpl-1")
	require.Error(t, err)
	assert.True(t, IsLockError(err))

	// A different template is unaffected.
	require.NoError(t, locks.Acquire("tpl-2"))
}

func TestLockTable_ReleaseIsIdempotent(t *testing.T) {
	locks := NewLockTable()

	require.NoError(t, locks.Acquire("tpl-1"))
	locks.Release("tpl-1")
	assert.False(t, locks.Held("tpl-1"))

	// Releasing again, or releasing a never-held lock, must not panic or error.
	locks.Release("tpl-1")
	locks.Release("tpl-never-held")

	require.NoError(t, locks.Acquire("tpl-1"))
}

func TestLockTable_Reset(t *testing.T) {
	locks := NewLockTable()

	require.NoError(t, locks.Acquire("tpl-1"))
	require.NoError(t, locks.Acquire("tpl-2"))

	locks.Reset()

	assert.False(t, locks.Held("tpl-1"))
	assert.False(t, locks.Held("tpl-2"))
}
