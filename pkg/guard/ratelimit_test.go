package guard

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_AllowsUpToLimit(t *testing.T) {
	limiter := NewDefaultRateLimiter()

	for i := 0; i < DefaultRateLimit; i++ {
		require.NoError(t, limiter.Check("pm@example.com", "role.create"))
	}

	err := limiter.Check("pm@example.com", "role.create")
	require.Error(t, err)
	assert.True(t, IsRateLimited(err))

	var rlErr *RateLimitError

	require.ErrorAs(t, err, &rlErr)
	assert.Equal(t, "role.create", rlErr.Operation)
	assert.Equal(t, DefaultRateLimit, rlErr.Limit)
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute)

	require.NoError(t, limiter.Check("pm@example.com", "role.create"))
	require.Error(t, limiter.Check("pm@example.com", "role.create"))

	// Different operation, same principal.
	require.NoError(t, limiter.Check("pm@example.com", "role.update"))

	// Different principal, same operation.
	require.NoError(t, limiter.Check("px@example.com", "role.create"))
}

func TestRateLimiter_WindowSlides(t *testing.T) {
	current := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(2, time.Minute)
	limiter.now = func() time.Time { return current }

	require.NoError(t, limiter.Check("pm@example.com", "template.sync"))

	current = current.Add(30 * time.Second)
	require.NoError(t, limiter.Check("pm@example.com", "template.sync"))
	require.Error(t, limiter.Check("pm@example.com", "template.sync"))

	// The first call falls out of the window; one slot frees up.
	current = current.Add(31 * time.Second)
	require.NoError(t, limiter.Check("pm@example.com", "template.sync"))
	require.Error(t, limiter.Check("pm@example.com", "template.sync"))
}

func TestRateLimiter_RejectedAttemptsDoNotCount(t *testing.T) {
	current := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(1, time.Minute)
	limiter.now = func() time.Time { return current }

	require.NoError(t, limiter.Check("pm@example.com", "override.set"))

	// Hammering while limited must not extend the lockout.
	for i := 0; i < 5; i++ {
		current = current.Add(10 * time.Second)
		require.Error(t, limiter.Check("pm@example.com", "override.set"))
	}

	// 61s after the only counted call the window is clear again.
	current = current.Add(11 * time.Second)
	require.NoError(t, limiter.Check("pm@example.com", "override.set"))
}

func TestRateLimiter_Reset(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute)

	require.NoError(t, limiter.Check("pm@example.com", "role.create"))
	require.Error(t, limiter.Check("pm@example.com", "role.create"))

	limiter.Reset()

	require.NoError(t, limiter.Check("pm@example.com", "role.create"))
}

func TestIsRateLimited(t *testing.T) {
	assert.False(t, IsRateLimited(nil))
	assert.False(t, IsRateLimited(errors.New("boom")))
	assert.True(t, IsRateLimited(&RateLimitError{}))
}
