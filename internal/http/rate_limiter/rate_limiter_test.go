package rate_limiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiter_BurstThenReject(t *testing.T) {
	l := New(1, 3)

	for i := range 3 {
		assert.True(t, l.Allow("10.0.0.1"), "request %d should pass", i+1)
	}
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"), "other clients keep their own bucket")
}

func TestLimiter_CleanupRemovesIdleVisitors(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l := New(1, 1)
	l.now = func() time.Time { return now }

	l.GetVisitor("10.0.0.1")
	now = now.Add(10 * time.Minute)
	l.GetVisitor("10.0.0.2")

	removed := l.Cleanup(5 * time.Minute)

	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, l.Len())
}
