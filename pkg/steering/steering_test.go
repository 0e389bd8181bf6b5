package steering

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQueue_SteerAndDrainIsFIFOAndClears(t *testing.T) {
	q := New()
	q.Steer("first")
	q.Steer("second")
	require.True(t, q.HasSteering())

	drained := q.DrainSteering()
	require.Equal(t, []string{"first", "second"}, drained)
	require.False(t, q.HasSteering())
	require.Empty(t, q.DrainSteering())
}

func TestQueue_FollowUpDrainOneLeavesRestQueued(t *testing.T) {
	q := New()
	q.FollowUp("a")
	q.FollowUp("b")

	next, ok := q.DrainOneFollowUp()
	require.True(t, ok)
	require.Equal(t, "a", next)
	require.True(t, q.HasFollowUp())

	next, ok = q.DrainOneFollowUp()
	require.True(t, ok)
	require.Equal(t, "b", next)
	require.False(t, q.HasFollowUp())

	_, ok = q.DrainOneFollowUp()
	require.False(t, ok)
}

func TestQueue_DrainFollowUpTakesAllAtOnce(t *testing.T) {
	q := New()
	q.FollowUp("a")
	q.FollowUp("b")

	drained := q.DrainFollowUp()
	require.Equal(t, []string{"a", "b"}, drained)
	require.False(t, q.HasFollowUp())
}
