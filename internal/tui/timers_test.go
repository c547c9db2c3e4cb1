package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTimerQueueFiresOnce(t *testing.T) {
	q := newTimerQueue()
	calls := 0
	q.AfterFunc(time.Millisecond, func() { calls++ })

	require.NotNil(t, q.Cmd())
	require.Nil(t, q.Cmd(), "timers are only handed to the runtime once")

	require.True(t, q.Fire(1))
	require.False(t, q.Fire(1))
	require.Equal(t, 1, calls)
	require.Zero(t, q.Pending())
}

func TestTimerQueueStop(t *testing.T) {
	q := newTimerQueue()
	calls := 0
	tm := q.AfterFunc(time.Millisecond, func() { calls++ })

	require.True(t, tm.Stop())
	require.False(t, tm.Stop())
	require.Nil(t, q.Cmd(), "stopped timers are not scheduled")
	require.False(t, q.Fire(1))
	require.Zero(t, calls)
}

func TestTimerQueueStopAfterFire(t *testing.T) {
	q := newTimerQueue()
	tm := q.AfterFunc(0, func() {})
	require.True(t, q.Fire(1))
	require.False(t, tm.Stop())
}

func TestPlaceModalKeepsCanvasSize(t *testing.T) {
	base := "one\ntwo\nthree"
	out := placeModal(base, "[card]", 20, 5)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 5)
	require.Contains(t, out, "[card]")
	require.Contains(t, lines[0], "one")
}
