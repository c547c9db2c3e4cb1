package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/watchlist/internal/workspace"
)

// timerQueue implements workspace.Scheduler on top of the bubbletea runtime.
// AfterFunc only records the request; Cmd turns new requests into tea.Tick
// commands whose timerFiredMsg is routed back to Fire inside Update, so
// callbacks run on the update goroutine like every other transition.
type timerQueue struct {
	next   uint64
	live   map[uint64]*queuedTimer
	unsent []*queuedTimer
}

type queuedTimer struct {
	id    uint64
	delay time.Duration
	fn    func()
	q     *timerQueue
}

type timerFiredMsg struct{ id uint64 }

func newTimerQueue() *timerQueue {
	return &timerQueue{live: map[uint64]*queuedTimer{}}
}

func (q *timerQueue) AfterFunc(d time.Duration, f func()) workspace.Timer {
	q.next++
	t := &queuedTimer{id: q.next, delay: d, fn: f, q: q}
	q.live[t.id] = t
	q.unsent = append(q.unsent, t)
	return t
}

func (t *queuedTimer) Stop() bool {
	if _, ok := t.q.live[t.id]; !ok {
		return false
	}
	delete(t.q.live, t.id)
	return true
}

// Cmd drains timers scheduled since the last call. Stopped timers are dropped.
func (q *timerQueue) Cmd() tea.Cmd {
	if len(q.unsent) == 0 {
		return nil
	}
	var cmds []tea.Cmd
	for _, t := range q.unsent {
		if _, ok := q.live[t.id]; !ok {
			continue
		}
		id := t.id
		cmds = append(cmds, tea.Tick(t.delay, func(time.Time) tea.Msg { return timerFiredMsg{id: id} }))
	}
	q.unsent = q.unsent[:0]
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Fire runs the callback for id unless it was stopped. It reports whether a
// callback ran.
func (q *timerQueue) Fire(id uint64) bool {
	t, ok := q.live[id]
	if !ok {
		return false
	}
	delete(q.live, id)
	t.fn()
	return true
}

// Pending counts timers that may still fire.
func (q *timerQueue) Pending() int { return len(q.live) }
