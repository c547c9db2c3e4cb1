// Package workspace coordinates the select -> view -> delete flow of the entity
// workspace: which entity is selected, whether its detail surface is open, and
// which entity is waiting on delete confirmation.
package workspace

import "time"

// DefaultGracePeriod is how long a hidden detail surface keeps its entity.
const DefaultGracePeriod = 200 * time.Millisecond

// Phase is the composite view state derived from State.
type Phase string

const (
	PhaseIdle             Phase = "idle"
	PhaseViewing          Phase = "viewing"
	PhaseClosingDetail    Phase = "closingDetail"
	PhaseConfirmingDelete Phase = "confirmingDelete"
)

// State is a snapshot of the workspace view state.
type State[T any] struct {
	Selected        *T
	DetailVisible   bool
	DeleteCandidate *T
	DeleteVisible   bool
}

// Options tunes a Controller.
type Options struct {
	// GracePeriod is the delay between CloseDetail and clearing Selected.
	// Zero means DefaultGracePeriod.
	GracePeriod time.Duration
}

// Controller owns the workspace view state. It is not safe for concurrent use;
// drive it from a single goroutine together with its Scheduler.
type Controller[T any] struct {
	sched Scheduler
	grace time.Duration
	state State[T]

	// gen advances on every selection, deletion and scheduled clear. A deferred
	// clear only applies if gen still equals the value it captured.
	gen     uint64
	pending Timer

	observers []func(State[T])
	closed    bool
}

// New returns a controller in the idle state.
func New[T any](sched Scheduler, opts Options) *Controller[T] {
	grace := opts.GracePeriod
	if grace <= 0 {
		grace = DefaultGracePeriod
	}
	return &Controller[T]{sched: sched, grace: grace}
}

// GracePeriod returns the configured retention delay.
func (c *Controller[T]) GracePeriod() time.Duration { return c.grace }

// State returns the current snapshot.
func (c *Controller[T]) State() State[T] { return c.state }

// Phase derives the composite state. A hidden selection reports
// PhaseClosingDetail while its clear is pending; once cleared the workspace is
// idle with nothing selected.
func (c *Controller[T]) Phase() Phase {
	switch {
	case c.state.DeleteVisible:
		return PhaseConfirmingDelete
	case c.state.DetailVisible:
		return PhaseViewing
	case c.state.Selected != nil && c.pending != nil:
		return PhaseClosingDetail
	default:
		return PhaseIdle
	}
}

// Observe registers fn to receive the snapshot after every transition.
func (c *Controller[T]) Observe(fn func(State[T])) {
	if fn != nil {
		c.observers = append(c.observers, fn)
	}
}

// SelectEntity shows e in the detail surface. An open delete confirmation is
// dismissed so the two surfaces never overlap.
func (c *Controller[T]) SelectEntity(e *T) {
	if c.closed || e == nil {
		return
	}
	c.gen++
	c.stopPending()
	c.state.Selected = e
	c.state.DetailVisible = true
	c.state.DeleteCandidate = nil
	c.state.DeleteVisible = false
	c.emit()
}

// RequestDelete hides the detail surface and opens the confirmation for e in
// one transition. e is authoritative even when it differs from Selected.
func (c *Controller[T]) RequestDelete(e *T) {
	if c.closed || e == nil {
		return
	}
	c.state.DeleteCandidate = e
	c.state.DeleteVisible = true
	c.state.DetailVisible = false
	c.emit()
}

// CloseDetail hides the detail surface and clears Selected after the grace
// period unless a newer selection happens first. When the surface is already
// hidden a clear is scheduled only if one is not pending.
func (c *Controller[T]) CloseDetail() {
	if c.closed {
		return
	}
	if !c.state.DetailVisible {
		if c.pending == nil && c.state.Selected != nil {
			c.scheduleClear()
		}
		return
	}
	c.state.DetailVisible = false
	c.scheduleClear()
	c.emit()
}

// CloseDelete dismisses the confirmation and drops the candidate immediately.
// A selection left behind by RequestDelete gets the same grace-period clear as
// CloseDetail.
func (c *Controller[T]) CloseDelete() {
	if c.closed {
		return
	}
	c.state.DeleteVisible = false
	c.state.DeleteCandidate = nil
	if !c.state.DetailVisible && c.state.Selected != nil && c.pending == nil {
		c.scheduleClear()
	}
	c.emit()
}

// OnDeleted drops every reference to the deleted entity and hides both
// surfaces in one transition.
func (c *Controller[T]) OnDeleted() {
	if c.closed {
		return
	}
	c.gen++
	c.stopPending()
	c.state = State[T]{}
	c.emit()
}

// Close stops any pending clear. The controller ignores all later calls.
func (c *Controller[T]) Close() {
	if c.closed {
		return
	}
	c.stopPending()
	c.closed = true
}

func (c *Controller[T]) scheduleClear() {
	c.stopPending()
	c.gen++
	gen := c.gen
	c.pending = c.sched.AfterFunc(c.grace, func() { c.expire(gen) })
}

func (c *Controller[T]) expire(gen uint64) {
	if c.closed || gen != c.gen {
		return
	}
	c.pending = nil
	c.state.Selected = nil
	c.emit()
}

func (c *Controller[T]) stopPending() {
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
}

func (c *Controller[T]) emit() {
	s := c.state
	for _, fn := range c.observers {
		fn(s)
	}
}
