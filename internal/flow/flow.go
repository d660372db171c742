// Package flow implements the request lifecycle every interactive view
// shares: Idle -> Validating -> InFlight -> Success/Error -> Idle. One
// Coordinator instance belongs to one view (or one independent request slot
// within a view) and guarantees that only the most recent submission's
// result is ever rendered.
package flow

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MalayathiGeetha/MailMind-AI/internal/api"
	"github.com/MalayathiGeetha/MailMind-AI/internal/log"
)

// Phase is the view request state.
type Phase int

const (
	// PhaseIdle means nothing has been submitted yet, or the last result
	// was acknowledged by a new submission.
	PhaseIdle Phase = iota
	// PhaseValidating is the transient input check before dispatch.
	PhaseValidating
	// PhaseInFlight means a dispatched call has not resolved yet.
	PhaseInFlight
	// PhaseSuccess holds a payload ready to render.
	PhaseSuccess
	// PhaseError holds a classified failure ready to render.
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseValidating:
		return "validating"
	case PhaseInFlight:
		return "in-flight"
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// ResultMsg carries a resolved submission back to the owning view. Name and
// Seq identify which coordinator and which submission produced it; stale or
// foreign results are dropped by Apply.
type ResultMsg[T any] struct {
	Name    string
	Seq     uint64
	Payload T
	Err     error
}

// Coordinator sequences submissions for one view. The zero value is not
// usable; construct with New. Coordinator has value semantics like every
// Bubble Tea model: methods return the updated copy.
type Coordinator[T any] struct {
	name    string
	phase   Phase
	seq     uint64
	payload T
	errKind api.Kind
	errMsg  string
}

// New creates an idle coordinator. The name tags result messages and log
// lines; give each coordinator within one view a distinct name.
func New[T any](name string) Coordinator[T] {
	return Coordinator[T]{name: name}
}

// Submit runs the validator and, if it passes, dispatches run in the
// background. A nil validator always passes. A failing validator resolves
// immediately to a validation error without any network call. A Submit
// while a previous call is still in flight supersedes it: the older result
// will be dropped when it arrives.
func (c Coordinator[T]) Submit(validate func() error, run func(context.Context) (T, error)) (Coordinator[T], tea.Cmd) {
	c.phase = PhaseValidating

	if validate == nil {
		validate = func() error { return nil }
	}
	if err := validate(); err != nil {
		c.phase = PhaseError
		c.errKind = api.KindValidation
		c.errMsg = api.MessageOf(err)
		var zero T
		c.payload = zero
		log.Debug(log.CatFlow, "Validation rejected submission", "coordinator", c.name, "reason", c.errMsg)
		return c, nil
	}

	c.seq++
	c.phase = PhaseInFlight
	seq := c.seq
	name := c.name
	log.Debug(log.CatFlow, "Submission in flight", "coordinator", name, "seq", seq)

	return c, func() tea.Msg {
		// The call runs to completion regardless of UI lifecycle; staleness
		// is resolved at Apply time, not by cancelling the transport.
		payload, err := run(context.Background())
		return ResultMsg[T]{Name: name, Seq: seq, Payload: payload, Err: err}
	}
}

// Apply folds a result message into the coordinator. Results from another
// coordinator, or from a superseded submission, leave the state untouched:
// last write wins and only the write that is still current lands.
func (c Coordinator[T]) Apply(msg ResultMsg[T]) Coordinator[T] {
	if msg.Name != c.name || msg.Seq != c.seq || c.phase != PhaseInFlight {
		log.Debug(log.CatFlow, "Dropping stale result", "coordinator", c.name, "msgSeq", msg.Seq, "curSeq", c.seq)
		return c
	}

	if msg.Err != nil {
		c.phase = PhaseError
		c.errKind = api.KindOf(msg.Err)
		c.errMsg = api.MessageOf(msg.Err)
		var zero T
		c.payload = zero
		return c
	}

	c.phase = PhaseSuccess
	c.payload = msg.Payload
	c.errKind = api.KindNone
	c.errMsg = ""
	return c
}

// Reset returns the coordinator to Idle, discarding any held result. An
// in-flight submission stays superseded: its late result will not match the
// current phase and is dropped.
func (c Coordinator[T]) Reset() Coordinator[T] {
	c.phase = PhaseIdle
	var zero T
	c.payload = zero
	c.errKind = api.KindNone
	c.errMsg = ""
	return c
}

// Phase reports the current lifecycle phase.
func (c Coordinator[T]) Phase() Phase { return c.phase }

// InFlight reports whether a dispatched call is unresolved.
func (c Coordinator[T]) InFlight() bool { return c.phase == PhaseInFlight }

// Payload returns the success payload; meaningful only in PhaseSuccess.
func (c Coordinator[T]) Payload() T { return c.payload }

// ErrKind returns the failure classification; KindNone outside PhaseError.
func (c Coordinator[T]) ErrKind() api.Kind { return c.errKind }

// ErrMessage returns the failure message; empty outside PhaseError.
func (c Coordinator[T]) ErrMessage() string { return c.errMsg }
