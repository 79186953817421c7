package gesture

import (
	"sync"

	"github.com/google/uuid"

	"codeberg.org/mutker/overlayd/internal/logger"
	"codeberg.org/mutker/overlayd/internal/stream"
)

// session is the single live gesture. Created on pointer-down (or native
// back start), destroyed on reset. committed is monotonic: once a session
// commits it stays committed until the session is torn down.
type session struct {
	id          uuid.UUID
	provisional Edge
	edge        Edge // locked edge, EdgeNone until commit
	offset      Offset
	state       commitState
	exiting     bool
	maxProgress float64
	native      bool    // driven by the predictive-back adapter
	progress    float64 // native driver supplies progress directly
}

// Engine is the shared gesture state machine. Two front-ends feed it: raw
// pointer events (PointerDown/Move/Up/Cancel) and native back events
// (BackStarted/BackProgressed/BackCompleted/BackCancelled). The mutex
// serializes them; the native driver runs on its own delivery sequence.
type Engine struct {
	mu        sync.Mutex
	cfg       Config
	sess      *session
	out       *stream.Latest[Progress]
	onDismiss func(Edge)
	onOutcome func(id uuid.UUID, edge Edge, maxProgress float64, outcome Outcome)
}

func NewEngine(cfg Config) *Engine {
	e := &Engine{
		cfg: cfg,
		out: stream.NewLatest[Progress](),
	}
	e.out.Set(Progress{})

	return e
}

// Output returns the replace-latest progress cell.
func (e *Engine) Output() *stream.Latest[Progress] {
	return e.out
}

// OnDismiss registers the dismiss callback, fired exactly once per
// dismissed session.
func (e *Engine) OnDismiss(fn func(Edge)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onDismiss = fn
}

// OnOutcome registers a callback fired once per session at termination,
// with the peak progress reached. Used for history recording.
func (e *Engine) OnOutcome(fn func(id uuid.UUID, edge Edge, maxProgress float64, outcome Outcome)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onOutcome = fn
}

// SetConfig swaps the tuning constants (config reload). A mid-session
// reload retunes the decisions still pending; already-committed state is
// untouched.
func (e *Engine) SetConfig(cfg Config) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg = cfg
}

// PointerDown starts a fresh session. A still-live previous session is
// discarded: a new pointer-down always wins.
func (e *Engine) PointerDown(x, y, width float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	edge := classifyEdge(x, width, e.cfg.EdgeZone)
	e.sess = &session{
		id:          uuid.New(),
		provisional: edge,
	}

	logger.Debug().
		Str("session", e.sess.id.String()).
		Str("provisional_edge", edge.String()).
		Float64("x", x).
		Float64("y", y).
		Msg("gesture started")

	e.publishLocked()
}

// PointerMove accumulates one drag delta and evaluates the commit table.
func (e *Engine) PointerMove(dx, dy float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.sess
	if s == nil || s.exiting || s.native {
		return
	}

	s.offset.X += dx
	s.offset.Y += dy

	if s.state == undetermined {
		next, edge := commitDecision(s.provisional, s.offset, e.cfg)
		if next != undetermined {
			s.state = next
			s.edge = edge
			if next == committedEdge {
				logger.Debug().
					Str("session", s.id.String()).
					Str("edge", edge.String()).
					Msg("gesture committed")
			}
		}
	}

	if s.state == committedEdge {
		s.offset = clampOffset(s.edge, s.offset)
	}

	e.publishLocked()
}

// PointerUp runs the dismiss decision for the live session.
func (e *Engine) PointerUp() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.releaseLocked()
}

// Cancel is pointer-stream cancellation; it takes the same decision path
// as a release.
func (e *Engine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.releaseLocked()
}

// FinishExit tears down a dismissed session once the presentation settle
// completes.
func (e *Engine) FinishExit() {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.sess
	if s == nil || !s.exiting {
		return
	}

	e.endSessionLocked(OutcomeDismiss)
}

// State returns the current session view for tests and the simulator.
func (e *Engine) State() Progress {
	p, _ := e.out.Get()
	return p
}

func (e *Engine) releaseLocked() {
	s := e.sess
	if s == nil || s.exiting {
		return
	}

	if s.state != committedEdge {
		e.endSessionLocked(OutcomeNone)
		return
	}

	relevant := e.relevantLocked(s)
	if relevant > e.cfg.DismissFraction*e.cfg.MaxDrag {
		e.triggerDismissLocked(s)
		return
	}

	logger.Debug().
		Str("session", s.id.String()).
		Str("edge", s.edge.String()).
		Float64("offset", relevant).
		Msg("gesture snapped back")
	e.endSessionLocked(OutcomeSnapBack)
}

// triggerDismissLocked marks the session exiting and fires the dismiss
// callback. The exiting flag guarantees the callback fires once even if
// terminal events race.
func (e *Engine) triggerDismissLocked(s *session) {
	s.exiting = true

	logger.Info().
		Str("session", s.id.String()).
		Str("edge", s.edge.String()).
		Msg("dismiss triggered")

	e.publishLocked()

	if e.onDismiss != nil {
		e.onDismiss(s.edge)
	}
}

// endSessionLocked resets to neutral and reports the outcome. Idempotence:
// after this, offset is (0,0), edge None, committed false.
func (e *Engine) endSessionLocked(outcome Outcome) {
	s := e.sess
	if s == nil {
		return
	}
	e.sess = nil

	if e.onOutcome != nil {
		e.onOutcome(s.id, s.edge, s.maxProgress, outcome)
	}

	e.out.Set(Progress{})
}

// relevantLocked is the edge-consistent offset for the session, expressed
// in px for pointer sessions and scaled from raw progress for native ones.
func (e *Engine) relevantLocked(s *session) float64 {
	if s.native {
		return s.progress * e.cfg.MaxDrag
	}

	return relevantOffset(s.edge, s.offset)
}

func (e *Engine) publishLocked() {
	s := e.sess
	if s == nil {
		e.out.Set(Progress{})
		return
	}

	p := Progress{
		Edge:             s.edge,
		Committed:        s.state == committedEdge,
		DismissTriggered: s.exiting,
	}
	if s.state == committedEdge {
		if s.native {
			p.Progress = clamp01(s.progress)
		} else {
			p.Progress = clamp01(relevantOffset(s.edge, s.offset) / e.cfg.MaxDrag)
		}
	}
	if s.exiting {
		p.Progress = 1
	}
	if p.Progress > s.maxProgress {
		s.maxProgress = p.Progress
	}

	e.out.Set(p)
}
