package gesture

import (
	"github.com/google/uuid"

	"codeberg.org/mutker/overlayd/internal/logger"
)

// Predictive-back front-end. The OS gesture channel delivers
// (edge, progress) events already edge-classified and normalized to 0..1,
// terminated by exactly one of completed or cancelled. These adapt onto the
// same session machine as raw pointer input: progress replaces
// offset/maxDrag directly, cancellation is the snap-back path, completion
// is the dismiss-triggered path.
//
// The engine mutex serializes these against pointer events; whichever
// terminal arrives first ends the session and the loser finds no live
// session to act on.

// BackStarted opens a native session locked to the reported edge.
func (e *Engine) BackStarted(edge Edge) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if edge == EdgeNone {
		return
	}

	e.sess = &session{
		id:          uuid.New(),
		provisional: edge,
		edge:        edge,
		state:       committedEdge,
		native:      true,
	}

	logger.Debug().
		Str("session", e.sess.id.String()).
		Str("edge", edge.String()).
		Msg("native back gesture started")

	e.publishLocked()
}

// BackProgressed updates the session with OS-reported progress. The edge
// may be revised by the OS before any progress accumulates; after that it
// sticks, matching the committed-edge lock of pointer sessions.
func (e *Engine) BackProgressed(edge Edge, progress float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.sess
	if s == nil || !s.native || s.exiting {
		return
	}

	if edge != EdgeNone && s.progress == 0 {
		s.edge = edge
	}
	s.progress = clamp01(progress)

	e.publishLocked()
}

// BackCompleted is the non-cancelled terminal: equivalent to a release past
// the dismiss threshold.
func (e *Engine) BackCompleted() {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.sess
	if s == nil || !s.native || s.exiting {
		return
	}

	e.triggerDismissLocked(s)
}

// BackCancelled is the cancelled terminal: any in-flight smoothing toward a
// target progress is abandoned and the session resets to neutral, exactly
// like a snap-back.
func (e *Engine) BackCancelled() {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.sess
	if s == nil || !s.native || s.exiting {
		return
	}

	logger.Debug().
		Str("session", s.id.String()).
		Msg("native back gesture cancelled")

	e.endSessionLocked(OutcomeSnapBack)
}
