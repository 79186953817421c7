package gesture_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/mutker/overlayd/internal/gesture"
)

func newTestEngine() *gesture.Engine {
	return gesture.NewEngine(gesture.DefaultConfig())
}

func TestEdgeDismiss(t *testing.T) {
	e := newTestEngine()

	var dismissed []gesture.Edge
	e.OnDismiss(func(edge gesture.Edge) {
		dismissed = append(dismissed, edge)
	})

	// Pointer-down at x=10 inside the 40px edge zone.
	e.PointerDown(10, 300, 800)
	assert.Equal(t, gesture.EdgeNone, e.State().Edge, "provisional edge is not exposed before commit")

	// Cumulative drag (25, 0): h=25 > 20 and fully horizontal, commits left.
	e.PointerMove(25, 0)
	state := e.State()
	assert.Equal(t, gesture.EdgeLeft, state.Edge)
	assert.True(t, state.Committed)
	assert.InDelta(t, 25.0/300.0, state.Progress, 1e-9)

	// Drag out to 80px and release: 80 > 300*0.25.
	e.PointerMove(55, 0)
	e.PointerUp()

	state = e.State()
	assert.True(t, state.DismissTriggered)
	assert.Equal(t, gesture.EdgeLeft, state.Edge)
	assert.Equal(t, 1.0, state.Progress, "exiting drives raw progress to the target")
	require.Len(t, dismissed, 1, "dismiss callback fires exactly once")
	assert.Equal(t, gesture.EdgeLeft, dismissed[0])

	// Settle completes, session tears down to neutral.
	e.FinishExit()
	assert.Equal(t, gesture.Progress{}, e.State())
	assert.Len(t, dismissed, 1)
}

func TestUndeterminedReleaseResets(t *testing.T) {
	e := newTestEngine()

	var outcomes []gesture.Outcome
	e.OnOutcome(func(_ uuid.UUID, _ gesture.Edge, _ float64, outcome gesture.Outcome) {
		outcomes = append(outcomes, outcome)
	})

	// Pointer-down at screen center, tiny drag never crosses 20px.
	e.PointerDown(400, 300, 800)
	e.PointerMove(5, 5)

	state := e.State()
	assert.Equal(t, gesture.EdgeNone, state.Edge)
	assert.False(t, state.Committed)

	e.PointerUp()

	assert.Equal(t, gesture.Progress{}, e.State())
	require.Len(t, outcomes, 1)
	assert.Equal(t, gesture.OutcomeNone, outcomes[0])
}

func TestSnapBack(t *testing.T) {
	e := newTestEngine()

	var dismissed int
	e.OnDismiss(func(gesture.Edge) { dismissed++ })

	var outcome gesture.Outcome
	var maxProgress float64
	e.OnOutcome(func(_ uuid.UUID, _ gesture.Edge, mp float64, o gesture.Outcome) {
		outcome = o
		maxProgress = mp
	})

	e.PointerDown(10, 300, 800)
	e.PointerMove(60, 0) // commits left, 60 < 75 dismiss threshold
	e.PointerUp()

	assert.Equal(t, gesture.Progress{}, e.State(), "snap back resets to neutral")
	assert.Zero(t, dismissed)
	assert.Equal(t, gesture.OutcomeSnapBack, outcome)
	assert.InDelta(t, 60.0/300.0, maxProgress, 1e-9)
}

func TestDirectionMismatchCommitsNone(t *testing.T) {
	e := newTestEngine()

	var dismissed int
	e.OnDismiss(func(gesture.Edge) { dismissed++ })

	// Left-zone pointer dragged leftwards: recognized as non-dismiss and
	// ignored for the rest of the session.
	e.PointerDown(10, 300, 800)
	e.PointerMove(-25, 0)

	state := e.State()
	assert.Equal(t, gesture.EdgeNone, state.Edge)
	assert.False(t, state.Committed)

	// Even a huge matching drag afterwards cannot re-open the decision.
	e.PointerMove(200, 0)
	assert.False(t, e.State().Committed)

	e.PointerUp()
	assert.Equal(t, gesture.Progress{}, e.State())
	assert.Zero(t, dismissed)
}

func TestRedirectToBottom(t *testing.T) {
	e := newTestEngine()

	// Mostly-vertical drag from the left edge zone becomes a bottom gesture.
	e.PointerDown(10, 300, 800)
	e.PointerMove(25, 40)

	state := e.State()
	assert.Equal(t, gesture.EdgeBottom, state.Edge)
	assert.True(t, state.Committed)
	assert.InDelta(t, 40.0/300.0, state.Progress, 1e-9)
}

func TestBottomCommitAndDismiss(t *testing.T) {
	e := newTestEngine()

	var dismissed []gesture.Edge
	e.OnDismiss(func(edge gesture.Edge) { dismissed = append(dismissed, edge) })

	e.PointerDown(400, 300, 800)
	e.PointerMove(0, 25)
	assert.Equal(t, gesture.EdgeBottom, e.State().Edge)
	assert.True(t, e.State().Committed)

	e.PointerMove(0, 60)
	e.PointerUp()

	assert.True(t, e.State().DismissTriggered)
	require.Len(t, dismissed, 1)
	assert.Equal(t, gesture.EdgeBottom, dismissed[0])
}

func TestPostCommitClamp(t *testing.T) {
	e := newTestEngine()

	e.PointerDown(10, 300, 800)
	e.PointerMove(25, 0) // commit left
	e.PointerMove(-100, 0)

	state := e.State()
	assert.Equal(t, gesture.EdgeLeft, state.Edge)
	assert.True(t, state.Committed, "committed is monotonic within the session")
	assert.Equal(t, 0.0, state.Progress, "offset clamped to the edge-consistent sign")
}

func TestProgressClampedToOne(t *testing.T) {
	e := newTestEngine()

	e.PointerDown(10, 300, 800)
	e.PointerMove(25, 0)
	e.PointerMove(500, 0) // far past maxDrag

	assert.Equal(t, 1.0, e.State().Progress)
}

func TestCancelTakesReleasePath(t *testing.T) {
	e := newTestEngine()

	var dismissed int
	e.OnDismiss(func(gesture.Edge) { dismissed++ })

	e.PointerDown(10, 300, 800)
	e.PointerMove(80, 0)
	e.Cancel()

	// Cancellation runs the same decision as a release.
	assert.True(t, e.State().DismissTriggered)
	assert.Equal(t, 1, dismissed)
}

func TestSessionResetIdempotence(t *testing.T) {
	e := newTestEngine()

	// Several sessions with different histories; every reset must land on
	// the identical neutral state.
	e.PointerDown(10, 300, 800)
	e.PointerMove(60, 0)
	e.PointerUp()
	assert.Equal(t, gesture.Progress{}, e.State())

	e.PointerDown(790, 300, 800)
	e.PointerMove(-90, 0)
	e.PointerUp()
	e.FinishExit()
	assert.Equal(t, gesture.Progress{}, e.State())

	e.PointerDown(400, 300, 800)
	e.PointerUp()
	assert.Equal(t, gesture.Progress{}, e.State())
}

func TestNewPointerDownStartsFreshSession(t *testing.T) {
	e := newTestEngine()

	e.PointerDown(10, 300, 800)
	e.PointerMove(25, 0)
	require.True(t, e.State().Committed)

	// A new pointer-down always wins over a stale session.
	e.PointerDown(400, 300, 800)
	state := e.State()
	assert.False(t, state.Committed)
	assert.Equal(t, gesture.EdgeNone, state.Edge)
	assert.Equal(t, 0.0, state.Progress)
}

func TestRightEdgeDismiss(t *testing.T) {
	e := newTestEngine()

	var dismissed []gesture.Edge
	e.OnDismiss(func(edge gesture.Edge) { dismissed = append(dismissed, edge) })

	e.PointerDown(790, 300, 800)
	e.PointerMove(-25, 0)
	state := e.State()
	assert.Equal(t, gesture.EdgeRight, state.Edge)
	assert.True(t, state.Committed)

	e.PointerMove(-60, 0)
	e.PointerUp()

	require.Len(t, dismissed, 1)
	assert.Equal(t, gesture.EdgeRight, dismissed[0])
}
