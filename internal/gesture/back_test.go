package gesture_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/mutker/overlayd/internal/gesture"
)

func TestBackGestureProgress(t *testing.T) {
	e := newTestEngine()

	e.BackStarted(gesture.EdgeLeft)
	state := e.State()
	assert.Equal(t, gesture.EdgeLeft, state.Edge)
	assert.True(t, state.Committed, "native back gestures arrive edge-locked")
	assert.Equal(t, 0.0, state.Progress)

	// Progress is used directly, no offset recompute.
	e.BackProgressed(gesture.EdgeLeft, 0.42)
	assert.InDelta(t, 0.42, e.State().Progress, 1e-9)

	e.BackProgressed(gesture.EdgeLeft, 1.7)
	assert.Equal(t, 1.0, e.State().Progress, "progress clamped to 0..1")
}

func TestBackCompleted(t *testing.T) {
	e := newTestEngine()

	var dismissed []gesture.Edge
	e.OnDismiss(func(edge gesture.Edge) { dismissed = append(dismissed, edge) })

	var outcome gesture.Outcome
	e.OnOutcome(func(_ uuid.UUID, _ gesture.Edge, _ float64, o gesture.Outcome) {
		outcome = o
	})

	e.BackStarted(gesture.EdgeRight)
	e.BackProgressed(gesture.EdgeRight, 0.1)
	// Completion dismisses regardless of how little progress accumulated.
	e.BackCompleted()

	state := e.State()
	assert.True(t, state.DismissTriggered)
	require.Len(t, dismissed, 1)
	assert.Equal(t, gesture.EdgeRight, dismissed[0])

	e.FinishExit()
	assert.Equal(t, gesture.Progress{}, e.State())
	assert.Equal(t, gesture.OutcomeDismiss, outcome)
	assert.Len(t, dismissed, 1, "dismiss fires exactly once")
}

func TestBackCancelled(t *testing.T) {
	e := newTestEngine()

	var dismissed int
	e.OnDismiss(func(gesture.Edge) { dismissed++ })

	var outcome gesture.Outcome
	e.OnOutcome(func(_ uuid.UUID, _ gesture.Edge, _ float64, o gesture.Outcome) {
		outcome = o
	})

	e.BackStarted(gesture.EdgeLeft)
	e.BackProgressed(gesture.EdgeLeft, 0.8)
	e.BackCancelled()

	// Cancellation mirrors the snap-back path: immediate neutral reset.
	assert.Equal(t, gesture.Progress{}, e.State())
	assert.Zero(t, dismissed)
	assert.Equal(t, gesture.OutcomeSnapBack, outcome)
}

func TestBackTerminalsAreExclusive(t *testing.T) {
	e := newTestEngine()

	var dismissed int
	e.OnDismiss(func(gesture.Edge) { dismissed++ })

	e.BackStarted(gesture.EdgeLeft)
	e.BackCancelled()
	// The losing terminal finds no live session and must be a no-op.
	e.BackCompleted()

	assert.Equal(t, gesture.Progress{}, e.State())
	assert.Zero(t, dismissed)

	// And the other way around: completion first, cancel is too late.
	e.BackStarted(gesture.EdgeBottom)
	e.BackCompleted()
	e.BackCancelled()

	assert.True(t, e.State().DismissTriggered)
	assert.Equal(t, 1, dismissed)
}

func TestBackIgnoresPointerMoves(t *testing.T) {
	e := newTestEngine()

	e.BackStarted(gesture.EdgeLeft)
	e.BackProgressed(gesture.EdgeLeft, 0.3)
	// Raw pointer deltas do not apply to a native-driven session.
	e.PointerMove(200, 0)

	assert.InDelta(t, 0.3, e.State().Progress, 1e-9)
}

func TestBackStartedNoneIsIgnored(t *testing.T) {
	e := newTestEngine()

	e.BackStarted(gesture.EdgeNone)
	assert.Equal(t, gesture.Progress{}, e.State())
}
