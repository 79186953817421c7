package gesture

import "math"

// classifyEdge assigns the provisional edge for a pointer-down at x within a
// viewport of the given width. Provisional only: the commit decision may
// still redirect it.
func classifyEdge(x, width, edgeZone float64) Edge {
	switch {
	case x < edgeZone:
		return EdgeLeft
	case x > width-edgeZone:
		return EdgeRight
	default:
		return EdgeBottom
	}
}

// commitDecision is the per-step transition table for an undetermined drag.
// It returns the next state and, for committedEdge, the locked edge.
// Committed states are terminal; callers stop evaluating once one is
// reached.
func commitDecision(provisional Edge, off Offset, cfg Config) (commitState, Edge) {
	switch provisional {
	case EdgeLeft, EdgeRight:
		h := math.Abs(off.X)
		v := math.Abs(off.Y)
		if h <= cfg.CommitThreshold {
			return undetermined, EdgeNone
		}

		switch {
		case h > cfg.HorizontalBias*v:
			// Direction must match the edge: Left slides right, Right
			// slides left. A mismatched pull is not a dismiss gesture.
			if (provisional == EdgeLeft && off.X > 0) ||
				(provisional == EdgeRight && off.X < 0) {
				return committedEdge, provisional
			}
			return committedNone, EdgeNone
		case v > h:
			// Redirect: a mostly-vertical drag from an edge zone becomes
			// a bottom dismiss.
			return committedEdge, EdgeBottom
		default:
			return undetermined, EdgeNone
		}
	case EdgeBottom:
		if off.Y > cfg.CommitThreshold {
			return committedEdge, EdgeBottom
		}

		return undetermined, EdgeNone
	default:
		return undetermined, EdgeNone
	}
}

// clampOffset restricts a committed offset to the edge-consistent sign.
func clampOffset(edge Edge, off Offset) Offset {
	switch edge {
	case EdgeLeft:
		off.X = math.Max(off.X, 0)
	case EdgeRight:
		off.X = math.Min(off.X, 0)
	case EdgeBottom:
		off.Y = math.Max(off.Y, 0)
	case EdgeNone:
	}

	return off
}

// relevantOffset is the edge-consistent axis magnitude used for progress
// and the dismiss decision.
func relevantOffset(edge Edge, off Offset) float64 {
	switch edge {
	case EdgeLeft:
		return off.X
	case EdgeRight:
		return -off.X
	case EdgeBottom:
		return off.Y
	default:
		return 0
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}

	return v
}
