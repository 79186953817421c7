// Package gesture classifies pointer drags and native back events into
// edge-specific dismiss gestures with continuous progress.
package gesture

// Edge identifies which screen edge a gesture is locked to.
type Edge int

const (
	EdgeNone Edge = iota
	EdgeLeft
	EdgeRight
	EdgeBottom
)

func (e Edge) String() string {
	switch e {
	case EdgeLeft:
		return "left"
	case EdgeRight:
		return "right"
	case EdgeBottom:
		return "bottom"
	default:
		return "none"
	}
}

// Offset is an accumulated drag offset in px from the pointer-down point.
type Offset struct {
	X, Y float64
}

// Progress is the continuously published gesture output consumed by
// presentation. Progress is raw (clamped 0..1, unsmoothed).
type Progress struct {
	Edge             Edge
	Progress         float64
	Committed        bool
	DismissTriggered bool
}

// Outcome is how a session ended.
type Outcome string

const (
	OutcomeDismiss  Outcome = "dismiss"
	OutcomeSnapBack Outcome = "snap_back"
	OutcomeNone     Outcome = "none"
)

// Config holds the gesture tuning constants. The defaults are the shipped
// values; none of them is architecturally significant.
type Config struct {
	// EdgeZone is the margin in px within which a pointer-down counts as an
	// edge gesture rather than a bottom gesture.
	EdgeZone float64
	// CommitThreshold is the drag distance in px before a direction can be
	// locked in.
	CommitThreshold float64
	// HorizontalBias is how dominant the horizontal axis must be for an
	// edge-zone drag to commit horizontally.
	HorizontalBias float64
	// MaxDrag is the offset in px mapping to progress 1.0.
	MaxDrag float64
	// DismissFraction of MaxDrag is the release threshold for dismissing.
	DismissFraction float64
}

func DefaultConfig() Config {
	return Config{
		EdgeZone:        40,
		CommitThreshold: 20,
		HorizontalBias:  1.5,
		MaxDrag:         300,
		DismissFraction: 0.25,
	}
}

type commitState int

const (
	undetermined commitState = iota
	committedEdge
	committedNone
)
