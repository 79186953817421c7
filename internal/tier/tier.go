// Package tier converts telemetry snapshots into a stabilized feature tier.
//
// The classifier is a pure priority table; the controller adds hysteresis so
// presentation never flaps between visual configurations: downgrades apply
// immediately, upgrades climb one level at a time after a sustained run of
// better readings.
package tier

// FeatureTier is the discrete capability level, ordered worst to best.
type FeatureTier int

const (
	TierMinimal FeatureTier = iota
	TierLight
	TierMedium
	TierHigh
	TierFull
)

// Level returns the integer level 0..4.
func (t FeatureTier) Level() int {
	return int(t)
}

func (t FeatureTier) String() string {
	switch t {
	case TierMinimal:
		return "minimal"
	case TierLight:
		return "light"
	case TierMedium:
		return "medium"
	case TierHigh:
		return "high"
	case TierFull:
		return "full"
	default:
		return "unknown"
	}
}

// upgradeStep is the one-level climb table. TierFull is its own ceiling.
var upgradeStep = [...]FeatureTier{
	TierMinimal: TierLight,
	TierLight:   TierMedium,
	TierMedium:  TierHigh,
	TierHigh:    TierFull,
	TierFull:    TierFull,
}

// NextUp returns the tier one level above, capped at TierFull.
func (t FeatureTier) NextUp() FeatureTier {
	if t < TierMinimal || t > TierFull {
		return TierMinimal
	}

	return upgradeStep[t]
}

// animationScale per level; presentation multiplies its durations by this.
var animationScale = [...]float64{
	TierMinimal: 0,
	TierLight:   0.25,
	TierMedium:  0.5,
	TierHigh:    0.75,
	TierFull:    1,
}

// Capability flags. All derive purely from the level.

// HasBlur reports whether the blurred background is enabled.
func (t FeatureTier) HasBlur() bool {
	return t == TierFull
}

// HasGlow reports whether the glow layer is enabled.
func (t FeatureTier) HasGlow() bool {
	return t >= TierHigh
}

// HasShadow reports whether the drop shadow is enabled.
func (t FeatureTier) HasShadow() bool {
	return t >= TierMedium
}

// AnimationScale returns the animation duration multiplier for the tier.
func (t FeatureTier) AnimationScale() float64 {
	if t < TierMinimal || t > TierFull {
		return 0
	}

	return animationScale[t]
}
