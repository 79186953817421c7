package tier

import (
	"sync"

	"codeberg.org/mutker/overlayd/internal/logger"
	"codeberg.org/mutker/overlayd/internal/stream"
)

// DefaultUpgradeStability is the number of consecutive better-than-current
// samples required before climbing one level. Tuning value, not invariant.
const DefaultUpgradeStability = 5

// State is a copy of the controller internals, exposed for logging and tests.
type State struct {
	Current        FeatureTier
	StableUpgrades int
	LastIdeal      FeatureTier
}

// Controller is the hysteresis filter between ideal and applied tier.
//
// All mutation goes through Apply under one mutex; the sampler tick and the
// thermal push callback both land here and must not interleave, or the
// stable-upgrade counter would corrupt. Consumers read the replace-latest
// output cell and never block Apply.
type Controller struct {
	mu             sync.Mutex
	current        FeatureTier
	stableUpgrades int
	lastIdeal      FeatureTier
	stability      int
	out            *stream.Latest[FeatureTier]
}

// NewController starts at TierFull: absence of bad telemetry is read
// optimistically, and the first worse sample downgrades immediately anyway.
func NewController(stability int) *Controller {
	if stability < 1 {
		stability = DefaultUpgradeStability
	}

	c := &Controller{
		current:   TierFull,
		lastIdeal: TierFull,
		stability: stability,
		out:       stream.NewLatest[FeatureTier](),
	}
	c.out.Set(c.current)

	return c
}

// Tiers returns the replace-latest output cell.
func (c *Controller) Tiers() *stream.Latest[FeatureTier] {
	return c.out
}

// Apply feeds one ideal-tier sample through the hysteresis machine and
// returns the applied tier.
func (c *Controller) Apply(ideal FeatureTier) FeatureTier {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastIdeal = ideal

	switch {
	case ideal.Level() < c.current.Level():
		// Degradation is never delayed.
		logger.Info().
			Str("from", c.current.String()).
			Str("to", ideal.String()).
			Msg("tier downgraded")
		c.current = ideal
		c.stableUpgrades = 0
		c.out.Set(c.current)
	case ideal.Level() > c.current.Level():
		c.stableUpgrades++
		if c.stableUpgrades >= c.stability {
			// One level only; the counter re-arms to climb further.
			next := c.current.NextUp()
			logger.Info().
				Str("from", c.current.String()).
				Str("to", next.String()).
				Str("ideal", ideal.String()).
				Msg("tier upgraded")
			c.current = next
			c.stableUpgrades = 0
			c.out.Set(c.current)
		}
	default:
		c.stableUpgrades = 0
	}

	return c.current
}

// Current returns the applied tier.
func (c *Controller) Current() FeatureTier {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.current
}

// SetStability retunes the upgrade pacing at runtime (config reload).
// The counter is reset so a shorter window cannot trigger retroactively.
func (c *Controller) SetStability(stability int) {
	if stability < 1 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.stability = stability
	c.stableUpgrades = 0
}

// Snapshot returns a copy of the controller state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return State{
		Current:        c.current,
		StableUpgrades: c.stableUpgrades,
		LastIdeal:      c.lastIdeal,
	}
}
