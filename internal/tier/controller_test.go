package tier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/mutker/overlayd/internal/tier"
)

func TestControllerStartsFull(t *testing.T) {
	c := tier.NewController(5)
	assert.Equal(t, tier.TierFull, c.Current())

	current, ok := c.Tiers().Get()
	require.True(t, ok)
	assert.Equal(t, tier.TierFull, current)
}

func TestDowngradeImmediacy(t *testing.T) {
	c := tier.NewController(5)

	// Severe thermal: ideal drops to light and applies on the very next
	// sample regardless of prior state.
	assert.Equal(t, tier.TierLight, c.Apply(tier.TierLight))

	state := c.Snapshot()
	assert.Equal(t, tier.TierLight, state.Current)
	assert.Equal(t, 0, state.StableUpgrades)

	// Multi-level drop in one step is allowed.
	c2 := tier.NewController(5)
	assert.Equal(t, tier.TierMinimal, c2.Apply(tier.TierMinimal))
}

func TestUpgradePacing(t *testing.T) {
	c := tier.NewController(5)
	c.Apply(tier.TierMedium)
	require.Equal(t, tier.TierMedium, c.Current())

	for i := 0; i < 4; i++ {
		assert.Equal(t, tier.TierMedium, c.Apply(tier.TierHigh), "sample %d must not upgrade", i+1)
	}

	assert.Equal(t, tier.TierHigh, c.Apply(tier.TierHigh), "5th consecutive sample upgrades")
	assert.Equal(t, 0, c.Snapshot().StableUpgrades, "counter re-arms after an upgrade")
}

func TestUpgradeNeverJumps(t *testing.T) {
	c := tier.NewController(5)
	c.Apply(tier.TierMedium)

	for i := 0; i < 4; i++ {
		c.Apply(tier.TierFull)
	}
	// Even with ideal two levels above, the climb is one level at a time.
	assert.Equal(t, tier.TierHigh, c.Apply(tier.TierFull))

	for i := 0; i < 4; i++ {
		assert.Equal(t, tier.TierHigh, c.Apply(tier.TierFull))
	}
	assert.Equal(t, tier.TierFull, c.Apply(tier.TierFull))
}

func TestEqualSampleResetsCounter(t *testing.T) {
	c := tier.NewController(5)
	c.Apply(tier.TierMedium)

	for i := 0; i < 3; i++ {
		c.Apply(tier.TierHigh)
	}
	require.Equal(t, 3, c.Snapshot().StableUpgrades)

	c.Apply(tier.TierMedium)
	assert.Equal(t, 0, c.Snapshot().StableUpgrades)

	// The run must restart from scratch.
	for i := 0; i < 4; i++ {
		assert.Equal(t, tier.TierMedium, c.Apply(tier.TierHigh))
	}
	assert.Equal(t, tier.TierHigh, c.Apply(tier.TierHigh))
}

func TestDowngradeResetsCounter(t *testing.T) {
	c := tier.NewController(5)
	c.Apply(tier.TierMedium)

	for i := 0; i < 4; i++ {
		c.Apply(tier.TierHigh)
	}
	c.Apply(tier.TierLight)

	state := c.Snapshot()
	assert.Equal(t, tier.TierLight, state.Current)
	assert.Equal(t, 0, state.StableUpgrades)
}

func TestTierLevelInvariant(t *testing.T) {
	c := tier.NewController(5)

	sequence := []tier.FeatureTier{
		tier.TierMinimal, tier.TierFull, tier.TierFull, tier.TierLight,
		tier.TierFull, tier.TierFull, tier.TierFull, tier.TierFull, tier.TierFull,
		tier.TierMinimal, tier.TierMedium, tier.TierMedium,
	}
	for _, ideal := range sequence {
		current := c.Apply(ideal)
		assert.GreaterOrEqual(t, current.Level(), 0)
		assert.LessOrEqual(t, current.Level(), 4)
	}
}

func TestTierStreamCarriesLatest(t *testing.T) {
	c := tier.NewController(5)

	var seen []tier.FeatureTier
	c.Tiers().Subscribe(func(ft tier.FeatureTier) {
		seen = append(seen, ft)
	})

	c.Apply(tier.TierLight)
	c.Apply(tier.TierLight) // equal, no publish

	require.Len(t, seen, 2) // initial replay + downgrade
	assert.Equal(t, tier.TierFull, seen[0])
	assert.Equal(t, tier.TierLight, seen[1])

	latest, ok := c.Tiers().Get()
	require.True(t, ok)
	assert.Equal(t, tier.TierLight, latest)
}

func TestSetStabilityResetsRun(t *testing.T) {
	c := tier.NewController(5)
	c.Apply(tier.TierMedium)

	for i := 0; i < 4; i++ {
		c.Apply(tier.TierHigh)
	}
	c.SetStability(2)

	// The shorter window must not fire retroactively.
	assert.Equal(t, tier.TierMedium, c.Apply(tier.TierHigh))
	assert.Equal(t, tier.TierHigh, c.Apply(tier.TierHigh))
}
