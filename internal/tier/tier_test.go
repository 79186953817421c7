package tier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"codeberg.org/mutker/overlayd/internal/tier"
)

func TestNextUp(t *testing.T) {
	assert.Equal(t, tier.TierLight, tier.TierMinimal.NextUp())
	assert.Equal(t, tier.TierMedium, tier.TierLight.NextUp())
	assert.Equal(t, tier.TierHigh, tier.TierMedium.NextUp())
	assert.Equal(t, tier.TierFull, tier.TierHigh.NextUp())
	assert.Equal(t, tier.TierFull, tier.TierFull.NextUp(), "full is its own ceiling")
}

func TestCapabilityFlags(t *testing.T) {
	assert.True(t, tier.TierFull.HasBlur())
	assert.False(t, tier.TierHigh.HasBlur(), "blur is full-tier only")

	assert.True(t, tier.TierHigh.HasGlow())
	assert.True(t, tier.TierFull.HasGlow())
	assert.False(t, tier.TierMedium.HasGlow())

	assert.True(t, tier.TierMedium.HasShadow())
	assert.False(t, tier.TierLight.HasShadow())

	assert.Equal(t, 0.0, tier.TierMinimal.AnimationScale())
	assert.Equal(t, 1.0, tier.TierFull.AnimationScale())
}
