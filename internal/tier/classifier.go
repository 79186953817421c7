package tier

import "codeberg.org/mutker/overlayd/internal/telemetry"

// Classify maps a telemetry reading to the ideal tier. Pure and
// deterministic; thermal dominates memory at every priority step.
func Classify(thermal telemetry.ThermalLevel, memory telemetry.MemoryPressureLevel) FeatureTier {
	switch {
	case thermal == telemetry.ThermalShutdown || memory == telemetry.MemoryCritical:
		return TierMinimal
	case thermal == telemetry.ThermalCritical:
		return TierMinimal
	case thermal == telemetry.ThermalSevere || memory == telemetry.MemoryLow:
		return TierLight
	case thermal == telemetry.ThermalSerious:
		return TierMedium
	case thermal == telemetry.ThermalModerate || memory == telemetry.MemoryModerate:
		return TierHigh
	default:
		return TierFull
	}
}

// ClassifySnapshot is Classify over a sampler snapshot.
func ClassifySnapshot(s telemetry.Snapshot) FeatureTier {
	return Classify(s.Thermal, s.Memory)
}
