package telemetry

// ThermalLevel is the platform thermal status, monotonically worsening.
type ThermalLevel int

const (
	ThermalNormal ThermalLevel = iota
	ThermalModerate
	ThermalSerious
	ThermalSevere
	ThermalCritical
	ThermalShutdown
)

func (l ThermalLevel) String() string {
	switch l {
	case ThermalNormal:
		return "normal"
	case ThermalModerate:
		return "moderate"
	case ThermalSerious:
		return "serious"
	case ThermalSevere:
		return "severe"
	case ThermalCritical:
		return "critical"
	case ThermalShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// MemoryPressureLevel is the derived memory pressure, monotonically worsening.
type MemoryPressureLevel int

const (
	MemoryNormal MemoryPressureLevel = iota
	MemoryModerate
	MemoryLow
	MemoryCritical
)

func (l MemoryPressureLevel) String() string {
	switch l {
	case MemoryNormal:
		return "normal"
	case MemoryModerate:
		return "moderate"
	case MemoryLow:
		return "low"
	case MemoryCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// MemoryStat is one reading from a memory source.
type MemoryStat struct {
	AvailableBytes uint64
	ThresholdBytes uint64
	LowMemory      bool
}

// Pressure bands relative to the device threshold.
const (
	lowPressureFactor      = 1.5
	moderatePressureFactor = 2.5
)

// DerivePressure converts a raw memory reading into a pressure level.
// The platform low-memory flag overrides the banded derivation.
func DerivePressure(stat MemoryStat) MemoryPressureLevel {
	if stat.LowMemory {
		return MemoryCritical
	}
	if stat.ThresholdBytes == 0 {
		return MemoryNormal
	}

	threshold := float64(stat.ThresholdBytes)
	available := float64(stat.AvailableBytes)

	switch {
	case available < lowPressureFactor*threshold:
		return MemoryLow
	case available < moderatePressureFactor*threshold:
		return MemoryModerate
	default:
		return MemoryNormal
	}
}

// TrimLevel is a coarse platform trim-memory signal.
type TrimLevel int

const (
	TrimNone TrimLevel = iota
	TrimModerate
	TrimLow
	TrimCritical
)

// PressureFromTrim maps a trim-memory event onto the pressure scale.
func PressureFromTrim(level TrimLevel) MemoryPressureLevel {
	switch level {
	case TrimModerate:
		return MemoryModerate
	case TrimLow:
		return MemoryLow
	case TrimCritical:
		return MemoryCritical
	default:
		return MemoryNormal
	}
}
