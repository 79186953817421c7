package telemetry

import "time"

// ThermalSource reads the current platform thermal level. Sources that can
// detect changes out-of-band push them through Sampler.NotifyThermal; the
// sampler itself only ever polls Current.
type ThermalSource interface {
	Current() (ThermalLevel, error)
}

// MemorySource reads the current memory availability against the device
// threshold.
type MemorySource interface {
	Sample() (MemoryStat, error)
}

// Snapshot is one combined telemetry reading.
type Snapshot struct {
	Thermal ThermalLevel
	Memory  MemoryPressureLevel
	Time    time.Time
}
