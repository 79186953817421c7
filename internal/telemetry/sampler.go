package telemetry

import (
	"context"
	"sync"
	"time"

	"codeberg.org/mutker/overlayd/internal/logger"
	"codeberg.org/mutker/overlayd/internal/stream"
)

// Sampler combines a periodic poll of the thermal and memory sources with
// asynchronous push notifications (thermal change, trim-memory). Every
// reading is published to a replace-latest cell; only the newest snapshot
// matters to consumers.
//
// A nil source means the platform lacks that API; readings default to
// Normal rather than failing.
type Sampler struct {
	mu       sync.Mutex
	thermal  ThermalSource
	memory   MemorySource
	interval time.Duration
	out      *stream.Latest[Snapshot]

	lastThermal ThermalLevel
}

func NewSampler(thermal ThermalSource, memory MemorySource, interval time.Duration) *Sampler {
	if interval <= 0 {
		interval = time.Second
	}

	return &Sampler{
		thermal:  thermal,
		memory:   memory,
		interval: interval,
		out:      stream.NewLatest[Snapshot](),
	}
}

// Snapshots returns the replace-latest output cell.
func (s *Sampler) Snapshots() *stream.Latest[Snapshot] {
	return s.out
}

// Run polls until ctx is cancelled. The first sample is taken immediately.
func (s *Sampler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.SampleNow()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SampleNow()
		}
	}
}

// SampleNow reads both sources and publishes a snapshot.
func (s *Sampler) SampleNow() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.publishLocked(s.readThermalLocked(), s.readMemoryLocked())
}

// NotifyThermal is the push input for thermal change callbacks. The new
// level is published immediately, combined with a fresh memory reading.
func (s *Sampler) NotifyThermal(level ThermalLevel) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastThermal = level
	s.publishLocked(level, s.readMemoryLocked())
}

// NotifyTrim is the push input for trim-memory events. The mapped pressure
// applies to the immediately published snapshot only; the next periodic
// sample derives pressure from the memory source again.
func (s *Sampler) NotifyTrim(level TrimLevel) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.publishLocked(s.readThermalLocked(), PressureFromTrim(level))
}

func (s *Sampler) readThermalLocked() ThermalLevel {
	if s.thermal == nil {
		return ThermalNormal
	}

	level, err := s.thermal.Current()
	if err != nil {
		// Keep the last pushed or polled level on a transient read failure.
		logger.Debug().Err(err).Msg("thermal read failed, keeping last level")
		return s.lastThermal
	}
	s.lastThermal = level

	return level
}

func (s *Sampler) readMemoryLocked() MemoryPressureLevel {
	if s.memory == nil {
		return MemoryNormal
	}

	stat, err := s.memory.Sample()
	if err != nil {
		logger.Debug().Err(err).Msg("memory read failed, assuming normal")
		return MemoryNormal
	}

	return DerivePressure(stat)
}

func (s *Sampler) publishLocked(thermal ThermalLevel, memory MemoryPressureLevel) Snapshot {
	snapshot := Snapshot{
		Thermal: thermal,
		Memory:  memory,
		Time:    time.Now(),
	}
	s.out.Set(snapshot)

	return snapshot
}
