// Package platform provides telemetry sources for the sampler: sysfs
// thermal zones, /proc/meminfo, and an optional NVML GPU source.
package platform

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"codeberg.org/mutker/overlayd/internal/errors"
	"codeberg.org/mutker/overlayd/internal/telemetry"
)

// Millidegree band boundaries for sysfs thermal zones.
const (
	thermalModerateMilli = 55000
	thermalSeriousMilli  = 65000
	thermalSevereMilli   = 75000
	thermalCriticalMilli = 85000
	thermalShutdownMilli = 95000
)

// SysfsThermal reads a /sys/class/thermal zone.
type SysfsThermal struct {
	zonePath string
}

func NewSysfsThermal(zonePath string) *SysfsThermal {
	return &SysfsThermal{zonePath: zonePath}
}

// Current implements telemetry.ThermalSource.
func (s *SysfsThermal) Current() (telemetry.ThermalLevel, error) {
	errFactory := errors.New()

	raw, err := os.ReadFile(filepath.Join(s.zonePath, "temp"))
	if err != nil {
		return telemetry.ThermalNormal, errFactory.Wrap(errors.ErrThermalRead, err)
	}

	milli, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return telemetry.ThermalNormal, errFactory.Wrap(errors.ErrThermalRead, err)
	}

	return levelFromMillidegrees(milli), nil
}

// Watch polls the zone and pushes band changes through notify. This is the
// push half of the thermal input; the sampler still polls Current on its
// own period.
func (s *SysfsThermal) Watch(ctx context.Context, interval time.Duration, notify func(telemetry.ThermalLevel)) {
	if interval <= 0 {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := telemetry.ThermalNormal
	seen := false

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			level, err := s.Current()
			if err != nil {
				continue
			}
			if !seen || level != last {
				seen = true
				last = level
				notify(level)
			}
		}
	}
}

func levelFromMillidegrees(milli int) telemetry.ThermalLevel {
	switch {
	case milli < thermalModerateMilli:
		return telemetry.ThermalNormal
	case milli < thermalSeriousMilli:
		return telemetry.ThermalModerate
	case milli < thermalSevereMilli:
		return telemetry.ThermalSerious
	case milli < thermalCriticalMilli:
		return telemetry.ThermalSevere
	case milli < thermalShutdownMilli:
		return telemetry.ThermalCritical
	default:
		return telemetry.ThermalShutdown
	}
}
