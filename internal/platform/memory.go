package platform

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"codeberg.org/mutker/overlayd/internal/errors"
	"codeberg.org/mutker/overlayd/internal/telemetry"
)

const (
	defaultMeminfoPath = "/proc/meminfo"

	// When no explicit threshold is configured, use this share of total
	// memory as the device threshold.
	defaultThresholdPercent = 5
)

// MeminfoSource derives memory stats from /proc/meminfo.
type MeminfoSource struct {
	path      string
	threshold uint64 // bytes; 0 means derive from MemTotal
}

func NewMeminfoSource(threshold uint64) *MeminfoSource {
	return &MeminfoSource{
		path:      defaultMeminfoPath,
		threshold: threshold,
	}
}

// NewMeminfoSourceAt is NewMeminfoSource with an explicit file path.
func NewMeminfoSourceAt(path string, threshold uint64) *MeminfoSource {
	return &MeminfoSource{
		path:      path,
		threshold: threshold,
	}
}

// Sample implements telemetry.MemorySource. The low-memory flag is set when
// availability drops below the threshold itself.
func (m *MeminfoSource) Sample() (telemetry.MemoryStat, error) {
	errFactory := errors.New()

	file, err := os.Open(m.path)
	if err != nil {
		return telemetry.MemoryStat{}, errFactory.Wrap(errors.ErrMemoryRead, err)
	}
	defer file.Close()

	var availableKB, totalKB uint64
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		switch fields[0] {
		case "MemAvailable:":
			availableKB, _ = strconv.ParseUint(fields[1], 10, 64)
		case "MemTotal:":
			totalKB, _ = strconv.ParseUint(fields[1], 10, 64)
		}
	}
	if err := scanner.Err(); err != nil {
		return telemetry.MemoryStat{}, errFactory.Wrap(errors.ErrMemoryRead, err)
	}

	available := availableKB * 1024
	threshold := m.threshold
	if threshold == 0 {
		threshold = totalKB * 1024 * defaultThresholdPercent / 100
	}

	return telemetry.MemoryStat{
		AvailableBytes: available,
		ThresholdBytes: threshold,
		LowMemory:      threshold > 0 && available < threshold,
	}, nil
}
