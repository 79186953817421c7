package history

import "time"

// Recorder persists telemetry snapshots, tier transitions, and gesture
// outcomes. All writes are best-effort operational telemetry; the core
// pipelines never depend on them.
type Recorder interface {
	RecordSnapshot(row *SnapshotRow) error
	RecordTransition(row *TransitionRow) error
	RecordGesture(row *GestureRow) error
	Close() error
}

// SnapshotRow is one telemetry sample with its classification.
type SnapshotRow struct {
	Timestamp   time.Time
	Thermal     int
	Memory      int
	IdealTier   int
	CurrentTier int
}

// TransitionRow is one applied tier change.
type TransitionRow struct {
	Timestamp time.Time
	FromTier  int
	ToTier    int
	Reason    string // "downgrade" or "upgrade"
}

// GestureRow is one terminated gesture session.
type GestureRow struct {
	Timestamp   time.Time
	SessionID   string
	Edge        string
	MaxProgress float64
	Outcome     string // "dismiss", "snap_back", "none"
}
