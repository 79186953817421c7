package history_test

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/mutker/overlayd/internal/history"
)

func newTestRepository(t *testing.T) (history.Recorder, string) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "history.db")
	repo, err := history.NewRepository(history.Config{
		DBPath:  dbPath,
		Enabled: true,
	})
	require.NoError(t, err)

	return repo, dbPath
}

func TestRecordAndFlush(t *testing.T) {
	repo, dbPath := newTestRepository(t)

	now := time.Now()
	require.NoError(t, repo.RecordSnapshot(&history.SnapshotRow{
		Timestamp:   now,
		Thermal:     3,
		Memory:      1,
		IdealTier:   1,
		CurrentTier: 2,
	}))
	require.NoError(t, repo.RecordTransition(&history.TransitionRow{
		Timestamp: now,
		FromTier:  4,
		ToTier:    1,
		Reason:    "downgrade",
	}))
	require.NoError(t, repo.RecordGesture(&history.GestureRow{
		Timestamp:   now,
		SessionID:   "8a9f2c5e-0000-0000-0000-000000000000",
		Edge:        "left",
		MaxProgress: 0.42,
		Outcome:     "dismiss",
	}))

	// Close flushes the snapshot buffer.
	require.NoError(t, repo.Close())

	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, 1, countRows(t, db, "snapshots"))
	assert.Equal(t, 1, countRows(t, db, "tier_transitions"))
	assert.Equal(t, 1, countRows(t, db, "gesture_sessions"))

	var edge string
	var maxProgress float64
	require.NoError(t, db.QueryRow(
		"SELECT edge, max_progress FROM gesture_sessions").Scan(&edge, &maxProgress))
	assert.Equal(t, "left", edge)
	assert.InDelta(t, 0.42, maxProgress, 1e-9)
}

func TestBatchFlushOnSize(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	repo, err := history.NewRepository(history.Config{
		DBPath:    dbPath,
		BatchSize: 2,
		Enabled:   true,
	})
	require.NoError(t, err)
	defer repo.Close()

	now := time.Now()
	for i := 0; i < 2; i++ {
		require.NoError(t, repo.RecordSnapshot(&history.SnapshotRow{
			Timestamp:   now.Add(time.Duration(i) * time.Second),
			CurrentTier: 4,
			IdealTier:   4,
		}))
	}

	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, 2, countRows(t, db, "snapshots"), "reaching batch size flushes synchronously")
}

func TestInvalidConfig(t *testing.T) {
	_, err := history.NewRepository(history.Config{Enabled: true})
	require.Error(t, err)
}

func TestNilRowsRejected(t *testing.T) {
	repo, _ := newTestRepository(t)
	defer repo.Close()

	assert.Error(t, repo.RecordSnapshot(nil))
	assert.Error(t, repo.RecordTransition(nil))
	assert.Error(t, repo.RecordGesture(nil))
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&count))

	return count
}
