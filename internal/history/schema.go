package history

import (
	"database/sql"

	"codeberg.org/mutker/overlayd/internal/errors"
	"codeberg.org/mutker/overlayd/internal/logger"
)

const (
	SchemaVersion = 1

	createTablesSQL = `
	   CREATE TABLE IF NOT EXISTS schema_versions (
	       version     INTEGER PRIMARY KEY,
	       applied_at  TEXT NOT NULL
	   );
	   CREATE TABLE IF NOT EXISTS snapshots (
	       timestamp    INTEGER NOT NULL,
	       thermal      INTEGER NOT NULL,
	       memory       INTEGER NOT NULL,
	       ideal_tier   INTEGER NOT NULL CHECK (ideal_tier BETWEEN 0 AND 4),
	       current_tier INTEGER NOT NULL CHECK (current_tier BETWEEN 0 AND 4)
	   );
	   CREATE TABLE IF NOT EXISTS tier_transitions (
	       timestamp INTEGER NOT NULL,
	       from_tier INTEGER NOT NULL CHECK (from_tier BETWEEN 0 AND 4),
	       to_tier   INTEGER NOT NULL CHECK (to_tier BETWEEN 0 AND 4),
	       reason    TEXT NOT NULL CHECK (reason IN ('downgrade', 'upgrade'))
	   );
	   CREATE TABLE IF NOT EXISTS gesture_sessions (
	       timestamp    INTEGER NOT NULL,
	       session_id   TEXT NOT NULL,
	       edge         TEXT NOT NULL,
	       max_progress REAL NOT NULL CHECK (max_progress BETWEEN 0 AND 1),
	       outcome      TEXT NOT NULL CHECK (outcome IN ('dismiss', 'snap_back', 'none'))
	   );`

	insertSnapshotSQL = `
    INSERT INTO snapshots (timestamp, thermal, memory, ideal_tier, current_tier)
    VALUES (?, ?, ?, ?, ?)`

	insertTransitionSQL = `
    INSERT INTO tier_transitions (timestamp, from_tier, to_tier, reason)
    VALUES (?, ?, ?, ?)`

	insertGestureSQL = `
    INSERT INTO gesture_sessions (timestamp, session_id, edge, max_progress, outcome)
    VALUES (?, ?, ?, ?, ?)`
)

// ValidateAndUpdateSchema brings the database to the current schema.
// History rows are disposable telemetry: on a version mismatch the tables
// are dropped and recreated rather than migrated.
func ValidateAndUpdateSchema(db *sql.DB) error {
	errFactory := errors.New()

	version, err := getSchemaVersion(db)
	if err != nil {
		return err
	}

	if version == SchemaVersion {
		return nil
	}

	if version != 0 {
		logger.Warn().
			Int("found", version).
			Int("want", SchemaVersion).
			Msg("history schema version mismatch, recreating")
		if _, err := db.Exec(`
	        DROP TABLE IF EXISTS snapshots;
	        DROP TABLE IF EXISTS tier_transitions;
	        DROP TABLE IF EXISTS gesture_sessions;
	        DROP TABLE IF EXISTS schema_versions;
	    `); err != nil {
			return errFactory.Wrap(ErrSchemaInitFailed, err)
		}
	}

	return initSchema(db)
}

func initSchema(db *sql.DB) error {
	errFactory := errors.New()

	tx, err := db.Begin()
	if err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}

	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
				logger.Debug().Err(err).Msg("Failed to rollback transaction")
			}
		}
	}()

	if _, err := tx.Exec(createTablesSQL); err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}

	if _, err := tx.Exec(`
        INSERT INTO schema_versions (version, applied_at)
        VALUES (?, datetime('now'))
    `, SchemaVersion); err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}

	if err := tx.Commit(); err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}
	committed = true

	logger.Info().
		Int("version", SchemaVersion).
		Msg("History schema initialized")

	return nil
}

func getSchemaVersion(db *sql.DB) (int, error) {
	errFactory := errors.New()

	exists, err := tableExists(db, "schema_versions")
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, nil
	}

	var version int
	err = db.QueryRow(`
        SELECT version
        FROM schema_versions
        ORDER BY version DESC
        LIMIT 1
    `).Scan(&version)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, errFactory.Wrap(ErrSchemaValidationFailed, err)
	}

	return version, nil
}

func tableExists(db *sql.DB, tableName string) (bool, error) {
	errFactory := errors.New()

	var exists bool
	err := db.QueryRow(`
        SELECT EXISTS (
            SELECT 1 FROM sqlite_master
            WHERE type='table' AND name=?
        )
    `, tableName).Scan(&exists)
	if err != nil {
		return false, errFactory.Wrap(ErrSchemaValidationFailed, err)
	}

	return exists, nil
}
