// Package journal records terminal booking outcomes in SQLite. Sessions
// themselves live only in memory; what must survive a restart is the
// audit trail of which bookings completed or failed, with what reference
// and message.
package journal

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Entry is one terminal booking outcome.
type Entry struct {
	ID         int64     `json:"id"`
	SessionID  string    `json:"sessionId"`
	Outcome    string    `json:"outcome"`
	Reference  string    `json:"bookingReference,omitempty"`
	Message    string    `json:"message,omitempty"`
	Checkin    string    `json:"checkinDate"`
	Checkout   string    `json:"checkoutDate"`
	TestMode   bool      `json:"testMode"`
	RecordedAt time.Time `json:"recordedAt"`
}

// Journal is the SQLite-backed outcome log.
type Journal struct {
	db       *sql.DB
	logger   *slog.Logger
	isMemory bool
}

// Open creates or opens the journal database. ":memory:" gives an
// in-process database for tests.
func Open(dbPath string, logger *slog.Logger) (*Journal, error) {
	isMemory := dbPath == ":memory:"

	var connStr string
	if isMemory {
		connStr = "file::memory:?cache=shared&_timeout=5000&_busy_timeout=5000"
	} else {
		dir := filepath.Dir(dbPath)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("creating journal directory: %w", err)
			}
		}
		connStr = dbPath + "?_journal=WAL&_timeout=5000&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening journal database: %w", err)
	}

	// SQLite is single-writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	j := &Journal{db: db, logger: logger, isMemory: isMemory}
	if err := j.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating journal database: %w", err)
	}

	logger.Info("booking journal opened", "path", dbPath, "in_memory", isMemory)
	return j, nil
}

func (j *Journal) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS booking_outcomes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		outcome TEXT NOT NULL,
		reference TEXT NOT NULL DEFAULT '',
		message TEXT NOT NULL DEFAULT '',
		checkin TEXT NOT NULL DEFAULT '',
		checkout TEXT NOT NULL DEFAULT '',
		test_mode INTEGER NOT NULL DEFAULT 0,
		recorded_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_outcomes_recorded_at ON booking_outcomes(recorded_at);
	`
	_, err := j.db.Exec(schema)
	return err
}

// Record appends a terminal outcome row.
func (j *Journal) Record(e Entry) error {
	if e.RecordedAt.IsZero() {
		e.RecordedAt = time.Now()
	}

	query := `
	INSERT INTO booking_outcomes (session_id, outcome, reference, message, checkin, checkout, test_mode, recorded_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := j.db.Exec(query,
		e.SessionID,
		e.Outcome,
		e.Reference,
		e.Message,
		e.Checkin,
		e.Checkout,
		boolToInt(e.TestMode),
		e.RecordedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording booking outcome: %w", err)
	}

	j.logger.Debug("booking outcome recorded", "session_id", e.SessionID, "outcome", e.Outcome)
	return nil
}

// Recent returns the latest n outcomes, newest first.
func (j *Journal) Recent(n int) ([]Entry, error) {
	if n <= 0 {
		n = 20
	}

	query := `
	SELECT id, session_id, outcome, reference, message, checkin, checkout, test_mode, recorded_at
	FROM booking_outcomes
	ORDER BY id DESC
	LIMIT ?
	`
	rows, err := j.db.Query(query, n)
	if err != nil {
		return nil, fmt.Errorf("listing booking outcomes: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var testMode int
		var recordedAt string
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Outcome, &e.Reference, &e.Message,
			&e.Checkin, &e.Checkout, &testMode, &recordedAt); err != nil {
			return nil, fmt.Errorf("scanning booking outcome: %w", err)
		}
		e.TestMode = testMode != 0
		e.RecordedAt, _ = time.Parse(time.RFC3339, recordedAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close flushes and closes the database.
func (j *Journal) Close() error {
	if !j.isMemory {
		if _, err := j.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
			j.logger.Warn("journal WAL checkpoint failed", "error", err)
		}
	}
	return j.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
