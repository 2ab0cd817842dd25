// Package provenance records per-turn processing decisions so any response
// can be traced back to the filter, subject, and template choices behind it.
package provenance

// #region imports
import (
	"database/sql"
	"fmt"
	"time"
)

// #endregion imports

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS turn_log (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id         TEXT NOT NULL,
	turn_id            TEXT NOT NULL,
	subject            TEXT,
	subject_changed    INTEGER NOT NULL DEFAULT 0,
	response_format    TEXT NOT NULL,
	resolve_trace      TEXT,
	shield_delta       INTEGER NOT NULL DEFAULT 0,
	alignment_severity TEXT,
	reason             TEXT,
	created_at         TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_turn_log_session ON turn_log(session_id, id);
`

// EnsureSchema creates the turn_log table if missing.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("migrate turn_log: %w", err)
	}
	return nil
}

// #endregion schema

// #region entry

// Entry is a single row in the turn_log table.
type Entry struct {
	SessionID         string
	TurnID            string
	Subject           string
	SubjectChanged    bool
	ResponseFormat    string
	ResolveTrace      string
	ShieldDelta       int
	AlignmentSeverity string
	Reason            string
	CreatedAt         time.Time
}

// #endregion entry

// #region log

// Log writes a turn entry to the turn_log table.
func Log(db *sql.DB, entry Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	changed := 0
	if entry.SubjectChanged {
		changed = 1
	}

	_, err := db.Exec(
		`INSERT INTO turn_log (session_id, turn_id, subject, subject_changed, response_format, resolve_trace, shield_delta, alignment_severity, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.SessionID,
		entry.TurnID,
		nullIfEmpty(entry.Subject),
		changed,
		entry.ResponseFormat,
		nullIfEmpty(entry.ResolveTrace),
		entry.ShieldDelta,
		nullIfEmpty(entry.AlignmentSeverity),
		nullIfEmpty(entry.Reason),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log turn: %w", err)
	}
	return nil
}

// #endregion log

// #region tail

// Tail returns the most recent entries, newest first. An empty sessionID
// reads across all sessions.
func Tail(db *sql.DB, sessionID string, limit int) ([]Entry, error) {
	query := `SELECT session_id, turn_id, subject, subject_changed, response_format, resolve_trace, shield_delta, alignment_severity, reason, created_at
		 FROM turn_log`
	args := []interface{}{}
	if sessionID != "" {
		query += ` WHERE session_id = ?`
		args = append(args, sessionID)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("tail turn_log: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var subject, trace, severity, reason sql.NullString
		var changed int
		var createdStr string
		if err := rows.Scan(&e.SessionID, &e.TurnID, &subject, &changed,
			&e.ResponseFormat, &trace, &e.ShieldDelta, &severity, &reason, &createdStr); err != nil {
			return nil, fmt.Errorf("scan turn_log: %w", err)
		}
		e.Subject = subject.String
		e.SubjectChanged = changed != 0
		e.ResolveTrace = trace.String
		e.AlignmentSeverity = severity.String
		e.Reason = reason.String
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// #endregion tail

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
