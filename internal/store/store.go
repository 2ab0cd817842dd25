// Package store persists per-session alignment state as an append-only
// version chain in SQLite, with an active pointer per session.
package store

// #region imports
import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/quietwire/reframe/go-pipeline/internal/alignment"
)

// #endregion imports

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS alignment_versions (
	version_id      TEXT PRIMARY KEY,
	session_id      TEXT NOT NULL,
	parent_id       TEXT,
	primary_scalar  REAL NOT NULL,
	fixed_offset    REAL NOT NULL,
	derived_scalar  REAL NOT NULL,
	flags_json      TEXT NOT NULL,
	turn            INTEGER NOT NULL DEFAULT 0,
	created_at      TEXT NOT NULL,
	FOREIGN KEY (parent_id) REFERENCES alignment_versions(version_id)
);

CREATE INDEX IF NOT EXISTS idx_alignment_session
	ON alignment_versions(session_id, created_at);

CREATE TABLE IF NOT EXISTS active_alignment (
	session_id    TEXT PRIMARY KEY,
	version_id    TEXT NOT NULL,
	FOREIGN KEY (version_id) REFERENCES alignment_versions(version_id)
);
`

// #endregion schema

// #region record

// VersionRecord is one committed alignment snapshot.
type VersionRecord struct {
	VersionID string
	SessionID string
	ParentID  string
	State     alignment.State
	Flags     alignment.Flags
	Turn      int
	CreatedAt time.Time
}

// #endregion record

// #region store-struct

// Store manages versioned alignment state in SQLite.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor

// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by other packages.
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion constructor

// #region create-initial

// CreateInitial commits a session's first alignment version and points the
// session's active pointer at it.
func (s *Store) CreateInitial(sessionID string, st alignment.State, flags alignment.Flags) (VersionRecord, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	rec := VersionRecord{
		VersionID: id,
		SessionID: sessionID,
		State:     st,
		Flags:     flags,
		Turn:      0,
		CreatedAt: now,
	}

	flagsJSON, err := json.Marshal(flags)
	if err != nil {
		return VersionRecord{}, fmt.Errorf("marshal flags: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return VersionRecord{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO alignment_versions (version_id, session_id, parent_id, primary_scalar, fixed_offset, derived_scalar, flags_json, turn, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, sessionID, nil, st.PrimaryScalar, st.FixedOffset, st.DerivedScalar,
		string(flagsJSON), 0, now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return VersionRecord{}, fmt.Errorf("insert version: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO active_alignment (session_id, version_id) VALUES (?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET version_id = excluded.version_id`,
		sessionID, id,
	)
	if err != nil {
		return VersionRecord{}, fmt.Errorf("set active: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return VersionRecord{}, fmt.Errorf("commit: %w", err)
	}

	return rec, nil
}

// #endregion create-initial

// #region commit

// Commit inserts a new version for a session and advances the active pointer
// atomically. The new version's parent is the session's current version.
func (s *Store) Commit(sessionID string, st alignment.State, flags alignment.Flags, turn int) (VersionRecord, error) {
	current, err := s.GetCurrent(sessionID)
	if err != nil {
		return VersionRecord{}, fmt.Errorf("resolve parent: %w", err)
	}

	id := uuid.New().String()
	now := time.Now().UTC()

	rec := VersionRecord{
		VersionID: id,
		SessionID: sessionID,
		ParentID:  current.VersionID,
		State:     st,
		Flags:     flags,
		Turn:      turn,
		CreatedAt: now,
	}

	flagsJSON, err := json.Marshal(flags)
	if err != nil {
		return VersionRecord{}, fmt.Errorf("marshal flags: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return VersionRecord{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO alignment_versions (version_id, session_id, parent_id, primary_scalar, fixed_offset, derived_scalar, flags_json, turn, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, sessionID, current.VersionID, st.PrimaryScalar, st.FixedOffset, st.DerivedScalar,
		string(flagsJSON), turn, now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return VersionRecord{}, fmt.Errorf("insert version: %w", err)
	}

	_, err = tx.Exec(
		`UPDATE active_alignment SET version_id = ? WHERE session_id = ?`,
		id, sessionID,
	)
	if err != nil {
		return VersionRecord{}, fmt.Errorf("update active: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return VersionRecord{}, fmt.Errorf("commit: %w", err)
	}

	return rec, nil
}

// #endregion commit

// #region get-current

// GetCurrent reads a session's active alignment version.
func (s *Store) GetCurrent(sessionID string) (VersionRecord, error) {
	var versionID string
	err := s.db.QueryRow(
		`SELECT version_id FROM active_alignment WHERE session_id = ?`, sessionID,
	).Scan(&versionID)
	if err != nil {
		return VersionRecord{}, fmt.Errorf("get active for %s: %w", sessionID, err)
	}
	return s.GetVersion(versionID)
}

// #endregion get-current

// #region get-version

// GetVersion retrieves a specific alignment version by ID.
func (s *Store) GetVersion(id string) (VersionRecord, error) {
	row := s.db.QueryRow(
		`SELECT version_id, session_id, parent_id, primary_scalar, fixed_offset, derived_scalar, flags_json, turn, created_at
		 FROM alignment_versions WHERE version_id = ?`, id,
	)
	rec, err := scanVersion(row)
	if err != nil {
		return VersionRecord{}, fmt.Errorf("get version %s: %w", id, err)
	}
	return rec, nil
}

// #endregion get-version

// #region list-versions

// ListVersions returns a session's most recent alignment versions.
func (s *Store) ListVersions(sessionID string, limit int) ([]VersionRecord, error) {
	rows, err := s.db.Query(
		`SELECT version_id, session_id, parent_id, primary_scalar, fixed_offset, derived_scalar, flags_json, turn, created_at
		 FROM alignment_versions WHERE session_id = ? ORDER BY created_at DESC, turn DESC LIMIT ?`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	var records []VersionRecord
	for rows.Next() {
		rec, err := scanVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// #endregion list-versions

// #region rollback

// Rollback points a session's active pointer at a previous version.
func (s *Store) Rollback(sessionID, targetVersionID string) error {
	var owner string
	err := s.db.QueryRow(
		`SELECT session_id FROM alignment_versions WHERE version_id = ?`, targetVersionID,
	).Scan(&owner)
	if err == sql.ErrNoRows {
		return fmt.Errorf("version %s not found", targetVersionID)
	}
	if err != nil {
		return fmt.Errorf("check version: %w", err)
	}
	if owner != sessionID {
		return fmt.Errorf("version %s belongs to session %s", targetVersionID, owner)
	}

	_, err = s.db.Exec(
		`UPDATE active_alignment SET version_id = ? WHERE session_id = ?`,
		targetVersionID, sessionID,
	)
	if err != nil {
		return fmt.Errorf("rollback: %w", err)
	}
	return nil
}

// #endregion rollback

// #region sessions

// Sessions lists every session with an active alignment pointer.
func (s *Store) Sessions() ([]string, error) {
	rows, err := s.db.Query(`SELECT session_id FROM active_alignment ORDER BY session_id`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// #endregion sessions

// #region scan

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanVersion(row rowScanner) (VersionRecord, error) {
	var rec VersionRecord
	var parentID sql.NullString
	var flagsJSON string
	var createdStr string

	err := row.Scan(&rec.VersionID, &rec.SessionID, &parentID,
		&rec.State.PrimaryScalar, &rec.State.FixedOffset, &rec.State.DerivedScalar,
		&flagsJSON, &rec.Turn, &createdStr)
	if err != nil {
		return VersionRecord{}, err
	}

	if parentID.Valid {
		rec.ParentID = parentID.String
	}
	if err := json.Unmarshal([]byte(flagsJSON), &rec.Flags); err != nil {
		return VersionRecord{}, fmt.Errorf("unmarshal flags: %w", err)
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	return rec, nil
}

// #endregion scan
