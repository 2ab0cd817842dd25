package subject

// #region imports
import (
	"database/sql"
	"fmt"
	"time"
)

// #endregion imports

// #region schema

const schema = `
CREATE TABLE IF NOT EXISTS subject_frequency (
    term        TEXT PRIMARY KEY,
    count       INTEGER NOT NULL DEFAULT 1,
    updated_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS subject_edges (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    source_term  TEXT NOT NULL,
    target_term  TEXT NOT NULL,
    created_at   TEXT NOT NULL,
    UNIQUE(source_term, target_term)
);
CREATE INDEX IF NOT EXISTS idx_subject_edges_source ON subject_edges(source_term);
`

// #endregion schema

// #region store

// Store persists subject frequencies and the co-occurrence graph in SQLite,
// so topic continuity survives process restarts.
type Store struct {
	db           *sql.DB
	adjacencyCap int
}

// NewStore creates the subject tables and returns a Store.
func NewStore(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("subject schema: %w", err)
	}
	return &Store{db: db, adjacencyCap: defaultAdjacencyCap}, nil
}

// #endregion store

// #region record

// RecordSubject increments the persisted frequency for term.
func (s *Store) RecordSubject(term string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO subject_frequency (term, count, updated_at) VALUES (?, 1, ?)
		 ON CONFLICT(term) DO UPDATE SET count = count + 1, updated_at = ?`,
		term, now, now,
	)
	if err != nil {
		return fmt.Errorf("record subject: %w", err)
	}
	return nil
}

// RecordEdge persists a previous → new edge and trims the source's adjacency
// list oldest-first to the cap.
func (s *Store) RecordEdge(source, target string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO subject_edges (source_term, target_term, created_at)
		 VALUES (?, ?, ?)`,
		source, target, now,
	)
	if err != nil {
		return fmt.Errorf("record edge: %w", err)
	}

	_, err = s.db.Exec(
		`DELETE FROM subject_edges WHERE source_term = ? AND id NOT IN (
		     SELECT id FROM subject_edges WHERE source_term = ?
		     ORDER BY id DESC LIMIT ?
		 )`,
		source, source, s.adjacencyCap,
	)
	if err != nil {
		return fmt.Errorf("trim edges: %w", err)
	}
	return nil
}

// #endregion record

// #region queries

// SubjectCount pairs a term with its persisted frequency.
type SubjectCount struct {
	Term  string
	Count int
}

// TopSubjects returns the most frequent subjects, highest first.
func (s *Store) TopSubjects(limit int) ([]SubjectCount, error) {
	rows, err := s.db.Query(
		`SELECT term, count FROM subject_frequency ORDER BY count DESC, term ASC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("top subjects: %w", err)
	}
	defer rows.Close()

	var out []SubjectCount
	for rows.Next() {
		var sc SubjectCount
		if err := rows.Scan(&sc.Term, &sc.Count); err != nil {
			return nil, fmt.Errorf("scan subject: %w", err)
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// RelatedTerms returns the adjacency list for a subject, oldest first.
func (s *Store) RelatedTerms(term string) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT target_term FROM subject_edges WHERE source_term = ? ORDER BY id ASC`,
		term,
	)
	if err != nil {
		return nil, fmt.Errorf("related terms: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan edge: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// #endregion queries

// #region hydrate

// Hydrate loads persisted frequencies and edges into a Tracker.
func (s *Store) Hydrate(t *Tracker) error {
	rows, err := s.db.Query(`SELECT term, count FROM subject_frequency`)
	if err != nil {
		return fmt.Errorf("hydrate frequency: %w", err)
	}
	for rows.Next() {
		var term string
		var count int
		if err := rows.Scan(&term, &count); err != nil {
			rows.Close()
			return fmt.Errorf("scan frequency: %w", err)
		}
		t.SeedFrequency(term, count)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = s.db.Query(`SELECT source_term, target_term FROM subject_edges ORDER BY id ASC`)
	if err != nil {
		return fmt.Errorf("hydrate edges: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var from, to string
		if err := rows.Scan(&from, &to); err != nil {
			return fmt.Errorf("scan edge: %w", err)
		}
		t.SeedEdge(from, to)
	}
	return rows.Err()
}

// #endregion hydrate
