package subject

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "subjects.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s, err := NewStore(db)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func TestRecordAndTopSubjects(t *testing.T) {
	s := tempStore(t)

	for i := 0; i < 3; i++ {
		if err := s.RecordSubject("weather"); err != nil {
			t.Fatalf("RecordSubject: %v", err)
		}
	}
	if err := s.RecordSubject("dinner"); err != nil {
		t.Fatalf("RecordSubject: %v", err)
	}

	top, err := s.TopSubjects(10)
	if err != nil {
		t.Fatalf("TopSubjects: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("got %d subjects, want 2", len(top))
	}
	if top[0].Term != "weather" || top[0].Count != 3 {
		t.Fatalf("top = %+v, want weather count 3", top[0])
	}
}

func TestRecordEdgeTrimsAdjacency(t *testing.T) {
	s := tempStore(t)
	s.adjacencyCap = 2

	for _, target := range []string{"one", "two", "three"} {
		if err := s.RecordEdge("base", target); err != nil {
			t.Fatalf("RecordEdge: %v", err)
		}
	}

	rel, err := s.RelatedTerms("base")
	if err != nil {
		t.Fatalf("RelatedTerms: %v", err)
	}
	if len(rel) != 2 {
		t.Fatalf("adjacency length = %d, want 2", len(rel))
	}
	if rel[0] != "two" || rel[1] != "three" {
		t.Fatalf("adjacency = %v, want [two three]", rel)
	}
}

func TestHydrate(t *testing.T) {
	s := tempStore(t)
	if err := s.RecordSubject("hiking"); err != nil {
		t.Fatalf("RecordSubject: %v", err)
	}
	if err := s.RecordEdge("hiking", "boots"); err != nil {
		t.Fatalf("RecordEdge: %v", err)
	}

	tr := NewTracker()
	if err := s.Hydrate(tr); err != nil {
		t.Fatalf("Hydrate: %v", err)
	}
	if tr.Frequency("hiking") != 1 {
		t.Fatalf("frequency = %d, want 1", tr.Frequency("hiking"))
	}
	// Continuity works off hydrated edges.
	if got := tr.Detect("Are the boots dry"); got != "hiking" {
		t.Fatalf("continuity after hydrate: got %q, want %q", got, "hiking")
	}
}
