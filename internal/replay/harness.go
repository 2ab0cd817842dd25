package replay

// #region imports
import (
	"github.com/quietwire/reframe/go-pipeline/internal/pipeline"
)

// #endregion imports

// #region types

// TurnResult captures the outcome of replaying one message.
type TurnResult struct {
	TurnID         string
	Response       string
	ResponseFormat string
	Subject        string
	SubjectChanged bool
	IntegrityOK    bool
}

// Mismatch is one expectation that did not hold.
type Mismatch struct {
	TurnID string
	Field  string
	Want   string
	Got    string
}

// Summary provides aggregate stats from a replay run.
type Summary struct {
	TotalTurns      int
	SubjectChanges  int
	IntegrityBreaks int
	Mismatches      []Mismatch
}

// Passed reports whether the run matched the fixture everywhere.
func (s Summary) Passed() bool {
	return len(s.Mismatches) == 0 && s.IntegrityBreaks == 0
}

// #endregion types

// #region replay

// Replay runs every fixture message through a fresh in-memory pipeline
// session. The fixture seed makes the alignment trajectory reproducible.
func Replay(f *Fixture) []TurnResult {
	sess := pipeline.New(nil, nil, nil).NewSession(f.SessionConfig())

	results := make([]TurnResult, 0, len(f.Messages))
	for _, msg := range f.Messages {
		res := sess.Process(msg.Text)
		results = append(results, TurnResult{
			TurnID:         msg.TurnID,
			Response:       res.Response,
			ResponseFormat: string(res.Report.ResponseFormat),
			Subject:        res.Report.Subject,
			SubjectChanged: res.Report.SubjectChanged,
			IntegrityOK:    res.Report.Integrity.Intact,
		})
	}
	return results
}

// Verify compares results against the fixture's expectations. Expected
// entries are matched by index; empty expectation fields are skipped.
func Verify(f *Fixture, results []TurnResult) Summary {
	s := Summary{TotalTurns: len(results)}

	for _, r := range results {
		if r.SubjectChanged {
			s.SubjectChanges++
		}
		if !r.IntegrityOK {
			s.IntegrityBreaks++
		}
	}

	for i, want := range f.ExpectedResults {
		if i >= len(results) {
			s.Mismatches = append(s.Mismatches, Mismatch{
				TurnID: want.TurnID, Field: "turn", Want: want.TurnID, Got: "missing",
			})
			continue
		}
		got := results[i]
		if got.TurnID != want.TurnID {
			s.Mismatches = append(s.Mismatches, Mismatch{
				TurnID: want.TurnID, Field: "turn_id", Want: want.TurnID, Got: got.TurnID,
			})
		}
		if want.ResponseFormat != "" && got.ResponseFormat != want.ResponseFormat {
			s.Mismatches = append(s.Mismatches, Mismatch{
				TurnID: want.TurnID, Field: "response_format", Want: want.ResponseFormat, Got: got.ResponseFormat,
			})
		}
		if want.Subject != "" && got.Subject != want.Subject {
			s.Mismatches = append(s.Mismatches, Mismatch{
				TurnID: want.TurnID, Field: "subject", Want: want.Subject, Got: got.Subject,
			})
		}
		if want.Response != "" && got.Response != want.Response {
			s.Mismatches = append(s.Mismatches, Mismatch{
				TurnID: want.TurnID, Field: "response", Want: want.Response, Got: got.Response,
			})
		}
	}
	return s
}

// #endregion replay
