// Package replay re-runs recorded conversations through the pipeline and
// verifies each turn against expected outcomes. Fixtures pin the RNG seed, so
// replays are deterministic.
package replay

// #region imports
import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/quietwire/reframe/go-pipeline/internal/pipeline"
	"github.com/quietwire/reframe/go-pipeline/internal/template"
)

// #endregion imports

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description     string                  `json:"description"`
	Branch          string                  `json:"branch"`
	Padding         string                  `json:"padding"`
	Recipient       string                  `json:"recipient"`
	Seed            int64                   `json:"seed"`
	Alignment       FixtureAlignment        `json:"alignment"`
	Messages        []FixtureMessage        `json:"messages"`
	ExpectedResults []FixtureExpectedResult `json:"expected_results"`
}

// FixtureAlignment is the JSON-serializable starting alignment state.
type FixtureAlignment struct {
	Primary float64 `json:"primary"`
	Offset  float64 `json:"offset"`
}

// FixtureMessage is one recorded inbound message.
type FixtureMessage struct {
	TurnID string `json:"turn_id"`
	Text   string `json:"text"`
}

// FixtureExpectedResult captures the expected outcome per turn. Empty fields
// are not checked.
type FixtureExpectedResult struct {
	TurnID         string `json:"turn_id"`
	ResponseFormat string `json:"response_format"`
	Subject        string `json:"subject"`
	Response       string `json:"response,omitempty"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	if f.Seed == 0 {
		return nil, fmt.Errorf("fixture %s: seed must be non-zero for deterministic replay", path)
	}
	return &f, nil
}

// SessionConfig converts the fixture header to a pipeline session config.
func (f *Fixture) SessionConfig() pipeline.SessionConfig {
	return pipeline.SessionConfig{
		Branch:    template.Branch(f.Branch),
		Padding:   template.Padding(f.Padding),
		Recipient: f.Recipient,
		Primary:   f.Alignment.Primary,
		Offset:    f.Alignment.Offset,
		Seed:      f.Seed,
	}
}

// #endregion fixture-loader
