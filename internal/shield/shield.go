// Package shield strips conversational padding from messages before
// classification. The heat shield is idempotent: filtering already-filtered
// text is a no-op.
package shield

// #region imports
import (
	"regexp"
	"strings"
	"sync"
)

// #endregion imports

// #region patterns

// DefaultPatterns is the ordered catalogue of padding phrases removed from
// input. Multi-word phrases come first so they match before their parts.
var DefaultPatterns = []string{
	"you know what i mean",
	"if that makes sense",
	"to be honest",
	"i was wondering",
	"i was thinking",
	"you know",
	"i mean",
	"i think",
	"i guess",
	"i believe",
	"sort of",
	"kind of",
	"um", "umm", "uh", "uhh", "er", "ah", "hmm",
	"well",
	"maybe",
	"perhaps",
	"basically",
	"actually",
	"literally",
	"honestly",
	"anyway",
}

// #endregion patterns

// #region shield-struct

// Shield removes padding phrases and tracks how often it had to.
type Shield struct {
	mu         sync.Mutex
	pattern    *regexp.Regexp
	violations int
	lastDelta  int
}

// Report is the heat-shield diagnostic exposed to collaborators.
type Report struct {
	Violations int // calls where output differed from input
	LastDelta  int // characters removed on the most recent filtering call
}

// New creates a Shield. patterns may be nil, which selects DefaultPatterns.
func New(patterns []string) *Shield {
	if patterns == nil {
		patterns = DefaultPatterns
	}
	escaped := make([]string, len(patterns))
	for i, p := range patterns {
		escaped[i] = regexp.QuoteMeta(strings.ToLower(p))
	}
	// A phrase may carry one comma on either side; the whitespace pass cleans up.
	expr := `(?i)(,\s*)?\b(` + strings.Join(escaped, `|`) + `)\b,?`
	return &Shield{pattern: regexp.MustCompile(expr)}
}

// #endregion shield-struct

// #region filter

var (
	spaceRun       = regexp.MustCompile(`\s+`)
	spaceBeforeEnd = regexp.MustCompile(`\s+([?.!,;:])`)
	commaBeforeEnd = regexp.MustCompile(`[,;:]+([?.!])`)
	leadingPunct   = regexp.MustCompile(`^[,;:\s]+`)
)

// Filter removes the padding catalogue from text, collapses whitespace, and
// trims. Removal is reapplied until a fixed point so that phrases exposed by
// an earlier removal ("you maybe know" → "you know") are caught in one call.
func (s *Shield) Filter(text string) string {
	if text == "" {
		return ""
	}

	// Every pass that changes the string strictly shortens it, so the loop
	// always reaches a fixed point.
	cur := text
	for {
		next := s.pattern.ReplaceAllString(cur, " ")
		next = spaceRun.ReplaceAllString(next, " ")
		next = strings.TrimSpace(next)
		if next == cur {
			break
		}
		cur = next
	}

	cur = spaceBeforeEnd.ReplaceAllString(cur, "$1")
	cur = commaBeforeEnd.ReplaceAllString(cur, "$1")
	cur = leadingPunct.ReplaceAllString(cur, "")
	cur = strings.TrimSpace(cur)

	s.mu.Lock()
	if cur != text {
		s.violations++
		s.lastDelta = len(text) - len(cur)
	} else {
		s.lastDelta = 0
	}
	s.mu.Unlock()

	return cur
}

// #endregion filter

// #region report

// Report returns the current heat-shield diagnostic counters.
func (s *Shield) Report() Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Report{Violations: s.violations, LastDelta: s.lastDelta}
}

// #endregion report
