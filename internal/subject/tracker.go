// Package subject extracts a short topic token from each message and tracks
// topic continuity across a conversation.
package subject

// #region imports
import (
	"strings"
	"sync"
)

// #endregion imports

// #region stoplist

// stoplist contains common function words excluded from subject extraction.
var stoplist = map[string]bool{
	"the": true, "this": true, "that": true, "these": true, "those": true,
	"with": true, "from": true, "into": true, "about": true, "have": true,
	"will": true, "would": true, "could": true, "should": true, "what": true,
	"when": true, "where": true, "which": true, "your": true, "yours": true,
	"them": true, "they": true, "been": true, "were": true, "does": true,
	"please": true, "just": true, "like": true, "know": true, "think": true,
}

// subjectIndicators introduce an explicit topic mention.
var subjectIndicators = map[string]bool{
	"about": true, "regarding": true, "concerning": true, "on": true,
	"for": true, "discuss": true, "discussing": true, "talking": true,
	"explain": true, "describe": true,
}

// strongSubjects are recognized anywhere in a message, in list order.
var strongSubjects = []string{
	"weather", "meeting", "project", "work", "family", "health",
	"money", "food", "travel", "weekend", "schedule", "dinner",
	"movie", "music", "game", "school", "birthday", "vacation",
	"deadline", "report",
}

// #endregion stoplist

// #region tracker

const (
	defaultHistoryCap   = 15
	defaultAdjacencyCap = 10
)

// Tracker maintains the subject cache, term frequencies, a bounded history
// of recent subjects, and a co-occurrence graph. One Tracker may be shared
// across concurrent sessions; a single mutex guards all structures so
// frequency bumps and history trims stay atomic with respect to each other.
type Tracker struct {
	mu           sync.Mutex
	cache        map[string]string   // message text → extracted subject
	frequency    map[string]int      // term → occurrence count
	recent       []string            // bounded FIFO of recent subjects
	related      map[string][]string // previous subject → following subjects
	previous     string
	changed      bool
	historyCap   int
	adjacencyCap int
}

// NewTracker creates an empty Tracker with default caps.
func NewTracker() *Tracker {
	return &Tracker{
		cache:        make(map[string]string),
		frequency:    make(map[string]int),
		related:      make(map[string][]string),
		historyCap:   defaultHistoryCap,
		adjacencyCap: defaultAdjacencyCap,
	}
}

// #endregion tracker

// #region detect

// Detect extracts a subject from message, consulting the memo cache first.
// A non-empty result updates frequency, history, and the co-occurrence graph.
// May return "" when nothing in the message qualifies.
func (t *Tracker) Detect(message string) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	subject, cached := t.cache[message]
	if !cached {
		subject = t.extract(message)
	}
	if subject == "" {
		// No detection is not a topic change; a stale flag here would make
		// the caller announce a switch with nothing to switch to.
		t.changed = false
		return ""
	}

	if !cached {
		t.cache[message] = subject
	}
	t.record(subject)
	return subject
}

// Changed reports whether the latest detected subject differs from the one
// before it. False until two distinct subjects have been seen.
func (t *Tracker) Changed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.changed
}

// Previous returns the most recently detected subject.
func (t *Tracker) Previous() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.previous
}

// Recent returns a copy of the bounded subject history, oldest first.
func (t *Tracker) Recent() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.recent))
	copy(out, t.recent)
	return out
}

// Frequency returns the occurrence count for a term.
func (t *Tracker) Frequency(term string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.frequency[term]
}

// Related returns a copy of the co-occurrence adjacency list for a subject.
func (t *Tracker) Related(subject string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.related[subject]))
	copy(out, t.related[subject])
	return out
}

// #endregion detect

// #region extraction

// extract runs the detection cascade. Caller holds the lock.
func (t *Tracker) extract(message string) string {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return ""
	}
	lower := strings.ToLower(trimmed)

	// 1. Question: scan the pre-? clause backward for a qualifying word.
	if idx := strings.Index(trimmed, "?"); idx >= 0 {
		words := strings.Fields(trimmed[:idx])
		for i := len(words) - 1; i >= 0; i-- {
			if w := normalize(words[i]); qualifies(w) {
				return w
			}
		}
	}

	// 2. Explicit indicator: "about X", "regarding X", ...
	words := strings.Fields(lower)
	for i, w := range words {
		if !subjectIndicators[strings.Trim(w, ",.;:!?")] || i+1 >= len(words) {
			continue
		}
		next := normalize(words[i+1])
		if !qualifies(next) {
			continue
		}
		if i+2 < len(words) {
			second := normalize(words[i+2])
			if second != "" && !stoplist[second] {
				phrase := next + " " + second
				if t.frequency[phrase] > 0 || len(phrase) > 8 {
					return phrase
				}
			}
		}
		return next
	}

	// 3. Strong subject anywhere in the message.
	for _, s := range strongSubjects {
		if strings.Contains(lower, s) {
			return s
		}
	}

	// 4. Context continuity through the co-occurrence graph.
	for i := len(t.recent) - 1; i >= 0; i-- {
		prior := t.recent[i]
		for _, rel := range t.related[prior] {
			if containsToken(words, rel) {
				return prior
			}
		}
	}

	// 5. Score qualifying words by length, position, and prior frequency.
	best := ""
	bestScore := 0.0
	n := len(words)
	for i, raw := range words {
		w := normalize(raw)
		if !qualifies(w) {
			continue
		}
		lengthScore := float64(len(w)) / 10
		if lengthScore > 1 {
			lengthScore = 1
		}
		pos := 0.0
		if n > 1 {
			pos = float64(i) / float64(n-1)
		}
		positionScore := 1 - abs(pos-0.3)/0.7
		if positionScore < 0 {
			positionScore = 0
		}
		freqScore := float64(t.frequency[w]) / 10
		if freqScore > 1 {
			freqScore = 1
		}
		score := 0.4*lengthScore + 0.4*positionScore + 0.2*freqScore
		if score > bestScore {
			bestScore = score
			best = w
		}
	}
	if best != "" {
		return best
	}

	// 6. Final fallback: first word, stripped and lowercased.
	return normalize(words[0])
}

// record updates frequency, history, graph, and the changed flag.
// Caller holds the lock.
func (t *Tracker) record(subject string) {
	t.frequency[subject]++

	t.recent = append(t.recent, subject)
	if len(t.recent) > t.historyCap {
		t.recent = t.recent[len(t.recent)-t.historyCap:]
	}

	if t.previous != "" && t.previous != subject {
		t.addEdge(t.previous, subject)
		t.changed = true
	} else {
		t.changed = false
	}
	t.previous = subject
}

// addEdge links previous → new, capping the adjacency list oldest-first.
// Caller holds the lock.
func (t *Tracker) addEdge(from, to string) {
	list := t.related[from]
	for _, existing := range list {
		if existing == to {
			return
		}
	}
	list = append(list, to)
	if len(list) > t.adjacencyCap {
		list = list[len(list)-t.adjacencyCap:]
	}
	t.related[from] = list
}

// #endregion extraction

// #region seeding

// SeedFrequency preloads a term count, used when hydrating from storage.
func (t *Tracker) SeedFrequency(term string, count int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if count > 0 {
		t.frequency[term] = count
	}
}

// SeedEdge preloads a co-occurrence edge and makes the source visible to the
// continuity scan, used when hydrating from storage.
func (t *Tracker) SeedEdge(from, to string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.addEdge(from, to)
	for _, r := range t.recent {
		if r == from {
			return
		}
	}
	t.recent = append(t.recent, from)
	if len(t.recent) > t.historyCap {
		t.recent = t.recent[len(t.recent)-t.historyCap:]
	}
}

// #endregion seeding

// #region helpers

func normalize(word string) string {
	return strings.ToLower(strings.Trim(word, ".,!?;:\"'()"))
}

func qualifies(word string) bool {
	return len(word) > 3 && !stoplist[word]
}

func containsToken(words []string, token string) bool {
	for _, w := range words {
		if normalize(w) == token {
			return true
		}
	}
	return false
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// #endregion helpers
