// Package template resolves response templates through a fallback cascade
// and substitutes named placeholders.
package template

// #region imports
import (
	"sync"
)

// #endregion imports

// #region enums

// Branch is the communication-relationship context selecting a template set.
type Branch string

const (
	BranchFamilyFriends Branch = "familyFriends"
	BranchProfessional  Branch = "professional"
)

// Branches enumerates every defined branch.
var Branches = []Branch{BranchFamilyFriends, BranchProfessional}

// Padding controls how much framing text wraps the core content.
type Padding string

const (
	PaddingNone    Padding = "none"
	PaddingMinimal Padding = "minimal"
	PaddingMedium  Padding = "medium"
	PaddingMore    Padding = "more"
)

// Paddings enumerates every defined padding level.
var Paddings = []Padding{PaddingNone, PaddingMinimal, PaddingMedium, PaddingMore}

// ResponseFormat tags the shape of reply a message calls for.
type ResponseFormat string

const (
	FormatStandard                ResponseFormat = "standard"
	FormatDirect                  ResponseFormat = "direct"
	FormatCasual                  ResponseFormat = "casual"
	FormatFormal                  ResponseFormat = "formal"
	FormatTopicChange             ResponseFormat = "topicChange"
	FormatProfessionalTopicChange ResponseFormat = "professionalTopicChange"
)

// Formats enumerates every defined response format.
var Formats = []ResponseFormat{
	FormatStandard, FormatDirect, FormatCasual, FormatFormal,
	FormatTopicChange, FormatProfessionalTopicChange,
}

// #endregion enums

// #region table

// Key addresses one template in the table.
type Key struct {
	Format  ResponseFormat
	Branch  Branch
	Padding Padding
}

// Table holds the template strings, static after load. A single mutex covers
// the merge window; lookups after load are read-only.
type Table struct {
	mu      sync.RWMutex
	entries map[Key]string
}

// New returns a table preloaded with the built-in defaults.
func New() *Table {
	t := &Table{entries: make(map[Key]string, len(defaults))}
	for k, v := range defaults {
		t.entries[k] = v
	}
	return t
}

// #endregion table

// #region defaults

// defaults deliberately leaves gaps (e.g. standard/familyFriends/none) that
// the fallback cascade covers at resolve time.
var defaults = map[Key]string{
	// standard
	{FormatStandard, BranchFamilyFriends, PaddingMinimal}: "Hey — {content}",
	{FormatStandard, BranchFamilyFriends, PaddingMedium}:  "Hi {recipient}, {content}",
	{FormatStandard, BranchFamilyFriends, PaddingMore}:    "Hi {recipient}! Hope all is well. {content} Talk soon!",
	{FormatStandard, BranchProfessional, PaddingNone}:     "{content}",
	{FormatStandard, BranchProfessional, PaddingMedium}:   "Hello {recipient}, {content}",
	{FormatStandard, BranchProfessional, PaddingMore}:     "Dear {recipient}, I hope this finds you well. {content} Best regards.",

	// direct — something in the message expects an answer
	{FormatDirect, BranchFamilyFriends, PaddingNone}:   "{content}",
	{FormatDirect, BranchFamilyFriends, PaddingMedium}: "Quick one for you: {content}",
	{FormatDirect, BranchProfessional, PaddingNone}:    "{content}",
	{FormatDirect, BranchProfessional, PaddingMedium}:  "{recipient}, one question: {content}",

	// casual / formal — steady-topic defaults per branch
	{FormatCasual, BranchFamilyFriends, PaddingNone}:    "{content}",
	{FormatCasual, BranchFamilyFriends, PaddingMinimal}: "Hey, {content}",
	{FormatCasual, BranchFamilyFriends, PaddingMedium}:  "Hey {recipient}! {content}",
	{FormatCasual, BranchFamilyFriends, PaddingMore}:    "Hey {recipient}! How's everything going? {content} Catch up soon!",
	{FormatFormal, BranchProfessional, PaddingNone}:     "{content}",
	{FormatFormal, BranchProfessional, PaddingMinimal}:  "{recipient}: {content}",
	{FormatFormal, BranchProfessional, PaddingMedium}:   "Hello {recipient}, {content} Regards.",
	{FormatFormal, BranchProfessional, PaddingMore}:     "Dear {recipient}, I hope you are doing well. {content} Kind regards.",

	// topic change
	{FormatTopicChange, BranchFamilyFriends, PaddingMedium}:            "By the way, about {subject} — {content}",
	{FormatTopicChange, BranchFamilyFriends, PaddingMore}:              "Oh, before I forget — switching topics to {subject}. {content}",
	{FormatProfessionalTopicChange, BranchProfessional, PaddingMedium}: "On a separate note, regarding {subject}: {content}",
	{FormatProfessionalTopicChange, BranchProfessional, PaddingMore}:   "Moving to a different matter — {subject}. {content} Please advise.",
}

// #endregion defaults

// #region merge

// Merge layers a user-supplied override table on top of the defaults.
// The nested shape is format → branch → padding → template; override
// entries win per key.
func (t *Table) Merge(overrides map[string]map[string]map[string]string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for format, branches := range overrides {
		for branch, paddings := range branches {
			for padding, tmpl := range paddings {
				key := Key{
					Format:  ResponseFormat(format),
					Branch:  Branch(branch),
					Padding: Padding(padding),
				}
				t.entries[key] = tmpl
			}
		}
	}
}

// #endregion merge

// #region lookup

// lookup returns the template for an exact key.
func (t *Table) lookup(k Key) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	tmpl, ok := t.entries[k]
	return tmpl, ok
}

// Len returns the number of loaded templates.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// #endregion lookup
