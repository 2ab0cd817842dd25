package template

// #region imports
import (
	"fmt"
	"regexp"
	"strings"
)

// #endregion imports

// #region resolve

// paddingFallbacks is the fixed order tried when the requested padding level
// has no entry.
var paddingFallbacks = []Padding{PaddingMedium, PaddingNone, PaddingMore}

// Resolution records which template answered a request, for diagnostics.
type Resolution struct {
	Key      Key
	Template string
	Step     int    // 0 = exact hit, 4 = terminal literal fallback
	Trace    string // human-readable resolution note
}

// Resolve finds a template for (format, branch, padding), walking the
// fallback cascade on a miss. The terminal fallback always succeeds, so a
// template miss is never an error.
func (t *Table) Resolve(format ResponseFormat, branch Branch, padding Padding) Resolution {
	want := Key{format, branch, padding}
	if tmpl, ok := t.lookup(want); ok {
		return Resolution{Key: want, Template: tmpl, Step: 0, Trace: "exact"}
	}

	// 1. Same format and branch, alternate padding levels in fixed order.
	for _, p := range paddingFallbacks {
		if p == padding {
			continue
		}
		k := Key{format, branch, p}
		if tmpl, ok := t.lookup(k); ok {
			return Resolution{Key: k, Template: tmpl, Step: 1,
				Trace: fmt.Sprintf("padding %s → %s", padding, p)}
		}
	}

	// 2. Same format and padding, the other branch.
	other := BranchProfessional
	if branch == BranchProfessional {
		other = BranchFamilyFriends
	}
	k := Key{format, other, padding}
	if tmpl, ok := t.lookup(k); ok {
		return Resolution{Key: k, Template: tmpl, Step: 2,
			Trace: fmt.Sprintf("branch %s → %s", branch, other)}
	}

	// 3. Standard format, original branch and padding.
	if format != FormatStandard {
		k = Key{FormatStandard, branch, padding}
		if tmpl, ok := t.lookup(k); ok {
			return Resolution{Key: k, Template: tmpl, Step: 3,
				Trace: fmt.Sprintf("format %s → standard", format)}
		}
	}

	// 4. Terminal: the literal content, unformatted.
	return Resolution{Key: want, Template: "{content}", Step: 4, Trace: "literal content"}
}

// #endregion resolve

// #region format

var placeholder = regexp.MustCompile(`\{([a-zA-Z]+)\}`)

// Format resolves a template and substitutes named placeholders from params.
// params["content"] is always set from content. Missing placeholders become
// empty strings, never an error.
func (t *Table) Format(format ResponseFormat, branch Branch, padding Padding, content string, params map[string]string) string {
	out, _ := t.FormatTraced(format, branch, padding, content, params)
	return out
}

// FormatTraced is Format plus the resolution record for diagnostics.
func (t *Table) FormatTraced(format ResponseFormat, branch Branch, padding Padding, content string, params map[string]string) (string, Resolution) {
	res := t.Resolve(format, branch, padding)

	merged := make(map[string]string, len(params)+1)
	for k, v := range params {
		merged[k] = v
	}
	merged["content"] = content

	out := placeholder.ReplaceAllStringFunc(res.Template, func(m string) string {
		name := m[1 : len(m)-1]
		return merged[name]
	})
	return strings.TrimSpace(out), res
}

// #endregion format
