package template

import (
	"strings"
	"testing"
)

func TestResolveExact(t *testing.T) {
	tbl := New()
	res := tbl.Resolve(FormatCasual, BranchFamilyFriends, PaddingMedium)
	if res.Step != 0 {
		t.Fatalf("step = %d, want 0 (exact)", res.Step)
	}
	if !strings.Contains(res.Template, "{content}") {
		t.Fatalf("template %q lacks content placeholder", res.Template)
	}
}

func TestResolvePaddingCascade(t *testing.T) {
	// standard/familyFriends/none has no entry; the cascade tries medium first.
	tbl := New()
	res := tbl.Resolve(FormatStandard, BranchFamilyFriends, PaddingNone)
	if res.Step != 1 {
		t.Fatalf("step = %d, want 1 (padding fallback)", res.Step)
	}
	if res.Key.Padding != PaddingMedium {
		t.Fatalf("fell back to padding %s, want medium", res.Key.Padding)
	}
}

func TestResolveBranchCascade(t *testing.T) {
	tbl := &Table{entries: map[Key]string{
		{FormatDirect, BranchProfessional, PaddingMinimal}: "{recipient}: {content}",
	}}
	res := tbl.Resolve(FormatDirect, BranchFamilyFriends, PaddingMinimal)
	if res.Step != 2 {
		t.Fatalf("step = %d, want 2 (branch fallback)", res.Step)
	}
	if res.Key.Branch != BranchProfessional {
		t.Fatalf("fell back to branch %s, want professional", res.Key.Branch)
	}
}

func TestResolveStandardCascade(t *testing.T) {
	tbl := &Table{entries: map[Key]string{
		{FormatStandard, BranchFamilyFriends, PaddingMinimal}: "Hey — {content}",
	}}
	res := tbl.Resolve(FormatTopicChange, BranchFamilyFriends, PaddingMinimal)
	if res.Step != 3 {
		t.Fatalf("step = %d, want 3 (standard fallback)", res.Step)
	}
}

func TestResolveTerminalLiteral(t *testing.T) {
	tbl := &Table{entries: map[Key]string{}}
	res := tbl.Resolve(FormatFormal, BranchProfessional, PaddingMore)
	if res.Step != 4 {
		t.Fatalf("step = %d, want 4 (terminal)", res.Step)
	}
	out, _ := tbl.FormatTraced(FormatFormal, BranchProfessional, PaddingMore, "just the content", nil)
	if out != "just the content" {
		t.Fatalf("terminal output = %q, want literal content", out)
	}
}

func TestFormatTotalCoverage(t *testing.T) {
	// Every combination returns a non-empty string, guaranteed by the
	// terminal literal fallback.
	tbl := New()
	for _, f := range Formats {
		for _, b := range Branches {
			for _, p := range Paddings {
				out := tbl.Format(f, b, p, "content body", map[string]string{
					"recipient": "Dana", "subject": "travel",
				})
				if out == "" {
					t.Errorf("empty output for (%s, %s, %s)", f, b, p)
				}
			}
		}
	}
}

func TestFormatSubstitution(t *testing.T) {
	tbl := New()
	out := tbl.Format(FormatCasual, BranchFamilyFriends, PaddingMedium,
		"the movie starts at nine", map[string]string{"recipient": "Sam"})
	want := "Hey Sam! the movie starts at nine"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestFormatMissingPlaceholder(t *testing.T) {
	tbl := New()
	out := tbl.Format(FormatCasual, BranchFamilyFriends, PaddingMedium,
		"dinner moved to eight", nil)
	// {recipient} absent from params: substituted as empty, never an error.
	if strings.Contains(out, "{recipient}") {
		t.Fatalf("placeholder left unsubstituted: %q", out)
	}
	if !strings.Contains(out, "dinner moved to eight") {
		t.Fatalf("content missing from %q", out)
	}
}

func TestMergeOverrides(t *testing.T) {
	tbl := New()
	tbl.Merge(map[string]map[string]map[string]string{
		"casual": {
			"familyFriends": {
				"medium": "Yo {recipient} — {content}",
				"none":   "{content}!!",
			},
		},
	})

	out := tbl.Format(FormatCasual, BranchFamilyFriends, PaddingMedium,
		"see you there", map[string]string{"recipient": "Ari"})
	if out != "Yo Ari — see you there" {
		t.Fatalf("override not applied: %q", out)
	}

	// Untouched keys keep their defaults.
	res := tbl.Resolve(FormatFormal, BranchProfessional, PaddingMedium)
	if res.Step != 0 {
		t.Fatalf("default entry lost after merge (step %d)", res.Step)
	}
}
