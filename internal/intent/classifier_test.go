package intent

import (
	"math"
	"strings"
	"testing"
)

func TestClassifyQuestions(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantClass   QuestionClass
		wantBoolean bool
	}{
		{"factual-what", "What is the weather like today?", QuestionFactual, false},
		{"factual-which", "Which option did you pick?", QuestionFactual, false},
		{"procedural", "How do I reset the router?", QuestionProcedural, false},
		{"causal", "Why was the meeting moved?", QuestionCausal, false},
		{"boolean-can", "Can you make it on Friday?", QuestionBoolean, true},
		{"boolean-did", "Did the package arrive?", QuestionBoolean, true},
		{"no-mark-interrogative", "where did everyone go", QuestionGeneral, false},
		{"general", "You finished already?", QuestionGeneral, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.text)
			if len(c.Questions) != 1 {
				t.Fatalf("got %d questions, want 1 (%+v)", len(c.Questions), c)
			}
			q := c.Questions[0]
			if q.Class != tt.wantClass {
				t.Errorf("class: got %s, want %s", q.Class, tt.wantClass)
			}
			if q.ExpectsBoolean != tt.wantBoolean {
				t.Errorf("expectsBoolean: got %v, want %v", q.ExpectsBoolean, tt.wantBoolean)
			}
		})
	}
}

func TestClassifyDirectives(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantAction   string
		wantPriority Priority
	}{
		{"urgent", "Check the server logs immediately.", "check", PriorityUrgent},
		{"high", "Verify the numbers, this is important.", "verify", PriorityHigh},
		{"medium", "Please send the invoice.", "send", PriorityMedium},
		{"normal", "Tell Sam about the change.", "tell", PriorityNormal},
		{"default-action", "Please get back to me.", "process", PriorityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.text)
			if len(c.Directives) != 1 {
				t.Fatalf("got %d directives, want 1 (%+v)", len(c.Directives), c)
			}
			d := c.Directives[0]
			if d.Action != tt.wantAction {
				t.Errorf("action: got %s, want %s", d.Action, tt.wantAction)
			}
			if d.Priority != tt.wantPriority {
				t.Errorf("priority: got %s, want %s", d.Priority, tt.wantPriority)
			}
		})
	}
}

func TestClassifyConditionals(t *testing.T) {
	tests := []struct {
		name            string
		text            string
		wantCondition   string
		wantConsequence string
	}{
		{
			"then-boundary",
			"If the meeting is cancelled, then notify everyone.",
			"the meeting is cancelled",
			"notify everyone",
		},
		{
			"comma-boundary",
			"Unless it rains, the picnic is on.",
			"it rains",
			"the picnic is on",
		},
		{
			"no-boundary",
			"Assuming the budget holds",
			"the budget holds",
			"process accordingly",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.text)
			if len(c.Conditionals) != 1 {
				t.Fatalf("got %d conditionals, want 1 (%+v)", len(c.Conditionals), c)
			}
			cond := c.Conditionals[0]
			if cond.Condition != tt.wantCondition {
				t.Errorf("condition: got %q, want %q", cond.Condition, tt.wantCondition)
			}
			if cond.Consequence != tt.wantConsequence {
				t.Errorf("consequence: got %q, want %q", cond.Consequence, tt.wantConsequence)
			}
		})
	}
}

func TestClassifyStatements(t *testing.T) {
	tests := []struct {
		name           string
		text           string
		wantAssertion  string
		wantConfidence float64
	}{
		{"certain", "The build is definitely broken.", "The build is definitely broken", 1.0},
		{"probable", "The train is probably late.", "The train is probably late", 0.8},
		{"possible", "The store is possibly closed.", "The store is possibly closed", 0.5},
		{"default", "The car needs new tires.", "The car needs new tires", 0.7},
		{"hedge-stripped", "I think the deadline moved.", "the deadline moved", 0.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.text)
			if len(c.Statements) != 1 {
				t.Fatalf("got %d statements, want 1 (%+v)", len(c.Statements), c)
			}
			s := c.Statements[0]
			if s.Assertion != tt.wantAssertion {
				t.Errorf("assertion: got %q, want %q", s.Assertion, tt.wantAssertion)
			}
			if math.Abs(s.Confidence-tt.wantConfidence) > 1e-9 {
				t.Errorf("confidence: got %g, want %g", s.Confidence, tt.wantConfidence)
			}
		})
	}
}

func TestClassifyCompleteness(t *testing.T) {
	// Every non-empty fragment lands in exactly one category.
	text := "The report is done. Can you review it? If you spot errors, flag them! Please forward it to Dana."
	c := Classify(text)

	fragments := 0
	for _, part := range strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	}) {
		if strings.TrimSpace(part) != "" {
			fragments++
		}
	}

	if got := c.SentenceCount(); got != fragments {
		t.Fatalf("category sizes sum to %d, want %d fragments", got, fragments)
	}
}

func TestClassifyTagsSentenceKind(t *testing.T) {
	// Each category's fragments carry the matching kind tag.
	c := Classify("The report is done. Can you review it? If you spot errors, flag them! Please forward it to Dana.")

	for _, q := range c.Questions {
		if q.Kind != KindQuestion {
			t.Errorf("question %q tagged %q", q.Text, q.Kind)
		}
	}
	for _, d := range c.Directives {
		if d.Kind != KindDirective {
			t.Errorf("directive %q tagged %q", d.Text, d.Kind)
		}
	}
	for _, cond := range c.Conditionals {
		if cond.Kind != KindConditional {
			t.Errorf("conditional %q tagged %q", cond.Text, cond.Kind)
		}
	}
	for _, s := range c.Statements {
		if s.Kind != KindStatement {
			t.Errorf("statement %q tagged %q", s.Text, s.Kind)
		}
	}
	if c.SentenceCount() == 0 {
		t.Fatal("no fragments classified")
	}
}

func TestClassifyEmptyInput(t *testing.T) {
	for _, text := range []string{"", "   ", "...", "?!"} {
		c := Classify(text)
		if c.SentenceCount() != 0 {
			t.Errorf("Classify(%q) produced %d sentences, want 0", text, c.SentenceCount())
		}
	}
}

func TestComputeMetadata(t *testing.T) {
	c := Classify("Well, maybe we should just go and not wait.")
	md := c.Metadata

	if md.Complexity <= 0 || md.Complexity > 1 {
		t.Errorf("complexity out of range: %g", md.Complexity)
	}
	// Padding words: well, maybe, just → directness 0.7.
	if math.Abs(md.Directness-0.7) > 1e-9 {
		t.Errorf("directness: got %g, want 0.7", md.Directness)
	}
	// Boolean connectives: and, not → 2 of 9 words.
	if math.Abs(md.BooleanDensity-2.0/9.0) > 1e-9 {
		t.Errorf("booleanDensity: got %g, want %g", md.BooleanDensity, 2.0/9.0)
	}

	long := Classify(strings.Repeat("words and more words ", 20))
	if long.Metadata.Complexity != 1 {
		t.Errorf("complexity not capped at 1: %g", long.Metadata.Complexity)
	}
}
