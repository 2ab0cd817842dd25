// Package intent segments a message into sentences and tags each with one of
// four syntactic intents. Classification is shallow and heuristic: keyword
// tables, first match wins, no linguistic model.
package intent

// #region imports
import (
	"strings"
)

// #endregion imports

// #region classify

// Classify splits text into sentence fragments and assigns each to exactly
// one category, applying rules in precedence order: question, directive,
// conditional, statement. An empty message yields all-empty categories and
// generic metadata; that is normal operation, not an error.
func Classify(text string) Classification {
	var c Classification

	for _, frag := range splitSentences(text) {
		lower := strings.ToLower(frag.text)
		words := strings.Fields(lower)

		switch {
		case isQuestion(frag, words):
			c.Questions = append(c.Questions, classifyQuestion(frag.text, words))
		case isDirective(words):
			c.Directives = append(c.Directives, classifyDirective(frag.text, lower, words))
		case isConditional(words):
			c.Conditionals = append(c.Conditionals, classifyConditional(frag.text, words))
		default:
			c.Statements = append(c.Statements, classifyStatement(frag.text, lower))
		}
	}

	c.Metadata = computeMetadata(text)
	return c
}

// #endregion classify

// #region sentence-split

type fragment struct {
	text       string
	terminator byte // '.', '!', '?', or 0 when the message just ends
}

// splitSentences cuts text on sentence terminators and drops empty fragments.
func splitSentences(text string) []fragment {
	var frags []fragment
	var b strings.Builder

	flush := func(term byte) {
		s := strings.TrimSpace(b.String())
		b.Reset()
		if s != "" {
			frags = append(frags, fragment{text: s, terminator: term})
		}
	}

	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '.', '!', '?':
			flush(text[i])
		default:
			b.WriteByte(text[i])
		}
	}
	flush(0)

	return frags
}

// #endregion sentence-split

// #region question

func isQuestion(frag fragment, words []string) bool {
	if frag.terminator == '?' || strings.Contains(frag.text, "?") {
		return true
	}
	if len(words) == 0 {
		return false
	}
	for _, lead := range interrogativeLeads {
		if words[0] == lead {
			return true
		}
	}
	return false
}

func classifyQuestion(text string, words []string) QuestionSentence {
	q := QuestionSentence{Kind: KindQuestion, Text: text, Class: QuestionGeneral}
	if len(words) == 0 {
		return q
	}

	for _, lead := range booleanLeads {
		if words[0] == lead {
			q.Class = QuestionBoolean
			q.ExpectsBoolean = true
			return q
		}
	}
	switch words[0] {
	case "what", "which":
		q.Class = QuestionFactual
	case "how":
		q.Class = QuestionProcedural
	case "why":
		q.Class = QuestionCausal
	}
	return q
}

// #endregion question

// #region directive

func isDirective(words []string) bool {
	if len(words) == 0 {
		return false
	}
	first := strings.Trim(words[0], ",")
	for _, lead := range directiveLeads {
		if first == lead {
			return true
		}
	}
	return false
}

func classifyDirective(text, lower string, words []string) DirectiveSentence {
	action := defaultAction
	for _, w := range words {
		w = strings.Trim(w, ",.;:")
		for _, verb := range actionVerbs {
			if w == verb {
				action = verb
				break
			}
		}
		if action != defaultAction {
			break
		}
	}

	return DirectiveSentence{
		Kind:     KindDirective,
		Text:     text,
		Action:   action,
		Priority: classifyPriority(lower),
	}
}

func classifyPriority(lower string) Priority {
	for _, kw := range urgentKeywords {
		if containsWord(lower, kw) {
			return PriorityUrgent
		}
	}
	for _, kw := range highKeywords {
		if containsWord(lower, kw) {
			return PriorityHigh
		}
	}
	for _, kw := range mediumKeywords {
		if containsWord(lower, kw) {
			return PriorityMedium
		}
	}
	return PriorityNormal
}

// #endregion directive

// #region conditional

func isConditional(words []string) bool {
	for _, w := range words {
		w = strings.Trim(w, ",.;:")
		for _, marker := range conditionalMarkers {
			if w == marker {
				return true
			}
		}
	}
	return false
}

func classifyConditional(text string, words []string) ConditionalSentence {
	// Locate the marker in the original word stream.
	rawWords := strings.Fields(text)
	markerIdx := -1
	for i, w := range words {
		trimmed := strings.Trim(w, ",.;:")
		for _, marker := range conditionalMarkers {
			if trimmed == marker {
				markerIdx = i
				break
			}
		}
		if markerIdx >= 0 {
			break
		}
	}

	cond := ConditionalSentence{Kind: KindConditional, Text: text, Consequence: defaultConsequence}
	if markerIdx < 0 || markerIdx+1 >= len(rawWords) {
		cond.Condition = strings.TrimSpace(text)
		return cond
	}

	// Condition runs from the marker to a "then" or a comma boundary.
	var condWords []string
	consStart := -1
	for i := markerIdx + 1; i < len(rawWords); i++ {
		w := rawWords[i]
		trimmed := strings.ToLower(strings.Trim(w, ",.;:"))
		if trimmed == "then" {
			consStart = i + 1
			break
		}
		condWords = append(condWords, strings.Trim(w, ",.;:"))
		if strings.HasSuffix(w, ",") {
			consStart = i + 1
			break
		}
	}

	cond.Condition = strings.Join(condWords, " ")
	if consStart >= 0 && consStart < len(rawWords) {
		consWords := rawWords[consStart:]
		// Drop a leading "then" left over from a ", then" boundary.
		if len(consWords) > 0 && strings.EqualFold(strings.Trim(consWords[0], ",.;:"), "then") {
			consWords = consWords[1:]
		}
		if len(consWords) > 0 {
			cons := strings.Join(consWords, " ")
			cond.Consequence = strings.Trim(strings.TrimSpace(cons), ",.;:")
		}
	}
	if cond.Consequence == "" {
		cond.Consequence = defaultConsequence
	}
	return cond
}

// #endregion conditional

// #region statement

func classifyStatement(text, lower string) StatementSentence {
	assertion := text
	for _, hedge := range hedgePhrases {
		assertion = removePhraseFold(assertion, hedge)
	}
	assertion = strings.TrimSpace(strings.Trim(strings.TrimSpace(assertion), ","))

	confidence := defaultConfidence
	switch {
	case containsAnyWord(lower, certainWords):
		confidence = 1.0
	case containsAnyWord(lower, probableWords):
		confidence = 0.8
	case containsAnyWord(lower, possibleWords):
		confidence = 0.5
	}

	return StatementSentence{Kind: KindStatement, Text: text, Assertion: assertion, Confidence: confidence}
}

// removePhraseFold strips every case-insensitive whole-word occurrence of phrase.
func removePhraseFold(s, phrase string) string {
	for {
		lower := strings.ToLower(s)
		found := -1
		idx := 0
		for {
			i := strings.Index(lower[idx:], phrase)
			if i < 0 {
				break
			}
			start := idx + i
			end := start + len(phrase)
			leftOK := start == 0 || !isWordByte(lower[start-1])
			rightOK := end == len(lower) || !isWordByte(lower[end])
			if leftOK && rightOK {
				found = start
				break
			}
			idx = start + 1
		}
		if found < 0 {
			return s
		}
		end := found + len(phrase)
		s = strings.TrimSpace(strings.TrimSpace(s[:found]) + " " + strings.TrimSpace(s[end:]))
	}
}

// #endregion statement

// #region metadata

func computeMetadata(text string) Metadata {
	lower := strings.ToLower(text)
	words := strings.Fields(lower)

	md := Metadata{
		Complexity: minF(1, float64(len(text))/100),
		WordCount:  len(words),
	}
	md.SentenceCount = len(splitSentences(text))

	padding := 0
	boolean := 0
	for _, w := range words {
		w = strings.Trim(w, ",.;:!?\"'")
		for _, p := range paddingWords {
			if w == p {
				padding++
				break
			}
		}
		for _, b := range booleanConnectives {
			if w == b {
				boolean++
				break
			}
		}
	}

	md.Directness = maxF(0, 1-0.1*float64(padding))
	if len(words) > 0 {
		md.BooleanDensity = minF(1, float64(boolean)/float64(len(words)))
	}
	return md
}

// #endregion metadata

// #region helpers

// containsWord matches kw as whole words inside lower (kw may be a phrase).
func containsWord(lower, kw string) bool {
	idx := 0
	for {
		i := strings.Index(lower[idx:], kw)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(kw)
		leftOK := start == 0 || !isWordByte(lower[start-1])
		rightOK := end == len(lower) || !isWordByte(lower[end])
		if leftOK && rightOK {
			return true
		}
		idx = start + 1
	}
}

func containsAnyWord(lower string, kws []string) bool {
	for _, kw := range kws {
		if containsWord(lower, kw) {
			return true
		}
	}
	return false
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9' || b == '\''
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// #endregion helpers
