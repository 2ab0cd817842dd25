package intent

// #region sentence-kind

// SentenceKind is the closed set of syntactic intents a sentence can carry.
type SentenceKind string

const (
	KindQuestion    SentenceKind = "question"
	KindDirective   SentenceKind = "directive"
	KindConditional SentenceKind = "conditional"
	KindStatement   SentenceKind = "statement"
)

// #endregion sentence-kind

// #region question-class

// QuestionClass sub-classifies a question by the answer shape it expects.
type QuestionClass string

const (
	QuestionBoolean    QuestionClass = "boolean"
	QuestionFactual    QuestionClass = "factual"
	QuestionProcedural QuestionClass = "procedural"
	QuestionCausal     QuestionClass = "causal"
	QuestionGeneral    QuestionClass = "general"
)

// #endregion question-class

// #region priority

// Priority ranks how urgently a directive asks to be handled.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityNormal Priority = "normal"
)

// #endregion priority

// #region sentences

// QuestionSentence is a sentence classified as a question.
type QuestionSentence struct {
	Kind           SentenceKind // always KindQuestion
	Text           string
	Class          QuestionClass
	ExpectsBoolean bool
}

// DirectiveSentence is a sentence classified as an imperative or request.
type DirectiveSentence struct {
	Kind     SentenceKind // always KindDirective
	Text     string
	Action   string
	Priority Priority
}

// ConditionalSentence is a sentence classified as an if/when clause pair.
type ConditionalSentence struct {
	Kind        SentenceKind // always KindConditional
	Text        string
	Condition   string
	Consequence string
}

// StatementSentence is the fallback classification with a confidence score.
type StatementSentence struct {
	Kind       SentenceKind // always KindStatement
	Text       string
	Assertion  string
	Confidence float64 // in [0, 1]
}

// #endregion sentences

// #region metadata

// Metadata carries message-level measurements alongside the classification.
type Metadata struct {
	Complexity     float64 // min(1, length/100)
	Directness     float64 // max(0, 1 - 0.1*paddingWords)
	BooleanDensity float64 // min(1, booleanConnectives/words)
	SentenceCount  int
	WordCount      int
}

// #endregion metadata

// #region classification

// Classification is the full classifier output for one message. Every
// non-empty sentence fragment lands in exactly one category.
type Classification struct {
	Questions    []QuestionSentence
	Directives   []DirectiveSentence
	Conditionals []ConditionalSentence
	Statements   []StatementSentence
	Metadata     Metadata
}

// SentenceCount returns the total fragments across all categories.
func (c Classification) SentenceCount() int {
	return len(c.Questions) + len(c.Directives) + len(c.Conditionals) + len(c.Statements)
}

// HasQuestion reports whether any fragment classified as a question.
func (c Classification) HasQuestion() bool {
	return len(c.Questions) > 0
}

// #endregion classification
