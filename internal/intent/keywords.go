package intent

// #region interrogatives

// interrogativeLeads open a question even without a question mark.
var interrogativeLeads = []string{
	"what", "how", "why", "when", "where", "who", "which",
	"is", "are", "do", "does", "did",
	"can", "could", "would", "will", "should",
}

// booleanLeads open a yes/no question.
var booleanLeads = []string{
	"is", "are", "do", "does", "did",
	"can", "could", "would", "will", "should",
}

// #endregion interrogatives

// #region directive-markers

// directiveLeads mark an imperative or request at sentence start.
var directiveLeads = []string{
	"please", "confirm", "check", "verify", "show", "tell",
	"explain", "help", "send", "give", "make", "find", "list",
	"review", "update", "remember", "note", "describe", "ensure",
	"schedule", "call", "forward", "share", "stop", "start",
}

// actionVerbs are the recognized actions extracted from a directive.
var actionVerbs = []string{
	"confirm", "check", "verify", "show", "tell", "explain",
	"help", "send", "give", "make", "find", "list", "review",
	"update", "remember", "note", "describe", "ensure",
	"schedule", "call", "forward", "share", "notify", "stop", "start",
}

// defaultAction is assigned when no recognized verb appears.
const defaultAction = "process"

// #endregion directive-markers

// #region priority-keywords

var urgentKeywords = []string{"urgent", "critical", "immediate", "immediately", "right now", "now"}

var highKeywords = []string{"important", "priority", "asap"}

var mediumKeywords = []string{"please", "when possible", "when you can"}

// #endregion priority-keywords

// #region conditional-markers

// conditionalMarkers introduce the condition clause of a conditional sentence.
var conditionalMarkers = []string{"if", "when", "unless", "provided", "assuming"}

// defaultConsequence is assigned when no consequence clause follows.
const defaultConsequence = "process accordingly"

// #endregion conditional-markers

// #region statement-keywords

// hedgePhrases are stripped from a statement to expose its assertion.
var hedgePhrases = []string{
	"i think", "i believe", "i guess", "maybe", "perhaps",
}

// Emphasis words map to fixed confidence tiers; first match wins.
var (
	certainWords  = []string{"definitely", "certainly", "absolutely", "always"}
	probableWords = []string{"probably", "likely", "usually"}
	possibleWords = []string{"maybe", "perhaps", "possibly"}
)

const defaultConfidence = 0.7

// #endregion statement-keywords

// #region metadata-keywords

// paddingWords count against the directness metric.
var paddingWords = []string{
	"um", "uh", "well", "like", "just", "maybe", "perhaps",
	"basically", "actually", "literally", "honestly", "really",
}

// booleanConnectives feed the boolean-density metric.
var booleanConnectives = []string{
	"and", "or", "not", "nor", "either", "neither", "both",
}

// #endregion metadata-keywords
