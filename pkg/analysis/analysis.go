package analysis

import "strings"

// Signals is the structured read of a single player utterance. It is a pure
// function of the lowercased text: same input, same output, no hidden state.
type Signals struct {
	ExplicitCommitment            bool `json:"explicit_commitment"`
	ComplimentCount               int  `json:"compliment_count"`
	ResistanceCount               int  `json:"resistance_count"`
	RiskPhraseCount               int  `json:"risk_phrase_count"`
	MediaAlignment                bool `json:"media_alignment"`
	AidRequestedWithoutCommitment bool `json:"aid_requested_without_commitment"`
}

// The authoritative pattern table. Matching is case-insensitive substring
// containment; each pattern counts at most once per utterance regardless of
// how many times it occurs.

// commitmentPhrases match a concession to the investigation directly.
var commitmentPhrases = []string{
	"investigate biden",
	"look into biden",
	"biden investigation",
	"investigate corruption",
}

// A commitment also counts when an investigative action word and a named
// entity both appear anywhere in the utterance. The two halves do not need
// to be adjacent; this catches paraphrases like "we will open a probe into
// the Burisma affair".
var commitmentActions = []string{
	"investigate",
	"look into",
	"probe",
}

var commitmentEntities = []string{
	"burisma",
	"hunter",
}

var complimentPhrases = []string{
	"great", "amazing", "wonderful", "strong leader",
	"best president", "smart", "genius", "thank you",
	"appreciate", "admire", "respect", "tremendous",
	"honored", "grateful", "exceptional", "outstanding",
}

var resistancePhrases = []string{
	"cannot", "won't", "will not", "impossible",
	"against policy", "illegal", "inappropriate", "no",
	"refuse", "reject", "unfair", "unreasonable",
	"not possible", "unacceptable", "disagree",
}

var riskPhrases = []string{
	"this call is being recorded",
	"will be public",
	"whistleblower",
	"illegal request",
	"impeachment",
	"quid pro quo",
	"investigation into this",
	"transcript",
	"ethics violation",
	"constitution",
}

var mediaPhrases = []string{
	"fox news",
	"interview",
	"press conference",
	"statement to media",
	"public announcement",
	"television",
	"press release",
}

var aidRequestPhrases = []string{
	"release aid",
	"release the aid",
	"send aid",
	"provide aid",
}

// Analyze extracts negotiation signals from one utterance. It never fails:
// empty or unrecognized text yields the zero Signals.
func Analyze(text string) Signals {
	lower := strings.ToLower(text)

	var sig Signals
	sig.ExplicitCommitment = containsAny(lower, commitmentPhrases) ||
		(containsAny(lower, commitmentActions) && containsAny(lower, commitmentEntities))
	sig.ComplimentCount = countMatches(lower, complimentPhrases)
	sig.ResistanceCount = countMatches(lower, resistancePhrases)
	sig.RiskPhraseCount = countMatches(lower, riskPhrases)
	sig.MediaAlignment = containsAny(lower, mediaPhrases)
	sig.AidRequestedWithoutCommitment = containsAny(lower, aidRequestPhrases) && !sig.ExplicitCommitment
	return sig
}

func containsAny(lower string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func countMatches(lower string, patterns []string) int {
	count := 0
	for _, p := range patterns {
		if strings.Contains(lower, p) {
			count++
		}
	}
	return count
}
