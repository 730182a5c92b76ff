package negotiation

import "github.com/jwebster45206/backchannel/pkg/analysis"

// Concession labels. Each is recorded at most once per session.
const (
	LabelPrimaryConcession  = "primary concession"
	LabelMediaConcession    = "media concession"
	LabelFlatteryConcession = "flattery concession"
)

// Canonical weighting table. The historical server variants carried several
// slightly different copies of these numbers; this table is the single
// authoritative one.
const (
	commitmentScore = 40
	commitmentAid   = 30

	complimentScore = 5
	complimentAid   = 5

	resistanceScore = -3
	resistanceAid   = -10

	mediaScore = 25
	mediaAid   = 15

	riskScore = -15

	demandWithoutCommitmentScore = -10

	// More than this many distinct compliments in one utterance counts as
	// a flattery concession.
	flatteryThreshold = 2
)

// Delta is the raw, unclamped outcome of scoring one utterance. Clamping to
// [0,100] happens when the delta is applied to session state, never here.
type Delta struct {
	Score       int      `json:"score"`
	Aid         int      `json:"aid"`
	Concessions []string `json:"concessions,omitempty"`
}

// Score converts extracted signals into a state delta. It is deterministic
// and side-effect free; each signal contributes exactly once, and counted
// signals stack linearly without bound.
func Score(sig analysis.Signals) Delta {
	var d Delta

	if sig.ExplicitCommitment {
		d.Score += commitmentScore
		d.Aid += commitmentAid
		d.Concessions = append(d.Concessions, LabelPrimaryConcession)
	}

	d.Score += sig.ComplimentCount * complimentScore
	d.Aid += sig.ComplimentCount * complimentAid

	d.Score += sig.ResistanceCount * resistanceScore
	d.Aid += sig.ResistanceCount * resistanceAid

	if sig.MediaAlignment {
		d.Score += mediaScore
		d.Aid += mediaAid
	}

	if sig.AidRequestedWithoutCommitment {
		d.Score += demandWithoutCommitmentScore
	}

	d.Score += sig.RiskPhraseCount * riskScore

	if sig.MediaAlignment {
		d.Concessions = append(d.Concessions, LabelMediaConcession)
	}
	if sig.ComplimentCount > flatteryThreshold {
		d.Concessions = append(d.Concessions, LabelFlatteryConcession)
	}

	return d
}
