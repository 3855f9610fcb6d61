package vibe

import "time"

// Dimension identifies one axis of the mood fingerprint
type Dimension string

const (
	DimensionExcitement Dimension = "excitement"
	DimensionStress     Dimension = "stress"
	DimensionCalmness   Dimension = "calmness"
	DimensionChaos      Dimension = "chaos"
	DimensionWarmth     Dimension = "warmth"
	DimensionEnergy     Dimension = "energy"
)

// Dimensions is the fixed, fully populated dimension set. Every Analysis
// carries a score for every dimension listed here.
var Dimensions = []Dimension{
	DimensionExcitement,
	DimensionStress,
	DimensionCalmness,
	DimensionChaos,
	DimensionWarmth,
	DimensionEnergy,
}

// MicroVibe identifies a fine-grained signal layered under the dimension scores
type MicroVibe string

const (
	MicroPassiveAggressive MicroVibe = "passiveAggressive"
	MicroDismissiveness    MicroVibe = "dismissiveness"
	MicroOverCompensation  MicroVibe = "overCompensation"
)

// MicroVibes is the fixed micro-vibe signal set
var MicroVibes = []MicroVibe{
	MicroPassiveAggressive,
	MicroDismissiveness,
	MicroOverCompensation,
}

// HiddenVibes holds the indirectly inferred flags of an analysis
type HiddenVibes struct {
	MaskingAnger          bool `json:"maskingAnger"`
	MaskingStress         bool `json:"maskingStress"`
	PerformativeHappiness bool `json:"performativeHappiness"`
	NotOkayButOkay        bool `json:"notOkayButOkay"`
}

// Analysis is the structured mood fingerprint derived from one message.
// It is constructed once per analyze call and never mutated afterwards;
// downstream dampening produces a fresh copy.
type Analysis struct {
	Scores         map[Dimension]int `json:"scores"`
	HiddenVibes    HiddenVibes       `json:"hiddenVibes"`
	MicroVibes     map[MicroVibe]int `json:"microVibes"`
	ProcessingTime time.Duration     `json:"processingTime"`
}

// Score returns the value for a dimension, defaulting to 0 for an
// analysis that was never populated.
func (a Analysis) Score(d Dimension) int {
	return a.Scores[d]
}

// Micro returns the value for a micro-vibe signal
func (a Analysis) Micro(m MicroVibe) int {
	return a.MicroVibes[m]
}

// Complete reports whether every dimension carries a score. Consumers use
// this to detect analyses that crossed a trust boundary in a damaged form.
func (a Analysis) Complete() bool {
	for _, d := range Dimensions {
		if _, ok := a.Scores[d]; !ok {
			return false
		}
	}
	return true
}

// Clone returns a deep copy safe to adjust without touching the original
func (a Analysis) Clone() Analysis {
	scores := make(map[Dimension]int, len(a.Scores))
	for d, v := range a.Scores {
		scores[d] = v
	}
	micro := make(map[MicroVibe]int, len(a.MicroVibes))
	for m, v := range a.MicroVibes {
		micro[m] = v
	}
	return Analysis{
		Scores:         scores,
		HiddenVibes:    a.HiddenVibes,
		MicroVibes:     micro,
		ProcessingTime: a.ProcessingTime,
	}
}

// ClampScore bounds a raw score into the valid [0,100] range
func ClampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
