package vibe

import (
	"math"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"vibewire/domain/config"
)

// Context is the short conversational window handed to the detector,
// oldest message first. It only feeds trend deltas and is not retained.
type Context struct {
	PreviousMessages []string `json:"previousMessages,omitempty"`
}

// Detector turns free-form text into a mood fingerprint. Scoring is purely
// lexical (keyword classes, punctuation density, sentence-length variance),
// so identical input always yields identical scores.
type Detector struct {
	cfg *config.DomainConfig
}

// NewDetector creates a detector with the given domain configuration
func NewDetector(cfg *config.DomainConfig) *Detector {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &Detector{cfg: cfg}
}

// Analyze computes a fully populated Analysis for text. The caller is
// expected to reject empty text before invocation; oversized text is
// clipped to the configured maximum rather than rejected here.
func (d *Detector) Analyze(text string, vctx *Context) Analysis {
	start := time.Now()

	// Clip by rune count so the limit matches the length validators and
	// multibyte text is never cut mid-character.
	if utf8.RuneCountInString(text) > d.cfg.MaxTextLength {
		text = string([]rune(text)[:d.cfg.MaxTextLength])
	}

	f := extractFeatures(text)
	trend := d.contextNegativity(vctx)

	okayMaskBonus := 0
	if f.okayHits > 0 && (trend > 0 || f.negativeHits > 0) {
		okayMaskBonus = 20
	}

	scores := map[Dimension]int{
		DimensionExcitement: ClampScore(f.positiveHits*8 + f.excitementHits*15 + f.exclamations*10 + int(f.capsRatio*30)),
		DimensionStress:     ClampScore(f.stressHits*20 + f.negativeHits*8 + f.ellipses*10 + trend/2 + okayMaskBonus),
		DimensionCalmness:   ClampScore(55 + f.calmHits*10 - f.stressHits*10 - f.angerHits*8 - f.exclamations*6 - f.chaosHits*5),
		DimensionChaos:      ClampScore(f.chaosHits*15 + f.sentenceVariance + (f.exclamations+f.questions)*4),
		DimensionWarmth:     ClampScore(20 + f.positiveHits*10 - f.negativeHits*10 - f.dismissHits*15),
		DimensionEnergy:     ClampScore(f.exclamations*12 + (f.positiveHits+f.negativeHits+f.angerHits)*5 + int(f.capsRatio*40)),
	}

	micro := map[MicroVibe]int{
		MicroPassiveAggressive: ClampScore(f.paHits*35 + f.dismissHits*15 + okayMaskBonus),
		MicroDismissiveness:    ClampScore(f.dismissHits*35 + f.paHits*10),
		MicroOverCompensation:  d.overCompensation(f),
	}

	stress := scores[DimensionStress]
	hidden := HiddenVibes{
		NotOkayButOkay:        f.okayHits > 0 && (stress >= 40 || trend >= 50),
		PerformativeHappiness: (scores[DimensionExcitement] >= 50 && micro[MicroOverCompensation] >= 40) || (f.okayHits > 0 && trend >= 40 && f.exclamations >= 1),
		MaskingStress:         stress >= 50 && (scores[DimensionCalmness] >= 40 || f.okayHits > 0),
		MaskingAnger:          micro[MicroPassiveAggressive] >= 60 || (f.angerHits > 0 && f.okayHits > 0),
	}

	return Analysis{
		Scores:         scores,
		HiddenVibes:    hidden,
		MicroVibes:     micro,
		ProcessingTime: time.Since(start),
	}
}

// overCompensation scores the intensifier pile-up around positive
// self-report ("totally fine!!", "absolutely no worries").
func (d *Detector) overCompensation(f features) int {
	score := f.intensifierHits * 20
	if f.okayHits > 0 {
		score += f.intensifierHits*10 + f.exclamations*8
	}
	return ClampScore(score)
}

// contextNegativity scores how negative the recent conversational window
// has been, 0..100. A positive current message on top of a high value here
// is the masking signal.
func (d *Detector) contextNegativity(vctx *Context) int {
	if vctx == nil || len(vctx.PreviousMessages) == 0 {
		return 0
	}
	msgs := vctx.PreviousMessages
	if len(msgs) > d.cfg.MaxContextMessages {
		msgs = msgs[len(msgs)-d.cfg.MaxContextMessages:]
	}

	total := 0
	for _, m := range msgs {
		f := extractFeatures(m)
		total += ClampScore((f.negativeHits + f.stressHits*2 + f.angerHits*2) * 25)
	}
	return total / len(msgs)
}

// features is everything the scorer reads off one message
type features struct {
	wordCount        int
	positiveHits     int
	negativeHits     int
	stressHits       int
	angerHits        int
	calmHits         int
	excitementHits   int
	chaosHits        int
	intensifierHits  int
	okayHits         int
	paHits           int
	dismissHits      int
	exclamations     int
	questions        int
	ellipses         int
	capsRatio        float64
	sentenceVariance int
}

func extractFeatures(text string) features {
	var f features
	lower := strings.ToLower(text)

	words := tokenize(lower)
	f.wordCount = len(words)
	for _, w := range words {
		if positiveWords[w] {
			f.positiveHits++
		}
		if negativeWords[w] {
			f.negativeHits++
		}
		if stressWords[w] {
			f.stressHits++
		}
		if angerWords[w] {
			f.angerHits++
		}
		if calmWords[w] {
			f.calmHits++
		}
		if excitementWords[w] {
			f.excitementHits++
		}
		if chaosWords[w] {
			f.chaosHits++
		}
		if intensifierWords[w] {
			f.intensifierHits++
		}
	}

	for _, p := range okayPhrases {
		f.okayHits += strings.Count(lower, p)
	}
	for _, p := range passiveAggressivePhrases {
		f.paHits += strings.Count(lower, p)
	}
	for _, p := range dismissivePhrases {
		f.dismissHits += strings.Count(lower, p)
	}

	f.ellipses = strings.Count(text, "...")
	f.exclamations = strings.Count(text, "!")
	f.questions = strings.Count(text, "?")
	f.capsRatio = capsRatio(text)
	f.sentenceVariance = sentenceVariance(text)

	return f
}

// tokenize splits text into lowercase words, keeping letters and digits only
func tokenize(text string) []string {
	var words []string
	var current strings.Builder
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' {
			current.WriteRune(r)
		} else if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		words = append(words, current.String())
	}
	return words
}

// capsRatio is the share of words written fully in capitals (SHOUTING)
func capsRatio(text string) float64 {
	total := 0
	caps := 0
	for _, w := range strings.Fields(text) {
		letters := 0
		upper := 0
		for _, r := range w {
			if unicode.IsLetter(r) {
				letters++
				if unicode.IsUpper(r) {
					upper++
				}
			}
		}
		if letters < 3 {
			continue
		}
		total++
		if upper == letters {
			caps++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(caps) / float64(total)
}

// sentenceVariance maps the spread of sentence lengths onto 0..100.
// Wildly uneven sentences read as chaotic.
func sentenceVariance(text string) int {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	var lengths []float64
	for _, p := range parts {
		if n := len(strings.Fields(p)); n > 0 {
			lengths = append(lengths, float64(n))
		}
	}
	if len(lengths) < 2 {
		return 0
	}

	mean := 0.0
	for _, l := range lengths {
		mean += l
	}
	mean /= float64(len(lengths))

	variance := 0.0
	for _, l := range lengths {
		variance += (l - mean) * (l - mean)
	}
	variance /= float64(len(lengths))

	ratio := math.Sqrt(variance) / mean
	return ClampScore(int(ratio * 50))
}
