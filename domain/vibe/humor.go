package vibe

// SarcasmLevel is an ordered scale; Nuclear is the highest
type SarcasmLevel string

const (
	SarcasmNone    SarcasmLevel = "none"
	SarcasmLight   SarcasmLevel = "light"
	SarcasmHeavy   SarcasmLevel = "heavy"
	SarcasmNuclear SarcasmLevel = "nuclear"
)

// SarcasmResult pairs a level with how decisively the composite landed there
type SarcasmResult struct {
	Level      SarcasmLevel `json:"level"`
	Confidence float64      `json:"confidence"`
}

// NotOkayResult quantifies the gap between surface calm and latent stress
type NotOkayResult struct {
	Level   int    `json:"level"`
	Message string `json:"message"`
}

// Humor derives sarcasm and masking readings from a finished analysis.
// Pure functions of the analysis; no I/O, no state beyond configuration.
type Humor struct{}

// NewHumor creates a humor module
func NewHumor() *Humor {
	return &Humor{}
}

// Sarcasm level thresholds over the 0..100 composite
const (
	sarcasmLightAt   = 25
	sarcasmHeavyAt   = 50
	sarcasmNuclearAt = 75
)

// DetectSarcasm maps a composite of micro-vibe signals and score
// contradictions onto the four ordered levels. The contradiction term is
// high stated positivity co-occurring with high stress.
func (h *Humor) DetectSarcasm(a Analysis) SarcasmResult {
	positivity := a.Score(DimensionExcitement)
	if w := a.Score(DimensionWarmth); w > positivity {
		positivity = w
	}
	contradiction := min(positivity, a.Score(DimensionStress))

	composite := float64(a.Micro(MicroPassiveAggressive))*0.5 +
		float64(a.Micro(MicroDismissiveness))*0.3 +
		float64(contradiction)*0.2

	level := SarcasmNone
	switch {
	case composite >= sarcasmNuclearAt:
		level = SarcasmNuclear
	case composite >= sarcasmHeavyAt:
		level = SarcasmHeavy
	case composite >= sarcasmLightAt:
		level = SarcasmLight
	}

	return SarcasmResult{
		Level:      level,
		Confidence: thresholdConfidence(composite),
	}
}

// CheckNotOkayButOkay scores the "I'm fine" gap: monotonic in stress and in
// the masking flags, 0 when neither is present.
func (h *Humor) CheckNotOkayButOkay(a Analysis) NotOkayResult {
	level := float64(a.Score(DimensionStress)) * 0.6
	if a.HiddenVibes.MaskingStress {
		level += 20
	}
	if a.HiddenVibes.NotOkayButOkay {
		level += 20
	}

	result := NotOkayResult{Level: ClampScore(int(level + 0.5))}
	switch {
	case result.Level >= 75:
		result.Message = "They say they're fine. They are very much not fine."
	case result.Level >= 50:
		result.Message = "Surface calm with a lot going on underneath."
	case result.Level >= 25:
		result.Message = "Mostly okay, with a hint of strain."
	default:
		result.Message = "Reads genuinely okay."
	}
	return result
}

// thresholdConfidence reflects how far the composite sits from the nearest
// level boundary, normalized to half the band width.
func thresholdConfidence(composite float64) float64 {
	nearest := 100.0
	for _, t := range []float64{sarcasmLightAt, sarcasmHeavyAt, sarcasmNuclearAt} {
		d := composite - t
		if d < 0 {
			d = -d
		}
		if d < nearest {
			nearest = d
		}
	}
	conf := nearest / 12.5
	if conf > 1 {
		conf = 1
	}
	return conf
}
