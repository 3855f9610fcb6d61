package vibe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// newTestAnalysis builds a fully populated analysis with the given overrides
func newTestAnalysis(scores map[Dimension]int, micro map[MicroVibe]int, hidden HiddenVibes) Analysis {
	full := make(map[Dimension]int, len(Dimensions))
	for _, d := range Dimensions {
		full[d] = scores[d]
	}
	fullMicro := make(map[MicroVibe]int, len(MicroVibes))
	for _, m := range MicroVibes {
		fullMicro[m] = micro[m]
	}
	return Analysis{Scores: full, HiddenVibes: hidden, MicroVibes: fullMicro}
}

func TestHumor_DetectSarcasm_None(t *testing.T) {
	humor := NewHumor()

	result := humor.DetectSarcasm(newTestAnalysis(nil, nil, HiddenVibes{}))

	assert.Equal(t, SarcasmNone, result.Level)
	assert.InDelta(t, 1.0, result.Confidence, 1e-9)
}

func TestHumor_DetectSarcasm_Heavy(t *testing.T) {
	humor := NewHumor()

	a := newTestAnalysis(nil, map[MicroVibe]int{
		MicroPassiveAggressive: 90,
		MicroDismissiveness:    80,
	}, HiddenVibes{})

	// composite = 90*0.5 + 80*0.3 = 69
	result := humor.DetectSarcasm(a)

	assert.Equal(t, SarcasmHeavy, result.Level)
	assert.InDelta(t, 0.48, result.Confidence, 1e-9)
}

func TestHumor_DetectSarcasm_Nuclear(t *testing.T) {
	humor := NewHumor()

	a := newTestAnalysis(map[Dimension]int{
		DimensionExcitement: 80,
		DimensionStress:     80,
	}, map[MicroVibe]int{
		MicroPassiveAggressive: 100,
		MicroDismissiveness:    100,
	}, HiddenVibes{})

	// composite = 100*0.5 + 100*0.3 + min(80,80)*0.2 = 96
	result := humor.DetectSarcasm(a)

	assert.Equal(t, SarcasmNuclear, result.Level)
}

func TestHumor_DetectSarcasm_ContradictionAlone(t *testing.T) {
	humor := NewHumor()

	// High warmth plus high stress contradict even with no micro signals
	a := newTestAnalysis(map[Dimension]int{
		DimensionWarmth: 100,
		DimensionStress: 100,
	}, nil, HiddenVibes{})

	// composite = 100*0.2 = 20, below the light threshold
	result := humor.DetectSarcasm(a)
	assert.Equal(t, SarcasmNone, result.Level)
}

func TestHumor_DetectSarcasm_ConfidenceBounded(t *testing.T) {
	humor := NewHumor()

	for pa := 0; pa <= 100; pa += 5 {
		a := newTestAnalysis(nil, map[MicroVibe]int{MicroPassiveAggressive: pa}, HiddenVibes{})
		result := humor.DetectSarcasm(a)
		assert.GreaterOrEqual(t, result.Confidence, 0.0)
		assert.LessOrEqual(t, result.Confidence, 1.0)
	}
}

func TestHumor_CheckNotOkayButOkay_GenuinelyOkay(t *testing.T) {
	humor := NewHumor()

	result := humor.CheckNotOkayButOkay(newTestAnalysis(nil, nil, HiddenVibes{}))

	assert.Equal(t, 0, result.Level)
	assert.Equal(t, "Reads genuinely okay.", result.Message)
}

func TestHumor_CheckNotOkayButOkay_VeryNotFine(t *testing.T) {
	humor := NewHumor()

	a := newTestAnalysis(map[Dimension]int{DimensionStress: 100}, nil, HiddenVibes{
		MaskingStress:  true,
		NotOkayButOkay: true,
	})

	result := humor.CheckNotOkayButOkay(a)

	assert.Equal(t, 100, result.Level)
	assert.Equal(t, "They say they're fine. They are very much not fine.", result.Message)
}

func TestHumor_CheckNotOkayButOkay_MonotonicInStress(t *testing.T) {
	humor := NewHumor()

	prev := -1
	for stress := 0; stress <= 100; stress += 10 {
		a := newTestAnalysis(map[Dimension]int{DimensionStress: stress}, nil, HiddenVibes{})
		result := humor.CheckNotOkayButOkay(a)
		assert.GreaterOrEqual(t, result.Level, prev)
		assert.LessOrEqual(t, result.Level, 100)
		prev = result.Level
	}
}
