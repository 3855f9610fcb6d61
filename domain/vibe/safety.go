package vibe

import "vibewire/domain/config"

// Severity grades a safety warning
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Warning types emitted by the filter
const (
	WarningPassiveAggression     = "passive_aggression"
	WarningHiddenFrustration     = "hidden_frustration"
	WarningEmotionalMasking      = "emotional_masking"
	WarningPerformativeHappiness = "performative_happiness"
	WarningHarmRisk              = "harm_risk"
)

// Warning is one finding from a safety rule
type Warning struct {
	Type       string   `json:"type"`
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion"`
}

// SafetyResult is the filter verdict over one analysis. FilteredVibe is a
// dampened copy, present only when the verdict failed; the original
// analysis is never edited in place.
type SafetyResult struct {
	Passed       bool      `json:"passed"`
	Warnings     []Warning `json:"warnings"`
	FilteredVibe *Analysis `json:"filteredVibe,omitempty"`
}

// BlockSettings are the caller-supplied toggles for ShouldBlock
type BlockSettings struct {
	BlockPassiveAggressive bool `json:"blockPassiveAggressive"`
	BlockHighStress        bool `json:"blockHighStress"`
	BlockMasking           bool `json:"blockMasking"`
}

// safetyRule inspects an analysis and returns at most one warning.
// Rules are independent; evaluation order never changes the warning set.
type safetyRule func(a Analysis) *Warning

// SafetyFilter runs the honesty/safety rule set over an analysis
type SafetyFilter struct {
	humor *Humor
	cfg   *config.DomainConfig
	rules []safetyRule
}

// NewSafetyFilter creates a filter backed by the given humor module
func NewSafetyFilter(humor *Humor, cfg *config.DomainConfig) *SafetyFilter {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	f := &SafetyFilter{humor: humor, cfg: cfg}
	f.rules = []safetyRule{
		f.checkPassiveAggression,
		f.checkHiddenFrustration,
		f.checkEmotionalMasking,
		f.checkPerformativeHappiness,
		f.checkHarmRisk,
	}
	return f
}

// Analyze evaluates every rule and assembles the verdict. Absence of
// warnings is a valid, common result.
func (f *SafetyFilter) Analyze(a Analysis) SafetyResult {
	result := SafetyResult{Passed: true, Warnings: []Warning{}}

	for _, rule := range f.rules {
		if w := rule(a); w != nil {
			result.Warnings = append(result.Warnings, *w)
			if w.Severity == SeverityHigh {
				result.Passed = false
			}
		}
	}

	if !result.Passed {
		filtered := f.dampen(a)
		result.FilteredVibe = &filtered
	}
	return result
}

// ShouldBlock combines the filter verdict with caller toggles. It returns
// true on the first matching enabled toggle.
func (f *SafetyFilter) ShouldBlock(a Analysis, settings BlockSettings) bool {
	if settings.BlockPassiveAggressive && a.Micro(MicroPassiveAggressive) >= 50 {
		return true
	}
	if settings.BlockHighStress && a.Score(DimensionStress) >= 70 {
		return true
	}
	if settings.BlockMasking {
		hv := a.HiddenVibes
		if hv.MaskingStress || hv.MaskingAnger || hv.NotOkayButOkay {
			return true
		}
	}
	return false
}

// dampen reduces the most volatile scores on a copy. This is a display and
// propagation safeguard, not a correction of the original record.
func (f *SafetyFilter) dampen(a Analysis) Analysis {
	filtered := a.Clone()
	for _, d := range []Dimension{DimensionStress, DimensionChaos} {
		filtered.Scores[d] = ClampScore(filtered.Scores[d] - f.cfg.DampingAmount)
	}
	return filtered
}

func (f *SafetyFilter) checkPassiveAggression(a Analysis) *Warning {
	pa := a.Micro(MicroPassiveAggressive)
	if pa < 50 {
		return nil
	}
	severity := SeverityMedium
	if pa >= 75 {
		severity = SeverityHigh
	}
	return &Warning{
		Type:       WarningPassiveAggression,
		Severity:   severity,
		Message:    "This message carries a passive-aggressive undertone.",
		Suggestion: "Say the annoying part out loud instead. It lands better.",
	}
}

func (f *SafetyFilter) checkHiddenFrustration(a Analysis) *Warning {
	stress := a.Score(DimensionStress)
	frustrated := a.HiddenVibes.MaskingAnger || (stress >= 60 && a.Score(DimensionWarmth) <= 30)
	if !frustrated {
		return nil
	}
	severity := SeverityMedium
	if stress >= 80 {
		severity = SeverityHigh
	}
	return &Warning{
		Type:       WarningHiddenFrustration,
		Severity:   severity,
		Message:    "There is frustration under the surface of this message.",
		Suggestion: "Name what's actually bothering you before sending.",
	}
}

func (f *SafetyFilter) checkEmotionalMasking(a Analysis) *Warning {
	check := f.humor.CheckNotOkayButOkay(a)
	if check.Level < 50 {
		return nil
	}
	severity := SeverityMedium
	if check.Level >= 75 {
		severity = SeverityHigh
	}
	return &Warning{
		Type:       WarningEmotionalMasking,
		Severity:   severity,
		Message:    check.Message,
		Suggestion: "It's okay to say you're not okay.",
	}
}

func (f *SafetyFilter) checkPerformativeHappiness(a Analysis) *Warning {
	if !a.HiddenVibes.PerformativeHappiness {
		return nil
	}
	severity := SeverityLow
	if a.Micro(MicroOverCompensation) >= 60 {
		severity = SeverityMedium
	}
	return &Warning{
		Type:       WarningPerformativeHappiness,
		Severity:   severity,
		Message:    "The enthusiasm here reads as performed rather than felt.",
		Suggestion: "Drop an exclamation mark or two. Honest beats upbeat.",
	}
}

func (f *SafetyFilter) checkHarmRisk(a Analysis) *Warning {
	if a.Score(DimensionStress) < 70 || a.Score(DimensionChaos) < 70 {
		return nil
	}
	return &Warning{
		Type:       WarningHarmRisk,
		Severity:   SeverityHigh,
		Message:    "Very high stress and chaos together. This message may do damage.",
		Suggestion: "Step away for ten minutes before sending anything.",
	}
}
