package config

import "time"

// DomainConfig holds all configurable business rules and constraints
type DomainConfig struct {
	// Message constraints
	MaxTextLength      int
	MaxContextMessages int

	// Packet constraints
	DefaultPacketTTL time.Duration
	MaxPacketTTL     time.Duration

	// State machine tuning
	NeutralBaseline int           // score every dimension starts at
	DecayHalfLife   time.Duration // elapsed time after which the previous blend counts half
	IncomingWeight  float64       // fixed contribution of an incoming vibe to the blend
	HistoryCapacity int

	// Safety filter tuning
	DampingAmount int // subtracted from stress/chaos when producing a filtered vibe

	// Timeline aggregation
	TimelineSpan   time.Duration
	TimelineBucket time.Duration
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		// Message constraints
		MaxTextLength:      5000,
		MaxContextMessages: 10,

		// Packet constraints
		DefaultPacketTTL: 5 * time.Minute,
		MaxPacketTTL:     24 * time.Hour,

		// State machine tuning
		// Baseline 50 (midpoint) so a neutral message neither lifts nor
		// drops a fresh state; decay pulls an unreinforced blend back
		// toward this value.
		NeutralBaseline: 50,
		DecayHalfLife:   10 * time.Minute,
		IncomingWeight:  0.3,
		HistoryCapacity: 50,

		// Safety filter tuning
		DampingAmount: 30,

		// Timeline aggregation
		TimelineSpan:   7 * 24 * time.Hour,
		TimelineBucket: time.Hour,
	}
}
