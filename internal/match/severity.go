package match

import (
	"fmt"

	"cotejo/internal/platform/config"
)

// AlertLevel is the discrete severity derived from a similarity score. It
// drives urgency messaging and the amount of friction before an override.
type AlertLevel int

const (
	AlertNone AlertLevel = iota
	AlertLow
	AlertMedium
	AlertHigh
	AlertCritical
)

func (l AlertLevel) String() string {
	switch l {
	case AlertNone:
		return "none"
	case AlertLow:
		return "low"
	case AlertMedium:
		return "medium"
	case AlertHigh:
		return "high"
	case AlertCritical:
		return "critical"
	}
	return fmt.Sprintf("alertlevel(%d)", int(l))
}

// RequiresDoubleConfirmation reports whether a forced creation at this
// level must pass the two-step confirmation. The second step is mandatory
// at high and critical because overriding a strong match is a permanent
// compliance liability.
func (l AlertLevel) RequiresDoubleConfirmation() bool {
	return l >= AlertHigh
}

// Classifier maps scores onto alert levels with monotonic thresholds.
// alertLevel is a pure function of score: two candidates with equal score
// always carry equal severity.
type Classifier struct {
	critical float64
	high     float64
	medium   float64
}

// NewClassifier builds a classifier from configured thresholds.
func NewClassifier(cfg config.MatchingConfig) *Classifier {
	return &Classifier{
		critical: cfg.ThresholdCritical,
		high:     cfg.ThresholdHigh,
		medium:   cfg.ThresholdMedium,
	}
}

// Classify is total over [0,1]: every score maps to exactly one level.
func (c *Classifier) Classify(score float64) AlertLevel {
	switch {
	case score >= c.critical:
		return AlertCritical
	case score >= c.high:
		return AlertHigh
	case score >= c.medium:
		return AlertMedium
	case score > 0:
		return AlertLow
	default:
		return AlertNone
	}
}

// SessionLevel is the severity for a whole session: the level of the
// primary (highest scored) candidate, or none for an empty set.
func (c *Classifier) SessionLevel(ranked []Candidate) AlertLevel {
	primary, ok := Primary(ranked)
	if !ok {
		return AlertNone
	}
	return c.Classify(primary.Score)
}
