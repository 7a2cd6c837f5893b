package intake

import (
	"fmt"
	"strings"

	"cotejo/internal/platform/config"
	dErrors "cotejo/pkg/domain-errors"
)

// Validator enforces the minimum-content rules on justification and
// escalation reason text. Both checks run on every keystroke for live
// feedback and again at submission time: the front end disables its submit
// controls while invalid, but a malformed integration can bypass disabled
// state, so the service never trusts that gate alone.
type Validator struct {
	minJustification int
	minReason        int
}

// NewValidator builds a validator from configured minimums.
func NewValidator(cfg config.MatchingConfig) *Validator {
	return &Validator{
		minJustification: cfg.MinJustificationLen,
		minReason:        cfg.MinReasonLen,
	}
}

// JustificationRemaining returns how many characters are still needed.
// Zero means the text is valid. Counting is over the trimmed text.
func (v *Validator) JustificationRemaining(text string) int {
	return remaining(text, v.minJustification)
}

// ValidateJustification rejects iff trim(text) is shorter than the minimum.
// Text of exactly the minimum length is accepted.
func (v *Validator) ValidateJustification(text string) error {
	if missing := v.JustificationRemaining(text); missing > 0 {
		return dErrors.New(dErrors.CodeInvalidInput,
			fmt.Sprintf("justification too short: %d characters remaining", missing))
	}
	return nil
}

// ReasonRemaining returns how many characters the escalation reason still
// needs. Zero means valid.
func (v *Validator) ReasonRemaining(text string) int {
	return remaining(text, v.minReason)
}

// ValidateReason rejects iff trim(reason) is shorter than the minimum.
func (v *Validator) ValidateReason(text string) error {
	if missing := v.ReasonRemaining(text); missing > 0 {
		return dErrors.New(dErrors.CodeInvalidInput,
			fmt.Sprintf("reason too short: %d characters remaining", missing))
	}
	return nil
}

func remaining(text string, min int) int {
	length := len([]rune(strings.TrimSpace(text)))
	if length >= min {
		return 0
	}
	return min - length
}
