package match

import (
	"fmt"
	"math"
	"strings"

	id "cotejo/pkg/domain"
	dErrors "cotejo/pkg/domain-errors"
)

// MatchType classifies a single field comparison delivered by the external
// matcher. The matcher computes distances server-side; this service only
// consumes the outcome.
type MatchType string

const (
	MatchExact       MatchType = "exact"
	MatchSimilar     MatchType = "similar"
	MatchDifferent   MatchType = "different"
	MatchUnavailable MatchType = "unavailable"
)

// ParseMatchType validates a match type from the wire.
func ParseMatchType(s string) (MatchType, error) {
	switch MatchType(s) {
	case MatchExact, MatchSimilar, MatchDifferent, MatchUnavailable:
		return MatchType(s), nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "unknown match type: "+s)
}

// ValueKind tells how the compared values were typed upstream. Edit
// distances only exist for text fields.
type ValueKind string

const (
	ValueText   ValueKind = "text"
	ValueDate   ValueKind = "date"
	ValueNumber ValueKind = "number"
)

// ParseValueKind validates a value kind from the wire.
func ParseValueKind(s string) (ValueKind, error) {
	switch ValueKind(s) {
	case ValueText, ValueDate, ValueNumber:
		return ValueKind(s), nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "unknown value kind: "+s)
}

// FieldComparison is the per-field outcome for one candidate.
type FieldComparison struct {
	Field         string    `json:"field"`
	Kind          ValueKind `json:"kind"`
	Type          MatchType `json:"matchType"`
	InputValue    string    `json:"inputValue"`
	ExistingValue string    `json:"existingValue"`
	// EditDistance is present iff Type is similar or different on a text
	// field. Validate enforces this at the trust boundary.
	EditDistance *int `json:"editDistance,omitempty"`
}

// Validate enforces the edit-distance presence invariant.
func (f FieldComparison) Validate() error {
	if strings.TrimSpace(f.Field) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "field comparison missing field name")
	}
	if _, err := ParseMatchType(string(f.Type)); err != nil {
		return err
	}
	if _, err := ParseValueKind(string(f.Kind)); err != nil {
		return err
	}
	wantsDistance := f.Kind == ValueText && (f.Type == MatchSimilar || f.Type == MatchDifferent)
	if wantsDistance && f.EditDistance == nil {
		return dErrors.New(dErrors.CodeInvalidInput,
			fmt.Sprintf("field %q: edit distance required for %s text comparison", f.Field, f.Type))
	}
	if !wantsDistance && f.EditDistance != nil {
		return dErrors.New(dErrors.CodeInvalidInput,
			fmt.Sprintf("field %q: edit distance not allowed for %s %s comparison", f.Field, f.Type, f.Kind))
	}
	if f.EditDistance != nil && *f.EditDistance < 0 {
		return dErrors.New(dErrors.CodeInvalidInput,
			fmt.Sprintf("field %q: edit distance must be non-negative", f.Field))
	}
	return nil
}

// OwnerInfo is read-only contact metadata for the legajo's owning team. It
// feeds the permission-escalation notification and never decision logic.
type OwnerInfo struct {
	TeamName string `json:"teamName"`
	Zone     string `json:"zone"`
	Email    string `json:"email"`
}

// Candidate is one possible duplicate delivered by the matcher, scored and
// field-compared server-side.
type Candidate struct {
	LegajoID      id.LegajoID       `json:"legajoId"`
	LegajoLabel   string            `json:"legajoLabel"`
	Score         float64           `json:"score"`
	HasPermission bool              `json:"hasPermission"`
	CanLink       bool              `json:"canLink"`
	Comparisons   []FieldComparison `json:"comparisons"`
	Owner         OwnerInfo         `json:"owner"`
}

// Validate checks the candidate shape at the trust boundary.
func (c Candidate) Validate() error {
	if c.LegajoID.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "candidate missing legajo id")
	}
	if math.IsNaN(c.Score) || c.Score < 0 || c.Score > 1 {
		return dErrors.New(dErrors.CodeInvalidInput,
			fmt.Sprintf("candidate %s: score %v outside [0,1]", c.LegajoID, c.Score))
	}
	for _, comparison := range c.Comparisons {
		if err := comparison.Validate(); err != nil {
			return err
		}
	}
	return nil
}
