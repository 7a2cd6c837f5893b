package match

import "fmt"

// Tone is the severity color the front end renders a comparison with.
type Tone string

const (
	ToneSuccess Tone = "success"
	ToneWarning Tone = "warning"
	ToneDanger  Tone = "danger"
	ToneMuted   Tone = "muted"
)

// Descriptor is the display mapping for one field comparison. This layer
// computes nothing; it is a total mapping from comparison outcome to
// presentation, so the front end never interprets match types itself.
type Descriptor struct {
	Field         string `json:"field"`
	Label         string `json:"label"`
	Tone          Tone   `json:"tone"`
	InputValue    string `json:"inputValue"`
	ExistingValue string `json:"existingValue"`
	// Annotation carries the edit distance alongside similar/different
	// labels on text fields, empty otherwise.
	Annotation string `json:"annotation,omitempty"`
}

// Describe maps a FieldComparison onto its display descriptor. Every match
// type yields a non-empty label; unknown types are surfaced loudly instead
// of silently falling through.
func Describe(comparison FieldComparison) Descriptor {
	descriptor := Descriptor{
		Field:         comparison.Field,
		InputValue:    comparison.InputValue,
		ExistingValue: comparison.ExistingValue,
	}

	switch comparison.Type {
	case MatchExact:
		descriptor.Label = "Coincidencia exacta"
		descriptor.Tone = ToneSuccess
	case MatchSimilar:
		descriptor.Label = "Similar"
		descriptor.Tone = ToneWarning
	case MatchDifferent:
		descriptor.Label = "Diferente"
		descriptor.Tone = ToneDanger
	case MatchUnavailable:
		descriptor.Label = "Sin datos"
		descriptor.Tone = ToneMuted
	default:
		descriptor.Label = fmt.Sprintf("Desconocido (%s)", comparison.Type)
		descriptor.Tone = ToneMuted
	}

	if comparison.EditDistance != nil {
		descriptor.Annotation = fmt.Sprintf("distancia %d", *comparison.EditDistance)
	}

	return descriptor
}

// DescribeAll maps a candidate's comparisons in order.
func DescribeAll(comparisons []FieldComparison) []Descriptor {
	descriptors := make([]Descriptor, 0, len(comparisons))
	for _, comparison := range comparisons {
		descriptors = append(descriptors, Describe(comparison))
	}
	return descriptors
}
