package match

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "cotejo/pkg/domain"
)

func TestFieldComparison_EditDistanceInvariant(t *testing.T) {
	t.Run("required for similar text", func(t *testing.T) {
		err := FieldComparison{Field: "nombre", Kind: ValueText, Type: MatchSimilar}.Validate()
		require.Error(t, err)
	})

	t.Run("required for different text", func(t *testing.T) {
		err := FieldComparison{Field: "nombre", Kind: ValueText, Type: MatchDifferent}.Validate()
		require.Error(t, err)
	})

	t.Run("forbidden for exact", func(t *testing.T) {
		err := FieldComparison{Field: "nombre", Kind: ValueText, Type: MatchExact, EditDistance: intPtr(0)}.Validate()
		require.Error(t, err)
	})

	t.Run("forbidden for non-text fields", func(t *testing.T) {
		err := FieldComparison{Field: "fecha_nacimiento", Kind: ValueDate, Type: MatchDifferent, EditDistance: intPtr(1)}.Validate()
		require.Error(t, err)
	})

	t.Run("accepted when present where required", func(t *testing.T) {
		err := FieldComparison{Field: "nombre", Kind: ValueText, Type: MatchSimilar, EditDistance: intPtr(2)}.Validate()
		require.NoError(t, err)
	})

	t.Run("date compared by equality needs no distance", func(t *testing.T) {
		err := FieldComparison{Field: "fecha_nacimiento", Kind: ValueDate, Type: MatchDifferent}.Validate()
		require.NoError(t, err)
	})

	t.Run("negative distance rejected", func(t *testing.T) {
		err := FieldComparison{Field: "nombre", Kind: ValueText, Type: MatchSimilar, EditDistance: intPtr(-1)}.Validate()
		require.Error(t, err)
	})
}

func TestCandidate_Validate(t *testing.T) {
	valid := Candidate{
		LegajoID:    id.LegajoID(uuid.New()),
		LegajoLabel: "LEG-2024-0123",
		Score:       0.83,
		Comparisons: []FieldComparison{
			{Field: "nombre", Kind: ValueText, Type: MatchSimilar, EditDistance: intPtr(1)},
		},
	}
	require.NoError(t, valid.Validate())

	t.Run("rejects nil legajo id", func(t *testing.T) {
		c := valid
		c.LegajoID = id.LegajoID{}
		assert.Error(t, c.Validate())
	})

	t.Run("rejects score outside range", func(t *testing.T) {
		c := valid
		c.Score = 1.2
		assert.Error(t, c.Validate())
		c.Score = -0.1
		assert.Error(t, c.Validate())
	})

	t.Run("rejects invalid comparison", func(t *testing.T) {
		c := valid
		c.Comparisons = []FieldComparison{{Field: "nombre", Kind: ValueText, Type: MatchSimilar}}
		assert.Error(t, c.Validate())
	})
}

func TestParseMatchType(t *testing.T) {
	for _, s := range []string{"exact", "similar", "different", "unavailable"} {
		_, err := ParseMatchType(s)
		assert.NoError(t, err)
	}
	_, err := ParseMatchType("fuzzy")
	assert.Error(t, err)
}

func TestParseValueKind(t *testing.T) {
	for _, s := range []string{"text", "date", "number"} {
		_, err := ParseValueKind(s)
		assert.NoError(t, err)
	}
	_, err := ParseValueKind("blob")
	assert.Error(t, err)
}
