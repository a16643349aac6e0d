package immutability

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestClassification_Order verifies the lattice runs weakest to strongest.
func TestClassification_Order(t *testing.T) {
	levels := Levels()
	require.Len(t, levels, 4)
	for i := 1; i < len(levels); i++ {
		assert.Less(t, levels[i-1], levels[i], "%s should be weaker than %s", levels[i-1], levels[i])
	}
	assert.Equal(t, Unverified, levels[0])
	assert.Equal(t, PlatformConstant, levels[3])
}

// TestWeaker picks the lower level regardless of argument order.
func TestWeaker(t *testing.T) {
	for _, a := range Levels() {
		for _, b := range Levels() {
			got := Weaker(a, b)
			assert.Equal(t, got, Weaker(b, a))
			assert.LessOrEqual(t, got, a)
			assert.LessOrEqual(t, got, b)
		}
	}
	assert.Equal(t, LatchGuarded, Weaker(PlatformConstant, LatchGuarded))
}

// TestClassification_IsClassified is true for everything above Unverified.
func TestClassification_IsClassified(t *testing.T) {
	assert.False(t, Unverified.IsClassified())
	assert.True(t, LatchGuarded.IsClassified())
	assert.True(t, ConstructionInvariant.IsClassified())
	assert.True(t, PlatformConstant.IsClassified())

	assert.True(t, ConstructionInvariant.AtLeast(LatchGuarded))
	assert.False(t, LatchGuarded.AtLeast(ConstructionInvariant))
}

// TestParseClassification accepts String output and common spellings.
func TestParseClassification(t *testing.T) {
	for _, c := range Levels() {
		got, err := ParseClassification(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	got, err := ParseClassification(" Construction_Invariant ")
	require.NoError(t, err)
	assert.Equal(t, ConstructionInvariant, got)

	_, err = ParseClassification("frozen")
	assert.True(t, errors.Is(err, ErrUnknownClassification))
}

// TestClassification_Text covers JSON encoding through the text marshalers.
func TestClassification_Text(t *testing.T) {
	type report struct {
		Level Classification `json:"level"`
	}

	out, err := json.Marshal(report{Level: LatchGuarded})
	require.NoError(t, err)
	assert.JSONEq(t, `{"level":"latch-guarded"}`, string(out))

	var in report
	require.NoError(t, json.Unmarshal([]byte(`{"level":"platform-constant"}`), &in))
	assert.Equal(t, PlatformConstant, in.Level)

	_, err = Classification(9).MarshalText()
	assert.ErrorIs(t, err, ErrUnknownClassification)
	assert.Equal(t, "Classification(9)", Classification(9).String())
	assert.Empty(t, Classification(9).Description())
	assert.NotEmpty(t, Unverified.Description())
}
