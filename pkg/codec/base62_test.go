package codec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBase62_RoundTrip(t *testing.T) {
	values := []int64{0, 1, 9, 10, 61, 62, 63, 999, 3843, 3844,
		-1, -61, -62, -12345678901, math.MaxInt64, math.MinInt64}

	for _, v := range values {
		encoded := encodeBase62(v)
		decoded, err := decodeBase62(encoded)
		require.NoError(t, err, "value %d", v)
		assert.Equal(t, v, decoded, "round trip of %d via %q", v, encoded)
	}
}

func TestBase62_KnownValues(t *testing.T) {
	assert.Equal(t, "0", encodeBase62(0))
	assert.Equal(t, "z", encodeBase62(61))
	assert.Equal(t, "10", encodeBase62(62))
	assert.Equal(t, "-10", encodeBase62(-62))
}

func TestBase62_Len(t *testing.T) {
	values := []int64{0, 1, 61, 62, 3843, 3844, -1, -62, math.MaxInt64, math.MinInt64}
	for _, v := range values {
		assert.Equal(t, len(encodeBase62(v)), base62Len(v), "length of %d", v)
	}
}

func TestBase62_DecodeRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "-", "hello world", "12!4", "~12"} {
		_, err := decodeBase62(s)
		assert.Error(t, err, "input %q", s)
	}
}

func TestBase62_DecodeRejectsOverflow(t *testing.T) {
	// One digit longer than MaxInt64's encoding.
	_, err := decodeBase62("zzzzzzzzzzzz")
	assert.Error(t, err)

	// 1<<63: one past MaxInt64 as a positive value.
	_, err = decodeBase62("aZl8N0y58M8")
	assert.Error(t, err)

	// The negative ceiling is -(1<<63) exactly; one past it must surface
	// an error rather than wrap.
	decoded, err := decodeBase62("-aZl8N0y58M8")
	require.NoError(t, err)
	assert.Equal(t, int64(math.MinInt64), decoded)
	_, err = decodeBase62("-aZl8N0y58M9")
	assert.Error(t, err)

	// Long enough to wrap uint64 during accumulation.
	for _, s := range []string{"zzzzzzzzzzzzzzzzzzzz", "-zzzzzzzzzzzzzzzzzzzz"} {
		_, err = decodeBase62(s)
		assert.Error(t, err, "input %q", s)
	}
}

func TestScaleDecimal_RoundTrip(t *testing.T) {
	values := []float64{0, 1.5, -1.5, 3.141592, -23.550519, 179.999999}
	for _, v := range values {
		scaled, err := scaleDecimal(v, 6)
		require.NoError(t, err)
		assert.InDelta(t, v, unscaleDecimal(scaled, 6), 1e-6)
	}
}

func TestScaleDecimal_RejectsNonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := scaleDecimal(v, 6)
		assert.Error(t, err)
	}
}
