package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDictionary_KnownLiterals(t *testing.T) {
	assert.Equal(t, "da", dictEncodeString("active"))
	assert.Equal(t, "active", dictDecodeString("da"))
	assert.Equal(t, "d0", dictEncodeString("true"))
	assert.Equal(t, "d1", dictEncodeString("false"))
}

func TestDictionary_PassThrough(t *testing.T) {
	for _, s := range []string{"", "hello", "some longer sentence", "x", "日本語"} {
		assert.Equal(t, s, dictEncodeString(s), "unmatched input must pass through")
		assert.Equal(t, s, dictDecodeString(dictEncodeString(s)))
	}
}

func TestDictionary_CollidingInputEscapes(t *testing.T) {
	// A raw value that happens to equal a token must not decode to the
	// token's literal.
	encoded := dictEncodeString("da")
	assert.Equal(t, "dzda", encoded)
	assert.Equal(t, "da", dictDecodeString(encoded))

	// Raw input starting with the escape form gets escaped too.
	encoded = dictEncodeString("dzanything")
	assert.Equal(t, "dzdzanything", encoded)
	assert.Equal(t, "dzanything", dictDecodeString(encoded))
}

func TestDictionary_RoundTripAllEntries(t *testing.T) {
	for literal, token := range dictEncode {
		assert.Len(t, token, 2, "token for %q", literal)
		assert.Equal(t, byte(dictMarker), token[0], "token for %q", literal)
		assert.NotEqual(t, escapePrefix, token, "escape prefix must stay reserved")
		assert.Equal(t, literal, dictDecodeString(dictEncodeString(literal)))
	}
}

func TestDictionary_EncodedLenMatchesEncode(t *testing.T) {
	inputs := []string{"active", "true", "da", "dz", "plain", "", "dx"}
	for _, s := range inputs {
		assert.Equal(t, len(dictEncodeString(s)), dictEncodedLen(s), "input %q", s)
	}
}
