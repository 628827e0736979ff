package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIP4Codec_RoundTrip(t *testing.T) {
	c := New(VariantIP4)

	for _, addr := range []string{"0.0.0.0", "127.0.0.1", "192.168.10.254", "255.255.255.255"} {
		wire, err := c.Encode("clientIp", addr)
		require.NoError(t, err)
		assert.Len(t, wire, encodedIPLen(false))

		decoded, err := c.Decode("clientIp", wire)
		require.NoError(t, err)
		assert.Equal(t, addr, decoded)
	}
}

func TestIP6Codec_RoundTripRecanonicalizes(t *testing.T) {
	c := New(VariantIP6)

	cases := map[string]string{
		// Expanded input comes back with '::' compression over the
		// longest zero run, leftmost on ties.
		"2001:0db8:0000:0000:0000:0000:0000:0001": "2001:db8::1",
		"2001:db8::1":                             "2001:db8::1",
		"::1":                                     "::1",
		"fe80:0:0:1:0:0:0:1":                      "fe80:0:0:1::1",
	}

	for input, want := range cases {
		wire, err := c.Encode("clientIp", input)
		require.NoError(t, err, "input %s", input)
		assert.Len(t, wire, encodedIPLen(true))

		decoded, err := c.Decode("clientIp", wire)
		require.NoError(t, err)
		assert.Equal(t, want, decoded, "input %s", input)
	}
}

func TestIPCodec_MalformedInput(t *testing.T) {
	c4 := New(VariantIP4)
	c6 := New(VariantIP6)

	var valErr *ValidationError

	_, err := c4.Encode("clientIp", "999.1.1.1")
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "999.1.1.1", valErr.Value, "error must name the offending value")

	_, err = c4.Encode("clientIp", "2001:db8::1")
	assert.ErrorAs(t, err, &valErr)

	_, err = c6.Encode("clientIp", "192.168.0.1")
	assert.ErrorAs(t, err, &valErr)

	_, err = c6.Decode("clientIp", "not-base64!!!")
	assert.ErrorAs(t, err, &valErr)
}
