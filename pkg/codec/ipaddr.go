package codec

import (
	"encoding/base64"
	"fmt"
	"net/netip"
)

// encodeIP packs a textual address into base64 over its raw 4 or 16 bytes.
func encodeIP(field string, value any, v6 bool) (string, error) {
	s, err := toString(field, value)
	if err != nil {
		return "", err
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return "", &ValidationError{Field: field, Value: s, Reason: "not a valid IP address"}
	}
	if v6 {
		if !addr.Is6() || addr.Is4In6() {
			return "", &ValidationError{Field: field, Value: s, Reason: "not an IPv6 address"}
		}
	} else if !addr.Is4() {
		return "", &ValidationError{Field: field, Value: s, Reason: "not an IPv4 address"}
	}
	return base64.StdEncoding.EncodeToString(addr.AsSlice()), nil
}

// decodeIP reverses encodeIP. IPv6 output is the RFC 5952 canonical form:
// netip re-applies '::' compression over the longest zero run, leftmost on
// ties.
func decodeIP(field, wire string, v6 bool) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(wire)
	if err != nil {
		return "", &ValidationError{Field: field, Value: wire, Reason: "not base64"}
	}
	want := 4
	if v6 {
		want = 16
	}
	if len(raw) != want {
		return "", &ValidationError{Field: field, Value: wire, Reason: fmt.Sprintf("expected %d address bytes, got %d", want, len(raw))}
	}
	addr, ok := netip.AddrFromSlice(raw)
	if !ok {
		return "", &ValidationError{Field: field, Value: wire, Reason: "not an IP address"}
	}
	return addr.String(), nil
}

// encodedIPLen is constant per family: base64 of 4 or 16 bytes.
func encodedIPLen(v6 bool) int {
	if v6 {
		return base64.StdEncoding.EncodedLen(16)
	}
	return base64.StdEncoding.EncodedLen(4)
}
