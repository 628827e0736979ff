package codec

import "strings"

// Dictionary tokens live in a reserved two-byte namespace: the marker byte
// 'd' followed by one symbol. Raw user strings that would parse as a token
// (or that start with the escape form) are escaped with escapePrefix so the
// decoder can always tell the two apart.
const (
	dictMarker   = 'd'
	escapePrefix = "dz"
)

// dictEncode maps common literals to their reserved tokens. The table is
// bidirectional and fixed; changing an assignment breaks decode of every
// record written under the old one.
var dictEncode = map[string]string{
	// booleans and switches
	"true":  "d0",
	"false": "d1",
	"yes":   "d2",
	"no":    "d3",
	"on":    "d4",
	"off":   "d5",

	// status-like literals
	"active":     "da",
	"inactive":   "db",
	"pending":    "dc",
	"completed":  "dd",
	"failed":     "de",
	"cancelled":  "df",
	"processing": "dg",
	"draft":      "dh",
	"published":  "di",
	"archived":   "dj",
	"deleted":    "dk",
	"enabled":    "dl",
	"disabled":   "dm",
	"success":    "dn",
	"error":      "do",
	"warning":    "dp",
	"info":       "dq",
	"debug":      "dr",

	// verb-like tokens
	"get":     "dA",
	"post":    "dB",
	"put":     "dC",
	"patch":   "dD",
	"delete":  "dE",
	"head":    "dF",
	"options": "dG",
	"create":  "dH",
	"read":    "dI",
	"update":  "dJ",
	"list":    "dK",
	"upsert":  "dL",
	"remove":  "dM",

	// common placeholders
	"null":    "dN",
	"none":    "dO",
	"unknown": "dP",
	"default": "dQ",
	"admin":   "dR",
	"user":    "dS",
	"guest":   "dT",
}

var dictDecode = func() map[string]string {
	m := make(map[string]string, len(dictEncode))
	for literal, token := range dictEncode {
		m[token] = literal
	}
	return m
}()

// needsDictEscape reports whether a raw string would be misread by
// dictDecodeString: either it is itself a token, or it begins with the
// escape form.
func needsDictEscape(s string) bool {
	if _, ok := dictDecode[s]; ok {
		return true
	}
	return strings.HasPrefix(s, escapePrefix)
}

// dictEncodeString compacts s through the dictionary. Unmatched input
// passes through unchanged unless it collides with the token namespace.
func dictEncodeString(s string) string {
	if token, ok := dictEncode[s]; ok {
		return token
	}
	if needsDictEscape(s) {
		return escapePrefix + s
	}
	return s
}

// dictDecodeString is the exact inverse of dictEncodeString.
func dictDecodeString(s string) string {
	if strings.HasPrefix(s, escapePrefix) {
		return s[len(escapePrefix):]
	}
	if literal, ok := dictDecode[s]; ok {
		return literal
	}
	return s
}

// dictEncodedLen returns len(dictEncodeString(s)) without encoding.
func dictEncodedLen(s string) int {
	if _, ok := dictEncode[s]; ok {
		return 2
	}
	if needsDictEscape(s) {
		return len(s) + len(escapePrefix)
	}
	return len(s)
}
