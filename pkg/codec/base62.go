package codec

import (
	"fmt"
	"math"
)

// alphabet is digit-first so small non-negative integers sort naturally
// and single digits stay single bytes.
const base62Alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

var base62Index = func() map[byte]int64 {
	m := make(map[byte]int64, len(base62Alphabet))
	for i := 0; i < len(base62Alphabet); i++ {
		m[base62Alphabet[i]] = int64(i)
	}
	return m
}()

// encodeBase62 renders n in base62. Negative values carry a leading '-'.
func encodeBase62(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	// math.MinInt64 has no positive counterpart; widen via uint64.
	u := uint64(n)
	if neg {
		u = uint64(-n)
	}
	var buf [12]byte
	i := len(buf)
	for u > 0 {
		i--
		buf[i] = base62Alphabet[u%62]
		u /= 62
	}
	s := string(buf[i:])
	if neg {
		return "-" + s
	}
	return s
}

// decodeBase62 parses a base62 string produced by encodeBase62.
func decodeBase62(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty base62 string")
	}
	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
		if s == "" {
			return 0, fmt.Errorf("bare sign is not a base62 number")
		}
	}
	var n uint64
	for i := 0; i < len(s); i++ {
		d, ok := base62Index[s[i]]
		if !ok {
			return 0, fmt.Errorf("invalid base62 digit %q", s[i])
		}
		if n > (math.MaxUint64-uint64(d))/62 {
			return 0, fmt.Errorf("base62 value overflows int64: %s", s)
		}
		n = n*62 + uint64(d)
	}
	if neg {
		// Only magnitudes up to 1<<63 are representable; -(1<<63) is MinInt64.
		if n > 1<<63 {
			return 0, fmt.Errorf("base62 value overflows int64: -%s", s)
		}
		if n == 1<<63 {
			return math.MinInt64, nil
		}
		return -int64(n), nil
	}
	if n > math.MaxInt64 {
		return 0, fmt.Errorf("base62 value overflows int64: %s", s)
	}
	return int64(n), nil
}

// base62Len returns len(encodeBase62(n)) without encoding.
func base62Len(n int64) int {
	if n == 0 {
		return 1
	}
	length := 0
	u := uint64(n)
	if n < 0 {
		length = 1 // sign
		u = uint64(-n)
	}
	for u > 0 {
		length++
		u /= 62
	}
	return length
}

// scaleDecimal converts v into a fixed-point integer at the given decimal
// precision, rejecting values whose scaled form overflows int64.
func scaleDecimal(v float64, precision int) (int64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%v is not a finite number", v)
	}
	scaled := math.Round(v * math.Pow10(precision))
	if scaled > math.MaxInt64 || scaled < math.MinInt64 {
		return 0, fmt.Errorf("%v exceeds fixed-point range at precision %d", v, precision)
	}
	return int64(scaled), nil
}

// unscaleDecimal is the inverse of scaleDecimal.
func unscaleDecimal(n int64, precision int) float64 {
	return float64(n) / math.Pow10(precision)
}
