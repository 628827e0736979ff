package codec

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Variant identifies the wire codec compiled for an attribute. Schema
// compilation resolves each attribute's type tag to a Variant exactly once;
// nothing re-parses type strings on the encode/decode path.
type Variant int

const (
	VariantString Variant = iota
	VariantInt
	VariantDecimal
	VariantBool
	VariantTimestamp
	VariantIP4
	VariantIP6
	VariantGeoLat
	VariantGeoLon
	VariantEmbedding
	VariantSecret
	VariantJSON
)

// String returns the type-tag spelling of the variant.
func (v Variant) String() string {
	switch v {
	case VariantString:
		return "string"
	case VariantInt:
		return "int"
	case VariantDecimal:
		return "decimal"
	case VariantBool:
		return "bool"
	case VariantTimestamp:
		return "ts"
	case VariantIP4:
		return "ip4"
	case VariantIP6:
		return "ip6"
	case VariantGeoLat:
		return "geoLat"
	case VariantGeoLon:
		return "geoLon"
	case VariantEmbedding:
		return "embedding"
	case VariantSecret:
		return "secret"
	case VariantJSON:
		return "json"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

// Structured reports whether the variant's output must never be cut mid
// string. Structured fields are excluded from truncation entirely.
func (v Variant) Structured() bool {
	switch v {
	case VariantSecret, VariantEmbedding, VariantIP4, VariantIP6,
		VariantGeoLat, VariantGeoLon, VariantTimestamp, VariantInt,
		VariantDecimal, VariantBool:
		return true
	}
	return false
}

// Codec binds a Variant to its per-field parameters. The zero value is a
// plain string codec. Codec values are immutable and safe for concurrent
// use.
type Codec struct {
	Variant    Variant
	Precision  int    // decimal places for decimal/embedding
	Dimensions int    // declared vector length for embedding
	Passphrase string // key material for secret
	Iterations int    // KDF rounds for secret; DefaultIterations when 0
}

// DefaultPrecision is the fixed-point precision used when a decimal or
// embedding field does not declare one. Six decimal places keep geo-scale
// values within ~11cm.
const DefaultPrecision = 6

// New returns a codec for the variant with default parameters.
func New(v Variant) Codec {
	return Codec{Variant: v, Precision: DefaultPrecision}
}

func (c Codec) precision() int {
	if c.Precision <= 0 {
		return DefaultPrecision
	}
	return c.Precision
}

// Encode renders value as the compact wire string for the codec's variant.
// Encoding is deterministic for every variant except secret, whose salt
// and nonce are drawn fresh per call.
func (c Codec) Encode(field string, value any) (string, error) {
	switch c.Variant {
	case VariantString:
		s, err := toString(field, value)
		if err != nil {
			return "", err
		}
		return dictEncodeString(s), nil
	case VariantBool:
		b, err := toBool(field, value)
		if err != nil {
			return "", err
		}
		if b {
			return dictEncode["true"], nil
		}
		return dictEncode["false"], nil
	case VariantInt:
		n, err := toInt64(field, value)
		if err != nil {
			return "", err
		}
		return encodeBase62(n), nil
	case VariantDecimal:
		f, err := toFloat64(field, value)
		if err != nil {
			return "", err
		}
		scaled, err := scaleDecimal(f, c.precision())
		if err != nil {
			return "", &EncodingError{Field: field, Value: fmt.Sprint(value), Reason: err.Error()}
		}
		return encodeBase62(scaled), nil
	case VariantTimestamp:
		return encodeTimestamp(field, value)
	case VariantIP4:
		return encodeIP(field, value, false)
	case VariantIP6:
		return encodeIP(field, value, true)
	case VariantGeoLat:
		return c.encodeGeo(field, value, geoLatSpec)
	case VariantGeoLon:
		return c.encodeGeo(field, value, geoLonSpec)
	case VariantEmbedding:
		return c.encodeEmbedding(field, value)
	case VariantSecret:
		return c.encodeSecret(field, value)
	case VariantJSON:
		raw, err := json.Marshal(value)
		if err != nil {
			return "", &EncodingError{Field: field, Value: fmt.Sprint(value), Reason: err.Error()}
		}
		return string(raw), nil
	default:
		return "", &EncodingError{Field: field, Value: fmt.Sprint(value), Reason: fmt.Sprintf("unknown codec variant %d", int(c.Variant))}
	}
}

// Decode is the exact inverse of Encode for every variant, within the
// declared precision of fixed-point variants.
func (c Codec) Decode(field, wire string) (any, error) {
	switch c.Variant {
	case VariantString:
		return dictDecodeString(wire), nil
	case VariantBool:
		switch dictDecodeString(wire) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		default:
			return nil, &ValidationError{Field: field, Value: wire, Reason: "not an encoded boolean"}
		}
	case VariantInt:
		n, err := decodeBase62(wire)
		if err != nil {
			return nil, &ValidationError{Field: field, Value: wire, Reason: err.Error()}
		}
		return n, nil
	case VariantDecimal:
		n, err := decodeBase62(wire)
		if err != nil {
			return nil, &ValidationError{Field: field, Value: wire, Reason: err.Error()}
		}
		return unscaleDecimal(n, c.precision()), nil
	case VariantTimestamp:
		return decodeTimestamp(field, wire)
	case VariantIP4:
		return decodeIP(field, wire, false)
	case VariantIP6:
		return decodeIP(field, wire, true)
	case VariantGeoLat:
		return c.decodeGeo(field, wire, geoLatSpec)
	case VariantGeoLon:
		return c.decodeGeo(field, wire, geoLonSpec)
	case VariantEmbedding:
		return c.decodeEmbedding(field, wire)
	case VariantSecret:
		return c.decodeSecret(field, wire)
	case VariantJSON:
		return decodeJSONValue(wire)
	default:
		return nil, &ValidationError{Field: field, Value: wire, Reason: fmt.Sprintf("unknown codec variant %d", int(c.Variant))}
	}
}

// EncodedSize returns the exact byte length Encode would produce for value
// without producing it. It never under-reports.
func (c Codec) EncodedSize(field string, value any) (int, error) {
	switch c.Variant {
	case VariantString:
		s, err := toString(field, value)
		if err != nil {
			return 0, err
		}
		return dictEncodedLen(s), nil
	case VariantBool:
		if _, err := toBool(field, value); err != nil {
			return 0, err
		}
		return 2, nil
	case VariantInt:
		n, err := toInt64(field, value)
		if err != nil {
			return 0, err
		}
		return base62Len(n), nil
	case VariantDecimal:
		f, err := toFloat64(field, value)
		if err != nil {
			return 0, err
		}
		scaled, err := scaleDecimal(f, c.precision())
		if err != nil {
			return 0, &EncodingError{Field: field, Value: fmt.Sprint(value), Reason: err.Error()}
		}
		return base62Len(scaled), nil
	case VariantTimestamp:
		millis, err := timestampMillis(field, value)
		if err != nil {
			return 0, err
		}
		return base62Len(millis), nil
	case VariantIP4:
		return encodedIPLen(false), nil
	case VariantIP6:
		return encodedIPLen(true), nil
	case VariantGeoLat:
		return c.geoEncodedSize(field, value, geoLatSpec)
	case VariantGeoLon:
		return c.geoEncodedSize(field, value, geoLonSpec)
	case VariantEmbedding:
		return c.embeddingEncodedSize(field, value)
	case VariantSecret:
		return c.secretEncodedSize(field, value)
	case VariantJSON:
		raw, err := json.Marshal(value)
		if err != nil {
			return 0, &EncodingError{Field: field, Value: fmt.Sprint(value), Reason: err.Error()}
		}
		return len(raw), nil
	default:
		return 0, &EncodingError{Field: field, Value: fmt.Sprint(value), Reason: fmt.Sprintf("unknown codec variant %d", int(c.Variant))}
	}
}

// decodeJSONValue parses a stored json field. A value carrying the
// truncation marker is returned raw; the cut happened at the wire level
// and the original structure cannot be rebuilt.
func decodeJSONValue(wire string) (any, error) {
	if strings.HasSuffix(wire, TruncationMarker) {
		return wire, nil
	}
	var v any
	if err := json.Unmarshal([]byte(wire), &v); err != nil {
		return nil, err
	}
	return v, nil
}

// TruncationMarker is appended to every field shrunk by the truncate-data
// behavior so readers can tell a cut value from a short one.
const TruncationMarker = "..."

// Value coercion helpers. Records arrive as map[string]any, so numeric
// fields show up as int, int64 or float64 depending on the caller (and as
// float64 whenever they took a trip through encoding/json).

func toString(field string, value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return "", &ValidationError{Field: field, Value: fmt.Sprint(value), Reason: fmt.Sprintf("expected string, got %T", value)}
	}
}

func toBool(field string, value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, &ValidationError{Field: field, Value: v, Reason: "not a boolean"}
		}
		return b, nil
	default:
		return false, &ValidationError{Field: field, Value: fmt.Sprint(value), Reason: fmt.Sprintf("expected bool, got %T", value)}
	}
}

func toInt64(field string, value any) (int64, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case float64:
		if v != float64(int64(v)) {
			return 0, &EncodingError{Field: field, Value: fmt.Sprint(v), Reason: "fractional value for integer codec"}
		}
		return int64(v), nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, &ValidationError{Field: field, Value: v, Reason: "not an integer"}
		}
		return n, nil
	default:
		return 0, &ValidationError{Field: field, Value: fmt.Sprint(value), Reason: fmt.Sprintf("expected integer, got %T", value)}
	}
}

func toFloat64(field string, value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, &ValidationError{Field: field, Value: v, Reason: "not a number"}
		}
		return f, nil
	default:
		return 0, &ValidationError{Field: field, Value: fmt.Sprint(value), Reason: fmt.Sprintf("expected number, got %T", value)}
	}
}
