package codec

import (
	"fmt"
	"strings"
)

// embeddingSeparator joins vector components. '_' is outside the base62
// alphabet, so component boundaries are unambiguous.
const embeddingSeparator = "_"

// toVector coerces the supported vector representations to []float64.
func toVector(field string, value any) ([]float64, error) {
	switch v := value.(type) {
	case []float64:
		return v, nil
	case []float32:
		out := make([]float64, len(v))
		for i, f := range v {
			out[i] = float64(f)
		}
		return out, nil
	case []any:
		out := make([]float64, len(v))
		for i, e := range v {
			f, err := toFloat64(field, e)
			if err != nil {
				return nil, err
			}
			out[i] = f
		}
		return out, nil
	default:
		return nil, &ValidationError{Field: field, Value: fmt.Sprint(value), Reason: fmt.Sprintf("expected numeric vector, got %T", value)}
	}
}

// checkDimensions enforces the schema-declared vector length. A mismatch
// is a hard error; the codec never pads or truncates a vector silently.
func (c Codec) checkDimensions(field string, vec []float64) error {
	if c.Dimensions > 0 && len(vec) != c.Dimensions {
		return &ValidationError{
			Field:  field,
			Value:  fmt.Sprintf("vector of length %d", len(vec)),
			Reason: fmt.Sprintf("schema declares %d dimensions", c.Dimensions),
		}
	}
	return nil
}

// encodeEmbedding renders each component as fixed-point base62, joined by
// the separator.
func (c Codec) encodeEmbedding(field string, value any) (string, error) {
	vec, err := toVector(field, value)
	if err != nil {
		return "", err
	}
	if err := c.checkDimensions(field, vec); err != nil {
		return "", err
	}
	parts := make([]string, len(vec))
	for i, f := range vec {
		scaled, err := scaleDecimal(f, c.precision())
		if err != nil {
			return "", &EncodingError{Field: field, Value: fmt.Sprint(f), Reason: err.Error()}
		}
		parts[i] = encodeBase62(scaled)
	}
	return strings.Join(parts, embeddingSeparator), nil
}

// decodeEmbedding reverses encodeEmbedding, re-validating the declared
// dimension count.
func (c Codec) decodeEmbedding(field, wire string) ([]float64, error) {
	if wire == "" {
		return nil, &ValidationError{Field: field, Value: wire, Reason: "empty embedding"}
	}
	parts := strings.Split(wire, embeddingSeparator)
	if c.Dimensions > 0 && len(parts) != c.Dimensions {
		return nil, &ValidationError{
			Field:  field,
			Value:  wire,
			Reason: fmt.Sprintf("stored vector has %d components, schema declares %d", len(parts), c.Dimensions),
		}
	}
	vec := make([]float64, len(parts))
	for i, p := range parts {
		scaled, err := decodeBase62(p)
		if err != nil {
			return nil, &ValidationError{Field: field, Value: wire, Reason: err.Error()}
		}
		vec[i] = unscaleDecimal(scaled, c.precision())
	}
	return vec, nil
}

func (c Codec) embeddingEncodedSize(field string, value any) (int, error) {
	vec, err := toVector(field, value)
	if err != nil {
		return 0, err
	}
	if err := c.checkDimensions(field, vec); err != nil {
		return 0, err
	}
	size := 0
	for i, f := range vec {
		scaled, err := scaleDecimal(f, c.precision())
		if err != nil {
			return 0, &EncodingError{Field: field, Value: fmt.Sprint(f), Reason: err.Error()}
		}
		if i > 0 {
			size += len(embeddingSeparator)
		}
		size += base62Len(scaled)
	}
	return size, nil
}
