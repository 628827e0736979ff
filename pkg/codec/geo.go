package codec

import (
	"fmt"
	"strings"
)

// geoPrefix marks a geo-encoded value. '~' sits outside the base62
// alphabet, so no numeric codec output can collide with it.
const geoPrefix = "~"

// geoSpec describes one coordinate axis: its valid range and the offset
// that removes the sign before fixed-point scaling.
type geoSpec struct {
	name   string
	min    float64
	max    float64
	offset float64
}

var (
	geoLatSpec = geoSpec{name: "latitude", min: -90, max: 90, offset: 90}
	geoLonSpec = geoSpec{name: "longitude", min: -180, max: 180, offset: 180}
)

func (c Codec) geoScaled(field string, value any, spec geoSpec) (int64, error) {
	f, err := toFloat64(field, value)
	if err != nil {
		return 0, err
	}
	if f < spec.min || f > spec.max {
		return 0, &ValidationError{
			Field:  field,
			Value:  fmt.Sprint(value),
			Reason: fmt.Sprintf("%s out of range [%g, %g]", spec.name, spec.min, spec.max),
		}
	}
	scaled, err := scaleDecimal(f+spec.offset, c.precision())
	if err != nil {
		return 0, &EncodingError{Field: field, Value: fmt.Sprint(value), Reason: err.Error()}
	}
	return scaled, nil
}

// encodeGeo normalizes the coordinate to a non-negative fixed-point
// integer and renders it as prefixed base62. The default precision of six
// decimals resolves to roughly 11cm.
func (c Codec) encodeGeo(field string, value any, spec geoSpec) (string, error) {
	scaled, err := c.geoScaled(field, value, spec)
	if err != nil {
		return "", err
	}
	return geoPrefix + encodeBase62(scaled), nil
}

// decodeGeo reverses scale and offset; the result is within 1e-6 of the
// encoded coordinate at default precision.
func (c Codec) decodeGeo(field, wire string, spec geoSpec) (float64, error) {
	if !strings.HasPrefix(wire, geoPrefix) {
		return 0, &ValidationError{Field: field, Value: wire, Reason: "missing geo prefix"}
	}
	scaled, err := decodeBase62(wire[len(geoPrefix):])
	if err != nil {
		return 0, &ValidationError{Field: field, Value: wire, Reason: err.Error()}
	}
	v := unscaleDecimal(scaled, c.precision()) - spec.offset
	if v < spec.min || v > spec.max {
		return 0, &ValidationError{
			Field:  field,
			Value:  wire,
			Reason: fmt.Sprintf("decoded %s out of range [%g, %g]", spec.name, spec.min, spec.max),
		}
	}
	return v, nil
}

func (c Codec) geoEncodedSize(field string, value any, spec geoSpec) (int, error) {
	scaled, err := c.geoScaled(field, value, spec)
	if err != nil {
		return 0, err
	}
	return len(geoPrefix) + base62Len(scaled), nil
}
