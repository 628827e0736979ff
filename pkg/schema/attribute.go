package schema

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/forattini-dev/s3db/pkg/codec"
)

// Rules is the validation rule set compiled from an attribute's type tag.
// Min and Max apply to string/json byte length for textual variants and to
// the numeric value for numeric ones.
type Rules struct {
	Required bool
	Min      *float64
	Max      *float64
}

// AttributeSpec is one compiled field of a RecordSchema. Name is the
// flattened dot path of the field (nested attributes are declared as
// "profile.country"). The raw type tag is parsed exactly once, at schema
// build time; the hot path only ever touches the compiled Codec and Rules.
type AttributeSpec struct {
	Name  string
	Type  string // original tag, kept for inspection and snapshots
	Codec codec.Codec
	Rules Rules
}

// ParseAttribute compiles a type tag like "string|required|min:2" into an
// AttributeSpec. Supported base types: string, int, decimal[:precision],
// bool, ts, ip4, ip6, geoLat, geoLon, embedding:<dims>[:precision],
// secret, json. Supported flags: required, optional, min:<n>, max:<n>.
func ParseAttribute(name, tag string) (AttributeSpec, error) {
	if name == "" {
		return AttributeSpec{}, fmt.Errorf("attribute name must not be empty")
	}
	parts := strings.Split(tag, "|")
	base := strings.TrimSpace(parts[0])

	c, err := parseBaseType(name, base)
	if err != nil {
		return AttributeSpec{}, err
	}

	spec := AttributeSpec{Name: name, Type: tag, Codec: c}
	for _, flag := range parts[1:] {
		flag = strings.TrimSpace(flag)
		switch {
		case flag == "required":
			spec.Rules.Required = true
		case flag == "optional":
			spec.Rules.Required = false
		case strings.HasPrefix(flag, "min:"):
			v, err := strconv.ParseFloat(flag[len("min:"):], 64)
			if err != nil {
				return AttributeSpec{}, fmt.Errorf("attribute %q: invalid min rule %q", name, flag)
			}
			spec.Rules.Min = &v
		case strings.HasPrefix(flag, "max:"):
			v, err := strconv.ParseFloat(flag[len("max:"):], 64)
			if err != nil {
				return AttributeSpec{}, fmt.Errorf("attribute %q: invalid max rule %q", name, flag)
			}
			spec.Rules.Max = &v
		case flag == "":
			// trailing separator, tolerated
		default:
			return AttributeSpec{}, fmt.Errorf("attribute %q: unknown rule %q", name, flag)
		}
	}
	return spec, nil
}

func parseBaseType(name, base string) (codec.Codec, error) {
	typeName, params, _ := strings.Cut(base, ":")
	switch typeName {
	case "string":
		return codec.New(codec.VariantString), nil
	case "int":
		return codec.New(codec.VariantInt), nil
	case "bool":
		return codec.New(codec.VariantBool), nil
	case "ts", "timestamp":
		return codec.New(codec.VariantTimestamp), nil
	case "ip4":
		return codec.New(codec.VariantIP4), nil
	case "ip6":
		return codec.New(codec.VariantIP6), nil
	case "geoLat":
		return codec.New(codec.VariantGeoLat), nil
	case "geoLon":
		return codec.New(codec.VariantGeoLon), nil
	case "secret":
		return codec.New(codec.VariantSecret), nil
	case "json", "array":
		return codec.New(codec.VariantJSON), nil
	case "decimal":
		c := codec.New(codec.VariantDecimal)
		if params != "" {
			p, err := strconv.Atoi(params)
			if err != nil || p < 0 {
				return codec.Codec{}, fmt.Errorf("attribute %q: invalid decimal precision %q", name, params)
			}
			c.Precision = p
		}
		return c, nil
	case "embedding":
		if params == "" {
			return codec.Codec{}, fmt.Errorf("attribute %q: embedding requires a dimension, e.g. embedding:384", name)
		}
		dimStr, precStr, _ := strings.Cut(params, ":")
		dim, err := strconv.Atoi(dimStr)
		if err != nil || dim <= 0 {
			return codec.Codec{}, fmt.Errorf("attribute %q: invalid embedding dimension %q", name, dimStr)
		}
		c := codec.New(codec.VariantEmbedding)
		c.Dimensions = dim
		if precStr != "" {
			p, err := strconv.Atoi(precStr)
			if err != nil || p < 0 {
				return codec.Codec{}, fmt.Errorf("attribute %q: invalid embedding precision %q", name, precStr)
			}
			c.Precision = p
		}
		return c, nil
	default:
		return codec.Codec{}, fmt.Errorf("attribute %q: unknown type %q", name, typeName)
	}
}

// Validate checks a concrete value against the compiled rule set.
func (a AttributeSpec) Validate(value any) error {
	switch a.Codec.Variant {
	case codec.VariantString, codec.VariantSecret, codec.VariantJSON:
		s, ok := value.(string)
		if !ok {
			// Non-string json values are bounded by their encoded form;
			// min/max rules only constrain textual input here.
			return nil
		}
		n := float64(utf8.RuneCountInString(s))
		if a.Rules.Min != nil && n < *a.Rules.Min {
			return &codec.ValidationError{Field: a.Name, Value: s, Reason: fmt.Sprintf("shorter than minimum length %g", *a.Rules.Min)}
		}
		if a.Rules.Max != nil && n > *a.Rules.Max {
			return &codec.ValidationError{Field: a.Name, Value: s, Reason: fmt.Sprintf("longer than maximum length %g", *a.Rules.Max)}
		}
	case codec.VariantInt, codec.VariantDecimal:
		f, ok := numericValue(value)
		if !ok {
			return nil // the codec rejects non-numeric input with a better message
		}
		if a.Rules.Min != nil && f < *a.Rules.Min {
			return &codec.ValidationError{Field: a.Name, Value: fmt.Sprint(value), Reason: fmt.Sprintf("below minimum %g", *a.Rules.Min)}
		}
		if a.Rules.Max != nil && f > *a.Rules.Max {
			return &codec.ValidationError{Field: a.Name, Value: fmt.Sprint(value), Reason: fmt.Sprintf("above maximum %g", *a.Rules.Max)}
		}
	}
	return nil
}

func numericValue(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	case float32:
		return float64(v), true
	}
	return 0, false
}

// Truncatable reports whether the truncate-data behavior may shrink this
// field. Only optional plain string and json fields qualify; cutting
// inside a structured codec's output would corrupt it.
func (a AttributeSpec) Truncatable() bool {
	if a.Rules.Required {
		return false
	}
	return !a.Codec.Variant.Structured()
}
