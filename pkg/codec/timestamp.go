package codec

import (
	"fmt"
	"time"
)

// Accepted ISO-8601 layouts, tried in order. Encoding truncates to
// millisecond granularity; finer fractions do not survive the round trip
// and are rejected up front.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// timestampMillis coerces value to epoch milliseconds.
func timestampMillis(field string, value any) (int64, error) {
	switch v := value.(type) {
	case time.Time:
		return v.UnixMilli(), nil
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case string:
		for _, layout := range timestampLayouts {
			t, err := time.Parse(layout, v)
			if err != nil {
				continue
			}
			if t.UnixMilli()*int64(time.Millisecond) != t.UnixNano() {
				return 0, &EncodingError{Field: field, Value: v, Reason: "sub-millisecond precision cannot be represented"}
			}
			return t.UnixMilli(), nil
		}
		return 0, &EncodingError{Field: field, Value: v, Reason: "not an ISO-8601 timestamp"}
	default:
		return 0, &EncodingError{Field: field, Value: fmt.Sprint(value), Reason: fmt.Sprintf("expected timestamp, got %T", value)}
	}
}

// encodeTimestamp renders an ISO-8601 timestamp as base62 epoch millis.
func encodeTimestamp(field string, value any) (string, error) {
	millis, err := timestampMillis(field, value)
	if err != nil {
		return "", err
	}
	return encodeBase62(millis), nil
}

// decodeTimestamp reverses encodeTimestamp exactly, to the millisecond,
// always in UTC.
func decodeTimestamp(field, wire string) (time.Time, error) {
	millis, err := decodeBase62(wire)
	if err != nil {
		return time.Time{}, &ValidationError{Field: field, Value: wire, Reason: err.Error()}
	}
	return time.UnixMilli(millis).UTC(), nil
}
