package resolver

import (
	"github.com/forattini-dev/s3db/pkg/schema"
)

// DecodeRecord reconstructs the logical record from whatever layout the
// plan produced: metadata-resident fields merged with the parsed body, if
// one is present. Metadata wins on conflict; a field retained in
// metadata is always at least as fresh as a body copy.
//
// The version marker is dropped from the result; callers dispatch on it
// before choosing the schema snapshot to decode under.
func DecodeRecord(s *schema.RecordSchema, metadata map[string]string, body []byte) (map[string]any, error) {
	encoded := make(map[string]string, len(metadata))
	if len(body) > 0 {
		bodyFields, err := decodeBody(body)
		if err != nil {
			return nil, err
		}
		for k, v := range bodyFields {
			encoded[k] = v
		}
	}
	for k, v := range metadata {
		encoded[k] = v
	}

	record := make(map[string]any, len(encoded))
	for name, wire := range encoded {
		if name == schema.VersionKey {
			continue
		}
		attr, ok := s.Attribute(name)
		if !ok {
			// Field written under a wider schema shape; surface the raw
			// wire string rather than guessing a codec.
			record[name] = wire
			continue
		}
		value, err := attr.Codec.Decode(name, wire)
		if err != nil {
			return nil, err
		}
		record[name] = value
	}
	return record, nil
}
