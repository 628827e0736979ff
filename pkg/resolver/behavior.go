package resolver

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/forattini-dev/s3db/pkg/codec"
	"github.com/forattini-dev/s3db/pkg/events"
	"github.com/forattini-dev/s3db/pkg/schema"
)

// Input is one resolution request: a schema snapshot, the record's
// already-encoded metadata map (version marker included) and enough
// context to label notifications.
type Input struct {
	Schema    *schema.RecordSchema
	RecordID  string
	Operation string
	Metadata  map[string]string
}

// Resolve applies the schema's behavior to the encoded record and returns
// the WritePlan describing its storage shape. The input map is never
// modified. Notifications go to notify fire-and-forget; pass nil to
// discard them.
func Resolve(in Input, limits Limits, notify events.Notifier) (*WritePlan, error) {
	if notify == nil {
		notify = events.NopNotifier{}
	}

	metadata := cloneMetadata(in.Metadata)

	if in.Schema.Behavior == schema.BehaviorBodyOnly {
		return resolveBodyOnly(metadata)
	}

	total := MetadataSize(metadata, limits)
	limit := limits.limit()
	if total <= limit {
		return &WritePlan{State: FitsInMetadata, Metadata: metadata}, nil
	}

	switch in.Schema.Behavior {
	case schema.BehaviorUserManaged:
		// Never drop data here; the backend may still reject the object.
		notify.NotifyExceedsLimit(events.ExceedsLimit{
			Operation: in.Operation,
			RecordID:  in.RecordID,
			TotalSize: total,
			Limit:     limit,
			Excess:    total - limit,
		})
		return &WritePlan{State: FitsInMetadata, Metadata: metadata}, nil

	case schema.BehaviorEnforceLimits:
		return nil, &MetadataExceededError{TotalSize: total, Limit: limit, Excess: total - limit}

	case schema.BehaviorTruncateData:
		return resolveTruncate(in, metadata, total, limits, notify)

	case schema.BehaviorBodyOverflow:
		return resolveOverflow(in, metadata, limits, notify)

	default:
		return nil, fmt.Errorf("unknown behavior %q", in.Schema.Behavior)
	}
}

// resolveBodyOnly serializes the entire record into the body; metadata
// retains only the version marker so decode knows which schema to use.
func resolveBodyOnly(metadata map[string]string) (*WritePlan, error) {
	version := metadata[schema.VersionKey]
	delete(metadata, schema.VersionKey)

	body, err := encodeBody(metadata)
	if err != nil {
		return nil, err
	}
	return &WritePlan{
		State:    BodyOnly,
		Metadata: map[string]string{schema.VersionKey: version},
		Body:     body,
	}, nil
}

// resolveTruncate repeatedly shrinks the longest truncatable field until
// the record fits. Partition fields, required fields and structured codec
// output are never candidates; cutting them would corrupt keys or data.
func resolveTruncate(in Input, metadata map[string]string, total int, limits Limits, notify events.Notifier) (*WritePlan, error) {
	limit := limits.limit()
	partitioned := in.Schema.PartitionFieldSet()

	candidates := make(map[string]struct{})
	for name := range metadata {
		attr, ok := in.Schema.Attribute(name)
		if !ok || !attr.Truncatable() {
			continue
		}
		if _, isPartitionField := partitioned[name]; isPartitionField {
			continue
		}
		candidates[name] = struct{}{}
	}

	marker := codec.TruncationMarker
	before := make(map[string]int)
	totalBefore := total

	for total > limit {
		// Re-select the currently-longest candidate each round.
		longest := ""
		for name := range candidates {
			if longest == "" || len(metadata[name]) > len(metadata[longest]) {
				longest = name
			}
		}
		if longest == "" {
			return nil, &MetadataExceededError{TotalSize: total, Limit: limit, Excess: total - limit}
		}

		value := metadata[longest]
		freeable := len(value) - len(marker)
		if freeable <= 0 {
			delete(candidates, longest)
			continue
		}
		cut := total - limit
		if cut > freeable {
			cut = freeable
		}

		if _, seen := before[longest]; !seen {
			before[longest] = len(value)
		}
		content := strings.TrimSuffix(value, marker)
		keep := len(value) - cut - len(marker)
		if keep < 0 {
			keep = 0
		}
		if keep > len(content) {
			keep = len(content)
		}
		metadata[longest] = content[:keep] + marker
		total -= len(value) - len(metadata[longest])
	}

	fields := make([]events.TruncatedField, 0, len(before))
	for name, size := range before {
		fields = append(fields, events.TruncatedField{Name: name, Before: size, After: len(metadata[name])})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })

	notify.NotifyTruncate(events.Truncate{
		Operation:   in.Operation,
		RecordID:    in.RecordID,
		Fields:      fields,
		TotalBefore: totalBefore,
		TotalAfter:  total,
	})
	return &WritePlan{State: Truncated, Metadata: metadata}, nil
}

// resolveOverflow retains the mandatory core (id, version marker,
// timestamps, every declared partition field) in metadata and moves the
// remaining fields, largest first, into the body until metadata fits.
func resolveOverflow(in Input, metadata map[string]string, limits Limits, notify events.Notifier) (*WritePlan, error) {
	limit := limits.limit()
	core := coreFieldSet(in.Schema)

	type sized struct {
		name string
		size int
	}
	var movable []sized
	for name, value := range metadata {
		if _, mandatory := core[name]; mandatory {
			continue
		}
		movable = append(movable, sized{name: name, size: FieldSize(name, value, limits)})
	}
	// Largest first; names break ties so resolution stays deterministic.
	sort.Slice(movable, func(i, j int) bool {
		if movable[i].size != movable[j].size {
			return movable[i].size > movable[j].size
		}
		return movable[i].name < movable[j].name
	})

	moved := make(map[string]string)
	total := MetadataSize(metadata, limits)
	for _, f := range movable {
		if total <= limit {
			break
		}
		moved[f.name] = metadata[f.name]
		delete(metadata, f.name)
		total -= f.size
	}
	if total > limit {
		// The mandatory core alone does not fit; no layout can save this.
		return nil, &MetadataExceededError{TotalSize: total, Limit: limit, Excess: total - limit}
	}

	body, err := encodeBody(moved)
	if err != nil {
		return nil, err
	}
	notify.NotifyOverflow(events.Overflow{
		Operation:    in.Operation,
		RecordID:     in.RecordID,
		MetadataSize: total,
		BodySize:     len(body),
	})
	return &WritePlan{State: Overflowed, Metadata: metadata, Body: body}, nil
}

// coreFieldSet lists the fields body-overflow must keep in metadata.
func coreFieldSet(s *schema.RecordSchema) map[string]struct{} {
	core := map[string]struct{}{
		schema.IDField:    {},
		schema.VersionKey: {},
	}
	for _, a := range s.Attributes {
		if a.Codec.Variant == codec.VariantTimestamp {
			core[a.Name] = struct{}{}
		}
	}
	for f := range s.PartitionFieldSet() {
		core[f] = struct{}{}
	}
	return core
}

// encodeBody serializes encoded fields as a JSON object. Keys marshal in
// sorted order, so identical inputs produce identical bodies.
func encodeBody(fields map[string]string) ([]byte, error) {
	body, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize body payload: %w", err)
	}
	return body, nil
}

// decodeBody parses a body payload produced by encodeBody.
func decodeBody(body []byte) (map[string]string, error) {
	var fields map[string]string
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("failed to parse body payload: %w", err)
	}
	return fields, nil
}

func cloneMetadata(metadata map[string]string) map[string]string {
	out := make(map[string]string, len(metadata))
	for k, v := range metadata {
		out[k] = v
	}
	return out
}
