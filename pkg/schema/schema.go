package schema

import (
	"fmt"

	"github.com/forattini-dev/s3db/pkg/codec"
)

// Behavior is the configured policy applied when a record's encoded
// metadata footprint exceeds the ceiling.
type Behavior string

const (
	// BehaviorUserManaged notifies and writes anyway; the backend may
	// still reject the object.
	BehaviorUserManaged Behavior = "user-managed"
	// BehaviorEnforceLimits rejects the write with MetadataExceededError.
	BehaviorEnforceLimits Behavior = "enforce-limits"
	// BehaviorTruncateData shrinks the longest truncatable fields until
	// the record fits.
	BehaviorTruncateData Behavior = "truncate-data"
	// BehaviorBodyOverflow keeps a mandatory core in metadata and spills
	// the rest into the object body.
	BehaviorBodyOverflow Behavior = "body-overflow"
	// BehaviorBodyOnly stores the whole record in the object body.
	BehaviorBodyOnly Behavior = "body-only"
)

// Valid reports whether b is a known behavior.
func (b Behavior) Valid() bool {
	switch b {
	case BehaviorUserManaged, BehaviorEnforceLimits, BehaviorTruncateData,
		BehaviorBodyOverflow, BehaviorBodyOnly:
		return true
	}
	return false
}

// VersionKey is the reserved metadata key carrying the schema version of a
// persisted record. Decode dispatches on it; body-only records keep it as
// their single metadata field.
const VersionKey = "_v"

// IDField is the reserved attribute name of the record identifier.
const IDField = "id"

// PartitionDefinition names an ordered list of attributes whose values
// form a prefix-addressable secondary key. Field order is fixed by the
// declaration, never by record insertion order, so a query can rebuild an
// identical prefix from the same declaration.
type PartitionDefinition struct {
	Name   string
	Fields []string
}

// Definition is one attribute declaration handed to New: a field name and
// its raw type tag.
type Definition struct {
	Name string
	Type string
}

// Config carries everything needed to build a RecordSchema snapshot.
type Config struct {
	Resource   string
	Version    int
	Attributes []Definition
	Partitions []PartitionDefinition
	Behavior   Behavior
	Passphrase string // key material for secret attributes
	Iterations int    // KDF rounds for secret attributes; 0 = default
}

// RecordSchema is an immutable, versioned snapshot of a resource's shape:
// ordered compiled attributes, partition definitions and the size
// behavior. A structural change produces a new snapshot under the next
// version; existing snapshots are never mutated, so old records always
// decode under the schema they were written with.
type RecordSchema struct {
	Resource   string
	Version    int
	Attributes []AttributeSpec
	Partitions []PartitionDefinition
	Behavior   Behavior
	Passphrase string
	Iterations int

	byName map[string]int
}

// New compiles a Config into a RecordSchema, parsing every type tag once.
func New(cfg Config) (*RecordSchema, error) {
	if cfg.Resource == "" {
		return nil, fmt.Errorf("schema requires a resource name")
	}
	if cfg.Version <= 0 {
		return nil, fmt.Errorf("schema requires a positive version, got %d", cfg.Version)
	}
	behavior := cfg.Behavior
	if behavior == "" {
		behavior = BehaviorUserManaged
	}
	if !behavior.Valid() {
		return nil, fmt.Errorf("unknown behavior %q", behavior)
	}

	s := &RecordSchema{
		Resource:   cfg.Resource,
		Version:    cfg.Version,
		Partitions: append([]PartitionDefinition(nil), cfg.Partitions...),
		Behavior:   behavior,
		Passphrase: cfg.Passphrase,
		Iterations: cfg.Iterations,
		byName:     make(map[string]int, len(cfg.Attributes)+1),
	}

	defs := cfg.Attributes
	hasID := false
	for _, d := range defs {
		if d.Name == IDField {
			hasID = true
		}
	}
	if !hasID {
		defs = append([]Definition{{Name: IDField, Type: "string|required"}}, defs...)
	}

	for _, d := range defs {
		if d.Name == VersionKey {
			return nil, fmt.Errorf("attribute name %q is reserved", VersionKey)
		}
		if _, dup := s.byName[d.Name]; dup {
			return nil, fmt.Errorf("duplicate attribute %q", d.Name)
		}
		spec, err := ParseAttribute(d.Name, d.Type)
		if err != nil {
			return nil, err
		}
		if spec.Codec.Variant == codec.VariantSecret {
			spec.Codec.Passphrase = cfg.Passphrase
			spec.Codec.Iterations = cfg.Iterations
		}
		s.byName[d.Name] = len(s.Attributes)
		s.Attributes = append(s.Attributes, spec)
	}

	for _, p := range s.Partitions {
		if p.Name == "" {
			return nil, fmt.Errorf("partition with empty name")
		}
		if len(p.Fields) == 0 {
			return nil, fmt.Errorf("partition %q declares no fields", p.Name)
		}
	}
	return s, nil
}

// Attribute returns the compiled spec for a field name.
func (s *RecordSchema) Attribute(name string) (AttributeSpec, bool) {
	i, ok := s.byName[name]
	if !ok {
		return AttributeSpec{}, false
	}
	return s.Attributes[i], true
}

// HasAttribute reports whether the schema declares the field.
func (s *RecordSchema) HasAttribute(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// Partition returns a partition definition by name.
func (s *RecordSchema) Partition(name string) (PartitionDefinition, bool) {
	for _, p := range s.Partitions {
		if p.Name == name {
			return p, true
		}
	}
	return PartitionDefinition{}, false
}

// PartitionFieldSet returns the union of all fields referenced by any
// partition definition.
func (s *RecordSchema) PartitionFieldSet() map[string]struct{} {
	set := make(map[string]struct{})
	for _, p := range s.Partitions {
		for _, f := range p.Fields {
			set[f] = struct{}{}
		}
	}
	return set
}

// FindOrphanedPartitions lists partition definitions referencing at least
// one attribute the schema no longer declares. Pure inspection; orphans
// never block unrelated operations.
func (s *RecordSchema) FindOrphanedPartitions() []string {
	var orphaned []string
	for _, p := range s.Partitions {
		for _, f := range p.Fields {
			if !s.HasAttribute(f) {
				orphaned = append(orphaned, p.Name)
				break
			}
		}
	}
	return orphaned
}

// RemoveOrphanedPartitions returns a copy of the schema with every
// orphaned partition definition stripped. The receiver is not modified.
func (s *RecordSchema) RemoveOrphanedPartitions() *RecordSchema {
	orphaned := make(map[string]struct{})
	for _, name := range s.FindOrphanedPartitions() {
		orphaned[name] = struct{}{}
	}
	out := *s
	out.Partitions = nil
	for _, p := range s.Partitions {
		if _, gone := orphaned[p.Name]; !gone {
			out.Partitions = append(out.Partitions, p)
		}
	}
	return &out
}

// ValidateRecord checks required fields and per-attribute rules for one
// record. Unknown fields are rejected so typos never silently drop data.
func (s *RecordSchema) ValidateRecord(record map[string]any) error {
	for name := range record {
		if name == VersionKey {
			continue
		}
		if !s.HasAttribute(name) {
			return &codec.ValidationError{Field: name, Value: fmt.Sprint(record[name]), Reason: "field not declared by schema"}
		}
	}
	for _, a := range s.Attributes {
		v, present := record[a.Name]
		if !present {
			if a.Rules.Required && a.Name != IDField {
				// The engine generates ids; every other required field
				// must be supplied by the caller.
				return &codec.ValidationError{Field: a.Name, Value: "", Reason: "required field is missing"}
			}
			continue
		}
		if err := a.Validate(v); err != nil {
			return err
		}
	}
	return nil
}
