package schema

import (
	"fmt"
	"sort"
)

// Registry is an immutable version-indexed table of RecordSchema
// snapshots for one resource. Decode dispatches on the version recorded
// with each object, so a record written under version 1 keeps decoding
// under version 1 no matter how far the schema has moved on.
type Registry struct {
	resource string
	versions map[int]*RecordSchema
	ordered  []int
}

// NewRegistry builds a registry from one or more snapshots of the same
// resource. At least one snapshot is required.
func NewRegistry(schemas ...*RecordSchema) (*Registry, error) {
	if len(schemas) == 0 {
		return nil, fmt.Errorf("registry requires at least one schema")
	}
	r := &Registry{
		resource: schemas[0].Resource,
		versions: make(map[int]*RecordSchema, len(schemas)),
	}
	for _, s := range schemas {
		if s.Resource != r.resource {
			return nil, fmt.Errorf("registry mixes resources %q and %q", r.resource, s.Resource)
		}
		if _, dup := r.versions[s.Version]; dup {
			return nil, fmt.Errorf("duplicate schema version %d for resource %q", s.Version, r.resource)
		}
		r.versions[s.Version] = s
		r.ordered = append(r.ordered, s.Version)
	}
	sort.Ints(r.ordered)
	return r, nil
}

// With returns a new registry extended by one snapshot; the receiver is
// unchanged.
func (r *Registry) With(s *RecordSchema) (*Registry, error) {
	schemas := make([]*RecordSchema, 0, len(r.ordered)+1)
	for _, v := range r.ordered {
		schemas = append(schemas, r.versions[v])
	}
	return NewRegistry(append(schemas, s)...)
}

// Resource returns the resource name all snapshots share.
func (r *Registry) Resource() string {
	return r.resource
}

// Version resolves a recorded version number to its snapshot. Version 0
// means "no version recorded" and resolves to the oldest snapshot, which
// is what records written before versioning decode under.
func (r *Registry) Version(v int) (*RecordSchema, bool) {
	if v == 0 {
		return r.versions[r.ordered[0]], true
	}
	s, ok := r.versions[v]
	return s, ok
}

// Latest returns the highest-versioned snapshot; new writes use it.
func (r *Registry) Latest() *RecordSchema {
	return r.versions[r.ordered[len(r.ordered)-1]]
}

// Versions lists all known versions in ascending order.
func (r *Registry) Versions() []int {
	return append([]int(nil), r.ordered...)
}
