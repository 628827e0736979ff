// Package engine is the storage engine facade: one call from a typed
// record to the WritePlan an I/O collaborator executes.
//
// The engine composes the codec registry, the size-aware behavior
// resolver and the partition path resolver. Every operation is a pure
// function of its explicit inputs (the secret codec's nonces and
// generated record ids aside) and performs no I/O; any number of
// goroutines may share one Engine without locking.
package engine

import (
	"fmt"
	"strconv"

	"github.com/segmentio/ksuid"

	"github.com/forattini-dev/s3db/pkg/events"
	"github.com/forattini-dev/s3db/pkg/partition"
	"github.com/forattini-dev/s3db/pkg/resolver"
	"github.com/forattini-dev/s3db/pkg/schema"
)

// Config wires an Engine.
type Config struct {
	// Registry supplies the resource's schema snapshots. Required.
	Registry *schema.Registry
	// Limits overrides the backend's metadata arithmetic; zero value
	// means the S3 defaults.
	Limits resolver.Limits
	// Notifier receives size notifications; nil discards them.
	Notifier events.Notifier
}

// Engine plans writes and decodes stored records for one resource.
type Engine struct {
	registry *schema.Registry
	limits   resolver.Limits
	notifier events.Notifier
}

// New builds an Engine from the config.
func New(cfg Config) (*Engine, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("engine requires a schema registry")
	}
	limits := cfg.Limits
	if limits.MetadataLimit == 0 {
		limits = resolver.DefaultLimits()
	}
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = events.NopNotifier{}
	}
	return &Engine{registry: cfg.Registry, limits: limits, notifier: notifier}, nil
}

// Schema returns the snapshot new writes are planned under.
func (e *Engine) Schema() *schema.RecordSchema {
	return e.registry.Latest()
}

// PathResolver returns the partition path resolver for the latest
// snapshot; query code uses it to rebuild listing prefixes.
func (e *Engine) PathResolver() *partition.Resolver {
	return partition.NewResolver(e.registry.Latest())
}

// PlanInsert validates and encodes a new record and returns its
// WritePlan. A missing id is generated (ksuid); the returned plan's
// MainKey embeds it.
func (e *Engine) PlanInsert(record map[string]any) (*resolver.WritePlan, error) {
	return e.plan(record, nil, "insert")
}

// PlanUpdate is PlanInsert for an existing record: prev is the record's
// previous logical state and feeds the partition key diff. Unrelated
// field changes produce an empty diff. When record omits the id it is
// taken from prev, so the plan keeps targeting the stored object.
func (e *Engine) PlanUpdate(record, prev map[string]any) (*resolver.WritePlan, error) {
	if prev == nil {
		return nil, fmt.Errorf("update requires the record's previous state")
	}
	return e.plan(record, prev, "update")
}

// DeletePlan names everything a record removal must touch.
type DeletePlan struct {
	MainKey          string
	PartitionRemoves []string
}

// PlanDelete returns the plan removing a record: its main key and every
// partition entry derived from its last known state.
func (e *Engine) PlanDelete(prev map[string]any) (*DeletePlan, error) {
	id, err := recordID(prev)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, fmt.Errorf("delete requires the record id")
	}
	paths := partition.NewResolver(e.registry.Latest())
	return &DeletePlan{
		MainKey:          paths.MainKey(id),
		PartitionRemoves: paths.Keys(prev, id),
	}, nil
}

func (e *Engine) plan(record, prev map[string]any, operation string) (*resolver.WritePlan, error) {
	s := e.registry.Latest()
	if err := s.ValidateRecord(record); err != nil {
		return nil, err
	}

	id, err := recordID(record)
	if err != nil {
		return nil, err
	}
	if id == "" && prev != nil {
		// An update keeps targeting the stored record's keys.
		if id, err = recordID(prev); err != nil {
			return nil, err
		}
		if id == "" {
			return nil, fmt.Errorf("update requires the record id")
		}
	}
	if id == "" {
		id = ksuid.New().String()
	}
	record = withID(record, id)

	metadata, err := encodeRecord(s, record)
	if err != nil {
		return nil, err
	}

	plan, err := resolver.Resolve(resolver.Input{
		Schema:    s,
		RecordID:  id,
		Operation: operation,
		Metadata:  metadata,
	}, e.limits, e.notifier)
	if err != nil {
		return nil, err
	}

	paths := partition.NewResolver(s)
	plan.MainKey = paths.MainKey(id)
	plan.PartitionAdds, plan.PartitionRemoves = paths.DiffRecords(prev, record, id)
	return plan, nil
}

// Decode reconstructs the logical record from a stored object's metadata
// and body, dispatching on the version the record was written under.
// Records from before versioning (no marker) decode under the oldest
// snapshot; they are never reinterpreted under a newer shape.
func (e *Engine) Decode(metadata map[string]string, body []byte) (map[string]any, error) {
	version := 0
	if raw, ok := metadata[schema.VersionKey]; ok {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("corrupt version marker %q", raw)
		}
		version = v
	}
	s, ok := e.registry.Version(version)
	if !ok {
		return nil, fmt.Errorf("record written under unknown schema version %d", version)
	}
	return resolver.DecodeRecord(s, metadata, body)
}

// encodeRecord runs every present field through its compiled codec and
// stamps the version marker.
func encodeRecord(s *schema.RecordSchema, record map[string]any) (map[string]string, error) {
	metadata := make(map[string]string, len(record)+1)
	metadata[schema.VersionKey] = strconv.Itoa(s.Version)
	for _, attr := range s.Attributes {
		value, present := record[attr.Name]
		if !present {
			continue
		}
		wire, err := attr.Codec.Encode(attr.Name, value)
		if err != nil {
			return nil, err
		}
		metadata[attr.Name] = wire
	}
	return metadata, nil
}

func recordID(record map[string]any) (string, error) {
	raw, present := record[schema.IDField]
	if !present {
		return "", nil
	}
	id, ok := raw.(string)
	if !ok || id == "" {
		return "", fmt.Errorf("record id must be a non-empty string, got %T", raw)
	}
	return id, nil
}

func withID(record map[string]any, id string) map[string]any {
	out := make(map[string]any, len(record)+1)
	for k, v := range record {
		out[k] = v
	}
	out[schema.IDField] = id
	return out
}
