// Package resolver decides how a record's encoded fields are laid out
// relative to the metadata ceiling.
//
// Given a schema, an already-encoded metadata map and the configured
// behavior, Resolve produces a WritePlan: the exact metadata map and/or
// body payload to persist. Resolution is a pure function of its inputs;
// no state survives between calls and nothing here performs I/O.
package resolver

import "fmt"

// PlanState is the outcome of one resolution. It is a pure function of
// (size, behavior, schema).
type PlanState int

const (
	// FitsInMetadata: everything fits; behavior was irrelevant.
	FitsInMetadata PlanState = iota
	// Truncated: truncate-data shrank one or more fields.
	Truncated
	// Overflowed: body-overflow moved fields into the body.
	Overflowed
	// BodyOnly: the whole record lives in the body.
	BodyOnly
	// Rejected: enforce-limits refused the write. Plans never carry this
	// state; Resolve returns MetadataExceededError instead.
	Rejected
)

func (s PlanState) String() string {
	switch s {
	case FitsInMetadata:
		return "fits-in-metadata"
	case Truncated:
		return "truncated"
	case Overflowed:
		return "overflowed"
	case BodyOnly:
		return "body-only"
	case Rejected:
		return "rejected"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Limits carries the backend's metadata arithmetic. MetadataLimit is the
// hard ceiling; PerFieldOverhead is the constant framing cost the backend
// charges per key/value pair on top of the raw byte lengths. Verify the
// overhead empirically against the target backend (S3 itself charges
// none: its 2 KB accounting sums UTF-8 key and value bytes only).
type Limits struct {
	MetadataLimit    int
	PerFieldOverhead int
}

// DefaultMetadataLimit is the hard ceiling on a storage object's custom
// metadata.
const DefaultMetadataLimit = 2047

// DefaultLimits returns the S3-compatible limit arithmetic.
func DefaultLimits() Limits {
	return Limits{MetadataLimit: DefaultMetadataLimit}
}

func (l Limits) limit() int {
	if l.MetadataLimit <= 0 {
		return DefaultMetadataLimit
	}
	return l.MetadataLimit
}

// WritePlan describes exactly what to persist for one record: the final
// metadata map, the body payload (nil when none) and the partition keys
// to add and remove. Plans are ephemeral; the I/O collaborator executes
// one and discards it.
type WritePlan struct {
	MainKey  string
	State    PlanState
	Metadata map[string]string
	Body     []byte

	PartitionAdds    []string
	PartitionRemoves []string
}

// MetadataExceededError reports a record that could not be made to fit:
// either enforce-limits refused it outright or truncate-data ran out of
// shrinkable fields. The write is never attempted.
type MetadataExceededError struct {
	TotalSize int
	Limit     int
	Excess    int
}

func (e *MetadataExceededError) Error() string {
	return fmt.Sprintf("metadata size %d exceeds limit %d by %d bytes", e.TotalSize, e.Limit, e.Excess)
}
