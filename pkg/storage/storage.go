// Package storage defines the object-store collaborator the engine's
// WritePlans are executed against, plus local implementations for tests
// and development. The engine itself issues no calls here; an I/O layer
// owns every network round trip and its cancellation.
package storage

import (
	"context"
	"fmt"

	"github.com/forattini-dev/s3db/pkg/partition"
	"github.com/forattini-dev/s3db/pkg/resolver"
)

// ErrNotFound is returned for keys with no object.
var ErrNotFound = &StoreError{Message: "object not found"}

// StoreError is a storage-layer error.
type StoreError struct {
	Message string
}

func (e *StoreError) Error() string {
	return e.Message
}

// ObjectStore is the S3-shaped collaborator contract. Implementations
// must treat metadata maps as immutable after the call returns.
type ObjectStore interface {
	// PutObject writes an object. A nil body stores a zero-byte object.
	PutObject(ctx context.Context, key string, metadata map[string]string, body []byte) error
	// GetObject returns metadata and body; body is nil for zero-byte
	// objects.
	GetObject(ctx context.Context, key string) (map[string]string, []byte, error)
	// HeadObject returns metadata only.
	HeadObject(ctx context.Context, key string) (map[string]string, error)
	// CopyObject rewrites an object's metadata in place, keeping its body.
	CopyObject(ctx context.Context, key string, newMetadata map[string]string) error
	// DeleteObject removes an object. Deleting a missing key is a no-op.
	DeleteObject(ctx context.Context, key string) error
	// ListKeys returns all keys under a prefix, sorted.
	ListKeys(ctx context.Context, prefix string) ([]string, error)
}

// Apply executes a WritePlan: the main object write followed by the
// partition reconciliation operations. Callers wanting eventual
// partition consistency apply the ops through their own dispatcher
// instead; ops are idempotent either way.
func Apply(ctx context.Context, store ObjectStore, plan *resolver.WritePlan) error {
	if err := store.PutObject(ctx, plan.MainKey, plan.Metadata, plan.Body); err != nil {
		return fmt.Errorf("main object write failed: %w", err)
	}
	return ApplyOps(ctx, store, partition.ReconcileOps(plan.PartitionAdds, plan.PartitionRemoves))
}

// ApplyDelete removes a record's main object and its partition entries.
func ApplyDelete(ctx context.Context, store ObjectStore, mainKey string, partitionKeys []string) error {
	if err := store.DeleteObject(ctx, mainKey); err != nil {
		return fmt.Errorf("main object delete failed: %w", err)
	}
	return ApplyOps(ctx, store, partition.ReconcileOps(nil, partitionKeys))
}

// ApplyOps applies partition reconciliation operations in order.
// Re-applying any op is a no-op: adds blindly overwrite the zero-byte
// entry, removes tolerate missing keys.
func ApplyOps(ctx context.Context, store ObjectStore, ops []partition.Op) error {
	for _, op := range ops {
		switch op.Action {
		case partition.ActionAdd:
			if err := store.PutObject(ctx, op.Key, nil, nil); err != nil {
				return fmt.Errorf("partition add %q failed: %w", op.Key, err)
			}
		case partition.ActionRemove:
			if err := store.DeleteObject(ctx, op.Key); err != nil {
				return fmt.Errorf("partition remove %q failed: %w", op.Key, err)
			}
		default:
			return fmt.Errorf("unknown partition op action %q", op.Action)
		}
	}
	return nil
}
