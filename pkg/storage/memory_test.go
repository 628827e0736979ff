package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/forattini-dev/s3db/pkg/partition"
	"github.com/forattini-dev/s3db/pkg/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_PutGetHead(t *testing.T) {
	store := NewMemoryStore(resolver.DefaultLimits())
	ctx := context.Background()

	metadata := map[string]string{"_v": "1", "id": "X"}
	require.NoError(t, store.PutObject(ctx, "resource=r/data/id=X", metadata, []byte(`{"a":1}`)))

	got, body, err := store.GetObject(ctx, "resource=r/data/id=X")
	require.NoError(t, err)
	assert.Equal(t, metadata, got)
	assert.Equal(t, []byte(`{"a":1}`), body)

	head, err := store.HeadObject(ctx, "resource=r/data/id=X")
	require.NoError(t, err)
	assert.Equal(t, metadata, head)

	// The store holds its own copies.
	metadata["id"] = "mutated"
	head, err = store.HeadObject(ctx, "resource=r/data/id=X")
	require.NoError(t, err)
	assert.Equal(t, "X", head["id"])
}

func TestMemoryStore_NotFound(t *testing.T) {
	store := NewMemoryStore(resolver.DefaultLimits())
	ctx := context.Background()

	_, _, err := store.GetObject(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.HeadObject(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	err = store.CopyObject(ctx, "missing", nil)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, store.DeleteObject(ctx, "missing"), "delete is idempotent")
}

func TestMemoryStore_EnforcesCeiling(t *testing.T) {
	store := NewMemoryStore(resolver.Limits{MetadataLimit: 32})
	ctx := context.Background()

	err := store.PutObject(ctx, "k", map[string]string{"big": strings.Repeat("x", 64)}, nil)
	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)

	require.NoError(t, store.PutObject(ctx, "k", map[string]string{"a": "b"}, nil))
	err = store.CopyObject(ctx, "k", map[string]string{"big": strings.Repeat("x", 64)})
	require.ErrorAs(t, err, &storeErr)
}

func TestMemoryStore_CopyKeepsBody(t *testing.T) {
	store := NewMemoryStore(resolver.DefaultLimits())
	ctx := context.Background()

	require.NoError(t, store.PutObject(ctx, "k", map[string]string{"v": "1"}, []byte("body")))
	require.NoError(t, store.CopyObject(ctx, "k", map[string]string{"v": "2"}))

	metadata, body, err := store.GetObject(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"v": "2"}, metadata)
	assert.Equal(t, []byte("body"), body)
}

func TestMemoryStore_ListKeys(t *testing.T) {
	store := NewMemoryStore(resolver.DefaultLimits())
	ctx := context.Background()

	keys := []string{
		"resource=r/partition=byRegion/region=BR/id=2",
		"resource=r/partition=byRegion/region=US/id=1",
		"resource=r/data/id=1",
		"resource=r/data/id=2",
	}
	for _, k := range keys {
		require.NoError(t, store.PutObject(ctx, k, nil, nil))
	}

	got, err := store.ListKeys(ctx, "resource=r/partition=byRegion/")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"resource=r/partition=byRegion/region=BR/id=2",
		"resource=r/partition=byRegion/region=US/id=1",
	}, got)

	got, err = store.ListKeys(ctx, "resource=r/partition=byRegion/region=US/")
	require.NoError(t, err)
	assert.Equal(t, []string{"resource=r/partition=byRegion/region=US/id=1"}, got)
}

func TestApplyOps_Idempotent(t *testing.T) {
	store := NewMemoryStore(resolver.DefaultLimits())
	ctx := context.Background()

	ops := partition.ReconcileOps(
		[]string{"resource=r/partition=p/f=b/id=X"},
		[]string{"resource=r/partition=p/f=a/id=X"},
	)
	require.NoError(t, ApplyOps(ctx, store, ops))
	require.NoError(t, ApplyOps(ctx, store, ops), "replay is harmless")

	got, err := store.ListKeys(ctx, "resource=r/partition=p/")
	require.NoError(t, err)
	assert.Equal(t, []string{"resource=r/partition=p/f=b/id=X"}, got)
}

func TestApplyAndApplyDelete(t *testing.T) {
	store := NewMemoryStore(resolver.DefaultLimits())
	ctx := context.Background()

	plan := &resolver.WritePlan{
		MainKey:       "resource=r/data/id=X",
		State:         resolver.FitsInMetadata,
		Metadata:      map[string]string{"_v": "1", "id": "X"},
		PartitionAdds: []string{"resource=r/partition=p/f=a/id=X"},
	}
	require.NoError(t, Apply(ctx, store, plan))
	assert.Equal(t, 2, store.Len())

	require.NoError(t, ApplyDelete(ctx, store, plan.MainKey, plan.PartitionAdds))
	assert.Equal(t, 0, store.Len())
}
