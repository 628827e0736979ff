package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/forattini-dev/s3db/pkg/resolver"
)

type memoryObject struct {
	metadata map[string]string
	body     []byte
}

// MemoryStore is an in-process ObjectStore. It enforces the same
// metadata ceiling a real backend would, which lets tests observe the
// user-managed behavior's "backend may reject it" contract.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
	limits  resolver.Limits
}

// NewMemoryStore returns an empty store enforcing the given limits; the
// zero value means the S3 defaults.
func NewMemoryStore(limits resolver.Limits) *MemoryStore {
	if limits.MetadataLimit == 0 {
		limits = resolver.DefaultLimits()
	}
	return &MemoryStore{
		objects: make(map[string]memoryObject),
		limits:  limits,
	}
}

func (m *MemoryStore) PutObject(_ context.Context, key string, metadata map[string]string, body []byte) error {
	if !resolver.Fits(metadata, m.limits) {
		return &StoreError{Message: fmt.Sprintf("metadata size %d exceeds backend limit %d",
			resolver.MetadataSize(metadata, m.limits), m.limits.MetadataLimit)}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = memoryObject{metadata: cloneMap(metadata), body: cloneBytes(body)}
	return nil
}

func (m *MemoryStore) GetObject(_ context.Context, key string) (map[string]string, []byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	if !ok {
		return nil, nil, ErrNotFound
	}
	return cloneMap(obj.metadata), cloneBytes(obj.body), nil
}

func (m *MemoryStore) HeadObject(_ context.Context, key string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneMap(obj.metadata), nil
}

func (m *MemoryStore) CopyObject(_ context.Context, key string, newMetadata map[string]string) error {
	if !resolver.Fits(newMetadata, m.limits) {
		return &StoreError{Message: fmt.Sprintf("metadata size %d exceeds backend limit %d",
			resolver.MetadataSize(newMetadata, m.limits), m.limits.MetadataLimit)}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[key]
	if !ok {
		return ErrNotFound
	}
	obj.metadata = cloneMap(newMetadata)
	m.objects[key] = obj
	return nil
}

func (m *MemoryStore) DeleteObject(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *MemoryStore) ListKeys(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var keys []string
	for k := range m.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Len returns the object count; test helper.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

func cloneMap(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneBytes(in []byte) []byte {
	if in == nil {
		return nil
	}
	return append([]byte(nil), in...)
}
