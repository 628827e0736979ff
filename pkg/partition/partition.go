// Package partition derives the deterministic storage keys that make
// records prefix-addressable without a separate index.
//
// Every record gets one main key plus one key per partition definition
// whose fields it carries. Partition keys embed the field values in
// declaration order, so a query can rebuild the identical prefix from the
// definition alone and list matching records with an O(1) equality
// lookup.
//
// When async partitioning is enabled, the main write lands first and the
// add/remove operations returned by ReconcileOps are applied by an
// external dispatcher. The two are not atomic: a partition-scoped query
// may miss a just-written record, or still surface a just-removed one,
// for a bounded window (sub-100ms target). Reads never block on partition
// convergence, and every reconciliation operation is idempotent so the
// dispatcher can retry freely in any order.
package partition

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/forattini-dev/s3db/pkg/schema"
)

// Resolver derives keys for one schema snapshot. It holds no mutable
// state and is safe for concurrent use.
type Resolver struct {
	schema *schema.RecordSchema
}

// NewResolver returns a key resolver for the schema.
func NewResolver(s *schema.RecordSchema) *Resolver {
	return &Resolver{schema: s}
}

// MainKey is the record's canonical storage key:
//
//	resource={name}/data/id={id}
//
// It is a pure function of (resource, id) and stable for the record's
// lifetime.
func (r *Resolver) MainKey(id string) string {
	return fmt.Sprintf("resource=%s/data/id=%s", r.schema.Resource, escapeValue(id))
}

// DataPrefix is the listing prefix covering every main record key of the
// resource.
func (r *Resolver) DataPrefix() string {
	return fmt.Sprintf("resource=%s/data/", r.schema.Resource)
}

// PartitionKey builds the key of one partition entry:
//
//	resource={name}/partition={partition}/{f1}={v1}/.../id={id}
//
// Fields appear in declaration order, never record order. The bool result
// is false when the record lacks one of the partition's fields (or the
// partition is unknown), in which case no entry exists for it.
func (r *Resolver) PartitionKey(partitionName string, record map[string]any, id string) (string, bool) {
	def, ok := r.schema.Partition(partitionName)
	if !ok {
		return "", false
	}
	key := fmt.Sprintf("resource=%s/partition=%s", r.schema.Resource, def.Name)
	for _, field := range def.Fields {
		value, present := record[field]
		if !present || value == nil {
			return "", false
		}
		key += fmt.Sprintf("/%s=%s", field, escapeValue(renderValue(value)))
	}
	return key + fmt.Sprintf("/id=%s", escapeValue(id)), true
}

// Keys returns the record's full partition key set, sorted.
func (r *Resolver) Keys(record map[string]any, id string) []string {
	var keys []string
	for _, def := range r.schema.Partitions {
		if key, ok := r.PartitionKey(def.Name, record, id); ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// QueryPrefix rebuilds the listing prefix for an equality lookup over the
// partition's leading fields. values are matched positionally against the
// declaration order; fewer values than declared fields yields a wider
// prefix.
func (r *Resolver) QueryPrefix(partitionName string, values ...any) (string, error) {
	def, ok := r.schema.Partition(partitionName)
	if !ok {
		return "", fmt.Errorf("unknown partition %q", partitionName)
	}
	if len(values) > len(def.Fields) {
		return "", fmt.Errorf("partition %q declares %d fields, got %d values", partitionName, len(def.Fields), len(values))
	}
	prefix := fmt.Sprintf("resource=%s/partition=%s", r.schema.Resource, def.Name)
	for i, v := range values {
		prefix += fmt.Sprintf("/%s=%s", def.Fields[i], escapeValue(renderValue(v)))
	}
	return prefix + "/", nil
}

// renderValue turns a raw field value into its path representation. The
// raw (pre-codec) value is used so the query side can build prefixes
// without running codecs.
func renderValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(v)
	}
}

// escapeValue path-escapes a value so embedded '/' and control bytes
// cannot break the key layout.
func escapeValue(s string) string {
	return url.PathEscape(s)
}

// UnescapeValue reverses escapeValue; query code uses it when parsing
// listed keys back into field values.
func UnescapeValue(s string) (string, error) {
	return url.PathUnescape(s)
}
