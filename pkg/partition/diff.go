package partition

import "sort"

// Action distinguishes the two reconciliation operations.
type Action string

const (
	ActionAdd    Action = "add"
	ActionRemove Action = "remove"
)

// Op is one idempotent partition reconciliation operation: create or
// delete a single partition entry key. Re-applying an Op is a no-op
// (adds blindly overwrite the zero-byte pointer object, removes tolerate
// an already-missing key), so an external dispatcher can retry in any
// order. The resolver never schedules or retries; that is the
// dispatcher's job.
type Op struct {
	Action Action
	Key    string
}

// Diff computes the symmetric difference between a record's previous and
// new partition key sets, yielding the exact add and remove lists, both
// sorted. Unrelated field changes produce identical key sets and an
// empty diff.
func Diff(prev, next []string) (adds, removes []string) {
	prevSet := make(map[string]struct{}, len(prev))
	for _, k := range prev {
		prevSet[k] = struct{}{}
	}
	nextSet := make(map[string]struct{}, len(next))
	for _, k := range next {
		nextSet[k] = struct{}{}
	}

	for _, k := range next {
		if _, existed := prevSet[k]; !existed {
			adds = append(adds, k)
		}
	}
	for _, k := range prev {
		if _, kept := nextSet[k]; !kept {
			removes = append(removes, k)
		}
	}
	sort.Strings(adds)
	sort.Strings(removes)
	return adds, removes
}

// DiffRecords diffs the key sets of two record states. prev may be nil
// for an insert.
func (r *Resolver) DiffRecords(prev, next map[string]any, id string) (adds, removes []string) {
	var prevKeys []string
	if prev != nil {
		prevKeys = r.Keys(prev, id)
	}
	return Diff(prevKeys, r.Keys(next, id))
}

// ReconcileOps renders add/remove key lists as dispatcher operations,
// removes first so a rename never leaves both entries visible longer
// than necessary.
func ReconcileOps(adds, removes []string) []Op {
	ops := make([]Op, 0, len(adds)+len(removes))
	for _, k := range removes {
		ops = append(ops, Op{Action: ActionRemove, Key: k})
	}
	for _, k := range adds {
		ops = append(ops, Op{Action: ActionAdd, Key: k})
	}
	return ops
}
