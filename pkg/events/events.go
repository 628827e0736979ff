// Package events defines the notification boundary of the storage engine.
//
// The engine emits structured, non-fatal payloads when a record's size
// forces a behavior to act (exceedsLimit, truncate, overflow). Delivery is
// fire-and-forget: the engine never waits on a notifier's return and a
// notifier must never block the write path.
package events

// ExceedsLimit is emitted under the user-managed behavior when a record's
// metadata footprint exceeds the ceiling but the write proceeds anyway.
type ExceedsLimit struct {
	Operation string
	RecordID  string
	TotalSize int
	Limit     int
	Excess    int
}

// TruncatedField records one field shrunk by the truncate-data behavior.
type TruncatedField struct {
	Name   string
	Before int
	After  int
}

// Truncate is emitted when the truncate-data behavior shrank one or more
// fields to bring a record under the ceiling.
type Truncate struct {
	Operation   string
	RecordID    string
	Fields      []TruncatedField
	TotalBefore int
	TotalAfter  int
}

// Overflow is emitted when the body-overflow behavior moved fields out of
// metadata into the object body.
type Overflow struct {
	Operation    string
	RecordID     string
	MetadataSize int
	BodySize     int
}

// Notifier receives engine notifications. Implementations must be safe for
// concurrent use and must not block.
type Notifier interface {
	NotifyExceedsLimit(e ExceedsLimit)
	NotifyTruncate(e Truncate)
	NotifyOverflow(e Overflow)
}

// NopNotifier discards every notification.
type NopNotifier struct{}

func (NopNotifier) NotifyExceedsLimit(ExceedsLimit) {}
func (NopNotifier) NotifyTruncate(Truncate)         {}
func (NopNotifier) NotifyOverflow(Overflow)         {}

// Recorder keeps every notification in memory, oldest first. Intended for
// tests and diagnostics; not bounded.
type Recorder struct {
	ExceedsLimits []ExceedsLimit
	Truncates     []Truncate
	Overflows     []Overflow
}

func (r *Recorder) NotifyExceedsLimit(e ExceedsLimit) { r.ExceedsLimits = append(r.ExceedsLimits, e) }
func (r *Recorder) NotifyTruncate(e Truncate)         { r.Truncates = append(r.Truncates, e) }
func (r *Recorder) NotifyOverflow(e Overflow)         { r.Overflows = append(r.Overflows, e) }
