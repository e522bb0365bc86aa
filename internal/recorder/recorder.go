// Package recorder exposes the collaborator API consumed by presentation
// and CLI layers. All access to the underlying store - appends, imports,
// exports, snapshots - serializes through one mutex; the store itself
// stays a single-writer value with no locking of its own.
package recorder

import (
	"sync"

	"ebb/internal/export"
	"ebb/internal/ingest"
	"ebb/internal/record"
	"ebb/internal/store"
)

// Recorder owns one recording session.
type Recorder struct {
	mu      sync.Mutex
	store   *store.Store
	session string
	verify  bool
}

// Option configures a Recorder.
type Option func(*options)

type options struct {
	clock  store.Clock
	gen    SessionTokenGenerator
	verify bool
}

// WithClock overrides the store's timestamp source.
func WithClock(c store.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithSessionGenerator overrides the session token generator (for tests).
func WithSessionGenerator(g SessionTokenGenerator) Option {
	return func(o *options) { o.gen = g }
}

// WithChecksumVerification makes native imports reject checksum
// mismatches instead of logging them.
func WithChecksumVerification(on bool) Option {
	return func(o *options) { o.verify = on }
}

// New creates a recorder with an empty store of the given capacity
// (non-positive means store.DefaultCapacity) and a fresh session token.
func New(capacity int, opts ...Option) *Recorder {
	o := options{
		clock: store.SystemClock(),
		gen:   UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Recorder{
		store:   store.New(capacity, store.WithClock(o.clock)),
		session: o.gen.Generate(),
		verify:  o.verify,
	}
}

// Session returns the session correlation token.
func (r *Recorder) Session() string { return r.session }

// SetIdentity replaces the Meta record wholesale from the supplied
// identity attributes.
func (r *Recorder) SetIdentity(info store.Identity) record.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.SetIdentity(info)
}

// Append logs one sensor/actuator/decision snapshot and returns the
// inserted event record.
func (r *Recorder) Append(sensors map[string]store.SensorValue, actuators map[string]float64, decision store.Decision) record.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.AppendEvent(sensors, actuators, decision)
}

// ImportFrom ingests a file in the given format (ingest.FormatAuto
// detects from the extension). The call blocks until the whole file is
// processed; a failed native import leaves the prior store state
// untouched.
func (r *Recorder) ImportFrom(path string, format ingest.Format) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	imp := ingest.New(r.store, ingest.WithChecksumVerification(r.verify))
	return imp.File(path, format)
}

// ExportTo serializes the current state to path as one atomic write.
func (r *Recorder) ExportTo(path string) error {
	r.mu.Lock()
	snap := r.store.Snapshot()
	r.mu.Unlock()
	return export.WriteFile(path, snap)
}

// Clear empties the event buffer and resets the cursor; Meta and Summary
// are untouched.
func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.store.Clear()
}

// Snapshot returns a read-only deep copy of the current state.
func (r *Recorder) Snapshot() store.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Snapshot()
}
