package store

import (
	"fmt"

	"ebb/internal/record"
)

// DefaultCapacity is the event buffer capacity when none is configured.
const DefaultCapacity = 1000

// Zero placeholders for the Summary first/last timestamps while the event
// buffer is empty.
const (
	ZeroDate = "0000:00:00"
	ZeroTime = "00:00:00:000"
)

// Store holds one recording session: Meta, Summary and the circular Event
// buffer. The cursor counts every event ever appended; it doubles as the
// overwrite index (mod capacity) and the Summary generation counter.
type Store struct {
	capacity int
	events   []record.Record
	cursor   int64
	meta     *record.Record
	summary  *record.Record
	clock    Clock
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the timestamp source. Used by tests and replays.
func WithClock(c Clock) Option {
	return func(s *Store) { s.clock = c }
}

// New creates a store with the given event capacity. A non-positive
// capacity falls back to DefaultCapacity.
func New(capacity int, opts ...Option) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	s := &Store{
		capacity: capacity,
		clock:    systemClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Len returns the logical size of the event buffer.
func (s *Store) Len() int { return len(s.events) }

// Cursor returns the monotonic count of events ever appended.
func (s *Store) Cursor() int64 { return s.cursor }

// Capacity returns the event buffer capacity.
func (s *Store) Capacity() int { return s.capacity }

// SetIdentity builds a fresh Meta record from the supplied identity
// attributes (missing attributes take the documented defaults) and
// replaces the current Meta wholesale. Meta is never merged field by
// field.
func (s *Store) SetIdentity(info Identity) record.Record {
	info = info.withDefaults()
	date, clock := record.FormatTimestamp(s.clock.Now())

	r := record.New(record.KindMeta)
	r.Date, r.Time = date, clock
	r.Set(record.KeyDate, date)
	r.Set(record.KeyTime, clock)
	r.Set(record.KeyRobotName, info.Name)
	r.Set(record.KeyRobotVersion, info.Version)
	r.Set(record.KeyRobotSerial, info.Serial)
	r.Set(record.KeyManufacturer, info.Manufacturer)
	r.Set(record.KeyOperator, info.Operator)
	r.Set(record.KeyResponsible, info.Responsible)
	r.Set(record.KeyRecorder, RecorderName)
	record.Finalize(&r)

	s.meta = &r
	return r.Clone()
}

// AppendEvent builds an Event record from the supplied readings and
// inserts it into the circular buffer. Once the buffer is full the slot
// at cursor mod capacity is overwritten in place; the buffer never grows
// past capacity. The cursor increments unconditionally and the Summary is
// recomputed before returning.
func (s *Store) AppendEvent(sensors map[string]SensorValue, actuators map[string]float64, decision Decision) record.Record {
	date, clock := record.FormatTimestamp(s.clock.Now())

	r := record.New(record.KindEvent)
	r.Date, r.Time = date, clock
	r.Set(record.KeyDate, date)
	r.Set(record.KeyTime, clock)
	r.Set(record.KeyRobotTime, clock)

	encodeSensors(&r, sensors)
	encodeActuators(&r, actuators)
	if !decision.IsZero() {
		code := decision.Code
		if code == "" {
			code = "0000"
		}
		r.Set(record.KeyDecision, code+":"+decision.Reason)
	}
	r.Set(record.KeyWifi, wifiStatus)
	record.Finalize(&r)

	if len(s.events) >= s.capacity {
		s.events[int(s.cursor%int64(s.capacity))] = r
	} else {
		s.events = append(s.events, r)
	}
	s.cursor++

	s.recomputeSummary()
	return r.Clone()
}

// recomputeSummary rebuilds the Summary record from the event buffer.
// First/last timestamps come from storage order (not time order), the
// count field from the logical buffer size, the generation field from the
// cursor. The Summary is a derived view; it is never edited directly.
func (s *Store) recomputeSummary() {
	date, clock := record.FormatTimestamp(s.clock.Now())

	firstDate, firstTime := ZeroDate, ZeroTime
	lastDate, lastTime := ZeroDate, ZeroTime
	if len(s.events) > 0 {
		first := s.events[0]
		last := s.events[len(s.events)-1]
		firstDate, firstTime = first.Date, first.Time
		lastDate, lastTime = last.Date, last.Time
	}

	r := record.New(record.KindSummary)
	r.Date, r.Time = date, clock
	r.Set(record.KeyDate, date)
	r.Set(record.KeyTime, clock)
	r.Set(record.KeyRecorder, fmt.Sprintf("%010d", len(s.events)))
	r.Set(record.KeyCursor, fmt.Sprintf("%017d", s.cursor))
	r.Set(record.KeyFirstDate, firstDate)
	r.Set(record.KeyFirstTime, firstTime)
	r.Set(record.KeyLastDate, lastDate)
	r.Set(record.KeyLastTime, lastTime)
	record.Finalize(&r)

	s.summary = &r
}

// Clear empties the event buffer and resets the cursor. Meta and Summary
// are untouched.
func (s *Store) Clear() {
	s.events = nil
	s.cursor = 0
}

// Replace swaps in a complete imported state: the event buffer becomes
// the imported events (cursor = event count), Meta and Summary are
// replaced only when an imported one is supplied. Without an imported
// Summary the summary is recomputed so the count/generation guarantee
// holds.
func (s *Store) Replace(events []record.Record, meta, summary *record.Record) {
	s.events = make([]record.Record, 0, len(events))
	for _, ev := range events {
		s.events = append(s.events, ev.Clone())
	}
	s.cursor = int64(len(events))
	if meta != nil {
		m := meta.Clone()
		s.meta = &m
	}
	if summary != nil {
		d := summary.Clone()
		s.summary = &d
	} else {
		s.recomputeSummary()
	}
}

// Snapshot is a read-only copy of the store state for display and export.
type Snapshot struct {
	Meta     *record.Record
	Summary  *record.Record
	Events   []record.Record // storage order
	Capacity int
	Cursor   int64
}

// Snapshot deep-copies the current state.
func (s *Store) Snapshot() Snapshot {
	snap := Snapshot{
		Capacity: s.capacity,
		Cursor:   s.cursor,
		Events:   make([]record.Record, 0, len(s.events)),
	}
	if s.meta != nil {
		m := s.meta.Clone()
		snap.Meta = &m
	}
	if s.summary != nil {
		d := s.summary.Clone()
		snap.Summary = &d
	}
	for _, ev := range s.events {
		snap.Events = append(snap.Events, ev.Clone())
	}
	return snap
}
