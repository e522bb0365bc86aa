package record

import (
	"fmt"
	"time"
)

// Kind identifies the three record shapes of the native format.
type Kind string

const (
	// KindMeta is the per-session identity record (MD).
	KindMeta Kind = "MD"

	// KindSummary is the derived aggregate record (DD).
	KindSummary Kind = "DD"

	// KindEvent is one sensor/actuator/decision snapshot (RD).
	KindEvent Kind = "RD"
)

// Valid reports whether k is one of the three known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindMeta, KindSummary, KindEvent:
		return true
	}
	return false
}

// Field keys of the native format. Values are pre-formatted strings; they
// must not contain the space or colon delimiter (caller's responsibility).
const (
	KeySize         = "recS" // "<fieldCount %03d>:<lineByteLength %08d>"
	KeyDate         = "ebbD" // yyyy:mm:dd
	KeyTime         = "ebbT" // hh:mm:ss:mmm
	KeyRobotTime    = "botT"
	KeyRobotName    = "botN"
	KeyRobotVersion = "botV"
	KeyRobotSerial  = "botS"
	KeyManufacturer = "botM"
	KeyOperator     = "opeR"
	KeyResponsible  = "resP"
	KeyRecorder     = "ebbN" // recorder name on MD, event count on DD
	KeyCursor       = "ebbX"
	KeyFirstDate    = "ebD1"
	KeyFirstTime    = "ebT1"
	KeyLastDate     = "ebDM"
	KeyLastTime     = "ebTM"
	KeyBattery      = "batL"
	KeyInfrared     = "irSe"
	KeyTouch        = "tchS"
	KeyGyro         = "gyrV"
	KeyAccel        = "accV"
	KeyActuator     = "actV"
	KeyDecision     = "decC"
	KeyWifi         = "wifi"
	KeyChecksum     = "chkS"
)

// Field is one key:value pair. Insertion order is significant.
type Field struct {
	Key   string
	Value string
}

// Record is the tagged union behind all three kinds. The kind is fixed at
// construction; everything else may be rewritten by the owning store.
type Record struct {
	kind Kind

	// Date and Time mirror the ebbD/ebbT fields for convenient access.
	Date string
	Time string

	// Fields in insertion order.
	Fields []Field

	// Checksum is the 8-character uppercase integrity code, or empty.
	// When set it is always recomputed from the current fields; a record
	// is never persisted with a stale checksum.
	Checksum string
}

// New creates an empty record of the given kind.
func New(kind Kind) Record {
	return Record{kind: kind}
}

// Kind returns the record's kind. Kinds are immutable after creation.
func (r Record) Kind() Kind {
	return r.kind
}

// Set replaces the value of an existing field, or appends a new field.
func (r *Record) Set(key, value string) {
	for i := range r.Fields {
		if r.Fields[i].Key == key {
			r.Fields[i].Value = value
			return
		}
	}
	r.Fields = append(r.Fields, Field{Key: key, Value: value})
}

// Get returns the value of the named field.
func (r Record) Get(key string) (string, bool) {
	for _, f := range r.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	out := r
	out.Fields = make([]Field, len(r.Fields))
	copy(out.Fields, r.Fields)
	return out
}

// Timestamp returns the combined "date time" stamp.
func (r Record) Timestamp() string {
	return r.Date + " " + r.Time
}

// Timestamp layouts of the native format.
const dateLayout = "2006:01:02"

// FormatTimestamp renders t as the native date and time-with-milliseconds
// pair (yyyy:mm:dd, hh:mm:ss:mmm).
func FormatTimestamp(t time.Time) (date, clock string) {
	date = t.Format(dateLayout)
	clock = fmt.Sprintf("%s:%03d", t.Format("15:04:05"), t.Nanosecond()/int(time.Millisecond))
	return date, clock
}

// requiredKeys lists the kind-specific required field sets (native format,
// external interface contract). Event fields beyond these vary by which
// sensors/actuators/decision were supplied.
var requiredKeys = map[Kind][]string{
	KindMeta: {
		KeySize, KeyDate, KeyTime, KeyRobotName, KeyRobotVersion,
		KeyRobotSerial, KeyManufacturer, KeyOperator, KeyResponsible, KeyRecorder,
	},
	KindSummary: {
		KeySize, KeyDate, KeyTime, KeyRecorder, KeyCursor,
		KeyFirstDate, KeyFirstTime, KeyLastDate, KeyLastTime,
	},
	KindEvent: {
		KeySize, KeyDate, KeyTime,
	},
}

// Validate checks that the record carries the required fields for its kind.
// Decode deliberately does not enforce this (partial lines are tolerated on
// import); validation is for audit tooling.
func (r Record) Validate() error {
	if !r.kind.Valid() {
		return fmt.Errorf("unknown record kind %q", string(r.kind))
	}
	for _, key := range requiredKeys[r.kind] {
		if _, ok := r.Get(key); !ok {
			return fmt.Errorf("%s record missing required field %s", r.kind, key)
		}
	}
	return nil
}
