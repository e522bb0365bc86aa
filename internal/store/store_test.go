package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ebb/internal/record"
	"ebb/internal/testutil"
)

func testStore(capacity int) *Store {
	start := time.Date(2024, 1, 15, 10, 30, 45, 123*int(time.Millisecond), time.UTC)
	return New(capacity, WithClock(testutil.NewSteppingClock(start, time.Second)))
}

func appendN(s *Store, n int) {
	for i := 0; i < n; i++ {
		s.AppendEvent(
			map[string]SensorValue{"battery": Scalar(100 - i)},
			nil,
			Decision{Code: fmt.Sprintf("%04d", i), Reason: "routine"},
		)
	}
}

func TestAppendBelowCapacity(t *testing.T) {
	s := testStore(10)
	appendN(s, 5)

	assert.Equal(t, 5, s.Len())
	assert.Equal(t, int64(5), s.Cursor())
}

func TestAppendOverwritesOldestSlot(t *testing.T) {
	s := testStore(3)
	appendN(s, 3)
	require.Equal(t, 3, s.Len())

	before := s.Snapshot()
	s.AppendEvent(map[string]SensorValue{"battery": Scalar(42)}, nil, Decision{})

	assert.Equal(t, 3, s.Len(), "buffer never grows past capacity")
	assert.Equal(t, int64(4), s.Cursor())

	// Fourth append lands at slot 3 mod 3 = 0.
	after := s.Snapshot()
	assert.NotEqual(t, before.Events[0], after.Events[0])
	assert.Equal(t, before.Events[1], after.Events[1])
	assert.Equal(t, before.Events[2], after.Events[2])
}

func TestOverwriteSequence(t *testing.T) {
	// Capacity 2: A and B fill the buffer, C overwrites slot 0.
	s := testStore(2)
	labels := []string{"A", "B", "C"}
	for _, l := range labels {
		s.AppendEvent(nil, nil, Decision{Code: "0001", Reason: l})
	}

	snap := s.Snapshot()
	require.Len(t, snap.Events, 2)
	dec0, _ := snap.Events[0].Get(record.KeyDecision)
	dec1, _ := snap.Events[1].Get(record.KeyDecision)
	assert.Equal(t, "0001:C", dec0)
	assert.Equal(t, "0001:B", dec1)
	assert.Equal(t, int64(3), s.Cursor())
}

func TestEventEncoding(t *testing.T) {
	s := testStore(10)
	ev := s.AppendEvent(
		map[string]SensorValue{
			"battery":     Scalar(95.5),
			"ir_sensor_1": Scalar(0.23),
		},
		map[string]float64{"left_wheel": -12.3},
		Decision{Code: "0001", Reason: "Moving forward"},
	)

	assert.Equal(t, record.KindEvent, ev.Kind())
	assertField(t, ev, record.KeyBattery, "095")
	assertField(t, ev, record.KeyInfrared, "01:0.23")
	assertField(t, ev, record.KeyActuator, "001:-00012.30")
	assertField(t, ev, record.KeyDecision, "0001:Moving forward")
	assertField(t, ev, record.KeyWifi, "1:85")
	assertField(t, ev, record.KeyDate, "2024:01:15")
	assertField(t, ev, record.KeyTime, "10:30:45:123")
	assert.Len(t, ev.Checksum, record.ChecksumLen)
}

func TestEventVectorEncoding(t *testing.T) {
	s := testStore(10)
	ev := s.AppendEvent(
		map[string]SensorValue{
			"gyro":          Vector{1.2, -3.4, 50},
			"accelerometer": Vector{0.1, 0.2, 9.8},
		},
		nil, Decision{},
	)

	assertField(t, ev, record.KeyGyro, "01:+00001:-00003:+00050")
	assertField(t, ev, record.KeyAccel, "01:+00000:+00000:+00010")
	_, hasDecision := ev.Get(record.KeyDecision)
	assert.False(t, hasDecision, "empty decision omitted")
}

func TestDecisionCodeDefault(t *testing.T) {
	s := testStore(10)
	ev := s.AppendEvent(nil, nil, Decision{Reason: "manual"})
	assertField(t, ev, record.KeyDecision, "0000:manual")
}

func TestSensorOrdinalFromName(t *testing.T) {
	s := testStore(10)
	// Sorted iteration makes ir_sensor_3 the last infrared written.
	ev := s.AppendEvent(
		map[string]SensorValue{
			"ir_sensor_1": Scalar(0.5),
			"ir_sensor_3": Scalar(1.5),
		},
		nil, Decision{},
	)
	assertField(t, ev, record.KeyInfrared, "03:1.50")
}

func TestSetIdentityDefaults(t *testing.T) {
	s := testStore(10)
	meta := s.SetIdentity(Identity{Name: "TurtleBot3"})

	assert.Equal(t, record.KindMeta, meta.Kind())
	assertField(t, meta, record.KeyRobotName, "TurtleBot3")
	assertField(t, meta, record.KeyRobotVersion, DefaultVersion)
	assertField(t, meta, record.KeyRobotSerial, DefaultSerial)
	assertField(t, meta, record.KeyManufacturer, DefaultManufacturer)
	assertField(t, meta, record.KeyOperator, DefaultOperator)
	assertField(t, meta, record.KeyResponsible, DefaultResponsible)
	assertField(t, meta, record.KeyRecorder, RecorderName)
	assert.NoError(t, meta.Validate())
}

func TestSetIdentityReplacesWholesale(t *testing.T) {
	s := testStore(10)
	s.SetIdentity(Identity{Name: "First", Operator: "Alice"})
	meta := s.SetIdentity(Identity{Name: "Second"})

	// The previous operator does not leak into the rebuilt record.
	assertField(t, meta, record.KeyOperator, DefaultOperator)
	assertField(t, meta, record.KeyRobotName, "Second")
}

func TestSummaryTracksEveryAppend(t *testing.T) {
	s := testStore(3)
	for i := 1; i <= 5; i++ {
		s.AppendEvent(map[string]SensorValue{"battery": Scalar(i)}, nil, Decision{})
		snap := s.Snapshot()
		require.NotNil(t, snap.Summary)

		want := i
		if want > 3 {
			want = 3
		}
		count, _ := snap.Summary.Get(record.KeyRecorder)
		cursor, _ := snap.Summary.Get(record.KeyCursor)
		assert.Equal(t, fmt.Sprintf("%010d", want), count)
		assert.Equal(t, fmt.Sprintf("%017d", i), cursor)

		first, _ := snap.Summary.Get(record.KeyFirstDate)
		assert.Equal(t, snap.Events[0].Date, first)
		last, _ := snap.Summary.Get(record.KeyLastTime)
		assert.Equal(t, snap.Events[len(snap.Events)-1].Time, last)
	}
}

func TestSummaryEmptyPlaceholders(t *testing.T) {
	s := testStore(3)
	s.Replace(nil, nil, nil)

	snap := s.Snapshot()
	require.NotNil(t, snap.Summary)
	assertField(t, *snap.Summary, record.KeyFirstDate, ZeroDate)
	assertField(t, *snap.Summary, record.KeyFirstTime, ZeroTime)
	assertField(t, *snap.Summary, record.KeyLastDate, ZeroDate)
	assertField(t, *snap.Summary, record.KeyLastTime, ZeroTime)
	assertField(t, *snap.Summary, record.KeyRecorder, "0000000000")
}

func TestClear(t *testing.T) {
	s := testStore(5)
	s.SetIdentity(Identity{})
	appendN(s, 3)
	s.Clear()

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, int64(0), s.Cursor())
	snap := s.Snapshot()
	assert.NotNil(t, snap.Meta, "identity survives clear")
	assert.NotNil(t, snap.Summary, "summary survives clear")
}

func TestReplace(t *testing.T) {
	s := testStore(5)
	appendN(s, 2)

	ev := record.New(record.KindEvent)
	ev.Set(record.KeyDate, "2023:06:01")
	ev.Set(record.KeyTime, "08:00:00:000")
	ev.Date, ev.Time = "2023:06:01", "08:00:00:000"
	record.Finalize(&ev)

	s.Replace([]record.Record{ev}, nil, nil)

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, int64(1), s.Cursor())
	snap := s.Snapshot()
	require.NotNil(t, snap.Summary, "summary recomputed when none imported")
	count, _ := snap.Summary.Get(record.KeyRecorder)
	assert.Equal(t, "0000000001", count)
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	s := testStore(5)
	appendN(s, 2)

	snap := s.Snapshot()
	snap.Events[0].Set(record.KeyBattery, "000")
	appendN(s, 1)

	fresh := s.Snapshot()
	v, _ := fresh.Events[0].Get(record.KeyBattery)
	assert.Equal(t, "100", v, "mutating a snapshot does not touch the store")
	assert.Len(t, snap.Events, 2)
}

func TestAppendedRecordsVerify(t *testing.T) {
	s := testStore(5)
	appendN(s, 3)
	for _, ev := range s.Snapshot().Events {
		assert.NoError(t, record.VerifyChecksum(ev))
	}
}

func assertField(t *testing.T, r record.Record, key, want string) {
	t.Helper()
	v, ok := r.Get(key)
	require.True(t, ok, "field %s missing", key)
	assert.Equal(t, want, v)
}
