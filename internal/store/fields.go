package store

import (
	"fmt"
	"sort"
	"strings"

	"ebb/internal/record"
)

// wifiStatus is the fixed connectivity field appended to every event:
// connected, signal strength 85.
const wifiStatus = "1:85"

// encodeSensors formats each reading into its event field. Input maps are
// iterated in sorted name order so the encoding is deterministic.
//
// Compatibility note: same-type sensors share one field key (irSe, tchS),
// so when several are supplied in one call only the last one encoded
// survives. This mirrors the historical on-disk format; with sorted
// iteration "last" is the highest-sorting name.
func encodeSensors(r *record.Record, sensors map[string]SensorValue) {
	names := make([]string, 0, len(sensors))
	for name := range sensors {
		names = append(names, name)
	}
	sort.Strings(names)

	irSeen, touchSeen := 0, 0
	for _, name := range names {
		switch v := sensors[name].(type) {
		case Scalar:
			switch {
			case name == "battery":
				r.Set(record.KeyBattery, fmt.Sprintf("%03d", int(v)))
			case strings.HasPrefix(name, "ir"):
				irSeen++
				r.Set(record.KeyInfrared, fmt.Sprintf("%02d:%.2f", ordinal(name, irSeen), float64(v)))
			case strings.HasPrefix(name, "touch"):
				touchSeen++
				r.Set(record.KeyTouch, fmt.Sprintf("%02d:%03d", ordinal(name, touchSeen), int(v)))
			}
		case Vector:
			switch {
			case strings.HasPrefix(name, "gyro"):
				r.Set(record.KeyGyro, formatVector(v))
			case strings.HasPrefix(name, "accel"):
				r.Set(record.KeyAccel, formatVector(v))
			}
		}
	}
}

// encodeActuators formats actuator positions under the shared actV key,
// ordinals assigned by sorted name order (same last-write-wins caveat as
// sensors).
func encodeActuators(r *record.Record, actuators map[string]float64) {
	names := make([]string, 0, len(actuators))
	for name := range actuators {
		names = append(names, name)
	}
	sort.Strings(names)

	for i, name := range names {
		r.Set(record.KeyActuator, fmt.Sprintf("%03d:%+09.2f", i+1, actuators[name]))
	}
}

func formatVector(v Vector) string {
	return fmt.Sprintf("01:%+06.0f:%+06.0f:%+06.0f", v[0], v[1], v[2])
}

// ordinal extracts the trailing integer of a sensor name (ir_sensor_1 -> 1)
// so the encoded ordinal follows the sensor's own numbering. Names without
// a numeric suffix take the 1-based position among sensors of their type.
func ordinal(name string, fallback int) int {
	i := len(name)
	for i > 0 && name[i-1] >= '0' && name[i-1] <= '9' {
		i--
	}
	if i == len(name) {
		return fallback
	}
	n := 0
	for _, c := range name[i:] {
		n = n*10 + int(c-'0')
	}
	return n
}
