package ingest

import (
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"ebb/internal/store"
)

// CSV imports header-driven event rows. Column names route values by
// prefix: sensor_*, actuator_* and decision_* (code/reason); unrecognized
// columns are ignored. Axis columns (sensor_gyro_x/_y/_z and the
// accelerometer equivalents) are assembled into one 3-axis reading.
//
// Each row with at least one sensor or actuator value produces exactly one
// AppendEvent call against the live store - CSV import mutates the
// existing circular buffer incrementally, unlike native import, which
// replaces it wholesale. A structurally invalid row aborts the import;
// rows already applied stay applied.
//
// Blank or unparseable numeric cells default to 0.0; each fallback is
// logged.
func (imp *Importer) CSV(r io.Reader) error {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return wrapError(ErrCodeStructuralIO, "read CSV header", err)
	}

	row := 1
	for {
		row++
		cells, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return &ImportError{Code: ErrCodeStructuralIO, Message: "structurally invalid CSV row", Line: row, Err: err}
		}

		sensors := make(map[string]store.SensorValue)
		actuators := make(map[string]float64)
		axes := make(map[string]store.Vector)
		var decision store.Decision

		for i, col := range header {
			if i >= len(cells) {
				continue
			}
			value := strings.TrimSpace(cells[i])

			switch {
			case strings.HasPrefix(col, "sensor_"):
				name := strings.TrimPrefix(col, "sensor_")
				if base, axis, ok := vectorAxis(name); ok {
					vec := axes[base]
					vec[axis] = coerceNumeric(value, col, row)
					axes[base] = vec
					continue
				}
				sensors[name] = store.Scalar(coerceNumeric(value, col, row))

			case strings.HasPrefix(col, "actuator_"):
				actuators[strings.TrimPrefix(col, "actuator_")] = coerceNumeric(value, col, row)

			case strings.HasPrefix(col, "decision_"):
				switch strings.TrimPrefix(col, "decision_") {
				case "code":
					decision.Code = value
				case "reason":
					decision.Reason = value
				}
			}
		}

		for base, vec := range axes {
			sensors[base] = vec
		}

		if len(sensors) > 0 || len(actuators) > 0 {
			imp.store.AppendEvent(sensors, actuators, decision)
		}
	}
}

// vectorAxis matches axis-split vector sensor columns. Returns the
// canonical sensor name and the axis index.
func vectorAxis(name string) (base string, axis int, ok bool) {
	prefixes := map[string]string{
		"gyro":          "gyro",
		"accelerometer": "accelerometer",
		"accel":         "accelerometer",
	}
	for prefix, canonical := range prefixes {
		for i, suffix := range []string{"_x", "_y", "_z"} {
			if name == prefix+suffix {
				return canonical, i, true
			}
		}
	}
	return "", 0, false
}

// coerceNumeric parses a numeric cell, defaulting to 0.0 for blank or
// unparseable values. The fallback is logged rather than silent so
// corrupt feeds are visible in the import log.
func coerceNumeric(value, column string, row int) float64 {
	if value == "" {
		return 0
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		slog.Warn("numeric cell failed to parse, defaulting to 0.0",
			"column", column, "row", row, "value", value)
		return 0
	}
	return f
}
