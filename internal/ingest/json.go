package ingest

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"ebb/internal/store"
)

// JSON imports event objects of the shape
//
//	{"sensors": {...}, "actuators": {...}, "decision": {"code": ..., "reason": ...}}
//
// given as a bare array, wrapped in an object under a "records" key, or as
// a single event object. The document is validated against the embedded
// CUE schema before any event is applied; malformed JSON or a schema
// violation aborts the entire import with the store untouched. Each event
// then maps to one AppendEvent call.
func (imp *Importer) JSON(data []byte) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return wrapError(ErrCodeUnsupportedFormat, "malformed JSON", err)
	}

	if err := validateEventJSON(data); err != nil {
		return wrapError(ErrCodeSchema, "JSON does not match the event schema", err)
	}

	var items []any
	switch v := doc.(type) {
	case []any:
		items = v
	case map[string]any:
		if records, ok := v["records"].([]any); ok {
			items = records
		} else {
			items = []any{v}
		}
	default:
		return newError(ErrCodeUnsupportedFormat, "JSON document must be an event object or an array of events")
	}

	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return newError(ErrCodeSchema, fmt.Sprintf("event %d is not an object", i))
		}
		sensors, actuators, decision := mapEvent(obj)
		imp.store.AppendEvent(sensors, actuators, decision)
	}

	return nil
}

// mapEvent converts one decoded event object into AppendEvent inputs.
func mapEvent(obj map[string]any) (map[string]store.SensorValue, map[string]float64, store.Decision) {
	sensors := make(map[string]store.SensorValue)
	if m, ok := obj["sensors"].(map[string]any); ok {
		for name, v := range m {
			switch value := v.(type) {
			case float64:
				sensors[name] = store.Scalar(value)
			case []any:
				if len(value) == 3 {
					var vec store.Vector
					for i, c := range value {
						vec[i] = coerceJSONNumber(c, name)
					}
					sensors[name] = vec
				}
			}
		}
	}

	actuators := make(map[string]float64)
	if m, ok := obj["actuators"].(map[string]any); ok {
		for name, v := range m {
			actuators[name] = coerceJSONNumber(v, name)
		}
	}

	var decision store.Decision
	if m, ok := obj["decision"].(map[string]any); ok {
		decision.Code, _ = m["code"].(string)
		decision.Reason, _ = m["reason"].(string)
	}

	return sensors, actuators, decision
}

func coerceJSONNumber(v any, name string) float64 {
	f, ok := v.(float64)
	if !ok {
		slog.Warn("non-numeric JSON value, defaulting to 0.0", "field", name, "value", v)
		return 0
	}
	return f
}
