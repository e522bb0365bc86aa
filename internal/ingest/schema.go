package ingest

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"
)

//go:embed event_schema.cue
var eventSchemaSrc string

var (
	schemaOnce sync.Once
	schemaVal  cue.Value
	schemaErr  error
)

// eventSchema compiles the embedded CUE schema once.
func eventSchema() (cue.Value, error) {
	schemaOnce.Do(func() {
		ctx := cuecontext.New()
		v := ctx.CompileString(eventSchemaSrc)
		if err := v.Err(); err != nil {
			schemaErr = fmt.Errorf("compile event schema: %w", err)
			return
		}
		schemaVal = v.LookupPath(cue.ParsePath("#Document"))
		if err := schemaVal.Err(); err != nil {
			schemaErr = fmt.Errorf("lookup #Document: %w", err)
		}
	})
	return schemaVal, schemaErr
}

// validateEventJSON checks a raw JSON document against the event schema.
func validateEventJSON(data []byte) error {
	schema, err := eventSchema()
	if err != nil {
		return err
	}
	return cuejson.Validate(data, schema)
}
