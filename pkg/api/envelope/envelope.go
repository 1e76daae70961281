// Package envelope validates the JSON envelope the REST host accepts for
// frame submission, following the same compile-once/validate-many shape
// pkg/device/schema used for device state payloads.
package envelope

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// frameSchemaDoc describes the body of POST /api/v1/frames: a single hex
// string carrying the opaque payload to hand to the transceiver.
const frameSchemaDoc = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {
		"payload_hex": {
			"type": "string",
			"pattern": "^([0-9a-fA-F]{2})*$"
		}
	},
	"required": ["payload_hex"],
	"additionalProperties": false
}`

// Validator validates frame-submission envelopes against frameSchemaDoc.
// The schema is fixed, so the compiled form is built once at construction
// rather than cached per-document like pkg/device/schema did for
// per-device state schemas.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles the frame envelope schema.
func NewValidator() (*Validator, error) {
	var doc any
	if err := json.Unmarshal([]byte(frameSchemaDoc), &doc); err != nil {
		return nil, fmt.Errorf("envelope: unmarshal schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("frame-envelope.json", doc); err != nil {
		return nil, fmt.Errorf("envelope: add schema resource: %w", err)
	}
	compiled, err := c.Compile("frame-envelope.json")
	if err != nil {
		return nil, fmt.Errorf("envelope: compile schema: %w", err)
	}

	return &Validator{schema: compiled}, nil
}

// Validate checks body (already JSON-decoded into a generic map, as
// jsonschema requires) against the frame envelope schema.
func (v *Validator) Validate(body map[string]any) error {
	if err := v.schema.Validate(body); err != nil {
		return fmt.Errorf("envelope: %w", err)
	}
	return nil
}
