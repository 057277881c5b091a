package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/urmzd/roombridge/pkg/device"
)

// Validator validates decoded JSON request bodies against JSON Schema
// documents. Compiled schemas are cached by their raw bytes.
type Validator struct {
	mu    sync.RWMutex
	cache map[string]*jsonschema.Schema
}

// NewValidator creates a new Validator with an empty cache.
func NewValidator() *Validator {
	return &Validator{
		cache: make(map[string]*jsonschema.Schema),
	}
}

// Validate checks payload, a value produced by encoding/json, against the
// schema document. An empty document accepts anything. Payload failures
// wrap device.ErrValidation; a broken schema does not.
func (v *Validator) Validate(schemaDoc json.RawMessage, payload any) error {
	if len(schemaDoc) == 0 || string(schemaDoc) == "{}" || string(schemaDoc) == "null" {
		return nil
	}

	compiled, err := v.compile(schemaDoc)
	if err != nil {
		return fmt.Errorf("failed to compile schema: %w", err)
	}

	if err := compiled.Validate(payload); err != nil {
		return fmt.Errorf("%w: %v", device.ErrValidation, err)
	}
	return nil
}

// ValidateJSON decodes raw and validates it. Numbers are kept as
// json.Number so integer constraints see the literal value.
func (v *Validator) ValidateJSON(schemaDoc json.RawMessage, raw []byte) error {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("%w: invalid JSON: %v", device.ErrValidation, err)
	}
	return v.Validate(schemaDoc, doc)
}

func (v *Validator) compile(schemaDoc json.RawMessage) (*jsonschema.Schema, error) {
	key := string(schemaDoc)

	v.mu.RLock()
	s, ok := v.cache[key]
	v.mu.RUnlock()
	if ok {
		return s, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if s, ok := v.cache[key]; ok {
		return s, nil
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaDoc))
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", doc); err != nil {
		return nil, fmt.Errorf("failed to add resource: %w", err)
	}
	compiled, err := c.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile: %w", err)
	}

	v.cache[key] = compiled
	return compiled, nil
}
