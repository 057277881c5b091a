package device

import (
	"encoding/json"

	"github.com/urmzd/roombridge/pkg/vacuum"
)

// CommandSchema returns the JSON Schema for a command request body.
func CommandSchema() json.RawMessage {
	doc := map[string]any{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type":    "object",
		"properties": map[string]any{
			"command": map[string]any{
				"type": "string",
				"enum": vacuum.Tokens(),
			},
		},
		"required":             []string{"command"},
		"additionalProperties": false,
	}
	raw, _ := json.Marshal(doc)
	return raw
}
