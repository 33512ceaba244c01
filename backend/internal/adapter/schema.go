package adapter

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// GenerateSchema builds a JSON schema for T suitable for tool definitions.
func GenerateSchema[T any]() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(&v)
	if schema == nil {
		return nil, fmt.Errorf("failed to reflect schema")
	}
	return schema, nil
}

// schemaToMap converts a schema to the map form the OpenAI client expects.
func schemaToMap(schema *jsonschema.Schema) (map[string]interface{}, error) {
	data, err := schema.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema: %w", err)
	}
	ensureOpenAICompliance(m)
	return m, nil
}

// ensureOpenAICompliance walks the schema and marks every property as
// required with additionalProperties disabled, which strict tool mode
// demands for each object level.
func ensureOpenAICompliance(schema map[string]interface{}) {
	if schema == nil {
		return
	}
	if t, ok := schema["type"].(string); ok && t == "object" {
		schema["additionalProperties"] = false
		if props, ok := schema["properties"].(map[string]interface{}); ok {
			required := make([]string, 0, len(props))
			for name, prop := range props {
				required = append(required, name)
				if sub, ok := prop.(map[string]interface{}); ok {
					ensureOpenAICompliance(sub)
				}
			}
			schema["required"] = required
		}
	}
	if items, ok := schema["items"].(map[string]interface{}); ok {
		ensureOpenAICompliance(items)
	}
}
