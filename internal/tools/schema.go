package tools

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// generateSchema creates the JSON schema for a tool's argument struct.
// Field descriptions and required markers come from jsonschema struct tags.
func generateSchema[T any]() json.RawMessage {
	reflector := jsonschema.Reflector{
		DoNotReference:             true, // keep schema self-contained, no $refs
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	schema := reflector.Reflect(&v)
	data, err := json.Marshal(schema)
	if err != nil {
		// Reflection output always marshals; a failure here is a programming
		// error in the arg struct definition.
		panic(err)
	}
	return data
}
