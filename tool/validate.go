package tool

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "tool.json"

var errNotObject = errors.New("arguments must be a JSON object")

// compileSchema compiles a tool's parameter schema. An empty schema
// compiles to nil, which accepts any JSON object.
func compileSchema(raw json.RawMessage) (*jsonschema.Schema, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, err
	}
	return c.Compile(schemaURL)
}

// normalizeArguments treats blank arguments as an empty object, as models
// commonly send for parameterless tools.
func normalizeArguments(arguments string) string {
	if strings.TrimSpace(arguments) == "" {
		return "{}"
	}
	return arguments
}

func validateArguments(schema *jsonschema.Schema, arguments string) (json.RawMessage, error) {
	arguments = normalizeArguments(arguments)

	inst, err := jsonschema.UnmarshalJSON(strings.NewReader(arguments))
	if err != nil {
		return nil, err
	}
	if _, ok := inst.(map[string]any); !ok {
		return nil, errNotObject
	}
	if schema != nil {
		if err := schema.Validate(inst); err != nil {
			return nil, err
		}
	}
	return json.RawMessage(arguments), nil
}
