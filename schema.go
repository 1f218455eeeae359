package parley

import (
	"encoding/json"
	"slices"

	"github.com/invopop/jsonschema"
)

// SchemaBuilder refines a JSON Schema reflected from a Go struct.
//
// Field names come from json tags. Fields without omitempty are required
// unless marked Optional. Descriptions may also be given with
// `jsonschema:"description=..."` tags.
type SchemaBuilder struct {
	schema *jsonschema.Schema
}

var reflector = jsonschema.Reflector{
	AllowAdditionalProperties: false,
	DoNotReference:            true,
}

// SchemaFrom creates a SchemaBuilder by reflecting on the given type.
// Non-struct types produce an object schema with no properties.
func SchemaFrom[T any]() *SchemaBuilder {
	s := reflector.Reflect(new(T))
	if s == nil || s.Type != "object" {
		s = &jsonschema.Schema{Type: "object"}
	}
	s.Version = ""
	s.ID = ""
	if s.Properties == nil {
		s.Properties = jsonschema.NewProperties()
	}
	return &SchemaBuilder{schema: s}
}

// SchemaFor returns the JSON Schema for T's fields.
func SchemaFor[T any]() json.RawMessage {
	return SchemaFrom[T]().Build()
}

// Desc sets the description for a field.
func (b *SchemaBuilder) Desc(field, description string) *SchemaBuilder {
	if prop, ok := b.schema.Properties.Get(field); ok {
		prop.Description = description
	}
	return b
}

// Required marks fields as required. Unknown fields are ignored.
func (b *SchemaBuilder) Required(fields ...string) *SchemaBuilder {
	for _, field := range fields {
		if _, ok := b.schema.Properties.Get(field); !ok {
			continue
		}
		if !slices.Contains(b.schema.Required, field) {
			b.schema.Required = append(b.schema.Required, field)
		}
	}
	return b
}

// Optional removes fields from the required list.
func (b *SchemaBuilder) Optional(fields ...string) *SchemaBuilder {
	b.schema.Required = slices.DeleteFunc(b.schema.Required, func(name string) bool {
		return slices.Contains(fields, name)
	})
	return b
}

// Enum restricts a field to the given values.
func (b *SchemaBuilder) Enum(field string, values ...string) *SchemaBuilder {
	if prop, ok := b.schema.Properties.Get(field); ok {
		prop.Enum = make([]any, len(values))
		for i, v := range values {
			prop.Enum[i] = v
		}
	}
	return b
}

// Build renders the schema as JSON.
func (b *SchemaBuilder) Build() json.RawMessage {
	data, err := json.Marshal(b.schema)
	if err != nil {
		return json.RawMessage(`{"type":"object","properties":{}}`)
	}
	return data
}
