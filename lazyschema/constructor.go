// Package lazyschema is a functional-options DSL for building JSON Schema
// documents in Go, rather than hand-writing JSON. It produces
// *schemavalidate.Schema values, the same structural validator LazyGraph
// delegates input validation to, plus the LazyGraph-specific extension
// keywords (Rule, RuleLocation, Invisible, ValidatePresence, …) that the
// validator ignores and the graph builder reads.
package lazyschema

import "github.com/lazygraph/lazygraph/internal/schemavalidate"

// Property represents a Schema property definition
type Property struct {
	Name   string
	Schema *schemavalidate.Schema
}

// Prop creates a property definition
func Prop(name string, schema *schemavalidate.Schema) Property {
	return Property{Name: name, Schema: schema}
}

// Object creates an object Schema with properties and keywords
func Object(items ...interface{}) *schemavalidate.Schema {
	schema := &schemavalidate.Schema{Type: schemavalidate.SchemaType{"object"}}

	var properties []Property
	var keywords []Keyword

	// Separate properties and keywords
	for _, item := range items {
		switch v := item.(type) {
		case Property:
			properties = append(properties, v)
		case Keyword:
			keywords = append(keywords, v)
		}
	}

	// Set properties
	if len(properties) > 0 {
		props := make(schemavalidate.SchemaMap)
		for _, prop := range properties {
			props[prop.Name] = prop.Schema
		}
		schema.Properties = &props
	}

	// Apply keywords
	for _, keyword := range keywords {
		keyword(schema)
	}

	// Initialize Schema to make it directly usable
	schema.InitializeSchema(nil, nil)
	return schema
}

// String creates a string Schema with validation keywords
func String(keywords ...Keyword) *schemavalidate.Schema {
	schema := &schemavalidate.Schema{Type: schemavalidate.SchemaType{"string"}}
	for _, keyword := range keywords {
		keyword(schema)
	}
	schema.InitializeSchema(nil, nil)
	return schema
}

// Integer creates an integer Schema with validation keywords
func Integer(keywords ...Keyword) *schemavalidate.Schema {
	schema := &schemavalidate.Schema{Type: schemavalidate.SchemaType{"integer"}}
	for _, keyword := range keywords {
		keyword(schema)
	}
	schema.InitializeSchema(nil, nil)
	return schema
}

// Number creates a number Schema with validation keywords
func Number(keywords ...Keyword) *schemavalidate.Schema {
	schema := &schemavalidate.Schema{Type: schemavalidate.SchemaType{"number"}}
	for _, keyword := range keywords {
		keyword(schema)
	}
	schema.InitializeSchema(nil, nil)
	return schema
}

// Boolean creates a boolean Schema
func Boolean(keywords ...Keyword) *schemavalidate.Schema {
	schema := &schemavalidate.Schema{Type: schemavalidate.SchemaType{"boolean"}}
	for _, keyword := range keywords {
		keyword(schema)
	}
	schema.InitializeSchema(nil, nil)
	return schema
}

// Null creates a null Schema
func Null(keywords ...Keyword) *schemavalidate.Schema {
	schema := &schemavalidate.Schema{Type: schemavalidate.SchemaType{"null"}}
	for _, keyword := range keywords {
		keyword(schema)
	}
	schema.InitializeSchema(nil, nil)
	return schema
}

// Array creates an array Schema with validation keywords
func Array(keywords ...Keyword) *schemavalidate.Schema {
	schema := &schemavalidate.Schema{Type: schemavalidate.SchemaType{"array"}}
	for _, keyword := range keywords {
		keyword(schema)
	}
	schema.InitializeSchema(nil, nil)
	return schema
}

// Any creates a Schema without type restriction
func Any(keywords ...Keyword) *schemavalidate.Schema {
	schema := &schemavalidate.Schema{}
	for _, keyword := range keywords {
		keyword(schema)
	}
	schema.InitializeSchema(nil, nil)
	return schema
}

// Const creates a const Schema
func Const(value interface{}) *schemavalidate.Schema {
	schema := &schemavalidate.Schema{
		Const: &schemavalidate.ConstValue{Value: value, IsSet: true},
	}
	schema.InitializeSchema(nil, nil)
	return schema
}

// Enum creates an enum Schema
func Enum(values ...interface{}) *schemavalidate.Schema {
	schema := &schemavalidate.Schema{Enum: values}
	schema.InitializeSchema(nil, nil)
	return schema
}

// Ref creates a reference Schema using $ref keyword
func Ref(ref string) *schemavalidate.Schema {
	schema := &schemavalidate.Schema{Ref: ref}
	schema.InitializeSchema(nil, nil)
	return schema
}
