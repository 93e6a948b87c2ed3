// Package schemavalidate implements structural JSON Schema Draft 2020-12
// validation. It is the external collaborator LazyGraph delegates input
// validation to. It decodes the rule/derivation keywords onto Schema but
// never interprets them, and it evaluates a structural subset: type, enum,
// const, and the numeric, string, array and object keywords (properties,
// patternProperties, items, required, dependentRequired, …). The logical
// combinators (allOf/anyOf/oneOf/not), if/then/else and dependentSchemas
// are decoded but not evaluated.
//
// Credit to https://github.com/santhosh-tekuri/jsonschema for format validators.
package schemavalidate
