package lazyschema

import "github.com/lazygraph/lazygraph/internal/schemavalidate"

// Keyword represents a schema keyword that can be applied to any schema
type Keyword func(*schemavalidate.Schema)

// ===============================
// String keywords
// ===============================

// MinLen sets the minLength keyword
func MinLen(min int) Keyword {
	return func(s *schemavalidate.Schema) {
		f := float64(min)
		s.MinLength = &f
	}
}

// MaxLen sets the maxLength keyword
func MaxLen(max int) Keyword {
	return func(s *schemavalidate.Schema) {
		f := float64(max)
		s.MaxLength = &f
	}
}

// Pattern sets the pattern keyword
func Pattern(pattern string) Keyword {
	return func(s *schemavalidate.Schema) {
		s.Pattern = &pattern
	}
}

// Format sets the format keyword
func Format(format string) Keyword {
	return func(s *schemavalidate.Schema) {
		s.Format = &format
	}
}

// ===============================
// Number keywords
// ===============================

// Min sets the minimum keyword
func Min(min float64) Keyword {
	return func(s *schemavalidate.Schema) {
		s.Minimum = schemavalidate.NewRat(min)
	}
}

// Max sets the maximum keyword
func Max(max float64) Keyword {
	return func(s *schemavalidate.Schema) {
		s.Maximum = schemavalidate.NewRat(max)
	}
}

// ExclusiveMin sets the exclusiveMinimum keyword
func ExclusiveMin(min float64) Keyword {
	return func(s *schemavalidate.Schema) {
		s.ExclusiveMinimum = schemavalidate.NewRat(min)
	}
}

// ExclusiveMax sets the exclusiveMaximum keyword
func ExclusiveMax(max float64) Keyword {
	return func(s *schemavalidate.Schema) {
		s.ExclusiveMaximum = schemavalidate.NewRat(max)
	}
}

// MultipleOf sets the multipleOf keyword
func MultipleOf(multiple float64) Keyword {
	return func(s *schemavalidate.Schema) {
		s.MultipleOf = schemavalidate.NewRat(multiple)
	}
}

// ===============================
// Array keywords
// ===============================

// Items sets the items keyword
func Items(itemSchema *schemavalidate.Schema) Keyword {
	return func(s *schemavalidate.Schema) {
		s.Items = itemSchema
	}
}

// MinItems sets the minItems keyword
func MinItems(min int) Keyword {
	return func(s *schemavalidate.Schema) {
		f := float64(min)
		s.MinItems = &f
	}
}

// MaxItems sets the maxItems keyword
func MaxItems(max int) Keyword {
	return func(s *schemavalidate.Schema) {
		f := float64(max)
		s.MaxItems = &f
	}
}

// UniqueItems sets the uniqueItems keyword
func UniqueItems(unique bool) Keyword {
	return func(s *schemavalidate.Schema) {
		s.UniqueItems = &unique
	}
}

// PrefixItems sets the prefixItems keyword
func PrefixItems(schemas ...*schemavalidate.Schema) Keyword {
	return func(s *schemavalidate.Schema) {
		s.PrefixItems = schemas
	}
}

// ===============================
// Object keywords
// ===============================

// Required sets the required keyword
func Required(fields ...string) Keyword {
	return func(s *schemavalidate.Schema) {
		s.Required = fields
	}
}

// AdditionalProps sets the additionalProperties keyword
func AdditionalProps(allowed bool) Keyword {
	return func(s *schemavalidate.Schema) {
		s.AdditionalProperties = &schemavalidate.Schema{Boolean: &allowed}
	}
}

// AdditionalPropsSchema sets the additionalProperties keyword with a schema
func AdditionalPropsSchema(schema *schemavalidate.Schema) Keyword {
	return func(s *schemavalidate.Schema) {
		s.AdditionalProperties = schema
	}
}

// MinProps sets the minProperties keyword
func MinProps(min int) Keyword {
	return func(s *schemavalidate.Schema) {
		f := float64(min)
		s.MinProperties = &f
	}
}

// MaxProps sets the maxProperties keyword
func MaxProps(max int) Keyword {
	return func(s *schemavalidate.Schema) {
		f := float64(max)
		s.MaxProperties = &f
	}
}

// PatternProps sets the patternProperties keyword
func PatternProps(patterns map[string]*schemavalidate.Schema) Keyword {
	return func(s *schemavalidate.Schema) {
		schemaMap := schemavalidate.SchemaMap(patterns)
		s.PatternProperties = &schemaMap
	}
}

// PropertyNames sets the propertyNames keyword
func PropertyNames(schema *schemavalidate.Schema) Keyword {
	return func(s *schemavalidate.Schema) {
		s.PropertyNames = schema
	}
}

// DependentRequired sets the dependentRequired keyword
func DependentRequired(dependencies map[string][]string) Keyword {
	return func(s *schemavalidate.Schema) {
		s.DependentRequired = dependencies
	}
}

// ===============================
// Annotation keywords
// ===============================

// Title sets the title keyword
func Title(title string) Keyword {
	return func(s *schemavalidate.Schema) {
		s.Title = &title
	}
}

// Description sets the description keyword
func Description(desc string) Keyword {
	return func(s *schemavalidate.Schema) {
		s.Description = &desc
	}
}

// Default sets the default keyword
func Default(value interface{}) Keyword {
	return func(s *schemavalidate.Schema) {
		s.Default = value
	}
}

// Examples sets the examples keyword
func Examples(examples ...interface{}) Keyword {
	return func(s *schemavalidate.Schema) {
		s.Examples = examples
	}
}

// Deprecated sets the deprecated keyword
func Deprecated(deprecated bool) Keyword {
	return func(s *schemavalidate.Schema) {
		s.Deprecated = &deprecated
	}
}

// ReadOnly sets the readOnly keyword
func ReadOnly(readOnly bool) Keyword {
	return func(s *schemavalidate.Schema) {
		s.ReadOnly = &readOnly
	}
}

// WriteOnly sets the writeOnly keyword
func WriteOnly(writeOnly bool) Keyword {
	return func(s *schemavalidate.Schema) {
		s.WriteOnly = &writeOnly
	}
}

// ===============================
// Core identifier keywords
// ===============================

// ID sets the $id keyword
func ID(id string) Keyword {
	return func(s *schemavalidate.Schema) {
		s.ID = id
	}
}

// SchemaURI sets the $schema keyword
func SchemaURI(schemaURI string) Keyword {
	return func(s *schemavalidate.Schema) {
		s.Schema = schemaURI
	}
}

// Anchor sets the $anchor keyword
func Anchor(anchor string) Keyword {
	return func(s *schemavalidate.Schema) {
		s.Anchor = anchor
	}
}

// DynamicAnchor sets the $dynamicAnchor keyword
func DynamicAnchor(anchor string) Keyword {
	return func(s *schemavalidate.Schema) {
		s.DynamicAnchor = anchor
	}
}

// Defs sets the $defs keyword
func Defs(defs map[string]*schemavalidate.Schema) Keyword {
	return func(s *schemavalidate.Schema) {
		s.Defs = defs
	}
}

// ===============================
// LazyGraph rule extension keywords
// ===============================

// Rule attaches a derivation descriptor to a schema node: a plain path
// string, a string with "${...}" placeholders, an {inputs, calc}-shaped
// map, or a host closure. The graph builder normalizes whichever form is
// given; the validator never inspects it.
func Rule(descriptor any) Keyword {
	return func(s *schemavalidate.Schema) {
		s.Rule = descriptor
	}
}

// RuleLocation sets the rule's source location, reported as the location
// of the debug-trace entries the rule records.
func RuleLocation(path string) Keyword {
	return func(s *schemavalidate.Schema) {
		s.RuleLocation = path
	}
}

// Invisible omits a node from the get_json view.
func Invisible(invisible bool) Keyword {
	return func(s *schemavalidate.Schema) {
		s.Invisible = invisible
	}
}

// ValidatePresence promotes a Missing dependency under this node to a
// ValidationError instead of letting Missing propagate silently.
func ValidatePresence(validate bool) Keyword {
	return func(s *schemavalidate.Schema) {
		s.ValidatePresence = validate
	}
}

// ===============================
// Format constants
// ===============================

const (
	FormatEmail               = "email"
	FormatDateTime            = "date-time"
	FormatDate                = "date"
	FormatTime                = "time"
	FormatURI                 = "uri"
	FormatURIRef              = "uri-reference"
	FormatUUID                = "uuid"
	FormatHostname            = "hostname"
	FormatIPv4                = "ipv4"
	FormatIPv6                = "ipv6"
	FormatRegex               = "regex"
	FormatIdnEmail            = "idn-email"
	FormatIdnHostname         = "idn-hostname"
	FormatIRI                 = "iri"
	FormatIRIRef              = "iri-reference"
	FormatURITemplate         = "uri-template"
	FormatJSONPointer         = "json-pointer"
	FormatRelativeJSONPointer = "relative-json-pointer"
	FormatDuration            = "duration"
)

// ===============================
// Convenience schema functions
// ===============================

// Email creates an email format string schema
func Email() *schemavalidate.Schema {
	return String(Format(FormatEmail))
}

// DateTime creates a date-time format string schema
func DateTime() *schemavalidate.Schema {
	return String(Format(FormatDateTime))
}

// Date creates a date format string schema
func Date() *schemavalidate.Schema {
	return String(Format(FormatDate))
}

// Time creates a time format string schema
func Time() *schemavalidate.Schema {
	return String(Format(FormatTime))
}

// URI creates a URI format string schema
func URI() *schemavalidate.Schema {
	return String(Format(FormatURI))
}

// URIRef creates a URI reference format string schema
func URIRef() *schemavalidate.Schema {
	return String(Format(FormatURIRef))
}

// UUID creates a UUID format string schema
func UUID() *schemavalidate.Schema {
	return String(Format(FormatUUID))
}

// Hostname creates a hostname format string schema
func Hostname() *schemavalidate.Schema {
	return String(Format(FormatHostname))
}

// IPv4 creates an IPv4 format string schema
func IPv4() *schemavalidate.Schema {
	return String(Format(FormatIPv4))
}

// IPv6 creates an IPv6 format string schema
func IPv6() *schemavalidate.Schema {
	return String(Format(FormatIPv6))
}

// IdnEmail creates an internationalized email format string schema
func IdnEmail() *schemavalidate.Schema {
	return String(Format(FormatIdnEmail))
}

// IdnHostname creates an internationalized hostname format string schema
func IdnHostname() *schemavalidate.Schema {
	return String(Format(FormatIdnHostname))
}

// IRI creates an IRI format string schema
func IRI() *schemavalidate.Schema {
	return String(Format(FormatIRI))
}

// IRIRef creates an IRI reference format string schema
func IRIRef() *schemavalidate.Schema {
	return String(Format(FormatIRIRef))
}

// URITemplate creates a URI template format string schema
func URITemplate() *schemavalidate.Schema {
	return String(Format(FormatURITemplate))
}

// JSONPointer creates a JSON pointer format string schema
func JSONPointer() *schemavalidate.Schema {
	return String(Format(FormatJSONPointer))
}

// RelativeJSONPointer creates a relative JSON pointer format string schema
func RelativeJSONPointer() *schemavalidate.Schema {
	return String(Format(FormatRelativeJSONPointer))
}

// Duration creates a duration format string schema
func Duration() *schemavalidate.Schema {
	return String(Format(FormatDuration))
}

// Regex creates a regex format string schema
func Regex() *schemavalidate.Schema {
	return String(Format(FormatRegex))
}

// PositiveInt creates a positive integer schema
func PositiveInt() *schemavalidate.Schema {
	return Integer(Min(1))
}

// NonNegativeInt creates a non-negative integer schema
func NonNegativeInt() *schemavalidate.Schema {
	return Integer(Min(0))
}

// NegativeInt creates a negative integer schema
func NegativeInt() *schemavalidate.Schema {
	return Integer(Max(-1))
}

// NonPositiveInt creates a non-positive integer schema
func NonPositiveInt() *schemavalidate.Schema {
	return Integer(Max(0))
}

// ===============================
// LazyGraph extended scalar types
// ===============================

// FormatDecimal and FormatTimestamp are LazyGraph-specific string formats,
// coerced by the graph builder to *big.Rat and time.Time respectively —
// the validator only checks that the instance is a string.
const (
	FormatDecimal   = "decimal"
	FormatTimestamp = "timestamp"
)

// Decimal creates a schema for an arbitrary-precision decimal scalar,
// coerced to *big.Rat by the graph's value layer.
func Decimal() *schemavalidate.Schema {
	return String(Format(FormatDecimal))
}

// DateType creates a schema for a calendar date scalar ("2006-01-02").
func DateType() *schemavalidate.Schema {
	return String(Format(FormatDate))
}

// TimeType creates a schema for a time-of-day scalar.
func TimeType() *schemavalidate.Schema {
	return String(Format(FormatTime))
}

// Timestamp creates a schema for an RFC3339 timestamp scalar.
func Timestamp() *schemavalidate.Schema {
	return String(Format(FormatTimestamp))
}
