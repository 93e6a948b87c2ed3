package schemavalidate

import "errors"

// === Network and IO Related Errors ===
var (
	// ErrNoLoaderRegistered is returned when no loader is registered for the specified scheme.
	ErrNoLoaderRegistered = errors.New("no loader registered for scheme")

	// ErrDataRead is returned when data cannot be read from the specified URL.
	ErrDataRead = errors.New("data read failed")

	// ErrNetworkFetch is returned when there is an error fetching from the URL.
	ErrNetworkFetch = errors.New("network fetch failed")

	// ErrInvalidStatusCode is returned when an invalid HTTP status code is returned.
	ErrInvalidStatusCode = errors.New("invalid http status code")
)

// === Serialization Related Errors ===
var (
	// ErrJSONUnmarshal is returned when there is an error unmarshalling JSON.
	ErrJSONUnmarshal = errors.New("json unmarshal failed")

	// ErrXMLUnmarshal is returned when there is an error unmarshalling XML.
	ErrXMLUnmarshal = errors.New("xml unmarshal failed")

	// ErrYAMLUnmarshal is returned when there is an error unmarshalling YAML.
	ErrYAMLUnmarshal = errors.New("yaml unmarshal failed")
)

// === Schema Compilation and Parsing Related Errors ===
var (
	// ErrSchemaCompilation is returned when a schema compilation fails.
	ErrSchemaCompilation = errors.New("schema compilation failed")

	// ErrReferenceResolution is returned when a reference cannot be resolved.
	ErrReferenceResolution = errors.New("reference resolution failed")

	// ErrGlobalReferenceResolution is returned when a global reference cannot be resolved.
	ErrGlobalReferenceResolution = errors.New("global reference resolution failed")

	// ErrJSONPointerSegmentDecode is returned when a segment cannot be decoded.
	ErrJSONPointerSegmentDecode = errors.New("json pointer segment decode failed")

	// ErrJSONPointerSegmentNotFound is returned when a segment is not found in the schema context.
	ErrJSONPointerSegmentNotFound = errors.New("json pointer segment not found")

	// ErrRegexValidation is returned when a schema contains regex patterns that do not compile.
	ErrRegexValidation = errors.New("schema regex validation failed")

	// ErrInvalidJSONSchemaType is returned when "type" is neither a string nor an array of strings.
	ErrInvalidJSONSchemaType = errors.New("invalid JSON schema type")
)

// RegexPatternError reports one pattern or patternProperties regex that does not compile.
type RegexPatternError struct {
	Keyword  string // "pattern" or "patternProperties"
	Location string // JSON Pointer to the offending keyword
	Pattern  string
	Err      error
}

func (e *RegexPatternError) Error() string {
	return e.Keyword + " at " + e.Location + ": invalid regex \"" + e.Pattern + "\": " + e.Err.Error()
}

func (e *RegexPatternError) Unwrap() error { return e.Err }

// === Format Errors ===
var (
	// ErrIPv6AddressNotEnclosed is returned when a URL's IPv6 host is not enclosed in brackets.
	ErrIPv6AddressNotEnclosed = errors.New("ipv6 address is not enclosed in brackets")

	// ErrInvalidIPv6Address is returned when a URL's IPv6 host is not a valid address.
	ErrInvalidIPv6Address = errors.New("invalid ipv6 address")
)

// === Numeric Errors ===
var (
	// ErrNilConstValue is returned when trying to unmarshal into a nil ConstValue.
	ErrNilConstValue = errors.New("cannot unmarshal into nil ConstValue")

	// ErrUnsupportedTypeForRat is returned when a value cannot be converted to a Rat.
	ErrUnsupportedTypeForRat = errors.New("unsupported type for conversion to rat")

	// ErrFailedToConvertToRat is returned when a string is not a valid rational number.
	ErrFailedToConvertToRat = errors.New("failed to convert to rat")
)
