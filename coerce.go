package lazygraph

import (
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"time"
)

// Extended scalar type names, beyond the JSON Schema primitives.
const (
	TypeDecimal   = "decimal"
	TypeDate      = "date"
	TypeTime      = "time"
	TypeTimestamp = "timestamp"
	TypeBoolean   = "boolean"
	TypeString    = "string"
	TypeNumber    = "number"
	TypeInteger   = "integer"
)

var decimalPattern = regexp.MustCompile(`^-?(\d+(\.\d+)?([eE][+-]?\d+)?)$`)

const dateLayout = "2006-01-02"

// coerceScalar applies a node's declared scalar type coercion to a raw
// input value, per the rules a node of that type applies on every value
// passing through it. Missing passes through untouched.
func coerceScalar(scalarType string, v any) any {
	if IsMissing(v) {
		return v
	}
	switch scalarType {
	case TypeDecimal:
		return coerceDecimal(v)
	case TypeDate:
		return coerceDate(v)
	case TypeTimestamp:
		return coerceTimestamp(v)
	case TypeTime:
		return coerceTimeOfDay(v)
	case TypeBoolean:
		return coerceBoolean(v)
	case TypeString:
		return coerceString(v)
	case TypeNumber, TypeInteger:
		return v
	default:
		return v
	}
}

// coerceDecimal converts a string, integer, or floating number to an exact
// *big.Rat. Already-decimal values pass through.
func coerceDecimal(v any) any {
	switch t := v.(type) {
	case *big.Rat:
		return t
	case string:
		if !decimalPattern.MatchString(t) {
			return MissingWith("invalid decimal literal: " + t)
		}
		r, ok := new(big.Rat).SetString(normalizeDecimalLiteral(t))
		if !ok {
			return MissingWith("invalid decimal literal: " + t)
		}
		return r
	case int:
		return new(big.Rat).SetInt64(int64(t))
	case int64:
		return new(big.Rat).SetInt64(t)
	case float64:
		r := new(big.Rat)
		r.SetFloat64(t)
		return r
	default:
		return MissingWith(fmt.Sprintf("cannot coerce %T to decimal", v))
	}
}

// normalizeDecimalLiteral drops a "1e3"-style exponent into a form
// big.Rat.SetString accepts ("1e3" is not parsed by math/big directly).
func normalizeDecimalLiteral(s string) string {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if !hasExponent(s) {
			return s
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return s
}

func hasExponent(s string) bool {
	for _, c := range s {
		if c == 'e' || c == 'E' {
			return true
		}
	}
	return false
}

func coerceDate(v any) any {
	if t, ok := v.(time.Time); ok {
		return t
	}
	s, ok := v.(string)
	if !ok {
		return MissingWith("date must be a string")
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return MissingWith("invalid date: " + s)
	}
	return t
}

// coerceTimestamp parses an ISO-8601 string (with optional time and zone)
// into an absolute instant, or treats a number as epoch seconds. Already
// coerced instants pass through.
func coerceTimestamp(v any) any {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(dateLayout, t); err == nil {
			return parsed
		}
		return MissingWith("invalid timestamp: " + t)
	case float64:
		return time.Unix(int64(t), 0).UTC()
	case int:
		return time.Unix(int64(t), 0).UTC()
	case int64:
		return time.Unix(t, 0).UTC()
	default:
		return MissingWith(fmt.Sprintf("cannot coerce %T to timestamp", v))
	}
}

// coerceTimeOfDay checks only that the value is a string and stores it
// as-is; the time-of-day format of the string is not checked.
func coerceTimeOfDay(v any) any {
	s, ok := v.(string)
	if !ok {
		return MissingWith("time must be a string")
	}
	return s
}

// coerceBoolean applies truthy/falsy coercion; Missing coerces to false.
func coerceBoolean(v any) any {
	switch t := v.(type) {
	case Missing:
		return false
	case bool:
		return t
	case nil:
		return false
	case string:
		return t != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	default:
		return true
	}
}

func coerceString(v any) any {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
