package lazygraph

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCoerceDecimalFromString(t *testing.T) {
	v := coerceDecimal("1.50")
	r, ok := v.(*big.Rat)
	require.True(t, ok)
	require.Equal(t, "3/2", r.RatString())
}

func TestCoerceDecimalPassthrough(t *testing.T) {
	in := new(big.Rat).SetInt64(7)
	v := coerceDecimal(in)
	require.Same(t, in, v.(*big.Rat))
}

func TestCoerceDecimalInvalidLiteral(t *testing.T) {
	v := coerceDecimal("not-a-number")
	require.True(t, IsMissing(v))
}

func TestCoerceDateRoundTrip(t *testing.T) {
	v := coerceDate("2024-03-05")
	d, ok := v.(time.Time)
	require.True(t, ok)
	require.Equal(t, 2024, d.Year())

	again := coerceDate(d)
	require.Equal(t, d, again)
}

func TestCoerceDateInvalid(t *testing.T) {
	v := coerceDate("not-a-date")
	require.True(t, IsMissing(v))
}

func TestCoerceTimestampFromEpoch(t *testing.T) {
	v := coerceTimestamp(float64(0))
	ts, ok := v.(time.Time)
	require.True(t, ok)
	require.Equal(t, int64(0), ts.Unix())

	again := coerceTimestamp(ts)
	require.Equal(t, ts, again)
}

func TestCoerceBooleanTruthy(t *testing.T) {
	require.Equal(t, false, coerceBoolean(Missing{}))
	require.Equal(t, false, coerceBoolean(""))
	require.Equal(t, true, coerceBoolean("x"))
	require.Equal(t, false, coerceBoolean(float64(0)))
	require.Equal(t, true, coerceBoolean(float64(1)))
}

func TestCoerceScalarPassesMissingThrough(t *testing.T) {
	m := MissingWith("upstream")
	require.Equal(t, m, coerceScalar(TypeDecimal, m))
}

func TestIsMissingAndAnyMissing(t *testing.T) {
	require.True(t, IsMissing(Missing{}))
	require.False(t, IsMissing("value"))
	require.True(t, AnyMissing("a", Missing{}, "b"))
	require.False(t, AnyMissing("a", "b"))
}
