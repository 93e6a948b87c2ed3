package lazygraph_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lazygraph/lazygraph"
)

func TestParsePathRoundTrip(t *testing.T) {
	cases := []string{
		"a.b.c",
		"a[0].b",
		"a[0,1,2]",
		"items.line_total",
		"positions[position_id]",
		"$.a.b",
	}
	for _, in := range cases {
		p, err := lazygraph.ParsePath(in, false)
		require.NoError(t, err, in)
		require.Equal(t, in, p.String(), "round trip for %q", in)
	}
}

func TestParsePathRange(t *testing.T) {
	p, err := lazygraph.ParsePath("a.0..2", false)
	require.NoError(t, err)
	require.Equal(t, "a[0,1,2]", p.String())
}

func TestParsePathExclusiveRange(t *testing.T) {
	p, err := lazygraph.ParsePath("a.0...2", false)
	require.NoError(t, err)
	require.Equal(t, "a[0,1]", p.String())
}

func TestParsePathUnbalancedBrackets(t *testing.T) {
	_, err := lazygraph.ParsePath("a[0", false)
	require.Error(t, err)
}

func TestParsePathStripRoot(t *testing.T) {
	p, err := lazygraph.ParsePath("$.a.b", true)
	require.NoError(t, err)
	require.Equal(t, "a.b", p.String())
}

func TestPathIdentityOrderDependent(t *testing.T) {
	a, err := lazygraph.ParsePath("a.b", false)
	require.NoError(t, err)
	b, err := lazygraph.ParsePath("b.a", false)
	require.NoError(t, err)
	require.NotEqual(t, a.Identity(), b.Identity())

	c, err := lazygraph.ParsePath("a.b", false)
	require.NoError(t, err)
	require.Equal(t, a.Identity(), c.Identity())
}
