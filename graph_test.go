package lazygraph_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lazygraph/lazygraph"
	"github.com/lazygraph/lazygraph/lazyschema"
)

func cartSchema(t *testing.T) *lazygraph.Graph {
	t.Helper()

	var calcInvocations int

	itemSchema := lazyschema.Object(
		lazyschema.Prop("price", lazyschema.Number()),
		lazyschema.Prop("quantity", lazyschema.Integer()),
		lazyschema.Prop("line_total", lazyschema.Number(
			lazyschema.Rule(lazygraph.RuleSpec{
				Inputs: []string{"price", "quantity"},
				Calc: func(ctx *lazygraph.CalcContext) (any, error) {
					calcInvocations++
					price, _ := ctx.Value("price").(float64)
					qty, _ := ctx.Value("quantity").(float64)
					return price * qty, nil
				},
			}),
		)),
	)

	schema := lazyschema.Object(
		lazyschema.Prop("items", lazyschema.Array(lazyschema.Items(itemSchema))),
		lazyschema.Prop("cart_total", lazyschema.Number(
			lazyschema.Rule(lazygraph.RuleSpec{
				Inputs: []string{"items.line_total"},
				Calc: func(ctx *lazygraph.CalcContext) (any, error) {
					lines, _ := ctx.Value("line_total").([]any)
					total := 0.0
					for _, v := range lines {
						if f, ok := v.(float64); ok {
							total += f
						}
					}
					return total, nil
				},
			}),
		)),
	)

	g, err := lazygraph.NewGraphFromSchema(schema)
	require.NoError(t, err)
	return g
}

func cartInput() map[string]any {
	return map[string]any{
		"items": []any{
			map[string]any{"price": 2.5, "quantity": 4.0},
			map[string]any{"price": 10.0, "quantity": 1.0},
		},
	}
}

func TestCartTotalsScenario(t *testing.T) {
	g := cartSchema(t)
	ctx := g.NewContext(cartInput())

	res := ctx.Resolve("cart_total")
	require.Empty(t, res.Err)
	require.InDelta(t, 20.0, res.Output, 0.0001)
}

func TestResolveIsDeterministicAndIdempotent(t *testing.T) {
	g := cartSchema(t)
	ctx := g.NewContext(cartInput())

	first := ctx.Resolve("cart_total")
	second := ctx.Resolve("cart_total")
	require.Equal(t, first.Output, second.Output)
}

func TestMissingInputPropagatesWithoutInvokingCalc(t *testing.T) {
	g := cartSchema(t)
	input := map[string]any{
		"items": []any{
			map[string]any{"price": 2.5},
		},
	}
	ctx := g.NewContext(input)

	res := ctx.Resolve("items[0].line_total")
	require.Empty(t, res.Err)
	require.True(t, lazygraph.IsMissing(res.Output))
}

func TestOverrideDominatesRule(t *testing.T) {
	g := cartSchema(t)
	input := map[string]any{
		"items": []any{
			map[string]any{"price": 2.5, "quantity": 4.0, "line_total": 999.0},
		},
	}
	ctx := g.NewContext(input)

	res := ctx.Resolve("items[0].line_total")
	require.Empty(t, res.Err)
	require.InDelta(t, 999.0, res.Output, 0.0001)
}

func TestCycleResolvesToMissingInstead(t *testing.T) {
	a := lazyschema.Number(lazyschema.Rule("b"))
	b := lazyschema.Number(lazyschema.Rule("a"))
	schema := lazyschema.Object(
		lazyschema.Prop("a", a),
		lazyschema.Prop("b", b),
	)

	g, err := lazygraph.NewGraphFromSchema(schema)
	require.NoError(t, err)

	ctx := g.NewContext(map[string]any{})
	res := ctx.Resolve("a")
	require.Empty(t, res.Err)
	require.True(t, lazygraph.IsMissing(res.Output))
}

func TestPresenceValidationAbortsOnMissing(t *testing.T) {
	itemSchema := lazyschema.Object(
		lazyschema.Prop("required_field", lazyschema.String(lazyschema.ValidatePresence(true))),
	)
	g, err := lazygraph.NewGraphFromSchema(itemSchema)
	require.NoError(t, err)

	ctx := g.NewContext(map[string]any{})
	res := ctx.Resolve("required_field")
	require.NotEmpty(t, res.Err)
	require.Equal(t, "abort", res.Status)
}

// TestPresenceValidationNamesOffendingInput covers scenario 5: a rule
// "sum = a + b" whose input b is the one missing must name "b" in the
// aborting error, not the derived node "sum" itself.
func TestPresenceValidationNamesOffendingInput(t *testing.T) {
	schema := lazyschema.Object(
		lazyschema.Prop("a", lazyschema.Number()),
		lazyschema.Prop("b", lazyschema.Number()),
		lazyschema.Prop("sum", lazyschema.Number(
			lazyschema.ValidatePresence(true),
			lazyschema.Rule(lazygraph.RuleSpec{
				Inputs: []string{"a", "b"},
				Calc: func(ctx *lazygraph.CalcContext) (any, error) {
					a, _ := ctx.Value("a").(float64)
					b, _ := ctx.Value("b").(float64)
					return a + b, nil
				},
			}),
		)),
	)
	g, err := lazygraph.NewGraphFromSchema(schema)
	require.NoError(t, err)

	ctx := g.NewContext(map[string]any{"a": 1.0})
	res := ctx.Resolve("sum")
	require.NotEmpty(t, res.Err)
	require.Equal(t, "abort", res.Status)
	require.Contains(t, res.Err, "b")
}

// TestProjectionGroupScenario covers scenario 2: a bracketed key-set
// group projected across every array element returns one object per
// element, keyed by the requested properties, rather than collapsing to
// a bare scalar.
func TestProjectionGroupScenario(t *testing.T) {
	bookSchema := lazyschema.Object(
		lazyschema.Prop("name", lazyschema.String()),
		lazyschema.Prop("pages", lazyschema.Integer()),
		lazyschema.Prop("is_long", lazyschema.Boolean(
			lazyschema.Rule(lazygraph.RuleSpec{
				Inputs: []string{"pages"},
				Calc: func(ctx *lazygraph.CalcContext) (any, error) {
					pages, _ := ctx.Value("pages").(float64)
					return pages > 200, nil
				},
			}),
		)),
	)
	schema := lazyschema.Object(
		lazyschema.Prop("books", lazyschema.Array(lazyschema.Items(bookSchema))),
	)

	g, err := lazygraph.NewGraphFromSchema(schema)
	require.NoError(t, err)

	ctx := g.NewContext(map[string]any{
		"books": []any{
			map[string]any{"name": "book1", "pages": 100.0},
			map[string]any{"name": "book2", "pages": 200.0},
			map[string]any{"name": "book3", "pages": 300.0},
		},
	})

	res := ctx.Resolve("books[name,is_long]")
	require.Empty(t, res.Err)

	out, ok := res.Output.([]any)
	require.True(t, ok)
	require.Len(t, out, 3)

	want := []map[string]any{
		{"name": "book1", "is_long": false},
		{"name": "book2", "is_long": false},
		{"name": "book3", "is_long": true},
	}
	for i, w := range want {
		got, ok := out[i].(map[string]any)
		require.True(t, ok)
		require.Equal(t, w["name"], got["name"])
		require.Equal(t, w["is_long"], got["is_long"])
	}
}

// TestConditionalBranchScenario covers scenario 4: a mode field gates two
// sibling branches nested one level below it, each requiring its own
// upward walk (§4.4) to reach "mode" and the arithmetic input, which are
// root-level siblings of the enclosing object, not of the branch node
// itself. Only the active branch's calc fires; the other stays Missing
// without invoking its calc.
func TestConditionalBranchScenario(t *testing.T) {
	var tripledInvocations int

	schema := lazyschema.Object(
		lazyschema.Prop("mode", lazyschema.String()),
		lazyschema.Prop("x", lazyschema.Number()),
		lazyschema.Prop("result", lazyschema.Object(
			lazyschema.Prop("doubled", lazyschema.Number(
				lazyschema.Rule(lazygraph.RuleSpec{
					Inputs:     []string{"mode", "x"},
					Conditions: map[string]any{"mode": "double"},
					Calc: func(ctx *lazygraph.CalcContext) (any, error) {
						x, _ := ctx.Value("x").(float64)
						return x * 2, nil
					},
				}),
			)),
			lazyschema.Prop("tripled", lazyschema.Number(
				lazyschema.Rule(lazygraph.RuleSpec{
					Inputs:     []string{"mode", "x"},
					Conditions: map[string]any{"mode": "triple"},
					Calc: func(ctx *lazygraph.CalcContext) (any, error) {
						tripledInvocations++
						x, _ := ctx.Value("x").(float64)
						return x * 3, nil
					},
				}),
			)),
		)),
	)

	g, err := lazygraph.NewGraphFromSchema(schema)
	require.NoError(t, err)

	ctx := g.NewContext(map[string]any{"mode": "double", "x": 21.0})

	doubled := ctx.Resolve("result.doubled")
	require.Empty(t, doubled.Err)
	require.InDelta(t, 42.0, doubled.Output, 0.0001)

	tripled := ctx.Resolve("result.tripled")
	require.Empty(t, tripled.Err)
	require.True(t, lazygraph.IsMissing(tripled.Output))
	require.Equal(t, 0, tripledInvocations)
}

// TestDynamicIndexInputScenario covers scenario 6: a crew member's
// position_id resolves the bracketed index of "positions[position_id]"
// at evaluation time, and that path's first segment ("positions") is a
// root-level sibling of the crew array rather than of the rule's own
// enclosing object — requiring the upward walk from §4.4.
func TestDynamicIndexInputScenario(t *testing.T) {
	positionItemSchema := lazyschema.Object(
		lazyschema.Prop("name", lazyschema.String()),
	)
	crewItemSchema := lazyschema.Object(
		lazyschema.Prop("position_id", lazyschema.Integer()),
		lazyschema.Prop("position", lazyschema.Any(
			lazyschema.Rule("positions[position_id]"),
		)),
	)
	schema := lazyschema.Object(
		lazyschema.Prop("positions", lazyschema.Array(lazyschema.Items(positionItemSchema))),
		lazyschema.Prop("crew", lazyschema.Array(lazyschema.Items(crewItemSchema))),
	)

	g, err := lazygraph.NewGraphFromSchema(schema)
	require.NoError(t, err)

	ctx := g.NewContext(map[string]any{
		"positions": []any{
			map[string]any{"name": "alpha"},
			map[string]any{"name": "beta"},
			map[string]any{"name": "gamma"},
		},
		"crew": []any{
			map[string]any{"position_id": 1.0},
		},
	})

	res := ctx.Resolve("crew[0].position")
	require.Empty(t, res.Err)

	position, ok := res.Output.(map[string]any)
	require.True(t, ok)
	require.Equal(t, "beta", position["name"])
}
