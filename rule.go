package lazygraph

// RuleInput is one compiled, build-time-bound dependency of a rule: the
// path it was declared with, the resolver node it was bound to, the slot
// it fills in the calc's named-slot binding, and any dynamic segments
// that must be re-materialized from already-resolved values on every
// evaluation (e.g. "positions[position_id]").
type RuleInput struct {
	Name           string // identifier-safe slot name bound in calc's context
	Path           *Path
	Node           *Node
	Absolute       bool
	DynamicIndexes []DynamicIndex

	// EnclosingNode is the schema node Path was resolved relative to:
	// owner.Parent for the common case, an ancestor further up when the
	// path's first segment only resolves higher in the tree (§4.4's
	// upward walk), or owner.Root when UseRootFrame is set.
	EnclosingNode *Node
	// AncestorLevels is how many stack.Parent hops from the evaluating
	// frame reach EnclosingNode's paired frame; meaningless when
	// UseRootFrame is set.
	AncestorLevels int
	// UseRootFrame is true for an absolute input, or a relative one
	// declared on the graph root itself (which has no enclosing node to
	// climb from): EnclosingNode pairs with the root stack frame.
	UseRootFrame bool
}

// DynamicIndex records a bracketed index expression inside a rule input
// path that itself depends on another node's resolved value; Segment is
// the position within Path.Parts that must be substituted before
// resolving. Ref is left nil by walkSchemaPath: materializeDynamicPath
// resolves the bracketed group's single option directly.
type DynamicIndex struct {
	Segment int
	Ref     *RuleInput
}

// Calc is the invocable compiled from a rule descriptor's calc form: a
// named-slot binding of already-resolved inputs (plus itself/stackPtr),
// returning the derived value or an error.
type Calc func(ctx *CalcContext) (any, error)

// CalcContext is the named-slot binding passed to a compiled Calc.
type CalcContext struct {
	Inputs  map[string]any
	Itself  any
	StackPtr *StackPointer
}

// Value returns a bound input by name, or a diagnostic Missing if no input
// of that name was bound. A calc's reads are not checked at build time;
// compileRuleDescriptor only rejects conditions naming undeclared inputs.
func (c *CalcContext) Value(name string) any {
	if v, ok := c.Inputs[name]; ok {
		return v
	}
	return MissingWith("undeclared input: " + name)
}

// Rule is the compiled, canonical form every rule descriptor normalizes
// to: (inputs, calc, conditions?, fixedResult?, copyInput?, src?).
type Rule struct {
	Inputs       []*RuleInput
	Calc         Calc
	Conditions   map[string]ConditionSpec
	FixedResult  any
	HasFixed     bool
	CopyInput    bool // true iff this is a single unmapped reference
	Src          string
	Location     string
}

// ConditionSpec gates a rule on one input equaling a literal, or being
// contained in a set of allowed literals.
type ConditionSpec struct {
	Literal any
	Set     []any
	IsSet   bool
}

// Matches reports whether v satisfies this gating condition.
func (c ConditionSpec) Matches(v any) bool {
	if IsMissing(v) {
		return false
	}
	if c.IsSet {
		for _, allowed := range c.Set {
			if scalarEqual(allowed, v) {
				return true
			}
		}
		return false
	}
	return scalarEqual(c.Literal, v)
}

func scalarEqual(a, b any) bool {
	if IsMissing(a) || IsMissing(b) {
		return false
	}
	return a == b
}
