package lazygraph

import (
	"fmt"
	"sort"
	"strings"
)

// RuleSpec is the structured {inputs, calc, conditions?} rule descriptor
// form. Inputs may be a flat list of path strings (the slot name mirrors
// the path's last segment, mangled to identifier-safe) or a map of
// name -> path for explicit slot naming. Calc is the compiled closure;
// Conditions optionally gates the rule.
//
// This is also how a "host-language closure whose parameters designate
// inputs" (spec §4.4) is expressed in Go: Go has no reflectable default
// parameter values, so the closure's parameter list is given explicitly
// via Named/Inputs instead of inferred from a function signature.
type RuleSpec struct {
	Inputs     []string
	Named      map[string]string
	Calc       Calc
	Conditions map[string]any
	Src        string
}

// placeholderPattern-free scan: "${...}" is found with a small hand-rolled
// scanner rather than regexp, mirroring the path parser's cursor style.
func findPlaceholders(s string) []string {
	var out []string
	seen := map[string]bool{}
	for i := 0; i < len(s); i++ {
		if s[i] == '$' && i+1 < len(s) && s[i+1] == '{' {
			end := strings.IndexByte(s[i+2:], '}')
			if end < 0 {
				break
			}
			expr := s[i+2 : i+2+end]
			if !seen[expr] {
				seen[expr] = true
				out = append(out, expr)
			}
			i += 2 + end
		}
	}
	return out
}

// compileRuleDescriptor normalizes any supported rule descriptor form
// into a *Rule, binding every declared input to a concrete schema node.
// A rule's declared inputs must resolve to existing schema nodes at
// build time; failure is a deterministic build-time ValidationError.
func compileRuleDescriptor(owner *Node, descriptor any, location string) (*Rule, error) {
	switch d := descriptor.(type) {
	case string:
		return compileStringRule(owner, d, location)
	case RuleSpec:
		return compileRuleSpec(owner, d, location)
	case *RuleSpec:
		return compileRuleSpec(owner, *d, location)
	case map[string]any:
		return compileMapRule(owner, d, location)
	case Calc:
		return &Rule{Calc: d, Location: location}, nil
	default:
		return nil, &ValidationError{Path: owner.Path, Message: fmt.Sprintf("unsupported rule descriptor type %T", descriptor)}
	}
}

func compileStringRule(owner *Node, s, location string) (*Rule, error) {
	placeholders := findPlaceholders(s)
	if len(placeholders) == 0 {
		// Plain string/symbol path: a single-input copy rule, no calc.
		input, err := bindInput(owner, "value", s)
		if err != nil {
			return nil, err
		}
		return &Rule{
			Inputs:    []*RuleInput{input},
			CopyInput: true,
			Src:       s,
			Location:  location,
		}, nil
	}

	if len(placeholders) == 1 && strings.TrimSpace(s) == "${"+placeholders[0]+"}" {
		// The whole string is one placeholder: identical to a copy rule.
		input, err := bindInput(owner, "value", placeholders[0])
		if err != nil {
			return nil, err
		}
		return &Rule{
			Inputs:    []*RuleInput{input},
			CopyInput: true,
			Src:       s,
			Location:  location,
		}, nil
	}

	// Multiple placeholders, or a placeholder embedded in literal text: no
	// bundled expression engine is mandated by the core (§9 Design Notes),
	// so the calc performs template substitution of each bound input's
	// coerced string form into the source text.
	inputs := make([]*RuleInput, 0, len(placeholders))
	slotForExpr := make(map[string]string, len(placeholders))
	for _, expr := range placeholders {
		slot := mangleIdentifier(expr)
		slotForExpr[expr] = slot
		input, err := bindInput(owner, slot, expr)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, input)
	}
	template := s
	calc := func(ctx *CalcContext) (any, error) {
		out := template
		for expr, slot := range slotForExpr {
			v := ctx.Value(slot)
			if IsMissing(v) {
				return v, nil
			}
			out = strings.ReplaceAll(out, "${"+expr+"}", coerceString(v).(string))
		}
		return out, nil
	}
	return &Rule{Inputs: inputs, Calc: calc, Src: s, Location: location}, nil
}

func compileRuleSpec(owner *Node, spec RuleSpec, location string) (*Rule, error) {
	var inputs []*RuleInput
	declared := map[string]bool{}
	for _, p := range spec.Inputs {
		slot := mangleIdentifier(lastSegment(p))
		input, err := bindInput(owner, slot, p)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, input)
		declared[slot] = true
	}
	names := make([]string, 0, len(spec.Named))
	for name := range spec.Named {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		input, err := bindInput(owner, name, spec.Named[name])
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, input)
		declared[name] = true
	}

	conditions, err := compileConditions(spec.Conditions, declared, owner.Path)
	if err != nil {
		return nil, err
	}

	return &Rule{
		Inputs:     inputs,
		Calc:       spec.Calc,
		Conditions: conditions,
		Src:        spec.Src,
		Location:   location,
	}, nil
}

// compileMapRule handles a rule descriptor decoded from JSON (or built
// generically), shaped {"inputs": [...]|{...}, "calc": Calc, "conditions": {...}}.
func compileMapRule(owner *Node, m map[string]any, location string) (*Rule, error) {
	spec := RuleSpec{}
	switch in := m["inputs"].(type) {
	case []string:
		spec.Inputs = in
	case []any:
		for _, v := range in {
			if s, ok := v.(string); ok {
				spec.Inputs = append(spec.Inputs, s)
			}
		}
	case map[string]string:
		spec.Named = in
	case map[string]any:
		spec.Named = make(map[string]string, len(in))
		for k, v := range in {
			if s, ok := v.(string); ok {
				spec.Named[k] = s
			}
		}
	}
	if c, ok := m["calc"].(Calc); ok {
		spec.Calc = c
	} else if c, ok := m["calc"].(func(*CalcContext) (any, error)); ok {
		spec.Calc = c
	}
	if cond, ok := m["conditions"].(map[string]any); ok {
		spec.Conditions = cond
	}
	if src, ok := m["src"].(string); ok {
		spec.Src = src
	}
	return compileRuleSpec(owner, spec, location)
}

func compileConditions(raw map[string]any, declared map[string]bool, ownerPath string) (map[string]ConditionSpec, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]ConditionSpec, len(raw))
	for name, v := range raw {
		if !declared[name] {
			return nil, &ValidationError{Path: ownerPath, Message: "condition references undeclared input: " + name}
		}
		if list, ok := v.([]any); ok {
			out[name] = ConditionSpec{Set: list, IsSet: true}
		} else {
			out[name] = ConditionSpec{Literal: v}
		}
	}
	return out, nil
}

// bindInput parses and resolves a declared input path against the schema
// at build time, binding it to a concrete resolver node.
func bindInput(owner *Node, slot, pathStr string) (*RuleInput, error) {
	path, err := ParsePath(pathStr, false)
	if err != nil {
		return nil, &ValidationError{Path: owner.Path, Message: "rule input path: " + err.Error()}
	}
	absolute := path.Absolute()
	resolvePath := path
	if absolute {
		resolvePath = path.Next()
	}

	var enclosing *Node
	var levels int
	useRoot := absolute || owner.Parent == nil
	if useRoot {
		enclosing = owner.Root
	} else {
		enclosing, levels = findEnclosingAncestor(owner, resolvePath)
	}

	node, dyn, err := walkSchemaPath(enclosing, resolvePath)
	if err != nil {
		return nil, err
	}
	return &RuleInput{
		Name:           slot,
		Path:           resolvePath,
		Node:           node,
		Absolute:       absolute,
		DynamicIndexes: dyn,
		EnclosingNode:  enclosing,
		AncestorLevels: levels,
		UseRootFrame:   useRoot,
	}, nil
}

// findEnclosingAncestor implements §4.4's upward walk for a relative
// input: starting from owner's immediate enclosing node, climb toward
// the root until reaching an ancestor whose schema resolves path's first
// segment — e.g. a rule nested deep in an array item referencing
// "positions[position_id]", where "positions" is a root-level sibling of
// the enclosing array rather than of the rule's own owner. levels counts
// how many Parent hops were taken, 1 for the immediate parent (the
// behavior when no climb is needed).
func findEnclosingAncestor(owner *Node, path *Path) (*Node, int) {
	cur := owner.Parent
	levels := 1
	if path.Empty() {
		return cur, levels
	}
	seg := path.Segment()
	for !firstSegmentResolves(cur, seg) && cur.Parent != nil {
		cur = cur.Parent
		levels++
	}
	return cur, levels
}

// firstSegmentResolves reports whether seg names something reachable
// directly from cur, mirroring walkSchemaPath's own first-segment
// dispatch closely enough to avoid climbing past an array whose items
// schema simply doesn't declare the named property.
func firstSegmentResolves(cur *Node, seg Segment) bool {
	switch s := seg.(type) {
	case *Part:
		switch cur.Kind {
		case ObjectKind:
			return cur.lookupChild(s.Name) != nil
		case ArrayKind:
			if cur.Items == nil {
				return false
			}
			if s.Index || cur.Items.Kind != ObjectKind {
				return true
			}
			return cur.Items.lookupChild(s.Name) != nil
		default:
			return false
		}
	case *Group:
		return cur.Kind == ObjectKind || (cur.Kind == ArrayKind && cur.Items != nil)
	default:
		return false
	}
}

// walkSchemaPath walks path against the built schema tree starting from
// cur, to find the resolver node it designates. Any bracketed group
// containing a single non-index symbol is a dynamic index: its position
// is recorded so it can be re-materialized from a resolved value during
// each evaluation (§4.4).
func walkSchemaPath(cur *Node, path *Path) (*Node, []DynamicIndex, error) {
	var dyn []DynamicIndex
	rest := path
	segIdx := 0
	for !rest.Empty() {
		switch seg := rest.Segment().(type) {
		case *Part:
			switch cur.Kind {
			case ObjectKind:
				child := cur.lookupChild(seg.Name)
				if child == nil {
					return nil, nil, &ValidationError{Path: path.String(), Message: "rule input does not resolve to a schema node: " + seg.Name}
				}
				cur = child
			case ArrayKind:
				if cur.Items == nil {
					return nil, nil, &ValidationError{Path: path.String(), Message: "rule input indexes an array with no items schema"}
				}
				if seg.Index {
					cur = cur.Items
				} else if cur.Items.Kind == ObjectKind {
					// Non-index Part after an array: a property projected
					// across every element, e.g. "items.line_total".
					child := cur.Items.lookupChild(seg.Name)
					if child == nil {
						return nil, nil, &ValidationError{Path: path.String(), Message: "rule input does not resolve to a schema node: " + seg.Name}
					}
					cur = child
				} else {
					cur = cur.Items
				}
			default:
				return nil, nil, &ValidationError{Path: path.String(), Message: "rule input descends into a scalar node"}
			}
		case *Group:
			if len(seg.Options) == 1 && len(seg.Options[0].Parts) == 1 {
				if part, ok := seg.Options[0].Parts[0].(*Part); ok && !part.Index {
					dyn = append(dyn, DynamicIndex{Segment: segIdx})
				}
			}
			if cur.Kind == ArrayKind && cur.Items != nil {
				cur = cur.Items
			} else if cur.Kind == ObjectKind {
				// key-set projection over object children is resolved at
				// evaluation time against the concrete input; the schema
				// position itself doesn't change.
			}
		}
		rest = rest.Next()
		segIdx++
	}
	return cur, dyn, nil
}

func lastSegment(pathStr string) string {
	trimmed := strings.TrimSuffix(pathStr, "]")
	for i := len(trimmed) - 1; i >= 0; i-- {
		switch trimmed[i] {
		case '.', '[':
			return trimmed[i+1:]
		}
	}
	return trimmed
}

func mangleIdentifier(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	out := b.String()
	if out == "" {
		return "_"
	}
	if out[0] >= '0' && out[0] <= '9' {
		return "_" + out
	}
	return out
}

