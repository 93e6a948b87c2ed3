package lazygraph

import "fmt"

// fetchAndResolve implements the hot path of §4.5: given the container
// holding node's value at key, decide whether to use a present value,
// bind a non-derived default, or invoke a derived node's rule — then
// continue resolving the remainder of path against whatever value
// results. Coerced present values, defaults and rule results are interned
// back into container so a later read within the same query sees them
// without recomputation; a present value that needs no coercion is left
// as it is, and the cycle guard's Missing is returned without being stored.
func fetchAndResolve(node *Node, path *Path, container any, key string, stack *StackPointer, preserveKeys bool, st *evalState) any {
	v := frameGet(container, key)

	if !IsMissing(v) {
		if needsCoercion(node) {
			v = coerceScalar(node.ScalarType, v)
			frameSet(container, key, v)
		}
		return continueInto(node, path, v, key, stack, preserveKeys, st)
	}

	if node.Rule == nil {
		def := Missing{Reason: "no value and no rule for " + node.Path}
		if node.HasDefault {
			def = coerceMaybeMissing(node, node.Default)
		}
		frameSet(container, key, def)
		checkPresence(node, def)
		return continueInto(node, path, def, key, stack, preserveKeys, st)
	}

	leave, ok := node.enterResolution(container, key, stack.RecursionDepth)
	if !ok {
		if st.graph != nil && st.graph.logger != nil {
			st.graph.logger.WithField("node", node.Path).Warn("infinite recursion detected, resolving to missing")
		}
		result := MissingWith("infinite recursion detected at " + node.Path)
		st.tracer.record(TraceEntry{
			Output:    node.Path,
			Location:  node.Path,
			Exception: "Infinite Recursion Detected",
		})
		return result
	}
	defer leave()

	result := invokeRule(node, container, stack, st)
	frameSet(container, key, result)
	checkPresence(node, result)
	return continueInto(node, path, result, key, stack, preserveKeys, st)
}

// continueInto pushes value as a fresh frame keyed by key and resolves
// the remaining path against node relative to it.
func continueInto(node *Node, path *Path, value any, key string, stack *StackPointer, preserveKeys bool, st *evalState) any {
	child := stack.push(value, key)
	defer releaseStackPointer(child)
	return node.resolve(path, child, preserveKeys, st)
}

// needsCoercion reports whether a present value at node must be coerced
// before use: boolean nodes (truthy coercion) and the extended scalar
// types beyond what JSON already represents natively.
func needsCoercion(node *Node) bool {
	if node.Kind != ScalarKind {
		return false
	}
	switch node.ScalarType {
	case TypeBoolean, TypeDecimal, TypeDate, TypeTime, TypeTimestamp:
		return true
	default:
		return false
	}
}

func coerceMaybeMissing(node *Node, v any) any {
	if node.Kind != ScalarKind {
		return v
	}
	return coerceScalar(node.ScalarType, v)
}

// checkPresence promotes a Missing result at a presence-validated node
// into an aborting ValidationError (§4.5, validatePresence). The error
// names the specific dependency path that was Missing, if the Missing
// value carries one (e.g. "b" in a rule "sum = a + b" evaluated against
// {a: 1}), falling back to the node's own path otherwise.
func checkPresence(node *Node, v any) {
	if !node.ValidatePresence || !IsMissing(v) {
		return
	}
	path := node.Path
	if m, ok := v.(Missing); ok && m.Path != "" {
		path = m.Path
	}
	panic(&ValidationError{Path: path, Message: "required value resolved to missing"})
}

// invokeRule binds every declared input, checks gating conditions, and —
// for a plain copy rule — short-circuits to the bound value directly;
// otherwise it invokes the compiled calc, recovering any panic or error
// into a diagnostic Missing rather than aborting the whole query.
func invokeRule(node *Node, container any, stack *StackPointer, st *evalState) any {
	rule := node.Rule

	if rule.CopyInput && len(rule.Inputs) == 1 {
		v := resolveRuleInput(node, rule.Inputs[0], stack, st)
		if IsMissing(v) {
			v = MissingAt(rule.Inputs[0].Path.String(), "input missing, calc not invoked")
		}
		result := coerceMaybeMissing(node, v)
		st.tracer.record(TraceEntry{
			Output:   node.Path,
			Result:   result,
			Location: rule.Location,
			Calc:     rule.Src,
		})
		return result
	}

	bound := make(map[string]any, len(rule.Inputs))
	for _, input := range rule.Inputs {
		bound[input.Name] = resolveRuleInput(node, input, stack, st)
	}

	for name, cond := range rule.Conditions {
		if !cond.Matches(bound[name]) {
			return MissingWith("condition not met: " + name)
		}
	}

	if rule.HasFixed {
		return coerceMaybeMissing(node, rule.FixedResult)
	}

	// Missing propagation: a rule whose any input is Missing produces
	// Missing without invoking calc at all (§8.1). Inputs are walked in
	// declared order (not the unordered bound map) so the first missing
	// one can be named in the result, letting a presence-validation
	// failure further up report the actual offending dependency path.
	for _, input := range rule.Inputs {
		if v, ok := bound[input.Name]; ok && IsMissing(v) {
			result := MissingAt(input.Path.String(), "input missing, calc not invoked")
			st.tracer.record(TraceEntry{Output: node.Path, Result: result, Inputs: bound, Location: rule.Location, Calc: rule.Src})
			return result
		}
	}

	result, err := safeInvoke(rule.Calc, &CalcContext{Inputs: bound, Itself: container, StackPtr: stack})
	if err != nil {
		if st.graph != nil && st.graph.logger != nil {
			st.graph.logger.WithError(err).WithField("node", node.Path).Warn("rule calc failed")
		}
		result = MissingWith(err.Error())
	} else {
		result = coerceMaybeMissing(node, result)
	}

	st.tracer.record(TraceEntry{
		Output:   node.Path,
		Result:   result,
		Inputs:   bound,
		Calc:     rule.Src,
		Location: rule.Location,
	})
	return result
}

// safeInvoke recovers a panicking calc into an error, so a single
// misbehaving rule degrades to Missing rather than aborting the query.
func safeInvoke(calc Calc, ctx *CalcContext) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ae, ok := r.(*AbortError); ok {
				panic(ae)
			}
			if ve, ok := r.(*ValidationError); ok {
				panic(ve)
			}
			err = fmt.Errorf("%v", r)
		}
	}()
	if calc == nil {
		return Missing{}, nil
	}
	return calc(ctx)
}

// resolveRuleInput materializes any dynamic index segments in input's
// path against the current evaluation frame, then resolves the result
// from the rule's bound enclosing node — the rule's own enclosing node
// for the common relative case, an ancestor further up the tree when the
// path's first segment only resolved there at build time (§4.4's upward
// walk), or the query root for an absolute path — paired with the
// evaluation frame at the matching number of levels up.
func resolveRuleInput(owner *Node, input *RuleInput, stack *StackPointer, st *evalState) any {
	start := input.EnclosingNode
	base := stack
	if input.UseRootFrame {
		base = stack.Root
	} else {
		base = stack.ancestor(input.AncestorLevels - 1)
	}
	if start == nil || base == nil {
		return MissingWith("rule input has no enclosing frame: " + input.Path.String())
	}

	path := input.Path
	if len(input.DynamicIndexes) > 0 {
		path = materializeDynamicPath(owner, input, stack, st)
	}

	stack.RecursionDepth++
	defer func() { stack.RecursionDepth-- }()
	return start.resolve(path, base, false, st)
}

// materializeDynamicPath substitutes each recorded dynamic-index segment
// of input's path with the rendered value of its bracketed sub-path,
// resolved relative to the rule's own enclosing frame — e.g. rewriting
// "positions[position_id]" into "positions[3]" once position_id is known.
func materializeDynamicPath(owner *Node, input *RuleInput, stack *StackPointer, st *evalState) *Path {
	parts := make([]Segment, len(input.Path.Parts))
	copy(parts, input.Path.Parts)
	for _, dyn := range input.DynamicIndexes {
		grp, ok := parts[dyn.Segment].(*Group)
		if !ok || len(grp.Options) == 0 {
			continue
		}
		start := owner.Parent
		if start == nil {
			continue
		}
		val := start.resolve(grp.Options[0], stack, false, st)
		rendered := fmt.Sprint(coerceString(val))
		parts[dyn.Segment] = &Part{Name: rendered, Index: isIntegerLiteral(rendered)}
	}
	return &Path{Parts: parts}
}
