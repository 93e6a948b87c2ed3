package lazygraph

import "strconv"

// evalState carries everything a single top-level query threads through
// every resolve/fetch call: the owning graph (for logging), and the
// tracer collecting debug entries. It is never mutated concurrently —
// the resolver is single-threaded and cooperative (§5).
type evalState struct {
	graph  *Graph
	tracer *Tracer
}

// resolve is the universal entry point for evaluating path against the
// schema position n, with stack's top frame bound as the container for
// n (§4.3). Results are memoized per (frame identity, path identity,
// preserveKeys) on the node itself.
func (n *Node) resolve(path *Path, stack *StackPointer, preserveKeys bool, st *evalState) any {
	if v, ok := n.lookupMemo(stack.Frame, path, preserveKeys); ok {
		return v
	}

	var result any
	switch n.Kind {
	case ObjectKind:
		result = n.resolveObject(path, stack, preserveKeys, st)
	case ArrayKind:
		result = n.resolveArray(path, stack, preserveKeys, st)
	default:
		result = n.resolveScalar(path, stack)
	}

	n.storeMemo(stack.Frame, path, preserveKeys, result)
	return result
}

// resolveScalar implements the Simple (scalar) node table of §4.3: an
// empty remaining path returns the coerced frame value itself; any
// further path segment descends into a leaf, which is always Missing.
func (n *Node) resolveScalar(path *Path, stack *StackPointer) any {
	if !path.Empty() {
		return MissingWith("cannot descend into scalar node: " + path.String())
	}
	return coerceScalar(n.ScalarType, stack.Frame)
}

// ensureObjectFrame normalizes a frame into a writable map, treating a
// missing or nil frame as an empty object so descending into an unset
// container never panics.
func ensureObjectFrame(frame any) (map[string]any, bool) {
	switch v := frame.(type) {
	case map[string]any:
		return v, true
	case nil:
		return map[string]any{}, true
	case Missing:
		return map[string]any{}, true
	default:
		return nil, false
	}
}

// ensureArrayFrame normalizes a frame into a slice, treating a missing or
// nil frame as an empty array.
func ensureArrayFrame(frame any) ([]any, bool) {
	switch v := frame.(type) {
	case []any:
		return v, true
	case nil:
		return []any{}, true
	case Missing:
		return []any{}, true
	default:
		return nil, false
	}
}

// frameGet reads a keyed entry out of an object or array frame, by name
// or integer-literal index respectively.
func frameGet(container any, key string) any {
	switch c := container.(type) {
	case map[string]any:
		v, ok := c[key]
		if !ok {
			return Missing{}
		}
		return v
	case []any:
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 || idx >= len(c) {
			return Missing{}
		}
		return c[idx]
	default:
		return Missing{}
	}
}

// frameSet interns a value back into a container at key, used to persist
// coerced present values and newly-derived values so later reads within
// the same query see them without recomputation.
func frameSet(container any, key string, value any) {
	switch c := container.(type) {
	case map[string]any:
		c[key] = value
	case []any:
		idx, err := strconv.Atoi(key)
		if err == nil && idx >= 0 && idx < len(c) {
			c[idx] = value
		}
	}
}

// prependSegment builds a new Path with seg as its first segment followed
// by rest's segments, used to project a group or property across every
// element of an array (§4.3, Array node / non-index Part and Group).
func prependSegment(seg Segment, rest *Path) *Path {
	parts := make([]Segment, 0, len(rest.Parts)+1)
	parts = append(parts, seg)
	parts = append(parts, rest.Parts...)
	return &Path{Parts: parts}
}

// elementHasKey reports whether the first element of arr is an object
// exposing key, used to validate a non-index property projection over an
// array whose items schema doesn't declare that property explicitly.
func elementHasKey(arr []any, key string) bool {
	if len(arr) == 0 {
		return false
	}
	m, ok := arr[0].(map[string]any)
	if !ok {
		return false
	}
	_, exists := m[key]
	return exists
}
