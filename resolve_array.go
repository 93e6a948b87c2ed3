package lazygraph

import "strconv"

// resolveArray implements §4.3's Array node table: an empty path forces
// every element through the items schema and returns the array itself;
// an index Part descends into that element; a non-index Part projects
// the named property across every element (when items exposes it); an
// all-index Group selects specific elements of this array; any other
// Group projects itself across every element of this array via items.
func (n *Node) resolveArray(path *Path, stack *StackPointer, preserveKeys bool, st *evalState) any {
	arr, ok := ensureArrayFrame(stack.Frame)
	if !ok {
		return MissingWith("expected array frame")
	}
	stack.Frame = arr

	if path.Empty() {
		if n.Items != nil && !n.Items.Simple {
			for i := range arr {
				fetchAndResolve(n.Items, &Path{}, arr, strconv.Itoa(i), stack, false, st)
			}
		}
		return arr
	}

	switch seg := path.Segment().(type) {
	case *Part:
		rest := path.Next()
		if seg.Index {
			idx, _ := seg.IntIndex()
			if idx < 0 || idx >= len(arr) {
				return MissingWith("array index out of range: " + seg.Name)
			}
			if n.Items == nil {
				return MissingWith("array has no items schema")
			}
			return fetchAndResolve(n.Items, rest, arr, strconv.Itoa(idx), stack, preserveKeys, st)
		}
		return n.projectOverElements(seg, rest, arr, stack, preserveKeys, st)
	case *Group:
		if seg.AllIndex() {
			out := make([]any, len(seg.Options))
			for i, opt := range seg.Options {
				full := opt.Merge(path.Next())
				out[i] = n.resolve(full, stack, preserveKeys, st)
			}
			if len(out) == 1 {
				return out[0]
			}
			return out
		}
		return n.projectOverElements(seg, path.Next(), arr, stack, preserveKeys, st)
	default:
		return MissingWith("unsupported path segment")
	}
}

// projectOverElements maps a non-index segment (a property name or a
// key-set group) across every array element via the items schema,
// returning one result per element in array order.
func (n *Node) projectOverElements(seg Segment, rest *Path, arr []any, stack *StackPointer, preserveKeys bool, st *evalState) any {
	if n.Items == nil {
		return MissingWith("array has no items schema")
	}
	if part, ok := seg.(*Part); ok {
		if n.Items.Kind == ObjectKind && n.Items.lookupChild(part.Name) == nil && !elementHasKey(arr, part.Name) {
			return MissingWith("array items do not expose property: " + part.Name)
		}
	}
	full := prependSegment(seg, rest)
	out := make([]any, len(arr))
	for i := range arr {
		child := stack.push(arr[i], strconv.Itoa(i))
		out[i] = n.Items.resolve(full, child, preserveKeys, st)
		releaseStackPointer(child)
	}
	return out
}
