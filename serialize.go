package lazygraph

import "reflect"

// stripForJSON implements the get_json view of §4.6: Missing values and
// invisible fields are omitted while structural keys are preserved, and
// a value revisited through a cycle in the assembled output (possible
// when a rule projects the same container from two paths) is replaced
// by a circular-reference sentinel instead of recursing forever.
func stripForJSON(node *Node, value any, seen map[uintptr]bool) any {
	if IsMissing(value) {
		return nil
	}
	if node == nil {
		return stripUnknown(value, seen)
	}

	switch v := value.(type) {
	case map[string]any:
		if id, cyclic := checkCycle(v, seen); cyclic {
			return id
		}
		out := make(map[string]any, len(v))
		for key, child := range v {
			childNode := node.lookupChild(key)
			if childNode != nil && childNode.Invisible {
				continue
			}
			if IsMissing(child) {
				continue
			}
			out[key] = stripForJSON(childNode, child, seen)
		}
		return out
	case []any:
		if id, cyclic := checkCycle(v, seen); cyclic {
			return id
		}
		out := make([]any, 0, len(v))
		for _, elem := range v {
			if IsMissing(elem) {
				continue
			}
			out = append(out, stripForJSON(node.Items, elem, seen))
		}
		return out
	default:
		return v
	}
}

// stripUnknown handles a value reached without a corresponding schema
// node (a synthesized, undeclared position): it still strips Missing and
// breaks cycles, but has no invisible flag to honor.
func stripUnknown(value any, seen map[uintptr]bool) any {
	switch v := value.(type) {
	case map[string]any:
		if id, cyclic := checkCycle(v, seen); cyclic {
			return id
		}
		out := make(map[string]any, len(v))
		for key, child := range v {
			if IsMissing(child) {
				continue
			}
			out[key] = stripUnknown(child, seen)
		}
		return out
	case []any:
		if id, cyclic := checkCycle(v, seen); cyclic {
			return id
		}
		out := make([]any, 0, len(v))
		for _, elem := range v {
			if IsMissing(elem) {
				continue
			}
			out = append(out, stripUnknown(elem, seen))
		}
		return out
	default:
		return v
	}
}

// checkCycle records container in seen (keyed by its reference identity)
// and reports whether it was already present, in which case the caller
// should substitute the circular-reference sentinel instead of
// recursing.
func checkCycle(container any, seen map[uintptr]bool) (any, bool) {
	id := reflect.ValueOf(container).Pointer()
	if seen[id] {
		return map[string]any{"^ref": "circular"}, true
	}
	seen[id] = true
	return nil, false
}

// nodeAtPath walks the schema tree along path's Part segments to find
// the node that a resolved value logically corresponds to, for use when
// stripping a get_json view of a non-root query. Group segments resolve
// through their first option, which is sufficient for invisibility
// bookkeeping even though it isn't a full path resolution.
func nodeAtPath(root *Node, path *Path) *Node {
	cur := root
	rest := path
	for !rest.Empty() && cur != nil {
		switch seg := rest.Segment().(type) {
		case *Part:
			if seg.Index {
				cur = cur.Items
			} else if child := cur.lookupChild(seg.Name); child != nil {
				cur = child
			} else {
				return nil
			}
		case *Group:
			if len(seg.Options) == 0 {
				return nil
			}
			return nodeAtPath(cur, seg.Options[0].Merge(rest.Next()))
		}
		rest = rest.Next()
	}
	return cur
}
