package lazygraph

// resolveObject implements §4.3's Object node table: an empty path forces
// every declared non-simple property (and every key matching a patternProperties
// regex) and returns the container itself; a Part segment descends into
// a declared child or lazily synthesizes one for an undeclared key
// present in the data; a Group segment resolves every option and merges
// the results by rendered key.
func (n *Node) resolveObject(path *Path, stack *StackPointer, preserveKeys bool, st *evalState) any {
	container, ok := ensureObjectFrame(stack.Frame)
	if !ok {
		return MissingWith("expected object frame")
	}
	stack.Frame = container

	if path.Empty() {
		for _, name := range n.PropertyOrder {
			child := n.Properties[name]
			if child.Simple {
				continue
			}
			fetchAndResolve(child, &Path{}, container, name, stack, false, st)
		}
		for _, pp := range n.PatternProperties {
			for key := range container {
				if pp.Pattern.MatchString(key) {
					fetchAndResolve(pp.Node, &Path{}, container, key, stack, false, st)
				}
			}
		}
		return container
	}

	switch seg := path.Segment().(type) {
	case *Part:
		rest := path.Next()
		if child := n.lookupChild(seg.Name); child != nil {
			return fetchAndResolve(child, rest, container, seg.Name, stack, preserveKeys, st)
		}
		if v, present := container[seg.Name]; present {
			synth := synthesizeNode(n, seg.Name, v)
			return fetchAndResolve(synth, rest, container, seg.Name, stack, preserveKeys, st)
		}
		return MissingWith("undeclared property: " + seg.Name)
	case *Group:
		return n.resolveGroup(seg, path.Next(), stack, st)
	default:
		return MissingWith("unsupported path segment")
	}
}

// resolveGroup resolves every option of a bracketed group against this
// node and combines them into a map keyed by each option's rendered
// string, collapsing to the bare value when the group has exactly one
// option (§4.2, Group collapse).
func (n *Node) resolveGroup(grp *Group, continuation *Path, stack *StackPointer, st *evalState) any {
	result := make(map[string]any, len(grp.Options))
	for _, opt := range grp.Options {
		full := opt.Merge(continuation)
		result[opt.String()] = n.resolve(full, stack, true, st)
	}
	if len(grp.Options) == 1 {
		for _, v := range result {
			return v
		}
	}
	return result
}
