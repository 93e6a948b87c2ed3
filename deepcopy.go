package lazygraph

// deepCopyValue clones a JSON-decoded value tree (nested map[string]any /
// []any, plus scalars) so a Context's per-query mutation — interning
// coerced and derived values back into the frame — never reaches the
// caller's original document (§4.7, §5 resource discipline).
func deepCopyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = deepCopyValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = deepCopyValue(val)
		}
		return out
	default:
		return v
	}
}
