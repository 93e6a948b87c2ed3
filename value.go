package lazygraph

// Missing is the sentinel that inhabits every type: arithmetic and string
// operations involving it yield Missing, and it is elided from JSON output.
// It is a distinct value rather than nil, and rule condition matching never
// treats it as equal to any value, nil included. It satisfies error so it can flow through
// functions returning (any, error) without a second sentinel, and it
// carries an optional diagnostic reason surfaced in debug traces.
type Missing struct {
	Reason string
	// Path names the specific dependency path that resolved to Missing,
	// when known — e.g. the "b" in a rule "sum = a + b" evaluated
	// against {a: 1}. Empty when the Missing value is the node's own,
	// rather than an unresolved input of it.
	Path string
}

func (m Missing) Error() string {
	if m.Reason == "" {
		return "missing"
	}
	return "missing: " + m.Reason
}

// MissingWith returns a Missing carrying a diagnostic reason; the resolver
// attaches one whether or not debug tracing is enabled.
func MissingWith(reason string) Missing {
	return Missing{Reason: reason}
}

// MissingAt returns a Missing attributed to a specific dependency path,
// used for Missing propagation out of a rule so a presence-validation
// failure further up can name the offending input rather than itself.
func MissingAt(path, reason string) Missing {
	return Missing{Reason: reason, Path: path}
}

// IsMissing reports whether v is the Missing sentinel, in any of its
// diagnostic forms.
func IsMissing(v any) bool {
	_, ok := v.(Missing)
	return ok
}

// AnyMissing reports whether any of vs is Missing — used to test rule
// inputs for gating and presence validation.
func AnyMissing(vs ...any) bool {
	for _, v := range vs {
		if IsMissing(v) {
			return true
		}
	}
	return false
}
