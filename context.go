package lazygraph

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// QueryResult is the response envelope of §6.3: the resolved output, the
// accumulated debug trace, and an error string with an optional abort
// status when resolution failed.
type QueryResult struct {
	Output     any          `json:"output"`
	DebugTrace []TraceEntry `json:"debug_trace,omitempty"`
	Err        string       `json:"err,omitempty"`
	Status     string       `json:"status,omitempty"`
}

// Context is a per-input-document façade over a Graph (§4.7). It is not
// safe for concurrent use — each query mutates its own private copy of
// the input and the graph's shared per-node memoization tables, which it
// clears again before returning.
type Context struct {
	graph *Graph
	input any
}

// Resolve evaluates a single query path (or the whole graph, for an
// empty string) against the context's input document. Every call deep
// copies nothing further (the copy already happened at NewContext),
// validates the input if the graph requires it, builds a fresh root
// stack pointer, runs the resolver, and clears all memoization tables
// before returning — so two calls on the same Context never see stale
// cached derivations from one another beyond what the input itself
// still holds.
func (c *Context) Resolve(query string) (result QueryResult) {
	defer func() {
		if r := recover(); r != nil {
			result = c.recoverPanic(r)
		}
	}()

	if c.graph.validateInput && c.graph.schema != nil {
		if verr := c.graph.schema.Validate(c.input); verr != nil && !verr.IsValid() {
			return QueryResult{Err: "input violates schema", Status: "abort"}
		}
	}

	path, err := ParsePath(query, true)
	if err != nil {
		return QueryResult{Err: err.Error()}
	}

	st := &evalState{graph: c.graph, tracer: newTracer(true)}
	root := c.graph.root
	rootStack := acquireStackPointer(nil, c.input, "")
	defer func() {
		root.clearMemo()
		releaseStackPointer(rootStack)
	}()

	out := root.resolve(path, rootStack, false, st)
	return QueryResult{Output: out, DebugTrace: st.tracer.Entries()}
}

// ResolveMany evaluates an array of query paths and returns their
// structural union, keyed by each query string exactly as given (§6.2).
func (c *Context) ResolveMany(queries []string) (result QueryResult) {
	defer func() {
		if r := recover(); r != nil {
			result = c.recoverPanic(r)
		}
	}()

	if c.graph.validateInput && c.graph.schema != nil {
		if verr := c.graph.schema.Validate(c.input); verr != nil && !verr.IsValid() {
			return QueryResult{Err: "input violates schema", Status: "abort"}
		}
	}

	paths := make([]*Path, 0, len(queries))
	for _, q := range queries {
		p, err := ParsePath(q, true)
		if err != nil {
			return QueryResult{Err: err.Error()}
		}
		paths = append(paths, p)
	}

	st := &evalState{graph: c.graph, tracer: newTracer(true)}
	root := c.graph.root
	rootStack := acquireStackPointer(nil, c.input, "")
	defer func() {
		root.clearMemo()
		releaseStackPointer(rootStack)
	}()

	union := make(map[string]any, len(paths))
	for i, p := range paths {
		union[queries[i]] = root.resolve(p, rootStack, false, st)
	}
	return QueryResult{Output: union, DebugTrace: st.tracer.Entries()}
}

// recoverPanic converts a recovered ValidationError/AbortError (or any
// other unrecovered exception from a calc that escaped safeInvoke) into
// the result envelope instead of letting it cross the Context boundary.
func (c *Context) recoverPanic(r any) QueryResult {
	switch e := r.(type) {
	case *ValidationError:
		return QueryResult{Err: e.Error(), Status: "abort"}
	case *AbortError:
		return QueryResult{Err: e.Error(), Status: "abort"}
	case error:
		if c.graph.logger != nil {
			c.graph.logger.WithError(e).Warn("unrecovered exception during resolve")
		}
		return QueryResult{Err: e.Error(), Status: "abort"}
	default:
		if c.graph.logger != nil {
			c.graph.logger.WithField("panic", r).Warn("unrecovered exception during resolve")
		}
		return QueryResult{Err: fmt.Sprintf("%v", r), Status: "abort"}
	}
}

// Get resolves query and returns the bare output, returning an error
// instead of the envelope's err string for idiomatic Go call sites.
func (c *Context) Get(query string) (any, error) {
	res := c.Resolve(query)
	if res.Err != "" {
		return nil, errors.New(res.Err)
	}
	return res.Output, nil
}

// GetJSON resolves query and returns a get_json view: Missing values and
// invisible fields stripped, structural keys preserved, cyclic
// references replaced with a sentinel (§4.6), serialized with the same
// JSON codec used throughout the package.
func (c *Context) GetJSON(query string) ([]byte, error) {
	res := c.Resolve(query)
	if res.Err != "" {
		return nil, errors.New(res.Err)
	}
	path, err := ParsePath(query, true)
	if err != nil {
		return nil, err
	}
	node := nodeAtPath(c.graph.root, path)
	stripped := stripForJSON(node, res.Output, map[uintptr]bool{})
	return json.Marshal(stripped)
}

// Debug resolves query and returns only its accumulated debug trace.
func (c *Context) Debug(query string) []TraceEntry {
	return c.Resolve(query).DebugTrace
}
