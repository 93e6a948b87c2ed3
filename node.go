package lazygraph

import (
	"reflect"
	"regexp"
	"sync"

	"github.com/lazygraph/lazygraph/internal/schemavalidate"
)

// NodeKind distinguishes object, array and scalar schema positions.
type NodeKind int

const (
	ScalarKind NodeKind = iota
	ObjectKind
	ArrayKind
)

// PatternProperty pairs a compiled patternProperties regex with the child
// node it governs. A node keeps them in the order Go's map iteration over
// the schema's patternProperties yields, which is not declaration order.
type PatternProperty struct {
	Pattern *regexp.Regexp
	Node    *Node
}

// Node is a schema position: name and path from root, kind, optional
// default/rule/visibility flags, and — for containers — child nodes.
// A schema graph is built once and is immutable thereafter; Node carries
// its own per-query memoization table, cleared at the end of every
// top-level query (§5).
type Node struct {
	Name   string
	Path   string
	Depth  int
	Parent *Node
	Root   *Node

	Kind       NodeKind
	ScalarType string // "", string/integer/number/boolean/null/decimal/date/time/timestamp

	HasDefault       bool
	Default          any
	Invisible        bool
	ValidatePresence bool

	// Simple is true iff this is a non-container leaf without a rule and
	// without a default: the resolver short-circuits to a plain coercion.
	Simple bool

	Properties        map[string]*Node
	PropertyOrder     []string
	PatternProperties []PatternProperty
	Items             *Node

	Rule *Rule

	// schemaRef is the originating schema node, kept only between the
	// tree-building pass and the rule-compilation pass (§4.2): a rule's
	// inputs may name a sibling or descendant that doesn't exist yet
	// while its own node is still being built.
	schemaRef *schemavalidate.Schema

	mu        sync.Mutex
	visited   map[uint64]any
	resolving map[resolutionKey]struct{}
}

type resolutionKey struct {
	container uintptr
	key       string
}

// frameIdentity returns Go's notion of reference identity for a map or
// slice frame, used as half of the resolver's memoization key.
func frameIdentity(frame any) uintptr {
	v := reflect.ValueOf(frame)
	switch v.Kind() {
	case reflect.Map, reflect.Slice, reflect.Ptr:
		return v.Pointer()
	default:
		return 0
	}
}

func (n *Node) memoKey(frame any, path *Path, preserveKeys bool) uint64 {
	key := uint64(frameIdentity(frame)) ^ path.Identity()
	if preserveKeys {
		key ^= 0x9E3779B97F4A7C15
	}
	return key
}

func (n *Node) lookupMemo(frame any, path *Path, preserveKeys bool) (any, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.visited == nil {
		return nil, false
	}
	v, ok := n.visited[n.memoKey(frame, path, preserveKeys)]
	return v, ok
}

func (n *Node) storeMemo(frame any, path *Path, preserveKeys bool, v any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.visited == nil {
		n.visited = make(map[uint64]any)
	}
	n.visited[n.memoKey(frame, path, preserveKeys)] = v
}

// clearMemo empties this node's visited table and recurses into children;
// called at the end of every top-level query per the resource discipline.
func (n *Node) clearMemo() {
	n.mu.Lock()
	n.visited = nil
	n.mu.Unlock()
	for _, child := range n.Properties {
		child.clearMemo()
	}
	for _, pp := range n.PatternProperties {
		pp.Node.clearMemo()
	}
	if n.Items != nil {
		n.Items.clearMemo()
	}
}

// enterResolution registers (container, key) on this node's cycle guard,
// returning false if it is already on the stack (a cycle) or the frame's
// recursion depth has passed the bound. The caller must call leave() on
// every exit path.
func (n *Node) enterResolution(containerFrame any, key string, depth int) (leave func(), ok bool) {
	n.mu.Lock()
	if n.resolving == nil {
		n.resolving = make(map[resolutionKey]struct{})
	}
	rk := resolutionKey{container: frameIdentity(containerFrame), key: key}
	if depth >= MaxRecursionDepth {
		n.mu.Unlock()
		return func() {}, false
	}
	if _, already := n.resolving[rk]; already {
		n.mu.Unlock()
		return func() {}, false
	}
	n.resolving[rk] = struct{}{}
	n.mu.Unlock()
	return func() {
		n.mu.Lock()
		delete(n.resolving, rk)
		n.mu.Unlock()
	}, true
}
