package lazygraph

import (
	"github.com/sirupsen/logrus"

	"github.com/lazygraph/lazygraph/internal/schemavalidate"
)

// Graph is a compiled schema: its node tree and rule graph. A Graph is
// immutable once built and safe for concurrent read-only use across
// many Contexts (§5).
type Graph struct {
	root          *Node
	schema        *schemavalidate.Schema
	validateInput bool
	logger        *logrus.Entry
	debug         bool
}

// GraphOption configures NewGraph, in the teacher's functional-options
// style (schemavalidate.Compiler's WithEncoderJSON/WithDecoderJSON).
type GraphOption func(*graphConfig)

type graphConfig struct {
	compiler      *schemavalidate.Compiler
	validateInput bool
	logger        *logrus.Entry
	debug         bool
}

// WithCompiler supplies a pre-configured *schemavalidate.Compiler (custom
// base URI, format assertion, registered $refs, …) instead of a default
// one built fresh for this graph.
func WithCompiler(c *schemavalidate.Compiler) GraphOption {
	return func(cfg *graphConfig) { cfg.compiler = c }
}

// WithInputValidation enables structural JSON-schema validation of every
// input document passed to Context.Resolve, in addition to rule
// evaluation (§4.7).
func WithInputValidation() GraphOption {
	return func(cfg *graphConfig) { cfg.validateInput = true }
}

// WithLogger sets the *logrus.Entry used for calc failures and
// cycle-detection warnings (§9 ambient stack). Defaults to a standard
// logrus.Entry with no fields set.
func WithLogger(logger *logrus.Entry) GraphOption {
	return func(cfg *graphConfig) { cfg.logger = logger }
}

// WithDebugTrace sets the graph's debug flag. Resolve, ResolveMany and
// Debug collect a debug trace on every call whether or not this option is
// given; the flag does not change what a query returns.
func WithDebugTrace() GraphOption {
	return func(cfg *graphConfig) { cfg.debug = true }
}

// NewGraph compiles a schema document into a Graph: internal/schemavalidate
// first decodes the document and checks that its regex patterns compile
// (the document is not validated against a metaschema), then it is walked
// into a Node tree with every rule descriptor compiled and its inputs
// bound (§4.2, §4.4).
func NewGraph(schemaJSON []byte, opts ...GraphOption) (*Graph, error) {
	cfg := &graphConfig{
		logger: logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	compiler := cfg.compiler
	if compiler == nil {
		compiler = schemavalidate.NewCompiler()
	}

	schema, err := compiler.Compile(schemaJSON)
	if err != nil {
		return nil, &ValidationError{Message: "schema compilation failed: " + err.Error()}
	}

	return buildGraph(schema, cfg)
}

// NewGraphFromSchema builds a Graph directly from an already-assembled
// *schemavalidate.Schema, as produced by the lazyschema builder DSL. This
// is the entry point a program using host-language closures for rule
// calcs must use: a rule descriptor carrying a Go func value cannot
// round-trip through the JSON document NewGraph parses.
func NewGraphFromSchema(schema *schemavalidate.Schema, opts ...GraphOption) (*Graph, error) {
	cfg := &graphConfig{
		logger: logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return buildGraph(schema, cfg)
}

func buildGraph(schema *schemavalidate.Schema, cfg *graphConfig) (*Graph, error) {
	root, err := buildNode(schema, "", "$", 0, nil, nil)
	if err != nil {
		return nil, err
	}
	if err := compileRules(root); err != nil {
		return nil, err
	}

	return &Graph{
		root:          root,
		schema:        schema,
		validateInput: cfg.validateInput,
		logger:        cfg.logger,
		debug:         cfg.debug,
	}, nil
}

// NewContext opens a per-input-document façade over the graph (§4.7). The
// input is deep-copied immediately, so subsequent mutation of the
// caller's original document never affects an open Context.
func (g *Graph) NewContext(input any) *Context {
	return &Context{
		graph: g,
		input: deepCopyValue(input),
	}
}
