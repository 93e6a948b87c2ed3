package lazygraph

import (
	"fmt"
	"regexp"

	"github.com/lazygraph/lazygraph/internal/schemavalidate"
)

// MaxRecursionDepth bounds the cycle guard: entering a node's resolution
// past this many nested dependency resolves without leaving is treated as
// an infinite recursion (§4.5).
const MaxRecursionDepth = 8

// buildNode walks an already structurally-validated *schemavalidate.Schema
// and constructs the corresponding Node, recursively building children.
// Build order: normalize type and flags, then (for object) properties and
// patternProperties, then (for array) items. Rule compilation happens in
// a second pass over the built tree (compileRules), since a rule's inputs
// may reference sibling or ancestor nodes that must already exist.
func buildNode(schema *schemavalidate.Schema, name, path string, depth int, parent, root *Node) (*Node, error) {
	n := &Node{
		Name:   name,
		Path:   path,
		Depth:  depth,
		Parent: parent,
	}
	if root == nil {
		root = n
	}
	n.Root = root

	if schema == nil {
		n.Kind = ScalarKind
		n.Simple = true
		return n, nil
	}

	n.Invisible = schema.Invisible
	n.ValidatePresence = schema.ValidatePresence
	if schema.Default != nil {
		n.HasDefault = true
		n.Default = schema.Default
	}

	primary := primarySchemaType(schema)
	switch {
	case primary == "object" || schema.Properties != nil || schema.PatternProperties != nil:
		n.Kind = ObjectKind
		n.ScalarType = ""
		if err := buildObjectChildren(n, schema, root); err != nil {
			return nil, err
		}
	case primary == "array" || schema.Items != nil:
		n.Kind = ArrayKind
		n.ScalarType = ""
		if schema.Items != nil {
			items, err := buildNode(schema.Items, "", path+"[]", depth+1, n, root)
			if err != nil {
				return nil, err
			}
			n.Items = items
		}
	default:
		n.Kind = ScalarKind
		n.ScalarType = primary
		// A string with one of the LazyGraph-specific formats takes the
		// matching extended scalar type (lazyschema.Decimal/Timestamp).
		if primary == TypeString && schema.Format != nil {
			switch *schema.Format {
			case TypeDecimal, TypeTimestamp:
				n.ScalarType = *schema.Format
			}
		}
	}

	n.Simple = n.Kind == ScalarKind && schema.Rule == nil && !n.HasDefault
	if schema.Rule != nil {
		n.Simple = false
	}
	n.schemaRef = schema

	return n, nil
}

// compileRules walks an already fully-built node tree and compiles every
// node's rule descriptor, in a pass separate from buildNode (§4.2): a
// rule's declared inputs may name a sibling or descendant node that
// doesn't exist yet while buildNode is still constructing its own
// enclosing object or array.
func compileRules(n *Node) error {
	if n.schemaRef != nil && n.schemaRef.Rule != nil {
		rule, err := compileRuleDescriptor(n, n.schemaRef.Rule, n.schemaRef.RuleLocation)
		if err != nil {
			return err
		}
		n.Rule = rule
	}
	for _, name := range n.PropertyOrder {
		if err := compileRules(n.Properties[name]); err != nil {
			return err
		}
	}
	for _, pp := range n.PatternProperties {
		if err := compileRules(pp.Node); err != nil {
			return err
		}
	}
	if n.Items != nil {
		if err := compileRules(n.Items); err != nil {
			return err
		}
	}
	return nil
}

func buildObjectChildren(n *Node, schema *schemavalidate.Schema, root *Node) error {
	if schema.Properties != nil {
		n.Properties = make(map[string]*Node, len(*schema.Properties))
		for propName, propSchema := range *schema.Properties {
			child, err := buildNode(propSchema, propName, n.Path+"."+propName, n.Depth+1, n, root)
			if err != nil {
				return fmt.Errorf("property %q: %w", propName, err)
			}
			n.Properties[propName] = child
			n.PropertyOrder = append(n.PropertyOrder, propName)
		}
	}
	if schema.PatternProperties != nil {
		for pattern, propSchema := range *schema.PatternProperties {
			re, err := regexp.Compile(pattern)
			if err != nil {
				return fmt.Errorf("patternProperties %q: %w", pattern, err)
			}
			child, err := buildNode(propSchema, pattern, n.Path+"["+pattern+"]", n.Depth+1, n, root)
			if err != nil {
				return fmt.Errorf("patternProperties %q: %w", pattern, err)
			}
			n.PatternProperties = append(n.PatternProperties, PatternProperty{Pattern: re, Node: child})
		}
	}
	return nil
}

// primarySchemaType returns the schema's first declared type, or "" for
// an untyped schema (treated as scalar/any).
func primarySchemaType(schema *schemavalidate.Schema) string {
	if len(schema.Type) > 0 {
		return schema.Type[0]
	}
	return ""
}

// lookupChild finds an existing child of an object node by exact property
// name, then by the first matching patternProperties regex.
func (n *Node) lookupChild(key string) *Node {
	if n.Properties != nil {
		if child, ok := n.Properties[key]; ok {
			return child
		}
	}
	for _, pp := range n.PatternProperties {
		if pp.Pattern.MatchString(key) {
			return pp.Node
		}
	}
	return nil
}

// synthesizeNode builds an untyped, simple, rule-less node on the fly for
// an input key that has no corresponding schema position (§4.3, Object
// node / Part / "lazily synthesize a node of the right kind").
func synthesizeNode(parent *Node, key string, value any) *Node {
	n := &Node{
		Name:   key,
		Path:   parent.Path + "." + key,
		Depth:  parent.Depth + 1,
		Parent: parent,
		Root:   parent.Root,
		Simple: true,
	}
	switch value.(type) {
	case map[string]any:
		n.Kind = ObjectKind
		n.Simple = false
	case []any:
		n.Kind = ArrayKind
		n.Simple = false
	default:
		n.Kind = ScalarKind
	}
	return n
}
