package lazygraph

import (
	"hash/fnv"
	"strconv"
	"strings"
)

// Segment is a single element of a Path: either a Part (a plain name or
// integer index) or a Group (a bracketed, comma-separated set of Paths
// evaluated together and merged by key).
type Segment interface {
	segment()
	String() string
}

// Part is a single path component: a property name, an integer index, or
// the absolute-root marker "$".
type Part struct {
	Name  string
	Index bool // true iff Name is an integer literal
}

func (*Part) segment() {}

func (p *Part) String() string { return p.Name }

// IntIndex returns the integer value of an index Part; ok is false for
// non-index parts or unparsable names.
func (p *Part) IntIndex() (int, bool) {
	if !p.Index {
		return 0, false
	}
	n, err := strconv.Atoi(p.Name)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Group is a bracketed set of alternative sub-paths, all of which are
// evaluated and combined; AllIndex() is true iff every option is itself a
// single index Part.
type Group struct {
	Options []*Path
}

func (*Group) segment() {}

func (g *Group) String() string {
	parts := make([]string, len(g.Options))
	for i, o := range g.Options {
		parts[i] = o.String()
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// AllIndex reports whether every option in the group is a single,
// index Part segment.
func (g *Group) AllIndex() bool {
	for _, o := range g.Options {
		if len(o.Parts) != 1 {
			return false
		}
		part, ok := o.Parts[0].(*Part)
		if !ok || !part.Index {
			return false
		}
	}
	return true
}

// Path is a parsed sequence of Segments. The zero Path (nil Parts) is
// Path::BLANK — the empty path, which resolves to "the node itself".
type Path struct {
	Parts []Segment
}

// Empty reports whether the path has no remaining segments.
func (p *Path) Empty() bool {
	return p == nil || len(p.Parts) == 0
}

// Segment returns the first segment of the path, or nil if empty.
func (p *Path) Segment() Segment {
	if p.Empty() {
		return nil
	}
	return p.Parts[0]
}

// Next returns the path with its first segment removed.
func (p *Path) Next() *Path {
	if p.Empty() {
		return &Path{}
	}
	return &Path{Parts: p.Parts[1:]}
}

// Absolute reports whether the path's first segment is the root marker "$".
func (p *Path) Absolute() bool {
	if p.Empty() {
		return false
	}
	part, ok := p.Parts[0].(*Part)
	return ok && strings.HasPrefix(part.Name, "$")
}

// String renders the path back to its source syntax, dot-separated with
// bracketed groups — used by Identity and by round-trip tests.
func (p *Path) String() string {
	if p.Empty() {
		return ""
	}
	var b strings.Builder
	for i, seg := range p.Parts {
		switch seg.(type) {
		case *Group:
			// A bracketed group attaches directly to whatever precedes it,
			// never behind a '.' ("a[0]", not "a.[0]").
			b.WriteString(seg.String())
		default:
			// Every other segment, other than the first, was necessarily
			// introduced by a '.' in the grammar — including one that
			// follows a group ("a[0].b") — so it must be re-emitted here.
			if i > 0 {
				b.WriteString(".")
			}
			b.WriteString(seg.String())
		}
	}
	return b.String()
}

// Identity is an order-dependent hash of the path's rendered form, used as
// half of the resolver's per-node memoization key.
func (p *Path) Identity() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(p.String()))
	return h.Sum64()
}

// Merge appends other's segments after this path's segments, producing a
// fresh Path. Used when rewriting a dynamic-index rule input's remaining
// continuation after substituting a resolved index value.
func (p *Path) Merge(other *Path) *Path {
	if p.Empty() {
		return other
	}
	if other.Empty() {
		return p
	}
	parts := make([]Segment, 0, len(p.Parts)+len(other.Parts))
	parts = append(parts, p.Parts...)
	parts = append(parts, other.Parts...)
	return &Path{Parts: parts}
}
