package lazygraph

import (
	"strconv"
	"strings"
)

// ParsePath parses a query or dependency path string into a Path. When
// stripRoot is true, a leading "$." is removed before parsing, so absolute
// dependency paths can be written the same way queries are. An empty
// input (after stripping) produces Path::BLANK — the zero Path.
//
// Grammar:
//
//	path    := segment ( '.' segment | '[' group ']' )*
//	segment := ident | integer | range
//	range   := ident ('..'|'...') ident
//	group   := elem (',' elem)*
//	elem    := path
func ParsePath(input string, stripRoot bool) (*Path, error) {
	s := input
	if stripRoot && strings.HasPrefix(s, "$.") {
		s = s[2:]
	}
	if s == "" {
		return &Path{}, nil
	}
	p := &pathParser{runes: []rune(s), src: input}
	path, err := p.parsePath()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.runes) {
		return nil, &ParseError{Input: input, Reason: "unbalanced brackets"}
	}
	return path, nil
}

type pathParser struct {
	runes []rune
	pos   int
	src   string
}

func (p *pathParser) peek() rune {
	if p.pos >= len(p.runes) {
		return 0
	}
	return p.runes[p.pos]
}

// parsePath consumes a full path: a leading segment, then any run of
// '.'segment or '['group']' suffixes. It stops (without error) at a comma
// or closing bracket, which lets it double as the "elem" production inside
// a group — the caller there is parseGroup.
func (p *pathParser) parsePath() (*Path, error) {
	seg, err := p.parseSegment()
	if err != nil {
		return nil, err
	}
	parts := []Segment{seg}
	for {
		switch p.peek() {
		case '.':
			p.pos++
			seg, err := p.parseSegment()
			if err != nil {
				return nil, err
			}
			parts = append(parts, seg)
		case '[':
			p.pos++
			grp, err := p.parseGroup()
			if err != nil {
				return nil, err
			}
			if p.peek() != ']' {
				return nil, &ParseError{Input: p.src, Reason: "unbalanced brackets"}
			}
			p.pos++
			parts = append(parts, grp)
		default:
			return &Path{Parts: parts}, nil
		}
	}
}

// parseGroup splits on top-level commas (bracket depth is tracked by
// recursing through parsePath, which itself stops at ',' and ']').
func (p *pathParser) parseGroup() (*Group, error) {
	var options []*Path
	for {
		elem, err := p.parsePath()
		if err != nil {
			return nil, err
		}
		options = append(options, elem)
		if p.peek() == ',' {
			p.pos++
			continue
		}
		break
	}
	return &Group{Options: options}, nil
}

// parseSegment reads one "ident | integer | range" production.
func (p *pathParser) parseSegment() (Segment, error) {
	lo, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	if exclusive, ok := p.matchRangeOp(); ok {
		hi, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		return expandRange(lo, hi, exclusive), nil
	}
	return &Part{Name: lo, Index: isIntegerLiteral(lo)}, nil
}

// parseIdent reads a run of characters up to the next structural
// character: '.', '[', ']', ','.
func (p *pathParser) parseIdent() (string, error) {
	start := p.pos
	if p.peek() == '$' {
		p.pos++
	}
	for p.pos < len(p.runes) {
		switch p.runes[p.pos] {
		case '.', '[', ']', ',':
			goto done
		}
		p.pos++
	}
done:
	if p.pos == start {
		return "", &ParseError{Input: p.src, Reason: "expected a path segment"}
	}
	return string(p.runes[start:p.pos]), nil
}

// matchRangeOp consumes ".." or "..." at the current position, returning
// whether the upper bound is exclusive. A single '.' is left untouched —
// it is the ordinary segment separator.
func (p *pathParser) matchRangeOp() (exclusive bool, matched bool) {
	if p.peek() != '.' {
		return false, false
	}
	n := 0
	for p.pos+n < len(p.runes) && p.runes[p.pos+n] == '.' {
		n++
	}
	switch {
	case n >= 3:
		p.pos += 3
		return true, true
	case n == 2:
		p.pos += 2
		return false, true
	default:
		return false, false
	}
}

func isIntegerLiteral(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.Atoi(s)
	return err == nil
}

// expandRange turns "lo..hi" / "lo...hi" into a Group of single-Part
// options. When both bounds are integers, it expands to the full
// inclusive (or, for "...", upper-exclusive) run of index Parts. Bounds
// that aren't integers aren't numerically enumerable, so the range
// degenerates to its two named endpoints as a two-option group.
func expandRange(lo, hi string, exclusive bool) Segment {
	loI, loErr := strconv.Atoi(lo)
	hiI, hiErr := strconv.Atoi(hi)
	if loErr == nil && hiErr == nil {
		upper := hiI
		if exclusive {
			upper--
		}
		var options []*Path
		for i := loI; i <= upper; i++ {
			options = append(options, &Path{Parts: []Segment{&Part{Name: strconv.Itoa(i), Index: true}}})
		}
		return &Group{Options: options}
	}
	return &Group{Options: []*Path{
		{Parts: []Segment{&Part{Name: lo, Index: isIntegerLiteral(lo)}}},
		{Parts: []Segment{&Part{Name: hi, Index: isIntegerLiteral(hi)}}},
	}}
}
