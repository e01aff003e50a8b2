package streamxml

import "bytes"

// pathStack records the full start-tag text of every currently open element
// as a single packed byte buffer plus an offset table, per spec.md §3 and
// §4.5. It is the piece of the original chunked reader (processor.cpp's
// _tags/_path and pushPrefix/popPrefix/getSTagString) the teacher has no
// equivalent of, since the teacher never tracks an ancestor chain.
type pathStack struct {
	tags    []byte
	offsets []int
}

// depth is the number of currently open elements; 0 at document level.
func (p *pathStack) depth() int {
	return len(p.offsets)
}

func (p *pathStack) isEmpty() bool {
	return len(p.offsets) == 0
}

// push appends tag's bytes to the packed buffer and records a new offset.
// Copies tag rather than retaining the caller's slice, since tag is usually
// the parser's reusable text buffer.
func (p *pathStack) push(tag []byte) {
	p.tags = append(p.tags, tag...)
	p.offsets = append(p.offsets, len(p.tags))
}

// pop removes the innermost element, truncating the packed buffer back to
// the new top-of-stack offset.
func (p *pathStack) pop() {
	if len(p.offsets) == 0 {
		return
	}
	p.offsets = p.offsets[:len(p.offsets)-1]
	newEnd := 0
	if len(p.offsets) > 0 {
		newEnd = p.offsets[len(p.offsets)-1]
	}
	p.tags = p.tags[:newEnd]
}

// at returns the stored start-tag text of the element at depth i+1
// (1-based from outermost, i.e. at(0) is the document's root element).
// Out-of-range indices return nil.
func (p *pathStack) at(i int) []byte {
	if i < 0 || i >= len(p.offsets) {
		return nil
	}
	start := 0
	if i > 0 {
		start = p.offsets[i-1]
	}
	return p.tags[start:p.offsets[i]]
}

// clear drops every open element; used when a Parser is rebound to a new
// source.
func (p *pathStack) clear() {
	p.tags = p.tags[:0]
	p.offsets = p.offsets[:0]
}

// isNameByte reports whether b can appear inside an element or attribute
// name (i.e. is not whitespace, '/', '>', or '=').
func isNameByte(b byte) bool {
	return !isWhitespace(b) && b != '/' && b != '>' && b != '='
}

// splitTag separates a stored start-tag's name from its raw attribute
// region (the bytes between the name and the closing '>', minus any
// trailing self-closing '/'). tag must begin with '<' and end with '>'.
func splitTag(tag []byte) (name Name, attrsRegion []byte) {
	if len(tag) < 2 {
		return Name{}, nil
	}
	end := len(tag) - 1 // index of '>'
	if tag[end-1] == '/' {
		end--
	}
	start := 1
	i := start
	for i < end && isNameByte(tag[i]) {
		i++
	}
	name = parseName(tag[start:i])
	for i < end && isWhitespace(tag[i]) {
		i++
	}
	if i < end {
		attrsRegion = tag[i:end]
	}
	return
}

// tagName extracts just the name of a stored start-tag.
func tagName(tag []byte) Name {
	name, _ := splitTag(tag)
	return name
}

// tagHasAttributes reports whether tag's attribute region contains at least
// one "name=value" pair, per spec.md §4.5.
func tagHasAttributes(tag []byte) bool {
	_, region := splitTag(tag)
	if region == nil {
		return false
	}
	eq := bytes.IndexByte(region, '=')
	if eq == -1 {
		return false
	}
	rest := region[eq+1:]
	open := bytes.IndexByte(rest, '"')
	if open == -1 {
		return false
	}
	return bytes.IndexByte(rest[open+1:], '"') != -1
}

// trimTrailingSpace trims ASCII whitespace off the end of b.
func trimTrailingSpace(b []byte) []byte {
	end := len(b)
	for end > 0 && isWhitespace(b[end-1]) {
		end--
	}
	return b[:end]
}

// tagAttrs parses every "name=\"value\"" pair out of tag's attribute
// region. Skips runs of whitespace between pairs; ill-formed attribute
// syntax (a missing '=', opening, or closing quote) silently terminates
// iteration rather than erroring, per spec.md §4.5.
func tagAttrs(tag []byte) []Attr {
	_, region := splitTag(tag)
	return parseAttrs(region)
}

func parseAttrs(region []byte) []Attr {
	var attrs []Attr
	i, n := 0, len(region)
	for i < n {
		for i < n && isWhitespace(region[i]) {
			i++
		}
		if i >= n {
			break
		}
		eq := bytes.IndexByte(region[i:], '=')
		if eq == -1 {
			break
		}
		eq += i
		name := parseName(trimTrailingSpace(region[i:eq]))
		i = eq + 1
		if i >= n || region[i] != '"' {
			break
		}
		i++
		valStart := i
		q := bytes.IndexByte(region[i:], '"')
		if q == -1 {
			break
		}
		valEnd := i + q
		attrs = append(attrs, Attr{Name: name, Value: region[valStart:valEnd]})
		i = valEnd + 1
	}
	return attrs
}
