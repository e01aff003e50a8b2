package streamxml

import "io"

// Parser is a pull-style streaming XML reader. It owns a reusable byte
// cursor, a path stack tracking currently open elements, and a small set of
// reusable scratch buffers so that a long-running Parser settles into
// steady-state allocation-free operation.
//
// Grounded on original_source/processor.cpp's XmlParser::next for the driver
// algorithm; the public surface otherwise follows the teacher's
// Scanner.Next/Skip naming.
type Parser struct {
	cur  cursor
	path pathStack

	item    ItemType
	text    []byte // raw captured bytes of the current item
	decoded []byte // scratch buffer decodeEntities decodes into
	opts    Options
	errCode ErrorCode
	pendPop bool // a Suffix/SelfClosing was returned; pop path before the next scan
}

// NewParser constructs a Parser with the given internal buffer capacity
// (rounded up to the nearest 64 KiB granule; DefaultBufferSize if size <= 0).
// The Parser is unbound until Bind is called.
func NewParser(size int) *Parser {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &Parser{cur: *newCursor(size)}
}

// Bind attaches source as the byte supply for subsequent Next calls,
// resetting all parse state. Options are left as-is; callers that want
// fresh options should call SetOptions again.
func (p *Parser) Bind(source ByteSource) {
	p.cur.bind(source)
	p.path.clear()
	p.item = Begin
	p.text = p.text[:0]
	p.errCode = ErrOk
	p.pendPop = false
}

// Release detaches the current source without touching buffered state,
// letting the Parser (and its buffer) be reused for a different source via
// Bind.
func (p *Parser) Release() {
	p.cur.release()
}

// Options returns the Parser's current option bitset.
func (p *Parser) Options() Options {
	return p.opts
}

// SetOptions replaces the Parser's option bitset. Options are applied when
// Text is called, so the change also affects the current item's Text.
func (p *Parser) SetOptions(opts Options) {
	p.opts = opts
}

// Item returns the type of the item the Parser is currently positioned on.
func (p *Parser) Item() ItemType {
	return p.item
}

func (p *Parser) IsPrefix() bool      { return p.item == Prefix }
func (p *Parser) IsSuffix() bool      { return p.item == Suffix }
func (p *Parser) IsSelfClosing() bool { return p.item == SelfClosing }
func (p *Parser) IsElement() bool     { return p.item == Prefix || p.item == Suffix || p.item == SelfClosing }
func (p *Parser) IsElementEnd() bool  { return p.item.IsElementEnd() }
func (p *Parser) IsEscapedText() bool { return p.item == EscapedText }
func (p *Parser) IsCData() bool       { return p.item == CData }
func (p *Parser) IsText() bool        { return p.item == EscapedText || p.item == CData }
func (p *Parser) IsPI() bool          { return p.item == PI }
func (p *Parser) IsComment() bool     { return p.item == Comment }
func (p *Parser) IsDTD() bool         { return p.item == DTD }
func (p *Parser) IsEnd() bool         { return p.item == End }

// Depth returns the nesting level associated with the current item
// (spec.md §9 Q2 / §8 scenarios 1 and 3). A SelfClosing item is pushed like
// a Prefix, so it is reported at the depth it was momentarily entered at
// (scenario 3: max depth observed across "<a><b/></a>" is 2, at the
// SelfClosing "<b/>"); a Suffix is reported one level shallower than the
// path stack's raw size, since the element it closes is considered exited
// as soon as the Suffix item is produced even though the stack pop itself
// is deferred to the start of the following Next call (scenario 1: depth
// after "</a>" is 0, not 1).
func (p *Parser) Depth() int {
	d := p.path.depth()
	if p.item == Suffix {
		d--
	}
	return d
}

// Eof reports whether the Parser has reached End.
func (p *Parser) Eof() bool {
	return p.item == End
}

// Err returns the sticky ErrorCode; ErrOk until a failure occurs, after
// which it never changes until the next Bind.
func (p *Parser) Err() ErrorCode {
	return p.errCode
}

// Error returns a *ParseError describing the sticky failure, or nil if
// Err() is ErrOk. For ErrReadFailed it wraps the ByteSource's own error.
func (p *Parser) Error() error {
	if p.errCode == ErrOk {
		return nil
	}
	return &ParseError{Code: p.errCode, Cause: p.cur.err}
}

// BytesConsumed reports how many bytes of the bound source have been
// consumed so far (original_source/processor.h's byte-accounting surface,
// absent from the teacher, added per SPEC_FULL.md §12).
func (p *Parser) BytesConsumed() int64 {
	return p.cur.bytesConsumed()
}

// Text returns the current item's text. For EscapedText, entities are
// decoded unless KeepEntities is set. For CData, the "<![CDATA[" / "]]>"
// wrapper is stripped unless KeepCDataMarkers is set. Every other item type
// returns its full literal form (e.g. Comment includes "<!--" and "-->").
func (p *Parser) Text() []byte {
	switch p.item {
	case EscapedText:
		if p.opts.Has(KeepEntities) {
			return p.text
		}
		p.decoded = decodeEntities(p.decoded, p.text)
		return p.decoded
	case CData:
		if p.opts.Has(KeepCDataMarkers) {
			return p.text
		}
		if len(p.text) < len(cdataPrefix)+len(cdataSuffix) {
			return nil
		}
		return p.text[len(cdataPrefix) : len(p.text)-len(cdataSuffix)]
	default:
		return p.text
	}
}

// Name returns the current start-tag or end-tag's element name. Valid only
// when Item is Prefix, Suffix, or SelfClosing.
func (p *Parser) Name() Name {
	if p.item == Suffix && len(p.text) > 0 {
		// "</a>"[1:] is "/a>": splitTag skips its first byte, here the '/'.
		return tagName(p.text[1:])
	}
	return tagName(p.text)
}

// HasAttrs reports whether the current start-tag (Prefix or SelfClosing)
// carries at least one attribute.
func (p *Parser) HasAttrs() bool {
	return tagHasAttributes(p.text)
}

// Attrs parses and returns every attribute of the current start-tag.
func (p *Parser) Attrs() []Attr {
	return tagAttrs(p.text)
}

// Path returns the start-tag text of the ancestor at depth i+1 (1-based
// from the document root); Path(Depth()-1) is the element the Parser is
// currently inside of. Returns nil if i is out of range.
func (p *Parser) Path(i int) []byte {
	return p.path.at(i)
}

// PathName is a convenience wrapper returning the parsed Name at path depth
// i, per Path.
func (p *Parser) PathName(i int) Name {
	tag := p.path.at(i)
	if tag == nil {
		return Name{}
	}
	return tagName(tag)
}

// Next advances the Parser to the next item, per spec.md §4.6's driver
// algorithm:
//  1. if already End, stay End;
//  2. if the previous item was Suffix or SelfClosing, pop the path first;
//  3. skip a run of ASCII whitespace (bytes <= 0x20); EOF here ends the
//     document - UnmatchedEndTag if any element is still open;
//  4. if the next byte is '<', scan a tag and classify it: a start-tag or
//     self-closing tag is pushed onto the path; an end-tag at depth 0 is
//     UnmatchedEndTag; everything else is returned as-is;
//  5. otherwise scan character data: at depth 0 it is prolog/epilog filler
//     and is discarded, re-entering step 1; at depth > 0 it is returned as
//     EscapedText.
func (p *Parser) Next() ItemType {
	if p.item == End {
		return p.item
	}
	if p.pendPop {
		p.path.pop()
		p.pendPop = false
	}

	for {
		p.text = p.text[:0]
		if !p.skipWhitespace() {
			if p.cur.err != nil {
				return p.fail(ErrReadFailed)
			}
			if !p.path.isEmpty() {
				return p.fail(ErrUnmatchedEndTag)
			}
			return p.finish(End)
		}

		depth := p.path.depth()
		b, _ := p.cur.peek() // guaranteed present: skipWhitespace only returns true when so
		if b == '<' {
			return p.nextTag(depth)
		}

		item := scanText(&p.cur, &p.text)
		if item == End {
			if p.cur.err != nil {
				return p.fail(ErrReadFailed)
			}
			return p.finish(End)
		}
		if depth == 0 {
			continue // prolog/epilog character data: discard and retry
		}
		return p.finish(item)
	}
}

// skipWhitespace advances the cursor past a run of bytes <= 0x20. Returns
// false at EOF (with nothing further to read).
func (p *Parser) skipWhitespace() bool {
	for {
		b, ok := p.cur.peek()
		if !ok {
			return false
		}
		if !isWhitespace(b) {
			return true
		}
		p.cur.getc()
	}
}

// nextTag scans and classifies a tag/comment/PI/CDATA/DTD item starting at
// '<', updating the path stack as spec.md §4.6 step 5 requires. depth is the
// path depth observed before this item (used by the scanner to decide
// whether "<![CDATA[" is legal).
func (p *Parser) nextTag(depth int) ItemType {
	item := scanTag(&p.cur, &p.text, depth)
	switch item {
	case End:
		if p.cur.err != nil {
			return p.fail(ErrReadFailed)
		}
		return p.fail(ErrUnclosedTag)
	case Prefix:
		p.path.push(p.text)
		return p.finish(item)
	case SelfClosing:
		p.path.push(p.text)
		p.pendPop = true
		return p.finish(item)
	case Suffix:
		if depth == 0 {
			return p.fail(ErrUnmatchedEndTag)
		}
		p.pendPop = true
		return p.finish(item)
	default: // CData, PI, Comment, DTD
		return p.finish(item)
	}
}

// effectiveDepth is the path depth the Parser will settle at once any
// pending pop (following a Suffix or SelfClosing) is applied - i.e. the
// nesting level the current item logically belongs to.
func (p *Parser) effectiveDepth() int {
	d := p.path.depth()
	if p.item == Suffix || p.item == SelfClosing {
		d--
	}
	return d
}

func (p *Parser) finish(item ItemType) ItemType {
	p.item = item
	return item
}

func (p *Parser) fail(code ErrorCode) ItemType {
	p.errCode = code
	p.item = End
	return End
}

// NextWithin advances until either Next reaches End, or the current item is
// an element-end (Suffix or SelfClosing) whose effective depth has fallen to
// level or below - a generalization of SkipElement, grounded on the
// teacher's Scanner.Skip (which always skips exactly one nesting level).
func (p *Parser) NextWithin(level int) ItemType {
	for {
		item := p.Next()
		if item == End {
			return item
		}
		if (item == Suffix || item == SelfClosing) && p.effectiveDepth() <= level {
			return item
		}
	}
}

// SkipElement discards every item belonging to the element the Parser just
// entered (Item() must be Prefix), stopping once that element's matching
// Suffix (or its own SelfClosing collapse) has been consumed.
func (p *Parser) SkipElement() ItemType {
	target := p.path.depth() - 1
	return p.NextWithin(target)
}

// WriteItem writes the current item's bytes (per Text(), so entity/marker
// handling applies) to sink on channel, then advances to the next item, per
// spec.md §6's "write_item(sink, channel) -> bool" (write, then next()). The
// bool that operation returns is realized here as a nil-vs-non-nil error:
// called while the Parser is already at End, WriteItem writes nothing and
// returns the sticky *ParseError, or io.EOF after a clean end, so a caller
// drives the stream with `for p.WriteItem(sink, 0) == nil { ... }`.
func (p *Parser) WriteItem(sink Sink, channel int) error {
	if p.item == End {
		if err := p.Error(); err != nil {
			return err
		}
		return io.EOF
	}
	if err := p.writeCurrent(sink, channel); err != nil {
		return err
	}
	p.Next()
	return nil
}

// writeCurrent writes the current item's bytes without advancing. Used by
// WriteElement, which needs to inspect the item it just wrote - its type and
// effective depth - before deciding whether to keep going.
func (p *Parser) writeCurrent(sink Sink, channel int) error {
	return sink.Write(p.Text(), channel)
}

// WriteElement writes every item of the element the Parser is currently
// positioned on the Prefix of - including the Prefix itself and the
// terminating Suffix/SelfClosing - to sink on channel, leaving the Parser
// positioned on that terminating item (mirroring SkipElement's contract).
func (p *Parser) WriteElement(sink Sink, channel int) error {
	if err := p.writeCurrent(sink, channel); err != nil {
		return err
	}
	if p.item == SelfClosing {
		return nil
	}
	target := p.path.depth() - 1
	for {
		item := p.Next()
		if item == End {
			return nil
		}
		if err := p.writeCurrent(sink, channel); err != nil {
			return err
		}
		if (item == Suffix || item == SelfClosing) && p.effectiveDepth() <= target {
			return nil
		}
	}
}
