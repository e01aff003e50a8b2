package streamxml

// scanner.go is the lexical item-classification layer: given a *cursor
// positioned at the start of an item, each scanXxx function captures the
// item's raw bytes into dst and returns its ItemType. It never looks at
// Options and only consults depth to decide whether "<![CDATA[" is legal
// (spec.md §4.3); decoding and CDATA-marker stripping are the Parser's job.
//
// Grounded on the teacher's decoder.go (parseElement/parsePotentialDirective/
// parseProcInst) for the per-item grammar, and on original_source/
// processor.cpp's loadTag for the dash/bracket run-tolerant comment/CDATA
// termination and the DTD nested-<> counter.

var (
	dashDash  = []byte("--")
	cdataOpen = []byte("[CDATA[")
)

func isAnyOf(chars ...byte) predicate {
	return func(b byte) bool {
		for _, c := range chars {
			if b == c {
				return true
			}
		}
		return false
	}
}

// scanText captures character data up to (not including) the next '<', or
// to EOF. Entity decoding is not performed here; see decodeEntities, applied
// by the Parser after the item is captured.
func scanText(c *cursor, dst *[]byte) ItemType {
	_, found := c.appendSeek(isEq('<'), false, dst, false)
	if len(*dst) == 0 && !found {
		return End
	}
	return EscapedText
}

// scanTag is entered with the cursor positioned at '<'. It captures the
// full literal tag/comment/PI/CDATA/DTD text and classifies it.
func scanTag(c *cursor, dst *[]byte, depth int) ItemType {
	b, ok := c.getc() // '<', guaranteed present by the caller's peek
	if !ok {
		return End
	}
	*dst = append(*dst, b)
	next, ok := c.peek()
	if !ok {
		return End
	}
	switch next {
	case '/':
		return scanEndTag(c, dst)
	case '?':
		return scanPI(c, dst)
	case '!':
		return scanBang(c, dst, depth)
	default:
		return scanStartTag(c, dst)
	}
}

// scanEndTag captures "</" ... ">".
func scanEndTag(c *cursor, dst *[]byte) ItemType {
	b, ok := c.getc() // '/'
	if !ok {
		return End
	}
	*dst = append(*dst, b)
	if _, ok := c.appendSeek(isEq('>'), true, dst, true); !ok {
		return End
	}
	return Suffix
}

// scanStartTag captures "<name ...>" or "<name .../>", classifying based on
// whether the byte before '>' is '/'.
func scanStartTag(c *cursor, dst *[]byte) ItemType {
	if _, ok := c.appendSeek(isEq('>'), true, dst, true); !ok {
		return End
	}
	if len(*dst) >= 2 && (*dst)[len(*dst)-2] == '/' {
		return SelfClosing
	}
	return Prefix
}

// scanPI captures "?target inst?>"; the cursor is positioned at the '?'.
func scanPI(c *cursor, dst *[]byte) ItemType {
	b, ok := c.getc() // '?'
	if !ok {
		return End
	}
	*dst = append(*dst, b)
	if !scanPIBody(c, dst) {
		return End
	}
	return PI
}

// scanPIBody appends up to and including the terminating "?>", tolerating
// lone '?' bytes that are not followed by '>'.
func scanPIBody(c *cursor, dst *[]byte) bool {
	for {
		if _, ok := c.appendSeek(isEq('?'), true, dst, true); !ok {
			return false
		}
		b, ok := c.peek()
		if !ok {
			return false
		}
		if b == '>' {
			c.getc()
			*dst = append(*dst, '>')
			return true
		}
	}
}

// scanCommentBody appends up to and including the terminating "-->",
// tolerating runs of '-' (spec.md B2: "------>" terminates at the final
// "-->").
func scanCommentBody(c *cursor, dst *[]byte) ItemType {
	for {
		if _, ok := c.appendSeek(isEq('-'), true, dst, true); !ok {
			return End
		}
		var b byte
		var ok bool
		run := 1 // dashes seen so far in this run
		for {
			b, ok = c.getc()
			if !ok {
				return End
			}
			*dst = append(*dst, b)
			if b != '-' {
				break
			}
			run++
		}
		if b == '>' && run >= 2 {
			return Comment
		}
	}
}

// scanCDataBody appends up to and including the terminating "]]>",
// tolerating runs of ']'.
func scanCDataBody(c *cursor, dst *[]byte) ItemType {
	for {
		if _, ok := c.appendSeek(isEq(']'), true, dst, true); !ok {
			return End
		}
		var b byte
		var ok bool
		run := 1 // ']' bytes seen so far in this run
		for {
			b, ok = c.getc()
			if !ok {
				return End
			}
			*dst = append(*dst, b)
			if b != ']' {
				break
			}
			run++
		}
		if b == '>' && run >= 2 {
			return CData
		}
	}
}

// scanBang is entered with "<" already appended to dst and the cursor
// positioned at the '!', which it consumes and appends. It dispatches to comment, CDATA (only legal at
// depth > 0), or DTD recognition, per spec.md §4.3.
func scanBang(c *cursor, dst *[]byte, depth int) ItemType {
	b, ok := c.getc() // '!'
	if !ok {
		return End
	}
	*dst = append(*dst, b)

	if m := c.appendMatchLiteral(dashDash, dst); m == len(dashDash) {
		return scanCommentBody(c, dst)
	} else if depth > 0 && m == 0 {
		if m2 := c.appendMatchLiteral(cdataOpen, dst); m2 == len(cdataOpen) {
			return scanCDataBody(c, dst)
		}
		// partial/no match: those bytes are already appended, fall through to DTD
	}
	return scanDTD(c, dst)
}

// scanDTD captures a "<!...>" directive, counting nested "<...>" pairs per
// spec.md §4.3 and original_source/processor.cpp's loadTag: a nested "<!--"
// re-enters comment recognition, a nested "<?" re-enters PI recognition, and
// any other byte just counts as one more nested open. A "<!" that is not
// actually a comment opener does not increment the nesting counter - this
// mirrors a quirk already present in the original chunked reader rather than
// inventing stricter behavior spec.md does not ask for.
func scanDTD(c *cursor, dst *[]byte) ItemType {
	nested := 1
	for {
		b, ok := c.appendSeek(isAnyOf('<', '>'), true, dst, true)
		if !ok {
			return End
		}
		if b == '<' {
			nb, ok := c.getc()
			if !ok {
				return End
			}
			*dst = append(*dst, nb)
			switch nb {
			case '!':
				if m := c.appendMatchLiteral(dashDash, dst); m == len(dashDash) {
					if scanCommentBody(c, dst) == End {
						return End
					}
				}
			case '?':
				if !scanPIBody(c, dst) {
					return End
				}
			default:
				nested++
			}
			continue
		}
		// b == '>'
		nested--
		if nested == 0 {
			return DTD
		}
	}
}
