package streamxml

// bufferGranularity is the alignment unit a requested buffer capacity is
// rounded up to, mirroring the chunked reader's buffer_gran constant.
const bufferGranularity = 1 << 16 // 64 KiB

// DefaultBufferSize is the capacity used by NewParser when none is given.
const DefaultBufferSize = bufferGranularity * 4 // 256 KiB

// roundUpToGranularity rounds n up to the next multiple of bufferGranularity,
// never below one granule.
func roundUpToGranularity(n int) int {
	if n <= 0 {
		return bufferGranularity
	}
	return (n + bufferGranularity - 1) &^ (bufferGranularity - 1)
}

// predicate classifies a single byte; used by cursor.seek/skipIf/appendSeek.
type predicate func(byte) bool

func isEq(want byte) predicate {
	return func(b byte) bool { return b == want }
}

func isWhitespace(b byte) bool { return b <= 0x20 }

// cursor is the sliding-window byte cursor. It owns a fixed-capacity buffer
// and two positions within it: head (next byte to read) and limit (one past
// the last valid byte). When the buffer is exhausted it asks the bound
// ByteSource to refill; every cursor primitive crosses buffer boundaries
// transparently, resuming any partial match exactly where it left off. This
// is the one contract the whole parser depends on (spec.md's "byte cursor").
type cursor struct {
	source ByteSource
	buf    []byte
	head   int
	limit  int

	eof bool // source reported clean end-of-input
	err error

	totalRead int64 // cumulative bytes ever returned by Refill
}

func newCursor(capacity int) *cursor {
	return &cursor{buf: make([]byte, roundUpToGranularity(capacity))}
}

// bind attaches a new source, clearing all stream-position state. The
// underlying buffer allocation is reused.
func (c *cursor) bind(source ByteSource) {
	c.source = source
	c.head = 0
	c.limit = 0
	c.eof = false
	c.err = nil
	c.totalRead = 0
}

func (c *cursor) release() {
	c.source = nil
}

// bytesConsumed is the number of bytes the cursor has advanced head past,
// across the lifetime of the current binding. It is monotonically
// non-decreasing for as long as the source keeps producing bytes.
func (c *cursor) bytesConsumed() int64 {
	return c.totalRead - int64(c.limit-c.head)
}

// refill attempts to pull more bytes from the source, relocating any
// pending (unread) bytes to the front of the buffer first. Returns true if
// there is at least one pending byte afterwards, false on clean EOF or a
// read failure (in which case c.err is set and c.eof is true).
func (c *cursor) refill() bool {
	if c.head < c.limit {
		return true
	}
	if c.eof {
		return false
	}
	if c.source == nil {
		c.eof = true
		return false
	}
	pending := c.limit - c.head
	if pending > 0 {
		copy(c.buf[0:pending], c.buf[c.head:c.limit])
	}
	c.head = 0
	c.limit = pending
	n, err := c.source.Refill(c.buf[c.limit:])
	c.totalRead += int64(n)
	c.limit += n
	if n == 0 {
		c.eof = true
		if err != nil {
			c.err = err
		}
		return false
	}
	return true
}

// peek returns the byte at head without advancing, refilling on demand. ok
// is false only at clean end-of-input (or after a read failure).
func (c *cursor) peek() (b byte, ok bool) {
	if c.head >= c.limit && !c.refill() {
		return 0, false
	}
	return c.buf[c.head], true
}

// getc returns peek() and advances head by one if not at EOF.
func (c *cursor) getc() (b byte, ok bool) {
	b, ok = c.peek()
	if ok {
		c.head++
	}
	return
}

// skipIf advances head by one and returns true if the current byte matches
// q; otherwise it leaves head untouched and returns false.
func (c *cursor) skipIf(q predicate) bool {
	b, ok := c.peek()
	if ok && q(b) {
		c.head++
		return true
	}
	return false
}

// seek advances head until the first byte matching q is found or EOF. If
// found and alsoSkip is true, head is advanced one past it.
func (c *cursor) seek(q predicate, alsoSkip bool) (b byte, ok bool) {
	for {
		for c.head < c.limit {
			ch := c.buf[c.head]
			if q(ch) {
				if alsoSkip {
					c.head++
				}
				return ch, true
			}
			c.head++
		}
		if !c.refill() {
			return 0, false
		}
	}
}

// matchLiteral advances head while the upcoming bytes match lit, stopping at
// the first mismatch, end of lit, or genuine stream exhaustion. It returns
// the number of bytes matched; partial matches interrupted by an empty
// buffer transparently refill and resume from where they left off - this is
// the cursor's most important contract.
func (c *cursor) matchLiteral(lit []byte) int {
	matched := 0
	for matched < len(lit) {
		if c.head >= c.limit && !c.refill() {
			return matched
		}
		if c.buf[c.head] != lit[matched] {
			return matched
		}
		c.head++
		matched++
	}
	return matched
}

// appendSeek behaves like seek, but every byte passed over (and, if
// alsoAppend is set, the matched byte itself) is appended to *dst.
func (c *cursor) appendSeek(q predicate, alsoSkip bool, dst *[]byte, alsoAppend bool) (b byte, ok bool) {
	for {
		for c.head < c.limit {
			ch := c.buf[c.head]
			if q(ch) {
				if alsoAppend {
					*dst = append(*dst, ch)
				}
				if alsoSkip {
					c.head++
				}
				return ch, true
			}
			*dst = append(*dst, ch)
			c.head++
		}
		if !c.refill() {
			return 0, false
		}
	}
}

// appendMatchLiteral behaves like matchLiteral, appending every matched byte
// to *dst.
func (c *cursor) appendMatchLiteral(lit []byte, dst *[]byte) int {
	matched := 0
	for matched < len(lit) {
		if c.head >= c.limit && !c.refill() {
			return matched
		}
		if c.buf[c.head] != lit[matched] {
			return matched
		}
		*dst = append(*dst, c.buf[c.head])
		c.head++
		matched++
	}
	return matched
}
