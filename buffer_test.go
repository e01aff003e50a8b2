package streamxml

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// chunkSource hands out fixed-size chunks of a fixed byte slice, one Refill
// call at a time - used to force partial-match-across-refill behavior
// regardless of the cursor's internal buffer size.
type chunkSource struct {
	data      []byte
	chunkSize int
	pos       int
}

func (s *chunkSource) Refill(dst []byte) (int, error) {
	if s.pos >= len(s.data) {
		return 0, nil
	}
	n := s.chunkSize
	if n > len(dst) {
		n = len(dst)
	}
	if s.pos+n > len(s.data) {
		n = len(s.data) - s.pos
	}
	copy(dst, s.data[s.pos:s.pos+n])
	s.pos += n
	return n, nil
}

func newTestCursor(t *testing.T, data string, chunkSize int) *cursor {
	t.Helper()
	c := newCursor(bufferGranularity)
	c.bind(&chunkSource{data: []byte(data), chunkSize: chunkSize})
	return c
}

func TestCursorPeekGetc(t *testing.T) {
	c := newTestCursor(t, "ab", 1)
	b, ok := c.peek()
	require.True(t, ok)
	require.Equal(t, byte('a'), b)
	b, ok = c.getc()
	require.True(t, ok)
	require.Equal(t, byte('a'), b)
	b, ok = c.getc()
	require.True(t, ok)
	require.Equal(t, byte('b'), b)
	_, ok = c.getc()
	require.False(t, ok)
}

func TestCursorSkipIf(t *testing.T) {
	c := newTestCursor(t, "xy", 4)
	require.False(t, c.skipIf(isEq('y')))
	require.True(t, c.skipIf(isEq('x')))
	require.True(t, c.skipIf(isEq('y')))
	_, ok := c.peek()
	require.False(t, ok)
}

func TestCursorSeek(t *testing.T) {
	c := newTestCursor(t, "abc>def", 3)
	b, ok := c.seek(isEq('>'), true)
	require.True(t, ok)
	require.Equal(t, byte('>'), b)
	b, ok = c.getc()
	require.True(t, ok)
	require.Equal(t, byte('d'), b)
}

// TestMatchLiteralPartialAcrossRefill is the single most important cursor
// contract (spec.md §4.2): a literal match interrupted by buffer exhaustion
// resumes transparently.
func TestMatchLiteralPartialAcrossRefill(t *testing.T) {
	for chunk := 1; chunk <= 6; chunk++ {
		c := newTestCursor(t, "-->rest", chunk)
		n := c.matchLiteral([]byte("-->"))
		require.Equal(t, 3, n, "chunk size %d", chunk)
		b, ok := c.getc()
		require.True(t, ok)
		require.Equal(t, byte('r'), b)
	}
}

func TestMatchLiteralMismatch(t *testing.T) {
	c := newTestCursor(t, "-x", 1)
	n := c.matchLiteral([]byte("--"))
	require.Equal(t, 1, n)
	b, ok := c.peek()
	require.True(t, ok)
	require.Equal(t, byte('x'), b)
}

func TestAppendSeek(t *testing.T) {
	c := newTestCursor(t, "hello<rest", 2)
	var dst []byte
	b, ok := c.appendSeek(isEq('<'), false, &dst, false)
	require.True(t, ok)
	require.Equal(t, byte('<'), b)
	require.Equal(t, "hello", string(dst))
	next, ok := c.peek()
	require.True(t, ok)
	require.Equal(t, byte('<'), next)
}

func TestAppendMatchLiteralAcrossRefill(t *testing.T) {
	for chunk := 1; chunk <= 5; chunk++ {
		c := newTestCursor(t, "]]>tail", chunk)
		var dst []byte
		n := c.appendMatchLiteral([]byte("]]>"), &dst)
		require.Equal(t, 3, n, "chunk size %d", chunk)
		require.Equal(t, "]]>", string(dst))
	}
}

func TestBytesConsumed(t *testing.T) {
	c := newTestCursor(t, "abcdef", 2)
	require.EqualValues(t, 0, c.bytesConsumed())
	c.getc()
	c.getc()
	c.getc()
	require.EqualValues(t, 3, c.bytesConsumed())
}

func TestRoundUpToGranularity(t *testing.T) {
	require.Equal(t, bufferGranularity, roundUpToGranularity(0))
	require.Equal(t, bufferGranularity, roundUpToGranularity(1))
	require.Equal(t, bufferGranularity, roundUpToGranularity(bufferGranularity))
	require.Equal(t, bufferGranularity*2, roundUpToGranularity(bufferGranularity+1))
}
