package streamxml

import (
	"bytes"
	"errors"
	"strconv"
	"unicode/utf8"
)

// namedEntity resolves the five predefined XML character references. Unlike
// the teacher's full HTML entity table (borrowed from encoding/xml), spec.md
// §4.4 recognizes exactly these five plus numeric references - no custom
// DTD entities, per spec.md §1's "no DTD processing" non-goal.
func namedEntity(name []byte) (string, bool) {
	switch string(name) {
	case "quot":
		return "\"", true
	case "amp":
		return "&", true
	case "apos":
		return "'", true
	case "lt":
		return "<", true
	case "gt":
		return ">", true
	default:
		return "", false
	}
}

// numericEntity parses the body of a "#N" or "#xN" reference (the bytes
// between '#' and ';'). Hex digits are case-insensitive per spec.md §4.4.
func numericEntity(body []byte) (rune, bool) {
	if len(body) < 2 || body[0] != '#' {
		return 0, false
	}
	digits := body[1:]
	base := 10
	if digits[0] == 'x' || digits[0] == 'X' {
		base = 16
		digits = digits[1:]
	}
	if len(digits) == 0 {
		return 0, false
	}
	val, err := strconv.ParseUint(string(digits), base, 32)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			// Valid digits, but too large for 32 bits: out of range.
			return utf8.RuneError, true
		}
		return 0, false
	}
	return rune(val), true
}

// decodeEntities folds every "&name;"/"&#N;"/"&#xN;" reference in src into
// its UTF-8 equivalent, appending the result to dst[:0] and returning it
// (callers pass a reusable scratch buffer and keep the returned slice for
// the next call - see Parser.Text). Any "&...;" whose body isn't recognized, and
// any bare '&' with no ';' before the end of src, is copied through
// unchanged, including the delimiters - spec.md §4.4's passthrough rule.
// An out-of-range numeric reference (code point >= 0x110000, or a malformed
// surrogate) is encoded as U+FFFD via utf8.EncodeRune, which is deterministic
// but otherwise unspecified per spec.md §9 Q4.
func decodeEntities(dst []byte, src []byte) []byte {
	dst = dst[:0]
	if bytes.IndexByte(src, '&') == -1 {
		return append(dst, src...)
	}
	var enc [utf8.UTFMax]byte
	i := 0
	for i < len(src) {
		amp := bytes.IndexByte(src[i:], '&')
		if amp == -1 {
			return append(dst, src[i:]...)
		}
		amp += i
		dst = append(dst, src[i:amp]...)
		semi := bytes.IndexByte(src[amp:], ';')
		if semi == -1 {
			// No terminator before the end of this fragment: pass the rest
			// through verbatim. Entity decoding never spans item boundaries.
			return append(dst, src[amp:]...)
		}
		semi += amp
		body := src[amp+1 : semi]
		switch {
		case len(body) > 0 && body[0] == '#':
			if r, ok := numericEntity(body); ok {
				n := utf8.EncodeRune(enc[:], r)
				dst = append(dst, enc[:n]...)
			} else {
				dst = append(dst, src[amp:semi+1]...)
			}
		default:
			if repl, ok := namedEntity(body); ok {
				dst = append(dst, repl...)
			} else {
				dst = append(dst, src[amp:semi+1]...)
			}
		}
		i = semi + 1
	}
	return dst
}
